package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/grading"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/progress"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseInput struct {
	Title             string
	Description       string
	CategoryID        *uint
	CertificateTypeID *uint
	PassingScore      *int
	TestRequired      bool
	UserIDs           []uint
	GroupIDs          []uint
}

// ContentUpload 创建课程时一并上传的内容
type ContentUpload struct {
	Kind  progress.Kind
	Title string
	Order int
	File  *multipart.FileHeader
}

type TestUpload struct {
	File          *multipart.FileHeader
	AnswerKey     string
	QuestionCount int
}

// CourseService 课程的创建、编辑、分配和删除
type CourseService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
	GroupRepo  *repository.GroupRepository
	Content    *ContentService
	Storage    *StorageService
	Cfg        *config.Config
}

func NewCourseService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	groupRepo *repository.GroupRepository,
	content *ContentService,
	storage *StorageService,
	cfg *config.Config,
) *CourseService {
	return &CourseService{
		DB:         db,
		CourseRepo: courseRepo,
		UserRepo:   userRepo,
		GroupRepo:  groupRepo,
		Content:    content,
		Storage:    storage,
		Cfg:        cfg,
	}
}

func (s *CourseService) List() ([]model.Course, error) {
	return s.CourseRepo.List()
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindWithAssignments(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) passingScore(score *int) (int, error) {
	if score == nil {
		return s.Cfg.Course.DefaultPassingScore, nil
	}
	if *score < 0 || *score > 100 {
		return 0, fmt.Errorf("%w: passing score must be between 0 and 100, got %d", util.ErrInvalidInput, *score)
	}
	return *score, nil
}

// assignees 直接指定的用户与分组成员的并集，分组成员在分配时展开
func (s *CourseService) assignees(userIDs, groupIDs []uint) ([]model.User, []model.Group, error) {
	groups, err := s.GroupRepo.FindByIDs(groupIDs)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint, 0, len(groupIDs))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	memberIDs, err := s.GroupRepo.MemberIDs(ids)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[uint]bool)
	all := make([]uint, 0, len(userIDs)+len(memberIDs))
	for _, id := range append(append([]uint{}, userIDs...), memberIDs...) {
		if !seen[id] {
			seen[id] = true
			all = append(all, id)
		}
	}
	users, err := s.UserRepo.FindByIDs(all)
	if err != nil {
		return nil, nil, err
	}
	return users, groups, nil
}

// Create 先保存文件，再在一个事务中写入课程、内容和分配；数据库失败时尽力删除已保存的文件
func (s *CourseService) Create(ctx context.Context, in CourseInput, contents []ContentUpload, test *TestUpload) (*model.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: course title is required", util.ErrInvalidInput)
	}
	score, err := s.passingScore(in.PassingScore)
	if err != nil {
		return nil, err
	}
	if test != nil && test.File != nil {
		if err := validateAnswerKey(test.AnswerKey, test.QuestionCount); err != nil {
			return nil, err
		}
	}

	course := &model.Course{
		Title:             title,
		Description:       strings.TrimSpace(in.Description),
		CategoryID:        in.CategoryID,
		CertificateTypeID: in.CertificateTypeID,
		PassingScore:      score,
		TestRequired:      in.TestRequired,
	}

	var stored []string
	fail := func(err error) (*model.Course, error) {
		s.Storage.Cleanup(ctx, stored...)
		return nil, err
	}

	for i, c := range contents {
		if c.File == nil {
			continue
		}
		order := c.Order
		if order <= 0 {
			order = i + 1
		}
		switch c.Kind {
		case progress.KindVideo:
			f, err := s.Content.StoreVideo(ctx, c.File)
			if err != nil {
				return fail(err)
			}
			stored = append(stored, f.Path)
			course.Videos = append(course.Videos, model.Video{
				Title:     contentTitle(c.Title, c.File.Filename),
				FilePath:  f.Path,
				FileURL:   f.URL,
				Duration:  f.Duration,
				Thumbnail: f.Thumbnail,
				Order:     order,
			})
		case progress.KindPdf:
			f, err := s.Content.StorePdf(ctx, c.File)
			if err != nil {
				return fail(err)
			}
			stored = append(stored, f.Path)
			course.Pdfs = append(course.Pdfs, model.Pdf{
				Title:    contentTitle(c.Title, c.File.Filename),
				FilePath: f.Path,
				FileURL:  f.URL,
				Order:    order,
			})
		default:
			return fail(fmt.Errorf("%w: unknown content type %q", util.ErrInvalidFileType, c.Kind))
		}
	}

	if test != nil && test.File != nil {
		f, fileType, err := s.Content.StoreTestFile(ctx, test.File)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, f.Path)
		course.TestFile = f.Path
		course.TestFileType = fileType
		course.TestAnswerKey = strings.Join(grading.ParseKey(test.AnswerKey), ",")
		course.TestQuestionCount = test.QuestionCount
	}

	users, groups, err := s.assignees(in.UserIDs, in.GroupIDs)
	if err != nil {
		return fail(err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.CourseRepo.WithTx(tx)
		if err := repo.Create(course); err != nil {
			return err
		}
		if err := repo.ReplaceGroups(course, groups); err != nil {
			return err
		}
		return repo.AddAssignedUsers(course, users)
	})
	if err != nil {
		logger.Log.Error("Failed to create course", zap.String("title", title), zap.Error(err))
		return fail(err)
	}

	logger.Log.Info("Course created",
		zap.Uint("courseID", course.ID),
		zap.Int("videos", len(course.Videos)),
		zap.Int("pdfs", len(course.Pdfs)),
	)
	return course, nil
}

// CourseUpdate AssignBy 为 "users" 或 "groups" 时整体替换分配，为空时不修改分配
type CourseUpdate struct {
	CourseInput
	AssignBy string
}

const (
	AssignByUsers  = "users"
	AssignByGroups = "groups"
)

func (s *CourseService) Update(ctx context.Context, id uint, in CourseUpdate) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		course.Title = title
	}
	course.Description = strings.TrimSpace(in.Description)
	course.CategoryID = in.CategoryID
	course.CertificateTypeID = in.CertificateTypeID
	course.TestRequired = in.TestRequired
	if in.PassingScore != nil {
		if course.PassingScore, err = s.passingScore(in.PassingScore); err != nil {
			return nil, err
		}
	}

	var users []model.User
	groups := []model.Group{}
	switch in.AssignBy {
	case AssignByUsers:
		users, err = s.UserRepo.FindByIDs(in.UserIDs)
	case AssignByGroups:
		users, groups, err = s.assignees(nil, in.GroupIDs)
	case "":
	default:
		err = fmt.Errorf("%w: unknown assignment mode %q", util.ErrInvalidInput, in.AssignBy)
	}
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.CourseRepo.WithTx(tx)
		if err := repo.Update(course); err != nil {
			return err
		}
		if in.AssignBy == "" {
			return nil
		}
		if err := repo.ReplaceGroups(course, groups); err != nil {
			return err
		}
		return repo.ReplaceAssignedUsers(course, users)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除课程及所有内容、进度和证书，随后尽力删除文件
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	course, err := s.CourseRepo.FindWithContent(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}

	var certFiles []string
	if err := s.DB.Model(&model.Certificate{}).
		Where("course_id = ? AND generated = ?", id, true).
		Pluck("file_path", &certFiles).Error; err != nil {
		return err
	}

	if err := s.CourseRepo.Delete(id); err != nil {
		return err
	}

	files := []string{course.TestFile}
	for _, v := range course.Videos {
		files = append(files, v.FilePath)
	}
	for _, p := range course.Pdfs {
		files = append(files, p.FilePath)
	}
	s.Storage.Cleanup(ctx, append(files, certFiles...)...)
	logger.Log.Info("Course deleted", zap.Uint("courseID", id))
	return nil
}
