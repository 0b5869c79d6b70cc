package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/grading"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoredFile 已写入存储的文件
type StoredFile struct {
	Path      string
	URL       string
	Duration  int
	Thumbnail string
}

// ContentService 课程视频、PDF 和测试材料的上传与删除
type ContentService struct {
	DB          *gorm.DB
	CourseRepo  *repository.CourseRepository
	ContentRepo *repository.ContentRepository
	Storage     *StorageService
	Cfg         *config.Config
}

func NewContentService(db *gorm.DB, courseRepo *repository.CourseRepository, contentRepo *repository.ContentRepository, storage *StorageService, cfg *config.Config) *ContentService {
	return &ContentService{
		DB:          db,
		CourseRepo:  courseRepo,
		ContentRepo: contentRepo,
		Storage:     storage,
		Cfg:         cfg,
	}
}

func (s *ContentService) checkSize(file *multipart.FileHeader) error {
	limit := s.Cfg.Course.MaxUploadMB
	if limit > 0 && file.Size > limit<<20 {
		return fmt.Errorf("%w: %s exceeds %d MB", util.ErrInvalidFileType, file.Filename, limit)
	}
	return nil
}

// openValidated 打开上传文件并校验 MIME 类型，返回的文件已重置到开头
func openValidated(file *multipart.FileHeader, allowed []string) (multipart.File, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	mimeType, err := util.ValidateMimeType(src, allowed)
	if err != nil {
		src.Close()
		return nil, "", fmt.Errorf("%w: %s", util.ErrInvalidFileType, mimeType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		src.Close()
		return nil, "", err
	}
	return src, mimeType, nil
}

// StorePdf 校验并保存 PDF
func (s *ContentService) StorePdf(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	if err := s.checkSize(file); err != nil {
		return nil, err
	}
	src, _, err := openValidated(file, []string{util.MimePDF})
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := util.UniqueFilename(util.DirPdfs, file.Filename)
	url, err := s.Storage.Upload(ctx, name, src, file.Size, util.MimePDF)
	if err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}
	return &StoredFile{Path: name, URL: url}, nil
}

// StoreVideo 保存视频，时长和缩略图通过 ffmpeg 尽力获取
func (s *ContentService) StoreVideo(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	if err := s.checkSize(file); err != nil {
		return nil, err
	}
	if !util.HasExtension(file.Filename, util.AllowedVideoExtensions) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidFileType, filepath.Ext(file.Filename))
	}
	src, mimeType, err := openValidated(file, []string{util.MimeVideo})
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 先落到临时文件供 ffmpeg 读取
	tmp, err := os.CreateTemp("", "upload-*"+strings.ToLower(filepath.Ext(file.Filename)))
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	name := util.UniqueFilename(util.DirVideos, file.Filename)
	url, err := s.Storage.UploadFile(ctx, name, tmpPath, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}
	stored := &StoredFile{Path: name, URL: url}

	if info, err := util.GetVideoInfo(tmpPath); err == nil {
		stored.Duration = info.Seconds()
	} else {
		logger.Log.Warn("Failed to probe video", zap.String("file", file.Filename), zap.Error(err))
	}

	thumbPath := tmpPath + ".jpg"
	defer os.Remove(thumbPath)
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "3"); err != nil {
		logger.Log.Warn("Failed to generate thumbnail", zap.String("file", file.Filename), zap.Error(err))
		return stored, nil
	}
	thumbName := strings.TrimSuffix(util.UniqueFilename(util.DirThumbnails, file.Filename), filepath.Ext(file.Filename)) + ".jpg"
	if thumbURL, err := s.Storage.UploadFile(ctx, thumbName, thumbPath, "image/jpeg"); err == nil {
		stored.Thumbnail = thumbURL
	} else {
		logger.Log.Warn("Failed to store thumbnail", zap.Error(err))
	}
	return stored, nil
}

// StoreTestFile 测试材料可以是 PDF 或图片
func (s *ContentService) StoreTestFile(ctx context.Context, file *multipart.FileHeader) (*StoredFile, string, error) {
	if err := s.checkSize(file); err != nil {
		return nil, "", err
	}
	src, mimeType, err := openValidated(file, []string{util.MimePDF, util.MimeImage})
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	fileType := model.TestFilePDF
	if util.IsImage(mimeType) {
		fileType = model.TestFileImage
	}

	name := util.UniqueFilename(util.DirTests, file.Filename)
	url, err := s.Storage.Upload(ctx, name, src, file.Size, mimeType)
	if err != nil {
		return nil, "", fmt.Errorf("store test file: %w", err)
	}
	return &StoredFile{Path: name, URL: url}, fileType, nil
}

func (s *ContentService) findCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *ContentService) resolveOrder(courseID uint, order int) (int, error) {
	if order > 0 {
		return order, nil
	}
	return s.ContentRepo.NextOrder(courseID)
}

// AddVideo order 为 0 时排在课程末尾
func (s *ContentService) AddVideo(ctx context.Context, courseID uint, title string, order int, file *multipart.FileHeader) (*model.Video, error) {
	if _, err := s.findCourse(courseID); err != nil {
		return nil, err
	}
	order, err := s.resolveOrder(courseID, order)
	if err != nil {
		return nil, err
	}

	stored, err := s.StoreVideo(ctx, file)
	if err != nil {
		return nil, err
	}
	video := &model.Video{
		CourseID:  courseID,
		Title:     contentTitle(title, file.Filename),
		FilePath:  stored.Path,
		FileURL:   stored.URL,
		Duration:  stored.Duration,
		Thumbnail: stored.Thumbnail,
		Order:     order,
	}
	if err := s.ContentRepo.CreateVideo(video); err != nil {
		s.Storage.Cleanup(ctx, stored.Path)
		return nil, err
	}
	return video, nil
}

func (s *ContentService) AddPdf(ctx context.Context, courseID uint, title string, order int, file *multipart.FileHeader) (*model.Pdf, error) {
	if _, err := s.findCourse(courseID); err != nil {
		return nil, err
	}
	order, err := s.resolveOrder(courseID, order)
	if err != nil {
		return nil, err
	}

	stored, err := s.StorePdf(ctx, file)
	if err != nil {
		return nil, err
	}
	pdf := &model.Pdf{
		CourseID: courseID,
		Title:    contentTitle(title, file.Filename),
		FilePath: stored.Path,
		FileURL:  stored.URL,
		Order:    order,
	}
	if err := s.ContentRepo.CreatePdf(pdf); err != nil {
		s.Storage.Cleanup(ctx, stored.Path)
		return nil, err
	}
	return pdf, nil
}

// DeleteVideo 删除视频及其完成记录
func (s *ContentService) DeleteVideo(ctx context.Context, id uint) error {
	video, err := s.ContentRepo.FindVideo(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrContentNotFound
	}
	if err != nil {
		return err
	}
	if err := s.ContentRepo.DeleteVideo(id); err != nil {
		return err
	}
	s.Storage.Cleanup(ctx, video.FilePath)
	return nil
}

func (s *ContentService) DeletePdf(ctx context.Context, id uint) error {
	pdf, err := s.ContentRepo.FindPdf(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrContentNotFound
	}
	if err != nil {
		return err
	}
	if err := s.ContentRepo.DeletePdf(id); err != nil {
		return err
	}
	s.Storage.Cleanup(ctx, pdf.FilePath)
	return nil
}

// validateAnswerKey 答案数量不能少于题目数量，总长度不超过列宽
func validateAnswerKey(key string, questionCount int) error {
	if questionCount <= 0 {
		return fmt.Errorf("%w: question count must be positive", util.ErrInvalidAnswerKey)
	}
	if len(key) > grading.MaxKeyLength {
		return fmt.Errorf("%w: longer than %d characters", util.ErrInvalidAnswerKey, grading.MaxKeyLength)
	}
	if len(grading.ParseKey(key)) < questionCount {
		return util.ErrInvalidAnswerKey
	}
	return nil
}

// UploadTest 上传或替换课程测试材料，旧文件在更新成功后删除
func (s *ContentService) UploadTest(ctx context.Context, courseID uint, file *multipart.FileHeader, answerKey string, questionCount int) (*model.Course, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if err := validateAnswerKey(answerKey, questionCount); err != nil {
		return nil, err
	}

	stored, fileType, err := s.StoreTestFile(ctx, file)
	if err != nil {
		return nil, err
	}

	oldFile := course.TestFile
	course.TestFile = stored.Path
	course.TestFileType = fileType
	course.TestAnswerKey = strings.Join(grading.ParseKey(answerKey), ",")
	course.TestQuestionCount = questionCount
	if err := s.CourseRepo.Update(course); err != nil {
		s.Storage.Cleanup(ctx, stored.Path)
		return nil, err
	}
	if oldFile != "" && oldFile != stored.Path {
		s.Storage.Cleanup(ctx, oldFile)
	}
	return course, nil
}

func contentTitle(title, filename string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
