package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"workplace_training_backend/internal/grading"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/progress"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/events"
	"workplace_training_backend/pkg/logger"
	"workplace_training_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseProgress 课程及用户在该课程上的进度
type CourseProgress struct {
	Course   *model.Course    `json:"course"`
	Progress progress.Summary `json:"progress"`
	Next     progress.Item    `json:"next"`
}

type DashboardView struct {
	Courses       []CourseProgress     `json:"courses"`
	Announcements []model.Announcement `json:"announcements"`
}

// UserProgress 管理员查看的单个学员进度
type UserProgress struct {
	User           model.User       `json:"user"`
	Progress       progress.Summary `json:"progress"`
	LastCompletion *time.Time       `json:"lastCompletion,omitempty"`
}

type CourseView struct {
	CourseProgress
	Contents []progress.Item `json:"contents"`
	Users    []UserProgress  `json:"users,omitempty"`
}

type VideoView struct {
	Video      *model.Video        `json:"video"`
	Navigation progress.Navigation `json:"navigation"`
	Record     *model.Progress     `json:"record,omitempty"`
	Progress   progress.Summary    `json:"progress"`
	Next       progress.Item       `json:"next"`
}

type PdfView struct {
	Pdf        *model.Pdf          `json:"pdf"`
	Navigation progress.Navigation `json:"navigation"`
	Record     *model.PdfProgress  `json:"record,omitempty"`
	Progress   progress.Summary    `json:"progress"`
	Next       progress.Item       `json:"next"`
}

// CompletionResult 标记完成后的最新进度和下一步
type CompletionResult struct {
	Progress progress.Summary `json:"progress"`
	Next     progress.Item    `json:"next"`
}

type TestView struct {
	CourseID      uint                `json:"courseId"`
	Title         string              `json:"title"`
	FileURL       string              `json:"fileUrl"`
	FileType      string              `json:"fileType"`
	QuestionCount int                 `json:"questionCount"`
	PassingScore  int                 `json:"passingScore"`
	Attempts      int                 `json:"attempts"`
	LastScore     *int                `json:"lastScore,omitempty"`
	Navigation    progress.Navigation `json:"navigation"`
	Progress      progress.Summary    `json:"progress"`
}

type TestSubmission struct {
	grading.Result
	Passed       bool             `json:"passed"`
	PassingScore int              `json:"passingScore"`
	Attempts     int              `json:"attempts"`
	Progress     progress.Summary `json:"progress"`
	Next         progress.Item    `json:"next"`
}

// LearningService 学员学习流程：查看内容、记录完成、提交测试
type LearningService struct {
	DB               *gorm.DB
	CourseRepo       *repository.CourseRepository
	UserRepo         *repository.UserRepository
	ContentRepo      *repository.ContentRepository
	ProgressRepo     *repository.ProgressRepository
	AnnouncementRepo *repository.AnnouncementRepository
	Storage          *StorageService
	Publisher        events.Publisher
	now              func() time.Time
}

func NewLearningService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	contentRepo *repository.ContentRepository,
	progressRepo *repository.ProgressRepository,
	announcementRepo *repository.AnnouncementRepository,
	storage *StorageService,
	publisher events.Publisher,
) *LearningService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LearningService{
		DB:               db,
		CourseRepo:       courseRepo,
		UserRepo:         userRepo,
		ContentRepo:      contentRepo,
		ProgressRepo:     progressRepo,
		AnnouncementRepo: announcementRepo,
		Storage:          storage,
		Publisher:        publisher,
		now:              time.Now,
	}
}

// txRepos 事务内使用的仓库
type txRepos struct {
	course   *repository.CourseRepository
	user     *repository.UserRepository
	content  *repository.ContentRepository
	progress *repository.ProgressRepository
}

func (s *LearningService) withTx(tx *gorm.DB) txRepos {
	return txRepos{
		course:   s.CourseRepo.WithTx(tx),
		user:     s.UserRepo.WithTx(tx),
		content:  s.ContentRepo.WithTx(tx),
		progress: s.ProgressRepo.WithTx(tx),
	}
}

// readTx 读操作也放在事务中，避免读到一半更新的进度
func (s *LearningService) readTx(fn func(r txRepos) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(s.withTx(tx))
	})
}

func loadCourse(r txRepos, courseID uint) (*model.Course, error) {
	course, err := r.course.FindWithContent(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// authorize 管理员或被分配该课程的用户可访问
func authorize(r txRepos, userID uint, isAdmin bool, courseID uint) error {
	if isAdmin {
		return nil
	}
	ok, err := r.user.IsAssigned(userID, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotAssigned
	}
	return nil
}

func (s *LearningService) snapshot(r txRepos, userID uint, course *model.Course) (progress.State, progress.Summary, error) {
	st, err := r.progress.State(userID, course)
	if err != nil {
		return progress.State{}, progress.Summary{}, err
	}
	return st, progress.Compute(course, st), nil
}

// Dashboard 用户被分配的课程进度以及最新公告
func (s *LearningService) Dashboard(userID uint) (*DashboardView, error) {
	view := &DashboardView{Courses: []CourseProgress{}}
	err := s.readTx(func(r txRepos) error {
		courses, err := r.user.AssignedCourses(userID)
		if err != nil {
			return err
		}
		for i := range courses {
			course := &courses[i]
			st, summary, err := s.snapshot(r, userID, course)
			if err != nil {
				return err
			}
			view.Courses = append(view.Courses, CourseProgress{
				Course:   course,
				Progress: summary,
				Next:     progress.Next(course, st),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view.Announcements, err = s.AnnouncementRepo.Latest(dashboardAnnouncementLimit)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CourseView 课程内容、进度和下一步；管理员额外获得所有已分配学员的进度
func (s *LearningService) CourseView(userID uint, isAdmin bool, courseID uint) (*CourseView, error) {
	var view *CourseView
	err := s.readTx(func(r txRepos) error {
		var course *model.Course
		var err error
		if isAdmin {
			course, err = r.course.FindWithAssignments(courseID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
		} else {
			course, err = loadCourse(r, courseID)
		}
		if err != nil {
			return err
		}
		if err := authorize(r, userID, isAdmin, courseID); err != nil {
			return err
		}

		st, summary, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		view = &CourseView{
			CourseProgress: CourseProgress{Course: course, Progress: summary, Next: progress.Next(course, st)},
			Contents:       progress.Ordered(course),
		}

		if isAdmin {
			view.Users, err = courseUserProgress(r.progress, course)
			if err != nil {
				return err
			}
			course.AssignedUsers = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// courseUserProgress course 需预加载 AssignedUsers
func courseUserProgress(repo *repository.ProgressRepository, course *model.Course) ([]UserProgress, error) {
	ids := make([]uint, 0, len(course.AssignedUsers))
	for _, u := range course.AssignedUsers {
		ids = append(ids, u.ID)
	}
	states, last, err := repo.CourseStates(course, ids)
	if err != nil {
		return nil, err
	}

	list := make([]UserProgress, 0, len(course.AssignedUsers))
	for _, u := range course.AssignedUsers {
		up := UserProgress{User: u, Progress: progress.Compute(course, states[u.ID])}
		if t, ok := last[u.ID]; ok {
			t := t
			up.LastCompletion = &t
		}
		list = append(list, up)
	}
	return list, nil
}

func (s *LearningService) VideoView(userID uint, isAdmin bool, videoID uint) (*VideoView, error) {
	var view *VideoView
	err := s.readTx(func(r txRepos) error {
		video, err := r.content.FindVideo(videoID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrContentNotFound
		}
		if err != nil {
			return err
		}
		course, err := loadCourse(r, video.CourseID)
		if err != nil {
			return err
		}
		if err := authorize(r, userID, isAdmin, course.ID); err != nil {
			return err
		}

		nav, _ := progress.Navigate(course, progress.KindVideo, video.ID)
		record, err := r.progress.FindVideoProgress(userID, video.ID)
		if err != nil {
			return err
		}
		st, summary, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		view = &VideoView{
			Video:      video,
			Navigation: nav,
			Record:     record,
			Progress:   summary,
			Next:       progress.Next(course, st),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *LearningService) PdfView(userID uint, isAdmin bool, pdfID uint) (*PdfView, error) {
	var view *PdfView
	err := s.readTx(func(r txRepos) error {
		pdf, err := r.content.FindPdf(pdfID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrContentNotFound
		}
		if err != nil {
			return err
		}
		course, err := loadCourse(r, pdf.CourseID)
		if err != nil {
			return err
		}
		if err := authorize(r, userID, isAdmin, course.ID); err != nil {
			return err
		}

		nav, _ := progress.Navigate(course, progress.KindPdf, pdf.ID)
		record, err := r.progress.FindPdfProgress(userID, pdf.ID)
		if err != nil {
			return err
		}
		st, summary, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		view = &PdfView{
			Pdf:        pdf,
			Navigation: nav,
			Record:     record,
			Progress:   summary,
			Next:       progress.Next(course, st),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CompleteVideo 标记视频已完成，重复标记只刷新 completed_at
func (s *LearningService) CompleteVideo(userID uint, isAdmin bool, videoID uint) (*CompletionResult, error) {
	var result *CompletionResult
	var completedCourse *model.Course
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r := s.withTx(tx)
		video, err := r.content.FindVideo(videoID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrContentNotFound
		}
		if err != nil {
			return err
		}
		course, err := loadCourse(r, video.CourseID)
		if err != nil {
			return err
		}
		if err := authorize(r, userID, isAdmin, course.ID); err != nil {
			return err
		}

		_, before, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		if err := r.progress.MarkVideoCompleted(userID, video.ID, s.now()); err != nil {
			return fmt.Errorf("mark video completed: %w", err)
		}
		st, after, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		if !before.IsCompleted && after.IsCompleted {
			completedCourse = course
		}
		result = &CompletionResult{Progress: after, Next: progress.Next(course, st)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ContentCompletions.WithLabelValues(string(progress.KindVideo)).Inc()
	s.publishCompletion(userID, completedCourse, result.Progress)
	return result, nil
}

// MarkPdfViewed 首次查看写入记录，之后 viewed_at 不再变化
func (s *LearningService) MarkPdfViewed(userID uint, isAdmin bool, pdfID uint) (*CompletionResult, error) {
	var result *CompletionResult
	var completedCourse *model.Course
	inserted := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r := s.withTx(tx)
		pdf, err := r.content.FindPdf(pdfID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrContentNotFound
		}
		if err != nil {
			return err
		}
		course, err := loadCourse(r, pdf.CourseID)
		if err != nil {
			return err
		}
		if err := authorize(r, userID, isAdmin, course.ID); err != nil {
			return err
		}

		_, before, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		inserted, err = r.progress.MarkPdfViewed(userID, pdf.ID, s.now())
		if err != nil {
			return fmt.Errorf("mark pdf viewed: %w", err)
		}
		st, after, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		if !before.IsCompleted && after.IsCompleted {
			completedCourse = course
		}
		result = &CompletionResult{Progress: after, Next: progress.Next(course, st)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if inserted {
		monitoring.ContentCompletions.WithLabelValues(string(progress.KindPdf)).Inc()
	}
	s.publishCompletion(userID, completedCourse, result.Progress)
	return result, nil
}

func (s *LearningService) publishCompletion(userID uint, course *model.Course, summary progress.Summary) {
	if course == nil {
		return
	}
	logger.Log.Info("Course completed", zap.Uint("userID", userID), zap.Uint("courseID", course.ID))
	events.PublishAsync(s.Publisher, events.Event{
		Type:       events.CourseCompleted,
		UserID:     userID,
		CourseID:   course.ID,
		Course:     course.Title,
		Score:      summary.TestScore,
		OccurredAt: s.now(),
	})
}

// testGate 校验测试是否可作答
func testGate(course *model.Course, summary progress.Summary) error {
	if !course.TestRequired || !course.HasTestMaterial() {
		return util.ErrNoTest
	}
	if !summary.AllContentCompleted {
		return util.ErrContentIncomplete
	}
	if summary.PassedTest {
		return util.ErrTestAlreadyPassed
	}
	return nil
}

// TestView 测试材料信息；已通过测试时拒绝再次进入
func (s *LearningService) TestView(userID uint, isAdmin bool, courseID uint) (*TestView, error) {
	var view *TestView
	err := s.readTx(func(r txRepos) error {
		course, err := loadCourse(r, courseID)
		if err != nil {
			return err
		}
		if err := authorize(r, userID, isAdmin, course.ID); err != nil {
			return err
		}
		st, summary, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		if err := testGate(course, summary); err != nil {
			return err
		}

		nav, _ := progress.Navigate(course, progress.KindTest, course.ID)
		view = &TestView{
			CourseID:      course.ID,
			Title:         course.Title,
			FileURL:       s.Storage.GetURL(course.TestFile),
			FileType:      course.TestFileType,
			QuestionCount: course.TestQuestionCount,
			PassingScore:  course.PassingScore,
			Navigation:    nav,
			Progress:      summary,
		}
		if st.TestResult != nil {
			view.Attempts = st.TestResult.Attempts
			score := st.TestResult.Score
			view.LastScore = &score
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SubmitTest 评分并保存成绩，未通过可重考，每次重考覆盖分数
func (s *LearningService) SubmitTest(ctx context.Context, userID uint, isAdmin bool, courseID uint, answers []string) (*TestSubmission, error) {
	var submission *TestSubmission
	var course *model.Course
	courseCompleted := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.withTx(tx)
		var err error
		course, err = loadCourse(r, courseID)
		if err != nil {
			return err
		}
		if err := authorize(r, userID, isAdmin, course.ID); err != nil {
			return err
		}
		_, before, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		if err := testGate(course, before); err != nil {
			return err
		}
		if len(answers) == 0 || len(answers) > course.TestQuestionCount {
			return fmt.Errorf("%w: expected up to %d answers, got %d", util.ErrInvalidAnswers, course.TestQuestionCount, len(answers))
		}

		normalized := make([]string, len(answers))
		for i, a := range answers {
			if !grading.ValidAnswer(a) {
				return fmt.Errorf("%w: answer %d must be at most %d characters without commas", util.ErrInvalidAnswers, i+1, grading.MaxAnswerLength)
			}
			normalized[i] = grading.Normalize(a)
		}
		stored, err := json.Marshal(normalized)
		if err != nil {
			return err
		}

		graded := grading.Grade(answers, course.TestAnswerKey, course.TestQuestionCount)
		result := &model.TestResult{
			UserID:        userID,
			CourseID:      course.ID,
			Score:         graded.Score,
			CorrectCount:  graded.CorrectCount,
			QuestionCount: graded.QuestionCount,
			Answers:       string(stored),
			SubmittedAt:   s.now(),
		}
		if err := r.progress.SaveTestResult(result); err != nil {
			return fmt.Errorf("save test result: %w", err)
		}

		st, after, err := s.snapshot(r, userID, course)
		if err != nil {
			return err
		}
		courseCompleted = !before.IsCompleted && after.IsCompleted
		submission = &TestSubmission{
			Result:       graded,
			Passed:       grading.Passed(graded.Score, course.PassingScore),
			PassingScore: course.PassingScore,
			Attempts:     result.Attempts,
			Progress:     after,
			Next:         progress.Next(course, st),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := "failed"
	if submission.Passed {
		outcome = "passed"
	}
	monitoring.TestSubmissions.WithLabelValues(outcome).Inc()
	logger.Log.Info("Test submitted",
		zap.Uint("userID", userID),
		zap.Uint("courseID", courseID),
		zap.Int("score", submission.Score),
		zap.Bool("passed", submission.Passed),
	)

	score, passed := submission.Score, submission.Passed
	events.PublishAsync(s.Publisher, events.Event{
		Type:       events.TestSubmitted,
		UserID:     userID,
		CourseID:   course.ID,
		Course:     course.Title,
		Score:      &score,
		Passed:     &passed,
		OccurredAt: s.now(),
	})
	if courseCompleted {
		s.publishCompletion(userID, course, submission.Progress)
	}
	return submission, nil
}
