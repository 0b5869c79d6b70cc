package service

import (
	"testing"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/pkg/database/dbtest"
	"workplace_training_backend/pkg/events"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "Str0ng!Pass"

type testEnv struct {
	db           *gorm.DB
	cfg          *config.Config
	storage      *StorageService
	userRepo     *repository.UserRepository
	courseRepo   *repository.CourseRepository
	contentRepo  *repository.ContentRepository
	progressRepo *repository.ProgressRepository
	certRepo     *repository.CertificateRepository
	groupRepo    *repository.GroupRepository
	annRepo      *repository.AnnouncementRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test", BaseURL: "http://localhost:8080"},
		JWT:     config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: 3600e9},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Course:  config.CourseConfig{DefaultPassingScore: 70, MaxUploadMB: 10},
		Admin:   config.AdminConfig{RegistrationPassphrase: "let-me-in"},
	}
	return &testEnv{
		db:           db,
		cfg:          cfg,
		storage:      NewStorageService(cfg),
		userRepo:     repository.NewUserRepository(db),
		courseRepo:   repository.NewCourseRepository(db),
		contentRepo:  repository.NewContentRepository(db),
		progressRepo: repository.NewProgressRepository(db),
		certRepo:     repository.NewCertificateRepository(db),
		groupRepo:    repository.NewGroupRepository(db),
		annRepo:      repository.NewAnnouncementRepository(db),
	}
}

func (e *testEnv) learning() *LearningService {
	return NewLearningService(e.db, e.courseRepo, e.userRepo, e.contentRepo, e.progressRepo, e.annRepo, e.storage, events.NopPublisher{})
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
		LastName:  "Test",
		Password:  string(hashed),
		Role:      model.Student,
	}
	require.NoError(t, e.userRepo.Create(u))
	return u
}

// course 两个视频 (order 1,2) 和一个 PDF (order 2)，要求测试，答案 A,B,C,D
func (e *testEnv) course(t *testing.T, assigned ...*model.User) *model.Course {
	t.Helper()
	c := &model.Course{
		Title:             "Forklift Safety",
		PassingScore:      70,
		TestRequired:      true,
		TestFile:          "tests/forklift.pdf",
		TestFileType:      model.TestFilePDF,
		TestQuestionCount: 4,
		TestAnswerKey:     "A,B,C,D",
		Videos: []model.Video{
			{Title: "Intro", FilePath: "videos/1.mp4", Order: 1},
			{Title: "Controls", FilePath: "videos/2.mp4", Order: 2},
		},
		Pdfs: []model.Pdf{{Title: "Handbook", FilePath: "pdfs/1.pdf", Order: 2}},
	}
	require.NoError(t, e.courseRepo.Create(c))
	users := make([]model.User, 0, len(assigned))
	for _, u := range assigned {
		users = append(users, *u)
	}
	require.NoError(t, e.courseRepo.AddAssignedUsers(c, users))
	return c
}

// finish 完成课程所有内容但不参加测试
func (e *testEnv) finish(t *testing.T, svc *LearningService, u *model.User, c *model.Course) {
	t.Helper()
	for _, v := range c.Videos {
		_, err := svc.CompleteVideo(u.ID, false, v.ID)
		require.NoError(t, err)
	}
	for _, p := range c.Pdfs {
		_, err := svc.MarkPdfViewed(u.ID, false, p.ID)
		require.NoError(t, err)
	}
}
