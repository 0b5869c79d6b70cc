package service

import (
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
)

const latestRecordsLimit = 5

// DashboardService 管理员首页的数据库统计
type DashboardService struct {
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	BackupRepo   *repository.BackupRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	backupRepo *repository.BackupRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		BackupRepo:   backupRepo,
	}
}

type CompletionStats struct {
	Videos int64 `json:"videos"`
	Pdfs   int64 `json:"pdfs"`
	Tests  int64 `json:"tests"`
}

type DatabaseStats struct {
	Tables        map[string]int64 `json:"tables"`
	Completions   CompletionStats  `json:"completions"`
	LatestUsers   []model.User     `json:"latestUsers"`
	LatestCourses []model.Course   `json:"latestCourses"`
}

// Stats 各表行数、完成记录数以及最近创建的用户和课程
func (s *DashboardService) Stats() (*DatabaseStats, error) {
	tables, err := s.BackupRepo.Counts()
	if err != nil {
		return nil, err
	}
	videos, pdfs, tests, err := s.ProgressRepo.CountCompletions()
	if err != nil {
		return nil, err
	}
	users, err := s.UserRepo.Latest(latestRecordsLimit)
	if err != nil {
		return nil, err
	}
	courses, err := s.CourseRepo.Latest(latestRecordsLimit)
	if err != nil {
		return nil, err
	}
	return &DatabaseStats{
		Tables:        tables,
		Completions:   CompletionStats{Videos: videos, Pdfs: pdfs, Tests: tests},
		LatestUsers:   users,
		LatestCourses: courses,
	}, nil
}
