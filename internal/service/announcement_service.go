package service

import (
	"errors"
	"fmt"
	"strings"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"

	"gorm.io/gorm"
)

const dashboardAnnouncementLimit = 3

type AnnouncementService struct {
	Repo *repository.AnnouncementRepository
}

func NewAnnouncementService(repo *repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{Repo: repo}
}

func (s *AnnouncementService) List() ([]model.Announcement, error) {
	return s.Repo.Latest(0)
}

func (s *AnnouncementService) Latest() ([]model.Announcement, error) {
	return s.Repo.Latest(dashboardAnnouncementLimit)
}

// Create 标题和内容均为必填
func (s *AnnouncementService) Create(title, content string) (*model.Announcement, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", util.ErrInvalidInput)
	}
	a := &model.Announcement{Title: title, Content: content}
	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Delete(id uint) error {
	err := s.Repo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrAnnouncementNotFound
	}
	return err
}
