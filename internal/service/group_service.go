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

type GroupInput struct {
	Name        string
	Description string
	UserIDs     []uint
}

type GroupService struct {
	GroupRepo *repository.GroupRepository
	UserRepo  *repository.UserRepository
}

func NewGroupService(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository) *GroupService {
	return &GroupService{GroupRepo: groupRepo, UserRepo: userRepo}
}

func (s *GroupService) List() ([]model.Group, error) {
	return s.GroupRepo.List()
}

func (s *GroupService) Get(id uint) (*model.Group, error) {
	group, err := s.GroupRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGroupNotFound
	}
	return group, err
}

func (s *GroupService) Create(in GroupInput) (*model.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", util.ErrInvalidInput)
	}
	members, err := s.UserRepo.FindByIDs(in.UserIDs)
	if err != nil {
		return nil, err
	}

	group := &model.Group{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.GroupRepo.Create(group, members); err != nil {
		return nil, err
	}
	group.Users = members
	return group, nil
}

// Update 重命名并整体替换成员
func (s *GroupService) Update(id uint, in GroupInput) (*model.Group, error) {
	group, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		group.Name = name
	}
	group.Description = strings.TrimSpace(in.Description)

	members, err := s.UserRepo.FindByIDs(in.UserIDs)
	if err != nil {
		return nil, err
	}
	if err := s.GroupRepo.Update(group, members); err != nil {
		return nil, err
	}
	group.Users = members
	return group, nil
}

func (s *GroupService) Delete(id uint) error {
	err := s.GroupRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrGroupNotFound
	}
	return err
}
