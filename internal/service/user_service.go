package service

import (
	"errors"
	"fmt"
	"strings"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// UserService 个人资料和账号管理
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) ListUsers() ([]model.User, error) {
	return s.UserRepo.List()
}

// UpdateEmail 邮箱不能与其他用户重复
func (s *UserService) UpdateEmail(userID uint, email string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", util.ErrInvalidInput)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.UserRepo.EmailTaken(email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrEmailRegistered
	}

	user.Email = email
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(userID uint, in ChangePasswordInput) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return util.ErrInvalidCredentials
	}
	if in.NewPassword != in.ConfirmPassword {
		return util.ErrPasswordMismatch
	}
	if err := util.ValidatePassword(in.NewPassword); err != nil {
		return err
	}

	hashed, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdatePassword(userID, hashed)
}

// DeleteAccount 删除账号前校验密码
func (s *UserService) DeleteAccount(userID uint, password string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return util.ErrInvalidCredentials
	}
	return s.UserRepo.Delete(userID)
}

type AdminUserInput struct {
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}

// AdminUpdateUser 管理员修改用户资料和角色
func (s *UserService) AdminUpdateUser(id uint, in AdminUserInput) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email != "" && email != user.Email {
		taken, err := s.UserRepo.EmailTaken(email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrEmailRegistered
		}
		user.Email = email
	}
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Role = model.Student
	if in.IsAdmin {
		user.Role = model.Admin
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// AdminDeleteUser 管理员账号不能被删除
func (s *UserService) AdminDeleteUser(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return util.ErrAdminUndeletable
	}
	return s.UserRepo.Delete(id)
}
