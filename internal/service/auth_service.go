package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	AdminPassphrase string
}

type AuthService struct {
	UserRepo  *repository.UserRepository
	Blacklist TokenBlacklist
	Cfg       *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, blacklist TokenBlacklist, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		Blacklist: blacklist,
		Cfg:       cfg,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register 携带正确的管理员口令时注册为管理员
func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	role := model.Student
	if in.AdminPassphrase != "" {
		expected := s.Cfg.Admin.RegistrationPassphrase
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(in.AdminPassphrase)) != 1 {
			return nil, util.ErrInvalidPassphrase
		}
		role = model.Admin
	}

	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		return nil, util.ErrPasswordMismatch
	}
	if err := util.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	taken, err := s.UserRepo.UsernameTaken(in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUsernameTaken
	}
	taken, err = s.UserRepo.EmailTaken(in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrEmailRegistered
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  hashed,
		Role:      role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login 用户名或邮箱登录，成功后返回 JWT
func (s *AuthService) Login(login, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByLogin(strings.TrimSpace(login))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLogin = &now

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout 将当前 token 加入黑名单直到其过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.Blacklist.Revoke(ctx, claims.ID, ttl)
}

