package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/events"
	"workplace_training_backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	resetTokenTTL       = 24 * time.Hour
	processedResetLimit = 50
)

// ResetRequestResult 申请后的状态，pending 表示等待审批，approved 表示已批准可通过邮件链接重置
type ResetRequestResult struct {
	Status  model.PasswordResetStatus `json:"status"`
	Created bool                      `json:"created"`
}

// ResetApproval 审批通过后返回的重置链接，未配置邮件时由管理员转交
type ResetApproval struct {
	Request *model.PasswordReset `json:"request"`
	Link    string               `json:"link"`
}

type ResetRequests struct {
	Pending   []model.PasswordReset `json:"pending"`
	Processed []model.PasswordReset `json:"processed"`
}

// PasswordResetService 需管理员审批的密码重置流程
type PasswordResetService struct {
	Repo      *repository.PasswordResetRepository
	UserRepo  *repository.UserRepository
	Mailer    Mailer
	Publisher events.Publisher
	Cfg       *config.Config
	now       func() time.Time
}

func NewPasswordResetService(
	repo *repository.PasswordResetRepository,
	userRepo *repository.UserRepository,
	mailer Mailer,
	publisher events.Publisher,
	cfg *config.Config,
) *PasswordResetService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PasswordResetService{
		Repo:      repo,
		UserRepo:  userRepo,
		Mailer:    mailer,
		Publisher: publisher,
		Cfg:       cfg,
		now:       time.Now,
	}
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Request 已有进行中的申请时返回其状态，否则新建待审批申请
func (s *PasswordResetService) Request(email string) (*ResetRequestResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", util.ErrInvalidInput)
	}
	user, err := s.UserRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	open, err := s.Repo.FindOpenByUser(user.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		if open.Status != model.ResetApproved || open.ExpiresAt == nil || s.now().Before(*open.ExpiresAt) {
			return &ResetRequestResult{Status: open.Status}, nil
		}
		s.expire(open)
	}

	req := &model.PasswordReset{UserID: user.ID, Email: user.Email, Status: model.ResetPending}
	if err := s.Repo.Create(req); err != nil {
		return nil, err
	}
	logger.Log.Info("Password reset requested", zap.Uint("userID", user.ID))
	return &ResetRequestResult{Status: req.Status, Created: true}, nil
}

func (s *PasswordResetService) List() (*ResetRequests, error) {
	pending, err := s.Repo.ListPending()
	if err != nil {
		return nil, err
	}
	processed, err := s.Repo.ListProcessed(processedResetLimit)
	if err != nil {
		return nil, err
	}
	return &ResetRequests{Pending: pending, Processed: processed}, nil
}

func (s *PasswordResetService) pending(id uint) (*model.PasswordReset, error) {
	req, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResetNotFound
	}
	if err != nil {
		return nil, err
	}
	if req.Status != model.ResetPending {
		return nil, util.ErrResetNotPending
	}
	return req, nil
}

func (s *PasswordResetService) resetLink(token string) string {
	return strings.TrimRight(s.Cfg.Server.BaseURL, "/") + "/reset-password/" + token
}

// Approve 生成 24 小时有效的令牌并发送邮件，邮件发送失败不影响审批结果
func (s *PasswordResetService) Approve(ctx context.Context, id, adminID uint) (*ResetApproval, error) {
	req, err := s.pending(id)
	if err != nil {
		return nil, err
	}
	token, err := newResetToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	expires := now.Add(resetTokenTTL)
	req.Status = model.ResetApproved
	req.Token = token
	req.ExpiresAt = &expires
	req.ProcessedAt = &now
	req.ProcessedBy = &adminID
	if err := s.Repo.Save(req); err != nil {
		return nil, err
	}

	link := s.resetLink(token)
	name := req.Email
	if req.User != nil {
		name = req.User.FullName()
	}
	body, err := renderResetMail(resetMailData{Name: name, Link: link, Expires: expires.Format(util.TimeFormat)})
	if err == nil {
		err = s.Mailer.Send([]string{req.Email}, "密码重置申请已通过", body)
	}
	if err != nil {
		logger.Log.Warn("Failed to send password reset mail", zap.Uint("requestID", id), zap.Error(err))
	}

	events.PublishAsync(s.Publisher, events.Event{
		Type:       events.PasswordReset,
		UserID:     req.UserID,
		Email:      req.Email,
		OccurredAt: now,
	})
	logger.Log.Info("Password reset approved", zap.Uint("requestID", id), zap.Uint("adminID", adminID))
	return &ResetApproval{Request: req, Link: link}, nil
}

func (s *PasswordResetService) Reject(id, adminID uint) (*model.PasswordReset, error) {
	req, err := s.pending(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	req.Status = model.ResetRejected
	req.ProcessedAt = &now
	req.ProcessedBy = &adminID
	if err := s.Repo.Save(req); err != nil {
		return nil, err
	}
	logger.Log.Info("Password reset rejected", zap.Uint("requestID", id), zap.Uint("adminID", adminID))
	return req, nil
}

func (s *PasswordResetService) expire(req *model.PasswordReset) {
	req.Status = model.ResetExpired
	req.Token = ""
	if err := s.Repo.Save(req); err != nil {
		logger.Log.Warn("Failed to expire reset request", zap.Uint("requestID", req.ID), zap.Error(err))
	}
}

// validToken 令牌必须处于已批准状态且未过期，过期的申请顺带标记为 expired
func (s *PasswordResetService) validToken(token string) (*model.PasswordReset, error) {
	if token == "" {
		return nil, util.ErrResetTokenInvalid
	}
	req, err := s.Repo.FindByToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if req.Status != model.ResetApproved {
		return nil, util.ErrResetTokenInvalid
	}
	if req.ExpiresAt == nil || !s.now().Before(*req.ExpiresAt) {
		s.expire(req)
		return nil, util.ErrResetTokenInvalid
	}
	return req, nil
}

// CheckToken 打开重置页面前校验令牌
func (s *PasswordResetService) CheckToken(token string) error {
	_, err := s.validToken(token)
	return err
}

func (s *PasswordResetService) Reset(token, password, confirm string) error {
	req, err := s.validToken(token)
	if err != nil {
		return err
	}
	if password != confirm {
		return util.ErrPasswordMismatch
	}
	if err := util.ValidatePassword(password); err != nil {
		return err
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(req.UserID, hashed); err != nil {
		return err
	}

	req.Status = model.ResetCompleted
	req.Token = ""
	if err := s.Repo.Save(req); err != nil {
		return err
	}
	logger.Log.Info("Password reset completed", zap.Uint("userID", req.UserID))
	return nil
}

// ExpireStale 定时任务调用，批量标记过期的已批准申请
func (s *PasswordResetService) ExpireStale() {
	n, err := s.Repo.ExpireApproved(s.now())
	if err != nil {
		logger.Log.Error("Failed to expire reset requests", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("Expired password reset requests", zap.Int64("count", n))
	}
}

// Schedule 注册过期清理任务，spec 为空时每小时执行一次
func (s *PasswordResetService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	if spec == "" {
		spec = "@hourly"
	}
	return c.AddFunc(spec, s.ExpireStale)
}
