package repository

import (
	"errors"
	"time"
	"workplace_training_backend/internal/model"

	"gorm.io/gorm"
)

type PasswordResetRepository struct {
	DB *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{DB: db}
}

func (r *PasswordResetRepository) Create(req *model.PasswordReset) error {
	return r.DB.Omit("User").Create(req).Error
}

func (r *PasswordResetRepository) Save(req *model.PasswordReset) error {
	return r.DB.Omit("User").Save(req).Error
}

func (r *PasswordResetRepository) FindByID(id uint) (*model.PasswordReset, error) {
	var req model.PasswordReset
	err := r.DB.Preload("User").First(&req, id).Error
	return &req, err
}

// FindOpenByUser 用户最近一条待审批或已批准的申请，没有时返回 nil
func (r *PasswordResetRepository) FindOpenByUser(userID uint) (*model.PasswordReset, error) {
	var req model.PasswordReset
	err := r.DB.
		Where("user_id = ? AND status IN ?", userID, []model.PasswordResetStatus{model.ResetPending, model.ResetApproved}).
		Order("created_at DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PasswordResetRepository) FindByToken(token string) (*model.PasswordReset, error) {
	var req model.PasswordReset
	err := r.DB.Where("token = ? AND token <> ''", token).First(&req).Error
	return &req, err
}

func (r *PasswordResetRepository) ListPending() ([]model.PasswordReset, error) {
	var list []model.PasswordReset
	err := r.DB.Preload("User").Where("status = ?", model.ResetPending).Order("created_at").Find(&list).Error
	return list, err
}

func (r *PasswordResetRepository) ListProcessed(limit int) ([]model.PasswordReset, error) {
	var list []model.PasswordReset
	err := r.DB.Preload("User").
		Where("status <> ?", model.ResetPending).
		Order("updated_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ExpireApproved 将过期的已批准申请标记为 expired
func (r *PasswordResetRepository) ExpireApproved(now time.Time) (int64, error) {
	res := r.DB.Model(&model.PasswordReset{}).
		Where("status = ? AND expires_at < ?", model.ResetApproved, now).
		Updates(map[string]interface{}{"status": model.ResetExpired, "token": ""})
	return res.RowsAffected, res.Error
}
