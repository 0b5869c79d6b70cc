package model

import "time"

type PasswordResetStatus string

const (
	ResetPending   PasswordResetStatus = "pending"
	ResetApproved  PasswordResetStatus = "approved"
	ResetRejected  PasswordResetStatus = "rejected"
	ResetCompleted PasswordResetStatus = "completed"
	ResetExpired   PasswordResetStatus = "expired"
)

// PasswordReset 密码重置申请，需管理员审批后才生成令牌
// swagger:model PasswordReset
type PasswordReset struct {
	BaseModel
	UserID      uint                `gorm:"not null;index" json:"userId"`
	User        *User               `json:"user,omitempty"`
	Email       string              `gorm:"size:120;not null" json:"email"`
	Status      PasswordResetStatus `gorm:"size:20;not null;index" json:"status"`
	Token       string              `gorm:"size:64;index" json:"-"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
	ProcessedAt *time.Time          `json:"processedAt,omitempty"`
	ProcessedBy *uint               `json:"processedBy,omitempty"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
