package model

import "time"

// Progress 用户视频完成记录，(user_id, video_id) 唯一
// swagger:model Progress
type Progress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_video" json:"userId"`
	VideoID     uint       `gorm:"not null;uniqueIndex:idx_progress_user_video;index" json:"videoId"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}

// PdfProgress 存在即表示已查看，ViewedAt 首次写入后不再修改
// swagger:model PdfProgress
type PdfProgress struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_pdf_progress_user_pdf" json:"userId"`
	PdfID    uint      `gorm:"not null;uniqueIndex:idx_pdf_progress_user_pdf;index" json:"pdfId"`
	ViewedAt time.Time `gorm:"not null" json:"viewedAt"`
}

func (PdfProgress) TableName() string {
	return "pdf_progress"
}
