package model

import "time"

// Certificate 证书一经签发不可变更，(user_id, course_id) 去重由业务层保证。
// 文件只能经下载接口获取，不对外暴露存储路径
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID            uint      `gorm:"not null;index:idx_certificate_user_course" json:"userId"`
	User              *User     `json:"user,omitempty"`
	CourseID          uint      `gorm:"not null;index:idx_certificate_user_course" json:"courseId"`
	Course            *Course   `json:"course,omitempty"`
	CertificateTypeID *uint     `gorm:"index" json:"certificateTypeId"`
	Number            string    `gorm:"size:50;uniqueIndex;not null" json:"number"`
	FilePath          string    `gorm:"size:255;not null" json:"-"`
	FileURL           string    `gorm:"size:255" json:"-"`
	Generated         bool      `gorm:"not null" json:"generated"`
	Score             *int      `json:"score,omitempty"`
	IssuedAt          time.Time `gorm:"not null" json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
