package model

// swagger:model Category
type Category struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}

// CertificateType 证书类型，RequiredCourseCount 为该类型要求的最少课程数
// swagger:model CertificateType
type CertificateType struct {
	BaseModel
	Name                string    `gorm:"size:100;not null" json:"name"`
	Description         string    `gorm:"type:text" json:"description"`
	CategoryID          uint      `gorm:"index;not null" json:"categoryId"`
	Category            *Category `json:"category,omitempty"`
	RequiredCourseCount int       `gorm:"not null" json:"requiredCourseCount"`
}

func (CertificateType) TableName() string {
	return "certificate_types"
}
