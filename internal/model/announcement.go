package model

// swagger:model Announcement
type Announcement struct {
	BaseModel
	Title   string `gorm:"size:200;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
}

func (Announcement) TableName() string {
	return "announcements"
}
