package model

// Group 用户分组，课程可按分组批量分配
// swagger:model Group
type Group struct {
	BaseModel
	Name        string   `gorm:"size:100;not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Users       []User   `gorm:"many2many:user_groups;" json:"users,omitempty"`
	Courses     []Course `gorm:"many2many:course_groups;" json:"courses,omitempty"`
}

func (Group) TableName() string {
	return "training_groups"
}
