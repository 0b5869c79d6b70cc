package model

import (
	"strings"
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username        string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email           string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	FirstName       string     `gorm:"size:64" json:"firstName"`
	LastName        string     `gorm:"size:64" json:"lastName"`
	Password        string     `gorm:"size:128;not null" json:"-"`
	Role            UserRole   `gorm:"size:20;not null" json:"role"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	AssignedCourses []Course   `gorm:"many2many:assigned_courses;" json:"assignedCourses,omitempty"`
	Groups          []Group    `gorm:"many2many:user_groups;" json:"groups,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}

// FullName 姓名为空时回退到用户名
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
