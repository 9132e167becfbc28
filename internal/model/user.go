package model

import (
	"gorm.io/datatypes"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username    string          `gorm:"size:32;uniqueIndex;not null" json:"username"`
	FullName    string          `gorm:"size:32" json:"fullName"`
	Email       string          `gorm:"size:64;not null" json:"email"`
	DateOfBirth *datatypes.Date `json:"dateOfBirth,omitempty"`
	Password    string          `gorm:"size:256;not null" json:"-"`
	Pursuing    string          `gorm:"size:32" json:"pursuing"`
	Role        UserRole        `gorm:"size:16;default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}
