package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Lifelines    int            `gorm:"not null;default:3" json:"lifelines"`
	RemovedAt    *time.Time     `gorm:"index" json:"removed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignments []TaskAssignment `gorm:"foreignKey:UserEmail;references:Email" json:"-"`
}

// Removed reports whether the user has run out of lifelines and lost access.
func (u *User) Removed() bool {
	return u.RemovedAt != nil || u.Lifelines <= 0
}
