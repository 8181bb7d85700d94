package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	MaxStudents int            `gorm:"not null" json:"max_students"`
	Deadline    time.Time      `gorm:"not null;index" json:"deadline"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator     User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// AssignedEmails returns the emails in the loaded assignment set.
func (t *Task) AssignedEmails() []string {
	emails := make([]string, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		emails = append(emails, a.UserEmail)
	}
	return emails
}

// HasAssignee reports whether email is in the loaded assignment set.
func (t *Task) HasAssignee(email string) bool {
	for _, a := range t.Assignments {
		if a.UserEmail == email {
			return true
		}
	}
	return false
}
