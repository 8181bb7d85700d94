package models

import (
	"time"
)

// TaskAssignment links a task to a user. The assignment key is the user's
// email, matching the identity the session asserts, and it carries the
// penalty marker so an overdue task costs at most one lifeline ever.
type TaskAssignment struct {
	TaskID         uint64     `gorm:"primarykey;autoIncrement:false" json:"task_id"`
	UserEmail      string     `gorm:"primarykey;type:varchar(255)" json:"user_email"`
	PenaltyApplied bool       `gorm:"not null;default:false" json:"penalty_applied"`
	PenalizedAt    *time.Time `json:"penalized_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
