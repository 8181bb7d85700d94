package models

import "time"

// Reminder records that a notification was handed to the scheduler for a
// (task, user, lead) triple. The unique index is the de-duplication key:
// re-observing the same assignment must not schedule the same lead twice.
type Reminder struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TaskID      uint64    `gorm:"not null;uniqueIndex:idx_reminders_key" json:"task_id"`
	UserEmail   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_reminders_key" json:"user_email"`
	LeadMinutes int       `gorm:"not null;uniqueIndex:idx_reminders_key" json:"lead_minutes"`
	FireAt      time.Time `gorm:"not null" json:"fire_at"`
	ScheduledID string    `gorm:"type:varchar(64)" json:"scheduled_id"`
	CreatedAt   time.Time `json:"created_at"`
}
