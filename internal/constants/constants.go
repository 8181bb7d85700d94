package constants

import "time"

// Session
const (
	SessionCookieName = "tasksync_session"
	ContextKeyUserID  = "user_id"
	ContextKeyTask    = "task"
)

// Auth
const (
	MinPasswordLength = 8
)

// Lifelines
const (
	MaxLifelines = 3
)

// ReminderLeadTimes are the offsets before a task deadline at which a
// reminder should fire, longest first.
var ReminderLeadTimes = []time.Duration{
	7 * 24 * time.Hour,
	24 * time.Hour,
	time.Hour,
}

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
