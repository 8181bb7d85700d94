// Package notify wraps the external notification capability. Delivery
// transport is out of scope here; the service only decides what to schedule
// and when, and hands the rest off.
package notify

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scheduler delivers a local alert at a future time. Implementations are
// best-effort: a failed handoff is logged by the caller and never retried.
type Scheduler interface {
	// ScheduleAt registers a notification and returns its identifier.
	ScheduleAt(fireAt time.Time, title, body string) (string, error)
}

// LogScheduler is the bundled Scheduler. It assigns an identifier and logs
// the handoff, standing in for a push/notification backend.
type LogScheduler struct {
	log *zap.Logger
}

// NewLogScheduler creates a LogScheduler.
func NewLogScheduler(log *zap.Logger) *LogScheduler {
	return &LogScheduler{log: log}
}

// ScheduleAt registers a notification.
func (s *LogScheduler) ScheduleAt(fireAt time.Time, title, body string) (string, error) {
	id := uuid.NewString()
	s.log.Info("notification scheduled",
		zap.String("id", id),
		zap.Time("fire_at", fireAt),
		zap.String("title", title),
		zap.String("body", body),
	)
	return id, nil
}
