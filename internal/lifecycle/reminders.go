package lifecycle

import (
	"time"

	"github.com/tasksync/tasksync-api/internal/constants"
)

// ReminderSlot is one reminder the scheduler should receive: a lead time
// before the deadline and the absolute moment it fires.
type ReminderSlot struct {
	Lead   time.Duration
	FireAt time.Time
}

// LeadMinutes is the de-duplication bucket for a lead time.
func (s ReminderSlot) LeadMinutes() int {
	return int(s.Lead / time.Minute)
}

// PlanReminders returns the reminder slots still ahead of the clock for a
// deadline. Leads whose fire time has already passed are silently dropped,
// never retried.
func PlanReminders(deadline, now time.Time) []ReminderSlot {
	slots := make([]ReminderSlot, 0, len(constants.ReminderLeadTimes))
	for _, lead := range constants.ReminderLeadTimes {
		fireAt := deadline.Add(-lead)
		if fireAt.After(now) {
			slots = append(slots, ReminderSlot{Lead: lead, FireAt: fireAt})
		}
	}
	return slots
}
