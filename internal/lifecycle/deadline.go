package lifecycle

import (
	"time"

	"github.com/tasksync/tasksync-api/internal/constants"
	"github.com/tasksync/tasksync-api/internal/models"
)

// AssignmentState is the deadline state of a single (user, task) assignment.
type AssignmentState int

const (
	// StatePending - not completed, deadline in the future.
	StatePending AssignmentState = iota
	// StateCompleted - terminal, exempt from all further deadline checks.
	StateCompleted
	// StateOverdueUnpenalized - deadline passed, lifeline not yet deducted.
	StateOverdueUnpenalized
	// StatePenalized - deadline passed, lifeline already deducted once.
	StatePenalized
)

// EvaluateAssignment classifies one assignment against the clock. Completion
// wins over everything: a completed task never transitions again.
func EvaluateAssignment(task *models.Task, assignment *models.TaskAssignment, now time.Time) AssignmentState {
	if task.Completed {
		return StateCompleted
	}
	if !task.Deadline.Before(now) {
		return StatePending
	}
	if assignment.PenaltyApplied {
		return StatePenalized
	}
	return StateOverdueUnpenalized
}

// ClampLifelines forces a count into the valid range. Lifelines never exceed
// the starting allotment and never go negative.
func ClampLifelines(lifelines int) int {
	if lifelines < 0 {
		return 0
	}
	if lifelines > constants.MaxLifelines {
		return constants.MaxLifelines
	}
	return lifelines
}
