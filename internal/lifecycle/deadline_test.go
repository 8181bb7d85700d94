package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasksync/tasksync-api/internal/models"
)

func TestEvaluateAssignment(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		deadline  time.Time
		completed bool
		penalized bool
		want      AssignmentState
	}{
		{"future deadline", now.Add(time.Hour), false, false, StatePending},
		{"past deadline unpenalized", now.Add(-time.Hour), false, false, StateOverdueUnpenalized},
		{"past deadline penalized", now.Add(-time.Hour), false, true, StatePenalized},
		{"completed overdue", now.Add(-time.Hour), true, false, StateCompleted},
		{"completed pending", now.Add(time.Hour), true, false, StateCompleted},
		{"deadline exactly now", now, false, false, StatePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.Task{Deadline: tt.deadline, Completed: tt.completed}
			assignment := models.TaskAssignment{PenaltyApplied: tt.penalized}
			require.Equal(t, tt.want, EvaluateAssignment(&task, &assignment, now))
		})
	}
}

func TestEvaluateAssignment_CompletionIsTerminal(t *testing.T) {
	// Once completed, no amount of re-evaluation may produce an overdue state.
	now := time.Now()
	task := models.Task{Deadline: now.Add(-48 * time.Hour), Completed: true}
	assignment := models.TaskAssignment{}

	for i := 0; i < 5; i++ {
		require.Equal(t, StateCompleted, EvaluateAssignment(&task, &assignment, now.Add(time.Duration(i)*time.Hour)))
	}
}

func TestClampLifelines(t *testing.T) {
	require.Equal(t, 0, ClampLifelines(-2))
	require.Equal(t, 2, ClampLifelines(2))
	require.Equal(t, 3, ClampLifelines(7))
}
