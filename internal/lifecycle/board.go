// Package lifecycle holds the task lifecycle and lifeline accounting rules.
// Everything here is pure decision logic: functions consume a snapshot of
// tasks and assignments and an explicit clock, and return decisions for the
// services to act on. No database or scheduler access happens in this
// package.
package lifecycle

import (
	"github.com/tasksync/tasksync-api/internal/models"
)

// Board is a user's view over the task snapshot, split into the tasks they
// are assigned to and the tasks still open for self-assignment.
type Board struct {
	Assigned  []models.Task
	Available []models.Task
}

// SplitBoard computes the two disjoint task views for a user.
//
// Assigned contains every task whose assignment set includes the user's
// email, regardless of completion or capacity. Available contains incomplete
// tasks with a free slot that the user is not already on.
func SplitBoard(tasks []models.Task, email string) Board {
	board := Board{
		Assigned:  []models.Task{},
		Available: []models.Task{},
	}

	for _, task := range tasks {
		if task.HasAssignee(email) {
			board.Assigned = append(board.Assigned, task)
			continue
		}
		if !task.Completed && len(task.Assignments) < task.MaxStudents {
			board.Available = append(board.Available, task)
		}
	}

	return board
}

// AssignDecision is the outcome of checking the self-assignment
// preconditions against a task snapshot.
type AssignDecision int

const (
	AssignOK AssignDecision = iota
	AssignTaskCompleted
	AssignCapacityExceeded
	AssignAlreadyAssigned
)

// CheckAssign evaluates the self-assignment preconditions for a user against
// a task snapshot. The authoritative check happens again inside the
// assignment transaction; this exists so callers can fail fast without
// taking a lock.
func CheckAssign(task *models.Task, email string) AssignDecision {
	if task.HasAssignee(email) {
		return AssignAlreadyAssigned
	}
	if task.Completed {
		return AssignTaskCompleted
	}
	if len(task.Assignments) >= task.MaxStudents {
		return AssignCapacityExceeded
	}
	return AssignOK
}
