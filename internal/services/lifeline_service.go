package services

import (
	"fmt"
	"time"

	"github.com/tasksync/tasksync-api/internal/lifecycle"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/repository"
	"go.uber.org/zap"
)

// LifelineWarning is the one-time notice surfaced when an overdue task costs
// a lifeline.
type LifelineWarning struct {
	TaskID    uint64 `json:"task_id"`
	TaskName  string `json:"task_name"`
	Remaining int    `json:"remaining_lifelines"`
}

// EvaluationResult is the outcome of one deadline pass for one user.
type EvaluationResult struct {
	Warnings  []LifelineWarning `json:"warnings"`
	Lifelines int               `json:"lifelines"`
	Removed   bool              `json:"removed"`
}

// LifelineService applies the deadline and lifeline accounting rules.
type LifelineService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	log      *zap.Logger
}

// NewLifelineService creates a new LifelineService
func NewLifelineService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, log *zap.Logger) *LifelineService {
	return &LifelineService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		log:      log,
	}
}

// EvaluateUser runs one deadline pass over every task assigned to the user.
// Each overdue, incomplete assignment costs one lifeline exactly once over
// the task's lifetime: the persisted penalty marker is claimed before the
// deduction, and the deduction itself is a relative guarded update on the
// stored count, so re-delivered snapshots and concurrent passes holding
// stale copies of the user still land on the right total. Landing on zero
// lifelines soft-removes the user.
func (s *LifelineService) EvaluateUser(user *models.User, now time.Time) (*EvaluationResult, error) {
	result := &EvaluationResult{
		Warnings:  []LifelineWarning{},
		Lifelines: lifecycle.ClampLifelines(user.Lifelines),
		Removed:   user.Removed(),
	}
	if result.Removed {
		return result, nil
	}

	assignments, err := s.taskRepo.ListAssignmentsByEmail(user.Email, "Task")
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	for i := range assignments {
		assignment := &assignments[i]
		state := lifecycle.EvaluateAssignment(&assignment.Task, assignment, now)
		if state != lifecycle.StateOverdueUnpenalized {
			continue
		}

		won, err := s.taskRepo.MarkPenaltyApplied(assignment.TaskID, user.Email, now)
		if err != nil {
			return nil, fmt.Errorf("failed to mark penalty: %w", err)
		}
		if !won {
			// Another pass already charged this task.
			continue
		}

		remaining, removed, err := s.userRepo.DecrementLifeline(user.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to deduct lifeline: %w", err)
		}

		result.Lifelines = remaining
		result.Warnings = append(result.Warnings, LifelineWarning{
			TaskID:    assignment.TaskID,
			TaskName:  assignment.Task.Name,
			Remaining: remaining,
		})
		if removed {
			result.Removed = true
		}

		s.log.Warn("lifeline deducted",
			zap.String("user", user.Email),
			zap.Uint64("task_id", assignment.TaskID),
			zap.String("task", assignment.Task.Name),
			zap.Int("remaining", remaining))

		if removed {
			s.log.Warn("user removed", zap.String("user", user.Email))
			break
		}
	}

	user.Lifelines = result.Lifelines
	return result, nil
}
