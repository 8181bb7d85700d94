package services

import (
	"time"

	"github.com/tasksync/tasksync-api/internal/lifecycle"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/repository"
	"go.uber.org/zap"
)

// SweepService runs the full evaluation pass the watcher triggers: for every
// active user, apply the deadline/lifeline rules and refresh reminders.
type SweepService struct {
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	lifelines *LifelineService
	reminders *ReminderService
	log       *zap.Logger
}

// NewSweepService creates a new SweepService
func NewSweepService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, lifelines *LifelineService, reminders *ReminderService, log *zap.Logger) *SweepService {
	return &SweepService{
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		lifelines: lifelines,
		reminders: reminders,
		log:       log,
	}
}

// RunPass evaluates every active user against the current task snapshot.
// Errors are logged per user so one bad row cannot stall the sweep.
func (s *SweepService) RunPass(now time.Time) {
	users, err := s.userRepo.ListActive()
	if err != nil {
		s.log.Error("sweep: failed to list users", zap.Error(err))
		return
	}

	for i := range users {
		user := &users[i]
		if user.Role != models.RoleUser {
			continue
		}

		if _, err := s.lifelines.EvaluateUser(user, now); err != nil {
			s.log.Error("sweep: deadline evaluation failed",
				zap.String("user", user.Email),
				zap.Error(err))
			continue
		}

		assignments, err := s.taskRepo.ListAssignmentsByEmail(user.Email, "Task")
		if err != nil {
			s.log.Error("sweep: failed to load assignments",
				zap.String("user", user.Email),
				zap.Error(err))
			continue
		}

		for j := range assignments {
			task := &assignments[j].Task
			if lifecycle.EvaluateAssignment(task, &assignments[j], now) == lifecycle.StateCompleted {
				continue
			}
			s.reminders.ScheduleForTask(task, user.Email, now)
		}
	}
}
