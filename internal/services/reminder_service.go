package services

import (
	"fmt"
	"time"

	"github.com/tasksync/tasksync-api/internal/lifecycle"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/notify"
	"github.com/tasksync/tasksync-api/internal/repository"
	"go.uber.org/zap"
)

// ReminderService decides which reminders to hand to the notification
// scheduler and keeps the (task, user, lead) bookkeeping that prevents
// duplicates across repeated snapshot evaluations.
type ReminderService struct {
	reminderRepo repository.ReminderRepository
	scheduler    notify.Scheduler
	log          *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(reminderRepo repository.ReminderRepository, scheduler notify.Scheduler, log *zap.Logger) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		scheduler:    scheduler,
		log:          log,
	}
}

// ScheduleForTask schedules the still-future reminders for one assignment.
// Leads already recorded are skipped; leads already in the past are dropped
// silently. Scheduler failures are logged and swallowed - delivery is
// best-effort and never surfaces to the user.
func (s *ReminderService) ScheduleForTask(task *models.Task, email string, now time.Time) int {
	if task.Completed {
		return 0
	}

	scheduled := 0
	for _, slot := range lifecycle.PlanReminders(task.Deadline, now) {
		exists, err := s.reminderRepo.Exists(task.ID, email, slot.LeadMinutes())
		if err != nil {
			s.log.Error("reminder lookup failed",
				zap.Uint64("task_id", task.ID),
				zap.String("user", email),
				zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		title := fmt.Sprintf("Task Reminder: %s", task.Name)
		body := fmt.Sprintf("%s is due on %s", task.Name, task.Deadline.Format("Mon Jan 2 2006"))

		id, err := s.scheduler.ScheduleAt(slot.FireAt, title, body)
		if err != nil {
			// Not recorded, so a later pass may retry the handoff.
			s.log.Warn("reminder scheduling failed",
				zap.Uint64("task_id", task.ID),
				zap.String("user", email),
				zap.Duration("lead", slot.Lead),
				zap.Error(err))
			continue
		}

		created, err := s.reminderRepo.Record(&models.Reminder{
			TaskID:      task.ID,
			UserEmail:   email,
			LeadMinutes: slot.LeadMinutes(),
			FireAt:      slot.FireAt,
			ScheduledID: id,
		})
		if err != nil {
			s.log.Error("reminder bookkeeping failed",
				zap.Uint64("task_id", task.ID),
				zap.String("user", email),
				zap.Error(err))
			continue
		}
		if created {
			scheduled++
		}
	}

	return scheduled
}
