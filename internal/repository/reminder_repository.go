package repository

import (
	"github.com/tasksync/tasksync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReminderRepository is a GORM implementation of ReminderRepository
type GormReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &GormReminderRepository{db: db}
}

// Exists reports whether the (task, user, lead) triple was already recorded
func (r *GormReminderRepository) Exists(taskID uint64, email string, leadMinutes int) (bool, error) {
	var count int64
	err := r.db.Model(&models.Reminder{}).
		Where("task_id = ? AND user_email = ? AND lead_minutes = ?", taskID, email, leadMinutes).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Record stores a reminder row. OnConflict DoNothing keeps a concurrent pass
// from recording the triple twice; the loser sees created=false.
func (r *GormReminderRepository) Record(reminder *models.Reminder) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "task_id"},
			{Name: "user_email"},
			{Name: "lead_minutes"},
		},
		DoNothing: true,
	}).Create(reminder)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountByTask counts recorded reminders for a task
func (r *GormReminderRepository) CountByTask(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Reminder{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}
