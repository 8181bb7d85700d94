package repository

import (
	"time"

	"github.com/tasksync/tasksync-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActive lists users that still have lifelines
func (r *GormUserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("lifelines > 0 AND removed_at IS NULL").
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListAll lists every user, including soft-removed ones
func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DecrementLifeline takes one lifeline off the stored count. The decrement is
// relative (`lifelines - 1`) and guarded, so two evaluators holding stale
// snapshots of the same user still subtract twice, and the count never goes
// below zero.
func (r *GormUserRepository) DecrementLifeline(id uint64, at time.Time) (int, bool, error) {
	var remaining int
	var removed bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ? AND lifelines > 0", id).
			Update("lifelines", gorm.Expr("lifelines - 1"))
		if result.Error != nil {
			return result.Error
		}

		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		remaining = user.Lifelines
		removed = user.Lifelines <= 0

		if removed && user.RemovedAt == nil {
			return tx.Model(&models.User{}).
				Where("id = ?", id).
				Update("removed_at", at).Error
		}
		return nil
	})
	return remaining, removed, err
}
