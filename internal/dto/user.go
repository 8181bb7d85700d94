package dto

import (
	"time"

	"github.com/tasksync/tasksync-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      models.UserRole `json:"role"`
	Lifelines int             `json:"lifelines"`
}

// ContributorDTO represents a user in the contributors list, including the
// removal timestamp for admin audit.
type ContributorDTO struct {
	UserDTO
	RemovedAt *time.Time `json:"removed_at,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Lifelines: user.Lifelines,
	}
}

// ToContributorDTO converts a User model to ContributorDTO
func ToContributorDTO(user models.User) ContributorDTO {
	return ContributorDTO{
		UserDTO:   ToUserDTO(user),
		RemovedAt: user.RemovedAt,
	}
}

// ToContributorDTOs converts a slice of users
func ToContributorDTOs(users []models.User) []ContributorDTO {
	dtos := make([]ContributorDTO, len(users))
	for i, user := range users {
		dtos[i] = ToContributorDTO(user)
	}
	return dtos
}
