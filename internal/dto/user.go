package dto

import (
	"time"

	"github.com/mfcastro/task-manager-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthDTO carries a user together with a freshly issued token.
type AuthDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// TokenDTO carries a freshly issued token on its own.
type TokenDTO struct {
	Token string `json:"token"`
}

// UserStatsDTO summarizes a user's account activity
type UserStatsDTO struct {
	TotalTasks     int64  `json:"total_tasks"`
	CompletedTasks int64  `json:"completed_tasks"`
	PendingTasks   int64  `json:"pending_tasks"`
	MemberSince    string `json:"member_since"`
	LastUpdate     string `json:"last_update"`
}

// ProfileDTO carries a user together with their account statistics.
type ProfileDTO struct {
	Profile    UserDTO      `json:"profile"`
	Statistics UserStatsDTO `json:"statistics"`
}

// EmailAvailabilityDTO reports whether an email can still be registered.
type EmailAvailabilityDTO struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
