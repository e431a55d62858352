package dto

import (
	"time"

	"schoolhub_backend/internal/models"
)

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse returns the signed token plus the user it identifies.
type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresAt   int64   `json:"expires_at"`
	User        UserDTO `json:"user"`
}

// ChangePasswordRequest verifies the old password before setting the new one.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserDTO is the public projection of a user.
type UserDTO struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Role       models.UserRole   `json:"role"`
	Status     models.UserStatus `json:"status"`
	SchoolID   string            `json:"school_id"`
	ClassID    *string           `json:"class_id,omitempty"`
	IsVerified bool              `json:"is_verified"`
	CreatedAt  time.Time         `json:"created_at"`
}

func ToUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		SchoolID:   u.SchoolID,
		ClassID:    u.ClassID,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
