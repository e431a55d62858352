package dto

import "schoolhub_backend/internal/models"

// CreateUserRequest provisions a teacher or student account (admin only).
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Name     string          `json:"name" binding:"required"`
	Role     models.UserRole `json:"role" binding:"required" validate:"is-user-role"`
	ClassID  *string         `json:"class_id,omitempty"`
}

type UpdateUserRequest struct {
	Name    *string            `json:"name,omitempty"`
	Status  *models.UserStatus `json:"status,omitempty" binding:"omitempty,oneof=pending active suspended"`
	ClassID *string            `json:"class_id,omitempty"`
}

// PagedResponse wraps any list endpoint payload.
type PagedResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
