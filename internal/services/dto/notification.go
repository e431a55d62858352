package dto

import (
	"time"

	"schoolhub_backend/internal/models"
)

// CreateNotificationRequest addresses exactly one recipient.
type CreateNotificationRequest struct {
	RecipientID    string                      `json:"recipient_id" binding:"required,uuid"`
	RecipientRole  models.UserRole             `json:"recipient_role" binding:"required" validate:"is-user-role"`
	Type           models.NotificationType     `json:"type" binding:"required" validate:"is-notification-type"`
	Title          string                      `json:"title" binding:"required,max=200"`
	Message        string                      `json:"message" binding:"required"`
	Data           map[string]interface{}      `json:"data,omitempty"`
	Priority       models.NotificationPriority `json:"priority" binding:"omitempty" validate:"omitempty,is-notification-priority"`
	ActionRequired bool                        `json:"action_required"`
	ActionURL      string                      `json:"action_url" binding:"omitempty,uri"`
	ExpiresAt      *time.Time                  `json:"expires_at,omitempty"`
}

// CreateBulkNotificationRequest fans one payload out to many recipients.
type CreateBulkNotificationRequest struct {
	RecipientIDs   []string                    `json:"recipient_ids" binding:"required,min=1,dive,uuid"`
	Type           models.NotificationType     `json:"type" binding:"required" validate:"is-notification-type"`
	Title          string                      `json:"title" binding:"required,max=200"`
	Message        string                      `json:"message" binding:"required"`
	Data           map[string]interface{}      `json:"data,omitempty"`
	Priority       models.NotificationPriority `json:"priority" binding:"omitempty" validate:"omitempty,is-notification-priority"`
	ActionRequired bool                        `json:"action_required"`
	ActionURL      string                      `json:"action_url" binding:"omitempty,uri"`
	ExpiresAt      *time.Time                  `json:"expires_at,omitempty"`
}

// BulkOperationRequest applies one operation to a set of the caller's
// notifications.
type BulkOperationRequest struct {
	IDs       []string `json:"ids" binding:"required,min=1,dive,uuid"`
	Operation string   `json:"operation" binding:"required,oneof=markAsRead markAsUnread archive unarchive delete"`
}

type NotificationDTO struct {
	ID             string                      `json:"id"`
	RecipientID    string                      `json:"recipient_id"`
	SenderID       *string                     `json:"sender_id,omitempty"`
	Type           models.NotificationType     `json:"type"`
	Title          string                      `json:"title"`
	Message        string                      `json:"message"`
	Data           map[string]interface{}      `json:"data,omitempty"`
	Priority       models.NotificationPriority `json:"priority"`
	IsRead         bool                        `json:"is_read"`
	ReadAt         *time.Time                  `json:"read_at,omitempty"`
	IsArchived     bool                        `json:"is_archived"`
	ArchivedAt     *time.Time                  `json:"archived_at,omitempty"`
	ActionRequired bool                        `json:"action_required"`
	ActionURL      string                      `json:"action_url,omitempty"`
	ExpiresAt      *time.Time                  `json:"expires_at,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
}
