package dto

import (
	"time"

	"schoolhub_backend/internal/models"
)

type CreateClassChatRequest struct {
	ClassID     string `json:"class_id" binding:"required,uuid"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateChatRequest struct {
	Type           models.ChatType `json:"type" binding:"required" validate:"is-chat-type"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ParticipantIDs []string        `json:"participant_ids" binding:"required,min=1,dive,uuid"`
}

type SendMessageRequest struct {
	Content   string  `json:"content" binding:"required"`
	ReplyToID *string `json:"reply_to_id,omitempty" binding:"omitempty,uuid"`
}

type AddParticipantRequest struct {
	UserID string                `json:"user_id" binding:"required,uuid"`
	Role   models.MembershipRole `json:"role" binding:"omitempty" validate:"omitempty,is-membership-role"`
}

type UpdateParticipantRoleRequest struct {
	Role models.MembershipRole `json:"role" binding:"required" validate:"is-membership-role"`
}

type ChatDTO struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Type         models.ChatType  `json:"type"`
	ClassID      *string          `json:"class_id,omitempty"`
	SubjectID    *string          `json:"subject_id,omitempty"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	Participants []ParticipantDTO `json:"participants,omitempty"`
	UnreadCount  int64            `json:"unread_count"`
}

type ParticipantDTO struct {
	UserID     string                `json:"user_id"`
	Name       string                `json:"name,omitempty"`
	UserRole   models.UserRole       `json:"user_role"`
	Role       models.MembershipRole `json:"role"`
	JoinedAt   time.Time             `json:"joined_at"`
	LastSeenAt time.Time             `json:"last_seen_at"`
}

type MessageDTO struct {
	ID         string             `json:"id"`
	ChatID     string             `json:"chat_id"`
	SenderID   string             `json:"sender_id"`
	SenderName string             `json:"sender_name"`
	SenderRole models.UserRole    `json:"sender_role"`
	Content    string             `json:"content,omitempty"`
	Type       models.MessageType `json:"type"`
	FileName   string             `json:"file_name,omitempty"`
	FileSize   int64              `json:"file_size,omitempty"`
	FileURL    string             `json:"file_url,omitempty"`
	MimeType   string             `json:"mime_type,omitempty"`
	ReplyToID  *string            `json:"reply_to_id,omitempty"`
	IsEdited   bool               `json:"is_edited"`
	CreatedAt  time.Time          `json:"created_at"`
}
