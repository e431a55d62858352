package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is addressed to exactly one recipient. The recipient's role is
// denormalized next to the ID so ownership checks never need a join.
type Notification struct {
	BaseModel
	RecipientID   string   `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	RecipientRole UserRole `gorm:"not null"`
	SenderID      *string  `gorm:"type:uuid"`
	SenderRole    *UserRole

	Type     NotificationType     `gorm:"not null;index"`
	Title    string               `gorm:"not null"`
	Message  string               `gorm:"type:text;not null"`
	Data     datatypes.JSON       `gorm:"type:jsonb"`
	Priority NotificationPriority `gorm:"not null;default:'medium'"`

	IsRead     bool `gorm:"not null;default:false;index:idx_notifications_recipient"`
	ReadAt     *time.Time
	IsArchived bool `gorm:"not null;default:false"`
	ArchivedAt *time.Time

	ActionRequired bool `gorm:"not null;default:false"`
	ActionURL      string

	ExpiresAt *time.Time `gorm:"index"`

	// Relations
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
}
