package chat

import (
	"time"

	"schoolhub_backend/internal/models"
)

type Participant struct {
	models.BaseModel
	ChatID   string                `gorm:"type:uuid;not null;uniqueIndex:idx_chat_participant"`
	UserID   string                `gorm:"type:uuid;not null;uniqueIndex:idx_chat_participant"`
	UserRole models.UserRole       `gorm:"not null"`
	Role     models.MembershipRole `gorm:"not null;default:'member'"`
	JoinedAt time.Time             `gorm:"not null"`

	// LastSeenAt anchors the unread count: messages from others created
	// after it are unread.
	LastSeenAt time.Time `gorm:"not null"`

	User *models.User `gorm:"foreignKey:UserID"`
}

func (Participant) TableName() string { return "chat.participants" }
