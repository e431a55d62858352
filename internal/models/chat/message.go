package chat

import (
	"schoolhub_backend/internal/models"
)

type Message struct {
	models.BaseModel
	ChatID     string          `gorm:"type:uuid;not null;index:idx_messages_chat_created,priority:1"`
	SenderID   string          `gorm:"type:uuid;not null"`
	SenderRole models.UserRole `gorm:"not null"`
	SenderName string          `gorm:"not null"` // display name at send time

	Content string             `gorm:"type:text"`
	Type    models.MessageType `gorm:"not null;default:'text'"`

	FileName string
	FileSize int64
	FileURL  string
	MimeType string

	ReplyToID *string `gorm:"type:uuid"`
	IsEdited  bool    `gorm:"not null;default:false"`

	ReplyTo  *Message      `gorm:"foreignKey:ReplyToID"`
	Receipts []ReadReceipt `gorm:"foreignKey:MessageID"`
}

func (Message) TableName() string { return "chat.messages" }
