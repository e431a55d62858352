package chat

import (
	"time"

	"schoolhub_backend/internal/models"
)

type ReadReceipt struct {
	models.BaseModel
	MessageID string    `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_message_user"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_message_user"`
	ReadAt    time.Time `gorm:"not null"`
}

func (ReadReceipt) TableName() string { return "chat.read_receipts" }
