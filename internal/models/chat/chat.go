package chat

import (
	"schoolhub_backend/internal/models"
)

type Chat struct {
	models.BaseModel
	Name        string          `gorm:"not null"`
	Description string          `gorm:"type:text"`
	Type        models.ChatType `gorm:"not null;index"`
	ClassID     *string         `gorm:"type:uuid;index"`
	SubjectID   *string         `gorm:"type:uuid;index"`
	SchoolID    string          `gorm:"type:uuid;not null;index"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedByID string          `gorm:"type:uuid;not null"`

	Participants []Participant `gorm:"foreignKey:ChatID"`
}

func (Chat) TableName() string { return "chat.chats" }
