package models

import "time"

type Notice struct {
	BaseModel
	Title    string         `gorm:"not null"`
	Body     string         `gorm:"type:text;not null"`
	Audience NoticeAudience `gorm:"not null;default:'all'"`
	SchoolID string         `gorm:"type:uuid;not null;index"`
	AuthorID string         `gorm:"type:uuid;not null"`
	Date     time.Time      `gorm:"not null"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID"`
}
