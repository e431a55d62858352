package models

import "time"

// StudentRegistration is a public enrollment application. Approval provisions
// the student user account and mails the generated credentials.
type StudentRegistration struct {
	BaseModel
	Name        string        `gorm:"not null"`
	Email       string        `gorm:"not null;index"`
	ClassID     string        `gorm:"type:uuid;not null;index"`
	SchoolID    string        `gorm:"type:uuid;not null;index"`
	Status      RequestStatus `gorm:"not null;default:'pending';index"`
	DecidedByID *string       `gorm:"type:uuid"`
	DecidedAt   *time.Time

	// Relations
	Class     *Class `gorm:"foreignKey:ClassID"`
	DecidedBy *User  `gorm:"foreignKey:DecidedByID"`
}
