package models

import "time"

type Assignment struct {
	BaseModel
	Title         string `gorm:"not null"`
	Description   string `gorm:"type:text"`
	SubjectID     string `gorm:"type:uuid;not null;index"`
	ClassID       string `gorm:"type:uuid;not null;index"`
	TeacherID     string `gorm:"type:uuid;not null;index"`
	SchoolID      string `gorm:"type:uuid;not null;index"`
	DueDate       time.Time
	MaxMarks      float64
	AttachmentURL string

	// Relations
	Subject *Subject `gorm:"foreignKey:SubjectID"`
	Class   *Class   `gorm:"foreignKey:ClassID"`
	Teacher *User    `gorm:"foreignKey:TeacherID"`
}
