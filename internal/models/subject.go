package models

import "github.com/lib/pq"

type Subject struct {
	BaseModel
	Name      string `gorm:"not null"`
	Code      string `gorm:"not null;index"`
	ClassID   string  `gorm:"type:uuid;not null;index"`
	TeacherID *string `gorm:"type:uuid;index"`
	SchoolID  string  `gorm:"type:uuid;not null;index"`
	Sessions  int    `gorm:"default:0"` // planned sessions per term

	// Weekday names the subject is taught on, e.g. {monday,wednesday}
	Days pq.StringArray `gorm:"type:text[]"`

	// Relations
	Class   *Class `gorm:"foreignKey:ClassID"`
	Teacher *User  `gorm:"foreignKey:TeacherID"`
}
