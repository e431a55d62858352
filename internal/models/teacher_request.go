package models

import "time"

// TeacherRequest is an application by an existing or prospective teacher to
// take over a subject. Admins decide it; the outcome is pushed back to the
// applicant by notification and email.
type TeacherRequest struct {
	BaseModel
	ApplicantID string        `gorm:"type:uuid;not null;index"`
	SchoolID    string        `gorm:"type:uuid;not null;index"`
	SubjectID   *string       `gorm:"type:uuid;index"`
	ClassID     *string       `gorm:"type:uuid;index"`
	Message     string        `gorm:"type:text"`
	Status      RequestStatus `gorm:"not null;default:'pending';index"`
	DecidedByID *string       `gorm:"type:uuid"`
	DecidedAt   *time.Time

	// Relations
	Applicant *User    `gorm:"foreignKey:ApplicantID"`
	Subject   *Subject `gorm:"foreignKey:SubjectID"`
	DecidedBy *User    `gorm:"foreignKey:DecidedByID"`
}
