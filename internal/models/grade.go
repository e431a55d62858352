package models

type Grade struct {
	BaseModel
	StudentID     string  `gorm:"type:uuid;not null;index"`
	SubjectID     string  `gorm:"type:uuid;not null;index"`
	SchoolID      string  `gorm:"type:uuid;not null;index"`
	ExamType      string  `gorm:"not null"` // quiz, midterm, final, assignment
	MarksObtained float64 `gorm:"not null"`
	MarksTotal    float64 `gorm:"not null"`
	Remarks       string
	GradedByID    string `gorm:"type:uuid;not null"`

	// Relations
	Student  *User    `gorm:"foreignKey:StudentID"`
	Subject  *Subject `gorm:"foreignKey:SubjectID"`
	GradedBy *User    `gorm:"foreignKey:GradedByID"`
}
