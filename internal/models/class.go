package models

type Class struct {
	BaseModel
	Name       string `gorm:"not null"`
	GradeLevel int    `gorm:"not null"`
	Section    string
	SchoolID   string `gorm:"type:uuid;not null;index"`

	// Relations
	School   *School   `gorm:"foreignKey:SchoolID"`
	Subjects []Subject `gorm:"foreignKey:ClassID"`
	Students []User    `gorm:"foreignKey:ClassID"`
}
