package models

type Complaint struct {
	BaseModel
	AuthorID   string          `gorm:"type:uuid;not null;index"`
	AuthorRole UserRole        `gorm:"not null"`
	SchoolID   string          `gorm:"type:uuid;not null;index"`
	Subject    string          `gorm:"not null"`
	Body       string          `gorm:"type:text;not null"`
	Status     ComplaintStatus `gorm:"not null;default:'open'"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID"`
}
