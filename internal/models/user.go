package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Name         string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null;index"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified   bool       `gorm:"default:false"`
	SchoolID     string     `gorm:"type:uuid;index"`
	ClassID      *string    `gorm:"type:uuid;index"` // students only

	// Relations
	School *School `gorm:"foreignKey:SchoolID"`
	Class  *Class  `gorm:"foreignKey:ClassID"`
}
