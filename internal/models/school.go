package models

type School struct {
	BaseModel
	Name     string `gorm:"not null"`
	Code     string `gorm:"uniqueIndex;not null"`
	Address  string
	IsActive bool `gorm:"default:true"`
}
