package models

import "gorm.io/gorm"

// Profile carries a player's game identity and progression. It is created
// once, shortly after registration, and only the game session flow mutates
// Experience and Level afterwards.
type Profile struct {
	gorm.Model
	UserID     uint   `gorm:"uniqueIndex;not null"`
	Username   string `gorm:"size:255;not null"`
	Experience int    `gorm:"not null;default:0"`
	Level      int    `gorm:"not null;default:1"`

	User User `gorm:"foreignKey:UserID"`
}
