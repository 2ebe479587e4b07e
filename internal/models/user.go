package models

import "gorm.io/gorm"

// User represents an authenticated account in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}
