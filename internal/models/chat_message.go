package models

import "gorm.io/gorm"

// ChatMessage is a lobby chat entry. Username is denormalized at send time,
// matching RoomPlayer.
type ChatMessage struct {
	gorm.Model
	RoomID   uint   `gorm:"not null;index"`
	UserID   uint   `gorm:"not null"`
	Username string `gorm:"size:255;not null"`
	Content  string `gorm:"not null"`
}
