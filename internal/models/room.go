package models

import "gorm.io/gorm"

// RoomStatus is the lobby lifecycle state of a Room.
type RoomStatus string

const (
	RoomWaiting   RoomStatus = "waiting"
	RoomActive    RoomStatus = "active"
	RoomCompleted RoomStatus = "completed"
	RoomClosed    RoomStatus = "closed"
)

// Room represents a multiplayer quiz lobby. The Code is a shareable 6-digit
// lookup key, not a security boundary; duplicates across time are possible.
type Room struct {
	gorm.Model
	Code         string     `gorm:"size:6;not null;index"`
	Name         string     `gorm:"size:255;not null"`
	CreatorID    uint       `gorm:"not null"`
	MaxPlayers   int        `gorm:"not null;default:4"`
	NumQuestions int        `gorm:"not null;default:10"`
	TimeLimit    int        `gorm:"not null;default:30"`
	Category     string     `gorm:"size:100;not null;default:'all'"`
	Difficulty   string     `gorm:"size:50;not null;default:'medium'"`
	Status       RoomStatus `gorm:"size:20;not null;default:'waiting';index"`

	Players []RoomPlayer `gorm:"foreignKey:RoomID"`
}
