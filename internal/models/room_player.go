package models

import "gorm.io/gorm"

// RoomPlayer is a user's membership in a room. Username is denormalized at
// join time so rosters and leaderboards render without a profile lookup.
// One row per (room, user); the lobby service enforces that, not the schema.
type RoomPlayer struct {
	gorm.Model
	RoomID    uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	Username  string `gorm:"size:255;not null"`
	IsReady   bool   `gorm:"not null;default:false"`
	IsCreator bool   `gorm:"not null;default:false"`
}
