package models

import "gorm.io/gorm"

// PlayerScore is one player's running result within a session. Score moves in
// increments of 10; Completed flips once when the player exhausts the quiz.
type PlayerScore struct {
	gorm.Model
	SessionID uint `gorm:"not null;index"`
	UserID    uint `gorm:"not null"`
	Score     int  `gorm:"not null;default:0"`
	Completed bool `gorm:"not null;default:false"`
}
