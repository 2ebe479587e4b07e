package models

import "gorm.io/gorm"

// SessionStatus is the lifecycle state of a GameSession.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// GameSession is one played quiz, solo or multiplayer. RoomID is nil for solo
// play. Everything except Status is immutable after creation.
type GameSession struct {
	gorm.Model
	CreatorID     uint          `gorm:"not null"`
	RoomID        *uint         `gorm:"index"`
	IsMultiplayer bool          `gorm:"not null;default:false"`
	TimeLimit     int           `gorm:"not null;default:30"`
	NumQuestions  int           `gorm:"not null;default:10"`
	Category      string        `gorm:"size:100;not null;default:'all'"`
	Difficulty    string        `gorm:"size:50;not null;default:'medium'"`
	Status        SessionStatus `gorm:"size:20;not null;default:'active';index"`

	Scores []PlayerScore `gorm:"foreignKey:SessionID"`
}
