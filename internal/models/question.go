package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is read-only reference data selected by category and difficulty at
// session start. CorrectAnswer must be one of Options.
type Question struct {
	gorm.Model
	Text          string                      `gorm:"column:question;not null"`
	Options       datatypes.JSONSlice[string] `gorm:"not null"`
	CorrectAnswer string                      `gorm:"size:512;not null"`
	Category      string                      `gorm:"size:100;not null;index"`
	Difficulty    string                      `gorm:"size:50;not null;index"`
}
