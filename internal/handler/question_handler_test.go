package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidQuestionInput(t *testing.T) {
	base := QuestionInput{
		Text:       "What is the capital of France?",
		Options:    []string{"Paris", "Lyon", "Nice"},
		Category:   "geography",
		Difficulty: "easy",
	}

	valid := base
	valid.CorrectAnswer = "Paris"
	assert.True(t, validQuestionInput(valid))

	invalid := base
	invalid.CorrectAnswer = "Marseille"
	assert.False(t, validQuestionInput(invalid), "correct answer must be one of the options")

	caseMismatch := base
	caseMismatch.CorrectAnswer = "paris"
	assert.False(t, validQuestionInput(caseMismatch), "matching is exact, grading compares verbatim")
}
