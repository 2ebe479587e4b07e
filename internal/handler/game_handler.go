package handler

import (
	"net/http"
	"strconv"

	"github.com/azhagarpy/quize-app/internal/models"
	"github.com/azhagarpy/quize-app/internal/quiz"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SoloSessionInput struct {
	NumQuestions int    `json:"num_questions" binding:"omitempty,min=5,max=20"`
	TimeLimit    int    `json:"time_limit" binding:"omitempty,min=10,max=60"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type AnswerInput struct {
	Answer string `json:"answer" binding:"required"`
}

// QuestionResponse deliberately omits the correct answer; grading stays on the
// server.
type QuestionResponse struct {
	ID       uint     `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

type SessionResponse struct {
	ID            uint                 `json:"id"`
	RoomID        *uint                `json:"room_id,omitempty"`
	IsMultiplayer bool                 `json:"is_multiplayer"`
	TimeLimit     int                  `json:"time_limit"`
	NumQuestions  int                  `json:"num_questions"`
	Category      string               `json:"category"`
	Difficulty    string               `json:"difficulty"`
	Status        models.SessionStatus `json:"status"`
	Questions     []QuestionResponse   `json:"questions"`
	State         *quiz.PlayerState    `json:"state,omitempty"`
}

func newSessionResponse(session *models.GameSession, questions []models.Question, state *quiz.PlayerState) SessionResponse {
	questionResponses := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		questionResponses = append(questionResponses, QuestionResponse{
			ID:       q.ID,
			Text:     q.Text,
			Options:  q.Options,
			Category: q.Category,
		})
	}

	return SessionResponse{
		ID:            session.ID,
		RoomID:        session.RoomID,
		IsMultiplayer: session.IsMultiplayer,
		TimeLimit:     session.TimeLimit,
		NumQuestions:  session.NumQuestions,
		Category:      session.Category,
		Difficulty:    session.Difficulty,
		Status:        session.Status,
		Questions:     questionResponses,
		State:         state,
	}
}

// endregion

// CreateSoloSession godoc
// @Summary      Start a solo game
// @Description  Creates and starts a single-player session with the given settings, no lobby involved.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SoloSessionInput true "Session settings"
// @Success      201  {object}  map[string]uint "{"session_id": 1}"
// @Failure      400  {object}  ErrorResponse
// @Router       /sessions [post]
func CreateSoloSession(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input SoloSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := sessions.CreateSolo(c.Request.Context(), userID.(uint), quiz.SessionConfig{
		NumQuestions: input.NumQuestions,
		TimeLimit:    input.TimeLimit,
		Category:     input.Category,
		Difficulty:   input.Difficulty,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": session.ID})
}

// GetSession godoc
// @Summary      Get a session
// @Description  Loads the session and its question set for the caller, starting their countdown on first load. Reloading never resets progress.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found or caller is not a participant"
// @Failure      422 {object} ErrorResponse "No questions match the session settings"
// @Router       /sessions/{id} [get]
func GetSession(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, _ := strconv.Atoi(c.Param("id"))

	session, questions, err := sessions.Load(c.Request.Context(), uint(sessionID), userID.(uint))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Completed participants have no runner; the response simply carries no
	// live state then.
	state, _ := sessions.State(uint(sessionID), userID.(uint))

	c.JSON(http.StatusOK, newSessionResponse(session, questions, state))
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Grades the caller's answer to their current question. Only the first answer per question counts; repeats return the unchanged score.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        input body AnswerInput true "Selected answer"
// @Success      200  {object}  quiz.AnswerResult
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Session not loaded"
// @Router       /sessions/{id}/answers [post]
func SubmitAnswer(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, _ := strconv.Atoi(c.Param("id"))

	var input AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := sessions.SubmitAnswer(c.Request.Context(), uint(sessionID), userID.(uint), input.Answer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLeaderboard godoc
// @Summary      Session leaderboard
// @Description  Returns the session's scores in descending order with usernames.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} quiz.LeaderboardEntry
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id}/leaderboard [get]
func GetLeaderboard(c *gin.Context) {
	sessionID, _ := strconv.Atoi(c.Param("id"))

	entries, err := sessions.Leaderboard(c.Request.Context(), uint(sessionID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
