package handler

import (
	"errors"
	"net/http"

	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/quiz"

	"github.com/gin-gonic/gin"
)

// Service singletons used by the handlers, configured once at startup.
var (
	rooms     *quiz.RoomService
	sessions  *quiz.SessionService
	eventsHub *hub.Hub
)

// Setup wires the handler package to its services. Call before registering routes.
func Setup(roomService *quiz.RoomService, sessionService *quiz.SessionService, h *hub.Hub) {
	rooms = roomService
	sessions = sessionService
	eventsHub = h
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondServiceError maps the quiz error taxonomy onto HTTP statuses.
// Unknown errors are storage failures and surface generically.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrPermission):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrRoomFull), errors.Is(err, quiz.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrNoQuestions):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
