package handler

import (
	"net/http"
	"strconv"

	"github.com/azhagarpy/quize-app/internal/database"
	"github.com/azhagarpy/quize-app/internal/models"
	"github.com/azhagarpy/quize-app/internal/quiz"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// region --- DTOs ---

type RoomInput struct {
	Name         string `json:"name" binding:"required"`
	MaxPlayers   int    `json:"max_players" binding:"omitempty,min=2,max=8"`
	NumQuestions int    `json:"num_questions" binding:"omitempty,min=5,max=20"`
	TimeLimit    int    `json:"time_limit" binding:"omitempty,min=10,max=60"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type JoinInput struct {
	Code string `json:"code" binding:"required,len=6"`
}

type RoomPlayerResponse struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	IsReady   bool   `json:"is_ready"`
	IsCreator bool   `json:"is_creator"`
}

type RoomResponse struct {
	ID           uint                 `json:"id"`
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	CreatorID    uint                 `json:"creator_id"`
	MaxPlayers   int                  `json:"max_players"`
	NumQuestions int                  `json:"num_questions"`
	TimeLimit    int                  `json:"time_limit"`
	Category     string               `json:"category"`
	Difficulty   string               `json:"difficulty"`
	Status       models.RoomStatus    `json:"status"`
	Players      []RoomPlayerResponse `json:"players"`
	SessionID    *uint                `json:"session_id,omitempty"`
}

func newRoomResponse(room *models.Room, players []models.RoomPlayer, sessionID *uint) RoomResponse {
	playerResponses := make([]RoomPlayerResponse, 0, len(players))
	for _, p := range players {
		playerResponses = append(playerResponses, RoomPlayerResponse{
			UserID:    p.UserID,
			Username:  p.Username,
			IsReady:   p.IsReady,
			IsCreator: p.IsCreator,
		})
	}

	return RoomResponse{
		ID:           room.ID,
		Code:         room.Code,
		Name:         room.Name,
		CreatorID:    room.CreatorID,
		MaxPlayers:   room.MaxPlayers,
		NumQuestions: room.NumQuestions,
		TimeLimit:    room.TimeLimit,
		Category:     room.Category,
		Difficulty:   room.Difficulty,
		Status:       room.Status,
		Players:      playerResponses,
		SessionID:    sessionID,
	}
}

// endregion

// currentUsername resolves the caller's display name, preferring the game
// profile and falling back to the account username.
func currentUsername(c *gin.Context, userID uint) string {
	var profile models.Profile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err == nil {
		return profile.Username
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil {
		return user.Username
	}
	return "Unknown Player"
}

// CreateRoom godoc
// @Summary      Create a room
// @Description  Creates a new quiz room in waiting state with the creator as its first, auto-ready player.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RoomInput true "Room settings"
// @Success      201  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /rooms [post]
func CreateRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := rooms.Create(c.Request.Context(), userID.(uint), currentUsername(c, userID.(uint)), quiz.RoomConfig{
		Name:         input.Name,
		MaxPlayers:   input.MaxPlayers,
		NumQuestions: input.NumQuestions,
		TimeLimit:    input.TimeLimit,
		Category:     input.Category,
		Difficulty:   input.Difficulty,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_, players, err := rooms.Get(c.Request.Context(), room.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRoomResponse(room, players, nil))
}

// JoinRoom godoc
// @Summary      Join a room by code
// @Description  Joins a waiting room by its 6-digit code. Re-joining a room you are already in succeeds without a second roster entry.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body JoinInput true "Room code"
// @Success      200  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Room not found or no longer accepting players"
// @Failure      409  {object}  ErrorResponse "Room is full"
// @Router       /rooms/join [post]
func JoinRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input JoinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := rooms.Join(c.Request.Context(), input.Code, userID.(uint), currentUsername(c, userID.(uint)))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_, players, err := rooms.Get(c.Request.Context(), room.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(room, players, nil))
}

// GetRoom godoc
// @Summary      Get a room
// @Description  Gets the room and its roster; the snapshot a client fetches before trusting the event stream. Includes the active session id once the game has started.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} RoomResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id} [get]
func GetRoom(c *gin.Context) {
	roomID, _ := strconv.Atoi(c.Param("id"))

	room, players, err := rooms.Get(c.Request.Context(), uint(roomID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var sessionID *uint
	if room.Status == models.RoomActive {
		if session, err := rooms.ActiveSession(c.Request.Context(), room.ID); err == nil {
			sessionID = &session.ID
		}
	}

	c.JSON(http.StatusOK, newRoomResponse(room, players, sessionID))
}

// RoomCodeQR godoc
// @Summary      Room code as QR
// @Description  Renders the room's join code as a PNG QR code for sharing.
// @Tags         rooms
// @Produce      png
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{id}/code.png [get]
func RoomCodeQR(c *gin.Context) {
	roomID, _ := strconv.Atoi(c.Param("id"))

	room, _, err := rooms.Get(c.Request.Context(), uint(roomID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	png, err := qrcode.Encode(room.Code, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ToggleReady godoc
// @Summary      Toggle readiness
// @Description  Flips the caller's ready flag in the room.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]string "{"message": "Ready state updated"}"
// @Failure      404 {object} ErrorResponse "Not a member of this room"
// @Router       /rooms/{id}/ready [post]
func ToggleReady(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, _ := strconv.Atoi(c.Param("id"))

	if err := rooms.ToggleReady(c.Request.Context(), uint(roomID), userID.(uint)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ready state updated"})
}

// StartGame godoc
// @Summary      Start the game (creator only)
// @Description  Transitions the room to active and creates the multiplayer game session with a zeroed score row per player.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]uint "{"session_id": 1}"
// @Failure      403 {object} ErrorResponse "Only the creator can start the game"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Not all players are ready"
// @Router       /rooms/{id}/start [post]
func StartGame(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, _ := strconv.Atoi(c.Param("id"))

	session, err := rooms.Start(c.Request.Context(), uint(roomID), userID.(uint))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID})
}

// LeaveRoom godoc
// @Summary      Leave the room
// @Description  Removes the caller from the room. When the creator leaves, the room closes for everyone.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]string "{"message": "Left room successfully"}"
// @Failure      404 {object} ErrorResponse "Not a member of this room"
// @Router       /rooms/{id}/leave [post]
func LeaveRoom(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, _ := strconv.Atoi(c.Param("id"))

	if err := rooms.Leave(c.Request.Context(), uint(roomID), userID.(uint)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left room successfully"})
}
