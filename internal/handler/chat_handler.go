package handler

import (
	"net/http"
	"strconv"

	"github.com/azhagarpy/quize-app/internal/database"
	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type ChatInput struct {
	Content string `json:"content" binding:"required,max=500"`
}

type ChatMessageResponse struct {
	ID       uint   `json:"id"`
	RoomID   uint   `json:"room_id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Content  string `json:"content"`
	SentAt   string `json:"sent_at"`
}

func newChatMessageResponse(m *models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:       m.ID,
		RoomID:   m.RoomID,
		UserID:   m.UserID,
		Username: m.Username,
		Content:  m.Content,
		SentAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// endregion

// roomMember returns the caller's roster entry, or responds 403 and returns
// nil when they are not in the room.
func roomMember(c *gin.Context, roomID, userID uint) *models.RoomPlayer {
	var player models.RoomPlayer
	if err := database.DB.Where("room_id = ? AND user_id = ?", roomID, userID).First(&player).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this room"})
		return nil
	}
	return &player
}

// GetMessages godoc
// @Summary      Room chat history
// @Description  Returns the room's chat messages, oldest first. Members only.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {array} ChatMessageResponse
// @Failure      403 {object} ErrorResponse "Not a member of this room"
// @Router       /rooms/{id}/messages [get]
func GetMessages(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, _ := strconv.Atoi(c.Param("id"))

	if roomMember(c, uint(roomID), userID.(uint)) == nil {
		return
	}

	var messages []models.ChatMessage
	if err := database.DB.Where("room_id = ?", roomID).Order("id asc").Limit(200).Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	responses := make([]ChatMessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, newChatMessageResponse(&messages[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// SendMessage godoc
// @Summary      Send a chat message
// @Description  Posts a message to the room chat and broadcasts it to subscribed members.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        input body ChatInput true "Message"
// @Success      201  {object}  ChatMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not a member of this room"
// @Router       /rooms/{id}/messages [post]
func SendMessage(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, _ := strconv.Atoi(c.Param("id"))

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player := roomMember(c, uint(roomID), userID.(uint))
	if player == nil {
		return
	}

	message := models.ChatMessage{
		RoomID:   uint(roomID),
		UserID:   userID.(uint),
		Username: player.Username,
		Content:  input.Content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	response := newChatMessageResponse(&message)
	eventsHub.Broadcast(hub.RoomTopic(uint(roomID)), hub.Event{
		Type:    "chat.message",
		Payload: response,
	})

	c.JSON(http.StatusCreated, response)
}
