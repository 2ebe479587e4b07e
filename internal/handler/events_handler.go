package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/azhagarpy/quize-app/internal/database"
	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// keepAliveInterval spaces the SSE comment pings that keep proxies from
// closing idle streams.
const keepAliveInterval = 30 * time.Second

// streamTopic subscribes the caller to one hub topic and relays its events as
// SSE until the client disconnects. The stream replays nothing; clients fetch
// a snapshot first and treat events as invalidations on top of it.
func streamTopic(c *gin.Context, topic string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	client := make(hub.Client, 16)
	eventsHub.Subscribe(topic, client)
	defer eventsHub.Unsubscribe(topic, client)

	logrus.WithField("topic", topic).Debug("SSE subscriber connected")

	// Tell the client the stream is live before the first real event.
	fmt.Fprintf(c.Writer, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			logrus.WithField("topic", topic).Debug("SSE subscriber disconnected")
			return
		case <-keepAlive.C:
			fmt.Fprintf(c.Writer, ": ping\n\n")
			flusher.Flush()
		case message, ok := <-client:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", message)
			flusher.Flush()
		}
	}
}

// RoomEvents godoc
// @Summary      Room event stream
// @Description  Server-sent events for one room: roster changes, readiness flips, room status transitions, and chat. Members only.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {string} string "SSE stream"
// @Failure      403 {object} ErrorResponse "Not a member of this room"
// @Router       /rooms/{id}/events [get]
func RoomEvents(c *gin.Context) {
	userID, _ := c.Get("userID")
	roomID, _ := strconv.Atoi(c.Param("id"))

	if roomMember(c, uint(roomID), userID.(uint)) == nil {
		return
	}

	streamTopic(c, hub.RoomTopic(uint(roomID)))
}

// SessionEvents godoc
// @Summary      Session event stream
// @Description  Server-sent events for one game session: live score updates and the completion signal.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {string} string "SSE stream"
// @Failure      404 {object} ErrorResponse "Not a participant of this session"
// @Router       /sessions/{id}/events [get]
func SessionEvents(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, _ := strconv.Atoi(c.Param("id"))

	// Participation gate: only players holding a score row may listen in.
	var count int64
	database.DB.Model(&models.PlayerScore{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	streamTopic(c, hub.SessionTopic(uint(sessionID)))
}
