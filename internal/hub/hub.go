package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event represents a real-time change notification to be sent to clients.
// Type names the change ("player.joined", "score.updated", ...); Payload is
// the affected row or a snapshot of it.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single subscriber connection. It's essentially a
// channel that the SSE handler will drain.
type Client chan []byte

// Hub fans change notifications out to all clients subscribed to a topic.
// Topics are per-room and per-session; a client holding a subscription must
// re-fetch full state first, since the hub replays nothing.
type Hub struct {
	topics map[string]map[Client]bool
	mu     sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[Client]bool),
	}
}

// RoomTopic is the topic carrying room and roster changes for one room.
func RoomTopic(roomID uint) string {
	return fmt.Sprintf("room:%d", roomID)
}

// SessionTopic is the topic carrying score and completion changes for one session.
func SessionTopic(sessionID uint) string {
	return fmt.Sprintf("session:%d", sessionID)
}

// Subscribe adds a new client to a topic.
func (h *Hub) Subscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes a client from a topic and closes its channel, which
// signals the SSE handler to stop.
func (h *Hub) Unsubscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[topic]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.topics, topic)
			}
		}
	}
}

// Broadcast sends an event to all clients subscribed to a topic.
func (h *Hub) Broadcast(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.topics[topic]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).WithField("topic", topic).Warn("Failed to marshal hub event")
		return
	}

	for client := range clients {
		// Non-blocking send so a slow client cannot stall the hub; a client
		// that misses events re-fetches on reconnect.
		select {
		case client <- messageBytes:
		default:
		}
	}
}
