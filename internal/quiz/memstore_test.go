package quiz

import (
	"context"
	"fmt"
	"sync"

	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/models"
)

type playerKey struct {
	roomID uint
	userID uint
}

type scoreKey struct {
	sessionID uint
	userID    uint
}

// memStore is an in-memory Store for service tests. Same contract as the
// real store: missing rows come back as ErrNotFound, everything else is a
// plain map write under one mutex.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	rooms    map[uint]*models.Room
	players  map[playerKey]*models.RoomPlayer
	sessions map[uint]*models.GameSession
	scores   map[scoreKey]*models.PlayerScore
	// scoreOrder preserves insertion order for ListScores, matching the
	// id-ordered reads of the real store.
	scoreOrder []scoreKey
	questions  []models.Question
	profiles   map[uint]*models.Profile
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    make(map[uint]*models.Room),
		players:  make(map[playerKey]*models.RoomPlayer),
		sessions: make(map[uint]*models.GameSession),
		scores:   make(map[scoreKey]*models.PlayerScore),
		profiles: make(map[uint]*models.Profile),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateRoom(_ context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room.ID = m.id()
	copied := *room
	m.rooms[room.ID] = &copied
	return nil
}

func (m *memStore) GetRoom(_ context.Context, roomID uint) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
	}
	copied := *room
	return &copied, nil
}

func (m *memStore) FindWaitingRoomByCode(_ context.Context, code string) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, room := range m.rooms {
		if room.Code == code && room.Status == models.RoomWaiting {
			copied := *room
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: no waiting room with code %s", ErrNotFound, code)
}

func (m *memStore) UpdateRoomStatus(_ context.Context, roomID uint, status models.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return fmt.Errorf("%w: room %d", ErrNotFound, roomID)
	}
	room.Status = status
	return nil
}

func (m *memStore) CreateRoomPlayer(_ context.Context, player *models.RoomPlayer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	player.ID = m.id()
	copied := *player
	m.players[playerKey{player.RoomID, player.UserID}] = &copied
	return nil
}

func (m *memStore) GetRoomPlayer(_ context.Context, roomID, userID uint) (*models.RoomPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	player, ok := m.players[playerKey{roomID, userID}]
	if !ok {
		return nil, fmt.Errorf("%w: user %d not in room %d", ErrNotFound, userID, roomID)
	}
	copied := *player
	return &copied, nil
}

func (m *memStore) ListRoomPlayers(_ context.Context, roomID uint) ([]models.RoomPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RoomPlayer
	for key, player := range m.players {
		if key.roomID == roomID {
			out = append(out, *player)
		}
	}
	return out, nil
}

func (m *memStore) SetPlayerReady(_ context.Context, roomID, userID uint, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	player, ok := m.players[playerKey{roomID, userID}]
	if !ok {
		return fmt.Errorf("%w: user %d not in room %d", ErrNotFound, userID, roomID)
	}
	player.IsReady = ready
	return nil
}

func (m *memStore) DeleteRoomPlayer(_ context.Context, roomID, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, playerKey{roomID, userID})
	return nil
}

func (m *memStore) DeleteRoomPlayers(_ context.Context, roomID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.players {
		if key.roomID == roomID {
			delete(m.players, key)
		}
	}
	return nil
}

func (m *memStore) CreateSession(_ context.Context, session *models.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = m.id()
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memStore) GetSession(_ context.Context, sessionID uint) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	copied := *session
	return &copied, nil
}

func (m *memStore) FindActiveSessionByRoom(_ context.Context, roomID uint) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		if session.RoomID != nil && *session.RoomID == roomID && session.Status == models.SessionActive {
			copied := *session
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: no active session for room %d", ErrNotFound, roomID)
}

func (m *memStore) UpdateSessionStatus(_ context.Context, sessionID uint, status models.SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	session.Status = status
	return nil
}

func (m *memStore) CreatePlayerScores(_ context.Context, scores []models.PlayerScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range scores {
		scores[i].ID = m.id()
		copied := scores[i]
		key := scoreKey{copied.SessionID, copied.UserID}
		m.scores[key] = &copied
		m.scoreOrder = append(m.scoreOrder, key)
	}
	return nil
}

func (m *memStore) GetScore(_ context.Context, sessionID, userID uint) (*models.PlayerScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.scores[scoreKey{sessionID, userID}]
	if !ok {
		return nil, fmt.Errorf("%w: no score for user %d in session %d", ErrNotFound, userID, sessionID)
	}
	copied := *score
	return &copied, nil
}

func (m *memStore) ListScores(_ context.Context, sessionID uint) ([]models.PlayerScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PlayerScore
	for _, key := range m.scoreOrder {
		if key.sessionID == sessionID {
			out = append(out, *m.scores[key])
		}
	}
	return out, nil
}

func (m *memStore) UpdateScore(_ context.Context, sessionID, userID uint, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.scores[scoreKey{sessionID, userID}]
	if !ok {
		return fmt.Errorf("%w: no score for user %d in session %d", ErrNotFound, userID, sessionID)
	}
	row.Score = score
	return nil
}

func (m *memStore) CompleteScore(_ context.Context, sessionID, userID uint, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.scores[scoreKey{sessionID, userID}]
	if !ok {
		return fmt.Errorf("%w: no score for user %d in session %d", ErrNotFound, userID, sessionID)
	}
	row.Score = score
	row.Completed = true
	return nil
}

func (m *memStore) PickQuestions(_ context.Context, category, difficulty string, limit int) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Question
	for _, q := range m.questions {
		if category != "all" && q.Category != category {
			continue
		}
		if q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) GetProfileByUser(_ context.Context, userID uint) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("%w: no profile for user %d", ErrNotFound, userID)
	}
	copied := *profile
	return &copied, nil
}

func (m *memStore) UpdateProfileProgress(_ context.Context, userID uint, experience, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("%w: no profile for user %d", ErrNotFound, userID)
	}
	profile.Experience = experience
	profile.Level = level
	return nil
}

// seedProfile registers a profile row so finish() has something to update.
func (m *memStore) seedProfile(userID uint, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = &models.Profile{UserID: userID, Username: username, Level: 1}
}

// seedQuestions fills the question bank with n questions whose correct
// answer is always "A".
func (m *memStore) seedQuestions(n int, category, difficulty string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		q := models.Question{
			Text:          fmt.Sprintf("question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Category:      category,
			Difficulty:    difficulty,
		}
		q.ID = m.id()
		m.questions = append(m.questions, q)
	}
}

// recordNotifier captures broadcasts so tests can assert on fan-out without
// a live hub.
type recordNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Topic string
	Event hub.Event
}

func (r *recordNotifier) Broadcast(topic string, event hub.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Topic: topic, Event: event})
}

func (r *recordNotifier) byType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.Event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
