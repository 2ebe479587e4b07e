package quiz

import (
	"context"

	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/models"
)

// Store is the persistence contract the lobby and session services run over.
// Lookups for missing rows return ErrNotFound; single-row updates are assumed
// atomic at the row level, multi-call sequences are not transactional.
type Store interface {
	// Rooms
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, roomID uint) (*models.Room, error)
	FindWaitingRoomByCode(ctx context.Context, code string) (*models.Room, error)
	UpdateRoomStatus(ctx context.Context, roomID uint, status models.RoomStatus) error

	// Room players
	CreateRoomPlayer(ctx context.Context, player *models.RoomPlayer) error
	GetRoomPlayer(ctx context.Context, roomID, userID uint) (*models.RoomPlayer, error)
	ListRoomPlayers(ctx context.Context, roomID uint) ([]models.RoomPlayer, error)
	SetPlayerReady(ctx context.Context, roomID, userID uint, ready bool) error
	DeleteRoomPlayer(ctx context.Context, roomID, userID uint) error
	DeleteRoomPlayers(ctx context.Context, roomID uint) error

	// Game sessions
	CreateSession(ctx context.Context, session *models.GameSession) error
	GetSession(ctx context.Context, sessionID uint) (*models.GameSession, error)
	FindActiveSessionByRoom(ctx context.Context, roomID uint) (*models.GameSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID uint, status models.SessionStatus) error

	// Player scores
	CreatePlayerScores(ctx context.Context, scores []models.PlayerScore) error
	GetScore(ctx context.Context, sessionID, userID uint) (*models.PlayerScore, error)
	ListScores(ctx context.Context, sessionID uint) ([]models.PlayerScore, error)
	UpdateScore(ctx context.Context, sessionID, userID uint, score int) error
	CompleteScore(ctx context.Context, sessionID, userID uint, score int) error

	// Questions
	PickQuestions(ctx context.Context, category, difficulty string, limit int) ([]models.Question, error)

	// Profiles
	GetProfileByUser(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateProfileProgress(ctx context.Context, userID uint, experience, level int) error
}

// Notifier fans change notifications out to subscribed clients. *hub.Hub
// satisfies it; tests substitute a recorder.
type Notifier interface {
	Broadcast(topic string, event hub.Event)
}

// LeaderboardCache is a best-effort live score cache. The store remains the
// source of truth; a nil cache is valid and skips caching entirely.
type LeaderboardCache interface {
	SetScore(ctx context.Context, sessionID, userID uint, score int) error
	Scores(ctx context.Context, sessionID uint) (map[uint]int, error)
}
