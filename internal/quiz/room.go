package quiz

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/models"

	"github.com/sirupsen/logrus"
)

// RoomConfig carries the creator-chosen settings for a new room.
type RoomConfig struct {
	Name         string
	MaxPlayers   int
	NumQuestions int
	TimeLimit    int
	Category     string
	Difficulty   string
}

// RoomService owns the lobby lifecycle: room metadata, the player roster,
// readiness, and the waiting -> active transition that starts a multiplayer
// game. It holds no state of its own; every view is re-derived from the store.
type RoomService struct {
	store  Store
	notify Notifier
}

// NewRoomService creates a RoomService.
func NewRoomService(store Store, notify Notifier) *RoomService {
	return &RoomService{store: store, notify: notify}
}

// generateRoomCode returns a shareable 6-digit code. Collisions across rooms
// are accepted; the code is a convenience lookup key, not an identifier.
func generateRoomCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

func applyRoomDefaults(cfg *RoomConfig) {
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = 4
	}
	if cfg.NumQuestions == 0 {
		cfg.NumQuestions = 10
	}
	if cfg.TimeLimit == 0 {
		cfg.TimeLimit = 30
	}
	if cfg.Category == "" {
		cfg.Category = "all"
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = "medium"
	}
}

// Create persists a new waiting room and inserts the creator as its sole,
// auto-ready player. The player insert happens only after the room insert
// succeeds; if it then fails the error is surfaced without rollback, since
// the store offers no transaction primitive here.
func (s *RoomService) Create(ctx context.Context, creatorID uint, username string, cfg RoomConfig) (*models.Room, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: room name must not be empty", ErrValidation)
	}
	applyRoomDefaults(&cfg)

	room := &models.Room{
		Code:         generateRoomCode(),
		Name:         cfg.Name,
		CreatorID:    creatorID,
		MaxPlayers:   cfg.MaxPlayers,
		NumQuestions: cfg.NumQuestions,
		TimeLimit:    cfg.TimeLimit,
		Category:     cfg.Category,
		Difficulty:   cfg.Difficulty,
		Status:       models.RoomWaiting,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	creator := &models.RoomPlayer{
		RoomID:    room.ID,
		UserID:    creatorID,
		Username:  username,
		IsReady:   true,
		IsCreator: true,
	}
	if err := s.store.CreateRoomPlayer(ctx, creator); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"room_id": room.ID, "code": room.Code, "creator_id": creatorID}).
		Info("Room created")
	return room, nil
}

// Join adds a user to the waiting room with the given code. Joining a room
// the user is already in is an idempotent success. The capacity check and the
// insert are not atomic; two racing joiners can both pass the check.
func (s *RoomService) Join(ctx context.Context, code string, userID uint, username string) (*models.Room, error) {
	room, err := s.store.FindWaitingRoomByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetRoomPlayer(ctx, room.ID, userID); err == nil {
		return room, nil
	}

	players, err := s.store.ListRoomPlayers(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	if len(players) >= room.MaxPlayers {
		return nil, ErrRoomFull
	}

	player := &models.RoomPlayer{
		RoomID:   room.ID,
		UserID:   userID,
		Username: username,
	}
	if err := s.store.CreateRoomPlayer(ctx, player); err != nil {
		return nil, err
	}

	s.notify.Broadcast(hub.RoomTopic(room.ID), hub.Event{Type: "player.joined", Payload: player})
	return room, nil
}

// ToggleReady flips the caller's readiness flag.
func (s *RoomService) ToggleReady(ctx context.Context, roomID, userID uint) error {
	player, err := s.store.GetRoomPlayer(ctx, roomID, userID)
	if err != nil {
		return err
	}

	if err := s.store.SetPlayerReady(ctx, roomID, userID, !player.IsReady); err != nil {
		return err
	}

	player.IsReady = !player.IsReady
	s.notify.Broadcast(hub.RoomTopic(roomID), hub.Event{Type: "player.updated", Payload: player})
	return nil
}

// Start transitions the room to active and creates the game session all
// players will run. Creator-only; refused while any player is not ready.
// This is the synchronization point fanned out to every client.
func (s *RoomService) Start(ctx context.Context, roomID, callerID uint) (*models.GameSession, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	caller, err := s.store.GetRoomPlayer(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsCreator {
		return nil, ErrPermission
	}

	players, err := s.store.ListRoomPlayers(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if !p.IsReady {
			return nil, ErrNotReady
		}
	}

	if err := s.store.UpdateRoomStatus(ctx, roomID, models.RoomActive); err != nil {
		return nil, err
	}

	session := &models.GameSession{
		CreatorID:     callerID,
		RoomID:        &room.ID,
		IsMultiplayer: true,
		TimeLimit:     room.TimeLimit,
		NumQuestions:  room.NumQuestions,
		Category:      room.Category,
		Difficulty:    room.Difficulty,
		Status:        models.SessionActive,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	scores := make([]models.PlayerScore, 0, len(players))
	for _, p := range players {
		scores = append(scores, models.PlayerScore{SessionID: session.ID, UserID: p.UserID})
	}
	if err := s.store.CreatePlayerScores(ctx, scores); err != nil {
		return nil, err
	}

	room.Status = models.RoomActive
	s.notify.Broadcast(hub.RoomTopic(roomID), hub.Event{Type: "room.updated", Payload: room})

	logrus.WithFields(logrus.Fields{"room_id": roomID, "session_id": session.ID, "players": len(players)}).
		Info("Multiplayer game started")
	return session, nil
}

// Leave removes the caller from the room. When the creator leaves, the room
// closes for everyone and all player rows are removed.
func (s *RoomService) Leave(ctx context.Context, roomID, userID uint) error {
	player, err := s.store.GetRoomPlayer(ctx, roomID, userID)
	if err != nil {
		return err
	}

	if player.IsCreator {
		if err := s.store.UpdateRoomStatus(ctx, roomID, models.RoomClosed); err != nil {
			return err
		}
		if err := s.store.DeleteRoomPlayers(ctx, roomID); err != nil {
			return err
		}
		room, err := s.store.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		s.notify.Broadcast(hub.RoomTopic(roomID), hub.Event{Type: "room.updated", Payload: room})
		return nil
	}

	if err := s.store.DeleteRoomPlayer(ctx, roomID, userID); err != nil {
		return err
	}
	s.notify.Broadcast(hub.RoomTopic(roomID), hub.Event{Type: "player.left", Payload: player})
	return nil
}

// Get returns the room and its current roster, the point-in-time snapshot
// clients fetch before trusting the event stream.
func (s *RoomService) Get(ctx context.Context, roomID uint) (*models.Room, []models.RoomPlayer, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	players, err := s.store.ListRoomPlayers(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	return room, players, nil
}

// ActiveSession resolves the running session for a room, used by clients of
// an active room to find the game they should load.
func (s *RoomService) ActiveSession(ctx context.Context, roomID uint) (*models.GameSession, error) {
	return s.store.FindActiveSessionByRoom(ctx, roomID)
}
