// Package repository provides the GORM-backed implementation of quiz.Store.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/azhagarpy/quize-app/internal/models"
	"github.com/azhagarpy/quize-app/internal/quiz"

	"gorm.io/gorm"
)

// GormStore implements quiz.Store on a *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", quiz.ErrNotFound, what)
	}
	return err
}

// region --- Rooms ---

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return s.db.WithContext(ctx).Create(room).Error
}

func (s *GormStore) GetRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, roomID).Error; err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

func (s *GormStore) FindWaitingRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).
		Where("code = ? AND status = ?", code, models.RoomWaiting).
		First(&room).Error
	if err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

func (s *GormStore) UpdateRoomStatus(ctx context.Context, roomID uint, status models.RoomStatus) error {
	return s.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("status", status).Error
}

// endregion

// region --- Room players ---

func (s *GormStore) CreateRoomPlayer(ctx context.Context, player *models.RoomPlayer) error {
	return s.db.WithContext(ctx).Create(player).Error
}

func (s *GormStore) GetRoomPlayer(ctx context.Context, roomID, userID uint) (*models.RoomPlayer, error) {
	var player models.RoomPlayer
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&player).Error
	if err != nil {
		return nil, notFound(err, "room player")
	}
	return &player, nil
}

func (s *GormStore) ListRoomPlayers(ctx context.Context, roomID uint) ([]models.RoomPlayer, error) {
	var players []models.RoomPlayer
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&players).Error
	return players, err
}

func (s *GormStore) SetPlayerReady(ctx context.Context, roomID, userID uint, ready bool) error {
	return s.db.WithContext(ctx).Model(&models.RoomPlayer{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("is_ready", ready).Error
}

func (s *GormStore) DeleteRoomPlayer(ctx context.Context, roomID, userID uint) error {
	return s.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.RoomPlayer{}).Error
}

func (s *GormStore) DeleteRoomPlayers(ctx context.Context, roomID uint) error {
	return s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Delete(&models.RoomPlayer{}).Error
}

// endregion

// region --- Game sessions ---

func (s *GormStore) CreateSession(ctx context.Context, session *models.GameSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *GormStore) GetSession(ctx context.Context, sessionID uint) (*models.GameSession, error) {
	var session models.GameSession
	if err := s.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		return nil, notFound(err, "game session")
	}
	return &session, nil
}

func (s *GormStore) FindActiveSessionByRoom(ctx context.Context, roomID uint) (*models.GameSession, error) {
	var session models.GameSession
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, models.SessionActive).
		Order("id DESC").
		First(&session).Error
	if err != nil {
		return nil, notFound(err, "game session")
	}
	return &session, nil
}

func (s *GormStore) UpdateSessionStatus(ctx context.Context, sessionID uint, status models.SessionStatus) error {
	return s.db.WithContext(ctx).Model(&models.GameSession{}).
		Where("id = ?", sessionID).
		Update("status", status).Error
}

// endregion

// region --- Player scores ---

func (s *GormStore) CreatePlayerScores(ctx context.Context, scores []models.PlayerScore) error {
	return s.db.WithContext(ctx).Create(&scores).Error
}

func (s *GormStore) GetScore(ctx context.Context, sessionID, userID uint) (*models.PlayerScore, error) {
	var score models.PlayerScore
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&score).Error
	if err != nil {
		return nil, notFound(err, "player score")
	}
	return &score, nil
}

func (s *GormStore) ListScores(ctx context.Context, sessionID uint) ([]models.PlayerScore, error) {
	var scores []models.PlayerScore
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&scores).Error
	return scores, err
}

func (s *GormStore) UpdateScore(ctx context.Context, sessionID, userID uint, score int) error {
	return s.db.WithContext(ctx).Model(&models.PlayerScore{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Update("score", score).Error
}

func (s *GormStore) CompleteScore(ctx context.Context, sessionID, userID uint, score int) error {
	return s.db.WithContext(ctx).Model(&models.PlayerScore{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Updates(map[string]interface{}{"score": score, "completed": true}).Error
}

// endregion

// region --- Questions ---

// PickQuestions selects the question set for a session. Ordering by id keeps
// the selection deterministic for a given bank, category, and difficulty.
func (s *GormStore) PickQuestions(ctx context.Context, category, difficulty string, limit int) ([]models.Question, error) {
	query := s.db.WithContext(ctx).Where("difficulty = ?", difficulty)
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	var questions []models.Question
	err := query.Order("id").Limit(limit).Find(&questions).Error
	return questions, err
}

// endregion

// region --- Profiles ---

func (s *GormStore) GetProfileByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return &profile, nil
}

func (s *GormStore) UpdateProfileProgress(ctx context.Context, userID uint, experience, level int) error {
	return s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"experience": experience, "level": level}).Error
}

// endregion
