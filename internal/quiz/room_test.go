package quiz

import (
	"context"
	"testing"

	"github.com/azhagarpy/quize-app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomFixture(t *testing.T) (*RoomService, *memStore, *recordNotifier) {
	t.Helper()
	store := newMemStore()
	notify := &recordNotifier{}
	return NewRoomService(store, notify), store, notify
}

func TestCreateRoom(t *testing.T) {
	svc, store, _ := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)

	assert.Equal(t, models.RoomWaiting, room.Status)
	assert.Len(t, room.Code, 6)
	assert.Equal(t, 4, room.MaxPlayers, "defaults applied")
	assert.Equal(t, 10, room.NumQuestions)
	assert.Equal(t, 30, room.TimeLimit)
	assert.Equal(t, "all", room.Category)
	assert.Equal(t, "medium", room.Difficulty)

	creator, err := store.GetRoomPlayer(ctx, room.ID, 1)
	require.NoError(t, err)
	assert.True(t, creator.IsCreator)
	assert.True(t, creator.IsReady, "creator is ready from the start")
	assert.Equal(t, "alice", creator.Username)
}

func TestCreateRoomEmptyName(t *testing.T) {
	svc, _, _ := newRoomFixture(t)

	_, err := svc.Create(context.Background(), 1, "alice", RoomConfig{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJoinRoom(t *testing.T) {
	svc, store, notify := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)

	joined, err := svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)
	assert.Equal(t, room.ID, joined.ID)

	player, err := store.GetRoomPlayer(ctx, room.ID, 2)
	require.NoError(t, err)
	assert.False(t, player.IsReady, "joiners start not ready")
	assert.False(t, player.IsCreator)

	assert.Len(t, notify.byType("player.joined"), 1)
}

func TestJoinRoomIdempotent(t *testing.T) {
	svc, store, notify := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)

	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err, "re-joining must succeed")

	players, err := store.ListRoomPlayers(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, players, 2, "no duplicate roster entry")
	assert.Len(t, notify.byType("player.joined"), 1, "no duplicate join broadcast")
}

func TestJoinRoomFull(t *testing.T) {
	svc, _, _ := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Duel", MaxPlayers: 2})
	require.NoError(t, err)

	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)

	_, err = svc.Join(ctx, room.Code, 3, "carol")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestJoinRoomBadCode(t *testing.T) {
	svc, _, _ := newRoomFixture(t)

	_, err := svc.Join(context.Background(), "000000", 2, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinRoomNotWaiting(t *testing.T) {
	svc, store, _ := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)
	require.NoError(t, store.UpdateRoomStatus(ctx, room.ID, models.RoomActive))

	_, err = svc.Join(ctx, room.Code, 2, "bob")
	assert.ErrorIs(t, err, ErrNotFound, "active rooms are not joinable")
}

func TestToggleReady(t *testing.T) {
	svc, store, notify := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)

	require.NoError(t, svc.ToggleReady(ctx, room.ID, 2))
	player, err := store.GetRoomPlayer(ctx, room.ID, 2)
	require.NoError(t, err)
	assert.True(t, player.IsReady)

	require.NoError(t, svc.ToggleReady(ctx, room.ID, 2))
	player, err = store.GetRoomPlayer(ctx, room.ID, 2)
	require.NoError(t, err)
	assert.False(t, player.IsReady, "toggle flips back")

	assert.Len(t, notify.byType("player.updated"), 2)
}

func TestStartGame(t *testing.T) {
	svc, store, notify := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz", NumQuestions: 5, TimeLimit: 15})
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)
	require.NoError(t, svc.ToggleReady(ctx, room.ID, 2))

	session, err := svc.Start(ctx, room.ID, 1)
	require.NoError(t, err)

	assert.True(t, session.IsMultiplayer)
	require.NotNil(t, session.RoomID)
	assert.Equal(t, room.ID, *session.RoomID)
	assert.Equal(t, 5, session.NumQuestions, "session inherits room settings")
	assert.Equal(t, 15, session.TimeLimit)
	assert.Equal(t, models.SessionActive, session.Status)

	updated, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomActive, updated.Status)

	scores, err := store.ListScores(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, scores, 2, "one zeroed score row per player")
	for _, sc := range scores {
		assert.Zero(t, sc.Score)
		assert.False(t, sc.Completed)
	}

	assert.Len(t, notify.byType("room.updated"), 1)

	found, err := svc.ActiveSession(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)
}

func TestStartGameNotCreator(t *testing.T) {
	svc, _, _ := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)
	require.NoError(t, svc.ToggleReady(ctx, room.ID, 2))

	_, err = svc.Start(ctx, room.ID, 2)
	assert.ErrorIs(t, err, ErrPermission)
}

func TestStartGameNotAllReady(t *testing.T) {
	svc, store, _ := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)

	_, err = svc.Start(ctx, room.ID, 1)
	assert.ErrorIs(t, err, ErrNotReady)

	updated, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomWaiting, updated.Status, "refused start leaves the room waiting")
}

func TestLeaveRoom(t *testing.T) {
	svc, store, notify := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, room.ID, 2))

	players, err := store.ListRoomPlayers(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, players, 1)
	assert.Len(t, notify.byType("player.left"), 1)

	updated, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomWaiting, updated.Status, "room stays open after a non-creator leaves")
}

func TestCreatorLeaveClosesRoom(t *testing.T) {
	svc, store, _ := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.Code, 2, "bob")
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, room.ID, 1))

	updated, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomClosed, updated.Status)

	players, err := store.ListRoomPlayers(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, players, "all roster rows removed when the room closes")
}

func TestLeaveRoomNotMember(t *testing.T) {
	svc, _, _ := newRoomFixture(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1, "alice", RoomConfig{Name: "Friday Quiz"})
	require.NoError(t, err)

	err = svc.Leave(ctx, room.ID, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
