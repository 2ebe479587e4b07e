package quiz

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/models"

	"github.com/sirupsen/logrus"
)

// SessionConfig carries the settings for a new solo session.
type SessionConfig struct {
	NumQuestions int
	TimeLimit    int
	Category     string
	Difficulty   string
}

// ScoreUpdate is the payload broadcast on a session topic whenever a
// player's score row changes.
type ScoreUpdate struct {
	SessionID uint `json:"session_id"`
	UserID    uint `json:"user_id"`
	Score     int  `json:"score"`
	Completed bool `json:"completed"`
}

// AnswerResult reports what a submitted answer did. Accepted is false when
// the current question was already answered; such calls are no-ops.
type AnswerResult struct {
	Accepted      bool `json:"accepted"`
	Correct       bool `json:"correct"`
	Score         int  `json:"score"`
	QuestionIndex int  `json:"question_index"`
	Finished      bool `json:"finished"`
}

// PlayerState is a snapshot of one player's progress through a session.
type PlayerState struct {
	QuestionIndex int  `json:"question_index"`
	Score         int  `json:"score"`
	ExpGained     int  `json:"exp_gained"`
	TimeLeft      int  `json:"time_left"`
	Finished      bool `json:"finished"`
}

// LeaderboardEntry is one row of the score-descending session leaderboard.
type LeaderboardEntry struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Completed bool   `json:"completed"`
}

// SessionService drives question-by-question play for each participant of a
// session, solo or multiplayer. Multiplayer is the same machine plus live
// score broadcast and multi-party completion detection; there is no separate
// implementation.
type SessionService struct {
	store  Store
	notify Notifier
	cache  LeaderboardCache

	// revealDelay is the pause between a submitted answer and the advance to
	// the next question, long enough for clients to show the outcome.
	revealDelay time.Duration

	mu      sync.Mutex
	runners map[runnerKey]*runner
}

type runnerKey struct {
	sessionID uint
	userID    uint
}

// NewSessionService creates a SessionService. cache may be nil.
func NewSessionService(store Store, notify Notifier, cache LeaderboardCache) *SessionService {
	return &SessionService{
		store:       store,
		notify:      notify,
		cache:       cache,
		revealDelay: time.Second,
		runners:     make(map[runnerKey]*runner),
	}
}

// CreateSolo starts a single-player session: one active GameSession with no
// room bound, and one zeroed score row for the creator.
func (s *SessionService) CreateSolo(ctx context.Context, userID uint, cfg SessionConfig) (*models.GameSession, error) {
	rc := RoomConfig{
		MaxPlayers:   1,
		NumQuestions: cfg.NumQuestions,
		TimeLimit:    cfg.TimeLimit,
		Category:     cfg.Category,
		Difficulty:   cfg.Difficulty,
	}
	applyRoomDefaults(&rc)

	session := &models.GameSession{
		CreatorID:     userID,
		IsMultiplayer: false,
		TimeLimit:     rc.TimeLimit,
		NumQuestions:  rc.NumQuestions,
		Category:      rc.Category,
		Difficulty:    rc.Difficulty,
		Status:        models.SessionActive,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	scores := []models.PlayerScore{{SessionID: session.ID, UserID: userID}}
	if err := s.store.CreatePlayerScores(ctx, scores); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"session_id": session.ID, "creator_id": userID}).
		Info("Solo session created")
	return session, nil
}

// Load fetches the session and its question set for one participant and
// arms that player's runner. Loading an already-loaded session returns the
// same runner untouched, so a reconnecting client cannot reset its progress.
func (s *SessionService) Load(ctx context.Context, sessionID, userID uint) (*models.GameSession, []models.Question, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	score, err := s.store.GetScore(ctx, sessionID, userID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.store.PickQuestions(ctx, session.Category, session.Difficulty, session.NumQuestions)
	if err != nil {
		return nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("%w: category=%s difficulty=%s", ErrNoQuestions, session.Category, session.Difficulty)
	}

	if session.Status == models.SessionActive && !score.Completed {
		s.armRunner(session, userID, questions)
	}
	return session, questions, nil
}

func (s *SessionService) armRunner(session *models.GameSession, userID uint, questions []models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := runnerKey{sessionID: session.ID, userID: userID}
	if _, ok := s.runners[key]; ok {
		return
	}

	r := &runner{
		svc:       s,
		session:   session,
		userID:    userID,
		questions: questions,
		answers:   make(map[uint]string),
	}
	// Arm the countdown before publishing the runner; nothing else can reach
	// it yet, so no runner lock is needed and lock order stays svc.mu only.
	r.startTimer()
	s.runners[key] = r
}

func (s *SessionService) runner(sessionID, userID uint) (*runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runners[runnerKey{sessionID: sessionID, userID: userID}]
	if !ok {
		return nil, fmt.Errorf("%w: session not loaded", ErrNotFound)
	}
	return r, nil
}

func (s *SessionService) removeRunner(sessionID, userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runners, runnerKey{sessionID: sessionID, userID: userID})
}

// SubmitAnswer records the caller's answer for their current question. The
// first answer per question wins; repeats are no-ops. A correct answer is
// worth 10 points and 10 experience, persisted immediately in multiplayer so
// other clients' leaderboards move live.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, userID uint, answer string) (*AnswerResult, error) {
	r, err := s.runner(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return r.submit(ctx, answer), nil
}

// State returns the caller's current progress, including the read-only
// countdown value the game screen renders.
func (s *SessionService) State(sessionID, userID uint) (*PlayerState, error) {
	r, err := s.runner(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return r.state(), nil
}

// Leaderboard returns the session's scores in descending order, joined with
// usernames. Ties keep insertion order. Cached scores are preferred when the
// cache is warm; the store stays the source of truth.
func (s *SessionService) Leaderboard(ctx context.Context, sessionID uint) ([]LeaderboardEntry, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	scores, err := s.store.ListScores(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var cached map[uint]int
	if s.cache != nil {
		if m, err := s.cache.Scores(ctx, sessionID); err == nil {
			cached = m
		}
	}

	usernames := make(map[uint]string)
	if session.RoomID != nil {
		if players, err := s.store.ListRoomPlayers(ctx, *session.RoomID); err == nil {
			for _, p := range players {
				usernames[p.UserID] = p.Username
			}
		}
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for _, sc := range scores {
		name, ok := usernames[sc.UserID]
		if !ok {
			if profile, err := s.store.GetProfileByUser(ctx, sc.UserID); err == nil {
				name = profile.Username
			}
		}
		value := sc.Score
		if cachedScore, ok := cached[sc.UserID]; ok && cachedScore > value {
			value = cachedScore
		}
		entries = append(entries, LeaderboardEntry{
			UserID:    sc.UserID,
			Username:  name,
			Score:     value,
			Completed: sc.Completed,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	return entries, nil
}

// runner is one player's in-flight progress through a session:
// playing(q=0..N-1) -> finished. All transitions happen under mu, modelling
// the single logical event queue each client had in the original design.
// Timer expiry and answer submission converge on advance, which the
// generation counter guards so each question advances exactly once.
type runner struct {
	svc       *SessionService
	session   *models.GameSession
	userID    uint
	questions []models.Question

	mu        sync.Mutex
	idx       int
	gen       int
	answers   map[uint]string
	score     int
	expGained int
	deadline  time.Time
	timer     *time.Timer
	finished  bool
}

// startTimer arms the per-question countdown. Callers hold r.mu.
func (r *runner) startTimer() {
	limit := time.Duration(r.session.TimeLimit) * time.Second
	r.deadline = time.Now().Add(limit)
	gen := r.gen
	r.timer = time.AfterFunc(limit, func() {
		// Time ran out: advance with no answer recorded.
		r.advance(gen)
	})
}

func (r *runner) submit(ctx context.Context, answer string) *AnswerResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return &AnswerResult{Score: r.score, QuestionIndex: r.idx, Finished: true}
	}

	q := r.questions[r.idx]
	if _, answered := r.answers[q.ID]; answered {
		return &AnswerResult{Score: r.score, QuestionIndex: r.idx}
	}
	r.answers[q.ID] = answer

	correct := answer == q.CorrectAnswer
	if correct {
		r.score += 10
		r.expGained += 10

		if r.session.IsMultiplayer {
			if err := r.svc.store.UpdateScore(ctx, r.session.ID, r.userID, r.score); err != nil {
				logrus.WithError(err).WithField("session_id", r.session.ID).Warn("Failed to persist live score")
			}
			if r.svc.cache != nil {
				if err := r.svc.cache.SetScore(ctx, r.session.ID, r.userID, r.score); err != nil {
					logrus.WithError(err).Debug("Leaderboard cache write failed")
				}
			}
			r.svc.notify.Broadcast(hub.SessionTopic(r.session.ID), hub.Event{
				Type:    "score.updated",
				Payload: ScoreUpdate{SessionID: r.session.ID, UserID: r.userID, Score: r.score},
			})
		}
	}

	if r.timer != nil {
		r.timer.Stop()
	}
	gen := r.gen
	time.AfterFunc(r.svc.revealDelay, func() {
		r.advance(gen)
	})

	return &AnswerResult{Accepted: true, Correct: correct, Score: r.score, QuestionIndex: r.idx}
}

// advance moves to the next question, or finishes the session past the last
// one. Stale callers (a timer racing a just-submitted answer, or vice versa)
// see a bumped generation and return without effect.
func (r *runner) advance(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || gen != r.gen {
		return
	}
	r.gen++

	if r.timer != nil {
		r.timer.Stop()
	}

	if r.idx < len(r.questions)-1 {
		r.idx++
		r.startTimer()
		return
	}
	r.finish()
}

// finish persists this player's final result, applies the experience gain,
// and in multiplayer promotes session and room to completed once every score
// row reports done. The promotion is last-finisher-wins and idempotent; two
// simultaneous finishers may both attempt it, harmlessly. Callers hold r.mu.
func (r *runner) finish() {
	r.finished = true
	if r.timer != nil {
		r.timer.Stop()
	}

	ctx := context.Background()
	log := logrus.WithFields(logrus.Fields{"session_id": r.session.ID, "user_id": r.userID})

	if err := r.svc.store.CompleteScore(ctx, r.session.ID, r.userID, r.score); err != nil {
		log.WithError(err).Error("Failed to persist final score")
	}

	if profile, err := r.svc.store.GetProfileByUser(ctx, r.userID); err == nil {
		experience := profile.Experience + r.expGained
		level := experience/100 + 1
		if err := r.svc.store.UpdateProfileProgress(ctx, r.userID, experience, level); err != nil {
			log.WithError(err).Error("Failed to update profile progress")
		}
	} else {
		log.WithError(err).Error("Failed to load profile for experience update")
	}

	if r.session.IsMultiplayer {
		r.svc.notify.Broadcast(hub.SessionTopic(r.session.ID), hub.Event{
			Type:    "score.updated",
			Payload: ScoreUpdate{SessionID: r.session.ID, UserID: r.userID, Score: r.score, Completed: true},
		})

		if scores, err := r.svc.store.ListScores(ctx, r.session.ID); err == nil {
			allDone := true
			for _, sc := range scores {
				if !sc.Completed {
					allDone = false
					break
				}
			}
			if allDone {
				if err := r.svc.store.UpdateSessionStatus(ctx, r.session.ID, models.SessionCompleted); err != nil {
					log.WithError(err).Error("Failed to complete session")
				}
				if r.session.RoomID != nil {
					if err := r.svc.store.UpdateRoomStatus(ctx, *r.session.RoomID, models.RoomCompleted); err != nil {
						log.WithError(err).Error("Failed to complete room")
					}
				}
				r.svc.notify.Broadcast(hub.SessionTopic(r.session.ID), hub.Event{
					Type:    "session.completed",
					Payload: ScoreUpdate{SessionID: r.session.ID, UserID: r.userID, Score: r.score, Completed: true},
				})
			}
		} else {
			log.WithError(err).Error("Failed to list scores for completion check")
		}
	} else {
		if err := r.svc.store.UpdateSessionStatus(ctx, r.session.ID, models.SessionCompleted); err != nil {
			log.WithError(err).Error("Failed to complete session")
		}
	}

	log.WithFields(logrus.Fields{"score": r.score, "exp_gained": r.expGained}).Info("Player finished session")
	r.svc.removeRunner(r.session.ID, r.userID)
}

func (r *runner) state() *PlayerState {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := 0
	if !r.finished {
		if d := time.Until(r.deadline); d > 0 {
			left = int(d.Round(time.Second) / time.Second)
		}
	}
	return &PlayerState{
		QuestionIndex: r.idx,
		Score:         r.score,
		ExpGained:     r.expGained,
		TimeLeft:      left,
		Finished:      r.finished,
	}
}
