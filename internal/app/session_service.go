package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-session-service/internal/domain"
)

// SessionRepository abstracts where session snapshots live (in-memory, Redis, etc).
// Get must return a copy the caller may mutate freely.
type SessionRepository interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	ListByQuiz(ctx context.Context, quizID string) ([]domain.Session, error)
	SessionIDForPlayer(ctx context.Context, playerID string) (string, error)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SessionConfig tunes the engine. Zero values fall back to defaults.
type SessionConfig struct {
	Countdown         time.Duration
	MaxActiveSessions int
	MaxAutoStartNum   int
}

const (
	DefaultCountdown         = 3 * time.Second
	DefaultMaxActiveSessions = 10
	DefaultMaxAutoStartNum   = 50

	timerCallbackTimeout = 5 * time.Second
)

func (c SessionConfig) withDefaults() SessionConfig {
	if c.Countdown <= 0 {
		c.Countdown = DefaultCountdown
	}
	if c.MaxActiveSessions <= 0 {
		c.MaxActiveSessions = DefaultMaxActiveSessions
	}
	if c.MaxAutoStartNum <= 0 {
		c.MaxAutoStartNum = DefaultMaxAutoStartNum
	}
	return c
}

// SessionService runs quiz sessions. Every request and every timer expiry
// runs to completion under mu, so session state never sees interleaved writes.
type SessionService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	cfg      SessionConfig
	clock    Clock
	logger   *slog.Logger
	timers   *TimerRegistry
	newID    func() string
	rnd      *rand.Rand

	mu sync.Mutex
}

func NewSessionService(store SessionRepository, quizzes QuizRepository, cfg SessionConfig, logger *slog.Logger) *SessionService {
	return NewSessionServiceWithClock(store, quizzes, cfg, logger, SystemClock())
}

// NewSessionServiceWithClock lets tests drive timers deterministically.
func NewSessionServiceWithClock(store SessionRepository, quizzes QuizRepository, cfg SessionConfig, logger *slog.Logger, clock Clock) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SessionService{
		sessions: store,
		quizzes:  quizzes,
		cfg:      cfg.withDefaults(),
		clock:    clock,
		logger:   logger,
		newID:    uuid.NewString,
		rnd:      rand.New(rand.NewSource(clock.Now().UnixNano())),
	}
	s.timers = NewTimerRegistry(clock, s.dispatch)
	return s
}

// Timers exposes the registry so callers can inspect pending timers.
func (s *SessionService) Timers() *TimerRegistry {
	return s.timers
}

func (s *SessionService) dispatch(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f()
}

// StartSession snapshots a quiz into a new session in LOBBY.
func (s *SessionService) StartSession(ctx context.Context, quizID string, autoStartNum int) (string, error) {
	if autoStartNum < 0 || autoStartNum > s.cfg.MaxAutoStartNum {
		return "", fmt.Errorf("%w: %d", domain.ErrAutoStartNum, autoStartNum)
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	if len(quiz.Questions) == 0 {
		return "", domain.ErrQuizHasNoQuestions
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.sessions.ListByQuiz(ctx, quizID)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}
	active := 0
	for _, session := range existing {
		if session.State != domain.StateEnd {
			active++
		}
	}
	if active >= s.cfg.MaxActiveSessions {
		return "", fmt.Errorf("%w: %d of %d", domain.ErrTooManySessions, active, s.cfg.MaxActiveSessions)
	}

	metadata := domain.Snapshot(quiz)
	session := domain.Session{
		ID:           s.newID(),
		QuizID:       quizID,
		State:        domain.StateLobby,
		AutoStartNum: autoStartNum,
		Metadata:     metadata,
		Players:      []domain.Player{},
		Rounds:       make([]domain.Round, metadata.NumQuestions),
		Messages:     []domain.Message{},
		CreatedAt:    s.clock.Now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("session started", "session", session.ID, "quiz", quizID, "questions", metadata.NumQuestions)
	return session.ID, nil
}

// ListSessions returns the quiz's session ids split into active and ended, each sorted.
func (s *SessionService) ListSessions(ctx context.Context, quizID string) (domain.SessionList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.sessions.ListByQuiz(ctx, quizID)
	if err != nil {
		return domain.SessionList{}, err
	}
	list := domain.SessionList{ActiveSessions: []string{}, InactiveSessions: []string{}}
	for _, session := range sessions {
		if session.State == domain.StateEnd {
			list.InactiveSessions = append(list.InactiveSessions, session.ID)
		} else {
			list.ActiveSessions = append(list.ActiveSessions, session.ID)
		}
	}
	sort.Strings(list.ActiveSessions)
	sort.Strings(list.InactiveSessions)
	return list, nil
}

// UpdateSession applies a client action to the session.
func (s *SessionService) UpdateSession(ctx context.Context, sessionID string, action domain.Action) error {
	if _, err := domain.ParseAction(string(action)); err != nil {
		return fmt.Errorf("%w: %q", err, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, sessionID, action)
}

// SessionStatus returns the host-facing view of a session.
func (s *SessionService) SessionStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionStatus{}, err
	}
	names := make([]string, 0, len(session.Players))
	for _, p := range session.Players {
		names = append(names, p.Name)
	}
	return domain.SessionStatus{
		State:      session.State,
		AtQuestion: session.AtQuestion,
		Players:    names,
		Metadata:   session.Metadata,
	}, nil
}

// SessionResults returns the final results once the session reached FINAL_RESULTS.
func (s *SessionService) SessionResults(ctx context.Context, sessionID string) (domain.SessionResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionResults{}, err
	}
	return finalResults(&session)
}

// FinalResults is SessionResults seen from a player.
func (s *SessionService) FinalResults(ctx context.Context, playerID string) (domain.SessionResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, _, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return domain.SessionResults{}, err
	}
	return finalResults(session)
}

func finalResults(session *domain.Session) (domain.SessionResults, error) {
	if session.State != domain.StateFinalResults || session.Results == nil {
		return domain.SessionResults{}, domain.ErrResultsNotReady
	}
	return *session.Results, nil
}

// update loads, transitions and stores a session. Callers hold mu.
func (s *SessionService) update(ctx context.Context, sessionID string, action domain.Action) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	pending, err := s.apply(&session, action)
	if err != nil {
		return err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	runAll(pending)
	return nil
}

// apply runs the transition on session and performs its state effects.
// Timer effects are returned so they only happen once the new state is stored.
func (s *SessionService) apply(session *domain.Session, action domain.Action) ([]func(), error) {
	from := session.State
	next, effects, err := Transition(session.State, action, session.AtQuestion, session.Metadata.NumQuestions)
	if err != nil {
		return nil, err
	}
	session.State = next

	var pending []func()
	for _, effect := range effects {
		if op := s.perform(session, effect); op != nil {
			pending = append(pending, op)
		}
	}
	s.logger.Debug("session transition",
		"session", session.ID, "action", action, "from", from, "to", next, "atQuestion", session.AtQuestion)
	return pending, nil
}

func (s *SessionService) perform(session *domain.Session, effect Effect) func() {
	id := session.ID
	switch effect {
	case EffectCancelCountdown:
		return func() { s.timers.Cancel(id, TimerCountdown) }
	case EffectCancelDuration:
		return func() { s.timers.Cancel(id, TimerDuration) }
	case EffectCancelTimers:
		return func() { s.timers.CancelAll(id) }
	case EffectAdvanceQuestion:
		session.AtQuestion++
	case EffectArmCountdown:
		countdown := s.cfg.Countdown
		return func() { s.timers.Set(id, TimerCountdown, countdown, s.onTimer(id, actionCountdownElapsed)) }
	case EffectOpenQuestion:
		question, _ := session.Metadata.Question(session.AtQuestion)
		if round := session.Round(session.AtQuestion); round != nil {
			*round = openRound(s.clock.Now())
		}
		duration := time.Duration(question.Duration) * time.Second
		return func() { s.timers.Set(id, TimerDuration, duration, s.onTimer(id, actionDurationElapsed)) }
	case EffectScoreQuestion:
		question, _ := session.Metadata.Question(session.AtQuestion)
		if round := session.Round(session.AtQuestion); round != nil {
			scoreRound(question, round)
		}
	case EffectResetPosition:
		session.AtQuestion = 0
	case EffectFinalResults:
		results := aggregateResults(session)
		session.Results = &results
	}
	return nil
}

// onTimer re-enters the machine exactly as if action had arrived from a client.
// It runs inside dispatch, so mu is already held.
func (s *SessionService) onTimer(sessionID string, action domain.Action) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timerCallbackTimeout)
		defer cancel()

		s.logger.Debug("timer expired", "session", sessionID, "action", action)
		if err := s.update(ctx, sessionID, action); err != nil {
			s.logger.Error("apply timer expiry", "session", sessionID, "action", action, "error", err)
		}
	}
}

func runAll(ops []func()) {
	for _, op := range ops {
		op()
	}
}
