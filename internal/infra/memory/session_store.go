package memory

import (
	"context"
	"sync"

	"quiz-session-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions are copied on the way in and out so callers never share state with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	byQuiz   map[string][]string
	players  map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		byQuiz:   make(map[string][]string),
		players:  make(map[string]string),
	}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		s.byQuiz[session.QuizID] = append(s.byQuiz[session.QuizID], session.ID)
	}
	s.sessions[session.ID] = session.Clone()
	for _, p := range session.Players {
		s.players[p.ID] = session.ID
	}
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *SessionStore) ListByQuiz(_ context.Context, quizID string) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byQuiz[quizID]
	out := make([]domain.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.sessions[id].Clone())
	}
	return out, nil
}

func (s *SessionStore) SessionIDForPlayer(_ context.Context, playerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.players[playerID]
	if !ok {
		return "", domain.ErrPlayerNotFound
	}
	return sessionID, nil
}
