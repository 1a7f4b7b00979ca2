package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"quiz-session-service/internal/domain"
)

const (
	nameLetters = "abcdefghijklmnopqrstuvwxyz"
	nameDigits  = "0123456789"
)

// JoinSession registers a player in a session that is still in LOBBY.
// A blank name is replaced by a generated one. Reaching the session's
// autoStartNum advances it to the first question.
func (s *SessionService) JoinSession(ctx context.Context, sessionID, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.State != domain.StateLobby {
		return "", domain.ErrNotInLobby
	}

	if strings.TrimSpace(name) == "" {
		name = generateName(s.rnd, session.HasName)
	} else if session.HasName(name) {
		return "", fmt.Errorf("%w: %q", domain.ErrNameTaken, name)
	}

	player := domain.Player{
		ID:        s.newID(),
		SessionID: session.ID,
		Name:      name,
	}
	session.Players = append(session.Players, player)

	var pending []func()
	if session.AutoStartNum > 0 && len(session.Players) == session.AutoStartNum {
		s.logger.Info("auto-starting session", "session", session.ID, "players", len(session.Players))
		pending, err = s.apply(&session, domain.ActionNextQuestion)
		if err != nil {
			return "", err
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	runAll(pending)
	return player.ID, nil
}

// PlayerStatus reports where the player's session currently is.
func (s *SessionService) PlayerStatus(ctx context.Context, playerID string) (domain.PlayerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, _, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return domain.PlayerStatus{}, err
	}
	return domain.PlayerStatus{
		State:        session.State,
		NumQuestions: session.Metadata.NumQuestions,
		AtQuestion:   session.AtQuestion,
	}, nil
}

// loadPlayer resolves a player id to its session and the player inside it.
func (s *SessionService) loadPlayer(ctx context.Context, playerID string) (*domain.Session, *domain.Player, error) {
	sessionID, err := s.sessions.SessionIDForPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	player, ok := session.Player(playerID)
	if !ok {
		return nil, nil, domain.ErrPlayerNotFound
	}
	return &session, player, nil
}

// generateName draws five distinct letters followed by three distinct digits
// until the result is not taken.
func generateName(rnd *rand.Rand, taken func(string) bool) string {
	for {
		var b strings.Builder
		for _, i := range rnd.Perm(len(nameLetters))[:5] {
			b.WriteByte(nameLetters[i])
		}
		for _, i := range rnd.Perm(len(nameDigits))[:3] {
			b.WriteByte(nameDigits[i])
		}
		if name := b.String(); !taken(name) {
			return name
		}
	}
}
