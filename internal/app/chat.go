package app

import (
	"context"
	"fmt"
	"unicode/utf8"

	"quiz-session-service/internal/domain"
)

const maxMessageLength = 100

// SendMessage appends a chat message to the player's session.
func (s *SessionService) SendMessage(ctx context.Context, playerID, body string) error {
	if n := utf8.RuneCountInString(body); n < 1 || n > maxMessageLength {
		return domain.ErrMessageLength
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, player, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	session.Messages = append(session.Messages, domain.Message{
		Body:       body,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		TimeSent:   s.clock.Now(),
	})
	if err := s.sessions.Save(ctx, *session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Messages returns the chat of the player's session in the order it was sent.
func (s *SessionService) Messages(ctx context.Context, playerID string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, _, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return append([]domain.Message{}, session.Messages...), nil
}
