package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-session-service/internal/domain"
)

// SessionStore is a Redis implementation of app.SessionRepository.
// Layout:
//   - quiz:session:{sessionID}  JSON snapshot of the session
//   - quiz:{quizID}:sessions    set of session ids started from the quiz
//   - quiz:players              hash playerID -> sessionID
//
// A zero ttl keeps sessions until the data store is reset.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(session.ID), data, s.ttl)
	pipe.SAdd(ctx, s.quizKey(session.QuizID), session.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.quizKey(session.QuizID), s.ttl)
	}
	if len(session.Players) > 0 {
		fields := make([]interface{}, 0, 2*len(session.Players))
		for _, p := range session.Players {
			fields = append(fields, p.ID, session.ID)
		}
		pipe.HSet(ctx, playersKey, fields...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return decodeSession(data)
}

func (s *SessionStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.Session, error) {
	ids, err := s.client.SMembers(ctx, s.quizKey(quizID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions for quiz %s: %w", quizID, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.sessionKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load sessions for quiz %s: %w", quizID, err)
	}

	sessions := make([]domain.Session, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// expired between SMEMBERS and MGET
			continue
		}
		session, err := decodeSession([]byte(raw))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *SessionStore) SessionIDForPlayer(ctx context.Context, playerID string) (string, error) {
	sessionID, err := s.client.HGet(ctx, playersKey, playerID).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrPlayerNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup player %s: %w", playerID, err)
	}
	return sessionID, nil
}

const playersKey = "quiz:players"

func (s *SessionStore) sessionKey(sessionID string) string {
	return "quiz:session:" + sessionID
}

func (s *SessionStore) quizKey(quizID string) string {
	return "quiz:" + quizID + ":sessions"
}

func decodeSession(data []byte) (domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}
