package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-session-service/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), 0)

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}

	session := domain.Session{
		ID:         "s1",
		QuizID:     "quiz-1",
		State:      domain.StateQuestionOpen,
		AtQuestion: 1,
		Metadata:   domain.Snapshot(sampleQuiz()),
		Players:    []domain.Player{{ID: "p1", SessionID: "s1", Name: "Alice"}},
		Rounds: []domain.Round{{
			OpenedAt:       time.Unix(100, 0).UTC(),
			Submissions:    map[string]domain.Submission{"p1": {AnswerIDs: []string{"a2"}, TimeTaken: 2}},
			CorrectPlayers: []string{"p1"},
		}},
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected session key to be set")
	}
	if mr.TTL("quiz:session:s1") != 0 {
		t.Fatalf("expected no expiry on session key")
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != domain.StateQuestionOpen || got.AtQuestion != 1 {
		t.Fatalf("unexpected state after round trip: %+v", got)
	}
	if got.Rounds[0].CorrectPlayers[0] != "p1" || got.Rounds[0].Submissions["p1"].TimeTaken != 2 {
		t.Fatalf("round lost on round trip: %+v", got.Rounds[0])
	}

	sessionID, err := store.SessionIDForPlayer(ctx, "p1")
	if err != nil || sessionID != "s1" {
		t.Fatalf("expected player index, got %q %v", sessionID, err)
	}
	if _, err := store.SessionIDForPlayer(ctx, "ghost"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}
}

func TestSessionStoreListByQuiz(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute)

	for _, id := range []string{"s1", "s2"} {
		if err := store.Save(ctx, domain.Session{ID: id, QuizID: "quiz-1", State: domain.StateLobby}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	_ = store.Save(ctx, domain.Session{ID: "s3", QuizID: "quiz-2", State: domain.StateLobby})

	sessions, err := store.ListByQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	mr.FastForward(2 * time.Minute)
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected session key to expire with ttl")
	}
}
