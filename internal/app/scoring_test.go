package app

import (
	"errors"
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

func multiAnswerQuestion() domain.Question {
	return domain.Question{
		ID:       "q2",
		Duration: 20,
		Points:   7,
		Answers: []domain.Answer{
			{ID: "a1", Text: "2", Correct: true},
			{ID: "a2", Text: "4"},
			{ID: "a3", Text: "7", Correct: true},
		},
	}
}

func TestDecayedScore(t *testing.T) {
	tests := []struct {
		points, position, want int
	}{
		{5, 1, 5}, {5, 2, 3}, {5, 3, 2}, {5, 4, 1},
		{7, 2, 4}, // half rounds up
		{10, 3, 3}, {1, 3, 0}, {1, 2, 1},
	}
	for _, tc := range tests {
		if got := decayedScore(tc.points, tc.position); got != tc.want {
			t.Fatalf("round(%d/%d): expected %d, got %d", tc.points, tc.position, tc.want, got)
		}
	}
}

func TestDecayedScoreNonIncreasing(t *testing.T) {
	for points := 1; points <= 10; points++ {
		prev := decayedScore(points, 1)
		for k := 2; k <= 50; k++ {
			cur := decayedScore(points, k)
			if cur > prev {
				t.Fatalf("score rose for P=%d at k=%d: %d > %d", points, k, cur, prev)
			}
			prev = cur
		}
	}
}

func TestIsCorrectRequiresExactSet(t *testing.T) {
	q := multiAnswerQuestion()
	tests := []struct {
		ids  []string
		want bool
	}{
		{[]string{"a1", "a3"}, true},
		{[]string{"a3", "a1"}, true},
		{[]string{"a1"}, false},
		{[]string{"a1", "a2", "a3"}, false},
		{[]string{"a2"}, false},
	}
	for _, tc := range tests {
		if got := isCorrect(q, tc.ids); got != tc.want {
			t.Fatalf("isCorrect(%v): expected %v", tc.ids, tc.want)
		}
	}
}

func TestValidateAnswerIDs(t *testing.T) {
	q := multiAnswerQuestion()
	if err := validateAnswerIDs(q, nil); !errors.Is(err, domain.ErrNoAnswers) {
		t.Fatalf("expected no answers, got %v", err)
	}
	if err := validateAnswerIDs(q, []string{"a1", "a1"}); !errors.Is(err, domain.ErrDuplicateAnswer) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if err := validateAnswerIDs(q, []string{"zz"}); !errors.Is(err, domain.ErrUnknownAnswer) {
		t.Fatalf("expected unknown answer, got %v", err)
	}
	if err := validateAnswerIDs(q, []string{"a2", "a3"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestRecordSubmissionResubmission(t *testing.T) {
	q := multiAnswerQuestion()
	opened := time.Unix(1000, 0)
	round := openRound(opened)

	submit := func(player string, ids []string, at time.Duration) {
		recordSubmission(&round, player, ids, isCorrect(q, ids), opened.Add(at))
	}

	submit("alice", []string{"a1", "a3"}, 1*time.Second)
	submit("bob", []string{"a1", "a3"}, 2*time.Second)
	submit("alice", []string{"a2"}, 3*time.Second)
	if len(round.CorrectPlayers) != 1 || round.CorrectPlayers[0] != "bob" {
		t.Fatalf("wrong resubmission must leave the list, got %v", round.CorrectPlayers)
	}

	submit("alice", []string{"a3", "a1"}, 5*time.Second)
	if len(round.CorrectPlayers) != 2 || round.CorrectPlayers[0] != "bob" || round.CorrectPlayers[1] != "alice" {
		t.Fatalf("expected [bob alice], got %v", round.CorrectPlayers)
	}
	if got := round.Submissions["alice"].TimeTaken; got != 5 {
		t.Fatalf("expected last submission time 5, got %d", got)
	}
	if len(round.Submissions) != 2 {
		t.Fatalf("expected one submission per player, got %d", len(round.Submissions))
	}

	scoreRound(q, &round)
	if round.Scores["bob"] != 7 || round.Scores["alice"] != 4 {
		t.Fatalf("unexpected scores: %v", round.Scores)
	}
}
