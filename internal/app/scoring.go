package app

import (
	"math"
	"time"

	"quiz-session-service/internal/domain"
)

// validateAnswerIDs rejects empty, duplicated or foreign answer ids.
func validateAnswerIDs(q domain.Question, answerIDs []string) error {
	if len(answerIDs) == 0 {
		return domain.ErrNoAnswers
	}
	seen := make(map[string]struct{}, len(answerIDs))
	for _, id := range answerIDs {
		if !q.HasAnswer(id) {
			return domain.ErrUnknownAnswer
		}
		if _, dup := seen[id]; dup {
			return domain.ErrDuplicateAnswer
		}
		seen[id] = struct{}{}
	}
	return nil
}

// isCorrect reports whether answerIDs is exactly the question's set of correct ids.
// answerIDs must already be free of duplicates.
func isCorrect(q domain.Question, answerIDs []string) bool {
	correct := q.CorrectAnswerIDs()
	if len(correct) != len(answerIDs) {
		return false
	}
	want := make(map[string]struct{}, len(correct))
	for _, id := range correct {
		want[id] = struct{}{}
	}
	for _, id := range answerIDs {
		if _, ok := want[id]; !ok {
			return false
		}
	}
	return true
}

// openRound resets the per-question state when the question opens.
func openRound(now time.Time) domain.Round {
	return domain.Round{
		OpenedAt:       now,
		Submissions:    make(map[string]domain.Submission),
		CorrectPlayers: []string{},
	}
}

// recordSubmission overwrites the player's previous submission and moves them
// to the back of the correct-order list, or out of it when the new set is wrong.
func recordSubmission(round *domain.Round, playerID string, answerIDs []string, correct bool, now time.Time) {
	if round.Submissions == nil {
		round.Submissions = make(map[string]domain.Submission)
	}
	elapsed := now.Sub(round.OpenedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	round.Submissions[playerID] = domain.Submission{
		AnswerIDs:   append([]string(nil), answerIDs...),
		TimeTaken:   int(elapsed / time.Second),
		SubmittedAt: now,
	}

	kept := round.CorrectPlayers[:0]
	for _, id := range round.CorrectPlayers {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	round.CorrectPlayers = kept
	if correct {
		round.CorrectPlayers = append(round.CorrectPlayers, playerID)
	}
}

// scoreRound awards round(P/k) to the k-th player of the correct-order list.
func scoreRound(q domain.Question, round *domain.Round) {
	round.Scores = make(map[string]int, len(round.CorrectPlayers))
	for i, playerID := range round.CorrectPlayers {
		round.Scores[playerID] = decayedScore(q.Points, i+1)
	}
	round.Scored = true
}

func decayedScore(points, position int) int {
	return roundHalfUp(float64(points) / float64(position))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
