package app

import (
	"sort"

	"quiz-session-service/internal/domain"
)

// questionResult builds the statistics for one question of a session.
func questionResult(s *domain.Session, position int) domain.QuestionResult {
	question, _ := s.Metadata.Question(position)
	result := domain.QuestionResult{
		QuestionID:     question.ID,
		PlayersCorrect: []string{},
	}
	round := s.Round(position)
	if round == nil {
		return result
	}

	for _, playerID := range round.CorrectPlayers {
		if p, ok := s.Player(playerID); ok {
			result.PlayersCorrect = append(result.PlayersCorrect, p.Name)
		}
	}
	// Alphabetical for display only; scoring used submission order.
	sort.Strings(result.PlayersCorrect)

	if len(s.Players) > 0 {
		result.PercentCorrect = roundHalfUp(100 * float64(len(round.CorrectPlayers)) / float64(len(s.Players)))
	}
	if len(round.Submissions) > 0 {
		total := 0
		for _, sub := range round.Submissions {
			total += sub.TimeTaken
		}
		result.AverageAnswerTime = roundHalfUp(float64(total) / float64(len(round.Submissions)))
	}
	return result
}

// aggregateResults totals per-question scores onto the players and builds the
// leaderboard. Equal scores keep join order.
func aggregateResults(s *domain.Session) domain.SessionResults {
	totals := make(map[string]int, len(s.Players))
	for _, round := range s.Rounds {
		for playerID, score := range round.Scores {
			totals[playerID] += score
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(s.Players))
	for i := range s.Players {
		s.Players[i].Score = totals[s.Players[i].ID]
		entries = append(entries, domain.LeaderboardEntry{
			Name:  s.Players[i].Name,
			Score: s.Players[i].Score,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	questions := make([]domain.QuestionResult, 0, s.Metadata.NumQuestions)
	for position := 1; position <= s.Metadata.NumQuestions; position++ {
		questions = append(questions, questionResult(s, position))
	}
	return domain.SessionResults{
		UsersRankedByScore: entries,
		QuestionResults:    questions,
	}
}
