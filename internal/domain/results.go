package domain

// LeaderboardEntry is one player's final standing.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// QuestionResult summarises how a session answered one question.
type QuestionResult struct {
	QuestionID        string   `json:"questionId"`
	PlayersCorrect    []string `json:"playersCorrectList"`
	AverageAnswerTime int      `json:"averageAnswerTime"`
	PercentCorrect    int      `json:"percentCorrect"`
}

// SessionResults is the final leaderboard plus per-question statistics.
type SessionResults struct {
	UsersRankedByScore []LeaderboardEntry `json:"usersRankedByScore"`
	QuestionResults    []QuestionResult   `json:"questionResults"`
}

func (r SessionResults) clone() SessionResults {
	out := SessionResults{
		UsersRankedByScore: append([]LeaderboardEntry(nil), r.UsersRankedByScore...),
		QuestionResults:    make([]QuestionResult, len(r.QuestionResults)),
	}
	for i, q := range r.QuestionResults {
		q.PlayersCorrect = append([]string(nil), q.PlayersCorrect...)
		out.QuestionResults[i] = q
	}
	return out
}
