package domain

import "time"

// State is the lifecycle phase of a quiz session.
type State string

const (
	StateLobby             State = "LOBBY"
	StateQuestionCountdown State = "QUESTION_COUNTDOWN"
	StateQuestionOpen      State = "QUESTION_OPEN"
	StateQuestionClose     State = "QUESTION_CLOSE"
	StateAnswerShow        State = "ANSWER_SHOW"
	StateFinalResults      State = "FINAL_RESULTS"
	StateEnd               State = "END"
)

// Action is a client-issued command requesting a state transition.
type Action string

const (
	ActionNextQuestion     Action = "NEXT_QUESTION"
	ActionSkipCountdown    Action = "SKIP_COUNTDOWN"
	ActionGoToAnswer       Action = "GO_TO_ANSWER"
	ActionGoToFinalResults Action = "GO_TO_FINAL_RESULTS"
	ActionEnd              Action = "END"
)

// ParseAction validates a raw action name.
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionNextQuestion, ActionSkipCountdown, ActionGoToAnswer, ActionGoToFinalResults, ActionEnd:
		return a, nil
	}
	return "", ErrUnknownAction
}

// Player is a participant joined to exactly one session.
type Player struct {
	ID        string `json:"playerId"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
}

// Submission is the latest answer set a player sent for a question.
type Submission struct {
	AnswerIDs   []string  `json:"answerIds"`
	TimeTaken   int       `json:"timeTaken"` // whole seconds since the question opened
	SubmittedAt time.Time `json:"submittedAt"`
}

// Round is the per-question mutable state of a session, reset whenever the question opens.
type Round struct {
	OpenedAt       time.Time             `json:"openedAt"`
	Submissions    map[string]Submission `json:"submissions"`
	CorrectPlayers []string              `json:"correctPlayers"` // player ids, order they became correct
	Scores         map[string]int        `json:"scores,omitempty"`
	Scored         bool                  `json:"scored"`
}

// Message is a chat line posted by a player.
type Message struct {
	Body       string    `json:"messageBody"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	TimeSent   time.Time `json:"timeSent"`
}

// Session is one run-through of a quiz.
type Session struct {
	ID           string          `json:"sessionId"`
	QuizID       string          `json:"quizId"`
	State        State           `json:"state"`
	AtQuestion   int             `json:"atQuestion"`
	AutoStartNum int             `json:"autoStartNum"`
	Metadata     Metadata        `json:"metadata"`
	Players      []Player        `json:"players"`
	Rounds       []Round         `json:"rounds"`
	Messages     []Message       `json:"messages"`
	Results      *SessionResults `json:"results,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Player looks up a joined player by id.
func (s *Session) Player(playerID string) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return &s.Players[i], true
		}
	}
	return nil, false
}

// HasName reports whether a player in the session already uses name.
func (s *Session) HasName(name string) bool {
	for _, p := range s.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Round returns the round for a 1-based question position.
func (s *Session) Round(position int) *Round {
	if position < 1 || position > len(s.Rounds) {
		return nil
	}
	return &s.Rounds[position-1]
}

// Clone deep-copies the session so a stored value never aliases a caller's value.
func (s Session) Clone() Session {
	out := s
	out.Metadata.Questions = Quiz{Questions: s.Metadata.Questions}.Clone().Questions
	out.Players = append([]Player(nil), s.Players...)
	out.Messages = append([]Message(nil), s.Messages...)
	out.Rounds = make([]Round, len(s.Rounds))
	for i, r := range s.Rounds {
		c := r
		c.CorrectPlayers = append([]string(nil), r.CorrectPlayers...)
		if r.Submissions != nil {
			c.Submissions = make(map[string]Submission, len(r.Submissions))
			for k, v := range r.Submissions {
				v.AnswerIDs = append([]string(nil), v.AnswerIDs...)
				c.Submissions[k] = v
			}
		}
		if r.Scores != nil {
			c.Scores = make(map[string]int, len(r.Scores))
			for k, v := range r.Scores {
				c.Scores[k] = v
			}
		}
		out.Rounds[i] = c
	}
	if s.Results != nil {
		res := s.Results.clone()
		out.Results = &res
	}
	return out
}

// SessionStatus is the host-facing view of a session.
type SessionStatus struct {
	State      State    `json:"state"`
	AtQuestion int      `json:"atQuestion"`
	Players    []string `json:"players"`
	Metadata   Metadata `json:"metadata"`
}

// SessionList splits a quiz's sessions by whether they have ended.
type SessionList struct {
	ActiveSessions   []string `json:"activeSessions"`
	InactiveSessions []string `json:"inactiveSessions"`
}

// PlayerStatus is the player-facing view of the owning session.
type PlayerStatus struct {
	State        State `json:"state"`
	NumQuestions int   `json:"numQuestions"`
	AtQuestion   int   `json:"atQuestion"`
}

// AnswerInfo is an answer stripped of its correctness flag.
type AnswerInfo struct {
	ID     string `json:"answerId"`
	Text   string `json:"answer"`
	Colour string `json:"colour"`
}

// QuestionInfo is what a player sees of the current question.
type QuestionInfo struct {
	ID       string       `json:"questionId"`
	Prompt   string       `json:"question"`
	Duration int          `json:"duration"`
	Points   int          `json:"points"`
	Answers  []AnswerInfo `json:"answers"`
}
