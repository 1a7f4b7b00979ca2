package domain

// Answer is one selectable answer of a question.
type Answer struct {
	ID      string `json:"answerId"`
	Text    string `json:"answer"`
	Colour  string `json:"colour"`
	Correct bool   `json:"correct"`
}

// Question models a multiple-choice question; more than one answer may be correct.
type Question struct {
	ID       string   `json:"questionId"`
	Prompt   string   `json:"question"`
	Duration int      `json:"duration"` // seconds the question stays open
	Points   int      `json:"points"`
	Answers  []Answer `json:"answers"`
}

// CorrectAnswerIDs returns the ids of every answer flagged correct, in declaration order.
func (q Question) CorrectAnswerIDs() []string {
	ids := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.Correct {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// HasAnswer reports whether answerID belongs to the question.
func (q Question) HasAnswer(answerID string) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return true
		}
	}
	return false
}

// Quiz is the live, editable quiz owned by a user.
type Quiz struct {
	ID          string     `json:"quizId"`
	OwnerID     string     `json:"ownerId,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Clone returns a structural copy that shares no slices with q.
func (q Quiz) Clone() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Answers = append([]Answer(nil), question.Answers...)
		out.Questions[i] = question
	}
	return out
}

// Metadata is the immutable snapshot of a quiz taken when a session starts.
type Metadata struct {
	QuizID       string     `json:"quizId"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	NumQuestions int        `json:"numQuestions"`
	Duration     int        `json:"duration"`
	Questions    []Question `json:"questions"`
}

// Snapshot copies the quiz into session metadata.
func Snapshot(q Quiz) Metadata {
	c := q.Clone()
	total := 0
	for _, question := range c.Questions {
		total += question.Duration
	}
	return Metadata{
		QuizID:       c.ID,
		Name:         c.Name,
		Description:  c.Description,
		NumQuestions: len(c.Questions),
		Duration:     total,
		Questions:    c.Questions,
	}
}

// Question returns the question at a 1-based position.
func (m Metadata) Question(position int) (Question, bool) {
	if position < 1 || position > len(m.Questions) {
		return Question{}, false
	}
	return m.Questions[position-1], true
}
