package app

import (
	"context"
	"fmt"

	"quiz-session-service/internal/domain"
)

// QuestionInfo returns the question the player's session is showing, without correctness flags.
func (s *SessionService) QuestionInfo(ctx context.Context, playerID string, position int) (domain.QuestionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, _, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return domain.QuestionInfo{}, err
	}
	question, ok := session.Metadata.Question(position)
	if !ok {
		return domain.QuestionInfo{}, fmt.Errorf("%w: %d", domain.ErrQuestionPosition, position)
	}
	switch session.State {
	case domain.StateQuestionOpen, domain.StateQuestionClose, domain.StateAnswerShow:
	default:
		return domain.QuestionInfo{}, fmt.Errorf("%w: state %s", domain.ErrQuestionNotShown, session.State)
	}
	if session.AtQuestion != position {
		return domain.QuestionInfo{}, domain.ErrNotAtQuestion
	}

	info := domain.QuestionInfo{
		ID:       question.ID,
		Prompt:   question.Prompt,
		Duration: question.Duration,
		Points:   question.Points,
		Answers:  make([]domain.AnswerInfo, 0, len(question.Answers)),
	}
	for _, a := range question.Answers {
		info.Answers = append(info.Answers, domain.AnswerInfo{ID: a.ID, Text: a.Text, Colour: a.Colour})
	}
	return info, nil
}

// SubmitAnswer records the player's answer set for the open question,
// overwriting anything they submitted earlier for it.
func (s *SessionService) SubmitAnswer(ctx context.Context, playerID string, position int, answerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, player, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	question, ok := session.Metadata.Question(position)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrQuestionPosition, position)
	}
	if session.State != domain.StateQuestionOpen {
		return fmt.Errorf("%w: state %s", domain.ErrQuestionNotOpen, session.State)
	}
	if session.AtQuestion != position {
		return domain.ErrNotAtQuestion
	}
	if err := validateAnswerIDs(question, answerIDs); err != nil {
		return err
	}

	round := session.Round(position)
	recordSubmission(round, player.ID, answerIDs, isCorrect(question, answerIDs), s.clock.Now())

	if err := s.sessions.Save(ctx, *session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// QuestionResults returns the statistics of a question while its answer is shown.
func (s *SessionService) QuestionResults(ctx context.Context, playerID string, position int) (domain.QuestionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, _, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return domain.QuestionResult{}, err
	}
	if _, ok := session.Metadata.Question(position); !ok {
		return domain.QuestionResult{}, fmt.Errorf("%w: %d", domain.ErrQuestionPosition, position)
	}
	if session.State != domain.StateAnswerShow {
		return domain.QuestionResult{}, fmt.Errorf("%w: state %s", domain.ErrAnswerNotRevealed, session.State)
	}
	if session.AtQuestion != position {
		return domain.QuestionResult{}, domain.ErrNotAtQuestion
	}
	return questionResult(session, position), nil
}
