package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the engine wraps exactly one of them.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
)

var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = fmt.Errorf("quiz session %w", ErrNotFound)
	// ErrPlayerNotFound is returned for an unknown player id.
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = fmt.Errorf("quiz %w", ErrNotFound)

	ErrQuizHasNoQuestions = fmt.Errorf("%w: quiz has no questions", ErrInvalidInput)
	ErrAutoStartNum       = fmt.Errorf("%w: autoStartNum out of range", ErrInvalidInput)
	ErrNameTaken          = fmt.Errorf("%w: name already used in this session", ErrInvalidInput)
	ErrQuestionPosition   = fmt.Errorf("%w: question position out of range", ErrInvalidInput)
	ErrUnknownAnswer      = fmt.Errorf("%w: answer id does not belong to the question", ErrInvalidInput)
	ErrDuplicateAnswer    = fmt.Errorf("%w: duplicate answer id", ErrInvalidInput)
	ErrNoAnswers          = fmt.Errorf("%w: no answer ids submitted", ErrInvalidInput)
	ErrUnknownAction      = fmt.Errorf("%w: unknown action", ErrInvalidInput)
	ErrMessageLength      = fmt.Errorf("%w: message must be 1-100 characters", ErrInvalidInput)

	ErrTooManySessions   = fmt.Errorf("%w: too many active sessions for quiz", ErrInvalidState)
	ErrInvalidAction     = fmt.Errorf("%w: action not allowed", ErrInvalidState)
	ErrNotInLobby        = fmt.Errorf("%w: session is not in LOBBY", ErrInvalidState)
	ErrQuestionNotOpen   = fmt.Errorf("%w: question is not open", ErrInvalidState)
	ErrNotAtQuestion     = fmt.Errorf("%w: session is not at this question", ErrInvalidState)
	ErrResultsNotReady   = fmt.Errorf("%w: results are not available yet", ErrInvalidState)
	ErrQuestionNotShown  = fmt.Errorf("%w: question is not being shown", ErrInvalidState)
	ErrAnswerNotRevealed = fmt.Errorf("%w: answer has not been revealed", ErrInvalidState)
)
