package app

import (
	"fmt"

	"quiz-session-service/internal/domain"
)

// Timer expiries enter the machine as internal actions. They are never
// accepted from clients because domain.ParseAction rejects them.
const (
	actionCountdownElapsed domain.Action = "countdown_elapsed"
	actionDurationElapsed  domain.Action = "duration_elapsed"
)

// Effect is a side effect the caller must perform after a transition.
type Effect int

const (
	EffectCancelCountdown Effect = iota + 1
	EffectCancelDuration
	EffectCancelTimers
	EffectAdvanceQuestion // atQuestion += 1
	EffectArmCountdown
	EffectOpenQuestion // reset the round, stamp open time, arm duration timer
	EffectScoreQuestion
	EffectResetPosition // atQuestion = 0
	EffectFinalResults
)

func (e Effect) String() string {
	switch e {
	case EffectCancelCountdown:
		return "cancel_countdown"
	case EffectCancelDuration:
		return "cancel_duration"
	case EffectCancelTimers:
		return "cancel_timers"
	case EffectAdvanceQuestion:
		return "advance_question"
	case EffectArmCountdown:
		return "arm_countdown"
	case EffectOpenQuestion:
		return "open_question"
	case EffectScoreQuestion:
		return "score_question"
	case EffectResetPosition:
		return "reset_position"
	case EffectFinalResults:
		return "final_results"
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// Transition computes the next state and the effects of applying action in state.
// It has no side effects of its own.
func Transition(state domain.State, action domain.Action, atQuestion, numQuestions int) (domain.State, []Effect, error) {
	if action == domain.ActionEnd {
		if state == domain.StateEnd {
			return state, nil, invalidAction(state, action)
		}
		return domain.StateEnd, []Effect{EffectCancelTimers, EffectResetPosition}, nil
	}

	switch state {
	case domain.StateLobby:
		if action == domain.ActionNextQuestion {
			return nextQuestion(state, action, atQuestion, numQuestions)
		}
	case domain.StateQuestionCountdown:
		switch action {
		case domain.ActionSkipCountdown:
			return domain.StateQuestionOpen, []Effect{EffectCancelCountdown, EffectOpenQuestion}, nil
		case actionCountdownElapsed:
			return domain.StateQuestionOpen, []Effect{EffectOpenQuestion}, nil
		}
	case domain.StateQuestionOpen:
		switch action {
		case actionDurationElapsed:
			return domain.StateQuestionClose, []Effect{EffectScoreQuestion}, nil
		case domain.ActionGoToAnswer:
			return domain.StateAnswerShow, []Effect{EffectCancelDuration, EffectScoreQuestion}, nil
		}
	case domain.StateQuestionClose, domain.StateAnswerShow:
		switch action {
		case domain.ActionGoToAnswer:
			if state == domain.StateQuestionClose {
				return domain.StateAnswerShow, nil, nil
			}
		case domain.ActionNextQuestion:
			return nextQuestion(state, action, atQuestion, numQuestions)
		case domain.ActionGoToFinalResults:
			return domain.StateFinalResults, []Effect{EffectResetPosition, EffectFinalResults}, nil
		}
	}
	return state, nil, invalidAction(state, action)
}

func nextQuestion(state domain.State, action domain.Action, atQuestion, numQuestions int) (domain.State, []Effect, error) {
	if atQuestion >= numQuestions {
		return state, nil, fmt.Errorf("%w: no questions remain after %d", domain.ErrInvalidAction, atQuestion)
	}
	return domain.StateQuestionCountdown, []Effect{EffectAdvanceQuestion, EffectArmCountdown}, nil
}

func invalidAction(state domain.State, action domain.Action) error {
	return fmt.Errorf("%w: %s in state %s", domain.ErrInvalidAction, action, state)
}
