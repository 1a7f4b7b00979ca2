package app

import (
	"errors"
	"reflect"
	"testing"

	"quiz-session-service/internal/domain"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.State
		action  domain.Action
		at      int
		to      domain.State
		effects []Effect
	}{
		{"lobby next", domain.StateLobby, domain.ActionNextQuestion, 0, domain.StateQuestionCountdown, []Effect{EffectAdvanceQuestion, EffectArmCountdown}},
		{"lobby end", domain.StateLobby, domain.ActionEnd, 0, domain.StateEnd, []Effect{EffectCancelTimers, EffectResetPosition}},
		{"skip countdown", domain.StateQuestionCountdown, domain.ActionSkipCountdown, 1, domain.StateQuestionOpen, []Effect{EffectCancelCountdown, EffectOpenQuestion}},
		{"countdown elapsed", domain.StateQuestionCountdown, actionCountdownElapsed, 1, domain.StateQuestionOpen, []Effect{EffectOpenQuestion}},
		{"countdown end", domain.StateQuestionCountdown, domain.ActionEnd, 1, domain.StateEnd, []Effect{EffectCancelTimers, EffectResetPosition}},
		{"duration elapsed", domain.StateQuestionOpen, actionDurationElapsed, 1, domain.StateQuestionClose, []Effect{EffectScoreQuestion}},
		{"open go to answer", domain.StateQuestionOpen, domain.ActionGoToAnswer, 1, domain.StateAnswerShow, []Effect{EffectCancelDuration, EffectScoreQuestion}},
		{"open end", domain.StateQuestionOpen, domain.ActionEnd, 1, domain.StateEnd, []Effect{EffectCancelTimers, EffectResetPosition}},
		{"close go to answer", domain.StateQuestionClose, domain.ActionGoToAnswer, 1, domain.StateAnswerShow, nil},
		{"close next", domain.StateQuestionClose, domain.ActionNextQuestion, 1, domain.StateQuestionCountdown, []Effect{EffectAdvanceQuestion, EffectArmCountdown}},
		{"close final", domain.StateQuestionClose, domain.ActionGoToFinalResults, 1, domain.StateFinalResults, []Effect{EffectResetPosition, EffectFinalResults}},
		{"close end", domain.StateQuestionClose, domain.ActionEnd, 1, domain.StateEnd, []Effect{EffectCancelTimers, EffectResetPosition}},
		{"answer next", domain.StateAnswerShow, domain.ActionNextQuestion, 1, domain.StateQuestionCountdown, []Effect{EffectAdvanceQuestion, EffectArmCountdown}},
		{"answer final", domain.StateAnswerShow, domain.ActionGoToFinalResults, 2, domain.StateFinalResults, []Effect{EffectResetPosition, EffectFinalResults}},
		{"answer end", domain.StateAnswerShow, domain.ActionEnd, 2, domain.StateEnd, []Effect{EffectCancelTimers, EffectResetPosition}},
		{"final end", domain.StateFinalResults, domain.ActionEnd, 0, domain.StateEnd, []Effect{EffectCancelTimers, EffectResetPosition}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			to, effects, err := Transition(tc.from, tc.action, tc.at, 2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if to != tc.to {
				t.Fatalf("expected %s, got %s", tc.to, to)
			}
			if !reflect.DeepEqual(effects, tc.effects) {
				t.Fatalf("expected effects %v, got %v", tc.effects, effects)
			}
		})
	}
}

func TestTransitionRejectsUnlistedActions(t *testing.T) {
	tests := []struct {
		from   domain.State
		action domain.Action
		at     int
	}{
		{domain.StateLobby, domain.ActionSkipCountdown, 0},
		{domain.StateLobby, domain.ActionGoToAnswer, 0},
		{domain.StateLobby, domain.ActionGoToFinalResults, 0},
		{domain.StateQuestionCountdown, domain.ActionNextQuestion, 1},
		{domain.StateQuestionCountdown, domain.ActionGoToAnswer, 1},
		{domain.StateQuestionOpen, domain.ActionNextQuestion, 1},
		{domain.StateQuestionOpen, domain.ActionGoToFinalResults, 1},
		{domain.StateQuestionOpen, domain.ActionSkipCountdown, 1},
		{domain.StateQuestionClose, domain.ActionSkipCountdown, 1},
		{domain.StateAnswerShow, domain.ActionGoToAnswer, 1},
		{domain.StateFinalResults, domain.ActionNextQuestion, 0},
		{domain.StateEnd, domain.ActionEnd, 0},
		{domain.StateEnd, domain.ActionNextQuestion, 0},
		// timer expiry arriving after the session moved on
		{domain.StateAnswerShow, actionDurationElapsed, 1},
		{domain.StateQuestionOpen, actionCountdownElapsed, 1},
		// no questions left
		{domain.StateAnswerShow, domain.ActionNextQuestion, 2},
		{domain.StateQuestionClose, domain.ActionNextQuestion, 2},
	}
	for _, tc := range tests {
		to, effects, err := Transition(tc.from, tc.action, tc.at, 2)
		if !errors.Is(err, domain.ErrInvalidAction) || !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("%s/%s: expected invalid action, got %v", tc.from, tc.action, err)
		}
		if to != tc.from || effects != nil {
			t.Fatalf("%s/%s: rejected transition must not move or emit effects", tc.from, tc.action)
		}
	}
}

func TestParseActionRejectsInternalEvents(t *testing.T) {
	for _, raw := range []string{string(actionCountdownElapsed), string(actionDurationElapsed), "", "next_question"} {
		if _, err := domain.ParseAction(raw); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected %q rejected, got %v", raw, err)
		}
	}
}
