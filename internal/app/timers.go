package app

import (
	"sync"
	"time"
)

// TimerKind distinguishes the timers a session can have pending.
type TimerKind string

const (
	TimerCountdown TimerKind = "countdown"
	TimerDuration  TimerKind = "duration"
)

type timerKey struct {
	sessionID string
	kind      TimerKind
}

type timerEntry struct {
	seq   uint64
	timer Timer
}

// TimerRegistry holds at most one pending timer per (session, kind).
// Expired callbacks are handed to dispatch, which serialises them with every
// other mutation of session state. A callback whose entry was cancelled or
// replaced before it got through dispatch does nothing.
type TimerRegistry struct {
	clock    Clock
	dispatch func(func())

	mu      sync.Mutex
	seq     uint64
	entries map[timerKey]timerEntry
}

// NewTimerRegistry builds a registry; dispatch must run the given function to completion.
func NewTimerRegistry(clock Clock, dispatch func(func())) *TimerRegistry {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return &TimerRegistry{
		clock:    clock,
		dispatch: dispatch,
		entries:  make(map[timerKey]timerEntry),
	}
}

// Set arms fn to run after d, replacing any pending timer of the same kind.
func (r *TimerRegistry) Set(sessionID string, kind TimerKind, d time.Duration, fn func()) {
	key := timerKey{sessionID: sessionID, kind: kind}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[key]; ok {
		prev.timer.Stop()
	}
	r.seq++
	seq := r.seq
	timer := r.clock.AfterFunc(d, func() {
		r.dispatch(func() {
			if r.claim(key, seq) {
				fn()
			}
		})
	})
	r.entries[key] = timerEntry{seq: seq, timer: timer}
}

// Cancel stops the pending timer of the given kind, if any.
func (r *TimerRegistry) Cancel(sessionID string, kind TimerKind) {
	key := timerKey{sessionID: sessionID, kind: kind}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[key]; ok {
		entry.timer.Stop()
		delete(r.entries, key)
	}
}

// CancelAll stops every pending timer of a session.
func (r *TimerRegistry) CancelAll(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.entries {
		if key.sessionID == sessionID {
			entry.timer.Stop()
			delete(r.entries, key)
		}
	}
}

// Pending reports whether a timer of the given kind is armed for the session.
func (r *TimerRegistry) Pending(sessionID string, kind TimerKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[timerKey{sessionID: sessionID, kind: kind}]
	return ok
}

// claim removes the entry if it is still the one armed with seq.
func (r *TimerRegistry) claim(key timerKey, seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok || entry.seq != seq {
		return false
	}
	delete(r.entries, key)
	return true
}
