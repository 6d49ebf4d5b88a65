package tui

import "github.com/google/uuid"

// sessionPhase tracks where the current conversation is in its lifecycle.
type sessionPhase int

const (
	// sessionFresh: no key generated yet, nothing persisted.
	sessionFresh sessionPhase = iota
	// sessionPending: key generated for the first turn, nothing persisted yet.
	sessionPending
	// sessionEstablished: at least one turn persisted, or resumed from storage.
	sessionEstablished
)

// sessionState replaces ambient globals with an explicit per-app object: the
// current session key plus its lifecycle phase.
type sessionState struct {
	phase sessionPhase
	key   string
}

// Key returns the current session key, generating one the first time a fresh
// session needs it.
func (s *sessionState) Key() string {
	if s.phase == sessionFresh {
		s.key = uuid.New().String()
		s.phase = sessionPending
	}
	return s.key
}

// Establish marks the session as persisted.
func (s *sessionState) Establish() {
	s.phase = sessionEstablished
}

// Resume switches to an existing stored session.
func (s *sessionState) Resume(key string) {
	s.key = key
	s.phase = sessionEstablished
}

// Reset returns to a fresh, keyless session.
func (s *sessionState) Reset() {
	*s = sessionState{}
}

// Established reports whether the session has stored history worth rendering.
func (s *sessionState) Established() bool {
	return s.phase == sessionEstablished
}
