package domain

import "time"

// SessionState is the terminal (or in-flight) state of a query session.
type SessionState string

const (
	StateLoading SessionState = "loading"
	StateLoaded  SessionState = "loaded"
	StateFailed  SessionState = "failed"
)

// Session is one complete query lifecycle, from login submission to a
// terminal Loaded/Failed state. IDs are monotonically increasing per
// process; a session with a higher ID always supersedes a lower one,
// which is how overlapping queries are resolved.
type Session struct {
	ID         uint64       `json:"id"`
	Login      string       `json:"login"`
	State      SessionState `json:"state"`
	Insight    *Insight     `json:"insight,omitempty"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`

	// Err is the classified cause of a failed session, kept for callers
	// that need to map it (e.g. onto an HTTP status). Not serialized.
	Err error `json:"-"`
}

// Supersedes reports whether s should replace other as the latest
// committed session.
func (s *Session) Supersedes(other *Session) bool {
	return other == nil || s.ID >= other.ID
}
