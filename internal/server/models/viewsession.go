package models

import "time"

// ViewSession scopes one user's access to one note for a bounded time.
// Rows are append-only: a session is never mutated after creation, only
// referenced by id until it expires.
type ViewSession struct {
	ID        string
	UserID    string
	NoteID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *ViewSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
