package models

import "time"

// ProgressRecord is the durable reading position for a (user, note) pair.
// It is keyed by user+note, not by session, so it survives re-issued
// sessions. Updates are last-write-wins by arrival.
type ProgressRecord struct {
	UserID            string
	NoteID            string
	LastPage          int
	CompletionPercent int
	UpdatedAt         time.Time
}
