package models

import "time"

type Note struct {
	ID         string
	Title      string
	Subject    string
	IsPremium  bool
	TotalPages int
	// ContentKey is the object-storage key of the rendered document.
	ContentKey string
	CreatedAt  time.Time
}
