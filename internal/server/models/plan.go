package models

import "time"

type Plan struct {
	ID           string
	Name         string
	Subject      string
	PricePaise   int64
	DurationDays int
}

const (
	EntitlementActive  = "active"
	EntitlementRevoked = "revoked"
)

// Entitlement is a granted access right to a subject's premium notes.
// Granted on order SUCCESS, revoked on REFUNDED.
type Entitlement struct {
	ID            string
	UserID        string
	Subject       string
	SourceOrderID string
	Status        string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}
