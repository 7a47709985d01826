// Package common defines shared constants and sentinel errors used across
// the client and server layers of NoteGuard. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Entitlement errors. ErrAccountBlocked must stay distinguishable from
	// ErrPaymentRequired so callers can render a different message.
	ErrForbidden       = errors.New("forbidden")
	ErrPaymentRequired = errors.New("payment required")
	ErrAccountBlocked  = errors.New("account blocked")

	// View-session errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")

	// Payment-order errors. ErrTransientLookup marks lookups that should be
	// treated as not-yet-resolved, not as a failed order.
	ErrOrderNotFound     = errors.New("order not found")
	ErrTransientLookup   = errors.New("transient lookup failure")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderStillPending = errors.New("order still processing")
)
