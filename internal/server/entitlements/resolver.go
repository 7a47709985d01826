// Package entitlements decides whether a user may open a note. The verdict is
// recomputed on every check; payment completion is asynchronous, so callers
// must not trust a verdict older than a short window (see Cache).
package entitlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/server/notes"
	"github.com/studyvault/noteguard/internal/server/users"
)

type Verdict string

const (
	VerdictAllow           Verdict = "ALLOW"
	VerdictRequiresPayment Verdict = "REQUIRES_PAYMENT"
	VerdictDeny            Verdict = "DENY"
)

type Resolver struct {
	notes        notes.Repository
	users        users.Repository
	entitlements Repository
}

func NewResolver(n notes.Repository, u users.Repository, e Repository) *Resolver {
	return &Resolver{notes: n, users: u, entitlements: e}
}

// Resolve is a pure read: it never issues anything and has no side effects.
// Free notes are always ALLOW regardless of payment state. DENY is reserved
// for blocked accounts so callers can render a different message than
// "needs payment".
func (r *Resolver) Resolve(ctx context.Context, userID, noteID string) (Verdict, error) {

	note, err := r.notes.GetByID(ctx, noteID)
	if err != nil {
		return "", fmt.Errorf("note lookup: %w", err)
	}

	if !note.IsPremium {
		return VerdictAllow, nil
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("user lookup: %w", err)
	}

	if user.Blocked() {
		return VerdictDeny, nil
	}

	_, err = r.entitlements.FindActive(ctx, userID, note.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return VerdictRequiresPayment, nil
		}
		return "", fmt.Errorf("entitlement lookup: %w", err)
	}

	return VerdictAllow, nil
}
