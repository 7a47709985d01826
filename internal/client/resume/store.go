// Package resume persists the single pending-transaction record the viewer
// needs to pick a payment poll back up after a checkout redirect or a
// process restart. It is an explicit, injected store with a defined
// lifecycle: written on checkout initiation, read on return, cleared on
// terminal resolution.
package resume

import (
	"context"

	"github.com/studyvault/noteguard/internal/client/models"
)

type Store interface {
	// Save overwrites the pending record; at most one exists at a time.
	Save(ctx context.Context, tx *models.PendingTransaction) error

	// Load returns the pending record, or common.ErrNotFound when none is
	// persisted.
	Load(ctx context.Context) (*models.PendingTransaction, error)

	// Clear removes the record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
