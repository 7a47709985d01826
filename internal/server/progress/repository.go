package progress

import (
	"context"

	"github.com/studyvault/noteguard/internal/server/models"
)

type Repository interface {
	// Upsert overwrites the (user, note) position. Last write wins by
	// arrival; out-of-order reports are an accepted relaxation for a UX
	// progress indicator.
	Upsert(ctx context.Context, rec *models.ProgressRecord) error

	Get(ctx context.Context, userID, noteID string) (*models.ProgressRecord, error)
}
