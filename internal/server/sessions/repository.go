package sessions

import (
	"context"

	"github.com/studyvault/noteguard/internal/server/models"
)

// Repository is the append-only session store: rows are inserted once and
// read back by id, never updated.
type Repository interface {
	Create(ctx context.Context, session *models.ViewSession) error
	GetByID(ctx context.Context, id string) (*models.ViewSession, error)
}
