package notes

import (
	"context"

	"github.com/studyvault/noteguard/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Note, error)
}
