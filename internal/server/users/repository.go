package users

import (
	"context"

	"github.com/studyvault/noteguard/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
}
