package entitlements

import (
	"context"

	"github.com/studyvault/noteguard/internal/server/models"
)

type Repository interface {
	// FindActive returns the user's unexpired active entitlement for the
	// subject, or common.ErrNotFound.
	FindActive(ctx context.Context, userID, subject string) (*models.Entitlement, error)

	// Grant inserts an entitlement row.
	Grant(ctx context.Context, e *models.Entitlement) error

	// RevokeByOrder marks entitlements sourced from the given order revoked.
	RevokeByOrder(ctx context.Context, orderID string) error
}
