package entitlements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/dbx"
	"github.com/studyvault/noteguard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindActive(ctx context.Context, userID, subject string) (*models.Entitlement, error) {
	query :=
		`SELECT id, user_id, subject, source_order_id, status, expires_at FROM entitlements
		 WHERE user_id = $1 AND subject = $2 AND status = 'active' AND expires_at > now()
		 ORDER BY expires_at DESC
		 LIMIT 1
		 `

	e := &models.Entitlement{}
	err := r.db.QueryRowContext(ctx, query, userID, subject).
		Scan(&e.ID, &e.UserID, &e.Subject, &e.SourceOrderID, &e.Status, &e.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) Grant(ctx context.Context, e *models.Entitlement) error {
	query :=
		`INSERT INTO entitlements (id, user_id, subject, source_order_id, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Subject, e.SourceOrderID, e.Status, e.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) RevokeByOrder(ctx context.Context, orderID string) error {
	query :=
		`UPDATE entitlements SET status = 'revoked'
		 WHERE source_order_id = $1 AND status = 'active'
		 `

	_, err := r.db.ExecContext(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
