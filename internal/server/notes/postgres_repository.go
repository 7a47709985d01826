package notes

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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query :=
		`SELECT id, title, subject, is_premium, total_pages, content_key FROM notes
		 WHERE id = $1
		 `

	n := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.Title, &n.Subject, &n.IsPremium, &n.TotalPages, &n.ContentKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
