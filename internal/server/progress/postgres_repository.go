package progress

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

func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.ProgressRecord) error {
	query :=
		`INSERT INTO progress (user_id, note_id, last_page, completion_percent, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, note_id) DO UPDATE SET
			last_page = excluded.last_page,
			completion_percent = excluded.completion_percent,
			updated_at = excluded.updated_at
		 `

	_, err := r.db.ExecContext(ctx, query,
		rec.UserID, rec.NoteID, rec.LastPage, rec.CompletionPercent)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, noteID string) (*models.ProgressRecord, error) {
	query :=
		`SELECT user_id, note_id, last_page, completion_percent, updated_at FROM progress
		 WHERE user_id = $1 AND note_id = $2
		 `

	rec := &models.ProgressRecord{}
	err := r.db.QueryRowContext(ctx, query, userID, noteID).
		Scan(&rec.UserID, &rec.NoteID, &rec.LastPage, &rec.CompletionPercent, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}
