package resume

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/studyvault/noteguard/internal/client/migrations"
	"github.com/studyvault/noteguard/internal/client/models"
	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/dbx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenDatabase opens (creating if necessary) the viewer's sqlite database
// and brings its schema up to date.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, err
	}

	return db, nil
}

func (s *SQLiteStore) Save(ctx context.Context, tx *models.PendingTransaction) error {
	query := `INSERT INTO pending_transaction (id, merchant_tx_id, next_path)
			VALUES (1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET merchant_tx_id = excluded.merchant_tx_id,
				next_path = excluded.next_path`

	_, err := s.db.ExecContext(ctx, query, tx.MerchantTxID, tx.NextPath)
	if err != nil {
		return fmt.Errorf("failed to save pending transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.PendingTransaction, error) {
	tx := &models.PendingTransaction{}
	err := s.db.QueryRowContext(ctx,
		`SELECT merchant_tx_id, next_path FROM pending_transaction WHERE id = 1`).
		Scan(&tx.MerchantTxID, &tx.NextPath)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load pending transaction: %w", err)
	}

	return tx, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pending_transaction`)
	if err != nil {
		return fmt.Errorf("failed to clear pending transaction: %w", err)
	}
	return nil
}
