// Package db wires the Postgres connection, runs migrations and hands out
// the repositories bound to it.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/studyvault/noteguard/internal/server/entitlements"
	"github.com/studyvault/noteguard/internal/server/migrations"
	"github.com/studyvault/noteguard/internal/server/notes"
	"github.com/studyvault/noteguard/internal/server/progress"
	"github.com/studyvault/noteguard/internal/server/sessions"
	"github.com/studyvault/noteguard/internal/server/users"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	Notes() notes.Repository
	Entitlements() entitlements.Repository
	Sessions() sessions.Repository
	Progress() progress.Repository
	RunMigrations(ctx context.Context) error
}

type PostgresRepositoryManager struct {
	db           *sql.DB
	users        users.Repository
	notes        notes.Repository
	entitlements entitlements.Repository
	sessions     sessions.Repository
	progress     progress.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB { return m.db }

func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }

func (m *PostgresRepositoryManager) Notes() notes.Repository { return m.notes }

func (m *PostgresRepositoryManager) Entitlements() entitlements.Repository { return m.entitlements }

func (m *PostgresRepositoryManager) Sessions() sessions.Repository { return m.sessions }

func (m *PostgresRepositoryManager) Progress() progress.Repository { return m.progress }

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:           db,
		users:        users.NewPostgresRepository(db),
		notes:        notes.NewPostgresRepository(db),
		entitlements: entitlements.NewPostgresRepository(db),
		sessions:     sessions.NewPostgresRepository(db),
		progress:     progress.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
