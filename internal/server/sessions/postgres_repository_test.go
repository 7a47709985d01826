package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+view_sessions\s*\(id,\s*user_id,\s*note_id,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)`

	expires := time.Now().Add(30 * time.Minute)
	mock.ExpectExec(q).
		WithArgs("vs-1", "u-1", "n-1", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	session := &models.ViewSession{ID: "vs-1", UserID: "u-1", NoteID: "n-1", ExpiresAt: expires}
	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*note_id,\s*expires_at,\s*created_at\s+FROM\s+view_sessions\s+WHERE\s+id\s*=\s*\$1`

	expires := time.Now().Add(30 * time.Minute)
	rows := sqlmock.NewRows([]string{"id", "user_id", "note_id", "expires_at", "created_at"}).
		AddRow("vs-1", "u-1", "n-1", expires, time.Now())
	mock.ExpectQuery(q).WithArgs("vs-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "vs-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.UserID != "u-1" || got.NoteID != "n-1" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
