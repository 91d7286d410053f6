package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	selectByEmailQ = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*add_to_calendar,\s*created_at\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`
	selectByIDQ    = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*add_to_calendar,\s*created_at\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s*$`
	insertQ        = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*email,\s*password_hash,\s*add_to_calendar,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	updateQ        = `(?s)^UPDATE\s+accounts\s+SET\s+password_hash\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s*$`
	accountColumns = []string{"id", "email", "password_hash", "add_to_calendar", "created_at"}
)

func TestPostgres_FindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(selectByEmailQ).
		WithArgs("alice@example.org").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(id.String(), "alice@example.org", "digest", false, created))

	got, err := repo.FindByEmail(context.Background(), "alice@example.org")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.ID != id || got.Email != "alice@example.org" || got.PasswordHash != "digest" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_FindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByEmailQ).
		WithArgs("ghost@example.org").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.org")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestPostgres_FindByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(selectByIDQ).
		WithArgs(id).
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByID(context.Background(), id)
	if err == nil || !regexp.MustCompile(`failed to find account by id: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_Insert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := newAccount("dave@example.org")
	mock.ExpectExec(insertQ).
		WithArgs(a.ID, a.Email, a.PasswordHash, a.AddToCalendar, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Insert(context.Background(), a); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_Insert_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := newAccount("dave@example.org")
	mock.ExpectExec(insertQ).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_email_key"})

	err := repo.Insert(context.Background(), a)
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestPostgres_Insert_OtherError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.NotNullViolation})

	err := repo.Insert(context.Background(), newAccount("eve@example.org"))
	if err == nil || errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected generic insert error, got %v", err)
	}
}

func TestPostgres_UpdatePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(updateQ).
		WithArgs("new-digest", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), id, "new-digest"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
}

func TestPostgres_UpdatePasswordHash_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(updateQ).
		WithArgs("new-digest", id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash(context.Background(), id, "new-digest")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
