package accounts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/drivebuddy/internal/client/migrations"
	"github.com/dmitrijs2005/drivebuddy/internal/client/models"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
	"github.com/dmitrijs2005/drivebuddy/internal/dbx"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, migrations.SQLiteDir))
	return db
}

func newAccount(email string) *models.Account {
	return &models.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "digest-" + email,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestSQLite_InsertThenFind(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := newAccount("alice@example.org")
	require.NoError(t, r.Insert(ctx, a))

	got, err := r.FindByEmail(ctx, "alice@example.org")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Email, got.Email)
	assert.Equal(t, a.PasswordHash, got.PasswordHash)
	assert.False(t, got.AddToCalendar)
	assert.WithinDuration(t, a.CreatedAt, got.CreatedAt, time.Second)

	byID, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Email, byID.Email)
}

func TestSQLite_Find_NotExists_ReturnsErrorNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a, err := r.FindByEmail(ctx, "nobody@example.org")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.Nil(t, a)

	a, err = r.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.Nil(t, a)
}

func TestSQLite_FindByEmail_IsExactMatch(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, newAccount("bob@example.org")))

	_, err := r.FindByEmail(ctx, "BOB@example.org")
	require.ErrorIs(t, err, common.ErrorNotFound, "normalisation is the caller's job")
}

func TestSQLite_Insert_DuplicateEmail_ReturnsErrorAlreadyExists(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, newAccount("dup@example.org")))
	err := r.Insert(ctx, newAccount("dup@example.org"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLite_UpdatePasswordHash(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := newAccount("carol@example.org")
	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.UpdatePasswordHash(ctx, a.ID, "new-digest"))

	got, err := r.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-digest", got.PasswordHash)

	err = r.UpdatePasswordHash(ctx, uuid.New(), "x")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_InsertInsideRolledBackTx_IsDiscarded(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	a := newAccount("tx@example.org")
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, NewSQLiteRepository(tx).Insert(ctx, a))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = NewSQLiteRepository(db).FindByEmail(ctx, a.Email)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_DBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Close())

	_, err := r.FindByEmail(ctx, "k@example.org")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to find account by email")

	err = r.Insert(ctx, newAccount("k@example.org"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to insert account")

	err = r.UpdatePasswordHash(ctx, uuid.New(), "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to update password hash")
}
