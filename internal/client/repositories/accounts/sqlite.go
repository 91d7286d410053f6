package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivebuddy/internal/client/models"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
	"github.com/dmitrijs2005/drivebuddy/internal/dbx"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, add_to_calendar, created_at
		FROM accounts WHERE email = ?`, email)
	return scanAccount(row, "find account by email")
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, add_to_calendar, created_at
		FROM accounts WHERE id = ?`, id.String())
	return scanAccount(row, "find account by id")
}

func (r *SQLiteRepository) Insert(ctx context.Context, a *models.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, add_to_calendar, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID.String(), a.Email, a.PasswordHash, a.AddToCalendar, a.CreatedAt.UTC())
	if err != nil {
		if isSQLiteConstraint(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET password_hash = ? WHERE id = ?`, hash, id.String())
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return checkUpdated(res, "update password hash")
}

// isSQLiteConstraint matches SQLITE_CONSTRAINT and all of its extended codes.
func isSQLiteConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
