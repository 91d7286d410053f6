package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivebuddy/internal/client/models"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
	"github.com/dmitrijs2005/drivebuddy/internal/dbx"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, add_to_calendar, created_at FROM accounts
		 WHERE email = $1
		 `
	return scanAccount(r.db.QueryRowContext(ctx, query, email), "find account by email")
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, add_to_calendar, created_at FROM accounts
		 WHERE id = $1
		 `
	return scanAccount(r.db.QueryRowContext(ctx, query, id), "find account by id")
}

func (r *PostgresRepository) Insert(ctx context.Context, a *models.Account) error {
	query :=
		`INSERT INTO accounts (id, email, password_hash, add_to_calendar, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.PasswordHash, a.AddToCalendar, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query :=
		`UPDATE accounts SET password_hash = $1
		 WHERE id = $2
		 `
	res, err := r.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return checkUpdated(res, "update password hash")
}
