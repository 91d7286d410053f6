package accounts

import (
	"context"

	"github.com/dmitrijs2005/drivebuddy/internal/client/models"
	"github.com/google/uuid"
)

// Repository is the record store for accounts.
//
// Lookups return common.ErrorNotFound when no row matches. Insert returns
// common.ErrorAlreadyExists when the email is already taken. Writes become
// durable only when the surrounding transaction commits (see dbx.WithTx).
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	Insert(ctx context.Context, a *models.Account) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}
