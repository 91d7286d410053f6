package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/drivebuddy/internal/client/migrations"
	"github.com/dmitrijs2005/drivebuddy/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/drivebuddy/internal/dbx"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
)

type PostgresRepositoryManager struct {
	log logging.Logger
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "pgx", migrations.PostgresDir, m.log)
}
