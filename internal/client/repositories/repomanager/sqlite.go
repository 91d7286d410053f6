package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/drivebuddy/internal/client/migrations"
	"github.com/dmitrijs2005/drivebuddy/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/drivebuddy/internal/dbx"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
)

type SQLiteRepositoryManager struct {
	log logging.Logger
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir, m.log)
}
