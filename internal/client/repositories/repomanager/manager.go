// Package repomanager wires a storage dialect to its repositories and
// migrations. Services ask the manager for a repository bound to either the
// *sql.DB or a transaction, so the same code runs against SQLite (local,
// single device) and PostgreSQL (shared store).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/drivebuddy/internal/client/migrations"
	"github.com/dmitrijs2005/drivebuddy/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
	"github.com/dmitrijs2005/drivebuddy/internal/dbx"
	"github.com/dmitrijs2005/drivebuddy/internal/filex"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

// New returns the manager for driver.
func New(driver string, log logging.Logger) (RepositoryManager, error) {
	switch driver {
	case DriverSQLite:
		return &SQLiteRepositoryManager{log: log}, nil
	case DriverPostgres:
		return &PostgresRepositoryManager{log: log}, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrorUnsupportedDriver, driver)
	}
}

// Open connects to the configured store, applies pending migrations and
// returns the handle together with its manager. The caller owns db.
func Open(ctx context.Context, driver, dsn string, log logging.Logger) (*sql.DB, RepositoryManager, error) {
	m, err := New(driver, log)
	if err != nil {
		return nil, nil, err
	}

	sqlDriver := "sqlite"
	if driver == DriverPostgres {
		sqlDriver = "pgx"
	}

	if driver == DriverSQLite {
		if path := filex.SQLiteFilePath(dsn); path != "" {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, nil, fmt.Errorf("prepare %s store: %w", driver, err)
			}
		}
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if driver == DriverSQLite {
		// one connection: a single writer, and ":memory:" stays one database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("connect to %s store: %w", driver, err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s store: %w", driver, err)
	}

	log.Info(ctx, "record store ready", "driver", driver)
	return db, m, nil
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string, log logging.Logger) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(&gooseLogger{log: log})

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}

// gooseLogger routes goose progress output into the application logger.
type gooseLogger struct {
	log logging.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(context.Background(), fmt.Sprintf(format, v...), "component", "migrations")
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	panic(fmt.Sprintf(format, v...))
}
