// Package accounts provides persistence for DriveBuddy accounts.
//
// Two implementations share the Repository contract:
//   - SQLiteRepository: the local, single-device store (modernc.org/sqlite).
//   - PostgresRepository: a shared store reached through the pgx stdlib driver.
//
// Both work on a dbx.DBTX, so the same repository type serves plain
// connections and transactions. Email uniqueness is enforced by a UNIQUE
// constraint in the schema; constraint violations surface as
// common.ErrorAlreadyExists.
package accounts
