// Package db holds the ledger store schema and applies it.
package db

import (
	"database/sql"
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

// Dialect is the sql-migrate dialect of the ledger store.
const Dialect = "postgres"

//go:embed migration/*.sql
var migrationFiles embed.FS

// Source returns the embedded schema migrations.
func Source() migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migration",
	}
}

// Up applies all pending migrations and returns how many were applied.
func Up(conn *sql.DB) (int, error) {
	return migrate.Exec(conn, Dialect, Source(), migrate.Up)
}

// Down rolls back the given number of migrations, all of them when steps is 0.
func Down(conn *sql.DB, steps int) (int, error) {
	return migrate.ExecMax(conn, Dialect, Source(), migrate.Down, steps)
}
