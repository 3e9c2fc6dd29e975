// Package dbpkg provides helpers to make db initialization and testing easier.
package dbpkg

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Setup sets up connection with database.
//
// The first ping is retried with exponential backoff until connectTimeout elapses,
// so the service can start before the database is ready to accept connections.
func Setup(driver, source string, connectTimeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	if connectTimeout > 0 {
		b.MaxElapsedTime = connectTimeout
	}

	if err = backoff.Retry(db.Ping, b); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// SQLInterface provides neccessary db methods to perform queries.
//
// Both *sql.DB and *sql.Tx satisfy it.
type SQLInterface interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}
