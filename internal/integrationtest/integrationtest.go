// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/db"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// SetupServer returns test server that cleans up database after each integration test.
func SetupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	config, err := configpkg.Load("../../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../../configs") returned error: %v`, err)
	}

	config.LoginRateLimit = 0

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	conn := SetupDB(t, config)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(conn, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(conn, logger, config) returned error: %v`, err)
	}

	t.Cleanup(func() {
		if err := server.Close(); err != nil {
			t.Errorf("server.Close() returned error: %v", err)
		}
	})

	return server
}

// Flush flushes all ledger tables without dropping them.
func Flush(t *testing.T, conn *sql.DB) {
	t.Helper()

	const query = `TRUNCATE TABLE sessions, transactions, accounts, persons RESTART IDENTITY CASCADE`

	if _, err := conn.Exec(query); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB connects to the database, applies the schema and flushes it once the test is done.
func SetupDB(t *testing.T, config configpkg.Config) *sql.DB {
	t.Helper()

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource, config.DBConnectTimeout)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	if _, err := db.Up(conn); err != nil {
		t.Fatalf("db migration failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, conn)

		if err := conn.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return conn
}

// SetupTX sets up a database transaction to be used in tests.
//
// The schema must already be applied with "pet-ledger migrate up".
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T, driver, source string) *sql.Tx {
	t.Helper()

	conn, err := dbpkg.Setup(driver, source, 0)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("conn.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}
		if err := conn.Close(); err != nil {
			t.Fatalf("conn.Close() failed: %v", err)
		}
	})

	return tx
}
