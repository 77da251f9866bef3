// Package testutil contains database helpers shared by the integration
// tests. Every helper keys off TEST_DATABASE_URL and skips the calling test
// when it is unset, so `go test ./...` stays green on machines without a
// local Postgres.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
)

// dsnEnv names the environment variable holding the test database DSN.
const dsnEnv = "TEST_DATABASE_URL"

// NewPool connects a pgx pool to the test database and registers its
// shutdown with t.Cleanup. Tests exercising the repo or service layers
// against real SQL start here.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("connect test pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("ping test pool: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB hands back a database/sql handle on the same test database, for
// callers that need the stdlib interface (driving goose migrations, mostly).
// Closed via t.Cleanup like NewPool.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", requireDSN(t))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("ping test db: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB is the NewSQLDB variant for TestMain, where no *testing.T
// exists to skip or fail with. It panics on connection errors and the caller
// closes the handle once migrations have run.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil: open test db: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil: ping test db: " + err.Error())
	}
	return db
}

// requireDSN reads the DSN out of the environment, skipping the calling
// test when no test database is configured.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping database-backed test", dsnEnv)
	}
	return dsn
}
