// Package repo contains all database access logic for the route roster API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// uniqueViolation is the Postgres error code raised when an insert hits a
// unique constraint. Repos translate it into the matching domain rejection
// so a disabled-lock misconfiguration degrades to a duplicate rejection
// instead of an unhandled fault.
const uniqueViolation = "23505"

// Store bundles one repo per resource over a single db handle. Built over a
// transaction it gives services atomic multi-table writes; built over the
// pool it serves plain reads.
type Store struct {
	Weeks         WeekRepo
	Routes        RouteRepo
	Requirements  RequirementRepo
	Assignments   AssignmentRepo
	Availability  AvailabilityRepo
	Cancellations CancellationRepo
	Locks         SlotLocker
}

// NewStore constructs a Store whose repos all share the provided db handle.
// In production pass *pgxpool.Pool or a pgx.Tx; in tests pass a pgx.Tx for
// rollback isolation.
func NewStore(dbh db) *Store {
	return &Store{
		Weeks:         NewWeekRepo(dbh),
		Routes:        NewRouteRepo(dbh),
		Requirements:  NewRequirementRepo(dbh),
		Assignments:   NewAssignmentRepo(dbh),
		Availability:  NewAvailabilityRepo(dbh),
		Cancellations: NewCancellationRepo(dbh),
		Locks:         NewSlotLocker(dbh),
	}
}

// Tx runs a function against a transaction-scoped Store. The transaction
// commits when fn returns nil and rolls back otherwise, so every multi-step
// sequence (count-then-insert, log-then-delete) is atomic and any advisory
// lock taken inside fn is released at transaction end.
type Tx interface {
	InTx(ctx context.Context, fn func(s *Store) error) error
}

// pgTx is the pgxpool-backed Tx implementation.
type pgTx struct {
	pool *pgxpool.Pool
}

// NewTx constructs a Tx that opens transactions on the provided pool.
func NewTx(pool *pgxpool.Pool) Tx {
	return &pgTx{pool: pool}
}

// InTx opens a transaction, runs fn with a Store bound to it, and commits or
// rolls back based on fn's error.
func (t *pgTx) InTx(ctx context.Context, fn func(s *Store) error) error {
	err := pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(NewStore(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Tx.InTx: %w", err)
	}
	return nil
}
