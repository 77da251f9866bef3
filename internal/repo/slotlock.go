package repo

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dispatchday/route-roster/internal/domain"
)

// SlotLocker serializes concurrent signup attempts on a single slot.
//
// The lock is a Postgres transaction-scoped advisory lock, so it works
// correctly across processes and is released automatically at commit or
// abort — it can never leak across the network round trip that reports the
// outcome. Attempts on distinct slots hash to distinct keys and do not block
// each other (a hash collision only costs spurious serialization, never
// correctness).
type SlotLocker interface {
	// AcquireSlotLock blocks until the calling transaction holds the
	// exclusive lock for (week, day, route). Must be called inside a
	// transaction; the lock lasts until that transaction ends.
	AcquireSlotLock(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) error
}

// pgSlotLocker is the Postgres advisory-lock implementation of SlotLocker.
type pgSlotLocker struct {
	db db
}

// NewSlotLocker constructs a SlotLocker backed by the provided db connection.
// Pass a transaction handle — advisory xact locks are meaningless on a pool.
func NewSlotLocker(db db) SlotLocker {
	return &pgSlotLocker{db: db}
}

// AcquireSlotLock takes pg_advisory_xact_lock on the slot's derived key.
func (l *pgSlotLocker) AcquireSlotLock(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) error {
	const q = `SELECT pg_advisory_xact_lock(@key)`

	key := SlotLockKey(weekID, day, routeID)
	if _, err := l.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("repo.SlotLocker.AcquireSlotLock: %w", err)
	}
	return nil
}

// SlotLockKey derives the 64-bit advisory lock key for a slot.
// FNV-1a over the raw identity bytes is deterministic across processes, so
// every API instance contends on the same key for the same slot.
func SlotLockKey(weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(weekID[:])
	h.Write([]byte{byte(day)})
	h.Write(routeID[:])
	return int64(h.Sum64())
}
