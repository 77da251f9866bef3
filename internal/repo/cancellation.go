package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dispatchday/route-roster/internal/domain"
)

// CancellationRepo defines persistence for the append-only cancellation log.
// There are deliberately no update or delete operations.
type CancellationRepo interface {
	// Create appends one cancellation record and returns the persisted entry.
	Create(ctx context.Context, rec domain.CancellationRecord) (domain.CancellationRecord, error)

	// ListByWeek returns a week's records ordered by cancellation time.
	// Pass uuid.Nil to list records across all weeks.
	ListByWeek(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error)
}

// pgCancellationRepo is the Postgres implementation of CancellationRepo.
type pgCancellationRepo struct {
	db db
}

// NewCancellationRepo constructs a CancellationRepo backed by the provided db connection.
func NewCancellationRepo(db db) CancellationRepo {
	return &pgCancellationRepo{db: db}
}

// Create appends one record to the log.
func (r *pgCancellationRepo) Create(ctx context.Context, rec domain.CancellationRecord) (domain.CancellationRecord, error) {
	const q = `
		INSERT INTO cancellation_records (week_id, day, route_id, volunteer_id, reason)
		VALUES (@week_id, @day, @route_id, @volunteer_id, @reason)
		RETURNING id, week_id, day, route_id, volunteer_id, reason, cancelled_at`

	args := pgx.NamedArgs{
		"week_id":      rec.WeekID,
		"day":          int16(rec.Day),
		"route_id":     rec.RouteID,
		"volunteer_id": rec.VolunteerID,
		"reason":       rec.Reason,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCancellation(row)
	if err != nil {
		return domain.CancellationRecord{}, fmt.Errorf("repo.CancellationRepo.Create: %w", err)
	}
	return result, nil
}

// ListByWeek returns records for one week, or all records for uuid.Nil.
func (r *pgCancellationRepo) ListByWeek(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error) {
	const q = `
		SELECT id, week_id, day, route_id, volunteer_id, reason, cancelled_at
		FROM cancellation_records
		WHERE @week_id = '00000000-0000-0000-0000-000000000000'::uuid OR week_id = @week_id
		ORDER BY cancelled_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"week_id": weekID})
	if err != nil {
		return nil, fmt.Errorf("repo.CancellationRepo.ListByWeek: %w", err)
	}
	defer rows.Close()

	records := []domain.CancellationRecord{}
	for rows.Next() {
		rec, err := scanCancellation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CancellationRepo.ListByWeek: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CancellationRepo.ListByWeek: rows: %w", err)
	}
	return records, nil
}

// scanCancellation maps a single database row into a domain.CancellationRecord.
func scanCancellation(s scanner) (domain.CancellationRecord, error) {
	var (
		rec     domain.CancellationRecord
		id      pgtype.UUID
		weekID  pgtype.UUID
		day     int16
		routeID pgtype.UUID
		volID   pgtype.UUID
	)
	err := s.Scan(&id, &weekID, &day, &routeID, &volID, &rec.Reason, &rec.CancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CancellationRecord{}, domain.ErrNotFound
		}
		return domain.CancellationRecord{}, err
	}
	rec.ID = uuid.UUID(id.Bytes)
	rec.WeekID = uuid.UUID(weekID.Bytes)
	rec.Day = domain.Weekday(day)
	rec.RouteID = uuid.UUID(routeID.Bytes)
	rec.VolunteerID = uuid.UUID(volID.Bytes)
	return rec, nil
}
