package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dispatchday/route-roster/internal/domain"
)

// WeekRepo defines the persistence operations for Weeks.
type WeekRepo interface {
	// GetByID retrieves a single week by its UUID primary key.
	// Returns domain.ErrNotFound if no week with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Week, error)

	// Ensure inserts a week for the given Monday start date, or returns the
	// existing week if one already exists. The end date is always written as
	// start + 4 days; the caller validates that start is a Monday.
	Ensure(ctx context.Context, start time.Time) (domain.Week, error)

	// ListPublished returns all published weeks ordered by start date ascending.
	ListPublished(ctx context.Context) ([]domain.Week, error)

	// Publish flips the published flag to true.
	// Returns domain.ErrNotFound if no week with that ID exists.
	Publish(ctx context.Context, id uuid.UUID) error

	// RepairEndDates rewrites end_date to start_date + 4 days on every row
	// violating the week span invariant and returns the number repaired.
	RepairEndDates(ctx context.Context) (int64, error)
}

// pgWeekRepo is the Postgres implementation of WeekRepo.
type pgWeekRepo struct {
	db db
}

// NewWeekRepo constructs a WeekRepo backed by the provided db connection.
func NewWeekRepo(db db) WeekRepo {
	return &pgWeekRepo{db: db}
}

// GetByID retrieves a week by primary key.
func (r *pgWeekRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Week, error) {
	const q = `
		SELECT id, start_date, end_date, published
		FROM weeks
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanWeek(row)
	if err != nil {
		return domain.Week{}, fmt.Errorf("repo.WeekRepo.GetByID: %w", err)
	}
	return result, nil
}

// Ensure inserts a week or returns the existing row on start_date conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when the
// conflict handler skips the insert — without it, RETURNING returns nothing
// on DO NOTHING conflicts.
func (r *pgWeekRepo) Ensure(ctx context.Context, start time.Time) (domain.Week, error) {
	const q = `
		INSERT INTO weeks (start_date, end_date)
		VALUES (@start_date, @start_date::date + 4)
		ON CONFLICT (start_date) DO UPDATE SET start_date = EXCLUDED.start_date
		RETURNING id, start_date, end_date, published`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"start_date": start})
	result, err := scanWeek(row)
	if err != nil {
		return domain.Week{}, fmt.Errorf("repo.WeekRepo.Ensure: %w", err)
	}
	return result, nil
}

// ListPublished returns published weeks ordered by start date ascending.
func (r *pgWeekRepo) ListPublished(ctx context.Context) ([]domain.Week, error) {
	const q = `
		SELECT id, start_date, end_date, published
		FROM weeks
		WHERE published
		ORDER BY start_date`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.WeekRepo.ListPublished: %w", err)
	}
	defer rows.Close()

	weeks := []domain.Week{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.WeekRepo.ListPublished: scan: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.WeekRepo.ListPublished: rows: %w", err)
	}
	return weeks, nil
}

// Publish marks a week visible and self-service-enrollable.
func (r *pgWeekRepo) Publish(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE weeks SET published = true WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.WeekRepo.Publish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.WeekRepo.Publish: %w", domain.ErrNotFound)
	}
	return nil
}

// RepairEndDates pins end_date to start_date + 4 days wherever a stored row
// has drifted. Start dates are never touched.
func (r *pgWeekRepo) RepairEndDates(ctx context.Context) (int64, error) {
	const q = `
		UPDATE weeks
		SET end_date = start_date + 4
		WHERE end_date IS DISTINCT FROM start_date + 4`

	tag, err := r.db.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("repo.WeekRepo.RepairEndDates: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanWeek maps a single database row into a domain.Week.
func scanWeek(s scanner) (domain.Week, error) {
	var (
		w     domain.Week
		id    pgtype.UUID
		start pgtype.Date
		end   pgtype.Date
	)
	err := s.Scan(&id, &start, &end, &w.Published)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Week{}, domain.ErrNotFound
		}
		return domain.Week{}, err
	}
	w.ID = uuid.UUID(id.Bytes)
	w.StartDate = start.Time
	w.EndDate = end.Time
	return w, nil
}
