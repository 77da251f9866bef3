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

// RequirementRepo defines persistence for per-slot capacity configuration.
// The absent-row-means-default rule lives entirely in this repo: both
// EffectiveMax and RequirementSet apply domain.DefaultMaxVolunteers, so the
// reservation engine and the open-slot projector share one notion of default
// capacity.
type RequirementRepo interface {
	// Upsert creates or updates the requirement for one slot.
	// The caller validates that max is within 1..10.
	Upsert(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error)

	// EffectiveMax resolves the max occupancy for one slot, applying the
	// default of 1 when no requirement row exists. Absence is not an error.
	EffectiveMax(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error)

	// ListForWeeks returns every requirement row for the given weeks as a
	// RequirementSet for bulk effective-max lookups.
	ListForWeeks(ctx context.Context, weekIDs []uuid.UUID) (RequirementSet, error)
}

// RequirementSet is an in-memory index of requirement rows keyed by slot.
// Lookups apply the capacity default for missing slots.
type RequirementSet map[slotKey]int

type slotKey struct {
	weekID  uuid.UUID
	day     domain.Weekday
	routeID uuid.UUID
}

// EffectiveMax returns the configured max for the slot, or the default of 1
// when no requirement row was loaded for it.
func (rs RequirementSet) EffectiveMax(weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) int {
	if max, ok := rs[slotKey{weekID, day, routeID}]; ok {
		return max
	}
	return domain.DefaultMaxVolunteers
}

// Add records a requirement for one slot. Used when assembling sets outside
// of SQL, e.g. in service-layer tests.
func (rs RequirementSet) Add(weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) {
	rs[slotKey{weekID, day, routeID}] = max
}

// pgRequirementRepo is the Postgres implementation of RequirementRepo.
type pgRequirementRepo struct {
	db db
}

// NewRequirementRepo constructs a RequirementRepo backed by the provided db connection.
func NewRequirementRepo(db db) RequirementRepo {
	return &pgRequirementRepo{db: db}
}

// Upsert creates or replaces the capacity for one slot.
func (r *pgRequirementRepo) Upsert(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error) {
	const q = `
		INSERT INTO route_requirements (week_id, day, route_id, max_volunteers)
		VALUES (@week_id, @day, @route_id, @max_volunteers)
		ON CONFLICT (week_id, day, route_id)
		DO UPDATE SET max_volunteers = EXCLUDED.max_volunteers, updated_at = now()
		RETURNING id, week_id, day, route_id, max_volunteers`

	args := pgx.NamedArgs{
		"week_id":        weekID,
		"day":            int16(day),
		"route_id":       routeID,
		"max_volunteers": max,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRequirement(row)
	if err != nil {
		return domain.RouteRequirement{}, fmt.Errorf("repo.RequirementRepo.Upsert: %w", err)
	}
	return result, nil
}

// EffectiveMax resolves one slot's capacity with the default applied in SQL,
// so a missing row never surfaces as an error.
func (r *pgRequirementRepo) EffectiveMax(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error) {
	const q = `
		SELECT COALESCE(
			(SELECT max_volunteers
			 FROM route_requirements
			 WHERE week_id = @week_id AND day = @day AND route_id = @route_id),
			@default_max)`

	args := pgx.NamedArgs{
		"week_id":     weekID,
		"day":         int16(day),
		"route_id":    routeID,
		"default_max": domain.DefaultMaxVolunteers,
	}

	var max int
	if err := r.db.QueryRow(ctx, q, args).Scan(&max); err != nil {
		return 0, fmt.Errorf("repo.RequirementRepo.EffectiveMax: %w", err)
	}
	return max, nil
}

// ListForWeeks loads all requirement rows for the given weeks into a set.
func (r *pgRequirementRepo) ListForWeeks(ctx context.Context, weekIDs []uuid.UUID) (RequirementSet, error) {
	const q = `
		SELECT id, week_id, day, route_id, max_volunteers
		FROM route_requirements
		WHERE week_id = ANY(@week_ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"week_ids": weekIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.RequirementRepo.ListForWeeks: %w", err)
	}
	defer rows.Close()

	set := RequirementSet{}
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RequirementRepo.ListForWeeks: scan: %w", err)
		}
		set[slotKey{req.WeekID, req.Day, req.RouteID}] = req.MaxVolunteers
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RequirementRepo.ListForWeeks: rows: %w", err)
	}
	return set, nil
}

// scanRequirement maps a single database row into a domain.RouteRequirement.
func scanRequirement(s scanner) (domain.RouteRequirement, error) {
	var (
		req     domain.RouteRequirement
		id      pgtype.UUID
		weekID  pgtype.UUID
		day     int16
		routeID pgtype.UUID
	)
	err := s.Scan(&id, &weekID, &day, &routeID, &req.MaxVolunteers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RouteRequirement{}, domain.ErrNotFound
		}
		return domain.RouteRequirement{}, err
	}
	req.ID = uuid.UUID(id.Bytes)
	req.WeekID = uuid.UUID(weekID.Bytes)
	req.Day = domain.Weekday(day)
	req.RouteID = uuid.UUID(routeID.Bytes)
	return req, nil
}
