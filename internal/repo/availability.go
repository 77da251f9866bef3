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

// AvailabilityRepo defines persistence for volunteer weekday preferences.
type AvailabilityRepo interface {
	// Get returns the volunteer's declared availability.
	// A volunteer who never declared anything gets an empty set, not an error.
	Get(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error)

	// Upsert replaces the volunteer's declared day set. An empty set is valid.
	Upsert(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.VolunteerAvailability, error)
}

// pgAvailabilityRepo is the Postgres implementation of AvailabilityRepo.
type pgAvailabilityRepo struct {
	db db
}

// NewAvailabilityRepo constructs an AvailabilityRepo backed by the provided db connection.
func NewAvailabilityRepo(db db) AvailabilityRepo {
	return &pgAvailabilityRepo{db: db}
}

// Get returns the stored day set, or an empty set for unknown volunteers.
func (r *pgAvailabilityRepo) Get(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error) {
	const q = `
		SELECT volunteer_id, days, updated_at
		FROM volunteer_availability
		WHERE volunteer_id = @volunteer_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"volunteer_id": volunteerID})
	result, err := scanAvailability(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VolunteerAvailability{VolunteerID: volunteerID, Days: []domain.Weekday{}}, nil
		}
		return domain.VolunteerAvailability{}, fmt.Errorf("repo.AvailabilityRepo.Get: %w", err)
	}
	return result, nil
}

// Upsert replaces the day set for a volunteer.
func (r *pgAvailabilityRepo) Upsert(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.VolunteerAvailability, error) {
	const q = `
		INSERT INTO volunteer_availability (volunteer_id, days)
		VALUES (@volunteer_id, @days)
		ON CONFLICT (volunteer_id)
		DO UPDATE SET days = EXCLUDED.days, updated_at = now()
		RETURNING volunteer_id, days, updated_at`

	stored := make([]int16, len(days))
	for i, d := range days {
		stored[i] = int16(d)
	}

	args := pgx.NamedArgs{"volunteer_id": volunteerID, "days": stored}
	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAvailability(row)
	if err != nil {
		return domain.VolunteerAvailability{}, fmt.Errorf("repo.AvailabilityRepo.Upsert: %w", err)
	}
	return result, nil
}

// scanAvailability maps a single database row into a domain.VolunteerAvailability.
func scanAvailability(s scanner) (domain.VolunteerAvailability, error) {
	var (
		a      domain.VolunteerAvailability
		id     pgtype.UUID
		stored []int16
	)
	if err := s.Scan(&id, &stored, &a.UpdatedAt); err != nil {
		return domain.VolunteerAvailability{}, err
	}
	a.VolunteerID = uuid.UUID(id.Bytes)
	a.Days = make([]domain.Weekday, len(stored))
	for i, d := range stored {
		a.Days[i] = domain.Weekday(d)
	}
	return a, nil
}
