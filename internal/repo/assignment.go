package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dispatchday/route-roster/internal/domain"
)

// AssignmentRepo defines the persistence operations for Assignments.
// The reservation engine depends on this interface, not the concrete Postgres
// implementation, which allows the engine to be unit-tested with a mock.
type AssignmentRepo interface {
	// Create inserts a new assignment and returns the persisted record.
	// A unique violation on (week, day, route, volunteer) is translated to
	// domain.ErrDuplicateSignup — the store-level backstop for the logical
	// duplicate pre-check.
	Create(ctx context.Context, a domain.Assignment) (domain.Assignment, error)

	// GetByID retrieves a single assignment by its UUID primary key.
	// Returns domain.ErrNotFound if no assignment with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error)

	// GetForVolunteerDay returns the volunteer's assignment on (week, day),
	// any route, with RouteNumber populated for conflict messages.
	// Returns domain.ErrNotFound when the volunteer holds nothing that day.
	GetForVolunteerDay(ctx context.Context, weekID uuid.UUID, day domain.Weekday, volunteerID uuid.UUID) (domain.Assignment, error)

	// CountForSlot returns the current occupant count of one slot.
	// Called under the slot lock by the reservation engine, this count is
	// authoritative for the capacity decision.
	CountForSlot(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error)

	// DeleteByID removes an assignment by primary key.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteBySlotVolunteer removes the exact (week, day, route, volunteer)
	// assignment and returns the number of rows removed (0 or 1). Removing a
	// non-existent assignment is not an error.
	DeleteBySlotVolunteer(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, volunteerID uuid.UUID) (int64, error)

	// DeleteByIDs removes the given assignments and returns how many existed.
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)

	// ListByVolunteer returns the volunteer's assignments with week start and
	// route number populated, ordered week start, day, route number.
	ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error)

	// ListByWeek returns all assignments of one week with route numbers
	// populated, ordered day, route number.
	ListByWeek(ctx context.Context, weekID uuid.UUID) ([]domain.Assignment, error)

	// ListFutureByVolunteer returns the volunteer's assignments in weeks whose
	// start date is strictly after the given date, week start populated.
	ListFutureByVolunteer(ctx context.Context, volunteerID uuid.UUID, after time.Time) ([]domain.Assignment, error)

	// CountBySlot returns occupant counts per slot across the given weeks.
	// Slots with no assignments are simply absent from the result.
	CountBySlot(ctx context.Context, weekIDs []uuid.UUID) (SlotCountSet, error)
}

// SlotCountSet holds occupant counts keyed by slot; missing slots count zero.
type SlotCountSet map[slotKey]int

// Count returns the occupant count for the slot, zero when absent.
func (sc SlotCountSet) Count(weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) int {
	return sc[slotKey{weekID, day, routeID}]
}

// Add records a count for one slot. Used when assembling sets outside of
// SQL, e.g. in service-layer tests.
func (sc SlotCountSet) Add(weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, count int) {
	sc[slotKey{weekID, day, routeID}] = count
}

// pgAssignmentRepo is the Postgres implementation of AssignmentRepo.
type pgAssignmentRepo struct {
	db db
}

// NewAssignmentRepo constructs an AssignmentRepo backed by the provided db connection.
func NewAssignmentRepo(db db) AssignmentRepo {
	return &pgAssignmentRepo{db: db}
}

// Create inserts a new assignment row and returns the full persisted record.
func (r *pgAssignmentRepo) Create(ctx context.Context, a domain.Assignment) (domain.Assignment, error) {
	const q = `
		INSERT INTO assignments (week_id, day, route_id, volunteer_id)
		VALUES (@week_id, @day, @route_id, @volunteer_id)
		RETURNING id, week_id, day, route_id, volunteer_id, created_at`

	args := pgx.NamedArgs{
		"week_id":      a.WeekID,
		"day":          int16(a.Day),
		"route_id":     a.RouteID,
		"volunteer_id": a.VolunteerID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAssignment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Assignment{}, fmt.Errorf("repo.AssignmentRepo.Create: %w", domain.ErrDuplicateSignup)
		}
		return domain.Assignment{}, fmt.Errorf("repo.AssignmentRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an assignment by primary key.
func (r *pgAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error) {
	const q = `
		SELECT id, week_id, day, route_id, volunteer_id, created_at
		FROM assignments
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanAssignment(row)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("repo.AssignmentRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetForVolunteerDay returns the volunteer's assignment on (week, day), if any.
func (r *pgAssignmentRepo) GetForVolunteerDay(ctx context.Context, weekID uuid.UUID, day domain.Weekday, volunteerID uuid.UUID) (domain.Assignment, error) {
	const q = `
		SELECT a.id, a.week_id, a.day, a.route_id, a.volunteer_id, a.created_at, r.number
		FROM assignments a
		JOIN routes r ON r.id = a.route_id
		WHERE a.week_id = @week_id AND a.day = @day AND a.volunteer_id = @volunteer_id`

	args := pgx.NamedArgs{
		"week_id":      weekID,
		"day":          int16(day),
		"volunteer_id": volunteerID,
	}

	var (
		a       domain.Assignment
		id      pgtype.UUID
		wID     pgtype.UUID
		d       int16
		routeID pgtype.UUID
		volID   pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, args).Scan(&id, &wID, &d, &routeID, &volID, &a.CreatedAt, &a.RouteNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, fmt.Errorf("repo.AssignmentRepo.GetForVolunteerDay: %w", domain.ErrNotFound)
		}
		return domain.Assignment{}, fmt.Errorf("repo.AssignmentRepo.GetForVolunteerDay: %w", err)
	}
	a.ID = uuid.UUID(id.Bytes)
	a.WeekID = uuid.UUID(wID.Bytes)
	a.Day = domain.Weekday(d)
	a.RouteID = uuid.UUID(routeID.Bytes)
	a.VolunteerID = uuid.UUID(volID.Bytes)
	return a, nil
}

// CountForSlot counts the occupants of one (week, day, route) slot.
func (r *pgAssignmentRepo) CountForSlot(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error) {
	const q = `
		SELECT count(*)
		FROM assignments
		WHERE week_id = @week_id AND day = @day AND route_id = @route_id`

	args := pgx.NamedArgs{
		"week_id":  weekID,
		"day":      int16(day),
		"route_id": routeID,
	}

	var count int
	if err := r.db.QueryRow(ctx, q, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("repo.AssignmentRepo.CountForSlot: %w", err)
	}
	return count, nil
}

// DeleteByID removes an assignment by primary key.
func (r *pgAssignmentRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM assignments WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AssignmentRepo.DeleteByID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AssignmentRepo.DeleteByID: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteBySlotVolunteer removes the exact assignment triple for one volunteer.
// Zero rows affected is a valid outcome — removal is idempotent.
func (r *pgAssignmentRepo) DeleteBySlotVolunteer(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, volunteerID uuid.UUID) (int64, error) {
	const q = `
		DELETE FROM assignments
		WHERE week_id = @week_id AND day = @day
		  AND route_id = @route_id AND volunteer_id = @volunteer_id`

	args := pgx.NamedArgs{
		"week_id":      weekID,
		"day":          int16(day),
		"route_id":     routeID,
		"volunteer_id": volunteerID,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, fmt.Errorf("repo.AssignmentRepo.DeleteBySlotVolunteer: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByIDs removes a batch of assignments by primary key.
func (r *pgAssignmentRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const q = `DELETE FROM assignments WHERE id = ANY(@ids)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return 0, fmt.Errorf("repo.AssignmentRepo.DeleteByIDs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByVolunteer returns the volunteer's assignments ordered for display.
func (r *pgAssignmentRepo) ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error) {
	const q = `
		SELECT a.id, a.week_id, a.day, a.route_id, a.volunteer_id, a.created_at,
		       w.start_date, r.number
		FROM assignments a
		JOIN weeks w ON w.id = a.week_id
		JOIN routes r ON r.id = a.route_id
		WHERE a.volunteer_id = @volunteer_id
		ORDER BY w.start_date, a.day, r.number`

	return r.queryJoined(ctx, q, pgx.NamedArgs{"volunteer_id": volunteerID}, "ListByVolunteer")
}

// ListByWeek returns all assignments of a week ordered day, route number.
func (r *pgAssignmentRepo) ListByWeek(ctx context.Context, weekID uuid.UUID) ([]domain.Assignment, error) {
	const q = `
		SELECT a.id, a.week_id, a.day, a.route_id, a.volunteer_id, a.created_at,
		       w.start_date, r.number
		FROM assignments a
		JOIN weeks w ON w.id = a.week_id
		JOIN routes r ON r.id = a.route_id
		WHERE a.week_id = @week_id
		ORDER BY a.day, r.number`

	return r.queryJoined(ctx, q, pgx.NamedArgs{"week_id": weekID}, "ListByWeek")
}

// ListFutureByVolunteer returns assignments in weeks starting strictly after
// the given date. The current and past weeks are excluded by construction,
// which is what keeps preference reconciliation from touching them.
func (r *pgAssignmentRepo) ListFutureByVolunteer(ctx context.Context, volunteerID uuid.UUID, after time.Time) ([]domain.Assignment, error) {
	const q = `
		SELECT a.id, a.week_id, a.day, a.route_id, a.volunteer_id, a.created_at,
		       w.start_date, r.number
		FROM assignments a
		JOIN weeks w ON w.id = a.week_id
		JOIN routes r ON r.id = a.route_id
		WHERE a.volunteer_id = @volunteer_id AND w.start_date > @after
		ORDER BY w.start_date, a.day, r.number`

	args := pgx.NamedArgs{"volunteer_id": volunteerID, "after": after}
	return r.queryJoined(ctx, q, args, "ListFutureByVolunteer")
}

// CountBySlot aggregates occupant counts for all slots in the given weeks.
func (r *pgAssignmentRepo) CountBySlot(ctx context.Context, weekIDs []uuid.UUID) (SlotCountSet, error) {
	const q = `
		SELECT week_id, day, route_id, count(*)
		FROM assignments
		WHERE week_id = ANY(@week_ids)
		GROUP BY week_id, day, route_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"week_ids": weekIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.CountBySlot: %w", err)
	}
	defer rows.Close()

	counts := SlotCountSet{}
	for rows.Next() {
		var (
			weekID  pgtype.UUID
			day     int16
			routeID pgtype.UUID
			count   int
		)
		if err := rows.Scan(&weekID, &day, &routeID, &count); err != nil {
			return nil, fmt.Errorf("repo.AssignmentRepo.CountBySlot: scan: %w", err)
		}
		counts[slotKey{uuid.UUID(weekID.Bytes), domain.Weekday(day), uuid.UUID(routeID.Bytes)}] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.CountBySlot: rows: %w", err)
	}
	return counts, nil
}

// queryJoined runs one of the week/route-joined list queries.
func (r *pgAssignmentRepo) queryJoined(ctx context.Context, q string, args pgx.NamedArgs, method string) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.%s: %w", method, err)
	}
	defer rows.Close()

	assignments := []domain.Assignment{}
	for rows.Next() {
		a, err := scanAssignmentJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AssignmentRepo.%s: scan: %w", method, err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.%s: rows: %w", method, err)
	}
	return assignments, nil
}

// scanAssignment maps a bare assignments row into a domain.Assignment.
func scanAssignment(s scanner) (domain.Assignment, error) {
	var (
		a       domain.Assignment
		id      pgtype.UUID
		weekID  pgtype.UUID
		day     int16
		routeID pgtype.UUID
		volID   pgtype.UUID
	)
	err := s.Scan(&id, &weekID, &day, &routeID, &volID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, domain.ErrNotFound
		}
		return domain.Assignment{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.WeekID = uuid.UUID(weekID.Bytes)
	a.Day = domain.Weekday(day)
	a.RouteID = uuid.UUID(routeID.Bytes)
	a.VolunteerID = uuid.UUID(volID.Bytes)
	return a, nil
}

// scanAssignmentJoined maps a row that also carries week start and route number.
func scanAssignmentJoined(s scanner) (domain.Assignment, error) {
	var (
		a       domain.Assignment
		id      pgtype.UUID
		weekID  pgtype.UUID
		day     int16
		routeID pgtype.UUID
		volID   pgtype.UUID
		start   pgtype.Date
	)
	err := s.Scan(&id, &weekID, &day, &routeID, &volID, &a.CreatedAt, &start, &a.RouteNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, domain.ErrNotFound
		}
		return domain.Assignment{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.WeekID = uuid.UUID(weekID.Bytes)
	a.Day = domain.Weekday(day)
	a.RouteID = uuid.UUID(routeID.Bytes)
	a.VolunteerID = uuid.UUID(volID.Bytes)
	a.WeekStart = start.Time
	return a, nil
}
