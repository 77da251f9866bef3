package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
)

// RosterService implements administrator assignment management: direct
// assignment and removal, capacity configuration, and the week roster view.
//
// Admin usage is assumed serialized by the UI, but Assign still routes
// through the same slot lock as self-service signup so the capacity invariant
// does not depend on that assumption.
type RosterService struct {
	tx    repo.Tx
	store *repo.Store
}

// NewRosterService constructs a RosterService.
// tx serves the mutating paths; store serves plain reads.
func NewRosterService(tx repo.Tx, store *repo.Store) *RosterService {
	return &RosterService{tx: tx, store: store}
}

// Assign places a volunteer on (week, day, route) with administrator authority.
// The week does not need to be published.
//
// Rejections, in check order:
//   - *domain.SlotFullError — the slot is already at its requirement max
//   - *domain.DayConflictError — the volunteer holds a different route that
//     day; the error names the conflicting route number
//   - domain.ErrDuplicateAssignment — the exact assignment already exists
func (s *RosterService) Assign(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error) {
	if err := validateSlotRef(weekID, day, routeID, volunteerID); err != nil {
		return domain.SignupResult{}, err
	}

	var result domain.SignupResult
	err := s.tx.InTx(ctx, func(st *repo.Store) error {
		if _, err := st.Weeks.GetByID(ctx, weekID); err != nil {
			return err
		}
		if _, err := st.Routes.GetByID(ctx, routeID); err != nil {
			return err
		}

		if err := st.Locks.AcquireSlotLock(ctx, weekID, day, routeID); err != nil {
			return err
		}

		max, err := st.Requirements.EffectiveMax(ctx, weekID, day, routeID)
		if err != nil {
			return err
		}
		current, err := st.Assignments.CountForSlot(ctx, weekID, day, routeID)
		if err != nil {
			return err
		}
		if current >= max {
			return &domain.SlotFullError{Current: current, Max: max}
		}

		held, heldErr := st.Assignments.GetForVolunteerDay(ctx, weekID, day, volunteerID)
		if heldErr != nil && !errors.Is(heldErr, domain.ErrNotFound) {
			return heldErr
		}
		if heldErr == nil {
			if held.RouteID != routeID {
				return &domain.DayConflictError{RouteNumber: held.RouteNumber}
			}
			return domain.ErrDuplicateAssignment
		}

		created, err := st.Assignments.Create(ctx, domain.Assignment{
			WeekID: weekID, Day: day, RouteID: routeID, VolunteerID: volunteerID,
		})
		if err != nil {
			// The uniqueness backstop speaks signup; translate for the
			// admin path.
			if errors.Is(err, domain.ErrDuplicateSignup) {
				return domain.ErrDuplicateAssignment
			}
			return err
		}

		result = domain.SignupResult{
			AssignmentID: created.ID,
			Current:      current + 1,
			Max:          max,
		}
		return nil
	})
	if err != nil {
		return domain.SignupResult{}, fmt.Errorf("service.RosterService.Assign: %w", err)
	}
	return result, nil
}

// Remove deletes the exact (week, day, route, volunteer) assignment.
// Removing an assignment that does not exist is a success, not an error.
func (s *RosterService) Remove(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) error {
	if err := validateSlotRef(weekID, day, routeID, volunteerID); err != nil {
		return err
	}

	_, err := s.store.Assignments.DeleteBySlotVolunteer(ctx, weekID, day, routeID, volunteerID)
	if err != nil {
		return fmt.Errorf("service.RosterService.Remove: %w", err)
	}
	return nil
}

// SetRequirement configures the max occupancy for one slot.
// Returns domain.ErrValidation when max is outside 1..10.
func (s *RosterService) SetRequirement(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error) {
	if weekID == uuid.Nil || routeID == uuid.Nil {
		return domain.RouteRequirement{}, fmt.Errorf("%w: week and route are required", domain.ErrValidation)
	}
	if !day.Valid() {
		return domain.RouteRequirement{}, fmt.Errorf("%w: day must be monday through friday", domain.ErrValidation)
	}
	if max < domain.MinMaxVolunteers || max > domain.MaxMaxVolunteers {
		return domain.RouteRequirement{}, fmt.Errorf("%w: max volunteers must be between %d and %d",
			domain.ErrValidation, domain.MinMaxVolunteers, domain.MaxMaxVolunteers)
	}

	req, err := s.store.Requirements.Upsert(ctx, weekID, day, routeID, max)
	if err != nil {
		return domain.RouteRequirement{}, fmt.Errorf("service.RosterService.SetRequirement: %w", err)
	}
	return req, nil
}

// WeekRoster returns the full admin grid for a week: every (day, route) slot
// with its effective capacity and current occupants, ordered day then route
// number. Returns domain.ErrNotFound for an unknown week.
func (s *RosterService) WeekRoster(ctx context.Context, weekID uuid.UUID) ([]domain.RosterSlot, error) {
	if _, err := s.store.Weeks.GetByID(ctx, weekID); err != nil {
		return nil, fmt.Errorf("service.RosterService.WeekRoster: %w", err)
	}

	routes, err := s.store.Routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.WeekRoster: %w", err)
	}
	assignments, err := s.store.Assignments.ListByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.WeekRoster: %w", err)
	}
	reqs, err := s.store.Requirements.ListForWeeks(ctx, []uuid.UUID{weekID})
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.WeekRoster: %w", err)
	}

	type cell struct {
		day     domain.Weekday
		routeID uuid.UUID
	}
	occupants := map[cell][]uuid.UUID{}
	for _, a := range assignments {
		k := cell{a.Day, a.RouteID}
		occupants[k] = append(occupants[k], a.VolunteerID)
	}

	grid := []domain.RosterSlot{}
	for _, day := range domain.Weekdays() {
		for _, rt := range routes {
			vols := occupants[cell{day, rt.ID}]
			if vols == nil {
				vols = []uuid.UUID{}
			}
			grid = append(grid, domain.RosterSlot{
				Day:         day,
				RouteID:     rt.ID,
				RouteNumber: rt.Number,
				RouteName:   rt.Name,
				Max:         reqs.EffectiveMax(weekID, day, rt.ID),
				Volunteers:  vols,
			})
		}
	}
	return grid, nil
}
