// Package service contains the business logic for the route roster API.
// Services validate inputs, enforce capacity and one-route-per-day rules,
// and orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
)

// SignupService is the reservation engine for self-service signups.
//
// Every attempt runs inside one transaction that takes the slot's advisory
// lock before counting occupants, so two concurrent attempts on the same
// slot serialize and the count-then-insert sequence is atomic. Attempts on
// different slots never block each other. The lock is released when the
// transaction ends, never held across the response to the caller.
type SignupService struct {
	tx repo.Tx
}

// NewSignupService constructs a SignupService running on the provided Tx.
func NewSignupService(tx repo.Tx) *SignupService {
	return &SignupService{tx: tx}
}

// AttemptSignup tries to reserve (week, day, route) for the volunteer.
//
// Rejections, in check order:
//   - domain.ErrNotPublished — the week is not open for self-service yet
//   - domain.ErrAlreadyAssignedThisDay — a different route is already held
//     on that (week, day)
//   - *domain.SlotFullError — occupancy at max, observed under the slot lock
//   - domain.ErrDuplicateSignup — the volunteer already holds this exact slot
//
// On success the result carries the occupancy including the new assignment.
func (s *SignupService) AttemptSignup(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error) {
	if err := validateSlotRef(weekID, day, routeID, volunteerID); err != nil {
		return domain.SignupResult{}, err
	}

	var result domain.SignupResult
	err := s.tx.InTx(ctx, func(st *repo.Store) error {
		week, err := st.Weeks.GetByID(ctx, weekID)
		if err != nil {
			return err
		}
		if !week.Published {
			return domain.ErrNotPublished
		}

		// Cheap pre-check before taking the lock; repeated below once the
		// lock is held, where it becomes authoritative.
		if err := checkDayFree(ctx, st, weekID, day, routeID, volunteerID); err != nil {
			return err
		}

		if err := st.Locks.AcquireSlotLock(ctx, weekID, day, routeID); err != nil {
			return err
		}

		held, heldErr := st.Assignments.GetForVolunteerDay(ctx, weekID, day, volunteerID)
		if heldErr != nil && !errors.Is(heldErr, domain.ErrNotFound) {
			return heldErr
		}
		holdsDay := heldErr == nil
		if holdsDay && held.RouteID != routeID {
			return domain.ErrAlreadyAssignedThisDay
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
		if holdsDay {
			// Same route held already; the insert would only hit the
			// uniqueness backstop.
			return domain.ErrDuplicateSignup
		}

		created, err := st.Assignments.Create(ctx, domain.Assignment{
			WeekID: weekID, Day: day, RouteID: routeID, VolunteerID: volunteerID,
		})
		if err != nil {
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
		return domain.SignupResult{}, fmt.Errorf("service.SignupService.AttemptSignup: %w", err)
	}
	return result, nil
}

// checkDayFree rejects when the volunteer already holds a different route on
// (week, day). Holding the requested route itself is left for the duplicate
// check, which runs under the lock.
func checkDayFree(ctx context.Context, st *repo.Store, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) error {
	held, err := st.Assignments.GetForVolunteerDay(ctx, weekID, day, volunteerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if held.RouteID != routeID {
		return domain.ErrAlreadyAssignedThisDay
	}
	return nil
}

// validateSlotRef rejects structurally invalid identifiers before any I/O.
func validateSlotRef(weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) error {
	if weekID == uuid.Nil || routeID == uuid.Nil || volunteerID == uuid.Nil {
		return fmt.Errorf("%w: week, route, and volunteer are required", domain.ErrValidation)
	}
	if !day.Valid() {
		return fmt.Errorf("%w: day must be monday through friday", domain.ErrValidation)
	}
	return nil
}
