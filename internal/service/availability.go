package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
)

// AvailabilityService persists volunteer weekday preferences and reconciles
// future assignments against them.
//
// Reconciliation is a compensating bulk operation and is deliberately not
// serialized against concurrent admin assignment: an admin assigning a
// now-unavailable day while an update runs can leave one assignment behind,
// visible on the roster and removable by the admin. Taking per-slot locks for
// a bulk delete would invert lock ordering relative to the signup path for
// no correctness gain.
type AvailabilityService struct {
	tx    repo.Tx
	store *repo.Store

	// now is replaceable in tests to pin the "current week" boundary.
	now func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService.
// Pass nil for now to use the wall clock; tests inject a fixed time to pin
// the current-week boundary.
func NewAvailabilityService(tx repo.Tx, store *repo.Store, now func() time.Time) *AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{tx: tx, store: store, now: now}
}

// UpdateAvailability persists the new day set unconditionally — an empty set
// is valid — then removes the volunteer's assignments on excluded weekdays in
// all weeks starting strictly after the current week's Friday. The current
// week and the past are never touched, whatever the new preference says.
func (s *AvailabilityService) UpdateAvailability(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.ReconcileResult, error) {
	if volunteerID == uuid.Nil {
		return domain.ReconcileResult{}, fmt.Errorf("%w: volunteer is required", domain.ErrValidation)
	}
	days = domain.NormalizeDays(days)

	var result domain.ReconcileResult
	err := s.tx.InTx(ctx, func(st *repo.Store) error {
		if _, err := st.Availability.Upsert(ctx, volunteerID, days); err != nil {
			return err
		}

		available := map[domain.Weekday]bool{}
		for _, d := range days {
			available[d] = true
		}

		currentWeekEnd := domain.EndFor(domain.MondayOf(s.now()))
		future, err := st.Assignments.ListFutureByVolunteer(ctx, volunteerID, currentWeekEnd)
		if err != nil {
			return err
		}

		var removeIDs []uuid.UUID
		weeks := map[uuid.UUID]bool{}
		for _, a := range future {
			if available[a.Day] {
				continue
			}
			removeIDs = append(removeIDs, a.ID)
			weeks[a.WeekID] = true
		}

		removed, err := st.Assignments.DeleteByIDs(ctx, removeIDs)
		if err != nil {
			return err
		}

		result = domain.ReconcileResult{
			RemovedAssignments: int(removed),
			AffectedWeeks:      len(weeks),
		}
		return nil
	})
	if err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("service.AvailabilityService.UpdateAvailability: %w", err)
	}
	return result, nil
}

// GetAvailability returns the volunteer's declared day set; volunteers who
// never declared anything get an empty set.
func (s *AvailabilityService) GetAvailability(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error) {
	if volunteerID == uuid.Nil {
		return domain.VolunteerAvailability{}, fmt.Errorf("%w: volunteer is required", domain.ErrValidation)
	}
	av, err := s.store.Availability.Get(ctx, volunteerID)
	if err != nil {
		return domain.VolunteerAvailability{}, fmt.Errorf("service.AvailabilityService.GetAvailability: %w", err)
	}
	return av, nil
}
