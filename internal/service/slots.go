package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
)

// SlotService is the open-slot projector plus the read-only volunteer views.
// It performs no mutation and tolerates running concurrently with signups:
// its output is a point-in-time snapshot, and callers re-fetch after any
// mutating action instead of trusting an old listing.
type SlotService struct {
	store *repo.Store
}

// NewSlotService constructs a SlotService reading from the provided store.
func NewSlotService(store *repo.Store) *SlotService {
	return &SlotService{store: store}
}

// ListOpenSlots returns every vacancy visible to the volunteer, grouped for
// presentation: weeks by ascending start date, days Monday..Friday, routes by
// ascending number. A slot is open iff its occupant count is below the
// effective max and the volunteer does not already hold that exact slot.
// An empty listing is a valid result.
func (s *SlotService) ListOpenSlots(ctx context.Context, volunteerID uuid.UUID) ([]domain.OpenSlot, error) {
	if volunteerID == uuid.Nil {
		return nil, fmt.Errorf("%w: volunteer is required", domain.ErrValidation)
	}

	weeks, err := s.store.Weeks.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SlotService.ListOpenSlots: %w", err)
	}
	open := []domain.OpenSlot{}
	if len(weeks) == 0 {
		return open, nil
	}

	routes, err := s.store.Routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SlotService.ListOpenSlots: %w", err)
	}

	weekIDs := make([]uuid.UUID, len(weeks))
	for i, w := range weeks {
		weekIDs[i] = w.ID
	}
	counts, err := s.store.Assignments.CountBySlot(ctx, weekIDs)
	if err != nil {
		return nil, fmt.Errorf("service.SlotService.ListOpenSlots: %w", err)
	}
	reqs, err := s.store.Requirements.ListForWeeks(ctx, weekIDs)
	if err != nil {
		return nil, fmt.Errorf("service.SlotService.ListOpenSlots: %w", err)
	}

	mine, err := s.store.Assignments.ListByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("service.SlotService.ListOpenSlots: %w", err)
	}
	type triple struct {
		weekID  uuid.UUID
		day     domain.Weekday
		routeID uuid.UUID
	}
	held := map[triple]bool{}
	for _, a := range mine {
		held[triple{a.WeekID, a.Day, a.RouteID}] = true
	}

	// Cross-product of published week × weekday × route, in presentation order.
	for _, w := range weeks {
		for _, day := range domain.Weekdays() {
			for _, rt := range routes {
				if held[triple{w.ID, day, rt.ID}] {
					continue
				}
				current := counts.Count(w.ID, day, rt.ID)
				max := reqs.EffectiveMax(w.ID, day, rt.ID)
				if current >= max {
					continue
				}
				open = append(open, domain.OpenSlot{
					WeekID:      w.ID,
					WeekStart:   w.StartDate,
					Day:         day,
					RouteID:     rt.ID,
					RouteNumber: rt.Number,
					RouteName:   rt.Name,
					Current:     current,
					Max:         max,
				})
			}
		}
	}
	return open, nil
}

// ListRoutes returns the seeded route reference data ordered by number.
func (s *SlotService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	routes, err := s.store.Routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SlotService.ListRoutes: %w", err)
	}
	return routes, nil
}

// ListVolunteerAssignments returns the volunteer's schedule ordered by week,
// day, and route number. Always returns a non-nil slice.
func (s *SlotService) ListVolunteerAssignments(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error) {
	if volunteerID == uuid.Nil {
		return nil, fmt.Errorf("%w: volunteer is required", domain.ErrValidation)
	}
	assignments, err := s.store.Assignments.ListByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("service.SlotService.ListVolunteerAssignments: %w", err)
	}
	if assignments == nil {
		return []domain.Assignment{}, nil
	}
	return assignments, nil
}
