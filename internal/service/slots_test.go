package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
	"github.com/dispatchday/route-roster/internal/service"
)

type slotsFixture struct {
	volunteerID uuid.UUID
	weekEarly   domain.Week
	weekLate    domain.Week
	routeA      domain.Route
	routeB      domain.Route

	weeks       *mockWeekRepo
	routes      *mockRouteRepo
	assignments *mockAssignmentRepo
	reqs        *mockRequirementRepo
}

func newSlotsFixture() *slotsFixture {
	monday := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	f := &slotsFixture{
		volunteerID: uuid.New(),
		weekEarly:   domain.Week{ID: uuid.New(), StartDate: monday, EndDate: domain.EndFor(monday), Published: true},
		weekLate:    domain.Week{ID: uuid.New(), StartDate: monday.AddDate(0, 0, 7), EndDate: domain.EndFor(monday.AddDate(0, 0, 7)), Published: true},
		routeA:      domain.Route{ID: uuid.New(), Number: 1, Name: "Downtown"},
		routeB:      domain.Route{ID: uuid.New(), Number: 2, Name: "Riverside"},
	}
	f.weeks = &mockWeekRepo{
		listPublished: func(context.Context) ([]domain.Week, error) {
			return []domain.Week{f.weekEarly, f.weekLate}, nil
		},
	}
	f.routes = &mockRouteRepo{
		list: func(context.Context) ([]domain.Route, error) {
			return []domain.Route{f.routeA, f.routeB}, nil
		},
	}
	f.assignments = &mockAssignmentRepo{
		countBySlot: func(context.Context, []uuid.UUID) (repo.SlotCountSet, error) {
			return repo.SlotCountSet{}, nil
		},
		listByVolunteer: func(context.Context, uuid.UUID) ([]domain.Assignment, error) {
			return nil, nil
		},
	}
	f.reqs = &mockRequirementRepo{
		listForWeeks: func(context.Context, []uuid.UUID) (repo.RequirementSet, error) {
			return repo.RequirementSet{}, nil
		},
	}
	return f
}

func (f *slotsFixture) service() *service.SlotService {
	return service.NewSlotService(&repo.Store{
		Weeks:        f.weeks,
		Routes:       f.routes,
		Assignments:  f.assignments,
		Requirements: f.reqs,
	})
}

func TestListOpenSlots_PresentationOrder(t *testing.T) {
	f := newSlotsFixture()

	open, err := f.service().ListOpenSlots(context.Background(), f.volunteerID)

	require.NoError(t, err)
	// 2 weeks x 5 days x 2 routes, everything vacant at the default capacity.
	require.Len(t, open, 20)

	assert.Equal(t, f.weekEarly.ID, open[0].WeekID)
	assert.Equal(t, domain.Monday, open[0].Day)
	assert.Equal(t, 1, open[0].RouteNumber)
	assert.Equal(t, 2, open[1].RouteNumber, "routes order by number within a day")
	assert.Equal(t, domain.Tuesday, open[2].Day, "days advance after routes are exhausted")
	assert.Equal(t, f.weekLate.ID, open[10].WeekID, "weeks order by start date")

	for _, s := range open {
		assert.Equal(t, 0, s.Current)
		assert.Equal(t, domain.DefaultMaxVolunteers, s.Max)
		assert.Equal(t, domain.DefaultMaxVolunteers, s.Remaining())
	}
}

func TestListOpenSlots_FullSlotsExcluded(t *testing.T) {
	f := newSlotsFixture()
	f.assignments.countBySlot = func(context.Context, []uuid.UUID) (repo.SlotCountSet, error) {
		set := repo.SlotCountSet{}
		set.Add(f.weekEarly.ID, domain.Monday, f.routeA.ID, 1)
		return set, nil
	}

	open, err := f.service().ListOpenSlots(context.Background(), f.volunteerID)

	require.NoError(t, err)
	assert.Len(t, open, 19, "the slot at its default max of 1 disappears")
	for _, s := range open {
		if s.WeekID == f.weekEarly.ID && s.Day == domain.Monday {
			assert.NotEqual(t, f.routeA.ID, s.RouteID)
		}
	}
}

func TestListOpenSlots_RaisedRequirementKeepsSlotOpen(t *testing.T) {
	f := newSlotsFixture()
	f.assignments.countBySlot = func(context.Context, []uuid.UUID) (repo.SlotCountSet, error) {
		set := repo.SlotCountSet{}
		set.Add(f.weekEarly.ID, domain.Monday, f.routeA.ID, 2)
		return set, nil
	}
	f.reqs.listForWeeks = func(context.Context, []uuid.UUID) (repo.RequirementSet, error) {
		set := repo.RequirementSet{}
		set.Add(f.weekEarly.ID, domain.Monday, f.routeA.ID, 3)
		return set, nil
	}

	open, err := f.service().ListOpenSlots(context.Background(), f.volunteerID)

	require.NoError(t, err)
	require.Len(t, open, 20)
	assert.Equal(t, 2, open[0].Current)
	assert.Equal(t, 3, open[0].Max)
	assert.Equal(t, 1, open[0].Remaining())
}

func TestListOpenSlots_HeldSlotHidden(t *testing.T) {
	f := newSlotsFixture()
	f.assignments.listByVolunteer = func(context.Context, uuid.UUID) ([]domain.Assignment, error) {
		return []domain.Assignment{{
			WeekID: f.weekEarly.ID, Day: domain.Monday, RouteID: f.routeA.ID,
			VolunteerID: f.volunteerID,
		}}, nil
	}
	// Room remains (max 2, one occupant: the volunteer themselves), but their
	// own slot must not be offered back to them.
	f.assignments.countBySlot = func(context.Context, []uuid.UUID) (repo.SlotCountSet, error) {
		set := repo.SlotCountSet{}
		set.Add(f.weekEarly.ID, domain.Monday, f.routeA.ID, 1)
		return set, nil
	}
	f.reqs.listForWeeks = func(context.Context, []uuid.UUID) (repo.RequirementSet, error) {
		set := repo.RequirementSet{}
		set.Add(f.weekEarly.ID, domain.Monday, f.routeA.ID, 2)
		return set, nil
	}

	open, err := f.service().ListOpenSlots(context.Background(), f.volunteerID)

	require.NoError(t, err)
	assert.Len(t, open, 19)
}

func TestListOpenSlots_NoPublishedWeeks(t *testing.T) {
	f := newSlotsFixture()
	f.weeks.listPublished = func(context.Context) ([]domain.Week, error) {
		return nil, nil
	}

	open, err := f.service().ListOpenSlots(context.Background(), f.volunteerID)

	require.NoError(t, err)
	assert.NotNil(t, open)
	assert.Empty(t, open)
}

func TestListVolunteerAssignments_NonNil(t *testing.T) {
	f := newSlotsFixture()

	got, err := f.service().ListVolunteerAssignments(context.Background(), f.volunteerID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = f.service().ListVolunteerAssignments(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
