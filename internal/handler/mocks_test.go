package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/handler"
)

// Function-field test doubles for the handler's service interfaces.
// Set only the fields your test needs; an unset field panics, which surfaces
// unexpected calls immediately.

type mockSignupServicer struct {
	attemptSignup func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error)
}

func (m *mockSignupServicer) AttemptSignup(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error) {
	return m.attemptSignup(ctx, weekID, day, routeID, volunteerID)
}

type mockSlotServicer struct {
	listOpenSlots            func(ctx context.Context, volunteerID uuid.UUID) ([]domain.OpenSlot, error)
	listRoutes               func(ctx context.Context) ([]domain.Route, error)
	listVolunteerAssignments func(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error)
}

func (m *mockSlotServicer) ListOpenSlots(ctx context.Context, volunteerID uuid.UUID) ([]domain.OpenSlot, error) {
	return m.listOpenSlots(ctx, volunteerID)
}
func (m *mockSlotServicer) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return m.listRoutes(ctx)
}
func (m *mockSlotServicer) ListVolunteerAssignments(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error) {
	return m.listVolunteerAssignments(ctx, volunteerID)
}

type mockRosterServicer struct {
	assign         func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error)
	remove         func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) error
	setRequirement func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error)
	weekRoster     func(ctx context.Context, weekID uuid.UUID) ([]domain.RosterSlot, error)
}

func (m *mockRosterServicer) Assign(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error) {
	return m.assign(ctx, weekID, day, routeID, volunteerID)
}
func (m *mockRosterServicer) Remove(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) error {
	return m.remove(ctx, weekID, day, routeID, volunteerID)
}
func (m *mockRosterServicer) SetRequirement(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error) {
	return m.setRequirement(ctx, weekID, day, routeID, max)
}
func (m *mockRosterServicer) WeekRoster(ctx context.Context, weekID uuid.UUID) ([]domain.RosterSlot, error) {
	return m.weekRoster(ctx, weekID)
}

type mockAvailabilityServicer struct {
	updateAvailability func(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.ReconcileResult, error)
	getAvailability    func(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error)
}

func (m *mockAvailabilityServicer) UpdateAvailability(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.ReconcileResult, error) {
	return m.updateAvailability(ctx, volunteerID, days)
}
func (m *mockAvailabilityServicer) GetAvailability(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error) {
	return m.getAvailability(ctx, volunteerID)
}

type mockCancelServicer struct {
	cancel            func(ctx context.Context, assignmentID, volunteerID uuid.UUID, reason string) error
	listCancellations func(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error)
}

func (m *mockCancelServicer) Cancel(ctx context.Context, assignmentID, volunteerID uuid.UUID, reason string) error {
	return m.cancel(ctx, assignmentID, volunteerID, reason)
}
func (m *mockCancelServicer) ListCancellations(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error) {
	return m.listCancellations(ctx, weekID)
}

type mockWeekServicer struct {
	ensureWeek func(ctx context.Context, start time.Time) (domain.Week, error)
	publish    func(ctx context.Context, weekID uuid.UUID) error
}

func (m *mockWeekServicer) EnsureWeek(ctx context.Context, start time.Time) (domain.Week, error) {
	return m.ensureWeek(ctx, start)
}
func (m *mockWeekServicer) Publish(ctx context.Context, weekID uuid.UUID) error {
	return m.publish(ctx, weekID)
}

var (
	_ handler.SignupServicer       = (*mockSignupServicer)(nil)
	_ handler.SlotServicer         = (*mockSlotServicer)(nil)
	_ handler.RosterServicer       = (*mockRosterServicer)(nil)
	_ handler.AvailabilityServicer = (*mockAvailabilityServicer)(nil)
	_ handler.CancelServicer       = (*mockCancelServicer)(nil)
	_ handler.WeekServicer         = (*mockWeekServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// serverMocks bundles one mock per interface; newRouter wires them into the
// production route tree.
type serverMocks struct {
	signup       *mockSignupServicer
	slots        *mockSlotServicer
	roster       *mockRosterServicer
	availability *mockAvailabilityServicer
	cancel       *mockCancelServicer
	weeks        *mockWeekServicer
}

func newServerMocks() *serverMocks {
	return &serverMocks{
		signup:       &mockSignupServicer{},
		slots:        &mockSlotServicer{},
		roster:       &mockRosterServicer{},
		availability: &mockAvailabilityServicer{},
		cancel:       &mockCancelServicer{},
		weeks:        &mockWeekServicer{},
	}
}

func (m *serverMocks) newRouter() http.Handler {
	return handler.NewServer(m.signup, m.slots, m.roster, m.availability, m.cancel, m.weeks).Router()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorBody is the decoded shape of a non-2xx response.
type errorBody struct {
	Error struct {
		Code          string `json:"code"`
		Message       string `json:"message"`
		CurrentCount  *int   `json:"current_count"`
		MaxVolunteers *int   `json:"max_volunteers"`
		RouteNumber   *int   `json:"route_number"`
	} `json:"error"`
}

func decodeError(t *testing.T, body *bytes.Buffer) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.NewDecoder(body).Decode(&e))
	return e
}
