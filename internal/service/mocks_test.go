package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
	"github.com/dispatchday/route-roster/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs; an unset field panics,
// which surfaces unexpected calls immediately.

// fakeTx runs the transaction body directly against a prebuilt Store of
// mocks. Commit/rollback semantics are not simulated; unit tests only care
// about the business decisions made inside the body.
type fakeTx struct {
	store *repo.Store
}

func (f fakeTx) InTx(_ context.Context, fn func(s *repo.Store) error) error {
	return fn(f.store)
}

var _ repo.Tx = fakeTx{}

// ---- week repo -------------------------------------------------------------

type mockWeekRepo struct {
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Week, error)
	ensure         func(ctx context.Context, start time.Time) (domain.Week, error)
	listPublished  func(ctx context.Context) ([]domain.Week, error)
	publish        func(ctx context.Context, id uuid.UUID) error
	repairEndDates func(ctx context.Context) (int64, error)
}

func (m *mockWeekRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Week, error) {
	return m.getByID(ctx, id)
}
func (m *mockWeekRepo) Ensure(ctx context.Context, start time.Time) (domain.Week, error) {
	return m.ensure(ctx, start)
}
func (m *mockWeekRepo) ListPublished(ctx context.Context) ([]domain.Week, error) {
	return m.listPublished(ctx)
}
func (m *mockWeekRepo) Publish(ctx context.Context, id uuid.UUID) error {
	return m.publish(ctx, id)
}
func (m *mockWeekRepo) RepairEndDates(ctx context.Context) (int64, error) {
	return m.repairEndDates(ctx)
}

var _ repo.WeekRepo = (*mockWeekRepo)(nil)

// ---- route repo ------------------------------------------------------------

type mockRouteRepo struct {
	list    func(ctx context.Context) ([]domain.Route, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Route, error)
}

func (m *mockRouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	return m.list(ctx)
}
func (m *mockRouteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	return m.getByID(ctx, id)
}

var _ repo.RouteRepo = (*mockRouteRepo)(nil)

// ---- requirement repo ------------------------------------------------------

type mockRequirementRepo struct {
	upsert       func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error)
	effectiveMax func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error)
	listForWeeks func(ctx context.Context, weekIDs []uuid.UUID) (repo.RequirementSet, error)
}

func (m *mockRequirementRepo) Upsert(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error) {
	return m.upsert(ctx, weekID, day, routeID, max)
}
func (m *mockRequirementRepo) EffectiveMax(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error) {
	return m.effectiveMax(ctx, weekID, day, routeID)
}
func (m *mockRequirementRepo) ListForWeeks(ctx context.Context, weekIDs []uuid.UUID) (repo.RequirementSet, error) {
	return m.listForWeeks(ctx, weekIDs)
}

var _ repo.RequirementRepo = (*mockRequirementRepo)(nil)

// ---- assignment repo -------------------------------------------------------

type mockAssignmentRepo struct {
	create                func(ctx context.Context, a domain.Assignment) (domain.Assignment, error)
	getByID               func(ctx context.Context, id uuid.UUID) (domain.Assignment, error)
	getForVolunteerDay    func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, volunteerID uuid.UUID) (domain.Assignment, error)
	countForSlot          func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error)
	deleteByID            func(ctx context.Context, id uuid.UUID) error
	deleteBySlotVolunteer func(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (int64, error)
	deleteByIDs           func(ctx context.Context, ids []uuid.UUID) (int64, error)
	listByVolunteer       func(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error)
	listByWeek            func(ctx context.Context, weekID uuid.UUID) ([]domain.Assignment, error)
	listFutureByVolunteer func(ctx context.Context, volunteerID uuid.UUID, after time.Time) ([]domain.Assignment, error)
	countBySlot           func(ctx context.Context, weekIDs []uuid.UUID) (repo.SlotCountSet, error)
}

func (m *mockAssignmentRepo) Create(ctx context.Context, a domain.Assignment) (domain.Assignment, error) {
	return m.create(ctx, a)
}
func (m *mockAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error) {
	return m.getByID(ctx, id)
}
func (m *mockAssignmentRepo) GetForVolunteerDay(ctx context.Context, weekID uuid.UUID, day domain.Weekday, volunteerID uuid.UUID) (domain.Assignment, error) {
	return m.getForVolunteerDay(ctx, weekID, day, volunteerID)
}
func (m *mockAssignmentRepo) CountForSlot(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) (int, error) {
	return m.countForSlot(ctx, weekID, day, routeID)
}
func (m *mockAssignmentRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.deleteByID(ctx, id)
}
func (m *mockAssignmentRepo) DeleteBySlotVolunteer(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (int64, error) {
	return m.deleteBySlotVolunteer(ctx, weekID, day, routeID, volunteerID)
}
func (m *mockAssignmentRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return m.deleteByIDs(ctx, ids)
}
func (m *mockAssignmentRepo) ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error) {
	return m.listByVolunteer(ctx, volunteerID)
}
func (m *mockAssignmentRepo) ListByWeek(ctx context.Context, weekID uuid.UUID) ([]domain.Assignment, error) {
	return m.listByWeek(ctx, weekID)
}
func (m *mockAssignmentRepo) ListFutureByVolunteer(ctx context.Context, volunteerID uuid.UUID, after time.Time) ([]domain.Assignment, error) {
	return m.listFutureByVolunteer(ctx, volunteerID, after)
}
func (m *mockAssignmentRepo) CountBySlot(ctx context.Context, weekIDs []uuid.UUID) (repo.SlotCountSet, error) {
	return m.countBySlot(ctx, weekIDs)
}

var _ repo.AssignmentRepo = (*mockAssignmentRepo)(nil)

// ---- availability repo -----------------------------------------------------

type mockAvailabilityRepo struct {
	get    func(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error)
	upsert func(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.VolunteerAvailability, error)
}

func (m *mockAvailabilityRepo) Get(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error) {
	return m.get(ctx, volunteerID)
}
func (m *mockAvailabilityRepo) Upsert(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.VolunteerAvailability, error) {
	return m.upsert(ctx, volunteerID, days)
}

var _ repo.AvailabilityRepo = (*mockAvailabilityRepo)(nil)

// ---- cancellation repo -----------------------------------------------------

type mockCancellationRepo struct {
	create     func(ctx context.Context, rec domain.CancellationRecord) (domain.CancellationRecord, error)
	listByWeek func(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error)
}

func (m *mockCancellationRepo) Create(ctx context.Context, rec domain.CancellationRecord) (domain.CancellationRecord, error) {
	return m.create(ctx, rec)
}
func (m *mockCancellationRepo) ListByWeek(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error) {
	return m.listByWeek(ctx, weekID)
}

var _ repo.CancellationRepo = (*mockCancellationRepo)(nil)

// ---- slot locker -----------------------------------------------------------

// mockSlotLocker records acquisitions; the default zero value always grants.
type mockSlotLocker struct {
	acquired []int64
	err      error
}

func (m *mockSlotLocker) AcquireSlotLock(_ context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.acquired = append(m.acquired, repo.SlotLockKey(weekID, day, routeID))
	return nil
}

var _ repo.SlotLocker = (*mockSlotLocker)(nil)

// notFoundForVolunteerDay is the common "volunteer holds nothing that day" stub.
func notFoundForVolunteerDay(context.Context, uuid.UUID, domain.Weekday, uuid.UUID) (domain.Assignment, error) {
	return domain.Assignment{}, domain.ErrNotFound
}
