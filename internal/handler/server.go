// Package handler implements the HTTP layer of the route roster API.
// All handlers are methods on Server and are split into resource-specific
// files (signup.go, slots.go, etc.) sharing the same struct so they can
// access its dependencies. Router assembles the chi route tree the same way
// main.go mounts it in production.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dispatchday/route-roster/internal/domain"
)

// The service interfaces are defined here, in the consumer package, following
// the "accept interfaces, return concrete types" convention. Handler tests
// inject mocks without touching the database or service layer.

// SignupServicer is the reservation engine behind POST /signups.
type SignupServicer interface {
	AttemptSignup(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error)
}

// SlotServicer serves the read-only volunteer views.
type SlotServicer interface {
	ListOpenSlots(ctx context.Context, volunteerID uuid.UUID) ([]domain.OpenSlot, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	ListVolunteerAssignments(ctx context.Context, volunteerID uuid.UUID) ([]domain.Assignment, error)
}

// RosterServicer covers the administrator assignment surface.
type RosterServicer interface {
	Assign(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) (domain.SignupResult, error)
	Remove(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID, volunteerID uuid.UUID) error
	SetRequirement(ctx context.Context, weekID uuid.UUID, day domain.Weekday, routeID uuid.UUID, max int) (domain.RouteRequirement, error)
	WeekRoster(ctx context.Context, weekID uuid.UUID) ([]domain.RosterSlot, error)
}

// AvailabilityServicer persists weekday preferences and reconciles schedules.
type AvailabilityServicer interface {
	UpdateAvailability(ctx context.Context, volunteerID uuid.UUID, days []domain.Weekday) (domain.ReconcileResult, error)
	GetAvailability(ctx context.Context, volunteerID uuid.UUID) (domain.VolunteerAvailability, error)
}

// CancelServicer handles volunteer cancellations and their audit trail.
type CancelServicer interface {
	Cancel(ctx context.Context, assignmentID, volunteerID uuid.UUID, reason string) error
	ListCancellations(ctx context.Context, weekID uuid.UUID) ([]domain.CancellationRecord, error)
}

// WeekServicer manages week lifecycle.
type WeekServicer interface {
	EnsureWeek(ctx context.Context, start time.Time) (domain.Week, error)
	Publish(ctx context.Context, weekID uuid.UUID) error
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	signup       SignupServicer
	slots        SlotServicer
	roster       RosterServicer
	availability AvailabilityServicer
	cancel       CancelServicer
	weeks        WeekServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	signup SignupServicer,
	slots SlotServicer,
	roster RosterServicer,
	availability AvailabilityServicer,
	cancel CancelServicer,
	weeks WeekServicer,
) *Server {
	return &Server{
		signup:       signup,
		slots:        slots,
		roster:       roster,
		availability: availability,
		cancel:       cancel,
		weeks:        weeks,
	}
}

// Router returns the chi route tree for the full API surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Post("/signups", s.CreateSignup)
	r.Get("/slots/open", s.ListOpenSlots)
	r.Get("/routes", s.ListRoutes)
	r.Get("/weeks", s.GetWeek)
	r.Get("/weeks/{weekID}/roster", s.GetWeekRoster)

	r.Route("/volunteers/self", func(r chi.Router) {
		r.Get("/assignments", s.ListMyAssignments)
		r.Get("/availability", s.GetMyAvailability)
		r.Put("/availability", s.UpdateMyAvailability)
	})

	r.Post("/cancellations", s.CreateCancellation)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/weeks/{weekID}/publish", s.PublishWeek)
		r.Put("/requirements", s.SetRequirement)
		r.Post("/assignments", s.CreateAssignment)
		r.Delete("/assignments", s.DeleteAssignment)
		r.Get("/cancellations", s.ListCancellations)
	})

	return r
}
