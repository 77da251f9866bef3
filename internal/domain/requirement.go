package domain

import "github.com/google/uuid"

// Requirement capacity bounds. A slot with no requirement row behaves exactly
// like one with MaxVolunteers = DefaultMaxVolunteers; the default is applied
// in one place (repo.RequirementRepo) so the reservation engine and the
// open-slot projector can never drift apart on what "absent" means.
const (
	DefaultMaxVolunteers = 1
	MinMaxVolunteers     = 1
	MaxMaxVolunteers     = 10
)

// RouteRequirement is the configured maximum occupancy for one slot
// (week, day, route). Unique per triple; created and updated only by
// administrators.
type RouteRequirement struct {
	ID            uuid.UUID `json:"id"`
	WeekID        uuid.UUID `json:"week_id"`
	Day           Weekday   `json:"day"`
	RouteID       uuid.UUID `json:"route_id"`
	MaxVolunteers int       `json:"max_volunteers"`
}
