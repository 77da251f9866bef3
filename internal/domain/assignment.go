package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment binds one volunteer to one slot (week, day, route).
// A volunteer holds at most one assignment per (week, day) — one route per
// day — and assignments are never updated in place: moving a volunteer is
// modeled as delete + create.
type Assignment struct {
	ID          uuid.UUID `json:"id"`
	WeekID      uuid.UUID `json:"week_id"`
	Day         Weekday   `json:"day"`
	RouteID     uuid.UUID `json:"route_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
	CreatedAt   time.Time `json:"created_at"`

	// WeekStart and RouteNumber are denormalized from joins for listings;
	// zero values when the repo method does not join.
	WeekStart   time.Time `json:"week_start,omitzero"`
	RouteNumber int       `json:"route_number,omitempty"`
}
