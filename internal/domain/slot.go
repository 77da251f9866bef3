package domain

import (
	"time"

	"github.com/google/uuid"
)

// OpenSlot is one vacancy visible to a particular volunteer: a slot in a
// published week with remaining capacity that the volunteer does not already
// hold. Week and route fields are denormalized for presentation.
type OpenSlot struct {
	WeekID      uuid.UUID `json:"week_id"`
	WeekStart   time.Time `json:"week_start"`
	Day         Weekday   `json:"day"`
	RouteID     uuid.UUID `json:"route_id"`
	RouteNumber int       `json:"route_number"`
	RouteName   string    `json:"route_name,omitempty"`
	Current     int       `json:"current_count"`
	Max         int       `json:"max_volunteers"`
}

// Remaining is the number of vacancies left on the slot.
func (s OpenSlot) Remaining() int {
	return s.Max - s.Current
}

// SignupResult is the success payload of an accepted signup or admin
// assignment: the created assignment plus the occupancy observed at the
// moment the insert was accepted (the new volunteer included).
type SignupResult struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	Current      int       `json:"current_count"`
	Max          int       `json:"max_volunteers"`
}

// RosterSlot is one slot in the admin week roster: its capacity and every
// volunteer currently assigned to it.
type RosterSlot struct {
	Day         Weekday     `json:"day"`
	RouteID     uuid.UUID   `json:"route_id"`
	RouteNumber int         `json:"route_number"`
	RouteName   string      `json:"route_name,omitempty"`
	Max         int         `json:"max_volunteers"`
	Volunteers  []uuid.UUID `json:"volunteers"`
}
