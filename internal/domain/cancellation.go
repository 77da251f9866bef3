package domain

import (
	"time"

	"github.com/google/uuid"
)

// CancellationRecord is one append-only audit entry for a volunteer-initiated
// cancellation. It captures the slot identity directly rather than referencing
// the assignment row, because the record must outlive the deleted assignment.
// Records are never updated or deleted.
type CancellationRecord struct {
	ID          uuid.UUID `json:"id"`
	WeekID      uuid.UUID `json:"week_id"`
	Day         Weekday   `json:"day"`
	RouteID     uuid.UUID `json:"route_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelled_at"`
}
