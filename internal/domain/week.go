// Package domain contains the core data types for the route roster application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeekSpanDays is the distance in days between a week's start (Monday) and
// its end (Friday). End date is always derived: end = start + WeekSpanDays.
const WeekSpanDays = 4

// Week represents one delivery week, Monday through Friday.
// Weeks are created lazily the first time someone navigates to them and are
// never deleted; the only mutation in normal operation is flipping Published.
type Week struct {
	ID        uuid.UUID `json:"id"`
	StartDate time.Time `json:"start_date"` // always a Monday, date precision
	EndDate   time.Time `json:"end_date"`   // always StartDate + 4 days
	Published bool      `json:"published"`
}

// EndFor returns the canonical end date for a week starting at start.
func EndFor(start time.Time) time.Time {
	return start.AddDate(0, 0, WeekSpanDays)
}

// MondayOf returns the Monday of the week containing t, at midnight UTC.
// For Saturday and Sunday it returns the Monday of the preceding week,
// matching how "current week" is determined for reconciliation.
//
// The instant is converted to UTC before its calendar date is read, so the
// result does not depend on the server's local timezone.
func MondayOf(t time.Time) time.Time {
	t = t.UTC()
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	return t.AddDate(0, 0, -(wd - 1))
}
