package domain

import (
	"time"

	"github.com/google/uuid"
)

// VolunteerAvailability is the set of weekdays a volunteer has declared
// themselves available for. An empty set is valid — it only affects which
// days an administrator would offer them, never their ability to self-serve
// into open slots. Mutated only through the availability-update operation.
type VolunteerAvailability struct {
	VolunteerID uuid.UUID `json:"volunteer_id"`
	Days        []Weekday `json:"days"` // sorted Monday..Friday, no duplicates
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasDay reports whether day is in the declared set.
func (a VolunteerAvailability) HasDay(day Weekday) bool {
	for _, d := range a.Days {
		if d == day {
			return true
		}
	}
	return false
}

// NormalizeDays sorts, deduplicates, and drops invalid entries from days.
// The result is the canonical persisted form.
func NormalizeDays(days []Weekday) []Weekday {
	seen := [Friday + 1]bool{} // index by weekday 1..5
	out := make([]Weekday, 0, len(days))
	for _, d := range Weekdays() {
		for _, in := range days {
			if in == d && !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// ReconcileResult reports what an availability update removed.
type ReconcileResult struct {
	RemovedAssignments int `json:"removed_assignments"`
	AffectedWeeks      int `json:"affected_weeks"`
}
