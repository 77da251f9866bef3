package domain

import (
	"errors"
	"fmt"
)

// Validation rejections are expected outcomes, returned as typed errors and
// never propagated as faults. Handlers branch on them with errors.Is /
// errors.As to produce user-facing messages; anything not in this taxonomy is
// an infrastructure fault and maps to a generic retryable failure.

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a non-Monday week start, an out-of-range capacity).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNotPublished rejects a self-service signup against a week whose
// schedule has not been made visible to volunteers yet.
var ErrNotPublished = errors.New("week not published")

// ErrAlreadyAssignedThisDay rejects a signup by a volunteer who already
// holds a different route on the same (week, day).
var ErrAlreadyAssignedThisDay = errors.New("already assigned this day")

// ErrDuplicateSignup rejects a signup for a (week, day, route) the volunteer
// already holds. Also produced when the store's uniqueness backstop fires on
// insert despite the logical pre-checks.
var ErrDuplicateSignup = errors.New("duplicate signup")

// ErrDuplicateAssignment rejects an admin assignment of an exact
// (week, day, route, volunteer) that already exists.
var ErrDuplicateAssignment = errors.New("duplicate assignment")

// ErrNotOwner rejects a cancellation attempted by a volunteer who does not
// hold the assignment.
var ErrNotOwner = errors.New("not the assignment owner")

// ErrSlotFull is the sentinel matched by errors.Is for capacity rejections.
// The concrete error is always a SlotFullError carrying the observed counts.
var ErrSlotFull = errors.New("slot full")

// ErrDayConflict is the sentinel matched by errors.Is for admin-assignment
// day conflicts. The concrete error is always a DayConflictError naming the
// route already held.
var ErrDayConflict = errors.New("day conflict")

// SlotFullError reports a capacity rejection together with the occupancy
// observed under the slot lock, so callers can show "2 of 2 filled".
type SlotFullError struct {
	Current int
	Max     int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot full: %d of %d volunteers assigned", e.Current, e.Max)
}

// Is makes errors.Is(err, ErrSlotFull) match any SlotFullError.
func (e *SlotFullError) Is(target error) bool {
	return target == ErrSlotFull
}

// DayConflictError reports an admin assignment rejected because the
// volunteer already holds a different route that day.
type DayConflictError struct {
	RouteNumber int
}

func (e *DayConflictError) Error() string {
	return fmt.Sprintf("volunteer already assigned to route %d that day", e.RouteNumber)
}

// Is makes errors.Is(err, ErrDayConflict) match any DayConflictError.
func (e *DayConflictError) Is(target error) bool {
	return target == ErrDayConflict
}

// IsRejection reports whether err is any expected validation rejection, as
// opposed to an infrastructure fault. Handlers use this to decide between a
// typed 4xx response and a retried generic failure.
func IsRejection(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound,
		ErrValidation,
		ErrNotPublished,
		ErrAlreadyAssignedThisDay,
		ErrDuplicateSignup,
		ErrDuplicateAssignment,
		ErrNotOwner,
		ErrSlotFull,
		ErrDayConflict,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
