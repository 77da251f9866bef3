package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a delivery weekday, Monday through Friday.
// Values follow ISO-8601 numbering (Monday = 1) so they can be stored
// directly as smallint and compared for presentation ordering.
type Weekday int

const (
	Monday    Weekday = 1
	Tuesday   Weekday = 2
	Wednesday Weekday = 3
	Thursday  Weekday = 4
	Friday    Weekday = 5
)

// Weekdays lists all delivery weekdays in presentation order (Monday first).
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// Valid reports whether d is one of Monday..Friday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

// String returns the lowercase English name, or "invalid" for out-of-range values.
func (d Weekday) String() string {
	switch d {
	case Monday:
		return "monday"
	case Tuesday:
		return "tuesday"
	case Wednesday:
		return "wednesday"
	case Thursday:
		return "thursday"
	case Friday:
		return "friday"
	}
	return "invalid"
}

// ParseWeekday converts a case-insensitive English weekday name into a Weekday.
// Saturday and Sunday are rejected — routes only run Monday through Friday.
func ParseWeekday(s string) (Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday":
		return Monday, nil
	case "tuesday":
		return Tuesday, nil
	case "wednesday":
		return Wednesday, nil
	case "thursday":
		return Thursday, nil
	case "friday":
		return Friday, nil
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrValidation, s)
}

// WeekdayOf returns the Weekday for a calendar date.
// Saturday and Sunday map to invalid values; callers check Valid.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Weekday(7)
	}
	return Weekday(int(wd))
}
