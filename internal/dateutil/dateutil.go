// Package dateutil implements the pure calendar arithmetic the schedule
// service is built on: shifting day-granular dates, measuring whole-day
// distances, and combining a date with a wall-clock time.
//
// All math is done in UTC. Gregorian calendar only; no timezone or DST
// handling — a day is always exactly 24 hours here, which is what the
// itinerary model wants (a day moving from Tuesday to Thursday keeps its
// items' clock times unchanged).
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/voyagecms/backend/internal/domain"
)

// DateLayout is the wire format for day-granular dates.
const DateLayout = "2006-01-02"

// AddDays returns t shifted by n calendar days. n may be negative.
// The time-of-day component of t is preserved.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DiffDays returns the signed number of whole days between a and b (a − b),
// comparing the calendar dates of both values in UTC. Time-of-day is ignored,
// so DiffDays never yields a fractional day truncation surprise:
// 2024-01-02T23:59 minus 2024-01-01T00:01 is exactly 1.
func DiffDays(a, b time.Time) int {
	return int(StartOfDay(a).Sub(StartOfDay(b)) / (24 * time.Hour))
}

// StartOfDay returns midnight UTC of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Combine returns a timestamp on date's calendar date at the given "HH:MM"
// wall-clock time. A malformed or out-of-range clock value is a caller error
// and reports domain.ErrInvalidDate.
func Combine(date time.Time, clock string) (time.Time, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: clock %q", domain.ErrInvalidDate, clock)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, fmt.Errorf("%w: clock %q", domain.ErrInvalidDate, clock)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return time.Time{}, fmt.Errorf("%w: clock %q", domain.ErrInvalidDate, clock)
	}

	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, hours, minutes, 0, 0, time.UTC), nil
}

// ParseDate parses a "YYYY-MM-DD" string into midnight UTC of that date.
// Reports domain.ErrInvalidDate for anything time.Parse rejects.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return t, nil
}

// Midpoint returns the instant halfway between a and b, floored to whole
// seconds so inserted items never carry sub-second start times.
func Midpoint(a, b time.Time) time.Time {
	return a.Add(b.Sub(a) / 2).Truncate(time.Second)
}
