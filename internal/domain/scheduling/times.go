package scheduling

import (
	"fmt"
	"time"
)

// Times is an immutable half-open time interval [Start, End).
// An instant t belongs to the interval when Start <= t < End.
type Times struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimes creates a Times interval. End must be strictly after Start.
func NewTimes(start, end time.Time) (Times, error) {
	if !end.After(start) {
		return Times{}, fmt.Errorf("interval end %s must be after start %s", end, start)
	}
	return Times{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect.
// Intervals that merely touch (one ends where the other starts) do not overlap.
func (t Times) Overlaps(other Times) bool {
	return t.Start.Before(other.End) && t.End.After(other.Start)
}

// Intersects reports whether the interval intersects [from, to).
func (t Times) Intersects(from, to time.Time) bool {
	return t.Start.Before(to) && t.End.After(from)
}

// Duration returns the length of the interval.
func (t Times) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// String formats the interval for logs and error messages.
func (t Times) String() string {
	return fmt.Sprintf("[%s, %s)", t.Start.Format(time.RFC3339), t.End.Format(time.RFC3339))
}

// DayOf truncates an instant to midnight in its own location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Days returns each calendar day the interval spans, oldest first.
// An interval ending exactly at midnight does not spill into the next day:
// the last spanned day is the day containing End-1ns.
func (t Times) Days() []time.Time {
	first := DayOf(t.Start)
	last := DayOf(t.End.Add(-time.Nanosecond))
	var days []time.Time
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
