// Package analytics holds the dashboard and report arithmetic. Every
// function is pure: callers load the records, these functions filter and
// sum them.
package analytics

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is inclusive on both ends. A zero Start or End leaves that side
// open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange widens start to 00:00 and end to 23:59:59.999 of their own
// calendar days, in the location each carries.
func NewDateRange(start, end time.Time) DateRange {
	var r DateRange
	if !start.IsZero() {
		r.Start = startOfDay(start)
	}
	if !end.IsZero() {
		r.End = startOfDay(end).AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return r
}

// ParseDateRange reads YYYY-MM-DD bounds in loc. Empty strings stay open.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	var s, e time.Time
	var err error

	if start != "" {
		if s, err = time.ParseInLocation(dateLayout, start, loc); err != nil {
			return DateRange{}, fmt.Errorf("invalid startDate %q: %w", start, err)
		}
	}
	if end != "" {
		if e, err = time.ParseInLocation(dateLayout, end, loc); err != nil {
			return DateRange{}, fmt.Errorf("invalid endDate %q: %w", end, err)
		}
	}
	if !s.IsZero() && !e.IsZero() && e.Before(s) {
		return DateRange{}, fmt.Errorf("endDate %s is before startDate %s", end, start)
	}

	return NewDateRange(s, e), nil
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
