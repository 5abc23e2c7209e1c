// internal/domain/cycle/cycle.go
package cycle

import (
	"fmt"
	"time"
)

// DueDay is the day of the month on which the report/visit for a finished
// cycle falls due, counted in the month immediately following the cycle's
// period end. Keeping it as a single named constant means a future
// per-program offset is a one-line change.
const DueDay = 5

// Validation errors. A zero time.Time is never silently coerced to "today"
// or to an empty range.
var (
	ErrInvalidStart = fmt.Errorf("cycle: start date is not a valid date")
	ErrInvalidEnd   = fmt.Errorf("cycle: end date is not a valid date")
	ErrInvalidAsOf  = fmt.Errorf("cycle: as-of date is not a valid date")
)

// Cycle is one monthly reporting period within an internship. It is a
// derived value, regenerated on every query from the internship's start and
// end dates, and is never persisted.
type Cycle struct {
	Index       int       // 1-based position within the internship
	PeriodStart time.Time // first day the cycle covers
	PeriodEnd   time.Time // last day the cycle covers, truncated to the internship end
	DueDate     time.Time // DueDay of the month after PeriodEnd
}

// Contains reports whether the given date falls inside the cycle's period,
// boundaries included.
func (c Cycle) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(c.PeriodStart) && !d.After(c.PeriodEnd)
}

// DateOnly normalizes a timestamp to the civil date it names, at midnight
// UTC, so wall-clock and timezone noise never leaks into cycle arithmetic.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in the given month. Day zero of the
// following month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsAnchored steps n calendar months forward from start, keeping the
// start's day-of-month as the anchor and clamping to the last day of shorter
// months: Jan 31 steps to Feb 28 (29 in leap years) and back to Mar 31.
// Each step is computed from the original anchor, not from the previous
// clamped value, so the day-of-month recovers after short months.
func addMonthsAnchored(start time.Time, n int) time.Time {
	y, m, d := start.Date()
	months := int(m) - 1 + n
	y += months / 12
	m = time.Month(months%12 + 1)
	if last := daysIn(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dueDateFor returns the due date for a cycle ending on periodEnd: the
// DueDay of the immediately following month. Always strictly after
// periodEnd, since periodEnd can be no later than the last day of its month.
func dueDateFor(periodEnd time.Time) time.Time {
	y, m, _ := periodEnd.Date()
	return time.Date(y, m+1, DueDay, 0, 0, 0, 0, time.UTC)
}
