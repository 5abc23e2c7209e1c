// internal/domain/cycle/schedule.go
package cycle

import "time"

// ExpectedMonths derives the full monthly cycle schedule for an internship
// running from start to end, both inclusive. Period starts are anchored to
// the start's day-of-month and clamped in shorter months; each period ends
// the day before the next one begins, and the final period is truncated to
// the internship end date.
//
// A cycle exists for every month the internship touches, however briefly: a
// single extra day past an anchor opens a new cycle, and even a same-day
// internship yields one. That is a deliberate policy, not arithmetic — a
// partial month still obligates a report and a visit.
//
// The schedule is empty when end precedes start. A zero start or end is an
// error, never an empty schedule.
func ExpectedMonths(start, end time.Time) ([]Cycle, error) {
	if start.IsZero() {
		return nil, ErrInvalidStart
	}
	if end.IsZero() {
		return nil, ErrInvalidEnd
	}

	s := DateOnly(start)
	e := DateOnly(end)
	if e.Before(s) {
		return nil, nil
	}

	var cycles []Cycle
	for i := 0; ; i++ {
		periodStart := addMonthsAnchored(s, i)
		if periodStart.After(e) {
			break
		}
		periodEnd := addMonthsAnchored(s, i+1).AddDate(0, 0, -1)
		if periodEnd.After(e) {
			periodEnd = e
		}
		cycles = append(cycles, Cycle{
			Index:       i + 1,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			DueDate:     dueDateFor(periodEnd),
		})
	}
	return cycles, nil
}

// TotalExpected returns the number of monthly cycles the internship will
// have produced by the time it completes.
func TotalExpected(start, end time.Time) (int, error) {
	cycles, err := ExpectedMonths(start, end)
	if err != nil {
		return 0, err
	}
	return len(cycles), nil
}

// DueCountAsOf returns how many cycle obligations have fallen due on or
// before asOf. The schedule is capped at asOf for open-ended internships
// (zero end), so months that have not arrived yet contribute nothing; an
// explicit end earlier than asOf caps it instead. A cycle counts once its
// due date has been reached, boundary inclusive.
//
// Reports and visits follow the same monthly cadence, so one count serves
// both.
//
// An internship with a zero start has no schedule yet and owes nothing.
func DueCountAsOf(start, end, asOf time.Time) (int, error) {
	if asOf.IsZero() {
		return 0, ErrInvalidAsOf
	}
	if start.IsZero() {
		return 0, nil
	}

	today := DateOnly(asOf)
	horizon := today
	if !end.IsZero() {
		if e := DateOnly(end); e.Before(horizon) {
			horizon = e
		}
	}

	cycles, err := ExpectedMonths(start, horizon)
	if err != nil {
		return 0, err
	}

	due := 0
	for _, c := range cycles {
		if !c.DueDate.After(today) {
			due++
		}
	}
	return due, nil
}

// ReportsExpectedAsOf returns how many monthly reports have fallen due on
// or before asOf.
func ReportsExpectedAsOf(start, end, asOf time.Time) (int, error) {
	return DueCountAsOf(start, end, asOf)
}

// VisitsExpectedAsOf returns how many supervision visits have fallen due on
// or before asOf. Always equal to ReportsExpectedAsOf for the same inputs.
func VisitsExpectedAsOf(start, end, asOf time.Time) (int, error) {
	return DueCountAsOf(start, end, asOf)
}

// NextDue returns the earliest cycle whose due date is on or after asOf,
// over the same asOf-capped schedule DueCountAsOf uses. The boolean is
// false when nothing is pending: the internship has not started, starts in
// the future, or every obligation is already behind asOf.
func NextDue(start, end, asOf time.Time) (Cycle, bool, error) {
	if asOf.IsZero() {
		return Cycle{}, false, ErrInvalidAsOf
	}
	if start.IsZero() {
		return Cycle{}, false, nil
	}

	today := DateOnly(asOf)
	horizon := today
	if !end.IsZero() {
		if e := DateOnly(end); e.Before(horizon) {
			horizon = e
		}
	}

	cycles, err := ExpectedMonths(start, horizon)
	if err != nil {
		return Cycle{}, false, err
	}
	for _, c := range cycles {
		if !c.DueDate.Before(today) {
			return c, true, nil
		}
	}
	return Cycle{}, false, nil
}
