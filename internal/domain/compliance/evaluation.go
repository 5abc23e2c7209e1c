// internal/domain/compliance/evaluation.go
package compliance

import (
	"time"

	"internship_compliance_bot/internal/domain/cycle"
	"internship_compliance_bot/internal/domain/internship"
)

// Tier buckets an internship by how far behind its reporting schedule it is.
type Tier string

const (
	TierCompliant Tier = "COMPLIANT"
	TierDueSoon   Tier = "DUE_SOON"
	TierOverdue   Tier = "OVERDUE"
	TierCritical  Tier = "CRITICAL"
)

// Rank orders tiers by severity; higher is worse.
func (t Tier) Rank() int {
	switch t {
	case TierCritical:
		return 3
	case TierOverdue:
		return 2
	case TierDueSoon:
		return 1
	default:
		return 0
	}
}

// Policy carries the thresholds that turn raw schedule math into tiers.
// Zero fields fall back to the defaults.
type Policy struct {
	DueSoonLeadDays int // days before a due date during which it counts as due soon
	CriticalMissing int // missing obligations at which an internship becomes critical
}

const (
	defaultDueSoonLeadDays = 7
	defaultCriticalMissing = 3
)

// DefaultPolicy returns the thresholds used when configuration is silent.
func DefaultPolicy() Policy {
	return Policy{
		DueSoonLeadDays: defaultDueSoonLeadDays,
		CriticalMissing: defaultCriticalMissing,
	}
}

func (p Policy) normalized() Policy {
	if p.DueSoonLeadDays <= 0 {
		p.DueSoonLeadDays = defaultDueSoonLeadDays
	}
	if p.CriticalMissing <= 0 {
		p.CriticalMissing = defaultCriticalMissing
	}
	return p
}

// CycleStatus pairs one schedule cycle with what has arrived for it.
type CycleStatus struct {
	Cycle     cycle.Cycle
	Due       bool // the cycle's due date has been reached
	HasReport bool
	HasVisit  bool
}

// MissingReport reports whether the cycle owes a report right now.
func (cs CycleStatus) MissingReport() bool { return cs.Due && !cs.HasReport }

// MissingVisit reports whether the cycle owes a visit right now.
func (cs CycleStatus) MissingVisit() bool { return cs.Due && !cs.HasVisit }

// Evaluation is the compliance position of one internship at a point in
// time. Expected counts cover only cycles whose due date has been reached;
// received counts cover only those same cycles, so early submissions never
// mask a gap elsewhere.
type Evaluation struct {
	Internship      *internship.Internship
	AsOf            time.Time
	Cycles          []CycleStatus
	ReportsExpected int
	ReportsReceived int
	VisitsExpected  int
	VisitsReceived  int
	NextDueDate     time.Time // zero when nothing is pending
	NextDueIndex    int       // zero when nothing is pending
	Tier            Tier
}

func (e *Evaluation) MissingReports() int { return e.ReportsExpected - e.ReportsReceived }

func (e *Evaluation) MissingVisits() int { return e.VisitsExpected - e.VisitsReceived }

// TotalMissing is the count of obligations past due and still uncovered.
func (e *Evaluation) TotalMissing() int { return e.MissingReports() + e.MissingVisits() }

// Evaluate derives the compliance position of an internship as of a date.
// reportCycles and visitCycles list the cycle indexes already covered by an
// accepted report or a recorded visit. An internship without a start date,
// or one that starts in the future, owes nothing and evaluates compliant.
func Evaluate(intern *internship.Internship, reportCycles, visitCycles []int, asOf time.Time, p Policy) (Evaluation, error) {
	if asOf.IsZero() {
		return Evaluation{}, cycle.ErrInvalidAsOf
	}
	p = p.normalized()

	ev := Evaluation{
		Internship: intern,
		AsOf:       cycle.DateOnly(asOf),
		Tier:       TierCompliant,
	}
	if intern.StartDate.IsZero() {
		return ev, nil
	}

	reportSet := make(map[int]bool, len(reportCycles))
	for _, idx := range reportCycles {
		reportSet[idx] = true
	}
	visitSet := make(map[int]bool, len(visitCycles))
	for _, idx := range visitCycles {
		visitSet[idx] = true
	}

	today := ev.AsOf
	horizon := today
	if end := intern.EndOrZero(); !end.IsZero() {
		if e := cycle.DateOnly(end); e.Before(horizon) {
			horizon = e
		}
	}

	cycles, err := cycle.ExpectedMonths(intern.StartDate, horizon)
	if err != nil {
		return Evaluation{}, err
	}

	for _, c := range cycles {
		cs := CycleStatus{
			Cycle:     c,
			Due:       !c.DueDate.After(today),
			HasReport: reportSet[c.Index],
			HasVisit:  visitSet[c.Index],
		}
		ev.Cycles = append(ev.Cycles, cs)
		if !cs.Due {
			continue
		}
		ev.ReportsExpected++
		ev.VisitsExpected++
		if cs.HasReport {
			ev.ReportsReceived++
		}
		if cs.HasVisit {
			ev.VisitsReceived++
		}
	}

	next, ok, err := cycle.NextDue(intern.StartDate, intern.EndOrZero(), asOf)
	if err != nil {
		return Evaluation{}, err
	}
	if ok {
		ev.NextDueDate = next.DueDate
		ev.NextDueIndex = next.Index
	}

	switch {
	case ev.TotalMissing() >= p.CriticalMissing:
		ev.Tier = TierCritical
	case ev.TotalMissing() > 0:
		ev.Tier = TierOverdue
	case ev.pendingWithin(today, p.DueSoonLeadDays):
		ev.Tier = TierDueSoon
	}
	return ev, nil
}

// pendingWithin reports whether the next due cycle still needs anything and
// its due date falls within leadDays of today.
func (e *Evaluation) pendingWithin(today time.Time, leadDays int) bool {
	if e.NextDueIndex == 0 {
		return false
	}
	if e.NextDueDate.After(today.AddDate(0, 0, leadDays)) {
		return false
	}
	for _, cs := range e.Cycles {
		if cs.Cycle.Index == e.NextDueIndex {
			return !cs.HasReport || !cs.HasVisit
		}
	}
	return true
}
