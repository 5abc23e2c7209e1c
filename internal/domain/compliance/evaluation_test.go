package compliance

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship_compliance_bot/internal/domain/cycle"
	"internship_compliance_bot/internal/domain/internship"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func placement(start, end time.Time) *internship.Internship {
	i := &internship.Internship{
		ID:          42,
		StudentName: "Amina Yusuf",
		Institution: "Riverside Clinic",
		StartDate:   start,
		Status:      internship.StatusActive,
	}
	if !end.IsZero() {
		i.EndDate = sql.NullTime{Time: end, Valid: true}
		i.Status = internship.StatusCompleted
	}
	return i
}

func TestEvaluateCompliant(t *testing.T) {
	intern := placement(d(2024, time.June, 1), time.Time{})

	ev, err := Evaluate(intern, []int{1, 2}, []int{1, 2}, d(2024, time.August, 15), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, TierCompliant, ev.Tier)
	assert.Equal(t, 2, ev.ReportsExpected)
	assert.Equal(t, 2, ev.ReportsReceived)
	assert.Equal(t, 2, ev.VisitsExpected)
	assert.Equal(t, 2, ev.VisitsReceived)
	assert.Zero(t, ev.TotalMissing())
	assert.Equal(t, d(2024, time.September, 5), ev.NextDueDate)
	assert.Equal(t, 3, ev.NextDueIndex)
	require.Len(t, ev.Cycles, 3)
	assert.False(t, ev.Cycles[2].Due, "current cycle is not due yet")
}

func TestEvaluateOverdue(t *testing.T) {
	intern := placement(d(2024, time.June, 1), time.Time{})

	ev, err := Evaluate(intern, []int{1}, []int{1, 2}, d(2024, time.August, 15), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, TierOverdue, ev.Tier)
	assert.Equal(t, 1, ev.MissingReports())
	assert.Zero(t, ev.MissingVisits())
	assert.True(t, ev.Cycles[1].MissingReport())
	assert.False(t, ev.Cycles[1].MissingVisit())
}

func TestEvaluateCritical(t *testing.T) {
	intern := placement(d(2024, time.June, 1), time.Time{})

	ev, err := Evaluate(intern, nil, nil, d(2024, time.August, 15), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, TierCritical, ev.Tier)
	assert.Equal(t, 2, ev.MissingReports())
	assert.Equal(t, 2, ev.MissingVisits())
	assert.Equal(t, 4, ev.TotalMissing())
}

func TestEvaluateDueSoon(t *testing.T) {
	intern := placement(d(2024, time.June, 1), time.Time{})

	t.Run("uncovered cycle inside the lead window", func(t *testing.T) {
		ev, err := Evaluate(intern, []int{1, 2}, []int{1, 2}, d(2024, time.August, 30), DefaultPolicy())
		require.NoError(t, err)
		assert.Equal(t, TierDueSoon, ev.Tier, "cycle 3 is due Sep 5")
	})

	t.Run("early submissions clear the warning", func(t *testing.T) {
		ev, err := Evaluate(intern, []int{1, 2, 3}, []int{1, 2, 3}, d(2024, time.August, 30), DefaultPolicy())
		require.NoError(t, err)
		assert.Equal(t, TierCompliant, ev.Tier)
	})

	t.Run("outside the lead window", func(t *testing.T) {
		ev, err := Evaluate(intern, []int{1, 2}, []int{1, 2}, d(2024, time.August, 20), DefaultPolicy())
		require.NoError(t, err)
		assert.Equal(t, TierCompliant, ev.Tier, "Sep 5 is 16 days out")
	})
}

func TestEvaluateEarlySubmissionNeverMasksAGap(t *testing.T) {
	intern := placement(d(2024, time.June, 1), time.Time{})

	// Report filed for the current, not-yet-due cycle while the first two
	// months are still open.
	ev, err := Evaluate(intern, []int{3}, nil, d(2024, time.August, 15), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 2, ev.ReportsExpected)
	assert.Zero(t, ev.ReportsReceived)
	assert.Equal(t, 2, ev.MissingReports())
	assert.True(t, ev.Cycles[2].HasReport, "the early report still shows on its cycle")
	assert.False(t, ev.Cycles[2].Due)
}

func TestEvaluateFutureStart(t *testing.T) {
	intern := placement(d(2024, time.September, 1), time.Time{})

	ev, err := Evaluate(intern, nil, nil, d(2024, time.August, 15), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, TierCompliant, ev.Tier)
	assert.Empty(t, ev.Cycles)
	assert.Zero(t, ev.ReportsExpected)
	assert.True(t, ev.NextDueDate.IsZero())
}

func TestEvaluateUnscheduled(t *testing.T) {
	intern := placement(time.Time{}, time.Time{})

	ev, err := Evaluate(intern, nil, nil, d(2024, time.August, 15), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, TierCompliant, ev.Tier)
	assert.Empty(t, ev.Cycles)
}

func TestEvaluateZeroAsOf(t *testing.T) {
	intern := placement(d(2024, time.June, 1), time.Time{})

	_, err := Evaluate(intern, nil, nil, time.Time{}, DefaultPolicy())
	assert.ErrorIs(t, err, cycle.ErrInvalidAsOf)
}

func TestEvaluateFinishedInternship(t *testing.T) {
	intern := placement(d(2024, time.January, 15), d(2024, time.July, 14))

	ev, err := Evaluate(intern, []int{1, 2, 3, 4, 5}, []int{1, 2, 3, 4, 5, 6}, d(2024, time.September, 1), DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 6, ev.ReportsExpected, "all six cycles are due by September")
	assert.Equal(t, 5, ev.ReportsReceived)
	assert.Equal(t, 1, ev.MissingReports())
	assert.Zero(t, ev.MissingVisits())
	assert.Equal(t, TierOverdue, ev.Tier)
	assert.True(t, ev.NextDueDate.IsZero(), "every due date is already behind us")
}

func TestEvaluateExpectedMatchesDueCount(t *testing.T) {
	testcases := []struct {
		name  string
		start time.Time
		end   time.Time
		asOf  time.Time
	}{
		{name: "ongoing", start: d(2024, time.June, 1), asOf: d(2024, time.August, 15)},
		{name: "finished", start: d(2024, time.January, 15), end: d(2024, time.July, 14), asOf: d(2024, time.September, 1)},
		{name: "month end anchor", start: d(2024, time.January, 31), asOf: d(2024, time.May, 7)},
	}
	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			intern := placement(tt.start, tt.end)
			ev, err := Evaluate(intern, nil, nil, tt.asOf, DefaultPolicy())
			require.NoError(t, err)

			want, err := cycle.DueCountAsOf(tt.start, tt.end, tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, want, ev.ReportsExpected)
			assert.Equal(t, want, ev.VisitsExpected)
		})
	}
}

func TestEvaluatePolicyThresholds(t *testing.T) {
	intern := placement(d(2024, time.January, 1), time.Time{})

	// Seven cycles due by Aug 15; cover everything except reports 6 and 7.
	reports := []int{1, 2, 3, 4, 5}
	visits := []int{1, 2, 3, 4, 5, 6, 7}

	strict := Policy{DueSoonLeadDays: 7, CriticalMissing: 2}
	ev, err := Evaluate(intern, reports, visits, d(2024, time.August, 15), strict)
	require.NoError(t, err)
	assert.Equal(t, TierCritical, ev.Tier)

	lenient := Policy{DueSoonLeadDays: 7, CriticalMissing: 5}
	ev, err = Evaluate(intern, reports, visits, d(2024, time.August, 15), lenient)
	require.NoError(t, err)
	assert.Equal(t, TierOverdue, ev.Tier)
}

func TestSummarize(t *testing.T) {
	mk := func(institution string, tier Tier, missingReports int) Evaluation {
		return Evaluation{
			Internship: &internship.Internship{
				StudentName: "s",
				Institution: institution,
			},
			ReportsExpected: missingReports,
			Tier:            tier,
		}
	}

	evals := []Evaluation{
		mk("Harbor Labs", TierCompliant, 0),
		mk("Harbor Labs", TierDueSoon, 0),
		mk("Riverside Clinic", TierCritical, 3),
		mk("Riverside Clinic", TierOverdue, 1),
		mk("Riverside Clinic", TierCompliant, 0),
	}

	summaries := Summarize(evals)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, "Riverside Clinic", first.Institution, "worst institution goes first")
	assert.Equal(t, 3, first.Internships)
	assert.Equal(t, 1, first.Critical)
	assert.Equal(t, 1, first.Overdue)
	assert.Equal(t, 1, first.Compliant)
	assert.Equal(t, 4, first.MissingReports)

	second := summaries[1]
	assert.Equal(t, "Harbor Labs", second.Institution)
	assert.Equal(t, 1, second.DueSoon)
	assert.Zero(t, second.Critical)
}

func TestSortWorstFirst(t *testing.T) {
	evals := []Evaluation{
		{Internship: &internship.Internship{StudentName: "Cara"}, Tier: TierCompliant},
		{Internship: &internship.Internship{StudentName: "Ben"}, Tier: TierCritical, ReportsExpected: 2},
		{Internship: &internship.Internship{StudentName: "Abel"}, Tier: TierOverdue, ReportsExpected: 1},
		{Internship: &internship.Internship{StudentName: "Anna"}, Tier: TierCritical, ReportsExpected: 4},
	}

	SortWorstFirst(evals)

	got := make([]string, len(evals))
	for i, ev := range evals {
		got[i] = ev.Internship.StudentName
	}
	assert.Equal(t, []string{"Anna", "Ben", "Abel", "Cara"}, got)
}

func TestCompletionPercent(t *testing.T) {
	assert.Equal(t, 0.0, CompletionPercent(0, 0), "brand-new schedule reads zero, not NaN")
	assert.Equal(t, 100.0, CompletionPercent(3, 3))
	assert.Equal(t, 50.0, CompletionPercent(1, 2))
	assert.Equal(t, 66.7, CompletionPercent(2, 3))
}

func TestTierRank(t *testing.T) {
	assert.Greater(t, TierCritical.Rank(), TierOverdue.Rank())
	assert.Greater(t, TierOverdue.Rank(), TierDueSoon.Rank())
	assert.Greater(t, TierDueSoon.Rank(), TierCompliant.Rank())
}
