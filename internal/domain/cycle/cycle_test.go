package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsAnchored(t *testing.T) {
	testcases := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{name: "plain step", start: d(2024, time.January, 15), n: 1, want: d(2024, time.February, 15)},
		{name: "zero months", start: d(2024, time.January, 15), n: 0, want: d(2024, time.January, 15)},
		{name: "clamp to leap february", start: d(2024, time.January, 31), n: 1, want: d(2024, time.February, 29)},
		{name: "clamp to short february", start: d(2023, time.January, 31), n: 1, want: d(2023, time.February, 28)},
		{name: "anchor recovers after clamp", start: d(2024, time.January, 31), n: 2, want: d(2024, time.March, 31)},
		{name: "clamp in thirty day month", start: d(2024, time.March, 31), n: 1, want: d(2024, time.April, 30)},
		{name: "year rollover", start: d(2024, time.November, 30), n: 2, want: d(2025, time.January, 30)},
		{name: "many months keep anchor day", start: d(2024, time.January, 31), n: 12, want: d(2025, time.January, 31)},
	}
	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addMonthsAnchored(tt.start, tt.n))
		})
	}
}

func TestDueDateFor(t *testing.T) {
	testcases := []struct {
		name      string
		periodEnd time.Time
		want      time.Time
	}{
		{name: "mid year", periodEnd: d(2024, time.February, 14), want: d(2024, time.March, 5)},
		{name: "month end", periodEnd: d(2024, time.June, 30), want: d(2024, time.July, 5)},
		{name: "december rolls into next year", periodEnd: d(2024, time.December, 20), want: d(2025, time.January, 5)},
	}
	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dueDateFor(tt.periodEnd))
		})
	}
}

func TestCycleContains(t *testing.T) {
	c := Cycle{
		Index:       2,
		PeriodStart: d(2024, time.February, 15),
		PeriodEnd:   d(2024, time.March, 14),
		DueDate:     d(2024, time.April, 5),
	}

	assert.True(t, c.Contains(d(2024, time.February, 15)), "period start is inside")
	assert.True(t, c.Contains(d(2024, time.March, 14)), "period end is inside")
	assert.True(t, c.Contains(d(2024, time.March, 1)))
	assert.False(t, c.Contains(d(2024, time.February, 14)))
	assert.False(t, c.Contains(d(2024, time.March, 15)))

	withClock := time.Date(2024, time.March, 14, 23, 59, 59, 0, time.FixedZone("UTC+3", 3*3600))
	assert.True(t, c.Contains(withClock), "wall clock and zone are ignored")
}

func TestDateOnlyNormalizes(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	stamped := time.Date(2024, time.June, 1, 18, 30, 12, 999, loc)
	assert.Equal(t, d(2024, time.June, 1), DateOnly(stamped))
}
