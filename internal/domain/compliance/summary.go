// internal/domain/compliance/summary.go
package compliance

import (
	"math"
	"sort"
)

// Summary aggregates the evaluations of one host institution's placements.
type Summary struct {
	Institution    string
	Internships    int
	Compliant      int
	DueSoon        int
	Overdue        int
	Critical       int
	MissingReports int
	MissingVisits  int
}

// Summarize rolls per-internship evaluations up by host institution,
// ordered worst first.
func Summarize(evals []Evaluation) []Summary {
	buckets := make(map[string]*Summary)
	for i := range evals {
		ev := &evals[i]
		name := ev.Internship.Institution
		s, ok := buckets[name]
		if !ok {
			s = &Summary{Institution: name}
			buckets[name] = s
		}
		s.Internships++
		switch ev.Tier {
		case TierCritical:
			s.Critical++
		case TierOverdue:
			s.Overdue++
		case TierDueSoon:
			s.DueSoon++
		default:
			s.Compliant++
		}
		s.MissingReports += ev.MissingReports()
		s.MissingVisits += ev.MissingVisits()
	}

	out := make([]Summary, 0, len(buckets))
	for _, s := range buckets {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Critical != out[j].Critical {
			return out[i].Critical > out[j].Critical
		}
		if out[i].Overdue != out[j].Overdue {
			return out[i].Overdue > out[j].Overdue
		}
		if mi, mj := out[i].MissingReports+out[i].MissingVisits, out[j].MissingReports+out[j].MissingVisits; mi != mj {
			return mi > mj
		}
		return out[i].Institution < out[j].Institution
	})
	return out
}

// SortWorstFirst orders evaluations most severe first for display.
func SortWorstFirst(evals []Evaluation) {
	sort.SliceStable(evals, func(i, j int) bool {
		if ri, rj := evals[i].Tier.Rank(), evals[j].Tier.Rank(); ri != rj {
			return ri > rj
		}
		if mi, mj := evals[i].TotalMissing(), evals[j].TotalMissing(); mi != mj {
			return mi > mj
		}
		return evals[i].Internship.StudentName < evals[j].Internship.StudentName
	})
}

// CompletionPercent returns received as a share of expected, rounded to one
// decimal. The denominator floors at one: that is a deliberate policy so a
// schedule with nothing due yet reads 0% instead of dividing by zero.
func CompletionPercent(received, expected int) float64 {
	if expected < 1 {
		expected = 1
	}
	return round1(float64(received) * 100 / float64(expected))
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
