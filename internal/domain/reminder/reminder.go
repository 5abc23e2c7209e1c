// internal/domain/reminder/reminder.go
package reminder

import (
	"context"
	"time"
)

// Kind identifies which obligation a reminder concerns.
type Kind string

const (
	KindReport Kind = "REPORT"
	KindVisit  Kind = "VISIT"
)

// Stage identifies how far past the schedule the obligation is.
type Stage string

const (
	StageDueSoon Stage = "DUE_SOON" // due date approaching within the lead window
	StageOverdue Stage = "OVERDUE"  // due date passed with the cycle still uncovered
)

// Entry records one reminder that was delivered, keyed by the obligation it
// covered. One entry per (internship, cycle, kind, stage) keeps a sweep that
// runs daily from repeating itself.
type Entry struct {
	ID           int64
	InternshipID int64
	CycleIndex   int
	Kind         Kind
	Stage        Stage
	SentAt       time.Time
}

// Log is the persistence interface for delivered reminders.
type Log interface {
	Record(ctx context.Context, e *Entry) error
	WasSent(ctx context.Context, internshipID int64, cycleIndex int, kind Kind, stage Stage) (bool, error)
	ListByInternship(ctx context.Context, internshipID int64) ([]*Entry, error)
}
