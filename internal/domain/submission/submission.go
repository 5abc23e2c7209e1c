// internal/domain/submission/submission.go
package submission

import (
	"database/sql"
	"time"
)

// ReportStatus represents the review state of a submitted monthly report.
type ReportStatus string

const (
	ReportStatusSubmitted ReportStatus = "SUBMITTED"
	ReportStatusApproved  ReportStatus = "APPROVED"
	ReportStatusRejected  ReportStatus = "REJECTED" // must be resubmitted; does not count toward compliance
)

// Counts reports whether a report in this status satisfies the cycle it
// covers. Rejected reports leave the cycle uncovered until resubmission.
func (s ReportStatus) Counts() bool {
	return s == ReportStatusSubmitted || s == ReportStatusApproved
}

// MonthlyReport is one student progress report covering a single monthly
// cycle of an internship. CycleIndex ties it to the derived schedule.
type MonthlyReport struct {
	ID           int64
	InternshipID int64
	CycleIndex   int // 1-based cycle the report covers
	Status       ReportStatus
	SubmittedAt  time.Time
	Summary      sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FacultyVisit is one supervision visit to the internship site. Visits
// follow the same monthly cadence as reports.
type FacultyVisit struct {
	ID           int64
	InternshipID int64
	CycleIndex   int
	VisitedAt    time.Time
	VisitorName  string
	Notes        sql.NullString
	CreatedAt    time.Time
}
