package internship

import (
	"database/sql"
	"time"
)

// Status reflects the administrative state of an internship placement.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusCompleted  Status = "COMPLETED"
	StatusTerminated Status = "TERMINATED" // cut short; no further obligations tracked
)

// Internship represents one student placement at a host institution.
type Internship struct {
	ID          int64
	StudentName string
	Institution string       // host organization the student is placed at
	Supervisor  sql.NullString
	StartDate   time.Time
	EndDate     sql.NullTime // unset while the placement is open-ended
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EndOrZero returns the end date, or the zero time while the internship is
// open-ended. Schedule calculations treat the zero time as "no end yet".
func (i *Internship) EndOrZero() time.Time {
	if i.EndDate.Valid {
		return i.EndDate.Time
	}
	return time.Time{}
}

// Tracked reports whether the internship still participates in compliance
// monitoring. Terminated placements are kept for history but owe nothing.
func (i *Internship) Tracked() bool {
	return i.Status != StatusTerminated
}
