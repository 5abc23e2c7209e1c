// internal/domain/submission/repository.go
package submission

import (
	"context"
)

// Repository defines operations for MonthlyReport and FacultyVisit records.
type Repository interface {
	// MonthlyReport methods
	CreateReport(ctx context.Context, r *MonthlyReport) error
	GetReportByID(ctx context.Context, id int64) (*MonthlyReport, error)
	GetReportByCycle(ctx context.Context, internshipID int64, cycleIndex int) (*MonthlyReport, error)
	UpdateReport(ctx context.Context, r *MonthlyReport) error // status changes and resubmissions
	ListReportsByInternship(ctx context.Context, internshipID int64) ([]*MonthlyReport, error)

	// FacultyVisit methods
	CreateVisit(ctx context.Context, v *FacultyVisit) error
	ListVisitsByInternship(ctx context.Context, internshipID int64) ([]*FacultyVisit, error)

	// CoveredReportCycles returns the distinct cycle indexes of an internship
	// covered by a non-rejected report.
	CoveredReportCycles(ctx context.Context, internshipID int64) ([]int, error)
	// CoveredVisitCycles returns the distinct cycle indexes with at least one
	// recorded visit.
	CoveredVisitCycles(ctx context.Context, internshipID int64) ([]int, error)
}
