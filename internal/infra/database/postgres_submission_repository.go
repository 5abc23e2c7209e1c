package database

import (
	"context"
	"database/sql"
	"fmt"

	"internship_compliance_bot/internal/domain/submission"
)

var ErrReportNotFound = fmt.Errorf("monthly report not found")

type PostgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

func (r *PostgresSubmissionRepository) CreateReport(ctx context.Context, rep *submission.MonthlyReport) error {
	query := `INSERT INTO monthly_reports (internship_id, cycle_index, status, submitted_at, summary)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rep.InternshipID, rep.CycleIndex, rep.Status, rep.SubmittedAt, rep.Summary).
		Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating monthly report: %w", err)
	}
	return nil
}

func (r *PostgresSubmissionRepository) GetReportByID(ctx context.Context, id int64) (*submission.MonthlyReport, error) {
	query := `SELECT id, internship_id, cycle_index, status, submitted_at, summary, created_at, updated_at
               FROM monthly_reports WHERE id = $1`
	return r.getReport(ctx, query, id)
}

func (r *PostgresSubmissionRepository) GetReportByCycle(ctx context.Context, internshipID int64, cycleIndex int) (*submission.MonthlyReport, error) {
	query := `SELECT id, internship_id, cycle_index, status, submitted_at, summary, created_at, updated_at
               FROM monthly_reports WHERE internship_id = $1 AND cycle_index = $2
               ORDER BY submitted_at DESC LIMIT 1`
	return r.getReport(ctx, query, internshipID, cycleIndex)
}

func (r *PostgresSubmissionRepository) getReport(ctx context.Context, query string, args ...any) (*submission.MonthlyReport, error) {
	rep := &submission.MonthlyReport{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rep.ID, &rep.InternshipID, &rep.CycleIndex, &rep.Status, &rep.SubmittedAt, &rep.Summary, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("error getting monthly report: %w", err)
	}
	return rep, nil
}

func (r *PostgresSubmissionRepository) UpdateReport(ctx context.Context, rep *submission.MonthlyReport) error {
	query := `UPDATE monthly_reports
               SET status = $1, submitted_at = $2, summary = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, rep.Status, rep.SubmittedAt, rep.Summary, rep.ID).Scan(&rep.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrReportNotFound
		}
		return fmt.Errorf("error updating monthly report: %w", err)
	}
	return nil
}

func (r *PostgresSubmissionRepository) ListReportsByInternship(ctx context.Context, internshipID int64) ([]*submission.MonthlyReport, error) {
	query := `SELECT id, internship_id, cycle_index, status, submitted_at, summary, created_at, updated_at
               FROM monthly_reports WHERE internship_id = $1 ORDER BY cycle_index, submitted_at`

	rows, err := r.db.QueryContext(ctx, query, internshipID)
	if err != nil {
		return nil, fmt.Errorf("error listing monthly reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*submission.MonthlyReport, 0)
	for rows.Next() {
		rep := &submission.MonthlyReport{}
		if err := rows.Scan(&rep.ID, &rep.InternshipID, &rep.CycleIndex, &rep.Status, &rep.SubmittedAt, &rep.Summary, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning monthly report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly reports: %w", err)
	}
	return reports, nil
}

func (r *PostgresSubmissionRepository) CreateVisit(ctx context.Context, v *submission.FacultyVisit) error {
	query := `INSERT INTO faculty_visits (internship_id, cycle_index, visited_at, visitor_name, notes)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, v.InternshipID, v.CycleIndex, v.VisitedAt, v.VisitorName, v.Notes).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating faculty visit: %w", err)
	}
	return nil
}

func (r *PostgresSubmissionRepository) ListVisitsByInternship(ctx context.Context, internshipID int64) ([]*submission.FacultyVisit, error) {
	query := `SELECT id, internship_id, cycle_index, visited_at, visitor_name, notes, created_at
               FROM faculty_visits WHERE internship_id = $1 ORDER BY cycle_index, visited_at`

	rows, err := r.db.QueryContext(ctx, query, internshipID)
	if err != nil {
		return nil, fmt.Errorf("error listing faculty visits: %w", err)
	}
	defer rows.Close()

	visits := make([]*submission.FacultyVisit, 0)
	for rows.Next() {
		v := &submission.FacultyVisit{}
		if err := rows.Scan(&v.ID, &v.InternshipID, &v.CycleIndex, &v.VisitedAt, &v.VisitorName, &v.Notes, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning faculty visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faculty visits: %w", err)
	}
	return visits, nil
}

// CoveredReportCycles returns the distinct cycle indexes covered by a
// non-rejected report. Rejected reports leave their cycle uncovered.
func (r *PostgresSubmissionRepository) CoveredReportCycles(ctx context.Context, internshipID int64) ([]int, error) {
	query := `SELECT DISTINCT cycle_index FROM monthly_reports
               WHERE internship_id = $1 AND status <> $2
               ORDER BY cycle_index`
	return r.cycleIndexes(ctx, query, internshipID, submission.ReportStatusRejected)
}

// CoveredVisitCycles returns the distinct cycle indexes with at least one
// recorded visit.
func (r *PostgresSubmissionRepository) CoveredVisitCycles(ctx context.Context, internshipID int64) ([]int, error) {
	query := `SELECT DISTINCT cycle_index FROM faculty_visits
               WHERE internship_id = $1
               ORDER BY cycle_index`
	return r.cycleIndexes(ctx, query, internshipID)
}

func (r *PostgresSubmissionRepository) cycleIndexes(ctx context.Context, query string, args ...any) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing covered cycles: %w", err)
	}
	defer rows.Close()

	indexes := make([]int, 0)
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("error scanning cycle index: %w", err)
		}
		indexes = append(indexes, idx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycle indexes: %w", err)
	}
	return indexes, nil
}
