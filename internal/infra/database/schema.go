// internal/infra/database/schema.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSchema creates every table the monitor reads or writes. All
// statements are idempotent, so running it against a provisioned database
// is a no-op.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS recipients (
			id BIGSERIAL PRIMARY KEY,
			telegram_id BIGINT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT,
			role TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS internships (
			id BIGSERIAL PRIMARY KEY,
			student_name TEXT NOT NULL,
			institution TEXT NOT NULL,
			supervisor TEXT,
			start_date DATE,
			end_date DATE,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS monthly_reports (
			id BIGSERIAL PRIMARY KEY,
			internship_id BIGINT NOT NULL REFERENCES internships(id),
			cycle_index INT NOT NULL,
			status TEXT NOT NULL DEFAULT 'SUBMITTED',
			submitted_at TIMESTAMPTZ NOT NULL,
			summary TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS faculty_visits (
			id BIGSERIAL PRIMARY KEY,
			internship_id BIGINT NOT NULL REFERENCES internships(id),
			cycle_index INT NOT NULL,
			visited_at TIMESTAMPTZ NOT NULL,
			visitor_name TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reminder_log (
			id BIGSERIAL PRIMARY KEY,
			internship_id BIGINT NOT NULL REFERENCES internships(id),
			cycle_index INT NOT NULL,
			kind TEXT NOT NULL,
			stage TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL,
			UNIQUE (internship_id, cycle_index, kind, stage)
		)`,
		`CREATE TABLE IF NOT EXISTS compliance_runs (
			run_id UUID PRIMARY KEY,
			as_of DATE NOT NULL,
			tag TEXT,
			internships INT NOT NULL,
			compliant INT NOT NULL,
			due_soon INT NOT NULL,
			overdue INT NOT NULL,
			critical INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS compliance_snapshots (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES compliance_runs(run_id),
			internship_id BIGINT NOT NULL,
			student_name TEXT NOT NULL,
			institution TEXT NOT NULL,
			tier TEXT NOT NULL,
			reports_expected INT NOT NULL,
			reports_received INT NOT NULL,
			visits_expected INT NOT NULL,
			visits_received INT NOT NULL,
			next_due_date DATE
		)`,
		`CREATE TABLE IF NOT EXISTS compliance_institution_summary (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES compliance_runs(run_id),
			institution TEXT NOT NULL,
			internships INT NOT NULL,
			compliant INT NOT NULL,
			due_soon INT NOT NULL,
			overdue INT NOT NULL,
			critical INT NOT NULL,
			missing_reports INT NOT NULL,
			missing_visits INT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error ensuring schema: %w", err)
		}
	}
	return nil
}

// SeedDemo inserts a small demo fleet when the internships table is empty.
// Used by the audit CLI's --init-db so a fresh database produces a
// non-trivial report immediately.
func SeedDemo(ctx context.Context, db *sql.DB, asOf time.Time) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM internships`).Scan(&count); err != nil {
		return false, fmt.Errorf("error counting internships: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting seed transaction: %w", err)
	}

	type seedIntern struct {
		student     string
		institution string
		startOffset int // months before asOf
		reports     []int
		visits      []int
	}
	seeds := []seedIntern{
		{student: "Asha Verma", institution: "Precision Tools Ltd", startOffset: 4, reports: []int{1, 2, 3}, visits: []int{1, 2, 3}},
		{student: "Rahul Nair", institution: "Precision Tools Ltd", startOffset: 4, reports: []int{1}, visits: []int{1, 2}},
		{student: "Meena Pillai", institution: "Coastal Textiles", startOffset: 3, reports: []int{}, visits: []int{}},
		{student: "Vikram Singh", institution: "Coastal Textiles", startOffset: 2, reports: []int{1}, visits: []int{1}},
	}

	for _, s := range seeds {
		start := asOf.AddDate(0, -s.startOffset, 0)
		var internshipID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO internships (student_name, institution, start_date, status) VALUES ($1, $2, $3, 'ACTIVE') RETURNING id`,
			s.student, s.institution, start,
		).Scan(&internshipID)
		if err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("error seeding internship: %w", err)
		}
		for _, idx := range s.reports {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO monthly_reports (internship_id, cycle_index, status, submitted_at) VALUES ($1, $2, 'APPROVED', $3)`,
				internshipID, idx, start.AddDate(0, idx, 0),
			)
			if err != nil {
				_ = tx.Rollback()
				return false, fmt.Errorf("error seeding monthly report: %w", err)
			}
		}
		for _, idx := range s.visits {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO faculty_visits (internship_id, cycle_index, visited_at, visitor_name) VALUES ($1, $2, $3, 'Prof. Iyer')`,
				internshipID, idx, start.AddDate(0, idx, -3),
			)
			if err != nil {
				_ = tx.Rollback()
				return false, fmt.Errorf("error seeding faculty visit: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing seed transaction: %w", err)
	}
	return true, nil
}
