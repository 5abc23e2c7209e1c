// internal/infra/database/snapshot_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"internship_compliance_bot/internal/domain/compliance"

	"github.com/google/uuid"
)

// SnapshotStore persists the outcome of one audit pass: a run row plus one
// snapshot per internship and one summary per institution, all under a
// single generated run id. Each run is immutable once written.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// StoreRun writes the evaluations and summaries of one audit pass in a
// single transaction and returns the run id.
func (s *SnapshotStore) StoreRun(ctx context.Context, asOf time.Time, tag string, evals []compliance.Evaluation, summaries []compliance.Summary) (string, error) {
	runID := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("error starting snapshot transaction: %w", err)
	}

	var compliant, dueSoon, overdue, critical int
	for i := range evals {
		switch evals[i].Tier {
		case compliance.TierCritical:
			critical++
		case compliance.TierOverdue:
			overdue++
		case compliance.TierDueSoon:
			dueSoon++
		default:
			compliant++
		}
	}

	var tagValue sql.NullString
	if tag != "" {
		tagValue = sql.NullString{String: tag, Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO compliance_runs (run_id, as_of, tag, internships, compliant, due_soon, overdue, critical)
          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		runID, asOf, tagValue, len(evals), compliant, dueSoon, overdue, critical,
	)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("error inserting compliance run: %w", err)
	}

	for i := range evals {
		ev := &evals[i]
		var nextDue any
		if !ev.NextDueDate.IsZero() {
			nextDue = ev.NextDueDate
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO compliance_snapshots
              (id, run_id, internship_id, student_name, institution, tier,
               reports_expected, reports_received, visits_expected, visits_received, next_due_date)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.New(), runID, ev.Internship.ID, ev.Internship.StudentName, ev.Internship.Institution, ev.Tier,
			ev.ReportsExpected, ev.ReportsReceived, ev.VisitsExpected, ev.VisitsReceived, nextDue,
		)
		if err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("error inserting compliance snapshot: %w", err)
		}
	}

	for _, sum := range summaries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO compliance_institution_summary
              (id, run_id, institution, internships, compliant, due_soon, overdue, critical, missing_reports, missing_visits)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.New(), runID, sum.Institution, sum.Internships, sum.Compliant, sum.DueSoon, sum.Overdue, sum.Critical,
			sum.MissingReports, sum.MissingVisits,
		)
		if err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("error inserting institution summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("error committing snapshot transaction: %w", err)
	}
	return runID.String(), nil
}
