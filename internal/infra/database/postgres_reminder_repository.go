// internal/infra/database/postgres_reminder_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"internship_compliance_bot/internal/domain/reminder"
)

// PostgresReminderLog persists delivered reminders so the daily sweep never
// repeats itself for the same obligation and stage.
type PostgresReminderLog struct {
	db *sql.DB
}

func NewPostgresReminderLog(db *sql.DB) *PostgresReminderLog {
	return &PostgresReminderLog{db: db}
}

func (r *PostgresReminderLog) Record(ctx context.Context, e *reminder.Entry) error {
	query := `INSERT INTO reminder_log (internship_id, cycle_index, kind, stage, sent_at)
               VALUES ($1, $2, $3, $4, $5)
               ON CONFLICT (internship_id, cycle_index, kind, stage) DO UPDATE SET sent_at = EXCLUDED.sent_at
               RETURNING id`

	err := r.db.QueryRowContext(ctx, query, e.InternshipID, e.CycleIndex, e.Kind, e.Stage, e.SentAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("error recording reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderLog) WasSent(ctx context.Context, internshipID int64, cycleIndex int, kind reminder.Kind, stage reminder.Stage) (bool, error) {
	query := `SELECT EXISTS (
                 SELECT 1 FROM reminder_log
                 WHERE internship_id = $1 AND cycle_index = $2 AND kind = $3 AND stage = $4
               )`

	var sent bool
	err := r.db.QueryRowContext(ctx, query, internshipID, cycleIndex, kind, stage).Scan(&sent)
	if err != nil {
		return false, fmt.Errorf("error checking reminder log: %w", err)
	}
	return sent, nil
}

func (r *PostgresReminderLog) ListByInternship(ctx context.Context, internshipID int64) ([]*reminder.Entry, error) {
	query := `SELECT id, internship_id, cycle_index, kind, stage, sent_at
               FROM reminder_log WHERE internship_id = $1
               ORDER BY cycle_index, kind, stage`

	rows, err := r.db.QueryContext(ctx, query, internshipID)
	if err != nil {
		return nil, fmt.Errorf("error listing reminders: %w", err)
	}
	defer rows.Close()

	entries := make([]*reminder.Entry, 0)
	for rows.Next() {
		e := &reminder.Entry{}
		if err := rows.Scan(&e.ID, &e.InternshipID, &e.CycleIndex, &e.Kind, &e.Stage, &e.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning reminder entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder entries: %w", err)
	}
	return entries, nil
}
