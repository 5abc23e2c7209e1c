package database

import (
	"context"
	"database/sql"
	"fmt"

	"internship_compliance_bot/internal/domain/internship"
)

var ErrInternshipNotFound = fmt.Errorf("internship not found")

const internshipColumns = `id, student_name, institution, supervisor, start_date, end_date, status, created_at, updated_at`

type PostgresInternshipRepository struct {
	db *sql.DB
}

func NewPostgresInternshipRepository(db *sql.DB) *PostgresInternshipRepository {
	return &PostgresInternshipRepository{db: db}
}

func (r *PostgresInternshipRepository) Create(ctx context.Context, i *internship.Internship) error {
	query := `INSERT INTO internships (student_name, institution, supervisor, start_date, end_date, status)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at, updated_at`

	var start any
	if !i.StartDate.IsZero() {
		start = i.StartDate
	}
	err := r.db.QueryRowContext(ctx, query, i.StudentName, i.Institution, i.Supervisor, start, i.EndDate, i.Status).
		Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating internship: %w", err)
	}
	return nil
}

func (r *PostgresInternshipRepository) GetByID(ctx context.Context, id int64) (*internship.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE id = $1`
	i, err := scanInternship(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInternshipNotFound
		}
		return nil, fmt.Errorf("error getting internship by ID: %w", err)
	}
	return i, nil
}

func (r *PostgresInternshipRepository) Update(ctx context.Context, i *internship.Internship) error {
	query := `UPDATE internships
               SET student_name = $1, institution = $2, supervisor = $3,
                   start_date = $4, end_date = $5, status = $6, updated_at = NOW()
               WHERE id = $7
               RETURNING updated_at`

	var start any
	if !i.StartDate.IsZero() {
		start = i.StartDate
	}
	err := r.db.QueryRowContext(ctx, query, i.StudentName, i.Institution, i.Supervisor, start, i.EndDate, i.Status, i.ID).
		Scan(&i.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrInternshipNotFound
		}
		return fmt.Errorf("error updating internship: %w", err)
	}
	return nil
}

func (r *PostgresInternshipRepository) ListActive(ctx context.Context) ([]*internship.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE status = $1 ORDER BY institution, student_name`
	return r.list(ctx, query, internship.StatusActive)
}

func (r *PostgresInternshipRepository) ListTracked(ctx context.Context) ([]*internship.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE status <> $1 ORDER BY institution, student_name`
	return r.list(ctx, query, internship.StatusTerminated)
}

func (r *PostgresInternshipRepository) ListAll(ctx context.Context) ([]*internship.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships ORDER BY id`
	return r.list(ctx, query)
}

func (r *PostgresInternshipRepository) list(ctx context.Context, query string, args ...any) ([]*internship.Internship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing internships: %w", err)
	}
	defer rows.Close()

	internships := make([]*internship.Internship, 0)
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning internship: %w", err)
		}
		internships = append(internships, i)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating internships: %w", err)
	}
	return internships, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanInternship maps a row onto the entity. A NULL start_date scans into
// the zero time, which the schedule layer treats as "not scheduled yet".
func scanInternship(row rowScanner) (*internship.Internship, error) {
	i := &internship.Internship{}
	var start sql.NullTime
	err := row.Scan(&i.ID, &i.StudentName, &i.Institution, &i.Supervisor, &start, &i.EndDate, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		i.StartDate = start.Time
	}
	return i, nil
}
