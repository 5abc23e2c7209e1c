package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"internship_compliance_bot/internal/domain/recipient"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrRecipientNotFound = fmt.Errorf("recipient not found")
var ErrDuplicateTelegramID = fmt.Errorf("recipient with this Telegram ID already exists")

type PostgresRecipientRepository struct {
	db *sql.DB
}

func NewPostgresRecipientRepository(db *sql.DB) *PostgresRecipientRepository {
	return &PostgresRecipientRepository{db: db}
}

func (r *PostgresRecipientRepository) Create(ctx context.Context, rec *recipient.Recipient) error {
	query := `INSERT INTO recipients (telegram_id, first_name, last_name, role, is_active)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rec.TelegramID, rec.FirstName, rec.LastName, rec.Role, rec.IsActive).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "recipients_telegram_id_key") {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating recipient: %w", err)
	}
	return nil
}

func (r *PostgresRecipientRepository) GetByID(ctx context.Context, id int64) (*recipient.Recipient, error) {
	query := `SELECT id, telegram_id, first_name, last_name, role, is_active, created_at, updated_at
               FROM recipients WHERE id = $1`
	rec := &recipient.Recipient{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.TelegramID, &rec.FirstName, &rec.LastName, &rec.Role, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("error getting recipient by ID: %w", err)
	}
	return rec, nil
}

func (r *PostgresRecipientRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*recipient.Recipient, error) {
	query := `SELECT id, telegram_id, first_name, last_name, role, is_active, created_at, updated_at
               FROM recipients WHERE telegram_id = $1`
	rec := &recipient.Recipient{}
	err := r.db.QueryRowContext(ctx, query, telegramID).
		Scan(&rec.ID, &rec.TelegramID, &rec.FirstName, &rec.LastName, &rec.Role, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("error getting recipient by Telegram ID: %w", err)
	}
	return rec, nil
}

func (r *PostgresRecipientRepository) Update(ctx context.Context, rec *recipient.Recipient) error {
	query := `UPDATE recipients
               SET first_name = $1, last_name = $2, role = $3, is_active = $4, updated_at = NOW()
               WHERE id = $5
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, rec.FirstName, rec.LastName, rec.Role, rec.IsActive, rec.ID).
		Scan(&rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRecipientNotFound
		}
		return fmt.Errorf("error updating recipient: %w", err)
	}
	return nil
}

func (r *PostgresRecipientRepository) ListActive(ctx context.Context) ([]*recipient.Recipient, error) {
	query := `SELECT id, telegram_id, first_name, last_name, role, is_active, created_at, updated_at
               FROM recipients WHERE is_active = TRUE ORDER BY first_name, last_name`
	return r.list(ctx, query)
}

func (r *PostgresRecipientRepository) ListActiveByRole(ctx context.Context, role recipient.Role) ([]*recipient.Recipient, error) {
	query := `SELECT id, telegram_id, first_name, last_name, role, is_active, created_at, updated_at
               FROM recipients WHERE is_active = TRUE AND role = $1 ORDER BY first_name, last_name`
	return r.list(ctx, query, role)
}

func (r *PostgresRecipientRepository) ListAll(ctx context.Context) ([]*recipient.Recipient, error) {
	query := `SELECT id, telegram_id, first_name, last_name, role, is_active, created_at, updated_at
               FROM recipients ORDER BY id`
	return r.list(ctx, query)
}

func (r *PostgresRecipientRepository) list(ctx context.Context, query string, args ...any) ([]*recipient.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]*recipient.Recipient, 0)
	for rows.Next() {
		rec := &recipient.Recipient{}
		if err := rows.Scan(&rec.ID, &rec.TelegramID, &rec.FirstName, &rec.LastName, &rec.Role, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning recipient: %w", err)
		}
		recipients = append(recipients, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipients: %w", err)
	}
	return recipients, nil
}
