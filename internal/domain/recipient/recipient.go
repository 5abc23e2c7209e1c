package recipient

import (
	"database/sql"
	"strings"
	"time"
)

// Role determines which notifications a recipient receives.
type Role string

const (
	// RoleCoordinator receives the day-to-day due-soon and overdue reminders.
	RoleCoordinator Role = "COORDINATOR"
	// RolePrincipal receives the periodic institution-level digest.
	RolePrincipal Role = "PRINCIPAL"
)

// ParseRole normalizes a user-supplied role name.
func ParseRole(value string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(value))); r {
	case RoleCoordinator, RolePrincipal:
		return r, true
	}
	return "", false
}

// Recipient represents a staff member who receives compliance notifications.
type Recipient struct {
	ID         int64
	TelegramID int64
	FirstName  string
	LastName   sql.NullString // To handle optional last name
	Role       Role
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
