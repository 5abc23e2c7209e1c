package app

import (
	"context"
	"database/sql"
	"fmt"

	"internship_compliance_bot/internal/domain/recipient"
	idb "internship_compliance_bot/internal/infra/database"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrRecipientAlreadyExists = fmt.Errorf("recipient with this Telegram ID already exists")
var ErrRecipientAlreadyInactive = fmt.Errorf("recipient is already inactive")
var ErrUnknownRole = fmt.Errorf("unknown recipient role")

// AdminService manages the notification recipient roster. Only the single
// configured admin may change it.
type AdminService struct {
	recipientRepo   recipient.Repository
	adminTelegramID int64
}

func NewAdminService(rr recipient.Repository, adminID int64) *AdminService {
	return &AdminService{
		recipientRepo:   rr,
		adminTelegramID: adminID,
	}
}

// AddRecipient registers a new notification recipient with the given role.
func (s *AdminService) AddRecipient(ctx context.Context, performingAdminID int64, telegramID int64, roleValue string, firstName string, lastNameValue string) (*recipient.Recipient, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	role, ok := recipient.ParseRole(roleValue)
	if !ok {
		return nil, ErrUnknownRole
	}

	_, err := s.recipientRepo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return nil, ErrRecipientAlreadyExists
	}
	if err != idb.ErrRecipientNotFound {
		return nil, fmt.Errorf("failed to check existing recipient: %w", err)
	}

	var lastName sql.NullString
	if lastNameValue != "" {
		lastName.String = lastNameValue
		lastName.Valid = true
	}

	newRecipient := &recipient.Recipient{
		TelegramID: telegramID,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       role,
		IsActive:   true,
	}

	err = s.recipientRepo.Create(ctx, newRecipient)
	if err != nil {
		if err == idb.ErrDuplicateTelegramID {
			return nil, ErrRecipientAlreadyExists
		}
		return nil, fmt.Errorf("failed to create recipient in repository: %w", err)
	}

	return newRecipient, nil
}

// RemoveRecipient deactivates a recipient; the row is kept for history.
func (s *AdminService) RemoveRecipient(ctx context.Context, performingAdminID int64, telegramID int64) (*recipient.Recipient, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.recipientRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if err == idb.ErrRecipientNotFound {
			return nil, idb.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to get recipient by Telegram ID for removal: %w", err)
	}

	if !target.IsActive {
		return target, ErrRecipientAlreadyInactive
	}

	target.IsActive = false
	err = s.recipientRepo.Update(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipient to inactive in repository: %w", err)
	}

	return target, nil
}

// ListActiveRecipients returns the recipients currently receiving
// notifications.
func (s *AdminService) ListActiveRecipients(ctx context.Context, performingAdminID int64) ([]*recipient.Recipient, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	list, err := s.recipientRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recipients: %w", err)
	}
	return list, nil
}

// ListAllRecipients returns every recipient, deactivated ones included.
func (s *AdminService) ListAllRecipients(ctx context.Context, performingAdminID int64) ([]*recipient.Recipient, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	list, err := s.recipientRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all recipients: %w", err)
	}
	return list, nil
}
