package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"internship_compliance_bot/internal/app"
	"internship_compliance_bot/internal/domain/recipient"
	idb "internship_compliance_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers registers handlers for admin commands.
// It requires the bot instance, admin service, and the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/add_recipient", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_recipient",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("You are not authorized to run this command.")
		}

		args := c.Args()
		// Expected format: /add_recipient <TelegramID> <Role> <FirstName> [LastName]
		if len(args) < 3 || len(args) > 4 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Invalid format. Use: /add_recipient <TelegramID> <coordinator|principal> <FirstName> [LastName]")
		}

		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Telegram ID must be a number.")
		}

		roleValue := args[1]
		firstName := args[2]
		if strings.TrimSpace(firstName) == "" {
			return c.Send("First name cannot be empty.")
		}

		var lastName string
		if len(args) == 4 {
			lastName = args[3]
		}

		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"recipient_telegram_id": telegramID,
			"role":                  roleValue,
			"first_name":            firstName,
			"last_name":             lastName,
		})

		newRecipient, err := adminService.AddRecipient(ctx, c.Sender().ID, telegramID, roleValue, firstName, lastName)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("You are not authorized to run this command.")
			case app.ErrUnknownRole:
				logWithError.Warn("Unknown role")
				return c.Send(fmt.Sprintf("Unknown role %q. Use 'coordinator' or 'principal'.", roleValue))
			case app.ErrRecipientAlreadyExists:
				logWithError.Warn("Recipient already exists")
				return c.Send(fmt.Sprintf("A recipient with Telegram ID %d already exists.", telegramID))
			default:
				logWithError.Error("Failed to add recipient")
				return c.Send(fmt.Sprintf("Failed to add recipient: %s", err.Error()))
			}
		}

		handlerLogger.WithField("new_recipient_id", newRecipient.ID).Info("Recipient added successfully")

		successMsg := fmt.Sprintf("Recipient %s (ID: %d, role: %s) added successfully.", newRecipient.FirstName, newRecipient.TelegramID, newRecipient.Role)
		if newRecipient.LastName.Valid {
			successMsg = fmt.Sprintf("Recipient %s %s (ID: %d, role: %s) added successfully.", newRecipient.FirstName, newRecipient.LastName.String, newRecipient.TelegramID, newRecipient.Role)
		}
		return c.Send(successMsg)
	})

	b.Handle("/remove_recipient", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_recipient",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("You are not authorized to run this command.")
		}

		args := c.Args()
		// Expected format: /remove_recipient <TelegramID>
		if len(args) != 1 {
			return c.Send("Invalid format. Use: /remove_recipient <TelegramID>")
		}

		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			handlerLogger.WithField("arg", args[0]).Warn("Invalid Telegram ID format")
			return c.Send("Telegram ID must be a number.")
		}
		handlerLogger = handlerLogger.WithField("recipient_telegram_id", telegramID)

		removed, err := adminService.RemoveRecipient(ctx, c.Sender().ID, telegramID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("You are not authorized to run this command.")
			case idb.ErrRecipientNotFound:
				logWithError.Warn("Recipient to remove not found")
				return c.Send(fmt.Sprintf("No recipient with Telegram ID %d was found.", telegramID))
			case app.ErrRecipientAlreadyInactive:
				logWithError.Warn("Recipient already inactive")
				if removed != nil {
					return c.Send(fmt.Sprintf("Recipient %s (ID: %d) was already deactivated.", displayName(removed), removed.TelegramID))
				}
				return c.Send(fmt.Sprintf("Recipient with Telegram ID %d was already deactivated.", telegramID))
			default:
				logWithError.Error("Failed to remove recipient")
				return c.Send(fmt.Sprintf("Failed to remove recipient: %s", err.Error()))
			}
		}

		handlerLogger.WithField("removed_recipient_id", removed.ID).Info("Recipient removed (deactivated) successfully")
		return c.Send(fmt.Sprintf("Recipient %s (ID: %d) deactivated successfully.", displayName(removed), removed.TelegramID))
	})

	b.Handle("/list_recipients", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list_recipients",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("You are not authorized to run this command.")
		}

		args := c.Args()
		// Optional argument: 'active' or 'all'
		listType := "active"
		if len(args) > 0 {
			listType = strings.ToLower(args[0])
		}
		handlerLogger = handlerLogger.WithField("list_type", listType)

		var recipients []*recipient.Recipient
		var err error
		var title string

		switch listType {
		case "active":
			title = "Active recipients"
			recipients, err = adminService.ListActiveRecipients(ctx, c.Sender().ID)
		case "all":
			title = "All recipients"
			recipients, err = adminService.ListAllRecipients(ctx, c.Sender().ID)
		default:
			handlerLogger.Warn("Invalid list type argument")
			return c.Send("Invalid argument. Use 'active', 'all', or leave it empty for active recipients.")
		}

		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if err == app.ErrAdminNotAuthorized {
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("You are not authorized to run this command.")
			}
			logWithError.Error("Failed to get list of recipients")
			return c.Send(fmt.Sprintf("Failed to list recipients: %s", err.Error()))
		}

		if len(recipients) == 0 {
			handlerLogger.Info("No recipients found for the specified list type")
			if listType == "active" {
				return c.Send("No active recipients found.")
			}
			return c.Send("The recipient list is empty.")
		}

		handlerLogger.WithField("recipients_count", len(recipients)).Info("Successfully retrieved recipient list")

		var response strings.Builder
		response.WriteString(fmt.Sprintf("--- %s ---\n", title))
		for _, rec := range recipients {
			status := "deactivated"
			if rec.IsActive {
				status = "active"
			}
			response.WriteString(fmt.Sprintf("ID: %d, Telegram ID: %d, Name: %s, Role: %s, Status: %s\n",
				rec.ID, rec.TelegramID, displayName(rec), rec.Role, status))
		}
		return c.Send(response.String())
	})
}

func displayName(rec *recipient.Recipient) string {
	if rec.LastName.Valid && rec.LastName.String != "" {
		return rec.FirstName + " " + rec.LastName.String
	}
	return rec.FirstName
}
