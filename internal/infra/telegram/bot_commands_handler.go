// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	"internship_compliance_bot/internal/domain/recipient"
	"internship_compliance_bot/internal/infra/config"
	idb "internship_compliance_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	cfg *config.AppConfig, // for AdminTelegramID
	recipientRepo recipient.Repository,
	baseLogger *logrus.Entry,
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Hello, administrator %s. Use /help for the list of commands.", c.Sender().FirstName))
		}

		rec, err := recipientRepo.GetByTelegramID(ctx, senderID)
		if err == nil {
			if rec.IsActive {
				logCtx.WithField("recipient_id", rec.ID).Info("User identified as active recipient")
				switch rec.Role {
				case recipient.RolePrincipal:
					return c.Send(fmt.Sprintf("Hello, %s. You will receive the monthly institution compliance digest here. Use /overview any time for the current rollup.", rec.FirstName))
				default:
					return c.Send(fmt.Sprintf("Hello, %s. I track monthly internship reports and supervision visits and will remind you here when something is due or missing. Use /status for the current picture.", rec.FirstName))
				}
			}
			logCtx.WithField("recipient_id", rec.ID).Info("User identified as inactive recipient")
			return c.Send("Your account is deactivated. Please contact the administrator.")
		} else if err != idb.ErrRecipientNotFound {
			logCtx.WithError(err).Error("Error checking recipient status for /start command")
			return c.Send("Something went wrong while checking your status. Please try again later.")
		}

		logCtx.Info("User is unknown")
		return c.Send("Hello. This bot tracks internship reporting compliance for registered staff. If you expect access, ask the administrator to add you.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin, sending admin help.")
			var helpText strings.Builder
			helpText.WriteString("Administrator commands:\n\n")
			helpText.WriteString("`/add_recipient <TelegramID> <coordinator|principal> <FirstName> [LastName]`\n - Register a notification recipient.\n\n")
			helpText.WriteString("`/remove_recipient <TelegramID>`\n - Deactivate a recipient (they stop receiving notifications).\n\n")
			helpText.WriteString("`/list_recipients [active|all]`\n - Show recipients. Defaults to active ones.\n\n")
			helpText.WriteString("`/status`\n - Show the placements most behind schedule.\n\n")
			helpText.WriteString("`/overview`\n - Show the institution-level rollup.\n\n")
			helpText.WriteString("`/help`\n - Show this message.")
			return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}

		rec, err := recipientRepo.GetByTelegramID(ctx, senderID)
		if err == nil {
			if rec.IsActive {
				logCtx.WithField("recipient_id", rec.ID).Info("User identified as active recipient, sending help.")
				var helpText strings.Builder
				helpText.WriteString("I watch every tracked internship's monthly schedule: each month of a placement owes one student report and one supervision visit, due by the 5th of the following month.\n\n")
				helpText.WriteString("`/status` - Placements most behind schedule, with per-month detail buttons.\n")
				if rec.Role == recipient.RolePrincipal {
					helpText.WriteString("`/overview` - Institution-level compliance rollup.\n")
				}
				helpText.WriteString("`/help` - Show this message.")
				return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
			}
			logCtx.WithField("recipient_id", rec.ID).Info("User identified as inactive recipient, sending restricted help.")
			return c.Send("Your account is deactivated. Contact the administrator to restore access.")
		} else if err != idb.ErrRecipientNotFound {
			logCtx.WithError(err).Error("Error checking recipient status for /help command")
			return c.Send("Something went wrong while checking your status. Please try again later.")
		}

		logCtx.Info("User is unknown, sending restricted help.")
		return c.Send("No commands are available for you. If you are internship staff, ask the administrator to add you.")
	})
}
