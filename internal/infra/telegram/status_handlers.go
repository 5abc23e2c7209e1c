// internal/infra/telegram/status_handlers.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"internship_compliance_bot/internal/app"
	"internship_compliance_bot/internal/domain/compliance"
	"internship_compliance_bot/internal/domain/recipient"
	idb "internship_compliance_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const statusListLimit = 10

// RegisterStatusHandlers wires the compliance query surface: /status lists
// the placements most behind schedule with a detail button each, /overview
// shows the institution rollup, and the callback handler answers the detail
// buttons with a per-month breakdown.
func RegisterStatusHandlers(
	ctx context.Context,
	b *telebot.Bot,
	complianceService *app.ComplianceService,
	recipientRepo recipient.Repository,
	adminTelegramID int64,
	baseLogger *logrus.Entry,
) {
	statusLogger := baseLogger.WithField("handler_group", "status")

	authorized := func(senderID int64) (bool, recipient.Role) {
		if senderID == adminTelegramID {
			return true, recipient.RolePrincipal // admin sees everything
		}
		rec, err := recipientRepo.GetByTelegramID(ctx, senderID)
		if err != nil {
			if err != idb.ErrRecipientNotFound {
				statusLogger.WithError(err).WithField("sender_id", senderID).Error("Error checking recipient status")
			}
			return false, ""
		}
		if !rec.IsActive {
			return false, ""
		}
		return true, rec.Role
	}

	b.Handle("/status", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := statusLogger.WithField("command", "/status").WithField("sender_id", senderID)
		logCtx.Info("Processing /status command")

		ok, _ := authorized(senderID)
		if !ok {
			logCtx.Warn("Unauthorized /status attempt")
			return c.Send("You are not authorized to view compliance status.")
		}

		evals, err := complianceService.EvaluateAll(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to evaluate internships")
			return c.Send("Something went wrong while evaluating internships. Please try again later.")
		}
		if len(evals) == 0 {
			return c.Send("No internships are being tracked yet.")
		}

		shown := evals
		if len(shown) > statusListLimit {
			shown = shown[:statusListLimit]
		}

		var text strings.Builder
		text.WriteString(fmt.Sprintf("Placements most behind schedule (%d of %d tracked):\n\n", len(shown), len(evals)))
		markup := &telebot.ReplyMarkup{}
		var rows [][]telebot.InlineButton
		for i := range shown {
			ev := &shown[i]
			text.WriteString(fmt.Sprintf("%d. %s at %s: %s, %d reports and %d visits missing\n",
				i+1, ev.Internship.StudentName, ev.Internship.Institution,
				tierLabel(ev.Tier), ev.MissingReports(), ev.MissingVisits()))
			rows = append(rows, []telebot.InlineButton{{
				Text: fmt.Sprintf("Details: %s", ev.Internship.StudentName),
				Data: fmt.Sprintf("detail_%d", ev.Internship.ID),
			}})
		}
		markup.InlineKeyboard = rows

		logCtx.WithField("evaluated", len(evals)).Info("Status list sent")
		return c.Send(text.String(), markup)
	})

	b.Handle("/overview", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := statusLogger.WithField("command", "/overview").WithField("sender_id", senderID)
		logCtx.Info("Processing /overview command")

		ok, role := authorized(senderID)
		if !ok || role != recipient.RolePrincipal {
			logCtx.Warn("Unauthorized /overview attempt")
			return c.Send("The overview is available to principals and the administrator only.")
		}

		summaries, err := complianceService.OverviewByInstitution(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to build institution overview")
			return c.Send("Something went wrong while building the overview. Please try again later.")
		}
		if len(summaries) == 0 {
			return c.Send("No internships are being tracked yet.")
		}

		var text strings.Builder
		text.WriteString("Institution compliance overview:\n\n")
		for _, sum := range summaries {
			text.WriteString(fmt.Sprintf("%s: %d placements (%d critical, %d overdue, %d due soon, %d compliant). Missing %d reports and %d visits.\n",
				sum.Institution, sum.Internships, sum.Critical, sum.Overdue, sum.DueSoon, sum.Compliant,
				sum.MissingReports, sum.MissingVisits))
		}
		return c.Send(text.String())
	})

	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := strings.TrimPrefix(c.Callback().Data, "\f")

		if !strings.HasPrefix(data, "detail_") {
			statusLogger.WithField("data", data).Warn("Unhandled callback data")
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
		}

		ok, _ := authorized(c.Sender().ID)
		if !ok {
			return c.Respond(&telebot.CallbackResponse{Text: "Not authorized."})
		}

		idStr := strings.TrimPrefix(data, "detail_")
		internshipID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			statusLogger.WithField("data", data).Warn("Invalid internship ID in callback")
			return c.Respond(&telebot.CallbackResponse{Text: "Invalid placement reference."})
		}

		ev, err := complianceService.EvaluateInternship(ctx, internshipID)
		if err != nil {
			statusLogger.WithError(err).WithField("internship_id", internshipID).Error("Failed to evaluate internship for detail callback")
			return c.Respond(&telebot.CallbackResponse{Text: "Failed to load details."})
		}

		if err := c.Send(detailText(&ev)); err != nil {
			return err
		}
		return c.Respond()
	})
}

func detailText(ev *compliance.Evaluation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s at %s — %s as of %s\n",
		ev.Internship.StudentName, ev.Internship.Institution, tierLabel(ev.Tier), ev.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Reports: %d of %d due. Visits: %d of %d due.\n",
		ev.ReportsReceived, ev.ReportsExpected, ev.VisitsReceived, ev.VisitsExpected))
	if !ev.NextDueDate.IsZero() {
		b.WriteString(fmt.Sprintf("Next due date: %s (month %d)\n", ev.NextDueDate.Format("2006-01-02"), ev.NextDueIndex))
	}

	if len(ev.Cycles) == 0 {
		b.WriteString("\nNo monthly cycles have started yet.")
		return b.String()
	}

	b.WriteString("\nMonth by month:\n")
	for _, cs := range ev.Cycles {
		report := mark(cs.HasReport, cs.Due)
		visit := mark(cs.HasVisit, cs.Due)
		b.WriteString(fmt.Sprintf("%d. %s to %s (due %s): report %s, visit %s\n",
			cs.Cycle.Index,
			cs.Cycle.PeriodStart.Format("2006-01-02"),
			cs.Cycle.PeriodEnd.Format("2006-01-02"),
			cs.Cycle.DueDate.Format("2006-01-02"),
			report, visit))
	}
	return b.String()
}

func mark(covered, due bool) string {
	switch {
	case covered:
		return "received"
	case due:
		return "MISSING"
	default:
		return "not due yet"
	}
}

func tierLabel(t compliance.Tier) string {
	switch t {
	case compliance.TierCritical:
		return "critical"
	case compliance.TierOverdue:
		return "overdue"
	case compliance.TierDueSoon:
		return "due soon"
	default:
		return "compliant"
	}
}
