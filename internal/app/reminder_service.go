// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"internship_compliance_bot/internal/domain/compliance"
	"internship_compliance_bot/internal/domain/cycle"
	"internship_compliance_bot/internal/domain/recipient"
	"internship_compliance_bot/internal/domain/reminder"
	domainTelegram "internship_compliance_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// ReminderService defines the scheduled notification operations.
type ReminderService interface {
	// ProcessDailySweep evaluates every tracked internship and reminds
	// coordinators about obligations that are due soon or overdue. Each
	// obligation is reminded about once per stage.
	ProcessDailySweep(ctx context.Context) error
	// ProcessMonthlyDigest sends principals the institution-level rollup.
	ProcessMonthlyDigest(ctx context.Context) error
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	compliance     *ComplianceService
	recipientRepo  recipient.Repository
	reminderLog    reminder.Log
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
	nowFunc        func() time.Time
}

func NewReminderServiceImpl(
	cs *ComplianceService,
	rr recipient.Repository,
	rl reminder.Log,
	tc domainTelegram.Client,
	logger *logrus.Entry,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		compliance:     cs,
		recipientRepo:  rr,
		reminderLog:    rl,
		telegramClient: tc,
		logger:         logger,
		nowFunc:        time.Now,
	}
}

// ProcessDailySweep walks the fleet and delivers one reminder per open
// obligation and stage.
func (s *ReminderServiceImpl) ProcessDailySweep(ctx context.Context) error {
	s.logger.Info("Starting daily compliance sweep")

	evals, err := s.compliance.EvaluateAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to evaluate internships for sweep: %w", err)
	}

	coordinators, err := s.recipientRepo.ListActiveByRole(ctx, recipient.RoleCoordinator)
	if err != nil {
		return fmt.Errorf("failed to list coordinators: %w", err)
	}
	if len(coordinators) == 0 {
		s.logger.Warn("No active coordinators configured. Sweep will not send any reminders.")
		return nil
	}

	var sent int
	for i := range evals {
		ev := &evals[i]
		n, err := s.remindForEvaluation(ctx, ev, coordinators)
		sent += n
		if err != nil {
			s.logger.WithError(err).WithField("internship_id", ev.Internship.ID).Error("Sweep errors for internship")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"internships":    len(evals),
		"reminders_sent": sent,
	}).Info("Daily compliance sweep finished")
	return nil
}

// remindForEvaluation sends the overdue reminders for every uncovered due
// cycle, plus a due-soon reminder when the next due date is inside the lead
// window. Returns how many reminders were delivered.
func (s *ReminderServiceImpl) remindForEvaluation(ctx context.Context, ev *compliance.Evaluation, coordinators []*recipient.Recipient) (int, error) {
	var sent int
	var errs []string

	for _, cs := range ev.Cycles {
		if cs.MissingReport() {
			ok, err := s.sendObligationReminder(ctx, ev, cs.Cycle, reminder.KindReport, reminder.StageOverdue, coordinators)
			if err != nil {
				errs = append(errs, err.Error())
			} else if ok {
				sent++
			}
		}
		if cs.MissingVisit() {
			ok, err := s.sendObligationReminder(ctx, ev, cs.Cycle, reminder.KindVisit, reminder.StageOverdue, coordinators)
			if err != nil {
				errs = append(errs, err.Error())
			} else if ok {
				sent++
			}
		}
	}

	if next, withinLead := s.nextDueWithinLead(ev); withinLead {
		if !next.HasReport {
			ok, err := s.sendObligationReminder(ctx, ev, next.Cycle, reminder.KindReport, reminder.StageDueSoon, coordinators)
			if err != nil {
				errs = append(errs, err.Error())
			} else if ok {
				sent++
			}
		}
		if !next.HasVisit {
			ok, err := s.sendObligationReminder(ctx, ev, next.Cycle, reminder.KindVisit, reminder.StageDueSoon, coordinators)
			if err != nil {
				errs = append(errs, err.Error())
			} else if ok {
				sent++
			}
		}
	}

	if len(errs) > 0 {
		return sent, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return sent, nil
}

// nextDueWithinLead returns the status of the next due cycle when its due
// date falls inside the configured lead window.
func (s *ReminderServiceImpl) nextDueWithinLead(ev *compliance.Evaluation) (compliance.CycleStatus, bool) {
	if ev.NextDueIndex == 0 {
		return compliance.CycleStatus{}, false
	}
	lead := s.compliance.Policy().DueSoonLeadDays
	if lead <= 0 {
		lead = compliance.DefaultPolicy().DueSoonLeadDays
	}
	if ev.NextDueDate.After(ev.AsOf.AddDate(0, 0, lead)) {
		return compliance.CycleStatus{}, false
	}
	for _, cs := range ev.Cycles {
		if cs.Cycle.Index == ev.NextDueIndex {
			return cs, true
		}
	}
	return compliance.CycleStatus{}, false
}

// sendObligationReminder delivers one reminder to every coordinator and
// records it, unless the same obligation and stage was already reminded
// about. Returns true when a new reminder went out.
func (s *ReminderServiceImpl) sendObligationReminder(
	ctx context.Context,
	ev *compliance.Evaluation,
	c cycle.Cycle,
	kind reminder.Kind,
	stage reminder.Stage,
	coordinators []*recipient.Recipient,
) (bool, error) {
	already, err := s.reminderLog.WasSent(ctx, ev.Internship.ID, c.Index, kind, stage)
	if err != nil {
		return false, fmt.Errorf("failed to check reminder log for internship %d cycle %d: %w", ev.Internship.ID, c.Index, err)
	}
	if already {
		return false, nil
	}

	text := reminderText(ev, c, kind, stage)
	delivered := 0
	for _, coord := range coordinators {
		if err := s.telegramClient.SendMessage(coord.TelegramID, text, nil); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"recipient_telegram_id": coord.TelegramID,
				"internship_id":         ev.Internship.ID,
				"cycle_index":           c.Index,
			}).Error("Failed to deliver reminder")
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return false, fmt.Errorf("reminder for internship %d cycle %d %s reached no coordinators", ev.Internship.ID, c.Index, kind)
	}

	entry := &reminder.Entry{
		InternshipID: ev.Internship.ID,
		CycleIndex:   c.Index,
		Kind:         kind,
		Stage:        stage,
		SentAt:       s.nowFunc(),
	}
	if err := s.reminderLog.Record(ctx, entry); err != nil {
		// Delivered but not recorded: the next sweep may repeat this
		// reminder, which beats silently dropping it.
		return true, fmt.Errorf("failed to record reminder for internship %d cycle %d: %w", ev.Internship.ID, c.Index, err)
	}

	s.logger.WithFields(logrus.Fields{
		"internship_id": ev.Internship.ID,
		"cycle_index":   c.Index,
		"kind":          kind,
		"stage":         stage,
		"recipients":    delivered,
	}).Info("Reminder delivered")
	return true, nil
}

func reminderText(ev *compliance.Evaluation, c cycle.Cycle, kind reminder.Kind, stage reminder.Stage) string {
	what := "monthly report"
	if kind == reminder.KindVisit {
		what = "supervision visit"
	}
	period := fmt.Sprintf("%s to %s", c.PeriodStart.Format("2006-01-02"), c.PeriodEnd.Format("2006-01-02"))

	if stage == reminder.StageDueSoon {
		return fmt.Sprintf("Heads up: the %s for %s at %s (month %d, %s) is due by %s.",
			what, ev.Internship.StudentName, ev.Internship.Institution, c.Index, period, c.DueDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("Overdue: the %s for %s at %s (month %d, %s) was due on %s and is still missing.",
		what, ev.Internship.StudentName, ev.Internship.Institution, c.Index, period, c.DueDate.Format("2006-01-02"))
}

// ProcessMonthlyDigest composes the institution rollup and sends it to every
// active principal. The digest is periodic by design, so it is not deduped.
func (s *ReminderServiceImpl) ProcessMonthlyDigest(ctx context.Context) error {
	s.logger.Info("Preparing monthly compliance digest")

	principals, err := s.recipientRepo.ListActiveByRole(ctx, recipient.RolePrincipal)
	if err != nil {
		return fmt.Errorf("failed to list principals: %w", err)
	}
	if len(principals) == 0 {
		s.logger.Warn("No active principals configured. Digest will not be sent.")
		return nil
	}

	summaries, err := s.compliance.OverviewByInstitution(ctx)
	if err != nil {
		return fmt.Errorf("failed to build institution overview: %w", err)
	}

	text := digestText(summaries, s.nowFunc())
	delivered := 0
	for _, p := range principals {
		if err := s.telegramClient.SendMessage(p.TelegramID, text, nil); err != nil {
			s.logger.WithError(err).WithField("recipient_telegram_id", p.TelegramID).Error("Failed to deliver digest")
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("monthly digest reached no principals")
	}

	s.logger.WithField("recipients", delivered).Info("Monthly compliance digest delivered")
	return nil
}

func digestText(summaries []compliance.Summary, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Internship compliance digest for %s\n\n", now.Format("2006-01-02")))

	if len(summaries) == 0 {
		b.WriteString("No internships are being tracked yet.")
		return b.String()
	}

	for _, sum := range summaries {
		b.WriteString(fmt.Sprintf("%s: %d placements (%d critical, %d overdue, %d due soon, %d compliant). Missing %d reports and %d visits.\n",
			sum.Institution, sum.Internships, sum.Critical, sum.Overdue, sum.DueSoon, sum.Compliant,
			sum.MissingReports, sum.MissingVisits))
	}
	return b.String()
}
