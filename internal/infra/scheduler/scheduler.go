package scheduler

import (
	"context"
	"time"

	"internship_compliance_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ComplianceScheduler drives the periodic jobs: the daily reminder sweep
// and the monthly principal digest. The digest job should fire after the
// monthly due day has passed, so every obligation of the finished month is
// already countable.
type ComplianceScheduler struct {
	cronEngine      *cron.Cron
	reminderService app.ReminderService
	logger          *logrus.Entry
	cronSpecSweep   string
	cronSpecDigest  string
}

func NewComplianceScheduler(
	rs app.ReminderService,
	logger *logrus.Entry,
	cronSpecSweep string, // e.g. "0 9 * * *" (9:00 AM daily)
	cronSpecDigest string, // e.g. "0 10 6 * *" (10:00 AM on the 6th)
) *ComplianceScheduler {
	return &ComplianceScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)), // server's local time
		reminderService: rs,
		logger:          logger,
		cronSpecSweep:   cronSpecSweep,
		cronSpecDigest:  cronSpecDigest,
	}
}

func (s *ComplianceScheduler) Start() error {
	s.logger.Info("Starting compliance scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpecSweep, func() {
		s.logger.Info("Cron job triggered for daily compliance sweep")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.reminderService.ProcessDailySweep(ctx); err != nil {
			s.logger.WithError(err).Error("Daily compliance sweep failed")
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecDigest, func() {
		s.logger.Info("Cron job triggered for monthly compliance digest")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.reminderService.ProcessMonthlyDigest(ctx); err != nil {
			s.logger.WithError(err).Error("Monthly compliance digest failed")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{
		"sweep_spec":  s.cronSpecSweep,
		"digest_spec": s.cronSpecDigest,
	}).Info("Compliance scheduler started with jobs")
	return nil
}

func (s *ComplianceScheduler) Stop() {
	s.logger.Info("Stopping compliance scheduler")
	ctx := s.cronEngine.Stop() // no new jobs; wait for running ones
	<-ctx.Done()
	s.logger.Info("Compliance scheduler gracefully stopped")
}
