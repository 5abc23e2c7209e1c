// internal/app/compliance_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"internship_compliance_bot/internal/domain/compliance"
	"internship_compliance_bot/internal/domain/cycle"
	"internship_compliance_bot/internal/domain/internship"
	"internship_compliance_bot/internal/domain/submission"

	"github.com/sirupsen/logrus"
)

// ComplianceService answers schedule and compliance questions for
// internships: how many monthly cycles a placement spans, how many
// obligations have fallen due so far, and how each placement stands against
// them.
type ComplianceService struct {
	internshipRepo internship.Repository
	submissionRepo submission.Repository
	logger         *logrus.Entry
	policy         compliance.Policy
	nowFunc        func() time.Time
}

func NewComplianceService(
	ir internship.Repository,
	sr submission.Repository,
	logger *logrus.Entry,
	policy compliance.Policy,
) *ComplianceService {
	return NewComplianceServiceWithClock(ir, sr, logger, policy, time.Now)
}

// NewComplianceServiceWithClock pins the service clock. Tests and the audit
// tool use it to evaluate the fleet as of an arbitrary date.
func NewComplianceServiceWithClock(
	ir internship.Repository,
	sr submission.Repository,
	logger *logrus.Entry,
	policy compliance.Policy,
	now func() time.Time,
) *ComplianceService {
	return &ComplianceService{
		internshipRepo: ir,
		submissionRepo: sr,
		logger:         logger,
		policy:         policy,
		nowFunc:        now,
	}
}

// Policy returns the tiering thresholds the service evaluates with.
func (s *ComplianceService) Policy() compliance.Policy {
	return s.policy
}

// ExpectedSchedule returns the monthly cycle schedule for an internship.
// Open-ended placements are counted through today; placements without a
// start date have no schedule yet.
func (s *ComplianceService) ExpectedSchedule(ctx context.Context, internshipID int64) ([]cycle.Cycle, error) {
	intern, err := s.internshipRepo.GetByID(ctx, internshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get internship %d: %w", internshipID, err)
	}
	if intern.StartDate.IsZero() {
		return nil, nil
	}

	end := intern.EndOrZero()
	if end.IsZero() {
		end = s.nowFunc()
	}
	cycles, err := cycle.ExpectedMonths(intern.StartDate, end)
	if err != nil {
		return nil, fmt.Errorf("failed to derive schedule for internship %d: %w", internshipID, err)
	}
	return cycles, nil
}

// TotalExpectedCount returns how many monthly cycles the internship owes
// over its whole span, counted through today when it is open-ended.
func (s *ComplianceService) TotalExpectedCount(ctx context.Context, internshipID int64) (int, error) {
	cycles, err := s.ExpectedSchedule(ctx, internshipID)
	if err != nil {
		return 0, err
	}
	return len(cycles), nil
}

// ReportsExpectedToDate returns how many monthly reports have fallen due for
// the internship as of today.
func (s *ComplianceService) ReportsExpectedToDate(ctx context.Context, internshipID int64) (int, error) {
	return s.dueToDate(ctx, internshipID)
}

// VisitsExpectedToDate returns how many supervision visits have fallen due
// for the internship as of today. Visits share the reporting cadence, so
// the count always matches ReportsExpectedToDate.
func (s *ComplianceService) VisitsExpectedToDate(ctx context.Context, internshipID int64) (int, error) {
	return s.dueToDate(ctx, internshipID)
}

func (s *ComplianceService) dueToDate(ctx context.Context, internshipID int64) (int, error) {
	intern, err := s.internshipRepo.GetByID(ctx, internshipID)
	if err != nil {
		return 0, fmt.Errorf("failed to get internship %d: %w", internshipID, err)
	}
	n, err := cycle.DueCountAsOf(intern.StartDate, intern.EndOrZero(), s.nowFunc())
	if err != nil {
		return 0, fmt.Errorf("failed to count due cycles for internship %d: %w", internshipID, err)
	}
	return n, nil
}

// ReportsExpectedForDashboard is ReportsExpectedToDate floored at one once
// the internship has started, so a placement in the first days of its first
// month reads "0 of 1" instead of "0 of 0". The floor is a dashboard
// policy, not a property of the schedule; the raw count stays available
// through ReportsExpectedToDate.
func (s *ComplianceService) ReportsExpectedForDashboard(ctx context.Context, internshipID int64) (int, error) {
	return s.dueToDateFloored(ctx, internshipID)
}

// VisitsExpectedForDashboard mirrors ReportsExpectedForDashboard for
// supervision visits.
func (s *ComplianceService) VisitsExpectedForDashboard(ctx context.Context, internshipID int64) (int, error) {
	return s.dueToDateFloored(ctx, internshipID)
}

func (s *ComplianceService) dueToDateFloored(ctx context.Context, internshipID int64) (int, error) {
	intern, err := s.internshipRepo.GetByID(ctx, internshipID)
	if err != nil {
		return 0, fmt.Errorf("failed to get internship %d: %w", internshipID, err)
	}
	n, err := cycle.DueCountAsOf(intern.StartDate, intern.EndOrZero(), s.nowFunc())
	if err != nil {
		return 0, fmt.Errorf("failed to count due cycles for internship %d: %w", internshipID, err)
	}
	today := cycle.DateOnly(s.nowFunc())
	started := !intern.StartDate.IsZero() && !cycle.DateOnly(intern.StartDate).After(today)
	if started && n < 1 {
		n = 1
	}
	return n, nil
}

// EvaluateInternship derives the full compliance position of one placement.
func (s *ComplianceService) EvaluateInternship(ctx context.Context, internshipID int64) (compliance.Evaluation, error) {
	intern, err := s.internshipRepo.GetByID(ctx, internshipID)
	if err != nil {
		return compliance.Evaluation{}, fmt.Errorf("failed to get internship %d: %w", internshipID, err)
	}
	return s.evaluate(ctx, intern)
}

func (s *ComplianceService) evaluate(ctx context.Context, intern *internship.Internship) (compliance.Evaluation, error) {
	reportCycles, err := s.submissionRepo.CoveredReportCycles(ctx, intern.ID)
	if err != nil {
		return compliance.Evaluation{}, fmt.Errorf("failed to list covered report cycles for internship %d: %w", intern.ID, err)
	}
	visitCycles, err := s.submissionRepo.CoveredVisitCycles(ctx, intern.ID)
	if err != nil {
		return compliance.Evaluation{}, fmt.Errorf("failed to list covered visit cycles for internship %d: %w", intern.ID, err)
	}

	ev, err := compliance.Evaluate(intern, reportCycles, visitCycles, s.nowFunc(), s.policy)
	if err != nil {
		return compliance.Evaluation{}, fmt.Errorf("failed to evaluate internship %d: %w", intern.ID, err)
	}
	return ev, nil
}

// EvaluateAll evaluates every tracked placement, worst first. Terminated
// placements are excluded; a placement that fails to evaluate is logged and
// skipped rather than failing the whole pass.
func (s *ComplianceService) EvaluateAll(ctx context.Context) ([]compliance.Evaluation, error) {
	interns, err := s.internshipRepo.ListTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked internships: %w", err)
	}

	evals := make([]compliance.Evaluation, 0, len(interns))
	for _, intern := range interns {
		ev, err := s.evaluate(ctx, intern)
		if err != nil {
			s.logger.WithError(err).WithField("internship_id", intern.ID).Error("Failed to evaluate internship")
			continue
		}
		evals = append(evals, ev)
	}
	compliance.SortWorstFirst(evals)
	return evals, nil
}

// OverviewByInstitution returns the institution-level rollup, worst first.
func (s *ComplianceService) OverviewByInstitution(ctx context.Context) ([]compliance.Summary, error) {
	evals, err := s.EvaluateAll(ctx)
	if err != nil {
		return nil, err
	}
	return compliance.Summarize(evals), nil
}
