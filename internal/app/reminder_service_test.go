// internal/app/reminder_service_test.go
package app

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"internship_compliance_bot/internal/domain/recipient"
	"internship_compliance_bot/internal/domain/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRecipientFixture(t *testing.T, rr *fakeRecipientRepo, telegramID int64, role recipient.Role) {
	t.Helper()
	require.NoError(t, rr.Create(context.Background(), &recipient.Recipient{
		TelegramID: telegramID,
		FirstName:  "Staff",
		LastName:   sql.NullString{},
		Role:       role,
		IsActive:   true,
	}))
}

func TestDailySweepSendsOverdueReminders(t *testing.T) {
	ir := newFakeInternshipRepo()
	sr := newFakeSubmissionRepo()
	rr := newFakeRecipientRepo()
	rl := newFakeReminderLog()
	tc := newFakeTelegramClient()
	ctx := context.Background()

	intern := activeInternship("Asha Verma", "Precision Tools Ltd", d(2024, time.June, 1))
	require.NoError(t, ir.Create(ctx, intern))
	addRecipientFixture(t, rr, 100, recipient.RoleCoordinator)

	cs := newTestComplianceService(ir, sr, d(2024, time.August, 15))
	svc := NewReminderServiceImpl(cs, rr, rl, tc, testLogger())

	require.NoError(t, svc.ProcessDailySweep(ctx))

	// Cycles one and two are due with nothing submitted: a report and a
	// visit reminder each.
	assert.Len(t, tc.sent, 4)
	for _, msg := range tc.sent {
		assert.EqualValues(t, 100, msg.chatID)
		assert.Contains(t, msg.text, "Overdue")
		assert.Contains(t, msg.text, "Asha Verma")
	}

	entries, err := rl.ListByInternship(ctx, intern.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestDailySweepDoesNotRepeatItself(t *testing.T) {
	ir := newFakeInternshipRepo()
	sr := newFakeSubmissionRepo()
	rr := newFakeRecipientRepo()
	rl := newFakeReminderLog()
	tc := newFakeTelegramClient()
	ctx := context.Background()

	require.NoError(t, ir.Create(ctx, activeInternship("Asha Verma", "Precision Tools Ltd", d(2024, time.June, 1))))
	addRecipientFixture(t, rr, 100, recipient.RoleCoordinator)

	cs := newTestComplianceService(ir, sr, d(2024, time.August, 15))
	svc := NewReminderServiceImpl(cs, rr, rl, tc, testLogger())

	require.NoError(t, svc.ProcessDailySweep(ctx))
	firstRun := len(tc.sent)
	require.NoError(t, svc.ProcessDailySweep(ctx))

	assert.Equal(t, firstRun, len(tc.sent), "the second sweep found everything already reminded about")
}

func TestDailySweepDueSoonReminders(t *testing.T) {
	ir := newFakeInternshipRepo()
	sr := newFakeSubmissionRepo()
	rr := newFakeRecipientRepo()
	rl := newFakeReminderLog()
	tc := newFakeTelegramClient()
	ctx := context.Background()

	intern := activeInternship("Asha Verma", "Precision Tools Ltd", d(2024, time.June, 1))
	require.NoError(t, ir.Create(ctx, intern))
	addRecipientFixture(t, rr, 100, recipient.RoleCoordinator)

	// Cycles one and two fully covered; only cycle three is pending, due
	// September 5, inside the 7-day lead window as of August 30.
	for idx := 1; idx <= 2; idx++ {
		require.NoError(t, sr.CreateReport(ctx, &submission.MonthlyReport{InternshipID: intern.ID, CycleIndex: idx}))
		require.NoError(t, sr.CreateVisit(ctx, &submission.FacultyVisit{InternshipID: intern.ID, CycleIndex: idx}))
	}

	cs := newTestComplianceService(ir, sr, d(2024, time.August, 30))
	svc := NewReminderServiceImpl(cs, rr, rl, tc, testLogger())

	require.NoError(t, svc.ProcessDailySweep(ctx))

	require.Len(t, tc.sent, 2, "one heads-up each for the pending report and visit")
	for _, msg := range tc.sent {
		assert.Contains(t, msg.text, "Heads up")
		assert.Contains(t, msg.text, "2024-09-05")
	}
}

func TestDailySweepWithoutCoordinators(t *testing.T) {
	ir := newFakeInternshipRepo()
	sr := newFakeSubmissionRepo()
	rr := newFakeRecipientRepo()
	rl := newFakeReminderLog()
	tc := newFakeTelegramClient()
	ctx := context.Background()

	require.NoError(t, ir.Create(ctx, activeInternship("Asha Verma", "Precision Tools Ltd", d(2024, time.June, 1))))

	cs := newTestComplianceService(ir, sr, d(2024, time.August, 15))
	svc := NewReminderServiceImpl(cs, rr, rl, tc, testLogger())

	require.NoError(t, svc.ProcessDailySweep(ctx))
	assert.Empty(t, tc.sent, "nothing to deliver without coordinators")
}

func TestMonthlyDigest(t *testing.T) {
	ir := newFakeInternshipRepo()
	sr := newFakeSubmissionRepo()
	rr := newFakeRecipientRepo()
	rl := newFakeReminderLog()
	tc := newFakeTelegramClient()
	ctx := context.Background()

	require.NoError(t, ir.Create(ctx, activeInternship("Asha Verma", "Precision Tools Ltd", d(2024, time.June, 1))))
	addRecipientFixture(t, rr, 100, recipient.RoleCoordinator)
	addRecipientFixture(t, rr, 200, recipient.RolePrincipal)

	cs := newTestComplianceService(ir, sr, d(2024, time.August, 15))
	svc := NewReminderServiceImpl(cs, rr, rl, tc, testLogger())

	require.NoError(t, svc.ProcessMonthlyDigest(ctx))

	require.Len(t, tc.sent, 1, "the digest goes to principals only")
	assert.EqualValues(t, 200, tc.sent[0].chatID)
	assert.Contains(t, tc.sent[0].text, "Precision Tools Ltd")
	assert.True(t, strings.Contains(tc.sent[0].text, "digest"))
}

func TestMonthlyDigestWithoutPrincipals(t *testing.T) {
	ir := newFakeInternshipRepo()
	sr := newFakeSubmissionRepo()
	rr := newFakeRecipientRepo()
	rl := newFakeReminderLog()
	tc := newFakeTelegramClient()
	ctx := context.Background()

	addRecipientFixture(t, rr, 100, recipient.RoleCoordinator)

	cs := newTestComplianceService(ir, sr, d(2024, time.August, 15))
	svc := NewReminderServiceImpl(cs, rr, rl, tc, testLogger())

	require.NoError(t, svc.ProcessMonthlyDigest(ctx))
	assert.Empty(t, tc.sent)
}
