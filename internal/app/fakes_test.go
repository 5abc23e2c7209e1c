// internal/app/fakes_test.go
package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"internship_compliance_bot/internal/domain/internship"
	"internship_compliance_bot/internal/domain/recipient"
	"internship_compliance_bot/internal/domain/reminder"
	"internship_compliance_bot/internal/domain/submission"
	idb "internship_compliance_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "test")
}

type fakeInternshipRepo struct {
	internships map[int64]*internship.Internship
	nextID      int64
}

func newFakeInternshipRepo() *fakeInternshipRepo {
	return &fakeInternshipRepo{internships: make(map[int64]*internship.Internship), nextID: 1}
}

func (f *fakeInternshipRepo) Create(_ context.Context, i *internship.Internship) error {
	i.ID = f.nextID
	f.nextID++
	f.internships[i.ID] = i
	return nil
}

func (f *fakeInternshipRepo) GetByID(_ context.Context, id int64) (*internship.Internship, error) {
	i, ok := f.internships[id]
	if !ok {
		return nil, idb.ErrInternshipNotFound
	}
	return i, nil
}

func (f *fakeInternshipRepo) Update(_ context.Context, i *internship.Internship) error {
	if _, ok := f.internships[i.ID]; !ok {
		return idb.ErrInternshipNotFound
	}
	f.internships[i.ID] = i
	return nil
}

func (f *fakeInternshipRepo) ListActive(_ context.Context) ([]*internship.Internship, error) {
	return f.filtered(func(i *internship.Internship) bool { return i.Status == internship.StatusActive }), nil
}

func (f *fakeInternshipRepo) ListTracked(_ context.Context) ([]*internship.Internship, error) {
	return f.filtered(func(i *internship.Internship) bool { return i.Tracked() }), nil
}

func (f *fakeInternshipRepo) ListAll(_ context.Context) ([]*internship.Internship, error) {
	return f.filtered(func(*internship.Internship) bool { return true }), nil
}

func (f *fakeInternshipRepo) filtered(keep func(*internship.Internship) bool) []*internship.Internship {
	out := make([]*internship.Internship, 0, len(f.internships))
	for _, i := range f.internships {
		if keep(i) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

type fakeSubmissionRepo struct {
	reportCycles map[int64][]int
	visitCycles  map[int64][]int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		reportCycles: make(map[int64][]int),
		visitCycles:  make(map[int64][]int),
	}
}

func (f *fakeSubmissionRepo) CreateReport(_ context.Context, r *submission.MonthlyReport) error {
	f.reportCycles[r.InternshipID] = append(f.reportCycles[r.InternshipID], r.CycleIndex)
	return nil
}

func (f *fakeSubmissionRepo) GetReportByID(context.Context, int64) (*submission.MonthlyReport, error) {
	return nil, idb.ErrReportNotFound
}

func (f *fakeSubmissionRepo) GetReportByCycle(context.Context, int64, int) (*submission.MonthlyReport, error) {
	return nil, idb.ErrReportNotFound
}

func (f *fakeSubmissionRepo) UpdateReport(context.Context, *submission.MonthlyReport) error {
	return nil
}

func (f *fakeSubmissionRepo) ListReportsByInternship(context.Context, int64) ([]*submission.MonthlyReport, error) {
	return nil, nil
}

func (f *fakeSubmissionRepo) CreateVisit(_ context.Context, v *submission.FacultyVisit) error {
	f.visitCycles[v.InternshipID] = append(f.visitCycles[v.InternshipID], v.CycleIndex)
	return nil
}

func (f *fakeSubmissionRepo) ListVisitsByInternship(context.Context, int64) ([]*submission.FacultyVisit, error) {
	return nil, nil
}

func (f *fakeSubmissionRepo) CoveredReportCycles(_ context.Context, internshipID int64) ([]int, error) {
	return f.reportCycles[internshipID], nil
}

func (f *fakeSubmissionRepo) CoveredVisitCycles(_ context.Context, internshipID int64) ([]int, error) {
	return f.visitCycles[internshipID], nil
}

type fakeRecipientRepo struct {
	recipients map[int64]*recipient.Recipient // keyed by Telegram ID
	nextID     int64
}

func newFakeRecipientRepo() *fakeRecipientRepo {
	return &fakeRecipientRepo{recipients: make(map[int64]*recipient.Recipient), nextID: 1}
}

func (f *fakeRecipientRepo) Create(_ context.Context, r *recipient.Recipient) error {
	if _, ok := f.recipients[r.TelegramID]; ok {
		return idb.ErrDuplicateTelegramID
	}
	r.ID = f.nextID
	f.nextID++
	f.recipients[r.TelegramID] = r
	return nil
}

func (f *fakeRecipientRepo) GetByID(_ context.Context, id int64) (*recipient.Recipient, error) {
	for _, r := range f.recipients {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, idb.ErrRecipientNotFound
}

func (f *fakeRecipientRepo) GetByTelegramID(_ context.Context, telegramID int64) (*recipient.Recipient, error) {
	r, ok := f.recipients[telegramID]
	if !ok {
		return nil, idb.ErrRecipientNotFound
	}
	return r, nil
}

func (f *fakeRecipientRepo) Update(_ context.Context, r *recipient.Recipient) error {
	if _, ok := f.recipients[r.TelegramID]; !ok {
		return idb.ErrRecipientNotFound
	}
	f.recipients[r.TelegramID] = r
	return nil
}

func (f *fakeRecipientRepo) ListActive(_ context.Context) ([]*recipient.Recipient, error) {
	return f.filtered(func(r *recipient.Recipient) bool { return r.IsActive }), nil
}

func (f *fakeRecipientRepo) ListActiveByRole(_ context.Context, role recipient.Role) ([]*recipient.Recipient, error) {
	return f.filtered(func(r *recipient.Recipient) bool { return r.IsActive && r.Role == role }), nil
}

func (f *fakeRecipientRepo) ListAll(_ context.Context) ([]*recipient.Recipient, error) {
	return f.filtered(func(*recipient.Recipient) bool { return true }), nil
}

func (f *fakeRecipientRepo) filtered(keep func(*recipient.Recipient) bool) []*recipient.Recipient {
	out := make([]*recipient.Recipient, 0, len(f.recipients))
	for _, r := range f.recipients {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

type fakeReminderLog struct {
	entries map[string]*reminder.Entry
	nextID  int64
}

func newFakeReminderLog() *fakeReminderLog {
	return &fakeReminderLog{entries: make(map[string]*reminder.Entry), nextID: 1}
}

func reminderKey(internshipID int64, cycleIndex int, kind reminder.Kind, stage reminder.Stage) string {
	return fmt.Sprintf("%d/%d/%s/%s", internshipID, cycleIndex, kind, stage)
}

func (f *fakeReminderLog) Record(_ context.Context, e *reminder.Entry) error {
	e.ID = f.nextID
	f.nextID++
	f.entries[reminderKey(e.InternshipID, e.CycleIndex, e.Kind, e.Stage)] = e
	return nil
}

func (f *fakeReminderLog) WasSent(_ context.Context, internshipID int64, cycleIndex int, kind reminder.Kind, stage reminder.Stage) (bool, error) {
	_, ok := f.entries[reminderKey(internshipID, cycleIndex, kind, stage)]
	return ok, nil
}

func (f *fakeReminderLog) ListByInternship(_ context.Context, internshipID int64) ([]*reminder.Entry, error) {
	out := make([]*reminder.Entry, 0)
	for _, e := range f.entries {
		if e.InternshipID == internshipID {
			out = append(out, e)
		}
	}
	return out, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegramClient struct {
	sent    []sentMessage
	failFor map[int64]error // per-chat delivery failures
}

func newFakeTelegramClient() *fakeTelegramClient {
	return &fakeTelegramClient{failFor: make(map[int64]error)}
}

func (f *fakeTelegramClient) SendMessage(recipientChatID int64, text string, _ *telebot.SendOptions) error {
	if err, ok := f.failFor[recipientChatID]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: recipientChatID, text: text})
	return nil
}

func activeInternship(student, institution string, start time.Time) *internship.Internship {
	return &internship.Internship{
		StudentName: student,
		Institution: institution,
		StartDate:   start,
		Status:      internship.StatusActive,
	}
}
