package management

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/repository"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/apperr"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	campaigns map[uuid.UUID]domain.Campaign
}

func (r *fakeRepo) Create(_ context.Context, c domain.Campaign) (domain.Campaign, error) {
	c.ID = uuid.New()
	c.CreatedAt = testNow
	c.UpdatedAt = testNow
	r.campaigns[c.ID] = c
	return c, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]domain.Campaign, int, error) {
	all, _ := r.ListAll(context.Background())
	return all, len(all), nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]domain.Campaign, error) {
	out := make([]domain.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) Save(_ context.Context, c domain.Campaign, expected domain.Status) (domain.Campaign, error) {
	stored, ok := r.campaigns[c.ID]
	if !ok {
		return domain.Campaign{}, repository.ErrNotFound
	}
	if stored.Status != expected {
		return domain.Campaign{}, repository.ErrStatusChanged
	}
	r.campaigns[c.ID] = c
	return c, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.campaigns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.campaigns, id)
	return nil
}

func (r *fakeRepo) IncrementPerformance(_ context.Context, id uuid.UUID, delta domain.Performance, spent int64) (domain.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrNotFound
	}
	c.Performance, _ = c.Performance.Add(delta)
	c.SpentCents += spent
	r.campaigns[id] = c
	return c, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) last() events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return nil
	}
	return b.events[len(b.events)-1]
}

type scheduledTask struct {
	kind  string
	id    uuid.UUID
	runAt time.Time
}

type fakeScheduler struct {
	tasks []scheduledTask
	err   error
}

func (s *fakeScheduler) ScheduleCampaignLaunch(_ context.Context, id uuid.UUID, runAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, scheduledTask{"launch", id, runAt})
	return nil
}

func (s *fakeScheduler) ScheduleCampaignCompletion(_ context.Context, id uuid.UUID, runAt time.Time) error {
	s.tasks = append(s.tasks, scheduledTask{"complete", id, runAt})
	return nil
}

type staticLeads []leaddomain.Lead

func (l staticLeads) Snapshot(context.Context) ([]leaddomain.Lead, error) {
	return l, nil
}

type sentMail struct{ to, subject, body string }

type fakeMailer struct{ sent []sentMail }

func (m *fakeMailer) SendCampaignEmail(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeReports struct {
	objects map[string][]byte
}

func (f *fakeReports) PutReport(_ context.Context, key string, data []byte, _ string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeReports) ReportURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example.com/" + key, nil
}

func newTestService(leads ...leaddomain.Lead) (*Service, *fakeRepo, *recordingBus) {
	repo := &fakeRepo{campaigns: map[uuid.UUID]domain.Campaign{}}
	bus := &recordingBus{}
	svc := New(repo, bus, staticLeads(leads), nil)
	svc.now = func() time.Time { return testNow }
	return svc, repo, bus
}

func emailCampaign() transport.CreateCampaignRequest {
	return transport.CreateCampaignRequest{
		Name:        "Spring HVAC tune-up",
		Channels:    []string{"email", "social"},
		Targeting:   transport.Targeting{Industries: []string{"Construction"}},
		Subject:     "Hi {{firstName}}",
		Body:        "Hello {{name}} at {{company}}, your code is {{promoCode}}.",
		BudgetCents: 100000,
	}
}

func createCampaign(t *testing.T, svc *Service, req transport.CreateCampaignRequest) transport.CampaignResponse {
	t.Helper()
	c, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return c
}

func setStatus(repo *fakeRepo, id uuid.UUID, status domain.Status) {
	c := repo.campaigns[id]
	c.Status = status
	repo.campaigns[id] = c
}

func TestCreateCampaign(t *testing.T) {
	svc, _, bus := newTestService()

	c := createCampaign(t, svc, emailCampaign())

	if c.Status != "draft" {
		t.Fatalf("expected draft, got %s", c.Status)
	}
	want := []string{"schedule", "launch", "archive"}
	if strings.Join(c.AllowedActions, ",") != strings.Join(want, ",") {
		t.Fatalf("expected actions %v, got %v", want, c.AllowedActions)
	}
	if c.Targeting.ScoreRange.Min != 0 || c.Targeting.ScoreRange.Max != 100 {
		t.Fatalf("expected full score range, got %+v", c.Targeting.ScoreRange)
	}
	if bus.last().EventName() != "campaign.created" {
		t.Fatalf("expected campaign.created, got %s", bus.last().EventName())
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	svc, _, _ := newTestService()

	noTargeting := emailCampaign()
	noTargeting.Targeting = transport.Targeting{}
	noTemplate := emailCampaign()
	noTemplate.Body = ""
	badRange := emailCampaign()
	badRange.Targeting.ScoreRange = &transport.ScoreRange{Min: 70, Max: 30}

	cases := map[string]struct {
		req   transport.CreateCampaignRequest
		field string
	}{
		"no targeting": {noTargeting, "targeting"},
		"no template":  {noTemplate, "template"},
		"bad range":    {badRange, "targeting.scoreRange"},
	}
	for name, tc := range cases {
		_, err := svc.Create(context.Background(), tc.req)
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
		details, _ := appErr.Details.(map[string]string)
		if _, ok := details[tc.field]; !ok {
			t.Errorf("%s: expected detail for %s, got %v", name, tc.field, details)
		}
	}
}

func TestSocialCampaignNeedsNoTemplate(t *testing.T) {
	svc, _, _ := newTestService()
	req := emailCampaign()
	req.Channels = []string{"social"}
	req.Subject, req.Body = "", ""

	createCampaign(t, svc, req)
}

func TestLaunchSchedulesCompletion(t *testing.T) {
	svc, _, bus := newTestService()
	scheduler := &fakeScheduler{}
	svc.SetScheduler(scheduler)

	req := emailCampaign()
	end := testNow.Add(14 * 24 * time.Hour)
	req.EndDate = &end
	c := createCampaign(t, svc, req)

	launched, err := svc.ApplyAction(context.Background(), c.ID, domain.ActionLaunch)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if launched.Status != "active" || launched.LaunchedAt == nil || !launched.LaunchedAt.Equal(testNow) {
		t.Fatalf("unexpected launch result: %+v", launched)
	}
	if launched.StartDate == nil || !launched.StartDate.Equal(testNow) {
		t.Fatalf("expected start date to default to launch time, got %v", launched.StartDate)
	}
	if len(scheduler.tasks) != 1 || scheduler.tasks[0].kind != "complete" || !scheduler.tasks[0].runAt.Equal(end) {
		t.Fatalf("expected completion task at %v, got %+v", end, scheduler.tasks)
	}
	if bus.last().EventName() != "campaign.launched" {
		t.Fatalf("expected campaign.launched, got %s", bus.last().EventName())
	}
}

func TestInvalidTransitionIsConflict(t *testing.T) {
	svc, _, _ := newTestService()
	c := createCampaign(t, svc, emailCampaign())

	_, err := svc.ApplyAction(context.Background(), c.ID, domain.ActionPause)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition in chain, got %v", err)
	}
}

func TestApplyActionRejectsSchedule(t *testing.T) {
	svc, repo, _ := newTestService()
	c := createCampaign(t, svc, emailCampaign())

	_, err := svc.ApplyAction(context.Background(), c.ID, domain.ActionSchedule)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if repo.campaigns[c.ID].Status != domain.StatusDraft {
		t.Fatalf("campaign must stay draft, got %s", repo.campaigns[c.ID].Status)
	}
}

func TestSchedule(t *testing.T) {
	svc, _, bus := newTestService()
	c := createCampaign(t, svc, emailCampaign())
	runAt := testNow.Add(48 * time.Hour)

	_, err := svc.Schedule(context.Background(), c.ID, transport.ScheduleCampaignRequest{ScheduledAt: runAt})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable without scheduler, got %v", err)
	}

	scheduler := &fakeScheduler{}
	svc.SetScheduler(scheduler)

	_, err = svc.Schedule(context.Background(), c.ID, transport.ScheduleCampaignRequest{ScheduledAt: testNow.Add(-time.Hour)})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for past time, got %v", err)
	}

	scheduled, err := svc.Schedule(context.Background(), c.ID, transport.ScheduleCampaignRequest{ScheduledAt: runAt})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if scheduled.Status != "scheduled" || scheduled.ScheduledAt == nil || !scheduled.ScheduledAt.Equal(runAt) {
		t.Fatalf("unexpected schedule result: %+v", scheduled)
	}
	if len(scheduler.tasks) != 1 || scheduler.tasks[0].kind != "launch" {
		t.Fatalf("expected a launch task, got %+v", scheduler.tasks)
	}
	if bus.last().EventName() != "campaign.scheduled" {
		t.Fatalf("expected campaign.scheduled, got %s", bus.last().EventName())
	}
}

func TestScheduleEnqueueFailureLeavesDraft(t *testing.T) {
	svc, repo, _ := newTestService()
	svc.SetScheduler(&fakeScheduler{err: errors.New("redis down")})
	c := createCampaign(t, svc, emailCampaign())

	_, err := svc.Schedule(context.Background(), c.ID, transport.ScheduleCampaignRequest{ScheduledAt: testNow.Add(time.Hour)})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if repo.campaigns[c.ID].Status != domain.StatusDraft {
		t.Fatalf("expected campaign to stay draft, got %s", repo.campaigns[c.ID].Status)
	}
}

func TestRunScheduledLaunch(t *testing.T) {
	svc, repo, _ := newTestService()
	svc.SetScheduler(&fakeScheduler{})
	c := createCampaign(t, svc, emailCampaign())
	runAt := testNow.Add(time.Hour)
	if _, err := svc.Schedule(context.Background(), c.ID, transport.ScheduleCampaignRequest{ScheduledAt: runAt}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	// stale task from an earlier schedule
	if err := svc.RunScheduledAction(context.Background(), c.ID, domain.ActionLaunch, runAt.Add(-time.Minute)); err != nil {
		t.Fatalf("stale launch: %v", err)
	}
	if repo.campaigns[c.ID].Status != domain.StatusScheduled {
		t.Fatalf("stale task must not launch, got %s", repo.campaigns[c.ID].Status)
	}

	if err := svc.RunScheduledAction(context.Background(), c.ID, domain.ActionLaunch, runAt); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if repo.campaigns[c.ID].Status != domain.StatusActive {
		t.Fatalf("expected active, got %s", repo.campaigns[c.ID].Status)
	}

	if err := svc.RunScheduledAction(context.Background(), uuid.New(), domain.ActionLaunch, runAt); err != nil {
		t.Fatalf("missing campaign should be skipped, got %v", err)
	}
}

func TestEndDateChangeRequeuesCompletion(t *testing.T) {
	svc, repo, _ := newTestService()
	scheduler := &fakeScheduler{}
	svc.SetScheduler(scheduler)

	req := emailCampaign()
	end := testNow.Add(48 * time.Hour)
	req.EndDate = &end
	c := createCampaign(t, svc, req)
	if _, err := svc.ApplyAction(context.Background(), c.ID, domain.ActionLaunch); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if _, err := svc.ApplyAction(context.Background(), c.ID, domain.ActionPause); err != nil {
		t.Fatalf("pause: %v", err)
	}

	// nanoseconds are dropped so the queued time matches the stored end date
	newEnd := end.Add(24*time.Hour + 999)
	if _, err := svc.Update(context.Background(), c.ID, transport.UpdateCampaignRequest{EndDate: &newEnd}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(scheduler.tasks) != 2 {
		t.Fatalf("expected a second completion task, got %+v", scheduler.tasks)
	}
	queued := scheduler.tasks[1]
	if queued.kind != "complete" || !queued.runAt.Equal(*repo.campaigns[c.ID].EndDate) {
		t.Fatalf("expected completion at the stored end date, got %+v", queued)
	}

	if err := svc.RunScheduledAction(context.Background(), c.ID, domain.ActionComplete, end); err != nil {
		t.Fatalf("stale completion: %v", err)
	}
	if repo.campaigns[c.ID].Status != domain.StatusPaused {
		t.Fatalf("old task must not complete, got %s", repo.campaigns[c.ID].Status)
	}
	if err := svc.RunScheduledAction(context.Background(), c.ID, domain.ActionComplete, queued.runAt); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if repo.campaigns[c.ID].Status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", repo.campaigns[c.ID].Status)
	}
}

func TestFirstEndDateOnPausedCampaignQueuesCompletion(t *testing.T) {
	svc, repo, _ := newTestService()
	scheduler := &fakeScheduler{}
	svc.SetScheduler(scheduler)

	c := createCampaign(t, svc, emailCampaign())
	if _, err := svc.ApplyAction(context.Background(), c.ID, domain.ActionLaunch); err != nil {
		t.Fatalf("launch: %v", err)
	}
	if len(scheduler.tasks) != 0 {
		t.Fatalf("no end date, no task; got %+v", scheduler.tasks)
	}
	setStatus(repo, c.ID, domain.StatusPaused)

	end := testNow.Add(72 * time.Hour)
	if _, err := svc.Update(context.Background(), c.ID, transport.UpdateCampaignRequest{EndDate: &end}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(scheduler.tasks) != 1 || scheduler.tasks[0].kind != "complete" || !scheduler.tasks[0].runAt.Equal(end) {
		t.Fatalf("expected completion task at %v, got %+v", end, scheduler.tasks)
	}

	// an end date that is already due, or a draft, queues nothing
	due := testNow
	if _, err := svc.Update(context.Background(), c.ID, transport.UpdateCampaignRequest{EndDate: &due}); err != nil {
		t.Fatalf("update: %v", err)
	}
	draft := createCampaign(t, svc, emailCampaign())
	if _, err := svc.Update(context.Background(), draft.ID, transport.UpdateCampaignRequest{EndDate: &end}); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if len(scheduler.tasks) != 1 {
		t.Fatalf("expected no further tasks, got %+v", scheduler.tasks)
	}
}

func TestUpdateAndDeleteGuards(t *testing.T) {
	svc, repo, bus := newTestService()
	c := createCampaign(t, svc, emailCampaign())

	name := "Renamed"
	updated, err := svc.Update(context.Background(), c.ID, transport.UpdateCampaignRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected renamed campaign, got %s", updated.Name)
	}
	if e, ok := bus.last().(events.CampaignUpdated); !ok || len(e.ChangedFields) != 1 || e.ChangedFields[0] != "name" {
		t.Fatalf("expected campaign.updated for name, got %#v", bus.last())
	}

	setStatus(repo, c.ID, domain.StatusActive)
	if _, err := svc.Update(context.Background(), c.ID, transport.UpdateCampaignRequest{Name: &name}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict updating active campaign, got %v", err)
	}
	if err := svc.Delete(context.Background(), c.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict deleting active campaign, got %v", err)
	}

	setStatus(repo, c.ID, domain.StatusCompleted)
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), c.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDuplicate(t *testing.T) {
	svc, repo, bus := newTestService()
	c := createCampaign(t, svc, emailCampaign())
	stored := repo.campaigns[c.ID]
	stored.Status = domain.StatusCompleted
	stored.Performance = domain.Performance{Sent: 100, Opened: 40}
	stored.SpentCents = 2500
	repo.campaigns[c.ID] = stored

	dup, err := svc.Duplicate(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == c.ID || dup.Status != "draft" || dup.Name != c.Name+" (Copy)" {
		t.Fatalf("unexpected duplicate: %+v", dup)
	}
	if dup.Performance.Sent != 0 || dup.SpentCents != 0 {
		t.Fatalf("expected zeroed performance, got %+v spent=%d", dup.Performance, dup.SpentCents)
	}
	created, ok := bus.last().(events.CampaignCreated)
	if !ok || created.SourceID == nil || *created.SourceID != c.ID {
		t.Fatalf("expected created event pointing at source, got %#v", bus.last())
	}
}

func TestRecordPerformance(t *testing.T) {
	svc, repo, _ := newTestService()
	c := createCampaign(t, svc, emailCampaign())

	req := transport.RecordPerformanceRequest{Sent: 200, Delivered: 190, Opened: 50, Converted: 10, SpentCents: 4000}
	if _, err := svc.RecordPerformance(context.Background(), c.ID, req); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for draft campaign, got %v", err)
	}

	setStatus(repo, c.ID, domain.StatusActive)
	updated, err := svc.RecordPerformance(context.Background(), c.ID, req)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if updated.Performance.Sent != 200 || updated.SpentCents != 4000 {
		t.Fatalf("unexpected counters: %+v spent=%d", updated.Performance, updated.SpentCents)
	}
	if updated.Rates.OpenRate != 25 || updated.Rates.ConversionRate != 5 || updated.BudgetUsed != 4 {
		t.Fatalf("unexpected rates: %+v budgetUsed=%v", updated.Rates, updated.BudgetUsed)
	}
}

func TestAudience(t *testing.T) {
	leads := []leaddomain.Lead{
		{ID: uuid.New(), Name: "Low", Industry: "construction", Score: 30, Status: leaddomain.StatusNew},
		{ID: uuid.New(), Name: "Other", Industry: "Retail", Score: 90, Status: leaddomain.StatusNew},
		{ID: uuid.New(), Name: "High", Industry: "Construction", Score: 85, Status: leaddomain.StatusQualified},
	}
	svc, _, _ := newTestService(leads...)
	c := createCampaign(t, svc, emailCampaign())

	audience, err := svc.Audience(context.Background(), c.ID, transport.AudienceRequest{})
	if err != nil {
		t.Fatalf("audience: %v", err)
	}
	if audience.MatchedLeads != 2 || audience.EstimatedCostCents != 100 {
		t.Fatalf("unexpected audience: %+v", audience)
	}
	if audience.Sample[0].Name != "High" || audience.Sample[1].Name != "Low" {
		t.Fatalf("expected highest score first, got %+v", audience.Sample)
	}
}

func TestTemplateVariablesAndTestEmail(t *testing.T) {
	svc, _, _ := newTestService()
	c := createCampaign(t, svc, emailCampaign())

	vars, err := svc.TemplateVariables(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("variables: %v", err)
	}
	if strings.Join(vars.Variables, ",") != "firstName,name,company,promoCode" {
		t.Fatalf("unexpected variables: %v", vars.Variables)
	}
	if len(vars.Unknown) != 1 || vars.Unknown[0] != "promoCode" {
		t.Fatalf("expected promoCode to be unknown, got %v", vars.Unknown)
	}
	if vars.Preview.Subject != "Hi Jordan" {
		t.Fatalf("unexpected preview subject %q", vars.Preview.Subject)
	}

	_, err = svc.SendTestEmail(context.Background(), c.ID, transport.SendTestEmailRequest{Emails: []string{"qa@example.com"}})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable without mailer, got %v", err)
	}

	mailer := &fakeMailer{}
	svc.SetEmailSender(mailer)
	result, err := svc.SendTestEmail(context.Background(), c.ID, transport.SendTestEmailRequest{Emails: []string{"qa@example.com", "ops@example.com"}})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(result.Sent) != 2 || len(mailer.sent) != 2 {
		t.Fatalf("expected two sends, got %v", result.Sent)
	}
	if mailer.sent[0].subject != "[TEST] Hi Jordan" || !strings.Contains(mailer.sent[0].body, "Jordan Smith at Example Co") {
		t.Fatalf("unexpected rendered mail: %+v", mailer.sent[0])
	}
}

func TestGenerateReport(t *testing.T) {
	campaignLeads := func(id uuid.UUID) []leaddomain.Lead {
		value := int64(30000)
		return []leaddomain.Lead{
			{ID: uuid.New(), Name: "Won", Email: "won@example.com", Status: leaddomain.StatusWon, ValueCents: &value, CampaignID: &id},
			{ID: uuid.New(), Name: "Unattributed", Email: "x@example.com", Status: leaddomain.StatusWon, ValueCents: &value},
		}
	}

	svc, repo, _ := newTestService()
	c := createCampaign(t, svc, emailCampaign())
	svc.leads = staticLeads(campaignLeads(c.ID))
	stored := repo.campaigns[c.ID]
	stored.SpentCents = 10000
	repo.campaigns[c.ID] = stored

	if _, err := svc.GenerateReport(context.Background(), c.ID); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable without store, got %v", err)
	}

	store := &fakeReports{objects: map[string][]byte{}}
	svc.SetReportStore(store)
	report, err := svc.GenerateReport(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	wantKey := "campaigns/" + c.ID.String() + "/report-20260310T120000Z.csv"
	if report.Key != wantKey || report.URL != "https://files.example.com/"+wantKey {
		t.Fatalf("unexpected report location: %+v", report)
	}
	body := string(store.objects[wantKey])
	if !strings.Contains(body, "roi,200.00") || !strings.Contains(body, "attributedLeads,1") {
		t.Fatalf("unexpected report body:\n%s", body)
	}
	if strings.Contains(body, "Unattributed") {
		t.Fatal("report must only list attributed leads")
	}
}

func TestReportCSVEscapesFormulas(t *testing.T) {
	id := uuid.New()
	c := domain.Campaign{ID: id, Name: "+launch", Status: domain.StatusActive}
	leads := []leaddomain.Lead{{ID: uuid.New(), Name: "=1+1", Email: "-x@example.com", Status: leaddomain.StatusNew, CampaignID: &id}}

	data, err := buildReportCSV(c, leads)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if records[1][1] != "'+launch" {
		t.Fatalf("expected quoted campaign name, got %q", records[1][1])
	}
	last := records[len(records)-1]
	if last[1] != "'=1+1" || last[2] != "'-x@example.com" {
		t.Fatalf("expected quoted lead cells, got %v", last)
	}
}
