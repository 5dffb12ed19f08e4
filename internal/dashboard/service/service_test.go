package service

import (
	"context"
	"errors"
	"testing"
	"time"

	campaigndomain "github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/apperr"

	"github.com/google/uuid"
)

type staticLeads struct {
	leads []leaddomain.Lead
	err   error
}

func (s staticLeads) Snapshot(context.Context) ([]leaddomain.Lead, error) {
	return s.leads, s.err
}

type staticCampaigns struct {
	campaigns []campaigndomain.Campaign
	err       error
}

func (s staticCampaigns) Snapshot(context.Context) ([]campaigndomain.Campaign, error) {
	return s.campaigns, s.err
}

func int64Ptr(v int64) *int64 { return &v }

func fixture() ([]leaddomain.Lead, []campaigndomain.Campaign) {
	campaignID := uuid.New()
	campaigns := []campaigndomain.Campaign{{
		ID:          campaignID,
		Name:        "Spring roofing",
		Status:      campaigndomain.StatusActive,
		BudgetCents: 100_000,
		SpentCents:  25_000,
		Performance: campaigndomain.Performance{Sent: 200, Delivered: 190, Opened: 80, Clicked: 20, Converted: 10},
	}}

	base := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	leads := []leaddomain.Lead{
		{ID: uuid.New(), Status: leaddomain.StatusNew, Source: "Website", Industry: "Construction", Score: 85, CreatedAt: base},
		{ID: uuid.New(), Status: leaddomain.StatusQualified, Source: "Referral", Industry: "Construction", Score: 65, ValueCents: int64Ptr(50_000), CreatedAt: base},
		{ID: uuid.New(), Status: leaddomain.StatusWon, Source: "Website", Industry: "Retail", Score: 45, ValueCents: int64Ptr(75_000), CampaignID: &campaignID, CreatedAt: base.AddDate(0, -1, 0)},
		{ID: uuid.New(), Status: leaddomain.StatusLost, Source: "Website", Industry: "Construction", Score: 10, CampaignID: &campaignID, CreatedAt: base.AddDate(0, -1, 0)},
	}
	return leads, campaigns
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	leads, campaigns := fixture()
	svc := New(staticLeads{leads: leads}, staticCampaigns{campaigns: campaigns}, Settings{WindowDays: 7, TopSources: 1})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboard(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if got.Stats.TotalLeads != 4 || got.Stats.NewLeads != 1 || got.Stats.QualifiedLeads != 1 || got.Stats.WonLeads != 1 {
		t.Fatalf("unexpected counters: %+v", got.Stats)
	}
	if got.Stats.ConversionRate != 25 {
		t.Fatalf("expected conversion 25, got %v", got.Stats.ConversionRate)
	}
	if got.Stats.AverageScore != 51.3 {
		t.Fatalf("expected average 51.3, got %v", got.Stats.AverageScore)
	}
	if got.Revenue.WonValueCents != 75_000 || got.Revenue.PipelineValueCents != 50_000 {
		t.Fatalf("unexpected revenue: %+v", got.Revenue)
	}
	if got.Growth.NewThisMonth != 2 || got.Growth.NewLastMonth != 2 || got.Growth.GrowthRate != 0 {
		t.Fatalf("unexpected growth: %+v", got.Growth)
	}
}

func TestDailySeriesUsesConfiguredWindow(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.DailySeries(context.Background(), 0)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if got.Days != 7 || len(got.Buckets) != 7 {
		t.Fatalf("expected 7 buckets, got %d/%d", got.Days, len(got.Buckets))
	}
	if got.Buckets[6].Date != "2026-03-10" || got.Buckets[5].Count != 2 {
		t.Fatalf("unexpected tail buckets: %+v", got.Buckets[5:])
	}

	got, err = svc.DailySeries(context.Background(), 3)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(got.Buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(got.Buckets))
	}
}

func TestTopSourcesDefaultsToConfiguredLimit(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.TopSources(context.Background(), 0)
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Source != "Website" || got.Items[0].Count != 3 {
		t.Fatalf("unexpected sources: %+v", got.Items)
	}
}

func TestIndustriesWithoutLimitReturnsAll(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Industries(context.Background(), 0)
	if err != nil {
		t.Fatalf("industries: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Industry != "Construction" {
		t.Fatalf("unexpected industries: %+v", got.Items)
	}
}

func TestStatusAndScores(t *testing.T) {
	svc := newTestService(t)

	status, err := svc.StatusDistribution(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Items) != len(leaddomain.Statuses) || status.Items[0].Status != "new" || status.Items[0].Color == "" {
		t.Fatalf("unexpected status items: %+v", status.Items)
	}

	scores, err := svc.Scores(context.Background())
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	want := []string{"Hot", "Warm", "Cool", "Cold"}
	for i, band := range scores.Items {
		if band.Label != want[i] || band.Count != 1 {
			t.Fatalf("band %d: got %+v", i, band)
		}
	}
}

func TestCampaignReport(t *testing.T) {
	leads, campaigns := fixture()
	svc := New(staticLeads{leads: leads}, staticCampaigns{campaigns: campaigns}, Settings{})

	got, err := svc.Campaign(context.Background(), campaigns[0].ID)
	if err != nil {
		t.Fatalf("campaign: %v", err)
	}
	if got.AttributedLeads != 2 || got.WonLeads != 1 || got.RevenueCents != 75_000 {
		t.Fatalf("unexpected attribution: %+v", got)
	}
	if got.ROI != 200 || !got.Profitable || got.CostPerLeadCents != 12_500 {
		t.Fatalf("unexpected roi: %+v", got)
	}
	if got.Rates.OpenRate != 40 || got.BudgetUsed != 25 {
		t.Fatalf("unexpected rates: %+v budget %v", got.Rates, got.BudgetUsed)
	}
}

func TestCampaignNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Campaign(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCampaignSummaryListsEveryStatus(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Campaigns(context.Background())
	if err != nil {
		t.Fatalf("campaigns: %v", err)
	}
	if got.TotalCampaigns != 1 || got.ActiveCampaigns != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if len(got.ByStatus) != len(campaigndomain.Statuses) || got.ByStatus["active"] != 1 || got.ByStatus["draft"] != 0 {
		t.Fatalf("unexpected byStatus: %+v", got.ByStatus)
	}
}

func TestOverviewPropagatesSnapshotErrors(t *testing.T) {
	boom := errors.New("snapshot failed")
	svc := New(staticLeads{}, staticCampaigns{err: boom}, Settings{})

	if _, err := svc.Overview(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected snapshot error, got %v", err)
	}
	// the lead-only views never read campaigns
	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
}

func TestOverviewOnEmptyStore(t *testing.T) {
	svc := New(staticLeads{}, staticCampaigns{}, Settings{})

	got, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got.Dashboard.Stats.TotalLeads != 0 || got.Dashboard.Stats.ConversionRate != 0 {
		t.Fatalf("expected zeroed stats, got %+v", got.Dashboard.Stats)
	}
	if len(got.Daily.Buckets) != 30 {
		t.Fatalf("expected default window of 30, got %d", len(got.Daily.Buckets))
	}
	if len(got.Sources.Items) != 0 || got.Campaigns.ROI != 0 {
		t.Fatalf("expected empty sources and zero roi")
	}
}
