// Package service feeds store snapshots into the aggregation engine and
// shapes the results for the dashboard API. Nothing is cached: every call
// reads a fresh snapshot.
package service

import (
	"context"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	campaigndomain "github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/dashboard/transport"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// LeadSnapshotter returns every stored lead.
type LeadSnapshotter interface {
	Snapshot(ctx context.Context) ([]leaddomain.Lead, error)
}

// CampaignSnapshotter returns every stored campaign.
type CampaignSnapshotter interface {
	Snapshot(ctx context.Context) ([]campaigndomain.Campaign, error)
}

// Settings tune the dashboard windows.
type Settings struct {
	Location   *time.Location
	WindowDays int
	TopSources int
}

// Service computes dashboard views.
type Service struct {
	leads     LeadSnapshotter
	campaigns CampaignSnapshotter
	settings  Settings
	now       func() time.Time
}

// New creates a dashboard service.
func New(leads LeadSnapshotter, campaigns CampaignSnapshotter, settings Settings) *Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.WindowDays <= 0 {
		settings.WindowDays = analytics.DefaultWindowDays
	}
	if settings.TopSources <= 0 {
		settings.TopSources = analytics.DefaultTopSources
	}
	return &Service{
		leads:     leads,
		campaigns: campaigns,
		settings:  settings,
		now:       time.Now,
	}
}

func (s *Service) ref() time.Time {
	return s.now().In(s.settings.Location)
}

type snapshot struct {
	leads     []leaddomain.Lead
	campaigns []campaigndomain.Campaign
}

// load reads the lead snapshot and, when withCampaigns is set, the campaign
// snapshot concurrently.
func (s *Service) load(ctx context.Context, withCampaigns bool) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leads, err := s.leads.Snapshot(gctx)
		snap.leads = leads
		return err
	})
	if withCampaigns {
		g.Go(func() error {
			campaigns, err := s.campaigns.Snapshot(gctx)
			snap.campaigns = campaigns
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// Dashboard returns the headline counters, revenue split and monthly growth.
func (s *Service) Dashboard(ctx context.Context) (transport.DashboardResponse, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return transport.DashboardResponse{}, err
	}
	return s.dashboard(snap.leads), nil
}

func (s *Service) dashboard(leads []leaddomain.Lead) transport.DashboardResponse {
	ref := s.ref()
	return transport.DashboardResponse{
		Stats:       toStatsResponse(analytics.ComputeDashboardStats(leads), analytics.ComputeAverageScore(leads)),
		Revenue:     toRevenueResponse(analytics.ComputeRevenueBreakdown(leads)),
		Growth:      toGrowthResponse(analytics.ComputeGrowth(leads, ref)),
		GeneratedAt: ref,
	}
}

// DailySeries returns lead intake per day over the trailing window. A
// non-positive days uses the configured window.
func (s *Service) DailySeries(ctx context.Context, days int) (transport.DailySeriesResponse, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return transport.DailySeriesResponse{}, err
	}
	return s.dailySeries(snap.leads, days), nil
}

func (s *Service) dailySeries(leads []leaddomain.Lead, days int) transport.DailySeriesResponse {
	if days <= 0 {
		days = s.settings.WindowDays
	}
	return toDailySeriesResponse(days, analytics.ComputeDailySeries(leads, days, s.ref()))
}

// StatusDistribution returns lead counts per status in pipeline order.
func (s *Service) StatusDistribution(ctx context.Context) (transport.StatusDistributionResponse, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return transport.StatusDistributionResponse{}, err
	}
	return toStatusResponse(analytics.ComputeStatusDistribution(snap.leads, nil)), nil
}

// TopSources ranks lead sources. A non-positive limit uses the configured default.
func (s *Service) TopSources(ctx context.Context, limit int) (transport.TopSourcesResponse, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return transport.TopSourcesResponse{}, err
	}
	return s.topSources(snap.leads, limit), nil
}

func (s *Service) topSources(leads []leaddomain.Lead, limit int) transport.TopSourcesResponse {
	if limit <= 0 {
		limit = s.settings.TopSources
	}
	return toSourcesResponse(analytics.ComputeTopSources(leads, limit))
}

// Industries ranks lead industries. A non-positive limit returns all of them.
func (s *Service) Industries(ctx context.Context, limit int) (transport.IndustryDistributionResponse, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return transport.IndustryDistributionResponse{}, err
	}
	return toIndustriesResponse(analytics.ComputeIndustryDistribution(snap.leads, limit)), nil
}

// Revenue splits lead value into won and pipeline.
func (s *Service) Revenue(ctx context.Context) (transport.RevenueResponse, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return transport.RevenueResponse{}, err
	}
	return toRevenueResponse(analytics.ComputeRevenueBreakdown(snap.leads)), nil
}

// Scores returns the score band distribution and the average score.
func (s *Service) Scores(ctx context.Context) (transport.ScoreDistributionResponse, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return transport.ScoreDistributionResponse{}, err
	}
	return toScoresResponse(snap.leads), nil
}

// Campaigns summarises performance across all campaigns.
func (s *Service) Campaigns(ctx context.Context) (transport.CampaignSummaryResponse, error) {
	snap, err := s.load(ctx, true)
	if err != nil {
		return transport.CampaignSummaryResponse{}, err
	}
	return toCampaignSummaryResponse(analytics.ComputeCampaignSummary(snap.campaigns, snap.leads)), nil
}

// Campaign reports on a single campaign.
func (s *Service) Campaign(ctx context.Context, id uuid.UUID) (transport.CampaignReportResponse, error) {
	snap, err := s.load(ctx, true)
	if err != nil {
		return transport.CampaignReportResponse{}, err
	}
	for _, c := range snap.campaigns {
		if c.ID == id {
			return toCampaignReportResponse(c, analytics.ComputeCampaignPerformance(c, snap.leads)), nil
		}
	}
	return transport.CampaignReportResponse{}, apperr.NotFound("campaign not found")
}

// Overview computes every dashboard view from a single pair of snapshots.
func (s *Service) Overview(ctx context.Context) (transport.OverviewResponse, error) {
	snap, err := s.load(ctx, true)
	if err != nil {
		return transport.OverviewResponse{}, err
	}
	leads := snap.leads
	return transport.OverviewResponse{
		Dashboard:  s.dashboard(leads),
		Daily:      s.dailySeries(leads, 0),
		Status:     toStatusResponse(analytics.ComputeStatusDistribution(leads, nil)),
		Sources:    s.topSources(leads, 0),
		Industries: toIndustriesResponse(analytics.ComputeIndustryDistribution(leads, s.settings.TopSources)),
		Scores:     toScoresResponse(leads),
		Campaigns:  toCampaignSummaryResponse(analytics.ComputeCampaignSummary(snap.campaigns, leads)),
	}, nil
}
