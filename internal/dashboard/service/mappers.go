package service

import (
	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	campaigndomain "github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/dashboard/transport"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

func toStatsResponse(stats analytics.DashboardStats, averageScore float64) transport.StatsResponse {
	return transport.StatsResponse{
		TotalLeads:      stats.TotalLeads,
		NewLeads:        stats.NewLeads,
		QualifiedLeads:  stats.QualifiedLeads,
		WonLeads:        stats.WonLeads,
		TotalValueCents: stats.TotalValueCents,
		WonValueCents:   stats.WonValueCents,
		ConversionRate:  stats.ConversionRate,
		AverageScore:    averageScore,
	}
}

func toRevenueResponse(r analytics.RevenueBreakdown) transport.RevenueResponse {
	return transport.RevenueResponse{
		WonValueCents:      r.WonValueCents,
		PipelineValueCents: r.PipelineValueCents,
		TotalValueCents:    r.TotalValueCents,
	}
}

func toGrowthResponse(g analytics.Growth) transport.GrowthResponse {
	return transport.GrowthResponse{
		NewThisMonth: g.NewThisMonth,
		NewLastMonth: g.NewLastMonth,
		GrowthRate:   g.GrowthRate,
	}
}

func toDailySeriesResponse(days int, buckets []analytics.DailyBucket) transport.DailySeriesResponse {
	items := make([]transport.DailyBucket, len(buckets))
	for i, b := range buckets {
		items[i] = transport.DailyBucket{Date: b.Date, Label: b.Label, Count: b.Count}
	}
	return transport.DailySeriesResponse{Days: days, Buckets: items}
}

func toStatusResponse(counts []analytics.StatusCount) transport.StatusDistributionResponse {
	items := make([]transport.StatusCount, len(counts))
	for i, c := range counts {
		items[i] = transport.StatusCount{Status: string(c.Status), Count: c.Count, Color: c.Color}
	}
	return transport.StatusDistributionResponse{Items: items}
}

func toSourcesResponse(counts []analytics.SourceCount) transport.TopSourcesResponse {
	items := make([]transport.SourceCount, len(counts))
	for i, c := range counts {
		items[i] = transport.SourceCount{Source: c.Source, Count: c.Count}
	}
	return transport.TopSourcesResponse{Items: items}
}

func toIndustriesResponse(counts []analytics.IndustryCount) transport.IndustryDistributionResponse {
	items := make([]transport.IndustryCount, len(counts))
	for i, c := range counts {
		items[i] = transport.IndustryCount{Industry: c.Industry, Count: c.Count}
	}
	return transport.IndustryDistributionResponse{Items: items}
}

func toScoresResponse(leads []leaddomain.Lead) transport.ScoreDistributionResponse {
	bands := analytics.ComputeScoreDistribution(leads)
	items := make([]transport.ScoreBand, len(bands))
	for i, b := range bands {
		items[i] = transport.ScoreBand{Label: string(b.Label), Count: b.Count}
	}
	return transport.ScoreDistributionResponse{
		AverageScore: analytics.ComputeAverageScore(leads),
		Items:        items,
	}
}

func toRatesResponse(r analytics.CampaignRates) transport.RatesResponse {
	return transport.RatesResponse{
		OpenRate:       r.OpenRate,
		ClickRate:      r.ClickRate,
		ConversionRate: r.ConversionRate,
		ReplyRate:      r.ReplyRate,
		DeliveryRate:   r.DeliveryRate,
		BounceRate:     r.BounceRate,
	}
}

func toPerformanceTotals(p campaigndomain.Performance) transport.PerformanceTotals {
	return transport.PerformanceTotals{
		Sent:         p.Sent,
		Delivered:    p.Delivered,
		Bounced:      p.Bounced,
		Opened:       p.Opened,
		Clicked:      p.Clicked,
		Replied:      p.Replied,
		Converted:    p.Converted,
		Unsubscribed: p.Unsubscribed,
	}
}

func toCampaignSummaryResponse(s analytics.CampaignSummary) transport.CampaignSummaryResponse {
	byStatus := make(map[string]int, len(campaigndomain.Statuses))
	for _, status := range campaigndomain.Statuses {
		byStatus[string(status)] = s.ByStatus[status]
	}
	return transport.CampaignSummaryResponse{
		TotalCampaigns:  s.TotalCampaigns,
		ActiveCampaigns: s.ActiveCampaigns,
		ByStatus:        byStatus,
		Totals:          toPerformanceTotals(s.Totals),
		Rates:           toRatesResponse(s.Rates),
		BudgetCents:     s.BudgetCents,
		SpentCents:      s.SpentCents,
		BudgetUsed:      s.BudgetUsed,
		AttributedLeads: s.AttributedLeads,
		RevenueCents:    s.RevenueCents,
		ROI:             s.ROI,
		Profitable:      s.Profitable,
	}
}

func toCampaignReportResponse(c campaigndomain.Campaign, r analytics.CampaignReport) transport.CampaignReportResponse {
	return transport.CampaignReportResponse{
		CampaignID:         c.ID,
		Name:               c.Name,
		Status:             string(c.Status),
		Performance:        toPerformanceTotals(c.Performance),
		Rates:              toRatesResponse(r.Rates),
		BudgetCents:        c.BudgetCents,
		SpentCents:         c.SpentCents,
		BudgetUsed:         r.BudgetUsed,
		AttributedLeads:    r.AttributedLeads,
		WonLeads:           r.WonLeads,
		RevenueCents:       r.RevenueCents,
		ROI:                r.ROI,
		Profitable:         r.Profitable,
		CostPerLeadCents:   r.CostPerLeadCents,
		LeadConversionRate: r.LeadConversionRate,
	}
}
