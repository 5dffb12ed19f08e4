// Package analytics turns lead and campaign snapshots into the figures shown on
// the dashboard. Every function here is pure: it reads its arguments, never
// mutates them, performs no I/O, and returns the same result for the same input.
// Empty input yields zeroed output and missing optional numbers count as 0.
package analytics

import (
	"math"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

// DashboardStats are the headline lead counters.
type DashboardStats struct {
	TotalLeads      int
	NewLeads        int
	QualifiedLeads  int
	WonLeads        int
	TotalValueCents int64
	WonValueCents   int64
	// ConversionRate is WonLeads/TotalLeads as a percentage in [0,100].
	ConversionRate float64
}

// ComputeDashboardStats counts leads by status and sums their values.
func ComputeDashboardStats(leads []domain.Lead) DashboardStats {
	var stats DashboardStats
	stats.TotalLeads = len(leads)

	for _, lead := range leads {
		value := lead.Value()
		stats.TotalValueCents += value

		switch lead.Status {
		case domain.StatusNew:
			stats.NewLeads++
		case domain.StatusQualified:
			stats.QualifiedLeads++
		case domain.StatusWon:
			stats.WonLeads++
			stats.WonValueCents += value
		}
	}

	stats.ConversionRate = Rate(int64(stats.WonLeads), int64(stats.TotalLeads))
	return stats
}

// RevenueBreakdown splits lead value into closed and open pipeline.
// TotalValueCents always equals WonValueCents + PipelineValueCents.
type RevenueBreakdown struct {
	WonValueCents      int64
	PipelineValueCents int64
	TotalValueCents    int64
}

// ComputeRevenueBreakdown sums won value and derives pipeline as total − won.
func ComputeRevenueBreakdown(leads []domain.Lead) RevenueBreakdown {
	var out RevenueBreakdown
	for _, lead := range leads {
		value := lead.Value()
		out.TotalValueCents += value
		if lead.Status == domain.StatusWon {
			out.WonValueCents += value
		}
	}
	out.PipelineValueCents = out.TotalValueCents - out.WonValueCents
	return out
}

// ComputeAverageScore returns the mean composite score rounded to one decimal.
func ComputeAverageScore(leads []domain.Lead) float64 {
	if len(leads) == 0 {
		return 0
	}
	var sum int
	for _, lead := range leads {
		sum += lead.Score
	}
	return math.Round(float64(sum)/float64(len(leads))*10) / 10
}

// Growth compares lead intake in the reference month with the month before.
type Growth struct {
	NewThisMonth int
	NewLastMonth int
	// GrowthRate is the percentage change; 0 when last month had no leads.
	GrowthRate float64
}

// ComputeGrowth buckets leads by creation month in ref's location.
func ComputeGrowth(leads []domain.Lead, ref time.Time) Growth {
	loc := ref.Location()
	thisStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	nextStart := thisStart.AddDate(0, 1, 0)
	lastStart := thisStart.AddDate(0, -1, 0)

	var g Growth
	for _, lead := range leads {
		created := lead.CreatedAt.In(loc)
		switch {
		case !created.Before(thisStart) && created.Before(nextStart):
			g.NewThisMonth++
		case !created.Before(lastStart) && created.Before(thisStart):
			g.NewLastMonth++
		}
	}

	if g.NewLastMonth > 0 {
		g.GrowthRate = float64(g.NewThisMonth-g.NewLastMonth) / float64(g.NewLastMonth) * 100
	}
	return g
}
