package analytics

import (
	campaigndomain "github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"

	"github.com/google/uuid"
)

// DefaultCostPerContactCents is the outreach cost assumed per targeted lead.
const DefaultCostPerContactCents int64 = 50

// Rate returns numerator/denominator as a percentage, or 0 when the
// denominator is not positive.
func Rate(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// ROI returns the return on cost as a percentage and whether it is positive.
// A non-positive cost yields 0 and not profitable.
func ROI(revenue, cost float64) (roi float64, profitable bool) {
	if cost <= 0 {
		return 0, false
	}
	roi = (revenue - cost) / cost * 100
	return roi, roi > 0
}

// CampaignRates are the percentage rates derived from performance counters.
// Every rate is measured against Sent.
type CampaignRates struct {
	OpenRate       float64
	ClickRate      float64
	ConversionRate float64
	ReplyRate      float64
	DeliveryRate   float64
	BounceRate     float64
}

// ComputeCampaignRates derives the rates of p.
func ComputeCampaignRates(p campaigndomain.Performance) CampaignRates {
	return CampaignRates{
		OpenRate:       Rate(p.Opened, p.Sent),
		ClickRate:      Rate(p.Clicked, p.Sent),
		ConversionRate: Rate(p.Converted, p.Sent),
		ReplyRate:      Rate(p.Replied, p.Sent),
		DeliveryRate:   Rate(p.Delivered, p.Sent),
		BounceRate:     Rate(p.Bounced, p.Sent),
	}
}

// CampaignReport is the performance view of a single campaign.
type CampaignReport struct {
	Rates              CampaignRates
	BudgetUsed         float64
	AttributedLeads    int
	WonLeads           int
	RevenueCents       int64
	ROI                float64
	Profitable         bool
	CostPerLeadCents   int64
	LeadConversionRate float64
}

// ComputeCampaignPerformance reports on c using the leads attributed to it
// through their CampaignID. Revenue is the value of attributed won leads and
// cost is the campaign spend.
func ComputeCampaignPerformance(c campaigndomain.Campaign, leads []domain.Lead) CampaignReport {
	report := CampaignReport{
		Rates:      ComputeCampaignRates(c.Performance),
		BudgetUsed: Rate(c.SpentCents, c.BudgetCents),
	}

	for _, lead := range leads {
		if lead.CampaignID == nil || *lead.CampaignID != c.ID {
			continue
		}
		report.AttributedLeads++
		if lead.Status == domain.StatusWon {
			report.WonLeads++
			report.RevenueCents += lead.Value()
		}
	}

	report.ROI, report.Profitable = ROI(float64(report.RevenueCents), float64(c.SpentCents))
	report.LeadConversionRate = Rate(int64(report.WonLeads), int64(report.AttributedLeads))
	if report.AttributedLeads > 0 {
		report.CostPerLeadCents = c.SpentCents / int64(report.AttributedLeads)
	}
	return report
}

// CampaignSummary aggregates performance across campaigns.
type CampaignSummary struct {
	TotalCampaigns  int
	ActiveCampaigns int
	ByStatus        map[campaigndomain.Status]int
	Totals          campaigndomain.Performance
	Rates           CampaignRates
	BudgetCents     int64
	SpentCents      int64
	BudgetUsed      float64
	AttributedLeads int
	RevenueCents    int64
	ROI             float64
	Profitable      bool
}

// ComputeCampaignSummary sums counters and spend over campaigns and derives
// rates from the sums. Revenue counts won leads attributed to any of the
// given campaigns.
func ComputeCampaignSummary(campaigns []campaigndomain.Campaign, leads []domain.Lead) CampaignSummary {
	summary := CampaignSummary{
		TotalCampaigns: len(campaigns),
		ByStatus:       make(map[campaigndomain.Status]int, len(campaigndomain.Statuses)),
	}

	known := make(map[uuid.UUID]struct{}, len(campaigns))
	for _, c := range campaigns {
		known[c.ID] = struct{}{}
		summary.ByStatus[c.Status]++
		if c.Status == campaigndomain.StatusActive {
			summary.ActiveCampaigns++
		}
		summary.BudgetCents += c.BudgetCents
		summary.SpentCents += c.SpentCents

		p := c.Performance
		summary.Totals.Sent += p.Sent
		summary.Totals.Delivered += p.Delivered
		summary.Totals.Bounced += p.Bounced
		summary.Totals.Opened += p.Opened
		summary.Totals.Clicked += p.Clicked
		summary.Totals.Replied += p.Replied
		summary.Totals.Converted += p.Converted
		summary.Totals.Unsubscribed += p.Unsubscribed
	}

	for _, lead := range leads {
		if lead.CampaignID == nil {
			continue
		}
		if _, ok := known[*lead.CampaignID]; !ok {
			continue
		}
		summary.AttributedLeads++
		if lead.Status == domain.StatusWon {
			summary.RevenueCents += lead.Value()
		}
	}

	summary.Rates = ComputeCampaignRates(summary.Totals)
	summary.BudgetUsed = Rate(summary.SpentCents, summary.BudgetCents)
	summary.ROI, summary.Profitable = ROI(float64(summary.RevenueCents), float64(summary.SpentCents))
	return summary
}

// EstimateCampaignCost returns the projected cost of reaching targetCount
// leads. A non-positive per-contact cost uses DefaultCostPerContactCents.
func EstimateCampaignCost(targetCount int, costPerContactCents int64) int64 {
	if targetCount <= 0 {
		return 0
	}
	if costPerContactCents <= 0 {
		costPerContactCents = DefaultCostPerContactCents
	}
	return int64(targetCount) * costPerContactCents
}
