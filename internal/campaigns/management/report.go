package management

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/apperr"
	"github.com/covenantOS/serviceline-dashboard/platform/sanitize"

	"github.com/google/uuid"
)

const reportLinkExpiry = time.Hour

// ReportStore keeps generated reports and hands out time-limited download links.
type ReportStore interface {
	PutReport(ctx context.Context, key string, data []byte, contentType string) error
	ReportURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// GenerateReport writes a CSV performance report for the campaign to the
// report store and returns a download link.
func (s *Service) GenerateReport(ctx context.Context, id uuid.UUID) (transport.ReportResponse, error) {
	if s.reports == nil {
		return transport.ReportResponse{}, apperr.Unavailable("report storage is not configured")
	}
	if s.leads == nil {
		return transport.ReportResponse{}, apperr.Unavailable("lead source is not configured")
	}

	campaign, err := s.get(ctx, id)
	if err != nil {
		return transport.ReportResponse{}, err
	}
	leads, err := s.leads.Snapshot(ctx)
	if err != nil {
		return transport.ReportResponse{}, err
	}

	data, err := buildReportCSV(campaign, leads)
	if err != nil {
		return transport.ReportResponse{}, err
	}

	now := s.now()
	key := fmt.Sprintf("campaigns/%s/report-%s.csv", campaign.ID, now.Format("20060102T150405Z"))
	if err := s.reports.PutReport(ctx, key, data, "text/csv"); err != nil {
		return transport.ReportResponse{}, apperr.Wrap(apperr.KindInternal, "failed to store report", err)
	}
	url, err := s.reports.ReportURL(ctx, key, reportLinkExpiry)
	if err != nil {
		return transport.ReportResponse{}, apperr.Wrap(apperr.KindInternal, "failed to sign report link", err)
	}

	return transport.ReportResponse{Key: key, URL: url, ExpiresAt: now.Add(reportLinkExpiry)}, nil
}

// buildReportCSV renders a metric/value summary followed by the attributed leads.
func buildReportCSV(c domain.Campaign, leads []leaddomain.Lead) ([]byte, error) {
	report := analytics.ComputeCampaignPerformance(c, leads)
	p := c.Performance
	pct := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	count := func(v int64) string { return strconv.FormatInt(v, 10) }

	rows := [][]string{
		{"metric", "value"},
		{"campaign", sanitize.CSVCell(c.Name)},
		{"status", string(c.Status)},
		{"budgetCents", count(c.BudgetCents)},
		{"spentCents", count(c.SpentCents)},
		{"budgetUsed", pct(report.BudgetUsed)},
		{"sent", count(p.Sent)},
		{"delivered", count(p.Delivered)},
		{"bounced", count(p.Bounced)},
		{"opened", count(p.Opened)},
		{"clicked", count(p.Clicked)},
		{"replied", count(p.Replied)},
		{"converted", count(p.Converted)},
		{"unsubscribed", count(p.Unsubscribed)},
		{"openRate", pct(report.Rates.OpenRate)},
		{"clickRate", pct(report.Rates.ClickRate)},
		{"conversionRate", pct(report.Rates.ConversionRate)},
		{"replyRate", pct(report.Rates.ReplyRate)},
		{"deliveryRate", pct(report.Rates.DeliveryRate)},
		{"bounceRate", pct(report.Rates.BounceRate)},
		{"attributedLeads", strconv.Itoa(report.AttributedLeads)},
		{"wonLeads", strconv.Itoa(report.WonLeads)},
		{"revenueCents", count(report.RevenueCents)},
		{"roi", pct(report.ROI)},
		{"costPerLeadCents", count(report.CostPerLeadCents)},
		{},
		{"leadId", "name", "email", "status", "score", "valueCents"},
	}
	for _, lead := range leads {
		if lead.CampaignID == nil || *lead.CampaignID != c.ID {
			continue
		}
		rows = append(rows, []string{
			lead.ID.String(), sanitize.CSVCell(lead.Name), sanitize.CSVCell(lead.Email), string(lead.Status),
			strconv.Itoa(lead.Score), count(lead.Value()),
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
