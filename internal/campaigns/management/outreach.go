package management

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/apperr"

	"github.com/google/uuid"
)

const defaultAudienceSample = 10

// EmailSender delivers a rendered campaign message to a single recipient.
type EmailSender interface {
	SendCampaignEmail(ctx context.Context, to, subject, body string) error
}

// Audience lists the leads the campaign's targeting currently matches,
// highest score first, together with the projected outreach cost.
func (s *Service) Audience(ctx context.Context, id uuid.UUID, req transport.AudienceRequest) (transport.AudienceResponse, error) {
	campaign, err := s.get(ctx, id)
	if err != nil {
		return transport.AudienceResponse{}, err
	}
	matched, err := s.matchAudience(ctx, campaign)
	if err != nil {
		return transport.AudienceResponse{}, err
	}

	sampleSize := req.SampleSize
	if sampleSize <= 0 {
		sampleSize = defaultAudienceSample
	}
	sample := make([]transport.AudienceLead, 0, min(sampleSize, len(matched)))
	for _, lead := range matched[:min(sampleSize, len(matched))] {
		sample = append(sample, transport.AudienceLead{
			ID:       lead.ID,
			Name:     lead.Name,
			Email:    lead.Email,
			Company:  lead.Company,
			Industry: lead.Industry,
			Status:   string(lead.Status),
			Score:    lead.Score,
		})
	}

	return transport.AudienceResponse{
		CampaignID:          campaign.ID,
		MatchedLeads:        len(matched),
		CostPerContactCents: analytics.DefaultCostPerContactCents,
		EstimatedCostCents:  analytics.EstimateCampaignCost(len(matched), analytics.DefaultCostPerContactCents),
		Sample:              sample,
	}, nil
}

func (s *Service) matchAudience(ctx context.Context, campaign domain.Campaign) ([]leaddomain.Lead, error) {
	if s.leads == nil {
		return nil, apperr.Unavailable("lead source is not configured")
	}
	leads, err := s.leads.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]leaddomain.Lead, 0)
	for _, lead := range leads {
		if campaign.Targeting.Matches(lead) {
			matched = append(matched, lead)
		}
	}
	slices.SortStableFunc(matched, func(a, b leaddomain.Lead) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matched, nil
}

// TemplateVariables lists the placeholders used by the campaign template,
// which of them cannot be filled from a lead, and a preview rendered with
// sample data.
func (s *Service) TemplateVariables(ctx context.Context, id uuid.UUID) (transport.TemplateVariablesResponse, error) {
	campaign, err := s.get(ctx, id)
	if err != nil {
		return transport.TemplateVariablesResponse{}, err
	}

	vars := domain.LeadTemplateVars(domain.SampleLead())
	available := slices.Sorted(maps.Keys(vars))

	used := domain.TemplateVariables(campaign.Subject + "\n" + campaign.Body)
	unknown := make([]string, 0)
	for _, name := range used {
		if _, ok := vars[name]; !ok {
			unknown = append(unknown, name)
		}
	}

	return transport.TemplateVariablesResponse{
		Variables: used,
		Available: available,
		Unknown:   unknown,
		Preview: transport.TemplatePreview{
			Subject: domain.RenderTemplate(campaign.Subject, vars),
			Body:    domain.RenderTemplate(campaign.Body, vars),
		},
	}, nil
}

// SendTestEmail renders the template with sample lead data and sends it to
// each address.
func (s *Service) SendTestEmail(ctx context.Context, id uuid.UUID, req transport.SendTestEmailRequest) (transport.SendTestEmailResponse, error) {
	if s.mailer == nil {
		return transport.SendTestEmailResponse{}, apperr.Unavailable("email delivery is not configured")
	}

	campaign, err := s.get(ctx, id)
	if err != nil {
		return transport.SendTestEmailResponse{}, err
	}
	if !campaign.UsesChannel(domain.ChannelEmail) {
		return transport.SendTestEmailResponse{}, apperr.Validation("campaign does not use the email channel")
	}

	vars := domain.LeadTemplateVars(domain.SampleLead())
	subject := "[TEST] " + domain.RenderTemplate(campaign.Subject, vars)
	body := domain.RenderTemplate(campaign.Body, vars)

	sent := make([]string, 0, len(req.Emails))
	for _, to := range req.Emails {
		if err := s.mailer.SendCampaignEmail(ctx, to, subject, body); err != nil {
			s.log.Error("campaign test email failed", "campaignId", id, "to", to, "error", err)
			return transport.SendTestEmailResponse{Sent: sent}, apperr.Wrap(apperr.KindInternal, "failed to send test email", err)
		}
		sent = append(sent, to)
	}
	return transport.SendTestEmailResponse{Sent: sent}, nil
}
