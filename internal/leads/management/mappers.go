package management

import (
	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/repository"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/transport"
)

// ToLeadResponse converts a stored lead to its API shape.
func ToLeadResponse(lead domain.Lead) transport.LeadResponse {
	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}
	return transport.LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Company:        lead.Company,
		JobTitle:       lead.JobTitle,
		Industry:       lead.Industry,
		Location:       lead.Location,
		Country:        lead.Country,
		Source:         lead.Source,
		Tags:           tags,
		Status:         string(lead.Status),
		Score:          lead.Score,
		ScoreLabel:     string(analytics.ClassifyScore(lead.Score)),
		ScoreBreakdown: toBreakdownResponse(lead.ScoreBreakdown),
		ValueCents:     lead.ValueCents,
		CampaignID:     lead.CampaignID,
		Notes:          lead.Notes,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
		LastContactAt:  lead.LastContactAt,
	}
}

// ToActivityResponse converts a timeline entry to its API shape.
func ToActivityResponse(activity domain.Activity) transport.ActivityResponse {
	return transport.ActivityResponse{
		ID:          activity.ID,
		LeadID:      activity.LeadID,
		Type:        string(activity.Type),
		Description: activity.Description,
		Metadata:    activity.Metadata,
		CreatedAt:   activity.CreatedAt,
	}
}

func toDomainBreakdown(b transport.ScoreBreakdown) *domain.ScoreBreakdown {
	return &domain.ScoreBreakdown{
		Engagement:  b.Engagement,
		Demographic: b.Demographic,
		Behavioral:  b.Behavioral,
		Fit:         b.Fit,
	}
}

func toBreakdownResponse(b *domain.ScoreBreakdown) *transport.ScoreBreakdownResponse {
	if b == nil {
		return nil
	}
	return &transport.ScoreBreakdownResponse{
		Engagement:  b.Engagement,
		Demographic: b.Demographic,
		Behavioral:  b.Behavioral,
		Fit:         b.Fit,
	}
}

// applyUpdate returns lead with params merged in, mirroring what the
// repository will store.
func applyUpdate(lead domain.Lead, params repository.UpdateLeadParams) domain.Lead {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&lead.Name, params.Name)
	setString(&lead.Email, params.Email)
	setString(&lead.Phone, params.Phone)
	setString(&lead.Company, params.Company)
	setString(&lead.JobTitle, params.JobTitle)
	setString(&lead.Industry, params.Industry)
	setString(&lead.Location, params.Location)
	setString(&lead.Country, params.Country)
	setString(&lead.Source, params.Source)
	setString(&lead.Notes, params.Notes)

	if params.Tags != nil {
		lead.Tags = *params.Tags
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.Score != nil {
		lead.Score = *params.Score
	}
	if params.ScoreBreakdownSet {
		lead.ScoreBreakdown = params.ScoreBreakdown
	}
	if params.ValueCentsSet {
		lead.ValueCents = params.ValueCents
	}
	if params.CampaignIDSet {
		lead.CampaignID = params.CampaignID
	}
	if params.LastContactAt != nil {
		lead.LastContactAt = params.LastContactAt
	}
	return lead
}

// changedFields lists the API names of the fields an update touches.
func changedFields(params repository.UpdateLeadParams) []string {
	fields := []struct {
		set  bool
		name string
	}{
		{params.Name != nil, "name"},
		{params.Email != nil, "email"},
		{params.Phone != nil, "phone"},
		{params.Company != nil, "company"},
		{params.JobTitle != nil, "jobTitle"},
		{params.Industry != nil, "industry"},
		{params.Location != nil, "location"},
		{params.Country != nil, "country"},
		{params.Source != nil, "source"},
		{params.Tags != nil, "tags"},
		{params.Status != nil, "status"},
		{params.Score != nil, "score"},
		{params.ScoreBreakdownSet, "scoreBreakdown"},
		{params.ValueCentsSet, "valueCents"},
		{params.CampaignIDSet, "campaignId"},
		{params.Notes != nil, "notes"},
	}

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.set {
			out = append(out, f.name)
		}
	}
	return out
}
