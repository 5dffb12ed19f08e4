package management

import (
	"slices"
	"strings"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/sanitize"
)

// ToCampaignResponse converts a stored campaign to its API shape.
func ToCampaignResponse(c domain.Campaign) transport.CampaignResponse {
	rates := analytics.ComputeCampaignRates(c.Performance)
	actions := domain.AllowedActions(c.Status)
	allowed := make([]string, len(actions))
	for i, a := range actions {
		allowed[i] = string(a)
	}
	channels := make([]string, len(c.Channels))
	for i, ch := range c.Channels {
		channels[i] = string(ch)
	}

	return transport.CampaignResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Owner:          c.Owner,
		Status:         string(c.Status),
		AllowedActions: allowed,
		Channels:       channels,
		Targeting:      toTargetingResponse(c.Targeting),
		Subject:        c.Subject,
		Body:           c.Body,
		BudgetCents:    c.BudgetCents,
		SpentCents:     c.SpentCents,
		BudgetUsed:     analytics.Rate(c.SpentCents, c.BudgetCents),
		Performance:    ToPerformanceResponse(c.Performance),
		Rates:          ToRatesResponse(rates),
		Tags:           orEmpty(c.Tags),
		ScheduledAt:    c.ScheduledAt,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		LaunchedAt:     c.LaunchedAt,
		CompletedAt:    c.CompletedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToPerformanceResponse converts delivery counters to their API shape.
func ToPerformanceResponse(p domain.Performance) transport.PerformanceResponse {
	return transport.PerformanceResponse{
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

// ToRatesResponse converts derived rates to their API shape.
func ToRatesResponse(r analytics.CampaignRates) transport.RatesResponse {
	return transport.RatesResponse{
		OpenRate:       r.OpenRate,
		ClickRate:      r.ClickRate,
		ConversionRate: r.ConversionRate,
		ReplyRate:      r.ReplyRate,
		DeliveryRate:   r.DeliveryRate,
		BounceRate:     r.BounceRate,
	}
}

func toTargetingResponse(t domain.Targeting) transport.TargetingResponse {
	statuses := make([]string, len(t.Statuses))
	for i, s := range t.Statuses {
		statuses[i] = string(s)
	}
	return transport.TargetingResponse{
		Industries: orEmpty(t.Industries),
		Locations:  orEmpty(t.Locations),
		Countries:  orEmpty(t.Countries),
		Statuses:   statuses,
		Tags:       orEmpty(t.Tags),
		ScoreRange: transport.ScoreRange{Min: t.ScoreRange.Min, Max: t.ScoreRange.Max},
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func toDomainChannels(raw []string) []domain.Channel {
	out := make([]domain.Channel, 0, len(raw))
	for _, ch := range raw {
		channel := domain.Channel(strings.ToLower(strings.TrimSpace(ch)))
		if !slices.Contains(out, channel) {
			out = append(out, channel)
		}
	}
	return out
}

func toDomainTargeting(t transport.Targeting) domain.Targeting {
	targeting := domain.Targeting{
		Industries: cleanList(t.Industries),
		Locations:  cleanList(t.Locations),
		Countries:  cleanList(t.Countries),
		Tags:       sanitize.Tags(t.Tags),
		ScoreRange: domain.FullScoreRange,
	}
	for _, raw := range t.Statuses {
		status, err := leaddomain.ParseStatus(raw)
		if err != nil {
			// kept so Validate reports it
			status = leaddomain.Status(raw)
		}
		if !slices.Contains(targeting.Statuses, status) {
			targeting.Statuses = append(targeting.Statuses, status)
		}
	}
	if t.ScoreRange != nil {
		targeting.ScoreRange = domain.ScoreRange{Min: t.ScoreRange.Min, Max: t.ScoreRange.Max}
	}
	return targeting
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := sanitize.Text(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// applyUpdate returns c with req merged in and the API names of the fields that changed.
func applyUpdate(c domain.Campaign, req transport.UpdateCampaignRequest) (domain.Campaign, []string) {
	var changed []string
	setString := func(name string, dst *string, src *string, clean func(string) string) {
		if src == nil {
			return
		}
		value := clean(*src)
		if value != *dst {
			*dst = value
			changed = append(changed, name)
		}
	}
	identity := func(s string) string { return s }

	setString("name", &c.Name, req.Name, sanitize.Text)
	setString("description", &c.Description, req.Description, sanitize.Text)
	setString("owner", &c.Owner, req.Owner, sanitize.Text)
	setString("subject", &c.Subject, req.Subject, strings.TrimSpace)
	setString("body", &c.Body, req.Body, identity)

	if req.Channels != nil {
		c.Channels = toDomainChannels(*req.Channels)
		changed = append(changed, "channels")
	}
	if req.Targeting != nil {
		c.Targeting = toDomainTargeting(*req.Targeting)
		changed = append(changed, "targeting")
	}
	if req.BudgetCents != nil && *req.BudgetCents != c.BudgetCents {
		c.BudgetCents = *req.BudgetCents
		changed = append(changed, "budgetCents")
	}
	if req.Tags != nil {
		c.Tags = sanitize.Tags(*req.Tags)
		changed = append(changed, "tags")
	}
	if req.StartDate != nil {
		c.StartDate = storedTime(req.StartDate)
		changed = append(changed, "startDate")
	}
	if req.EndDate != nil {
		c.EndDate = storedTime(req.EndDate)
		changed = append(changed, "endDate")
	}
	return c, changed
}

// storedTime truncates t to the microsecond precision postgres keeps, so
// queued task times compare equal to the stored column.
func storedTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Microsecond)
	return &v
}
