// Package fixtures loads demo leads and campaigns from YAML and stores them
// through the management services, so seeded data passes the same
// validation, scoring and lifecycle rules as API traffic.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	campaigndomain "github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	campaigntransport "github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	leadtransport "github.com/covenantOS/serviceline-dashboard/internal/leads/transport"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// File is the root of a fixture document.
type File struct {
	Campaigns []Campaign `yaml:"campaigns"`
	Leads     []Lead     `yaml:"leads"`
}

// Campaign describes a campaign to create. Actions are applied in order
// after creation and Performance is recorded last.
type Campaign struct {
	Key         string       `yaml:"key"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Owner       string       `yaml:"owner"`
	Channels    []string     `yaml:"channels"`
	Targeting   Targeting    `yaml:"targeting"`
	Subject     string       `yaml:"subject"`
	Body        string       `yaml:"body"`
	BudgetCents int64        `yaml:"budgetCents"`
	Tags        []string     `yaml:"tags"`
	Actions     []string     `yaml:"actions"`
	Performance *Performance `yaml:"performance"`
}

type Targeting struct {
	Industries []string `yaml:"industries"`
	Locations  []string `yaml:"locations"`
	Countries  []string `yaml:"countries"`
	Statuses   []string `yaml:"statuses"`
	Tags       []string `yaml:"tags"`
	ScoreMin   *int     `yaml:"scoreMin"`
	ScoreMax   *int     `yaml:"scoreMax"`
}

type Performance struct {
	Sent         int64 `yaml:"sent"`
	Delivered    int64 `yaml:"delivered"`
	Bounced      int64 `yaml:"bounced"`
	Opened       int64 `yaml:"opened"`
	Clicked      int64 `yaml:"clicked"`
	Replied      int64 `yaml:"replied"`
	Converted    int64 `yaml:"converted"`
	Unsubscribed int64 `yaml:"unsubscribed"`
	SpentCents   int64 `yaml:"spentCents"`
}

// Lead describes a lead to create. Campaign refers to a campaign key.
type Lead struct {
	Name       string          `yaml:"name"`
	Email      string          `yaml:"email"`
	Phone      string          `yaml:"phone"`
	Company    string          `yaml:"company"`
	JobTitle   string          `yaml:"jobTitle"`
	Industry   string          `yaml:"industry"`
	Location   string          `yaml:"location"`
	Country    string          `yaml:"country"`
	Source     string          `yaml:"source"`
	Tags       []string        `yaml:"tags"`
	Status     string          `yaml:"status"`
	Score      *int            `yaml:"score"`
	Breakdown  *ScoreBreakdown `yaml:"breakdown"`
	ValueCents *int64          `yaml:"valueCents"`
	Campaign   string          `yaml:"campaign"`
	Notes      string          `yaml:"notes"`
}

type ScoreBreakdown struct {
	Engagement  int `yaml:"engagement"`
	Demographic int `yaml:"demographic"`
	Behavioral  int `yaml:"behavioral"`
	Fit         int `yaml:"fit"`
}

// Load decodes a fixture document. Unknown keys are rejected and campaign
// references are checked before anything is stored.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) check() error {
	keys := make(map[string]struct{}, len(f.Campaigns))
	for i, c := range f.Campaigns {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return fmt.Errorf("campaign %d: key is required", i)
		}
		if _, dup := keys[key]; dup {
			return fmt.Errorf("campaign %d: duplicate key %q", i, key)
		}
		keys[key] = struct{}{}
		for _, action := range c.Actions {
			if !isAction(action) {
				return fmt.Errorf("campaign %q: unknown action %q", key, action)
			}
		}
	}
	for i, l := range f.Leads {
		if l.Campaign == "" {
			continue
		}
		if _, ok := keys[l.Campaign]; !ok {
			return fmt.Errorf("lead %d: unknown campaign %q", i, l.Campaign)
		}
	}
	return nil
}

// isAction accepts every lifecycle action except schedule, which needs a run time.
func isAction(raw string) bool {
	for _, a := range campaigndomain.Actions {
		if string(a) == raw && a != campaigndomain.ActionSchedule {
			return true
		}
	}
	return false
}

// LeadCreator stores leads.
type LeadCreator interface {
	Create(ctx context.Context, req leadtransport.CreateLeadRequest) (leadtransport.LeadResponse, error)
}

// CampaignSeeder stores campaigns and drives them through their lifecycle.
type CampaignSeeder interface {
	Create(ctx context.Context, req campaigntransport.CreateCampaignRequest) (campaigntransport.CampaignResponse, error)
	ApplyAction(ctx context.Context, id uuid.UUID, action campaigndomain.Action) (campaigntransport.CampaignResponse, error)
	RecordPerformance(ctx context.Context, id uuid.UUID, req campaigntransport.RecordPerformanceRequest) (campaigntransport.CampaignResponse, error)
}

// Result counts what a seed run stored.
type Result struct {
	Campaigns int
	Leads     int
}

// Seeder writes fixture files through the management services.
type Seeder struct {
	leads     LeadCreator
	campaigns CampaignSeeder
	val       *validator.Validator
	log       *logger.Logger
}

// NewSeeder creates a seeder. val must have the lead and campaign enum tags registered.
func NewSeeder(leads LeadCreator, campaigns CampaignSeeder, val *validator.Validator, log *logger.Logger) *Seeder {
	return &Seeder{leads: leads, campaigns: campaigns, val: val, log: log}
}

// Seed stores the campaigns first, applies their lifecycle actions, creates
// the leads with their campaign attribution and finally records campaign
// performance. It stops at the first failure.
func (s *Seeder) Seed(ctx context.Context, f *File) (Result, error) {
	var res Result
	ids := make(map[string]uuid.UUID, len(f.Campaigns))

	for _, c := range f.Campaigns {
		req := c.request()
		if err := s.val.Struct(req); err != nil {
			return res, fmt.Errorf("campaign %q: %w", c.Key, err)
		}
		created, err := s.campaigns.Create(ctx, req)
		if err != nil {
			return res, fmt.Errorf("campaign %q: %w", c.Key, err)
		}
		ids[c.Key] = created.ID
		res.Campaigns++

		for _, action := range c.Actions {
			if _, err := s.campaigns.ApplyAction(ctx, created.ID, campaigndomain.Action(action)); err != nil {
				return res, fmt.Errorf("campaign %q %s: %w", c.Key, action, err)
			}
		}
		s.log.Info("campaign seeded", "key", c.Key, "campaignId", created.ID)
	}

	for i, l := range f.Leads {
		req := l.request(ids)
		if err := s.val.Struct(req); err != nil {
			return res, fmt.Errorf("lead %d (%s): %w", i, l.Email, err)
		}
		if _, err := s.leads.Create(ctx, req); err != nil {
			return res, fmt.Errorf("lead %d (%s): %w", i, l.Email, err)
		}
		res.Leads++
	}

	for _, c := range f.Campaigns {
		if c.Performance == nil {
			continue
		}
		req := c.Performance.request()
		if err := s.val.Struct(req); err != nil {
			return res, fmt.Errorf("campaign %q performance: %w", c.Key, err)
		}
		if _, err := s.campaigns.RecordPerformance(ctx, ids[c.Key], req); err != nil {
			return res, fmt.Errorf("campaign %q performance: %w", c.Key, err)
		}
	}

	return res, nil
}

func (c Campaign) request() campaigntransport.CreateCampaignRequest {
	req := campaigntransport.CreateCampaignRequest{
		Name:        c.Name,
		Description: c.Description,
		Owner:       c.Owner,
		Channels:    c.Channels,
		Targeting: campaigntransport.Targeting{
			Industries: c.Targeting.Industries,
			Locations:  c.Targeting.Locations,
			Countries:  c.Targeting.Countries,
			Statuses:   c.Targeting.Statuses,
			Tags:       c.Targeting.Tags,
		},
		Subject:     c.Subject,
		Body:        c.Body,
		BudgetCents: c.BudgetCents,
		Tags:        c.Tags,
	}
	if c.Targeting.ScoreMin != nil || c.Targeting.ScoreMax != nil {
		r := campaigntransport.ScoreRange{Min: campaigndomain.FullScoreRange.Min, Max: campaigndomain.FullScoreRange.Max}
		if c.Targeting.ScoreMin != nil {
			r.Min = *c.Targeting.ScoreMin
		}
		if c.Targeting.ScoreMax != nil {
			r.Max = *c.Targeting.ScoreMax
		}
		req.Targeting.ScoreRange = &r
	}
	return req
}

func (p Performance) request() campaigntransport.RecordPerformanceRequest {
	return campaigntransport.RecordPerformanceRequest{
		Sent:         p.Sent,
		Delivered:    p.Delivered,
		Bounced:      p.Bounced,
		Opened:       p.Opened,
		Clicked:      p.Clicked,
		Replied:      p.Replied,
		Converted:    p.Converted,
		Unsubscribed: p.Unsubscribed,
		SpentCents:   p.SpentCents,
	}
}

func (l Lead) request(campaignIDs map[string]uuid.UUID) leadtransport.CreateLeadRequest {
	req := leadtransport.CreateLeadRequest{
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Company:    l.Company,
		JobTitle:   l.JobTitle,
		Industry:   l.Industry,
		Location:   l.Location,
		Country:    l.Country,
		Source:     l.Source,
		Tags:       l.Tags,
		Status:     l.Status,
		Score:      l.Score,
		ValueCents: l.ValueCents,
		Notes:      l.Notes,
	}
	if l.Breakdown != nil {
		req.ScoreBreakdown = &leadtransport.ScoreBreakdown{
			Engagement:  l.Breakdown.Engagement,
			Demographic: l.Breakdown.Demographic,
			Behavioral:  l.Breakdown.Behavioral,
			Fit:         l.Breakdown.Fit,
		}
	}
	if id, ok := campaignIDs[l.Campaign]; ok {
		req.CampaignID = &id
	}
	return req
}
