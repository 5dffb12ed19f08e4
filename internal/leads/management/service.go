// Package management handles lead CRUD operations.
// This is a vertically sliced feature package containing service logic
// for creating, reading, updating, and deleting leads and their timeline.
package management

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/repository"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/transport"
	"github.com/covenantOS/serviceline-dashboard/platform/apperr"
	"github.com/covenantOS/serviceline-dashboard/platform/phone"
	"github.com/covenantOS/serviceline-dashboard/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	dateLayout      = "2006-01-02"
	msgLeadNotFound = "lead not found"
)

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.LeadStreamer
	repository.ActivityStore
}

// Service handles lead management operations.
type Service struct {
	repo     Repository
	eventBus events.Bus
	phones   *phone.Normalizer
}

// New creates a new lead management service.
func New(repo Repository, eventBus events.Bus, phones *phone.Normalizer) *Service {
	if phones == nil {
		phones = phone.NewNormalizer(phone.DefaultRegion)
	}
	return &Service{repo: repo, eventBus: eventBus, phones: phones}
}

// Create creates a new lead.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	status := domain.StatusNew
	if req.Status != "" {
		parsed, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation(err.Error())
		}
		status = parsed
	}

	lead := domain.Lead{
		Name:       sanitize.Text(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      s.phones.E164(req.Phone),
		Company:    sanitize.Text(req.Company),
		JobTitle:   sanitize.Text(req.JobTitle),
		Industry:   sanitize.Text(req.Industry),
		Location:   sanitize.Text(req.Location),
		Country:    sanitize.Text(req.Country),
		Source:     strings.TrimSpace(req.Source),
		Tags:       sanitize.Tags(req.Tags),
		Status:     status,
		ValueCents: req.ValueCents,
		CampaignID: req.CampaignID,
		Notes:      sanitize.Text(req.Notes),
	}
	if req.Score != nil {
		lead.Score = *req.Score
	}
	if req.ScoreBreakdown != nil {
		lead.ScoreBreakdown = toDomainBreakdown(*req.ScoreBreakdown)
		lead.Score = analytics.ComputeLeadScore(lead.ScoreBreakdown)
	}

	if err := lead.Validate(); err != nil {
		return transport.LeadResponse{}, validationError(err)
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     created.ID,
		Name:       created.Name,
		Email:      created.Email,
		Source:     created.Source,
		Status:     string(created.Status),
		Score:      created.Score,
		CampaignID: created.CampaignID,
	})

	return ToLeadResponse(created), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}
	return ToLeadResponse(lead), nil
}

// Update merges the given fields into a lead. The composite score is
// recomputed whenever the breakdown changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}

	params, err := s.buildUpdateParams(req)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if req.Score != nil && current.ScoreBreakdown != nil && !params.ScoreBreakdownSet {
		return transport.LeadResponse{}, apperr.Validation("score is derived from scoreBreakdown").
			WithDetails(map[string]string{"score": "clear or replace scoreBreakdown to set it directly"})
	}

	merged := applyUpdate(current, params)
	if err := merged.Validate(); err != nil {
		return transport.LeadResponse{}, validationError(err)
	}

	changed := changedFields(params)
	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}

	if len(changed) > 0 {
		s.eventBus.Publish(ctx, events.LeadUpdated{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        updated.ID,
			ChangedFields: changed,
		})
	}

	if updated.Status != current.Status {
		s.eventBus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    updated.ID,
			OldStatus: string(current.Status),
			NewStatus: string(updated.Status),
		})
	}

	return ToLeadResponse(updated), nil
}

func (s *Service) buildUpdateParams(req transport.UpdateLeadRequest) (repository.UpdateLeadParams, error) {
	params := repository.UpdateLeadParams{
		Name:     sanitize.TextPtr(req.Name),
		Company:  sanitize.TextPtr(req.Company),
		JobTitle: sanitize.TextPtr(req.JobTitle),
		Industry: sanitize.TextPtr(req.Industry),
		Location: sanitize.TextPtr(req.Location),
		Country:  sanitize.TextPtr(req.Country),
		Notes:    sanitize.TextPtr(req.Notes),
		Score:    req.Score,
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		params.Email = &email
	}
	if req.Phone != nil {
		normalized := s.phones.E164(*req.Phone)
		params.Phone = &normalized
	}
	if req.Source != nil {
		source := strings.TrimSpace(*req.Source)
		params.Source = &source
	}
	if req.Tags != nil {
		tags := sanitize.Tags(*req.Tags)
		params.Tags = &tags
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return repository.UpdateLeadParams{}, apperr.Validation(err.Error())
		}
		params.Status = &status
	}
	if req.ScoreBreakdown.Set {
		params.ScoreBreakdownSet = true
		if req.ScoreBreakdown.Value != nil {
			params.ScoreBreakdown = toDomainBreakdown(*req.ScoreBreakdown.Value)
			score := analytics.ComputeLeadScore(params.ScoreBreakdown)
			params.Score = &score
		}
	}
	if req.ValueCents.Set {
		params.ValueCentsSet = true
		params.ValueCents = req.ValueCents.Value
	}
	if req.CampaignID.Set {
		params.CampaignIDSet = true
		params.CampaignID = req.CampaignID.Value
	}
	return params, nil
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.eventBus.Publish(ctx, events.LeadDeleted{BaseEvent: events.NewBaseEvent(), LeadID: id})
	return nil
}

// BulkDelete removes the given leads and reports how many existed.
func (s *Service) BulkDelete(ctx context.Context, ids []uuid.UUID) (transport.BulkDeleteLeadsResponse, error) {
	deleted, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return transport.BulkDeleteLeadsResponse{}, err
	}
	return transport.BulkDeleteLeadsResponse{DeletedCount: deleted}, nil
}

// List retrieves a paginated list of leads.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	params, err := toListParams(req)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	params.Offset = (req.Page - 1) * req.PageSize
	params.Limit = req.PageSize

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = ToLeadResponse(lead)
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}, nil
}

// Snapshot returns every stored lead. The analytics engine and campaign
// audience matching read from it.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	err := s.repo.Stream(ctx, repository.ListParams{SortOrder: "asc"}, func(lead domain.Lead) error {
		leads = append(leads, lead)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// AddActivity logs an interaction on a lead's timeline.
func (s *Service) AddActivity(ctx context.Context, leadID uuid.UUID, req transport.AddActivityRequest) (transport.ActivityResponse, error) {
	activity := domain.Activity{
		LeadID:      leadID,
		Type:        domain.ActivityType(req.Type),
		Description: sanitize.Text(req.Description),
		Metadata:    req.Metadata,
	}
	created, err := s.repo.AddActivity(ctx, activity)
	if err != nil {
		return transport.ActivityResponse{}, mapRepoError(err)
	}
	return ToActivityResponse(created), nil
}

// ListActivities returns a lead's timeline, newest first.
func (s *Service) ListActivities(ctx context.Context, leadID uuid.UUID) (transport.ActivityListResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return transport.ActivityListResponse{}, mapRepoError(err)
	}
	activities, err := s.repo.ListActivities(ctx, leadID)
	if err != nil {
		return transport.ActivityListResponse{}, err
	}

	items := make([]transport.ActivityResponse, len(activities))
	for i, activity := range activities {
		items[i] = ToActivityResponse(activity)
	}
	return transport.ActivityListResponse{Items: items}, nil
}

// GetScore explains a lead's composite score.
func (s *Service) GetScore(ctx context.Context, id uuid.UUID) (transport.LeadScoreResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadScoreResponse{}, mapRepoError(err)
	}
	return transport.LeadScoreResponse{
		LeadID:    lead.ID,
		Score:     lead.Score,
		Label:     string(analytics.ClassifyScore(lead.Score)),
		Breakdown: toBreakdownResponse(lead.ScoreBreakdown),
		Weights: map[string]float64{
			"engagement":  analytics.WeightEngagement,
			"demographic": analytics.WeightDemographic,
			"behavioral":  analytics.WeightBehavioral,
			"fit":         analytics.WeightFit,
		},
	}, nil
}

func toListParams(req transport.ListLeadsRequest) (repository.ListParams, error) {
	params := repository.ListParams{
		Search:    strings.TrimSpace(req.Search),
		ScoreMin:  req.ScoreMin,
		ScoreMax:  req.ScoreMax,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return repository.ListParams{}, apperr.Validation(err.Error())
		}
		params.Status = &status
	}
	if req.Source != "" {
		params.Source = &req.Source
	}
	if req.Industry != "" {
		params.Industry = &req.Industry
	}
	if req.Tag != "" {
		params.Tag = &req.Tag
	}
	if req.CampaignID != "" {
		id, err := uuid.Parse(req.CampaignID)
		if err != nil {
			return repository.ListParams{}, apperr.Validation("invalid campaignId")
		}
		params.CampaignID = &id
	}
	if req.ScoreMin != nil && req.ScoreMax != nil && *req.ScoreMin > *req.ScoreMax {
		return repository.ListParams{}, apperr.Validation("scoreMin must not exceed scoreMax")
	}
	if req.CreatedFrom != "" {
		from, err := time.Parse(dateLayout, req.CreatedFrom)
		if err != nil {
			return repository.ListParams{}, apperr.Validation("invalid createdFrom")
		}
		params.CreatedAtFrom = &from
	}
	if req.CreatedTo != "" {
		to, err := time.Parse(dateLayout, req.CreatedTo)
		if err != nil {
			return repository.ListParams{}, apperr.Validation("invalid createdTo")
		}
		// inclusive of the whole day
		to = to.AddDate(0, 0, 1)
		params.CreatedAtTo = &to
	}
	return params, nil
}

func validationError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return apperr.Validation("validation failed").WithDetails(verr.Fields)
	}
	return apperr.Validation(err.Error())
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgLeadNotFound)
	case errors.Is(err, repository.ErrCampaignNotFound):
		return apperr.Validation("campaign does not exist").WithDetails(map[string]string{"campaignId": "not found"})
	}
	return err
}
