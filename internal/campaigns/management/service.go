// Package management handles the campaign lifecycle: CRUD, status actions,
// scheduling, performance counters and the outreach helpers built on them.
package management

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/repository"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/apperr"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 100
	msgCampaignNotFound = "campaign not found"
)

// Repository defines the data access interface needed by the management service.
type Repository interface {
	repository.CampaignReader
	repository.CampaignWriter
	repository.PerformanceWriter
}

// LeadSource supplies the current lead snapshot for audience matching and reports.
type LeadSource interface {
	Snapshot(ctx context.Context) ([]leaddomain.Lead, error)
}

// TaskScheduler enqueues delayed lifecycle actions.
type TaskScheduler interface {
	ScheduleCampaignLaunch(ctx context.Context, campaignID uuid.UUID, runAt time.Time) error
	ScheduleCampaignCompletion(ctx context.Context, campaignID uuid.UUID, runAt time.Time) error
}

// Service handles campaign management operations.
type Service struct {
	repo      Repository
	eventBus  events.Bus
	leads     LeadSource
	scheduler TaskScheduler
	mailer    EmailSender
	reports   ReportStore
	log       *logger.Logger
	now       func() time.Time
}

// New creates a new campaign management service.
func New(repo Repository, eventBus events.Bus, leads LeadSource, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		leads:    leads,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetScheduler enables timed launches and completions.
func (s *Service) SetScheduler(scheduler TaskScheduler) { s.scheduler = scheduler }

// SetEmailSender enables template test sends.
func (s *Service) SetEmailSender(mailer EmailSender) { s.mailer = mailer }

// SetReportStore enables report exports.
func (s *Service) SetReportStore(store ReportStore) { s.reports = store }

// Create stores a new draft campaign.
func (s *Service) Create(ctx context.Context, req transport.CreateCampaignRequest) (transport.CampaignResponse, error) {
	campaign := domain.Campaign{
		Name:        sanitize.Text(req.Name),
		Description: sanitize.Text(req.Description),
		Owner:       sanitize.Text(req.Owner),
		Status:      domain.StatusDraft,
		Channels:    toDomainChannels(req.Channels),
		Targeting:   toDomainTargeting(req.Targeting),
		Subject:     strings.TrimSpace(req.Subject),
		Body:        req.Body,
		BudgetCents: req.BudgetCents,
		Tags:        sanitize.Tags(req.Tags),
		StartDate:   storedTime(req.StartDate),
		EndDate:     storedTime(req.EndDate),
	}
	if err := campaign.Validate(); err != nil {
		return transport.CampaignResponse{}, validationError(err)
	}

	created, err := s.repo.Create(ctx, campaign)
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	s.eventBus.Publish(ctx, events.CampaignCreated{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: created.ID,
		Name:       created.Name,
	})
	return ToCampaignResponse(created), nil
}

// GetByID retrieves a campaign by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.CampaignResponse, error) {
	campaign, err := s.get(ctx, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return ToCampaignResponse(campaign), nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, mapRepoError(err)
	}
	return campaign, nil
}

// List retrieves a paginated list of campaigns.
func (s *Service) List(ctx context.Context, req transport.ListCampaignsRequest) (transport.CampaignListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	params := repository.ListParams{
		Search:    strings.TrimSpace(req.Search),
		Offset:    (req.Page - 1) * req.PageSize,
		Limit:     req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.CampaignListResponse{}, apperr.Validation(err.Error())
		}
		params.Status = &status
	}
	if req.Channel != "" {
		channel := domain.Channel(req.Channel)
		params.Channel = &channel
	}

	campaigns, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.CampaignListResponse{}, err
	}

	items := make([]transport.CampaignResponse, len(campaigns))
	for i, c := range campaigns {
		items[i] = ToCampaignResponse(c)
	}
	return transport.CampaignListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}, nil
}

// Snapshot returns every live campaign for the analytics engine.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.ListAll(ctx)
}

// Update merges content and targeting changes into a campaign that has not
// gone live or is paused.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCampaignRequest) (transport.CampaignResponse, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	if !current.Status.Editable() {
		return transport.CampaignResponse{}, apperr.Conflict("a " + string(current.Status) + " campaign can no longer be edited")
	}

	merged, changed := applyUpdate(current, req)
	if len(changed) == 0 {
		return ToCampaignResponse(current), nil
	}
	if err := merged.Validate(); err != nil {
		return transport.CampaignResponse{}, validationError(err)
	}

	saved, err := s.repo.Save(ctx, merged, current.Status)
	if err != nil {
		return transport.CampaignResponse{}, mapRepoError(err)
	}

	s.eventBus.Publish(ctx, events.CampaignUpdated{
		BaseEvent:     events.NewBaseEvent(),
		CampaignID:    saved.ID,
		ChangedFields: changed,
	})

	// The task queued at launch is now stale; a paused campaign still completes on its new end date.
	launched := saved.Status == domain.StatusActive || saved.Status == domain.StatusPaused
	if launched && slices.Contains(changed, "endDate") {
		s.scheduleCompletion(ctx, saved)
	}
	return ToCampaignResponse(saved), nil
}

// Delete removes a campaign. Running campaigns must be paused or completed first.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status.Running() {
		return apperr.Conflict("pause or complete the campaign before deleting it")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.eventBus.Publish(ctx, events.CampaignDeleted{BaseEvent: events.NewBaseEvent(), CampaignID: id})
	return nil
}

// ApplyAction runs a lifecycle action (launch, pause, resume, complete, archive).
func (s *Service) ApplyAction(ctx context.Context, id uuid.UUID, action domain.Action) (transport.CampaignResponse, error) {
	if action == domain.ActionSchedule {
		return transport.CampaignResponse{}, apperr.BadRequest("scheduling requires a launch time")
	}
	current, err := s.get(ctx, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	saved, err := s.transition(ctx, current, action)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return ToCampaignResponse(saved), nil
}

func (s *Service) transition(ctx context.Context, current domain.Campaign, action domain.Action) (domain.Campaign, error) {
	now := s.now()
	next := current
	if err := next.Apply(action, now); err != nil {
		return domain.Campaign{}, transitionError(err)
	}

	saved, err := s.repo.Save(ctx, next, current.Status)
	if err != nil {
		return domain.Campaign{}, mapRepoError(err)
	}

	s.eventBus.Publish(ctx, events.CampaignStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: saved.ID,
		Action:     string(action),
		OldStatus:  string(current.Status),
		NewStatus:  string(saved.Status),
	})

	if action == domain.ActionLaunch {
		s.scheduleCompletion(ctx, saved)
	}
	return saved, nil
}

func (s *Service) scheduleCompletion(ctx context.Context, c domain.Campaign) {
	if s.scheduler == nil || c.EndDate == nil || !c.EndDate.After(s.now()) {
		return
	}
	if err := s.scheduler.ScheduleCampaignCompletion(ctx, c.ID, *c.EndDate); err != nil {
		s.log.Error("failed to schedule campaign completion", "campaignId", c.ID, "error", err)
	}
}

// Schedule sets a future launch time and enqueues the launch task.
func (s *Service) Schedule(ctx context.Context, id uuid.UUID, req transport.ScheduleCampaignRequest) (transport.CampaignResponse, error) {
	if s.scheduler == nil {
		return transport.CampaignResponse{}, apperr.Unavailable("campaign scheduling is not configured")
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	// postgres keeps microseconds; the queued runAt must compare equal to the stored value
	runAt := req.ScheduledAt.UTC().Truncate(time.Microsecond)
	next := current
	if err := next.Schedule(runAt, s.now()); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return transport.CampaignResponse{}, transitionError(err)
		}
		return transport.CampaignResponse{}, apperr.Validation(err.Error()).
			WithDetails(map[string]string{"scheduledAt": "must be in the future"})
	}

	// The task is enqueued first; a launch that finds the campaign unscheduled is a no-op.
	if err := s.scheduler.ScheduleCampaignLaunch(ctx, id, runAt); err != nil {
		return transport.CampaignResponse{}, apperr.Wrap(apperr.KindInternal, "failed to schedule campaign", err)
	}

	saved, err := s.repo.Save(ctx, next, current.Status)
	if err != nil {
		return transport.CampaignResponse{}, mapRepoError(err)
	}

	s.eventBus.Publish(ctx, events.CampaignScheduled{
		BaseEvent:   events.NewBaseEvent(),
		CampaignID:  saved.ID,
		ScheduledAt: runAt,
	})
	return ToCampaignResponse(saved), nil
}

// RunScheduledAction executes a queued launch or completion. Tasks that no
// longer match the campaign (rescheduled, launched by hand, deleted) are
// skipped without error.
func (s *Service) RunScheduledAction(ctx context.Context, id uuid.UUID, action domain.Action, runAt time.Time) error {
	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Info("scheduled action skipped", "campaignId", id, "action", action, "reason", "campaign deleted")
		return nil
	}
	if err != nil {
		return err
	}

	if reason := staleReason(current, action, runAt); reason != "" {
		s.log.Info("scheduled action skipped", "campaignId", id, "action", action, "reason", reason)
		return nil
	}

	_, err = s.transition(ctx, current, action)
	if errors.Is(err, repository.ErrStatusChanged) || apperr.Is(err, apperr.KindConflict) {
		s.log.Info("scheduled action skipped", "campaignId", id, "action", action, "reason", "status changed")
		return nil
	}
	return err
}

func staleReason(c domain.Campaign, action domain.Action, runAt time.Time) string {
	switch action {
	case domain.ActionLaunch:
		if c.Status != domain.StatusScheduled {
			return "campaign is " + string(c.Status)
		}
		if c.ScheduledAt == nil || !c.ScheduledAt.Equal(runAt) {
			return "campaign was rescheduled"
		}
	case domain.ActionComplete:
		if c.Status != domain.StatusActive && c.Status != domain.StatusPaused {
			return "campaign is " + string(c.Status)
		}
		if c.EndDate == nil || !c.EndDate.Equal(runAt) {
			return "end date changed"
		}
	default:
		return "action " + string(action) + " is not schedulable"
	}
	return ""
}

// Duplicate copies a campaign into a new draft with zeroed performance.
func (s *Service) Duplicate(ctx context.Context, id uuid.UUID) (transport.CampaignResponse, error) {
	source, err := s.get(ctx, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	created, err := s.repo.Create(ctx, source.Duplicate(uuid.Nil, s.now()))
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	s.eventBus.Publish(ctx, events.CampaignCreated{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: created.ID,
		Name:       created.Name,
		SourceID:   &source.ID,
	})
	return ToCampaignResponse(created), nil
}

// RecordPerformance adds delivery counters and spend to a launched campaign.
func (s *Service) RecordPerformance(ctx context.Context, id uuid.UUID, req transport.RecordPerformanceRequest) (transport.CampaignResponse, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	switch current.Status {
	case domain.StatusActive, domain.StatusPaused, domain.StatusCompleted:
	default:
		return transport.CampaignResponse{}, apperr.Conflict("performance can only be recorded for launched campaigns")
	}

	delta := domain.Performance{
		Sent:         req.Sent,
		Delivered:    req.Delivered,
		Bounced:      req.Bounced,
		Opened:       req.Opened,
		Clicked:      req.Clicked,
		Replied:      req.Replied,
		Converted:    req.Converted,
		Unsubscribed: req.Unsubscribed,
	}
	if _, err := current.Performance.Add(delta); err != nil || req.SpentCents < 0 {
		return transport.CampaignResponse{}, apperr.Validation("performance increments must not be negative")
	}
	if delta.IsZero() && req.SpentCents == 0 {
		return ToCampaignResponse(current), nil
	}

	updated, err := s.repo.IncrementPerformance(ctx, id, delta, req.SpentCents)
	if err != nil {
		return transport.CampaignResponse{}, mapRepoError(err)
	}

	s.eventBus.Publish(ctx, events.CampaignPerformanceRecorded{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: id,
		Sent:       delta.Sent,
		Converted:  delta.Converted,
		SpentCents: req.SpentCents,
	})
	return ToCampaignResponse(updated), nil
}

func validationError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return apperr.Validation("validation failed").WithDetails(verr.Fields)
	}
	return apperr.Validation(err.Error())
}

func transitionError(err error) error {
	if errors.Is(err, domain.ErrInvalidTransition) {
		return apperr.Wrap(apperr.KindConflict, err.Error(), err)
	}
	return apperr.Validation(err.Error())
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgCampaignNotFound)
	case errors.Is(err, repository.ErrStatusChanged):
		return apperr.Wrap(apperr.KindConflict, "campaign status changed, reload and retry", err)
	}
	return err
}
