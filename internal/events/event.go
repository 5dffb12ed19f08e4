// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/covenantOS/serviceline-dashboard/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform values
var NewBaseEvent = events.NewBaseEvent

const Wildcard = events.Wildcard

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Source     string     `json:"source,omitempty"`
	Status     string     `json:"status"`
	Score      int        `json:"score"`
	CampaignID *uuid.UUID `json:"campaignId,omitempty"`
}

func (e LeadCreated) EventName() string { return "lead.created" }

// LeadUpdated is published after a partial update was stored.
type LeadUpdated struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	ChangedFields []string  `json:"changedFields"`
}

func (e LeadUpdated) EventName() string { return "lead.updated" }

// LeadStatusChanged is published when a lead moves to another status.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "lead.status_changed" }

// LeadDeleted is published when a lead is removed.
type LeadDeleted struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadDeleted) EventName() string { return "lead.deleted" }

// =============================================================================
// Campaigns Domain Events
// =============================================================================

// CampaignCreated is published when a campaign is created or duplicated.
type CampaignCreated struct {
	BaseEvent
	CampaignID uuid.UUID  `json:"campaignId"`
	Name       string     `json:"name"`
	SourceID   *uuid.UUID `json:"duplicatedFrom,omitempty"`
}

func (e CampaignCreated) EventName() string { return "campaign.created" }

// CampaignUpdated is published after a campaign's content or targeting changed.
type CampaignUpdated struct {
	BaseEvent
	CampaignID    uuid.UUID `json:"campaignId"`
	ChangedFields []string  `json:"changedFields"`
}

func (e CampaignUpdated) EventName() string { return "campaign.updated" }

// CampaignPerformanceRecorded is published when delivery counters or spend grew.
type CampaignPerformanceRecorded struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
	Sent       int64     `json:"sent"`
	Converted  int64     `json:"converted"`
	SpentCents int64     `json:"spentCents"`
}

func (e CampaignPerformanceRecorded) EventName() string { return "campaign.performance_recorded" }

// CampaignScheduled is published when a launch time has been set.
type CampaignScheduled struct {
	BaseEvent
	CampaignID  uuid.UUID `json:"campaignId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func (e CampaignScheduled) EventName() string { return "campaign.scheduled" }

// CampaignStatusChanged is published after a lifecycle action. Its name is
// derived from the action, e.g. "campaign.launched".
type CampaignStatusChanged struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
	Action     string    `json:"action"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
}

func (e CampaignStatusChanged) EventName() string {
	switch e.Action {
	case "launch":
		return "campaign.launched"
	case "pause":
		return "campaign.paused"
	case "resume":
		return "campaign.resumed"
	case "complete":
		return "campaign.completed"
	case "archive":
		return "campaign.archived"
	}
	return "campaign.status_changed"
}

// CampaignDeleted is published when a campaign is removed.
type CampaignDeleted struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
}

func (e CampaignDeleted) EventName() string { return "campaign.deleted" }
