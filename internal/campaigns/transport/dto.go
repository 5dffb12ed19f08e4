package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type ScoreRange struct {
	Min int `json:"min" validate:"min=0,max=100"`
	Max int `json:"max" validate:"min=0,max=100,gtefield=Min"`
}

type Targeting struct {
	Industries []string    `json:"industries,omitempty" validate:"max=50,dive,max=100"`
	Locations  []string    `json:"locations,omitempty" validate:"max=50,dive,max=200"`
	Countries  []string    `json:"countries,omitempty" validate:"max=50,dive,max=100"`
	Statuses   []string    `json:"statuses,omitempty" validate:"dive,leadstatus"`
	Tags       []string    `json:"tags,omitempty" validate:"max=25,dive,max=50"`
	ScoreRange *ScoreRange `json:"scoreRange,omitempty"`
}

type CreateCampaignRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	Owner       string     `json:"owner,omitempty" validate:"max=200"`
	Channels    []string   `json:"channels" validate:"required,min=1,dive,channel"`
	Targeting   Targeting  `json:"targeting"`
	Subject     string     `json:"subject,omitempty" validate:"max=300"`
	Body        string     `json:"body,omitempty" validate:"max=20000"`
	BudgetCents int64      `json:"budgetCents" validate:"min=0"`
	Tags        []string   `json:"tags,omitempty" validate:"max=25,dive,max=50"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type UpdateCampaignRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Owner       *string    `json:"owner,omitempty" validate:"omitempty,max=200"`
	Channels    *[]string  `json:"channels,omitempty" validate:"omitempty,min=1,dive,channel"`
	Targeting   *Targeting `json:"targeting,omitempty"`
	Subject     *string    `json:"subject,omitempty" validate:"omitempty,max=300"`
	Body        *string    `json:"body,omitempty" validate:"omitempty,max=20000"`
	BudgetCents *int64     `json:"budgetCents,omitempty" validate:"omitempty,min=0"`
	Tags        *[]string  `json:"tags,omitempty" validate:"omitempty,max=25,dive,max=50"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type ScheduleCampaignRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

type RecordPerformanceRequest struct {
	Sent         int64 `json:"sent" validate:"min=0"`
	Delivered    int64 `json:"delivered" validate:"min=0"`
	Bounced      int64 `json:"bounced" validate:"min=0"`
	Opened       int64 `json:"opened" validate:"min=0"`
	Clicked      int64 `json:"clicked" validate:"min=0"`
	Replied      int64 `json:"replied" validate:"min=0"`
	Converted    int64 `json:"converted" validate:"min=0"`
	Unsubscribed int64 `json:"unsubscribed" validate:"min=0"`
	SpentCents   int64 `json:"spentCents" validate:"min=0"`
}

type SendTestEmailRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,max=10,dive,email"`
}

type ListCampaignsRequest struct {
	Status    string `form:"status" validate:"omitempty,campaignstatus"`
	Channel   string `form:"channel" validate:"omitempty,channel"`
	Search    string `form:"search" validate:"max=100"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt name status budget spent startDate"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type AudienceRequest struct {
	SampleSize int `form:"sampleSize" validate:"omitempty,min=1,max=100"`
}

// Response DTOs
type PerformanceResponse struct {
	Sent         int64 `json:"sent"`
	Delivered    int64 `json:"delivered"`
	Bounced      int64 `json:"bounced"`
	Opened       int64 `json:"opened"`
	Clicked      int64 `json:"clicked"`
	Replied      int64 `json:"replied"`
	Converted    int64 `json:"converted"`
	Unsubscribed int64 `json:"unsubscribed"`
}

type RatesResponse struct {
	OpenRate       float64 `json:"openRate"`
	ClickRate      float64 `json:"clickRate"`
	ConversionRate float64 `json:"conversionRate"`
	ReplyRate      float64 `json:"replyRate"`
	DeliveryRate   float64 `json:"deliveryRate"`
	BounceRate     float64 `json:"bounceRate"`
}

type TargetingResponse struct {
	Industries []string   `json:"industries"`
	Locations  []string   `json:"locations"`
	Countries  []string   `json:"countries"`
	Statuses   []string   `json:"statuses"`
	Tags       []string   `json:"tags"`
	ScoreRange ScoreRange `json:"scoreRange"`
}

type CampaignResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Owner          string              `json:"owner,omitempty"`
	Status         string              `json:"status"`
	AllowedActions []string            `json:"allowedActions"`
	Channels       []string            `json:"channels"`
	Targeting      TargetingResponse   `json:"targeting"`
	Subject        string              `json:"subject,omitempty"`
	Body           string              `json:"body,omitempty"`
	BudgetCents    int64               `json:"budgetCents"`
	SpentCents     int64               `json:"spentCents"`
	BudgetUsed     float64             `json:"budgetUsed"`
	Performance    PerformanceResponse `json:"performance"`
	Rates          RatesResponse       `json:"rates"`
	Tags           []string            `json:"tags"`
	ScheduledAt    *time.Time          `json:"scheduledAt,omitempty"`
	StartDate      *time.Time          `json:"startDate,omitempty"`
	EndDate        *time.Time          `json:"endDate,omitempty"`
	LaunchedAt     *time.Time          `json:"launchedAt,omitempty"`
	CompletedAt    *time.Time          `json:"completedAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

type CampaignListResponse struct {
	Items      []CampaignResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

type AudienceLead struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Company  string    `json:"company,omitempty"`
	Industry string    `json:"industry,omitempty"`
	Status   string    `json:"status"`
	Score    int       `json:"score"`
}

type AudienceResponse struct {
	CampaignID          uuid.UUID      `json:"campaignId"`
	MatchedLeads        int            `json:"matchedLeads"`
	CostPerContactCents int64          `json:"costPerContactCents"`
	EstimatedCostCents  int64          `json:"estimatedCostCents"`
	Sample              []AudienceLead `json:"sample"`
}

type TemplatePreview struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type TemplateVariablesResponse struct {
	Variables []string        `json:"variables"`
	Available []string        `json:"available"`
	Unknown   []string        `json:"unknown"`
	Preview   TemplatePreview `json:"preview"`
}

type SendTestEmailResponse struct {
	Sent []string `json:"sent"`
}

type ReportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
