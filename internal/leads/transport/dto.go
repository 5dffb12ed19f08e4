package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type ScoreBreakdown struct {
	Engagement  int `json:"engagement" validate:"min=0,max=100"`
	Demographic int `json:"demographic" validate:"min=0,max=100"`
	Behavioral  int `json:"behavioral" validate:"min=0,max=100"`
	Fit         int `json:"fit" validate:"min=0,max=100"`
}

type CreateLeadRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Email          string          `json:"email" validate:"required,email,max=254"`
	Phone          string          `json:"phone,omitempty" validate:"omitempty,max=40,phone"`
	Company        string          `json:"company,omitempty" validate:"max=200"`
	JobTitle       string          `json:"jobTitle,omitempty" validate:"max=200"`
	Industry       string          `json:"industry,omitempty" validate:"max=100"`
	Location       string          `json:"location,omitempty" validate:"max=200"`
	Country        string          `json:"country,omitempty" validate:"max=100"`
	Source         string          `json:"source,omitempty" validate:"max=100"`
	Tags           []string        `json:"tags,omitempty" validate:"max=25,dive,max=50"`
	Status         string          `json:"status,omitempty" validate:"omitempty,leadstatus"`
	Score          *int            `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	ScoreBreakdown *ScoreBreakdown `json:"scoreBreakdown,omitempty"`
	ValueCents     *int64          `json:"valueCents,omitempty" validate:"omitempty,min=0"`
	CampaignID     *uuid.UUID      `json:"campaignId,omitempty"`
	Notes          string          `json:"notes,omitempty" validate:"max=5000"`
}

type UpdateLeadRequest struct {
	Name           *string                  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string                  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone          *string                  `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company        *string                  `json:"company,omitempty" validate:"omitempty,max=200"`
	JobTitle       *string                  `json:"jobTitle,omitempty" validate:"omitempty,max=200"`
	Industry       *string                  `json:"industry,omitempty" validate:"omitempty,max=100"`
	Location       *string                  `json:"location,omitempty" validate:"omitempty,max=200"`
	Country        *string                  `json:"country,omitempty" validate:"omitempty,max=100"`
	Source         *string                  `json:"source,omitempty" validate:"omitempty,max=100"`
	Tags           *[]string                `json:"tags,omitempty" validate:"omitempty,max=25,dive,max=50"`
	Status         *string                  `json:"status,omitempty" validate:"omitempty,leadstatus"`
	Score          *int                     `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	ScoreBreakdown Optional[ScoreBreakdown] `json:"scoreBreakdown,omitempty" validate:"-"`
	ValueCents     Optional[int64]          `json:"valueCents,omitempty" validate:"-"`
	CampaignID     OptionalUUID             `json:"campaignId,omitempty" validate:"-"`
	Notes          *string                  `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type BulkDeleteLeadsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
}

type AddActivityRequest struct {
	Type        string         `json:"type" validate:"required,activitytype"`
	Description string         `json:"description" validate:"required,min=1,max=2000"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type ListLeadsRequest struct {
	Status      string `form:"status" validate:"omitempty,leadstatus"`
	Source      string `form:"source" validate:"max=100"`
	Industry    string `form:"industry" validate:"max=100"`
	CampaignID  string `form:"campaignId" validate:"omitempty,uuid"`
	Tag         string `form:"tag" validate:"max=50"`
	Search      string `form:"search" validate:"max=100"`
	ScoreMin    *int   `form:"scoreMin" validate:"omitempty,min=0,max=100"`
	ScoreMax    *int   `form:"scoreMax" validate:"omitempty,min=0,max=100"`
	CreatedFrom string `form:"createdFrom" validate:"omitempty,datetime=2006-01-02"`
	CreatedTo   string `form:"createdTo" validate:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" validate:"omitempty,min=1"`
	PageSize    int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy      string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt name email company status score value lastContactAt"`
	SortOrder   string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type ExportLeadsRequest struct {
	ListLeadsRequest
	Format string `form:"format" validate:"omitempty,oneof=csv json"`
}

// Response DTOs
type ScoreBreakdownResponse struct {
	Engagement  int `json:"engagement"`
	Demographic int `json:"demographic"`
	Behavioral  int `json:"behavioral"`
	Fit         int `json:"fit"`
}

type LeadResponse struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Email          string                  `json:"email"`
	Phone          string                  `json:"phone,omitempty"`
	Company        string                  `json:"company,omitempty"`
	JobTitle       string                  `json:"jobTitle,omitempty"`
	Industry       string                  `json:"industry,omitempty"`
	Location       string                  `json:"location,omitempty"`
	Country        string                  `json:"country,omitempty"`
	Source         string                  `json:"source,omitempty"`
	Tags           []string                `json:"tags"`
	Status         string                  `json:"status"`
	Score          int                     `json:"score"`
	ScoreLabel     string                  `json:"scoreLabel"`
	ScoreBreakdown *ScoreBreakdownResponse `json:"scoreBreakdown,omitempty"`
	ValueCents     *int64                  `json:"valueCents,omitempty"`
	CampaignID     *uuid.UUID              `json:"campaignId,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
	LastContactAt  *time.Time              `json:"lastContactAt,omitempty"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type BulkDeleteLeadsResponse struct {
	DeletedCount int `json:"deletedCount"`
}

type ActivityResponse struct {
	ID          uuid.UUID      `json:"id"`
	LeadID      uuid.UUID      `json:"leadId"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
}

type LeadScoreResponse struct {
	LeadID    uuid.UUID               `json:"leadId"`
	Score     int                     `json:"score"`
	Label     string                  `json:"label"`
	Breakdown *ScoreBreakdownResponse `json:"breakdown,omitempty"`
	Weights   map[string]float64      `json:"weights"`
}
