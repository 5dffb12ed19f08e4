package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type DailySeriesRequest struct {
	Days int `form:"days" validate:"omitempty,min=1,max=365"`
}

type LimitRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// Response DTOs
type StatsResponse struct {
	TotalLeads      int     `json:"totalLeads"`
	NewLeads        int     `json:"newLeads"`
	QualifiedLeads  int     `json:"qualifiedLeads"`
	WonLeads        int     `json:"wonLeads"`
	TotalValueCents int64   `json:"totalValueCents"`
	WonValueCents   int64   `json:"wonValueCents"`
	ConversionRate  float64 `json:"conversionRate"`
	AverageScore    float64 `json:"averageScore"`
}

type GrowthResponse struct {
	NewThisMonth int     `json:"newThisMonth"`
	NewLastMonth int     `json:"newLastMonth"`
	GrowthRate   float64 `json:"growthRate"`
}

type DashboardResponse struct {
	Stats       StatsResponse   `json:"stats"`
	Revenue     RevenueResponse `json:"revenue"`
	Growth      GrowthResponse  `json:"growth"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

type DailyBucket struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DailySeriesResponse struct {
	Days    int           `json:"days"`
	Buckets []DailyBucket `json:"buckets"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

type StatusDistributionResponse struct {
	Items []StatusCount `json:"items"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type TopSourcesResponse struct {
	Items []SourceCount `json:"items"`
}

type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

type IndustryDistributionResponse struct {
	Items []IndustryCount `json:"items"`
}

type RevenueResponse struct {
	WonValueCents      int64 `json:"wonValueCents"`
	PipelineValueCents int64 `json:"pipelineValueCents"`
	TotalValueCents    int64 `json:"totalValueCents"`
}

type ScoreBand struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ScoreDistributionResponse struct {
	AverageScore float64     `json:"averageScore"`
	Items        []ScoreBand `json:"items"`
}

type RatesResponse struct {
	OpenRate       float64 `json:"openRate"`
	ClickRate      float64 `json:"clickRate"`
	ConversionRate float64 `json:"conversionRate"`
	ReplyRate      float64 `json:"replyRate"`
	DeliveryRate   float64 `json:"deliveryRate"`
	BounceRate     float64 `json:"bounceRate"`
}

type PerformanceTotals struct {
	Sent         int64 `json:"sent"`
	Delivered    int64 `json:"delivered"`
	Bounced      int64 `json:"bounced"`
	Opened       int64 `json:"opened"`
	Clicked      int64 `json:"clicked"`
	Replied      int64 `json:"replied"`
	Converted    int64 `json:"converted"`
	Unsubscribed int64 `json:"unsubscribed"`
}

type CampaignSummaryResponse struct {
	TotalCampaigns  int               `json:"totalCampaigns"`
	ActiveCampaigns int               `json:"activeCampaigns"`
	ByStatus        map[string]int    `json:"byStatus"`
	Totals          PerformanceTotals `json:"totals"`
	Rates           RatesResponse     `json:"rates"`
	BudgetCents     int64             `json:"budgetCents"`
	SpentCents      int64             `json:"spentCents"`
	BudgetUsed      float64           `json:"budgetUsed"`
	AttributedLeads int               `json:"attributedLeads"`
	RevenueCents    int64             `json:"revenueCents"`
	ROI             float64           `json:"roi"`
	Profitable      bool              `json:"profitable"`
}

type CampaignReportResponse struct {
	CampaignID         uuid.UUID         `json:"campaignId"`
	Name               string            `json:"name"`
	Status             string            `json:"status"`
	Performance        PerformanceTotals `json:"performance"`
	Rates              RatesResponse     `json:"rates"`
	BudgetCents        int64             `json:"budgetCents"`
	SpentCents         int64             `json:"spentCents"`
	BudgetUsed         float64           `json:"budgetUsed"`
	AttributedLeads    int               `json:"attributedLeads"`
	WonLeads           int               `json:"wonLeads"`
	RevenueCents       int64             `json:"revenueCents"`
	ROI                float64           `json:"roi"`
	Profitable         bool              `json:"profitable"`
	CostPerLeadCents   int64             `json:"costPerLeadCents"`
	LeadConversionRate float64           `json:"leadConversionRate"`
}

type OverviewResponse struct {
	Dashboard  DashboardResponse            `json:"dashboard"`
	Daily      DailySeriesResponse          `json:"daily"`
	Status     StatusDistributionResponse   `json:"status"`
	Sources    TopSourcesResponse           `json:"sources"`
	Industries IndustryDistributionResponse `json:"industries"`
	Scores     ScoreDistributionResponse    `json:"scores"`
	Campaigns  CampaignSummaryResponse      `json:"campaigns"`
}
