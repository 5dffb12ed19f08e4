package repository

import (
	"context"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"

	"github.com/google/uuid"
)

// CampaignReader provides read-only access to campaigns.
type CampaignReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Campaign, error)
	List(ctx context.Context, params ListParams) ([]domain.Campaign, int, error)
	ListAll(ctx context.Context) ([]domain.Campaign, error)
}

// CampaignWriter persists campaign changes.
type CampaignWriter interface {
	Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	// Save overwrites the stored campaign, provided it is still in status
	// expected. A campaign that moved on in the meantime yields ErrStatusChanged.
	Save(ctx context.Context, campaign domain.Campaign, expected domain.Status) (domain.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PerformanceWriter applies counter increments atomically.
type PerformanceWriter interface {
	IncrementPerformance(ctx context.Context, id uuid.UUID, delta domain.Performance, spentCents int64) (domain.Campaign, error)
}

// CampaignsRepository is the complete campaign store.
type CampaignsRepository interface {
	CampaignReader
	CampaignWriter
	PerformanceWriter
}

var _ CampaignsRepository = (*Repository)(nil)
