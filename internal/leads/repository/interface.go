package repository

import (
	"context"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

// LeadStreamer walks every matching lead without pagination.
type LeadStreamer interface {
	Stream(ctx context.Context, params ListParams, fn func(domain.Lead) error) error
}

// ActivityStore records and reads the lead timeline.
type ActivityStore interface {
	AddActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	ListActivities(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	LeadStreamer
	ActivityStore
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
