// Package campaigns provides the campaign bounded context module.
package campaigns

import (
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/handler"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/management"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/repository"
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	apphttp "github.com/covenantOS/serviceline-dashboard/internal/http"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
}

// NewModule creates the campaigns module. Scheduling, email and report
// storage are attached afterwards through the management service setters.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, leads management.LeadSource, log *logger.Logger) (*Module, error) {
	if err := RegisterValidations(val); err != nil {
		return nil, err
	}

	mgmtSvc := management.New(repository.New(pool), eventBus, leads, log)
	return &Module{
		handler:    handler.New(mgmtSvc, val),
		management: mgmtSvc,
	}, nil
}

// RegisterValidations adds the campaign enum tags used by the request DTOs.
func RegisterValidations(val *validator.Validator) error {
	if err := val.RegisterEnum("campaignstatus", domain.StatusNames()...); err != nil {
		return err
	}
	if err := val.RegisterEnum("channel", domain.ChannelNames()...); err != nil {
		return err
	}
	return val.RegisterEnum("leadstatus", append(leaddomain.StatusNames(), "converted")...)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// ManagementService returns the campaign management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RegisterRoutes mounts campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/campaigns"))
}

var _ apphttp.Module = (*Module)(nil)
