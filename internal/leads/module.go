// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	apphttp "github.com/covenantOS/serviceline-dashboard/internal/http"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/handler"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/management"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/repository"
	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/phone"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.LeadConfig) (*Module, error) {
	if err := RegisterValidations(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	mgmtSvc := management.New(repo, eventBus, phone.NewNormalizer(cfg.GetPhoneDefaultRegion()))

	return &Module{
		handler:    handler.New(mgmtSvc, val),
		management: mgmtSvc,
	}, nil
}

// RegisterValidations adds the lead enum tags used by the request DTOs.
func RegisterValidations(val *validator.Validator) error {
	statuses := append(domain.StatusNames(), "converted")
	if err := val.RegisterEnum("leadstatus", statuses...); err != nil {
		return err
	}
	return val.RegisterEnum("activitytype", domain.ActivityTypeNames()...)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
