// Package dashboard exposes the read-only analytics views over leads and
// campaigns.
package dashboard

import (
	"github.com/covenantOS/serviceline-dashboard/internal/dashboard/handler"
	"github.com/covenantOS/serviceline-dashboard/internal/dashboard/service"
	apphttp "github.com/covenantOS/serviceline-dashboard/internal/http"
	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"
)

// Module is the dashboard module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the dashboard module over the given snapshot sources.
func NewModule(leads service.LeadSnapshotter, campaigns service.CampaignSnapshotter, val *validator.Validator, cfg config.AnalyticsConfig) *Module {
	svc := service.New(leads, campaigns, service.Settings{
		Location:   cfg.GetAnalyticsLocation(),
		WindowDays: cfg.GetAnalyticsWindowDays(),
		TopSources: cfg.GetAnalyticsTopSources(),
	})
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the dashboard service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/analytics"))
}

var _ apphttp.Module = (*Module)(nil)
