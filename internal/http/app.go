// Package http holds the composition types shared by the binaries and the
// router.
package http

import (
	"context"

	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
)

// HealthChecker backs /api/ready. The pgx pool satisfies it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is what cmd/api assembles before building the router.
type App struct {
	Config  config.HTTPConfig
	Logger  *logger.Logger
	Health  HealthChecker // nil means always ready
	Modules []Module
}
