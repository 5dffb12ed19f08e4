package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns"
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	"github.com/covenantOS/serviceline-dashboard/internal/leads"
	"github.com/covenantOS/serviceline-dashboard/internal/scheduler"
	"github.com/covenantOS/serviceline-dashboard/internal/webhook"
	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/db"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/retry"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	if hooks := webhook.NewDispatcher(cfg, log); hooks.Enabled() {
		hooks.Register(eventBus)
	}

	val := validator.New()

	// Worker-side campaign wiring (no HTTP handlers required).
	leadsModule, err := leads.NewModule(pool, eventBus, val, cfg)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}
	campaignsModule, err := campaigns.NewModule(pool, eventBus, val, leadsModule.ManagementService(), log)
	if err != nil {
		log.Error("failed to initialize campaigns module", "error", err)
		panic("failed to initialize campaigns module: " + err.Error())
	}
	campaignSvc := campaignsModule.ManagementService()

	// A scheduled launch may schedule the matching completion.
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()
	campaignSvc.SetScheduler(client)

	worker, err := scheduler.NewWorker(cfg, campaignSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
	log.Info("scheduler stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	_, err := retry.Do(ctx, retry.Policy{
		MaxAttempts: attempts,
		BaseDelay:   baseDelay,
		Backoff:     retry.Quadratic,
		OnRetry: func(attempt int, err error) {
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		},
	}, func(context.Context, int) error {
		return fn()
	})
	if err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}
