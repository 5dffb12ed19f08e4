package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/adapters"
	"github.com/covenantOS/serviceline-dashboard/internal/adapters/storage"
	"github.com/covenantOS/serviceline-dashboard/internal/campaigns"
	"github.com/covenantOS/serviceline-dashboard/internal/dashboard"
	"github.com/covenantOS/serviceline-dashboard/internal/email"
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	apphttp "github.com/covenantOS/serviceline-dashboard/internal/http"
	"github.com/covenantOS/serviceline-dashboard/internal/http/router"
	"github.com/covenantOS/serviceline-dashboard/internal/leads"
	"github.com/covenantOS/serviceline-dashboard/internal/scheduler"
	"github.com/covenantOS/serviceline-dashboard/internal/webhook"
	"github.com/covenantOS/serviceline-dashboard/migrations"
	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/db"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/retry"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, log)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	hooks := webhook.NewDispatcher(cfg, log)
	if hooks.Enabled() {
		hooks.Register(eventBus)
		log.Info("webhook delivery enabled", "targets", len(cfg.GetWebhookURLs()))
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

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

	campaignScheduler, closeScheduler := initCampaignScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
		campaignSvc.SetScheduler(campaignScheduler)
	}

	if sender := initEmailSender(cfg, log); sender != nil {
		campaignSvc.SetEmailSender(sender)
	}

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketCampaignReports()
		ensureBucket(ctx, log, storageSvc, bucket)
		campaignSvc.SetReportStore(adapters.NewCampaignReportStore(storageSvc, bucket))
		log.Info("storage service initialized", "campaignReportsBucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; campaign report exports disabled")
	}

	dashboardModule := dashboard.NewModule(leadsModule.ManagementService(), campaignSvc, val, cfg)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			leadsModule,
			campaignsModule,
			dashboardModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	// let in-flight webhook deliveries finish before the pool closes
	eventBus.Wait()
	log.Info("server stopped")
}

func initCampaignScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; scheduled campaign launches disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize campaign scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func initEmailSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if cfg.IsEmailEnabled() {
		log.Info("smtp delivery enabled", "host", cfg.GetSMTPHost())
		return email.NewSMTPSender(cfg)
	}
	if cfg.Env == "development" {
		log.Warn("SMTP_HOST not configured; campaign emails are logged only")
		return email.NewNoopSender(log)
	}
	log.Warn("SMTP_HOST not configured; campaign test sends disabled")
	return nil
}

// ensureBucket verifies a MinIO bucket exists, retrying while MinIO starts.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, bucket string) {
	if err := withRetry(ctx, log, "ensure "+bucket+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
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
