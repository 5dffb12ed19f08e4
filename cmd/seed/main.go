// Command seed loads demo leads and campaigns from a YAML fixture into the
// database through the same services the API uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns"
	"github.com/covenantOS/serviceline-dashboard/internal/events"
	"github.com/covenantOS/serviceline-dashboard/internal/fixtures"
	"github.com/covenantOS/serviceline-dashboard/internal/leads"
	"github.com/covenantOS/serviceline-dashboard/migrations"
	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/db"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/retry"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	fixturePath string
	migrate     bool
	dryRun      bool
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Load demo leads and campaigns",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&fixturePath, "file", "f", "fixtures/demo.yaml", "fixture file to load")
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before seeding")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "check the fixture file without writing")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	file, err := readFixture(fixturePath)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d campaigns, %d leads\n", fixturePath, len(file.Campaigns), len(file.Leads))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Env)

	if migrate {
		if err := db.RunMigrations(ctx, cfg, migrations.FS, log); err != nil {
			return err
		}
	}

	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Seeding publishes the usual domain events; nothing subscribes here.
	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	leadsModule, err := leads.NewModule(pool, eventBus, val, cfg)
	if err != nil {
		return fmt.Errorf("init leads module: %w", err)
	}
	campaignsModule, err := campaigns.NewModule(pool, eventBus, val, leadsModule.ManagementService(), log)
	if err != nil {
		return fmt.Errorf("init campaigns module: %w", err)
	}

	seeder := fixtures.NewSeeder(leadsModule.ManagementService(), campaignsModule.ManagementService(), val, log)
	started := time.Now()
	res, err := seeder.Seed(ctx, file)
	eventBus.Wait()
	if err != nil {
		log.Error("seed failed", "error", err, "campaigns", res.Campaigns, "leads", res.Leads)
		return err
	}

	log.Info("seed complete", "file", fixturePath, "campaigns", res.Campaigns, "leads", res.Leads, "duration", time.Since(started))
	return nil
}

func readFixture(path string) (*fixtures.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := fixtures.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

func connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	_, err := retry.Do(ctx, retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Backoff:     retry.Quadratic,
		OnRetry: func(attempt int, err error) {
			log.Warn("retryable operation failed", "operation", "database connection", "attempt", attempt, "error", err)
		},
	}, func(ctx context.Context, _ int) error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, errors.New("database connection: " + err.Error())
	}
	return pool, nil
}
