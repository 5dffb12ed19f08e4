package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// CampaignRunner executes queued campaign transitions.
type CampaignRunner interface {
	RunScheduledAction(ctx context.Context, id uuid.UUID, action domain.Action, runAt time.Time) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	campaigns CampaignRunner
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, campaigns CampaignRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	return newWorker(server, campaigns, log), nil
}

func newWorker(server *asynq.Server, campaigns CampaignRunner, log *logger.Logger) *Worker {
	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		campaigns: campaigns,
		log:       log,
	}
	w.mux.HandleFunc(TaskCampaignLaunch, w.campaignHandler(domain.ActionLaunch))
	w.mux.HandleFunc(TaskCampaignComplete, w.campaignHandler(domain.ActionComplete))
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) campaignHandler(action domain.Action) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseCampaignTaskPayload(task)
		if err != nil {
			return fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}

		campaignID, err := uuid.Parse(payload.CampaignID)
		if err != nil {
			return fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}

		if taskID, ok := asynq.GetTaskID(ctx); ok {
			ctx = context.WithValue(ctx, logger.TaskIDKey, taskID)
		}

		if err := w.campaigns.RunScheduledAction(ctx, campaignID, action, payload.RunAt); err != nil {
			w.log.WithContext(ctx).Error("scheduled campaign action failed", "campaignId", campaignID, "action", action, "error", err)
			return err
		}
		return nil
	}
}
