package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/covenantOS/serviceline-dashboard/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleCampaignLaunch enqueues the launch of a scheduled campaign at runAt.
func (c *Client) ScheduleCampaignLaunch(ctx context.Context, campaignID uuid.UUID, runAt time.Time) error {
	task, err := NewCampaignLaunchTask(CampaignTaskPayload{CampaignID: campaignID.String(), RunAt: runAt})
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, runAt)
}

// ScheduleCampaignCompletion enqueues the completion of a running campaign at
// its end date.
func (c *Client) ScheduleCampaignCompletion(ctx context.Context, campaignID uuid.UUID, runAt time.Time) error {
	task, err := NewCampaignCompleteTask(CampaignTaskPayload{CampaignID: campaignID.String(), RunAt: runAt})
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, runAt)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
