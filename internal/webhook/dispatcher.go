// Package webhook forwards domain events to external HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/events"
	"github.com/covenantOS/serviceline-dashboard/platform/config"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/retry"
)

const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderEvent     = "X-Webhook-Event"
	HeaderDelivery  = "X-Webhook-Delivery"

	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
	defaultTimeout     = 30 * time.Second
)

// Envelope is the JSON body posted for every event.
type Envelope struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Dispatcher posts every published event to the configured URLs.
type Dispatcher struct {
	urls    []string
	secret  []byte
	client  *http.Client
	timeout time.Duration
	policy  retry.Policy
	log     *logger.Logger
}

// NewDispatcher creates a dispatcher from the webhook settings.
func NewDispatcher(cfg config.WebhookConfig, log *logger.Logger) *Dispatcher {
	maxAttempts := cfg.GetWebhookMaxAttempts()
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	delay := cfg.GetWebhookRetryDelay()
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	timeout := cfg.GetWebhookTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Dispatcher{
		urls:    cfg.GetWebhookURLs(),
		secret:  []byte(cfg.GetWebhookSecret()),
		client:  &http.Client{},
		timeout: timeout,
		policy: retry.Policy{
			MaxAttempts: maxAttempts,
			BaseDelay:   delay,
			Backoff:     retry.Linear,
		},
		log: log,
	}
}

// Enabled reports whether any endpoint is configured.
func (d *Dispatcher) Enabled() bool {
	return len(d.urls) > 0
}

// Register subscribes the dispatcher to every event on bus.
func (d *Dispatcher) Register(bus events.Bus) {
	if !d.Enabled() {
		return
	}
	bus.Subscribe(events.Wildcard, d)
}

// Handle delivers event to every endpoint and joins the failures.
func (d *Dispatcher) Handle(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(Envelope{
		ID:         event.EventID().String(),
		Event:      event.EventName(),
		OccurredAt: event.OccurredAt(),
		Data:       event,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var errs []error
	for _, url := range d.urls {
		attempts, err := d.deliver(ctx, url, event, body)
		d.log.WithContext(ctx).EventDispatch(event.EventName(), url, attempts, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("webhook %s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, url string, event events.Event, body []byte) (int, error) {
	return retry.Do(ctx, d.policy, func(ctx context.Context, _ int) error {
		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderEvent, event.EventName())
		req.Header.Set(HeaderDelivery, event.EventID().String())
		if len(d.secret) > 0 {
			req.Header.Set(HeaderSignature, Sign(d.secret, body))
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		return classify(resp.StatusCode)
	})
}

// classify maps a response status onto a delivery outcome. Server errors and
// throttling are retried; other non-2xx answers are final.
func classify(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("endpoint answered %d", status)
	default:
		return retry.Permanent(fmt.Errorf("endpoint rejected delivery with %d", status))
	}
}

// Sign returns the signature header value for body: "sha256=" followed by the
// hex HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

var _ events.Handler = (*Dispatcher)(nil)
