package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/events"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"

	"github.com/google/uuid"
)

type webhookConfig struct {
	urls   []string
	secret string
}

func (c webhookConfig) GetWebhookURLs() []string            { return c.urls }
func (c webhookConfig) GetWebhookSecret() string            { return c.secret }
func (c webhookConfig) GetWebhookMaxAttempts() int          { return 3 }
func (c webhookConfig) GetWebhookRetryDelay() time.Duration { return time.Millisecond }
func (c webhookConfig) GetWebhookTimeout() time.Duration    { return time.Second }

func newEvent() events.LeadDeleted {
	return events.LeadDeleted{BaseEvent: events.NewBaseEvent(), LeadID: uuid.New()}
}

func TestDispatcherSignsAndPosts(t *testing.T) {
	var got struct {
		body      []byte
		signature string
		event     string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.body, _ = io.ReadAll(r.Body)
		got.signature = r.Header.Get(HeaderSignature)
		got.event = r.Header.Get(HeaderEvent)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := NewDispatcher(webhookConfig{urls: []string{srv.URL}, secret: "s3cret"}, logger.Discard())
	event := newEvent()
	if err := d.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got.event != "lead.deleted" {
		t.Fatalf("unexpected event header %q", got.event)
	}
	if got.signature != Sign([]byte("s3cret"), got.body) {
		t.Fatalf("signature mismatch: %q", got.signature)
	}

	var envelope struct {
		ID    string          `json:"id"`
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(got.body, &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.ID != event.ID.String() || envelope.Event != "lead.deleted" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	var data struct {
		LeadID uuid.UUID `json:"leadId"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.LeadID != event.LeadID {
		t.Fatalf("unexpected data: %s", envelope.Data)
	}
}

func TestDispatcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(webhookConfig{urls: []string{srv.URL}}, logger.Discard())
	if err := d.Handle(context.Background(), newEvent()); err != nil {
		t.Fatalf("expected success on third attempt: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestDispatcherDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get(HeaderSignature) != "" {
			t.Error("no signature expected without a secret")
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := NewDispatcher(webhookConfig{urls: []string{srv.URL}}, logger.Discard())
	if err := d.Handle(context.Background(), newEvent()); err == nil {
		t.Fatal("expected delivery error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := NewDispatcher(webhookConfig{urls: []string{srv.URL}}, logger.Discard())
	if err := d.Handle(context.Background(), newEvent()); err == nil {
		t.Fatal("expected delivery error")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestRegisterSubscribesToEveryEvent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	bus := events.NewInMemoryBus(logger.Discard())
	NewDispatcher(webhookConfig{urls: []string{srv.URL}}, logger.Discard()).Register(bus)

	bus.Publish(context.Background(), newEvent())
	bus.Publish(context.Background(), events.CampaignDeleted{BaseEvent: events.NewBaseEvent(), CampaignID: uuid.New()})
	bus.Wait()

	if calls.Load() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", calls.Load())
	}
}

func TestDisabledDispatcherDoesNotSubscribe(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	d := NewDispatcher(webhookConfig{}, logger.Discard())
	d.Register(bus)

	if d.Enabled() {
		t.Fatal("dispatcher without urls must be disabled")
	}
	if err := bus.PublishSync(context.Background(), newEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
