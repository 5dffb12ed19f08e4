package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/events"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/management"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/repository"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memoryRepo struct {
	leads []domain.Lead
}

func (r *memoryRepo) Create(_ context.Context, lead domain.Lead) (domain.Lead, error) {
	lead.ID = uuid.New()
	lead.CreatedAt = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	lead.UpdatedAt = lead.CreatedAt
	r.leads = append(r.leads, lead)
	return lead, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	for _, lead := range r.leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return domain.Lead{}, repository.ErrNotFound
}

func (r *memoryRepo) List(_ context.Context, _ repository.ListParams) ([]domain.Lead, int, error) {
	return r.leads, len(r.leads), nil
}

func (r *memoryRepo) Update(ctx context.Context, id uuid.UUID, _ repository.UpdateLeadParams) (domain.Lead, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.GetByID(ctx, id)
	return err
}

func (r *memoryRepo) BulkDelete(_ context.Context, _ []uuid.UUID) (int, error) {
	return 0, nil
}

func (r *memoryRepo) Stream(_ context.Context, _ repository.ListParams, fn func(domain.Lead) error) error {
	for _, lead := range r.leads {
		if err := fn(lead); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryRepo) AddActivity(_ context.Context, activity domain.Activity) (domain.Activity, error) {
	activity.ID = uuid.New()
	return activity, nil
}

func (r *memoryRepo) ListActivities(_ context.Context, _ uuid.UUID) ([]domain.Activity, error) {
	return nil, nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event)           {}
func (nopBus) PublishSync(context.Context, events.Event) error { return nil }
func (nopBus) Subscribe(string, events.Handler)                {}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	val := validator.New()
	statuses := append(domain.StatusNames(), "converted")
	if err := val.RegisterEnum("leadstatus", statuses...); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := val.RegisterEnum("activitytype", domain.ActivityTypeNames()...); err != nil {
		t.Fatalf("register: %v", err)
	}

	repo := &memoryRepo{}
	svc := management.New(repo, nopBus{}, nil)

	engine := gin.New()
	New(svc, val).RegisterRoutes(engine.Group("/leads"))
	return engine, repo
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateLead(t *testing.T) {
	engine, repo := newTestRouter(t)

	rec := do(engine, http.MethodPost, "/leads", `{"name":"Ada","email":"ada@example.com","status":"qualified","score":82}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status     string `json:"status"`
		ScoreLabel string `json:"scoreLabel"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "qualified" || body.ScoreLabel != "Hot" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(repo.leads) != 1 {
		t.Fatalf("expected one stored lead, got %d", len(repo.leads))
	}
}

func TestCreateLeadValidation(t *testing.T) {
	engine, _ := newTestRouter(t)

	cases := map[string]string{
		"malformed":      `{"name":`,
		"missing email":  `{"name":"Ada"}`,
		"bad status":     `{"name":"Ada","email":"ada@example.com","status":"archived"}`,
		"score too high": `{"name":"Ada","email":"ada@example.com","score":101}`,
	}
	for name, payload := range cases {
		rec := do(engine, http.MethodPost, "/leads", payload)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestGetLeadBadID(t *testing.T) {
	engine, _ := newTestRouter(t)

	if rec := do(engine, http.MethodGet, "/leads/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodGet, "/leads/"+uuid.NewString(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListLeadsRejectsBadSort(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := do(engine, http.MethodGet, "/leads?sortBy=password", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExportLeadsCSV(t *testing.T) {
	engine, _ := newTestRouter(t)
	do(engine, http.MethodPost, "/leads", `{"name":"Ada","email":"ada@example.com"}`)

	rec := do(engine, http.MethodGet, "/leads/export?format=csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment; filename=leads-") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
}
