package fixtures

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	campaigndomain "github.com/covenantOS/serviceline-dashboard/internal/campaigns/domain"
	campaigntransport "github.com/covenantOS/serviceline-dashboard/internal/campaigns/transport"
	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	leadtransport "github.com/covenantOS/serviceline-dashboard/internal/leads/transport"
	"github.com/covenantOS/serviceline-dashboard/platform/logger"
	"github.com/covenantOS/serviceline-dashboard/platform/validator"

	"github.com/google/uuid"
)

type recordingLeads struct {
	created []leadtransport.CreateLeadRequest
}

func (r *recordingLeads) Create(_ context.Context, req leadtransport.CreateLeadRequest) (leadtransport.LeadResponse, error) {
	r.created = append(r.created, req)
	return leadtransport.LeadResponse{ID: uuid.New()}, nil
}

type recordingCampaigns struct {
	created     []campaigntransport.CreateCampaignRequest
	actions     []campaigndomain.Action
	performance map[uuid.UUID]campaigntransport.RecordPerformanceRequest
	ids         []uuid.UUID
	failCreate  error
}

func (r *recordingCampaigns) Create(_ context.Context, req campaigntransport.CreateCampaignRequest) (campaigntransport.CampaignResponse, error) {
	if r.failCreate != nil {
		return campaigntransport.CampaignResponse{}, r.failCreate
	}
	id := uuid.New()
	r.created = append(r.created, req)
	r.ids = append(r.ids, id)
	return campaigntransport.CampaignResponse{ID: id}, nil
}

func (r *recordingCampaigns) ApplyAction(_ context.Context, id uuid.UUID, action campaigndomain.Action) (campaigntransport.CampaignResponse, error) {
	r.actions = append(r.actions, action)
	return campaigntransport.CampaignResponse{ID: id}, nil
}

func (r *recordingCampaigns) RecordPerformance(_ context.Context, id uuid.UUID, req campaigntransport.RecordPerformanceRequest) (campaigntransport.CampaignResponse, error) {
	if r.performance == nil {
		r.performance = map[uuid.UUID]campaigntransport.RecordPerformanceRequest{}
	}
	r.performance[id] = req
	return campaigntransport.CampaignResponse{ID: id}, nil
}

func newValidator(t *testing.T) *validator.Validator {
	t.Helper()
	val := validator.New()
	if err := val.RegisterEnum("leadstatus", append(leaddomain.StatusNames(), "converted")...); err != nil {
		t.Fatalf("register leadstatus: %v", err)
	}
	if err := val.RegisterEnum("channel", campaigndomain.ChannelNames()...); err != nil {
		t.Fatalf("register channel: %v", err)
	}
	return val
}

func loadDemo(t *testing.T) *File {
	t.Helper()
	f, err := os.Open("testdata/demo.yaml")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	file, err := Load(f)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return file
}

func TestLoadDemo(t *testing.T) {
	file := loadDemo(t)

	if len(file.Campaigns) != 2 || len(file.Leads) != 3 {
		t.Fatalf("unexpected sizes: %d campaigns, %d leads", len(file.Campaigns), len(file.Leads))
	}
	spring := file.Campaigns[0]
	if spring.Targeting.ScoreMin == nil || *spring.Targeting.ScoreMin != 40 || spring.Targeting.ScoreMax != nil {
		t.Fatalf("unexpected score bounds: %+v", spring.Targeting)
	}
	if !strings.Contains(spring.Body, "{{company}}") {
		t.Fatalf("block scalar body lost: %q", spring.Body)
	}
	if file.Leads[0].Breakdown == nil || file.Leads[0].Breakdown.Engagement != 80 {
		t.Fatalf("breakdown not decoded: %+v", file.Leads[0])
	}
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown field":     "campaigns:\n  - key: a\n    nmae: typo\n",
		"missing key":       "campaigns:\n  - name: x\n",
		"duplicate key":     "campaigns:\n  - key: a\n  - key: a\n",
		"unknown action":    "campaigns:\n  - key: a\n    actions: [explode]\n",
		"schedule action":   "campaigns:\n  - key: a\n    actions: [schedule]\n",
		"dangling lead ref": "leads:\n  - name: x\n    email: x@example.com\n    campaign: nope\n",
	}
	for name, doc := range cases {
		if _, err := Load(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	file, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(file.Campaigns) != 0 || len(file.Leads) != 0 {
		t.Fatal("expected empty fixture")
	}
}

func TestSeedOrdersWrites(t *testing.T) {
	leads := &recordingLeads{}
	campaigns := &recordingCampaigns{}
	s := NewSeeder(leads, campaigns, newValidator(t), logger.Discard())

	res, err := s.Seed(context.Background(), loadDemo(t))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Campaigns != 2 || res.Leads != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(campaigns.actions) != 1 || campaigns.actions[0] != campaigndomain.ActionLaunch {
		t.Fatalf("unexpected actions: %v", campaigns.actions)
	}
	scoreRange := campaigns.created[0].Targeting.ScoreRange
	if scoreRange == nil || scoreRange.Min != 40 || scoreRange.Max != 100 {
		t.Fatalf("unexpected score range: %+v", scoreRange)
	}
	if campaigns.created[1].Targeting.ScoreRange != nil {
		t.Fatal("no score bounds means no range")
	}

	spring := campaigns.ids[0]
	if leads.created[0].CampaignID == nil || *leads.created[0].CampaignID != spring {
		t.Fatalf("lead not attributed to spring campaign")
	}
	if leads.created[2].CampaignID != nil {
		t.Fatal("unattributed lead must keep a nil campaign")
	}
	if leads.created[0].ScoreBreakdown == nil || leads.created[0].ScoreBreakdown.Fit != 60 {
		t.Fatalf("breakdown not mapped: %+v", leads.created[0].ScoreBreakdown)
	}

	perf, ok := campaigns.performance[spring]
	if !ok || perf.Sent != 1200 || perf.SpentCents != 125000 {
		t.Fatalf("unexpected performance: %+v", campaigns.performance)
	}
	if len(campaigns.performance) != 1 {
		t.Fatal("only campaigns with performance get a record")
	}
}

func TestSeedValidatesRequests(t *testing.T) {
	file, err := Load(strings.NewReader("leads:\n  - name: Bad\n    email: not-an-email\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	leads := &recordingLeads{}
	s := NewSeeder(leads, &recordingCampaigns{}, newValidator(t), logger.Discard())

	if _, err := s.Seed(context.Background(), file); err == nil {
		t.Fatal("expected validation error")
	}
	if len(leads.created) != 0 {
		t.Fatal("invalid lead must not be stored")
	}
}

func TestSeedStopsOnFailure(t *testing.T) {
	boom := errors.New("insert failed")
	s := NewSeeder(&recordingLeads{}, &recordingCampaigns{failCreate: boom}, newValidator(t), logger.Discard())

	res, err := s.Seed(context.Background(), loadDemo(t))
	if !errors.Is(err, boom) {
		t.Fatalf("expected create error, got %v", err)
	}
	if res.Campaigns != 0 || res.Leads != 0 {
		t.Fatalf("nothing should be counted: %+v", res)
	}
}
