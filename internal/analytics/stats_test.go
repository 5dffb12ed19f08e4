package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

func cents(v int64) *int64 { return &v }

func TestComputeDashboardStatsWonAndMissingValue(t *testing.T) {
	leads := []domain.Lead{
		{Status: domain.StatusWon, ValueCents: cents(50000)},
		{Status: domain.StatusNew},
	}

	stats := ComputeDashboardStats(leads)

	if stats.TotalLeads != 2 {
		t.Fatalf("expected 2 leads, got %d", stats.TotalLeads)
	}
	if stats.WonLeads != 1 || stats.NewLeads != 1 || stats.QualifiedLeads != 0 {
		t.Fatalf("unexpected status counts %+v", stats)
	}
	if stats.TotalValueCents != 50000 || stats.WonValueCents != 50000 {
		t.Fatalf("unexpected values %+v", stats)
	}
	if stats.ConversionRate != 50.0 {
		t.Fatalf("expected conversion rate 50, got %v", stats.ConversionRate)
	}
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	stats := ComputeDashboardStats(nil)
	if stats != (DashboardStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestConversionRateBounded(t *testing.T) {
	sets := [][]domain.Lead{
		{{Status: domain.StatusWon}},
		{{Status: domain.StatusWon}, {Status: domain.StatusWon}, {Status: domain.StatusLost}},
		{{Status: domain.StatusLost}, {Status: domain.StatusContacted}},
	}
	for i, leads := range sets {
		stats := ComputeDashboardStats(leads)
		if stats.TotalLeads != len(leads) {
			t.Errorf("set %d: expected total %d, got %d", i, len(leads), stats.TotalLeads)
		}
		if stats.ConversionRate < 0 || stats.ConversionRate > 100 {
			t.Errorf("set %d: conversion rate %v out of range", i, stats.ConversionRate)
		}
	}
}

func TestComputeDashboardStatsDoesNotMutateInput(t *testing.T) {
	leads := []domain.Lead{{Status: domain.StatusWon, ValueCents: cents(10)}}
	_ = ComputeDashboardStats(leads)
	if *leads[0].ValueCents != 10 || leads[0].Status != domain.StatusWon {
		t.Fatalf("input was mutated: %+v", leads[0])
	}
}

func TestComputeRevenueBreakdown(t *testing.T) {
	leads := []domain.Lead{
		{Status: domain.StatusWon, ValueCents: cents(50000)},
		{Status: domain.StatusProposal, ValueCents: cents(20000)},
		{Status: domain.StatusQualified},
	}

	got := ComputeRevenueBreakdown(leads)
	want := RevenueBreakdown{WonValueCents: 50000, PipelineValueCents: 20000, TotalValueCents: 70000}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.TotalValueCents != got.WonValueCents+got.PipelineValueCents {
		t.Fatalf("total must equal won plus pipeline")
	}
}

func TestComputeAverageScore(t *testing.T) {
	if got := ComputeAverageScore(nil); got != 0 {
		t.Fatalf("expected 0 for no leads, got %v", got)
	}
	leads := []domain.Lead{{Score: 80}, {Score: 71}, {Score: 60}}
	if got := ComputeAverageScore(leads); math.Abs(got-70.3) > 1e-9 {
		t.Fatalf("expected 70.3, got %v", got)
	}
}

func TestComputeGrowth(t *testing.T) {
	ref := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	leads := []domain.Lead{
		{CreatedAt: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)},
	}

	g := ComputeGrowth(leads, ref)
	if g.NewThisMonth != 3 || g.NewLastMonth != 2 {
		t.Fatalf("unexpected counts %+v", g)
	}
	if g.GrowthRate != 50 {
		t.Fatalf("expected growth 50, got %v", g.GrowthRate)
	}

	g = ComputeGrowth(leads[:1], ref)
	if g.GrowthRate != 0 {
		t.Fatalf("expected 0 growth without a previous month, got %v", g.GrowthRate)
	}
}
