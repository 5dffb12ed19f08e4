package domain

import (
	"errors"
	"slices"
	"strings"

	leaddomain "github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

// ScoreRange is a closed interval [Min, Max] of lead scores.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FullScoreRange admits every lead.
var FullScoreRange = ScoreRange{Min: leaddomain.MinScore, Max: leaddomain.MaxScore}

// Validate checks 0 ≤ Min ≤ Max ≤ 100.
func (r ScoreRange) Validate() error {
	if r.Min < leaddomain.MinScore || r.Max > leaddomain.MaxScore {
		return errors.New("score range must lie within 0 and 100")
	}
	if r.Min > r.Max {
		return errors.New("score range minimum must not exceed maximum")
	}
	return nil
}

// Contains reports whether score lies in the closed interval.
func (r ScoreRange) Contains(score int) bool {
	return score >= r.Min && score <= r.Max
}

// IsFull reports whether the range admits every score.
func (r ScoreRange) IsFull() bool {
	return r == FullScoreRange
}

// Targeting selects the leads a campaign is aimed at. Empty lists match everything.
type Targeting struct {
	Industries []string
	Locations  []string
	Countries  []string
	Statuses   []leaddomain.Status
	Tags       []string
	ScoreRange ScoreRange
}

// HasCriteria reports whether at least one criterion narrows the audience.
func (t Targeting) HasCriteria() bool {
	return len(t.Industries) > 0 ||
		len(t.Locations) > 0 ||
		len(t.Countries) > 0 ||
		len(t.Statuses) > 0 ||
		len(t.Tags) > 0 ||
		!t.ScoreRange.IsFull()
}

// Matches reports whether lead falls inside the targeting criteria.
// String criteria compare case-insensitively; a lead matches Tags when it
// carries any of them.
func (t Targeting) Matches(lead leaddomain.Lead) bool {
	if !t.ScoreRange.Contains(lead.Score) {
		return false
	}
	if len(t.Industries) > 0 && !containsFold(t.Industries, lead.Industry) {
		return false
	}
	if len(t.Locations) > 0 && !containsFold(t.Locations, lead.Location) {
		return false
	}
	if len(t.Countries) > 0 && !containsFold(t.Countries, lead.Country) {
		return false
	}
	if len(t.Statuses) > 0 && !slices.Contains(t.Statuses, lead.Status) {
		return false
	}
	if len(t.Tags) > 0 && !slices.ContainsFunc(lead.Tags, func(tag string) bool {
		return containsFold(t.Tags, tag)
	}) {
		return false
	}
	return true
}

func containsFold(values []string, candidate string) bool {
	for _, v := range values {
		if strings.EqualFold(v, candidate) {
			return true
		}
	}
	return false
}
