package analytics

import (
	"slices"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

// DefaultTopSources is the number of sources reported when no limit is given.
const DefaultTopSources = 5

// StatusColors are the chart colors per lead status.
var StatusColors = map[domain.Status]string{
	domain.StatusNew:       "#3b82f6",
	domain.StatusContacted: "#eab308",
	domain.StatusQualified: "#8b5cf6",
	domain.StatusProposal:  "#f97316",
	domain.StatusWon:       "#10b981",
	domain.StatusLost:      "#ef4444",
}

// StatusCount is one slice of the status chart.
type StatusCount struct {
	Status domain.Status
	Count  int
	Color  string
}

// ComputeStatusDistribution counts leads for each status in statuses, keeping
// the given order. Statuses without a known color are omitted. A nil list
// means every status in pipeline order.
func ComputeStatusDistribution(leads []domain.Lead, statuses []domain.Status) []StatusCount {
	if statuses == nil {
		statuses = domain.Statuses
	}

	counts := make(map[domain.Status]int, len(statuses))
	for _, lead := range leads {
		counts[lead.Status]++
	}

	out := make([]StatusCount, 0, len(statuses))
	for _, status := range statuses {
		color, ok := StatusColors[status]
		if !ok {
			continue
		}
		out = append(out, StatusCount{Status: status, Count: counts[status], Color: color})
	}
	return out
}

// SourceCount is the number of leads from one source.
type SourceCount struct {
	Source string
	Count  int
}

// ComputeTopSources groups leads by their raw source, sorts by count
// descending with ties kept in first-encountered order, and truncates to
// limit. A non-positive limit falls back to DefaultTopSources.
func ComputeTopSources(leads []domain.Lead, limit int) []SourceCount {
	if limit <= 0 {
		limit = DefaultTopSources
	}
	keys, counts := groupCount(leads, func(l domain.Lead) string { return l.Source })

	out := make([]SourceCount, len(keys))
	for i, key := range keys {
		out[i] = SourceCount{Source: key, Count: counts[key]}
	}
	slices.SortStableFunc(out, func(a, b SourceCount) int { return b.Count - a.Count })

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// IndustryCount is the number of leads in one industry.
type IndustryCount struct {
	Industry string
	Count    int
}

// ComputeIndustryDistribution ranks industries the same way ComputeTopSources
// ranks sources. Leads without an industry are skipped. A non-positive limit
// returns every industry.
func ComputeIndustryDistribution(leads []domain.Lead, limit int) []IndustryCount {
	keys, counts := groupCount(leads, func(l domain.Lead) string { return l.Industry })

	out := make([]IndustryCount, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		out = append(out, IndustryCount{Industry: key, Count: counts[key]})
	}
	slices.SortStableFunc(out, func(a, b IndustryCount) int { return b.Count - a.Count })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ScoreBand is the number of leads carrying one score label.
type ScoreBand struct {
	Label ScoreLabel
	Count int
}

// ComputeScoreDistribution counts leads per label, hottest first.
func ComputeScoreDistribution(leads []domain.Lead) []ScoreBand {
	counts := make(map[ScoreLabel]int, len(ScoreLabels))
	for _, lead := range leads {
		counts[ClassifyScore(lead.Score)]++
	}

	out := make([]ScoreBand, len(ScoreLabels))
	for i, label := range ScoreLabels {
		out[i] = ScoreBand{Label: label, Count: counts[label]}
	}
	return out
}

// groupCount returns the distinct keys in first-seen order and their counts.
func groupCount(leads []domain.Lead, key func(domain.Lead) string) ([]string, map[string]int) {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, lead := range leads {
		k := key(lead)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	return order, counts
}
