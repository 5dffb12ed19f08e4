package analytics

import (
	"math"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

// Sub-score weights of the composite lead score. They sum to 1.
const (
	WeightEngagement  = 0.35
	WeightDemographic = 0.25
	WeightBehavioral  = 0.25
	WeightFit         = 0.15
)

// ScoreLabel is the temperature band of a lead score.
type ScoreLabel string

const (
	ScoreHot  ScoreLabel = "Hot"
	ScoreWarm ScoreLabel = "Warm"
	ScoreCool ScoreLabel = "Cool"
	ScoreCold ScoreLabel = "Cold"
)

// ScoreLabels lists the bands hottest first.
var ScoreLabels = []ScoreLabel{ScoreHot, ScoreWarm, ScoreCool, ScoreCold}

// ComputeLeadScore combines the four sub-scores into a 0–100 composite,
// rounded to the nearest integer. A nil breakdown scores 0.
func ComputeLeadScore(b *domain.ScoreBreakdown) int {
	if b == nil {
		return 0
	}
	weighted := float64(b.Engagement)*WeightEngagement +
		float64(b.Demographic)*WeightDemographic +
		float64(b.Behavioral)*WeightBehavioral +
		float64(b.Fit)*WeightFit
	return int(math.Round(weighted))
}

// ClassifyScore maps a score onto its band. Boundaries belong to the higher
// band: 80 is Hot, 60 is Warm, 40 is Cool.
func ClassifyScore(score int) ScoreLabel {
	switch {
	case score >= 80:
		return ScoreHot
	case score >= 60:
		return ScoreWarm
	case score >= 40:
		return ScoreCool
	default:
		return ScoreCold
	}
}
