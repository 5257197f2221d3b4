package scoring

import "github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"

// Weights is the fixed per-tier weighting of the composite.
var Weights = map[int]int{
	TierValuation:   10,
	TierAlpha:       10,
	TierGrowth:      9,
	TierEfficiency:  10,
	TierHealth:      9,
	TierForensics:   8,
	TierManagement:  8,
	TierCapitalFlow: 9,
	TierYield:       8,
	TierTiming:      9,
	TierSentiment:   8,
	TierDerivatives: 6,
}

// TotalWeight is the sum of all tier weights.
func TotalWeight() int {
	total := 0
	for _, w := range Weights {
		total += w
	}
	return total
}

// WeightedMean returns sum(score*weight)/sum(weight) over all twelve tiers.
// Tiers absent from tiers count as the neutral 50.
func WeightedMean(tiers []model.TierScore) float64 {
	scores := make(map[int]int, len(tiers))
	for _, t := range tiers {
		scores[t.Tier] = t.Score
	}
	var sum float64
	for tier, w := range Weights {
		s, ok := scores[tier]
		if !ok {
			s = int(Neutral)
		}
		sum += float64(s * w)
	}
	return sum / float64(TotalWeight())
}

// GradeFor maps a weighted score onto a grade. Thresholds are checked in
// order and the first match wins.
func GradeFor(score float64) model.Grade {
	switch {
	case score >= 80:
		return model.GradeStrongBuy
	case score >= 65:
		return model.GradeBuy
	case score <= 35:
		return model.GradeStrongSell
	case score <= 50:
		return model.GradeSell
	default:
		return model.GradeHold
	}
}

// Composite folds the tier scores into the truncated integer score and grade.
func Composite(tiers []model.TierScore) (int, model.Grade) {
	mean := WeightedMean(tiers)
	return int(mean), GradeFor(mean)
}

// Breakdown maps tier labels to scores.
func Breakdown(tiers []model.TierScore) map[string]int {
	out := make(map[string]int, len(tiers))
	for _, t := range tiers {
		out[t.Label] = t.Score
	}
	return out
}
