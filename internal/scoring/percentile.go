package scoring

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// NegativeSentinel replaces negative values of lower-is-better metrics so
// that losses always rank worst.
const NegativeSentinel = 1_000_000.0

func penalize(v float64, invert bool) float64 {
	if invert && v < 0 {
		return NegativeSentinel
	}
	return v
}

// Percentile returns the weak percentile rank of target within sample plus
// target itself: the share of values <= target, times 100. With invert set
// the result is 100 minus that rank. An empty sample returns Neutral.
func Percentile(sample []float64, target float64, invert bool) float64 {
	if len(sample) == 0 {
		return Neutral
	}
	t := penalize(target, invert)
	values := make([]float64, 0, len(sample)+1)
	for _, v := range sample {
		values = append(values, penalize(v, invert))
	}
	values = append(values, t)
	sort.Float64s(values)

	pct := stat.CDF(t, stat.Empirical, values, nil) * 100
	if invert {
		return 100 - pct
	}
	return pct
}

// PeerPercentile ranks target against the key metric of every peer that
// carries it.
func PeerPercentile(peers []model.PeerRecord, key string, target float64, invert bool) float64 {
	if len(peers) == 0 {
		return Neutral
	}
	sample := make([]float64, 0, len(peers))
	for _, p := range peers {
		if v, ok := p.Value(key); ok {
			sample = append(sample, v)
		}
	}
	return Percentile(sample, target, invert)
}
