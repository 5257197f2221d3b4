package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func f(v float64) *float64 { return &v }

func TestPercentile_WeakTies(t *testing.T) {
	// sample + target = {10, 20, 20, 30, 20}; 4 of 5 are <= 20
	assert.InDelta(t, 80.0, Percentile([]float64{10, 20, 20, 30}, 20, false), 1e-9)
	assert.InDelta(t, 20.0, Percentile([]float64{10, 20, 20, 30}, 20, true), 1e-9)
}

func TestPercentile_EmptyIsNeutral(t *testing.T) {
	assert.Equal(t, 50.0, Percentile(nil, 5, true))
	assert.Equal(t, 50.0, PeerPercentile(nil, model.PeerPE, 5, true))
	// peers without the metric behave like an empty sample
	assert.Equal(t, 50.0, PeerPercentile([]model.PeerRecord{{Ticker: "A"}}, model.PeerPE, 5, true))
}

func TestPercentile_Monotonic(t *testing.T) {
	sample := []float64{3, 8, 8, 12, 40, -2}
	prev := -1.0
	for target := -5.0; target <= 50; target += 0.5 {
		got := Percentile(sample, target, false)
		assert.GreaterOrEqual(t, got, prev, "target %v", target)
		prev = got
	}
}

func TestPercentile_NegativeRanksWorstWhenInverted(t *testing.T) {
	peers := []float64{5, 12, 30, 80, -7}
	neg := Percentile(peers, -3, true)
	negHuge := Percentile(peers, -5000, true)
	for _, v := range []float64{5, 12, 30, 80} {
		pos := Percentile(peers, v, true)
		assert.Less(t, neg, pos, "negative must rank below %v", v)
	}
	assert.Equal(t, neg, negHuge)
	assert.Equal(t, 0.0, neg)

	// A non-negative target beats a peer with losses.
	assert.Greater(t, Percentile([]float64{-1, 10}, 50, true), 0.0)
}

func TestPeerPercentile_UsesRecordKey(t *testing.T) {
	peers := []model.PeerRecord{
		{Ticker: "A", PE: f(10), ROE: f(0.10)},
		{Ticker: "B", PE: f(20), ROE: f(0.20)},
		{Ticker: "C", PE: f(-4), ROE: f(0.30)},
	}
	// P/E values {10, 20, 1e6, 15}: 2 of 4 <= 15 -> 50 -> inverted 50
	assert.InDelta(t, 50.0, PeerPercentile(peers, model.PeerPE, 15, true), 1e-9)
	// ROE values {0.1, 0.2, 0.3, 0.25}: 3 of 4 <= 0.25
	assert.InDelta(t, 75.0, PeerPercentile(peers, model.PeerROE, 0.25, false), 1e-9)
}
