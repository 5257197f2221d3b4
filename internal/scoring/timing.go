package scoring

import (
	"fmt"
	"math"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/calculator"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

const (
	rsiPeriod           = 14
	minTimingBars       = 15
	relStrengthLookback = 60
)

// ScoreRSI maps an RSI reading onto the mean-reversion/trend buckets.
func ScoreRSI(rsi float64) float64 {
	switch {
	case math.IsNaN(rsi):
		return 50
	case rsi < 30:
		return 100
	case rsi < 40:
		return 85
	case rsi >= 50 && rsi <= 70:
		return 65
	case rsi > 75:
		return 20
	default:
		return 50
	}
}

// timingReadings holds the technical values behind the provisional score.
type timingReadings struct {
	sma      float64
	hasSMA   bool
	dailyRSI float64
	weekRSI  float64
	computed bool
}

// provisionalTiming blends trend distance with weekly and daily RSI.
func provisionalTiming(history model.PriceSeries) (int, timingReadings) {
	var r timingReadings
	if history.Len() <= minTimingBars {
		return int(Neutral), r
	}
	r.computed = true
	closes := history.Closes()
	current := closes[len(closes)-1]

	sSMA := Neutral
	r.sma, r.hasSMA = calculator.LongTrendSMA(closes)
	if r.hasSMA && r.sma > 0 {
		dist := (current - r.sma) / r.sma
		sSMA = float64(int(Normalize(dist, -0.25, 0.20, false)))
	}

	r.dailyRSI = calculator.CalculateRSI(closes, rsiPeriod)
	r.weekRSI = 50
	if weekly := calculator.WeeklyCloses(history.Bars); len(weekly) > minTimingBars {
		r.weekRSI = calculator.CalculateRSI(weekly, rsiPeriod)
	}

	score := 0.4*sSMA + 0.4*ScoreRSI(r.weekRSI) + 0.2*ScoreRSI(r.dailyRSI)
	return int(score), r
}

// RelativeStrength returns the 60-bar return of history minus that of the
// benchmark aligned to the same dates. ok is false when either side lacks data.
func RelativeStrength(history, benchmark model.PriceSeries) (float64, bool) {
	if history.Len() <= relStrengthLookback || benchmark.Empty() {
		return 0, false
	}
	stockRet, ok := calculator.PeriodReturn(history.Closes(), relStrengthLookback)
	if !ok {
		return 0, false
	}
	aligned := calculator.AlignCloses(history.Bars, benchmark.Bars)
	benchRet, ok := calculator.PeriodReturn(aligned, relStrengthLookback)
	if !ok {
		return 0, false
	}
	return stockRet - benchRet, true
}

// ScoreTiming computes a provisional trend/RSI score, then folds in a
// relative-strength term at 20% when the benchmark comparison is available.
func ScoreTiming(in Inputs) model.TierScore {
	provisional, r := provisionalTiming(in.History)
	score := provisional

	metrics := map[string]any{
		"RSI (D/W)":         "N/A",
		"SMA 200":           "N/A",
		"Rel Strength (3M)": "N/A",
	}
	if r.computed && !math.IsNaN(r.dailyRSI) {
		metrics["RSI (D/W)"] = fmt.Sprintf("%.0f / %.0f", r.dailyRSI, r.weekRSI)
	}
	if r.hasSMA {
		metrics["SMA 200"] = fmt.Sprintf("%.2f", r.sma)
	}

	if rs, ok := RelativeStrength(in.History, in.Benchmark); ok {
		sRS := float64(int(Normalize(rs, -0.10, 0.10, false)))
		score = int(0.8*float64(provisional) + 0.2*sRS)
		metrics["Rel Strength (3M)"] = fmt.Sprintf("%.1f%%", rs*100)
	}

	return newTier(TierTiming, score, metrics)
}
