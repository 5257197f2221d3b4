package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// TradingDaysPerYear is used to annualize daily series.
const TradingDaysPerYear = 252

// PctChange returns close-to-close returns. The first entry is NaN.
func PctChange(closes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = closes[i]/closes[i-1] - 1
	}
	return out
}

// DailyVolatility returns the sample standard deviation of daily returns, in percent.
func DailyVolatility(closes []float64) float64 {
	rets := dropNaN(PctChange(closes))
	if len(rets) < 2 {
		return 0
	}
	return stat.StdDev(rets, nil) * 100
}

// PeriodReturn returns the change from the close lookback bars before the
// last one to the last close. ok is false when the series is too short.
func PeriodReturn(closes []float64, lookback int) (float64, bool) {
	n := len(closes)
	if lookback <= 0 || n < lookback {
		return 0, false
	}
	base := closes[n-lookback]
	if base == 0 || math.IsNaN(base) || math.IsNaN(closes[n-1]) {
		return 0, false
	}
	return closes[n-1]/base - 1, true
}

// MaxDrawdown returns the deepest peak-to-trough decline of an equity curve (<= 0).
func MaxDrawdown(equity []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (v - peak) / peak; dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// CAGR annualizes a final equity multiple earned over bars trading days.
func CAGR(finalEquity float64, bars int) float64 {
	if bars <= 0 || finalEquity <= 0 {
		return 0
	}
	years := float64(bars) / TradingDaysPerYear
	return math.Pow(finalEquity, 1/years) - 1
}

// AlignCloses maps each target bar to the latest benchmark close on or before
// that bar's calendar day. Bars with no earlier benchmark close are NaN.
func AlignCloses(target, benchmark []model.OHLCV) []float64 {
	out := make([]float64, len(target))
	j := -1
	for i, bar := range target {
		day := dayKey(bar)
		for j+1 < len(benchmark) && dayKey(benchmark[j+1]) <= day {
			j++
		}
		if j < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = benchmark[j].Close
	}
	return out
}

func dayKey(b model.OHLCV) int {
	y, m, d := b.Time.UTC().Date()
	return y*10000 + int(m)*100 + d
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
