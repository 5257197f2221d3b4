package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// zeroLoss absorbs rounding left behind by the rolling sum once all
// losses have left the window.
const zeroLoss = 1e-12

// RSISeries computes RSI from simple rolling means of gains and losses,
// aligned to closes. A full window needs period changes, so the first
// defined entry is at index period. Earlier entries, and entries whose
// average loss is zero, are NaN.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) <= period {
		return out
	}

	// Index 0 has no prior close; it never enters a window read below.
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := talib.Sma(gains, period)
	avgLoss := talib.Sma(losses, period)
	for i := period; i < len(closes); i++ {
		if avgLoss[i] < zeroLoss {
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}

// CalculateRSI returns the latest RSI value, or NaN when it is undefined.
func CalculateRSI(closes []float64, period int) float64 {
	series := RSISeries(closes, period)
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
