package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// ErrNotEnoughData is returned when a series is shorter than the indicator window.
var ErrNotEnoughData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrNotEnoughData
	}
	out := talib.Sma(prices, period)
	return out[len(out)-1], nil
}

// SMASeries returns the rolling SMA aligned to prices, NaN where the window is incomplete.
func SMASeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 || len(prices) < period {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sma := talib.Sma(prices, period)
	for i := range out {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sma[i]
	}
	return out
}

// LongTrendSMA returns the 200-bar SMA, falling back to the 50-bar SMA
// for shorter histories. ok is false when neither can be computed.
func LongTrendSMA(closes []float64) (sma float64, ok bool) {
	if v, err := CalculateSMA(closes, 200); err == nil {
		return v, true
	}
	if v, err := CalculateSMA(closes, 50); err == nil {
		return v, true
	}
	return 0, false
}

// CalculateMA200 returns the 200-day simple moving average from daily bars.
func CalculateMA200(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(dailyBars), 200)
}

// CalculateMA50 returns the 50-day simple moving average from daily bars.
func CalculateMA50(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(dailyBars), 50)
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
