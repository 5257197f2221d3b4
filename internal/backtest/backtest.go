// Package backtest simulates a trend-following dip-buying strategy on
// daily closes.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/calculator"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// MinBars is one trading year, the shortest history that can be tested.
const MinBars = calculator.TradingDaysPerYear

// dipRSI is the RSI below which a bull-trend pullback is bought.
const dipRSI = 45

// ErrInsufficientData is returned for histories shorter than MinBars.
var ErrInsufficientData = errors.New("insufficient data for backtest (need > 1 year)")

// Point is one day of the equity curves.
type Point struct {
	Time     time.Time `json:"time"`
	Strategy float64   `json:"strategy"`
	BuyHold  float64   `json:"buy_hold"`
	Position int       `json:"position"`
}

// Result summarizes a backtest.
type Result struct {
	Ticker         string  `json:"ticker"`
	Bars           int     `json:"bars"`
	CAGRStrategy   float64 `json:"cagr_strategy"`
	CAGRBuyHold    float64 `json:"cagr_buy_hold"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	Outperformance float64 `json:"outperformance"`
	Curve          []Point `json:"curve,omitempty"`
}

// Metrics renders the summary the way it is displayed.
func (r Result) Metrics() map[string]string {
	return map[string]string{
		"CAGR (Strategy)":   pct(r.CAGRStrategy),
		"CAGR (Buy & Hold)": pct(r.CAGRBuyHold),
		"Max Drawdown":      pct(r.MaxDrawdown),
		"Outperformance":    pct(r.Outperformance),
	}
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

// Signals returns the raw daily signal: 1 buy, -1 sell, 0 none. Sell wins
// when both conditions hold.
func Signals(closes []float64) []int {
	sma50 := calculator.SMASeries(closes, 50)
	sma200 := calculator.SMASeries(closes, 200)
	rsi := calculator.RSISeries(closes, 14)

	out := make([]int, len(closes))
	for i, c := range closes {
		if sma50[i] > sma200[i] && c > sma200[i] && rsi[i] < dipRSI {
			out[i] = 1
		}
		if c < sma50[i] || sma50[i] < sma200[i] {
			out[i] = -1
		}
	}
	return out
}

// Positions holds the last non-zero signal and goes flat instead of short.
func Positions(signals []int) []int {
	out := make([]int, len(signals))
	held := 0
	for i, s := range signals {
		if s != 0 {
			held = s
		}
		if held > 0 {
			out[i] = 1
		}
	}
	return out
}

// Simulate runs the strategy over a daily history. Each day's return is
// earned by the previous day's position.
func Simulate(history model.PriceSeries) (Result, error) {
	closes := history.Closes()
	if len(closes) < MinBars {
		return Result{}, ErrInsufficientData
	}

	positions := Positions(Signals(closes))
	returns := calculator.PctChange(closes)

	curve := make([]Point, len(closes))
	strategy := make([]float64, len(closes))
	eqStrat, eqBH := 1.0, 1.0
	for i := range closes {
		if i > 0 && !math.IsNaN(returns[i]) {
			eqBH *= 1 + returns[i]
			eqStrat *= 1 + float64(positions[i-1])*returns[i]
		}
		strategy[i] = eqStrat
		curve[i] = Point{
			Time:     history.Bars[i].Time,
			Strategy: eqStrat,
			BuyHold:  eqBH,
			Position: positions[i],
		}
	}

	res := Result{
		Ticker:       history.Symbol,
		Bars:         len(closes),
		CAGRStrategy: calculator.CAGR(eqStrat, len(closes)),
		CAGRBuyHold:  calculator.CAGR(eqBH, len(closes)),
		MaxDrawdown:  calculator.MaxDrawdown(strategy),
		Curve:        curve,
	}
	res.Outperformance = res.CAGRStrategy - res.CAGRBuyHold
	return res, nil
}

// Run fetches ten years of daily history for ticker and simulates it.
func Run(ctx context.Context, p collector.Provider, ticker string) (Result, error) {
	history, err := p.History(ctx, ticker, collector.Period10Y)
	if err != nil {
		return Result{}, fmt.Errorf("fetch history %s: %w", ticker, err)
	}
	if history.Symbol == "" {
		history.Symbol = ticker
	}
	return Simulate(history)
}
