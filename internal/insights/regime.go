package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/calculator"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// Signal colors.
const (
	ColorGreen   = "#00FF7F"
	ColorAmber   = "#FFB020"
	ColorRed     = "#FF4560"
	ColorNeutral = "gray"
)

// Benchmark picks the regime benchmark and its display name for ticker.
func Benchmark(ticker string) (symbol, market string) {
	switch {
	case ticker != "" && collector.IsCrypto(ticker):
		return "BTC-USD", "CRYPTO (BITCOIN)"
	case strings.ToUpper(ticker) == "GC=F":
		return "GC=F", "GOLD"
	default:
		return "SPY", "US S&P 500"
	}
}

// highVolatility returns the daily volatility (in percent) above which a
// benchmark is flagged as volatile.
func highVolatility(symbol string) float64 {
	if symbol == "BTC-USD" {
		return 3.0
	}
	return 1.5
}

// ClassifyRegime derives the trend regime of a benchmark history.
func ClassifyRegime(symbol, market string, history model.PriceSeries) model.MarketRegime {
	if history.Empty() {
		return model.MarketRegime{
			Status:  "Unknown",
			Color:   ColorNeutral,
			Summary: "Market data unavailable.",
			Market:  market,
		}
	}

	closes := history.Closes()
	price := closes[len(closes)-1]
	sma50 := last(calculator.SMASeries(closes, 50))
	sma200 := last(calculator.SMASeries(closes, 200))

	r := model.MarketRegime{Market: market}
	switch {
	case price > sma200 && price > sma50:
		r.Status = "Bull Market (Strong)"
		r.Color = ColorGreen
		r.Summary = fmt.Sprintf("%s is trading above both 50 and 200 SMAs. Trend is strictly UP.", symbol)
	case price > sma200:
		r.Status = "Bull Market (Pullback)"
		r.Color = ColorAmber
		r.Summary = "Long-term trend is UP (>SMA200), but short-term momentum has weakened (<SMA50)."
	case price < sma50:
		r.Status = "Bear Market (Weak)"
		r.Color = ColorRed
		r.Summary = fmt.Sprintf("%s is trading below both moving averages. Trend is DOWN.", symbol)
	default:
		r.Status = "Bear Market (Reversal?)"
		r.Color = ColorAmber
		r.Summary = "Long-term trend is DOWN (<SMA200), but short-term momentum is recovering (>SMA50)."
	}

	if calculator.DailyVolatility(closes) > highVolatility(symbol) {
		r.Status += " / High Volatility"
	}
	return r
}

// MarketRegime fetches a year of the benchmark for ticker and classifies it.
func MarketRegime(ctx context.Context, p collector.Provider, ticker string) (model.MarketRegime, error) {
	symbol, market := Benchmark(ticker)
	history, err := p.History(ctx, symbol, collector.Period1Y)
	if err != nil {
		return model.MarketRegime{}, fmt.Errorf("fetch benchmark %s: %w", symbol, err)
	}
	return ClassifyRegime(symbol, market, history), nil
}

func last(xs []float64) float64 {
	return xs[len(xs)-1]
}
