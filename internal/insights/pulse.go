package insights

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/calculator"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// Asset is one instrument of the global pulse.
type Asset struct {
	Name   string
	Ticker string
}

// PulseAssets are the instruments shown in the global pulse, in display order.
var PulseAssets = []Asset{
	{"S&P 500", "^GSPC"},
	{"EU 500", "^STOXX50E"},
	{"HK 50", "^HSI"},
	{"UK 100", "^FTSE"},
	{"BTC", "BTC-USD"},
	{"ETH", "ETH-USD"},
	{"Gold", "GC=F"},
	{"Silver", "SI=F"},
	{"Crude Oil", "CL=F"},
	{"10Y Yield", "^TNX"},
	{"VIX", "^VIX"},
}

// minPulseBars is the shortest history a pulse entry is computed from.
const minPulseBars = 50

// Pulse signals.
const (
	SignalStrongBuy  = "STRONG BUY"
	SignalBuy        = "BUY"
	SignalHold       = "HOLD"
	SignalSell       = "SELL"
	SignalStrongSell = "STRONG SELL"
)

// TrendPoints scores trend and momentum alignment from 0 to 9.
func TrendPoints(price, sma50, sma200, rsi float64) int {
	points := 0
	if price > sma200 {
		points += 3
	}
	if price > sma50 {
		points += 2
	}
	if sma50 > sma200 {
		points++
	}
	if rsi > 50 {
		points++
	}
	if rsi > 60 {
		points++
	}
	if rsi < 30 {
		points += 2
	}
	return points
}

// SignalFor maps trend points to a signal, its color and arrow.
func SignalFor(points int) (signal, color, arrow string) {
	switch {
	case points >= 6:
		return SignalStrongBuy, ColorGreen, "▲"
	case points >= 4:
		return SignalBuy, ColorGreen, "▲"
	case points <= 2:
		return SignalStrongSell, ColorRed, "▼"
	case points <= 3:
		return SignalSell, ColorRed, "▼"
	default:
		return SignalHold, ColorAmber, "−"
	}
}

// PulseEntry computes one pulse line. ok is false for short histories.
func PulseEntry(asset Asset, history model.PriceSeries) (model.PulseEntry, bool) {
	closes := history.Closes()
	if len(closes) < minPulseBars {
		return model.PulseEntry{}, false
	}
	price := closes[len(closes)-1]
	prev := closes[len(closes)-2]

	sma50 := last(calculator.SMASeries(closes, 50))
	sma200 := last(calculator.SMASeries(closes, 200))
	if math.IsNaN(sma200) {
		sma200 = sma50
	}
	rsi := calculator.CalculateRSI(closes, 14)
	if math.IsNaN(rsi) {
		rsi = 50
	}

	signal, color, arrow := SignalFor(TrendPoints(price, sma50, sma200, rsi))
	delta := price - prev
	entry := model.PulseEntry{
		Name:   asset.Name,
		Ticker: asset.Ticker,
		Price:  price,
		Delta:  delta,
		Arrow:  arrow,
		Color:  color,
		Signal: signal,
		RSI:    rsi,
	}
	if prev != 0 {
		entry.PctChange = delta / prev * 100
	}
	return entry, true
}

// GlobalPulse fetches every pulse asset concurrently. Assets that fail or
// have too little history are left out.
func GlobalPulse(ctx context.Context, p collector.Provider, log zerolog.Logger) []model.PulseEntry {
	entries := make([]model.PulseEntry, len(PulseAssets))
	found := make([]bool, len(PulseAssets))

	var wg sync.WaitGroup
	for i, asset := range PulseAssets {
		wg.Add(1)
		go func(i int, asset Asset) {
			defer wg.Done()
			history, err := p.History(ctx, asset.Ticker, collector.Period1Y)
			if err != nil {
				log.Debug().Err(err).Str("ticker", asset.Ticker).Msg("pulse asset skipped")
				return
			}
			entries[i], found[i] = PulseEntry(asset, history)
		}(i, asset)
	}
	wg.Wait()

	out := make([]model.PulseEntry, 0, len(entries))
	for i, e := range entries {
		if found[i] {
			out = append(out, e)
		}
	}
	return out
}
