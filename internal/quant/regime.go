package quant

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// Trend labels.
const (
	TrendBullish = "Bullish"
	TrendBearish = "Bearish"
	TrendNeutral = "Neutral"
)

// Regime labels.
const (
	RegimeRiskOn      = "Risk-On (Expansion)"
	RegimeRiskOff     = "Risk-Off (Contraction)"
	RegimeDefensive   = "Defensive"
	RegimeStagflation = "Stagflation / Cash"
)

// calmVIX is the VIX level below which a bullish tape counts as risk-on.
const calmVIX = 20

// Trend compares the last close of a series with its mean.
func Trend(s model.PriceSeries) string {
	closes := s.Closes()
	if len(closes) == 0 {
		return TrendNeutral
	}
	if closes[len(closes)-1] > stat.Mean(closes, nil) {
		return TrendBullish
	}
	return TrendBearish
}

// ClassifyRegime derives the macro regime from equity and bond trends and
// the VIX level.
func ClassifyRegime(spyTrend, tltTrend string, vix float64) model.MacroRegime {
	label := RegimeRiskOff
	if spyTrend == TrendBullish && vix < calmVIX {
		label = RegimeRiskOn
	}
	if spyTrend == TrendBearish && tltTrend == TrendBullish {
		label = RegimeDefensive
	}
	if spyTrend == TrendBearish && tltTrend == TrendBearish {
		label = RegimeStagflation
	}
	health := 40
	if spyTrend == TrendBullish {
		health = 80
	}
	return model.MacroRegime{
		RegimeLabel:       label,
		SPYTrend:          spyTrend,
		TLTTrend:          tltTrend,
		GLDTrend:          TrendNeutral,
		VIXLevel:          round2(vix),
		MarketHealthScore: health,
	}
}

// MacroRegime fetches SPY, TLT and the VIX and classifies the regime.
func MacroRegime(ctx context.Context, p collector.Provider) (model.MacroRegime, error) {
	spy, err := p.History(ctx, "SPY", collector.Period3Mo)
	if err != nil {
		return model.MacroRegime{}, fmt.Errorf("fetch SPY: %w", err)
	}
	tlt, err := p.History(ctx, "TLT", collector.Period3Mo)
	if err != nil {
		return model.MacroRegime{}, fmt.Errorf("fetch TLT: %w", err)
	}
	vix, err := p.History(ctx, "^VIX", collector.Period5D)
	if err != nil {
		return model.MacroRegime{}, fmt.Errorf("fetch VIX: %w", err)
	}
	if spy.Empty() || tlt.Empty() || vix.Empty() {
		return model.MacroRegime{}, fmt.Errorf("macro regime: %w", collector.ErrNoPriceData)
	}
	return ClassifyRegime(Trend(spy), Trend(tlt), vix.LastClose()), nil
}
