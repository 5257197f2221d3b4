package quant

import (
	"math"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// DCF model parameters.
const (
	DefaultGrowth   = 0.05
	GrowthFloor     = 0.02
	GrowthCap       = 0.20
	DiscountRate    = 0.09
	TerminalGrowth  = 0.025
	ProjectionYears = 5
)

// Valuation is a per-share fair value and its upside over the current price.
type Valuation struct {
	FairValue float64
	UpsidePct float64
}

// DCF values the equity from free cash flow grown at the earnings growth
// rate for five years plus a Gordon terminal value. ok is false when free
// cash flow, share count or price is missing.
func DCF(info model.RawMetricSet, price float64) (Valuation, bool) {
	fcf, hasFCF := info.Truthy(model.KeyFreeCashflow)
	shares, hasShares := info.Truthy(model.KeySharesOutstanding)
	if !hasFCF || !hasShares || price == 0 {
		return Valuation{}, false
	}

	g := info.FloatOr(model.KeyEarningsGrowth, DefaultGrowth)
	if g < 0 {
		g = GrowthFloor
	}
	if g > GrowthCap {
		g = GrowthCap
	}

	var pv, cf float64
	for year := 1; year <= ProjectionYears; year++ {
		cf = fcf * math.Pow(1+g, float64(year))
		pv += cf / math.Pow(1+DiscountRate, float64(year))
	}
	terminal := cf * (1 + TerminalGrowth) / (DiscountRate - TerminalGrowth)
	pv += terminal / math.Pow(1+DiscountRate, ProjectionYears)

	perShare := pv / shares
	upside := (perShare - price) / price * 100
	return Valuation{FairValue: round2(perShare), UpsidePct: round2(upside)}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
