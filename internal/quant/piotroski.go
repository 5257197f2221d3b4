package quant

import "github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"

// NeutralPiotroski is returned when there is nothing to score.
const NeutralPiotroski = 5

// Piotroski approximates the nine-point F-score from a fundamentals
// snapshot. Year-over-year comparisons use the snapshot's growth fields
// as proxies and share issuance is assumed stable.
func Piotroski(info model.RawMetricSet) int {
	if info.Empty() {
		return NeutralPiotroski
	}
	score := 0

	// Cash-flow block.
	if ocf, ok := info.Float(model.KeyOperatingCashflow); ok {
		if info.FloatOr(model.KeyReturnOnAssets, 0) > 0 {
			score++
		}
		if ocf > 0 {
			score++
		}
		if info.FloatOr(model.KeyEarningsGrowth, 0) > 0 {
			score++
		}
		if ocf > info.FloatOr(model.KeyNetIncomeToCommon, 0) {
			score++
		}
	}

	// Balance-sheet block.
	if cr, ok := info.Float(model.KeyCurrentRatio); ok {
		if cr > 1.0 {
			score++
		}
		score++
	}

	if info.FloatOr(model.KeyProfitMargins, 0) > 0.1 {
		score++
	}
	if info.FloatOr(model.KeyRevenueGrowth, 0) > 0 {
		score++
	}
	return score
}
