package peers

import "github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"

// minSustainableGrowth is the smallest ROE*(1-payout) growth used for PEG.
const minSustainableGrowth = 0.01

func ptr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// BuildRecord normalizes one ticker's fundamentals into a peer row,
// applying the P/E, margin and PEG fallback chains.
func BuildRecord(info model.RawMetricSet) model.PeerRecord {
	pe, hasPE := info.Float(model.KeyTrailingPE)
	if !hasPE {
		pe, hasPE = info.Float(model.KeyForwardPE)
	}
	margins, hasMargins := info.Float(model.KeyProfitMargins)
	if !hasMargins {
		margins, hasMargins = info.Float(model.KeyOperatingMargins)
	}
	peg, hasPEG := info.Float(model.KeyPEGRatio)
	if !hasPEG && hasPE {
		peg, hasPEG = fallbackPEG(info, pe)
	}

	rec := model.PeerRecord{
		Ticker:  info.Ticker,
		PE:      ptr(pe, hasPE),
		Margins: ptr(margins, hasMargins),
		PEG:     ptr(peg, hasPEG),
	}
	rec.Price = ptr(info.Float(model.KeyCurrentPrice))
	rec.FwdPE = ptr(info.Float(model.KeyForwardPE))
	rec.TrailingPE = ptr(info.Float(model.KeyTrailingPE))
	rec.EVEBITDA = ptr(info.Float(model.KeyEnterpriseToEBITDA))
	rec.ROE = ptr(info.Float(model.KeyReturnOnEquity))
	rec.MarketCap = ptr(info.Float(model.KeyMarketCap))
	rec.PriceToSales = ptr(info.Float(model.KeyPriceToSales))
	return rec
}

// fallbackPEG derives PEG from earnings growth, then revenue growth,
// then the sustainable growth rate ROE*(1-payout).
func fallbackPEG(info model.RawMetricSet, pe float64) (float64, bool) {
	if g, ok := info.Float(model.KeyEarningsGrowth); ok && g > 0 {
		return pe / (g * 100), true
	}
	if g, ok := info.Float(model.KeyRevenueGrowth); ok && g > 0 {
		return pe / (g * 100), true
	}
	roe, ok := info.Float(model.KeyReturnOnEquity)
	if !ok || roe <= 0 {
		return 0, false
	}
	payout := info.FloatOr(model.KeyPayoutRatio, 0)
	if sgr := roe * (1 - payout); sgr > minSustainableGrowth {
		return pe / (sgr * 100), true
	}
	return 0, false
}
