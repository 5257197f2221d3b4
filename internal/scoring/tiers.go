package scoring

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// Tier numbers in evaluation order.
const (
	TierValuation = iota + 1
	TierAlpha
	TierGrowth
	TierEfficiency
	TierHealth
	TierForensics
	TierManagement
	TierCapitalFlow
	TierYield
	TierTiming
	TierSentiment
	TierDerivatives
)

// TierCount is the number of tiers in the composite.
const TierCount = 12

// TierLabels maps a tier number to its display label.
var TierLabels = map[int]string{
	TierValuation:   "Tier 1: Valuation",
	TierAlpha:       "Tier 2: Intrinsic/Alpha",
	TierGrowth:      "Tier 3: Growth",
	TierEfficiency:  "Tier 4: Efficiency",
	TierHealth:      "Tier 5: Financial Health",
	TierForensics:   "Tier 6: Forensics",
	TierManagement:  "Tier 7: Management",
	TierCapitalFlow: "Tier 8: Capital Flow",
	TierYield:       "Tier 9: Total Yield",
	TierTiming:      "Tier 10: Timing",
	TierSentiment:   "Tier 11: Sentiment",
	TierDerivatives: "Tier 12: Derivatives",
}

// Inputs is the fetched snapshot every tier reads from.
type Inputs struct {
	Info       model.RawMetricSet
	History    model.PriceSeries
	Benchmark  model.PriceSeries
	Peers      []model.PeerRecord
	Revisions  []model.Revision
	Sentiment  model.Sentiment
	Thresholds SectorThresholds
	Now        time.Time
}

// CurrentPrice is the last close of the primary history.
func (in Inputs) CurrentPrice() float64 { return in.History.LastClose() }

// subScores collects the sub-metrics a tier could compute.
type subScores []float64

func (s *subScores) add(v float64) { *s = append(*s, v) }

// score truncates the mean of the collected sub-scores, or returns the
// neutral 50 when nothing could be computed.
func (s subScores) score() int {
	if len(s) == 0 {
		return int(Neutral)
	}
	return int(stat.Mean(s, nil))
}

func newTier(tier, score int, metrics map[string]any) model.TierScore {
	return model.TierScore{
		Tier:    tier,
		Label:   TierLabels[tier],
		Score:   clampScore(score),
		Weight:  Weights[tier],
		Metrics: metrics,
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func optional(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// ScoreValuation blends PEG with peer-relative EV/EBITDA, P/E and forward P/E.
func ScoreValuation(in Inputs) model.TierScore {
	var s subScores
	info := in.Info

	peg, hasPEG := info.Truthy(model.KeyPEGRatio)
	pe, hasPE := info.Truthy(model.KeyTrailingPE)
	if !hasPEG && hasPE {
		if g, ok := info.Truthy(model.KeyEarningsGrowth); ok && g > 0 {
			peg, hasPEG = pe/(g*100), true
		}
	}
	if hasPEG {
		s.add(Normalize(peg, 1.0, 3.0, true))
	}

	ev, hasEV := info.Truthy(model.KeyEnterpriseToEBITDA)
	if hasEV {
		s.add(PeerPercentile(in.Peers, model.PeerEVEBITDA, ev, true))
	}
	if hasPE {
		s.add(PeerPercentile(in.Peers, model.PeerPE, pe, true))
	}
	fwd, hasFwd := info.Truthy(model.KeyForwardPE)
	if hasFwd {
		s.add(PeerPercentile(in.Peers, model.PeerFwdPE, fwd, true))
	}
	ps, hasPS := info.Truthy(model.KeyPriceToSales)

	return newTier(TierValuation, s.score(), map[string]any{
		"PEG Ratio": optional(peg, hasPEG),
		"P/S Ratio": optional(ps, hasPS),
		"EV/EBITDA": optional(ev, hasEV),
		"P/E Ratio": optional(pe, hasPE),
		"Fwd P/E":   optional(fwd, hasFwd),
	})
}

// revisionWindow bounds which analyst actions count towards the revision ratio.
const revisionWindow = 30 * 24 * time.Hour

// RevisionRatio returns upgrades/(upgrades+downgrades)*100 over the trailing
// 30 days, or 50 when there were none.
func RevisionRatio(revisions []model.Revision, now time.Time) float64 {
	var up, down int
	for _, r := range revisions {
		if now.Sub(r.Date) >= revisionWindow {
			continue
		}
		switch r.Action {
		case model.RevisionUp:
			up++
		case model.RevisionDown:
			down++
		}
	}
	if up+down == 0 {
		return Neutral
	}
	return float64(up) / float64(up+down) * 100
}

// ScoreAlpha blends analyst target upside with the earnings revision trend.
func ScoreAlpha(in Inputs) model.TierScore {
	var s subScores
	current := in.CurrentPrice()
	target, hasTarget := in.Info.Truthy(model.KeyTargetMeanPrice)
	var upside float64
	if hasTarget && current > 0 {
		upside = (target - current) / current
		s.add(Normalize(upside, 0, 0.40, false))
	}
	revision := RevisionRatio(in.Revisions, in.Now)
	s.add(revision)

	return newTier(TierAlpha, s.score(), map[string]any{
		"Target Upside":     optional(upside, hasTarget && current > 0),
		"Alpha (Revisions)": fmt.Sprintf("%.1f/100", revision),
	})
}

// ScoreGrowth normalizes revenue and earnings growth against a 0-20% band.
func ScoreGrowth(in Inputs) model.TierScore {
	var s subScores
	rev, hasRev := in.Info.Float(model.KeyRevenueGrowth)
	if hasRev {
		s.add(Normalize(rev, 0, 0.20, false))
	}
	earn, hasEarn := in.Info.Float(model.KeyEarningsGrowth)
	if hasEarn {
		s.add(Normalize(earn, 0, 0.20, false))
	}
	return newTier(TierGrowth, s.score(), map[string]any{
		"Revenue Growth":  optional(rev, hasRev),
		"Earnings Growth": optional(earn, hasEarn),
	})
}

// ScoreEfficiency ranks ROE and profit margin against the peer sample.
func ScoreEfficiency(in Inputs) model.TierScore {
	var s subScores
	roe, hasROE := in.Info.Float(model.KeyReturnOnEquity)
	if hasROE {
		s.add(PeerPercentile(in.Peers, model.PeerROE, roe, false))
	}
	margins, hasMargins := in.Info.Float(model.KeyProfitMargins)
	if hasMargins {
		s.add(PeerPercentile(in.Peers, model.PeerMargins, margins, false))
	}
	return newTier(TierEfficiency, s.score(), map[string]any{
		"ROE":     optional(roe, hasROE),
		"Margins": optional(margins, hasMargins),
	})
}

// ScoreHealth scores liquidity and leverage against the sector debt ceiling.
func ScoreHealth(in Inputs) model.TierScore {
	var s subScores
	cr, hasCR := in.Info.Truthy(model.KeyCurrentRatio)
	if hasCR {
		s.add(Normalize(cr, 1.0, 2.0, false))
	}
	de, hasDE := in.Info.Truthy(model.KeyDebtToEquity)
	if hasDE {
		s.add(Normalize(de, 50, in.Thresholds.DEGood*1.5, true))
	}
	return newTier(TierHealth, s.score(), map[string]any{
		"Current Ratio": optional(cr, hasCR),
		"Debt/Equity":   optional(de, hasDE),
		"D/E Tolerance": in.Thresholds.DEGood,
	})
}

// ScoreForensics compares operating cash flow with net income. Banks
// without usable cash flow data fall back to return on assets.
func ScoreForensics(in Inputs) model.TierScore {
	score := Neutral
	metrics := map[string]any{}
	ocf, hasOCF := in.Info.Truthy(model.KeyOperatingCashflow)
	ni, hasNI := in.Info.Truthy(model.KeyNetIncomeToCommon)
	switch {
	case hasOCF && hasNI:
		switch {
		case ni > 0:
			ratio := ocf / ni
			metrics["OCF/NI"] = ratio
			score = Normalize(ratio, 0.8, 1.5, false)
		case ocf > 0:
			score = 75
		default:
			score = 20
		}
	case in.Info.String(model.KeySector) == SectorFinancialServices:
		if roa, ok := in.Info.Truthy(model.KeyReturnOnAssets); ok {
			metrics["ROA"] = roa
			score = Normalize(roa, 0.005, 0.015, false)
		}
	}
	return newTier(TierForensics, int(score), metrics)
}

// megaCap is the market cap above which the insider ownership target drops.
const megaCap = 100_000_000_000

// ScoreManagement scores insider ownership against a market-cap aware target.
func ScoreManagement(in Inputs) model.TierScore {
	insider, ok := in.Info.Float(model.KeyHeldPctInsiders)
	if !ok {
		return newTier(TierManagement, int(Neutral), map[string]any{"Insider Own": nil})
	}
	target := 0.10
	if in.Info.FloatOr(model.KeyMarketCap, 0) > megaCap {
		target = 0.001
	}
	return newTier(TierManagement, int(Normalize(insider, 0, target, false)), map[string]any{
		"Insider Own":    insider,
		"Insider Target": target,
	})
}

// ScoreCapitalFlow blends relative volume with institutional ownership.
func ScoreCapitalFlow(in Inputs) model.TierScore {
	var s subScores
	metrics := map[string]any{}
	vol, hasVol := in.Info.Truthy(model.KeyVolume)
	avg, hasAvg := in.Info.Truthy(model.KeyAverageVolume)
	if hasVol && hasAvg && avg > 0 {
		rel := vol / avg
		metrics["Relative Volume"] = rel
		s.add(Normalize(rel, 0.5, 1.5, false))
	}
	if inst, ok := in.Info.Float(model.KeyHeldPctInstitutions); ok {
		metrics["Institutional Own"] = inst
		s.add(Normalize(inst, 0.20, 0.80, false))
	}
	return newTier(TierCapitalFlow, s.score(), metrics)
}

// missingYieldScore penalizes tickers that report no dividend yield.
const missingYieldScore = 20

// ScoreYield normalizes dividend yield against 0-4%. A missing yield scores 20.
func ScoreYield(in Inputs) model.TierScore {
	div, ok := in.Info.Float(model.KeyDividendYield)
	if !ok {
		return newTier(TierYield, missingYieldScore, map[string]any{"Dividend Yield": nil})
	}
	return newTier(TierYield, int(Normalize(div, 0, 0.04, false)), map[string]any{"Dividend Yield": div})
}

// ScoreSentiment passes the consensus headline score through.
func ScoreSentiment(in Inputs) model.TierScore {
	return newTier(TierSentiment, in.Sentiment.Score, map[string]any{
		"Score (Yahoo)":  in.Sentiment.YahooScore,
		"Score (Google)": in.Sentiment.GoogleScore,
		"Headlines":      in.Sentiment.HeadlineCount,
	})
}

// ScoreDerivatives penalizes high beta and crowded short interest.
func ScoreDerivatives(in Inputs) model.TierScore {
	var s subScores
	beta, hasBeta := in.Info.Float(model.KeyBeta)
	if hasBeta {
		s.add(Normalize(beta, 0.5, 1.8, true))
	}
	short, hasShort := in.Info.Float(model.KeyShortPercentFloat)
	if hasShort {
		s.add(Normalize(short, 0.01, 0.15, true))
	}
	return newTier(TierDerivatives, s.score(), map[string]any{
		"Beta":        optional(beta, hasBeta),
		"Short Float": optional(short, hasShort),
	})
}

// ScoreAll evaluates the twelve tiers in order.
func ScoreAll(in Inputs) []model.TierScore {
	return []model.TierScore{
		ScoreValuation(in),
		ScoreAlpha(in),
		ScoreGrowth(in),
		ScoreEfficiency(in),
		ScoreHealth(in),
		ScoreForensics(in),
		ScoreManagement(in),
		ScoreCapitalFlow(in),
		ScoreYield(in),
		ScoreTiming(in),
		ScoreSentiment(in),
		ScoreDerivatives(in),
	}
}
