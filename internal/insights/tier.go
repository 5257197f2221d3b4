package insights

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

const defaultInsight = "Score reflects balanced metrics relative to the sector."

// TierInsight explains a tier score in one or two sentences, using the
// flattened display metrics of the result.
func TierInsight(label string, score int, metrics map[string]any) string {
	switch {
	case strings.Contains(label, "Valuation"):
		return valuationInsight(score, metrics)
	case strings.Contains(label, "Intrinsic"):
		return alphaInsight(score, metrics)
	case strings.Contains(label, "Growth"):
		switch {
		case score > 80:
			return "Top-tier revenue and earnings expansion trajectory."
		case score < 40:
			return "Growth has stalled or is decelerating compared to historical adoption."
		}
	case strings.Contains(label, "Efficiency"):
		switch {
		case score > 70:
			return "Management is highly efficient at generating profit from capital."
		case score < 40:
			return "Margins are compressed. Cost structure may be bloated vs peers."
		}
	case strings.Contains(label, "Timing"):
		return timingInsight(score, metrics)
	case strings.Contains(label, "Derivatives"):
		return derivativesInsight(score, metrics)
	}
	return defaultInsight
}

// Insights returns the insight sentence of every tier keyed by label.
func Insights(res model.CompositeResult) map[string]string {
	out := make(map[string]string, len(res.Tiers))
	for _, t := range res.Tiers {
		out[t.Label] = TierInsight(t.Label, t.Score, res.Metrics)
	}
	return out
}

func valuationInsight(score int, metrics map[string]any) string {
	peg, hasPEG := model.Coerce(metrics["PEG Ratio"])
	hasPEG = hasPEG && peg != 0
	switch {
	case score < 40:
		s := "Stock appears overvalued vs peers."
		if hasPEG && peg > 2.0 {
			s += fmt.Sprintf(" High PEG (%.2f) suggests growth does not justify the premium.", peg)
		}
		return s
	case score > 70:
		s := "Stock appears undervalued or fairly priced."
		if hasPEG && peg < 1.0 {
			s += fmt.Sprintf(" Low PEG (%.2f) indicates potential value trap or strong growth-at-a-discount.", peg)
		}
		return s
	}
	return defaultInsight
}

func alphaInsight(score int, metrics map[string]any) string {
	switch {
	case score > 70:
		s := "Analysts are becoming increasingly bullish."
		if alpha, _ := metrics["Alpha (Revisions)"].(string); strings.HasPrefix(alpha, "100") {
			s += " Earnings expectations are being revised UP aggressively."
		}
		return s
	case score < 40:
		return "Analysts are downgrading earnings forecasts."
	}
	return defaultInsight
}

func timingInsight(score int, metrics map[string]any) string {
	daily := 50.0
	if rsi, ok := metrics["RSI (D/W)"].(string); ok {
		head, _, _ := strings.Cut(rsi, "/")
		if v, err := strconv.ParseFloat(strings.TrimSpace(head), 64); err == nil {
			daily = v
		}
	}
	switch {
	case score > 80:
		return "Technical structure is bullish. Trend alignment is positive."
	case score < 30:
		s := "Technical structure is broken or heavily bearish."
		if daily < 30 {
			s += " However, stock is oversold (RSI < 30) and due for a bounce."
		}
		return s
	}
	return defaultInsight
}

func derivativesInsight(score int, metrics map[string]any) string {
	switch {
	case score < 40:
		s := "Implies high institutional hedging or betting against the stock."
		if short, ok := metrics["Short Float"].(string); ok {
			if v, ok := model.Coerce(short); ok && v > 10 {
				s += fmt.Sprintf(" Short interest is elevated (%s), suggesting precise bearish intent.", short)
			}
		}
		return s
	case score > 70:
		return "Options market and short interest suggest low fear."
	}
	return defaultInsight
}
