package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func gradeEmoji(g model.Grade) string {
	switch g {
	case model.GradeStrongBuy, model.GradeBuy:
		return "🟢"
	case model.GradeSell, model.GradeStrongSell:
		return "🔴"
	default:
		return "🟡"
	}
}

// FormatScore formats a composite result into a Telegram message.
func FormatScore(res model.CompositeResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> (%s)\n", html.EscapeString(res.CompanyName), html.EscapeString(res.Ticker)))
	b.WriteString(fmt.Sprintf("%s | $%.2f\n\n", html.EscapeString(res.Sector), res.CurrentPrice))
	b.WriteString(fmt.Sprintf("%s <b>%d/100 %s</b>\n\n", gradeEmoji(res.FinalGrade), res.FinalScore, res.FinalGrade))

	b.WriteString("📈 <b>Tiers:</b>\n")
	for _, t := range res.Tiers {
		b.WriteString(fmt.Sprintf("  %s: %d (×%d)\n", html.EscapeString(t.Label), t.Score, t.Weight))
	}

	if res.DCFFairValue != nil {
		b.WriteString(fmt.Sprintf("\nDCF fair value: $%.2f", *res.DCFFairValue))
	}
	if res.PiotroskiScore != nil {
		b.WriteString(fmt.Sprintf("\nPiotroski: %d/9", *res.PiotroskiScore))
	}
	return b.String()
}

// FormatRegime formats the macro regime.
func FormatRegime(r model.MacroRegime) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🌐 <b>Macro Regime:</b> %s\n", html.EscapeString(r.RegimeLabel)))
	b.WriteString(fmt.Sprintf("SPY %s | TLT %s | GLD %s\n", r.SPYTrend, r.TLTTrend, r.GLDTrend))
	b.WriteString(fmt.Sprintf("VIX %.2f | Health %d/100\n", r.VIXLevel, r.MarketHealthScore))
	return b.String()
}

// FormatDigest summarizes a batch run, best scores first.
func FormatDigest(run model.BatchRun) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧮 <b>Quant Engine</b> | %s\n", run.Started.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("run %s, %d ok, %d failed, %s\n\n", run.ID, len(run.Records), len(run.Failed), run.Duration.Round(time.Second)))

	if run.Regime != nil {
		b.WriteString(FormatRegime(*run.Regime))
		b.WriteString("\n")
	}

	recs := make([]model.QuantRecord, len(run.Records))
	copy(recs, run.Records)
	sort.SliceStable(recs, func(i, j int) bool { return score(recs[i]) > score(recs[j]) })
	for _, r := range recs {
		line := fmt.Sprintf("%s <b>%s</b> %d", gradeEmoji(grade(r)), html.EscapeString(r.Ticker), score(r))
		if r.DCFUpsidePct != nil {
			line += fmt.Sprintf(" | DCF %+.1f%%", *r.DCFUpsidePct)
		}
		line += fmt.Sprintf(" | F%d", r.PiotroskiScore)
		b.WriteString(line + "\n")
	}

	if len(run.Failed) > 0 {
		tickers := make([]string, 0, len(run.Failed))
		for t := range run.Failed {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		b.WriteString(fmt.Sprintf("\n⚠️ skipped: %s\n", strings.Join(tickers, ", ")))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Available commands:\n• /score TICKER\n• /regime\n• /help"
}

func score(r model.QuantRecord) int {
	if r.TierMatrix == nil {
		return 0
	}
	return r.TierMatrix.FinalScore
}

func grade(r model.QuantRecord) model.Grade {
	if r.TierMatrix == nil {
		return model.GradeHold
	}
	return r.TierMatrix.FinalGrade
}
