package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/peers"
)

// TableOptions control terminal rendering.
type TableOptions struct {
	Color bool
}

func newWriter(w io.Writer, opts TableOptions) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.SeparateRows = false
	return tw
}

func gradeColor(g model.Grade) text.Colors {
	switch g {
	case model.GradeStrongBuy, model.GradeBuy:
		return text.Colors{text.FgGreen}
	case model.GradeSell, model.GradeStrongSell:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgYellow}
	}
}

func scoreColor(score int) text.Colors {
	switch {
	case score >= 65:
		return text.Colors{text.FgGreen}
	case score <= 35:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgYellow}
	}
}

// RenderScore prints the headline, the tier table and the display metrics.
// insights may be nil.
func RenderScore(w io.Writer, res model.CompositeResult, insights map[string]string, opts TableOptions) {
	grade := string(res.FinalGrade)
	if opts.Color {
		grade = gradeColor(res.FinalGrade).Sprint(grade)
	}
	fmt.Fprintf(w, "%s (%s) | %s | $%.2f\n", res.CompanyName, res.Ticker, res.Sector, res.CurrentPrice)
	fmt.Fprintf(w, "Score %d/100  %s\n\n", res.FinalScore, grade)

	tw := newWriter(w, opts)
	hdr := table.Row{"TIER", "WEIGHT", "SCORE"}
	if insights != nil {
		hdr = append(hdr, "INSIGHT")
	}
	tw.AppendHeader(hdr)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 4, WidthMax: 60},
	})
	for _, t := range res.Tiers {
		var score any = t.Score
		if opts.Color {
			score = scoreColor(t.Score).Sprint(t.Score)
		}
		row := table.Row{t.Label, t.Weight, score}
		if insights != nil {
			row = append(row, insights[t.Label])
		}
		tw.AppendRow(row)
	}
	tw.Render()
	fmt.Fprintln(w)

	mw := newWriter(w, opts)
	mw.AppendHeader(table.Row{"METRIC", "VALUE"})
	for _, label := range model.MetricLabels {
		v := FormatValue(res.Metrics[label])
		if v == "" {
			v = "N/A"
		}
		mw.AppendRow(table.Row{label, v})
	}
	mw.Render()
}

// RenderPeers prints the ranked peer comparison table.
func RenderPeers(w io.Writer, rows []model.PeerRow, opts TableOptions) {
	tw := newWriter(w, opts)
	tw.AppendHeader(table.Row{"RANK", "TICKER", "PRICE", "P/E", "EV/EBITDA", "MARGINS", "ROE", "PEG", "MKT CAP", "MARGIN Z"})
	right := make([]table.ColumnConfig, 0, 9)
	for i := 1; i <= 10; i++ {
		if i == 2 {
			continue
		}
		right = append(right, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.SetColumnConfigs(right)
	for _, r := range rows {
		rec := r.Record
		tw.AppendRow(table.Row{
			r.Rank,
			rec.Ticker,
			num(rec.Price, "%.2f"),
			num(rec.PE, "%.1f"),
			num(rec.EVEBITDA, "%.1f"),
			percent(rec.Margins),
			percent(rec.ROE),
			num(rec.PEG, "%.2f"),
			peers.FormatMarketCap(rec.MarketCap),
			fmt.Sprintf("%.2f", r.MarginZ),
		})
	}
	tw.Render()
}

// RenderMetrics prints a two column key/value table in key order.
func RenderMetrics(w io.Writer, title string, metrics map[string]string, opts TableOptions) {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := newWriter(w, opts)
	if title != "" {
		tw.SetTitle(title)
	}
	for _, k := range keys {
		tw.AppendRow(table.Row{k, metrics[k]})
	}
	tw.Render()
}

// RenderPulse prints the global market pulse.
func RenderPulse(w io.Writer, entries []model.PulseEntry, opts TableOptions) {
	tw := newWriter(w, opts)
	tw.AppendHeader(table.Row{"ASSET", "PRICE", "CHG", "CHG%", "RSI", "SIGNAL"})
	for _, e := range entries {
		signal := e.Arrow + " " + e.Signal
		if opts.Color {
			switch e.Arrow {
			case "▲":
				signal = text.Colors{text.FgGreen}.Sprint(signal)
			case "▼":
				signal = text.Colors{text.FgRed}.Sprint(signal)
			default:
				signal = text.Colors{text.FgYellow}.Sprint(signal)
			}
		}
		tw.AppendRow(table.Row{
			e.Name,
			fmt.Sprintf("%.2f", e.Price),
			fmt.Sprintf("%+.2f", e.Delta),
			fmt.Sprintf("%+.2f%%", e.PctChange),
			fmt.Sprintf("%.0f", e.RSI),
			signal,
		})
	}
	tw.Render()
}

func num(v *float64, format string) string {
	if v == nil {
		return "N/A*"
	}
	return fmt.Sprintf(format, *v)
}

func percent(v *float64) string {
	if v == nil {
		return "N/A*"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}
