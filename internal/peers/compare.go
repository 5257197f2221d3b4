package peers

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// rankPenalty replaces missing or negative valuation ratios before ranking.
const rankPenalty = 1000.0

// Composite rank weights: value, efficiency, growth.
const (
	valueWeight      = 0.4
	efficiencyWeight = 0.4
	growthWeight     = 0.2
)

// filledColumns are replaced by the group mean where missing.
var filledColumns = []string{model.PeerPE, model.PeerEVEBITDA, model.PeerMargins, model.PeerROE, model.PeerPEG}

// column returns key for every record, NaN where missing.
func column(records []model.PeerRecord, key string) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		if v, ok := r.Value(key); ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// fillMean replaces NaN entries with the mean of the others.
// A column with no values at all is left untouched.
func fillMean(xs []float64) []float64 {
	present := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			present = append(present, x)
		}
	}
	out := append([]float64(nil), xs...)
	if len(present) == 0 || len(present) == len(xs) {
		return out
	}
	mean := stat.Mean(present, nil)
	for i, x := range out {
		if math.IsNaN(x) {
			out[i] = mean
		}
	}
	return out
}

func penalizeAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) || x < 0 {
			out[i] = rankPenalty
		} else {
			out[i] = x
		}
	}
	return out
}

// averageRank ranks xs from 1 with ties sharing the mean of their ranks.
// Missing values take the middle rank.
func averageRank(xs []float64, ascending bool) []float64 {
	n := len(xs)
	out := make([]float64, n)
	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = float64(n+1) / 2
			continue
		}
		better, equal := 0, 0
		for _, y := range xs {
			switch {
			case math.IsNaN(y):
			case y == x:
				equal++
			case ascending && y < x, !ascending && y > x:
				better++
			}
		}
		out[i] = float64(better) + float64(equal+1)/2
	}
	return out
}

// Compare ranks records by a weighted sum of value, efficiency and growth
// ranks. Lower composite is better; rows come back sorted with Rank 1 first.
func Compare(records []model.PeerRecord) []model.PeerRow {
	if len(records) == 0 {
		return nil
	}
	filled := make(map[string][]float64, len(filledColumns))
	for _, key := range filledColumns {
		filled[key] = fillMean(column(records, key))
	}

	rankPE := averageRank(penalizeAll(filled[model.PeerPE]), true)
	rankEV := averageRank(penalizeAll(filled[model.PeerEVEBITDA]), true)
	rankMargins := averageRank(filled[model.PeerMargins], false)
	rankROE := averageRank(filled[model.PeerROE], false)
	rankPEG := averageRank(penalizeAll(filled[model.PeerPEG]), true)

	rows := make([]model.PeerRow, len(records))
	for i, rec := range records {
		value := (rankPE[i] + rankEV[i]) / 2
		efficiency := (rankMargins[i] + rankROE[i]) / 2
		rows[i] = model.PeerRow{
			Record:        rec,
			CompositeRank: valueWeight*value + efficiencyWeight*efficiency + growthWeight*rankPEG[i],
			Filled:        make(map[string]float64, len(filledColumns)),
		}
		for _, key := range filledColumns {
			if v := filled[key][i]; !math.IsNaN(v) {
				rows[i].Filled[key] = v
			}
		}
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].CompositeRank < rows[b].CompositeRank })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// ApplyMarginZ sets each row's margin z-score against the table, using the
// sample standard deviation. A flat or single-row table scores 0.
func ApplyMarginZ(rows []model.PeerRow) {
	if len(rows) == 0 {
		return
	}
	margins := make([]float64, len(rows))
	for i, r := range rows {
		margins[i] = r.Filled[model.PeerMargins] * 100
	}
	mean, std := stat.MeanStdDev(margins, nil)
	for i := range rows {
		if std > 0 {
			rows[i].MarginZ = math.Round((margins[i]-mean)/std*100) / 100
		} else {
			rows[i].MarginZ = 0
		}
	}
}

// MeanMarginZ averages the margin z-scores of a table.
func MeanMarginZ(rows []model.PeerRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	zs := make([]float64, len(rows))
	for i, r := range rows {
		zs[i] = r.MarginZ
	}
	return stat.Mean(zs, nil)
}

// FormatMarketCap renders a market cap as $xT, $xB or $xM.
func FormatMarketCap(v *float64) string {
	if v == nil || *v == 0 || math.IsNaN(*v) {
		return "N/A"
	}
	switch {
	case *v > 1e12:
		return fmt.Sprintf("$%.1fT", *v/1e12)
	case *v > 1e9:
		return fmt.Sprintf("$%.1fB", *v/1e9)
	default:
		return fmt.Sprintf("$%.1fM", *v/1e6)
	}
}
