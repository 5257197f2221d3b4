package scoring

import (
	"fmt"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// percentMetrics are rendered as percentages in the flat metric view.
var percentMetrics = map[string]bool{
	"Short Float": true,
	"Insider Own": true,
}

// FlattenMetrics collects the display metrics of all tiers into one map
// keyed by model.MetricLabels.
func FlattenMetrics(tiers []model.TierScore) map[string]any {
	all := make(map[string]any)
	for _, t := range tiers {
		for k, v := range t.Metrics {
			all[k] = v
		}
	}
	out := make(map[string]any, len(model.MetricLabels))
	for _, label := range model.MetricLabels {
		v := all[label]
		if percentMetrics[label] {
			v = formatPercent(v)
		}
		out[label] = v
	}
	return out
}

func formatPercent(v any) string {
	f, ok := model.Coerce(v)
	if !ok || f == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", f*100)
}
