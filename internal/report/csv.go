// Package report renders composite results as CSV, PDF and terminal tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// WriteCSV writes the flattened metrics as one header row and one value row.
func WriteCSV(w io.Writer, res model.CompositeResult) error {
	header := make([]string, len(model.MetricLabels))
	values := make([]string, len(model.MetricLabels))
	for i, label := range model.MetricLabels {
		header[i] = label
		values[i] = FormatValue(res.Metrics[label])
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(values); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// FormatValue renders a display metric. Missing values are empty.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
