package recorder

import (
	"encoding/json"
	"fmt"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// quantColumns are the JSON-encoded columns of a quant_metrics row.
type quantColumns struct {
	TierMatrix     []byte
	PeerComparison []byte
	RawFinancials  []byte
}

func encodeQuant(rec model.QuantRecord) (quantColumns, error) {
	var cols quantColumns
	var err error
	if rec.TierMatrix != nil {
		if cols.TierMatrix, err = json.Marshal(rec.TierMatrix); err != nil {
			return cols, fmt.Errorf("encode tier_matrix: %w", err)
		}
	}
	if cols.PeerComparison, err = json.Marshal(rec.PeerComparison); err != nil {
		return cols, fmt.Errorf("encode peer_comparison: %w", err)
	}
	if cols.RawFinancials, err = json.Marshal(rec.RawFinancials); err != nil {
		return cols, fmt.Errorf("encode raw_financials: %w", err)
	}
	return cols, nil
}

func decodeQuant(rec *model.QuantRecord, cols quantColumns) error {
	if len(cols.TierMatrix) > 0 && string(cols.TierMatrix) != "null" {
		var res model.CompositeResult
		if err := json.Unmarshal(cols.TierMatrix, &res); err != nil {
			return fmt.Errorf("decode tier_matrix: %w", err)
		}
		rec.TierMatrix = &res
	}
	if len(cols.PeerComparison) > 0 {
		if err := json.Unmarshal(cols.PeerComparison, &rec.PeerComparison); err != nil {
			return fmt.Errorf("decode peer_comparison: %w", err)
		}
	}
	if len(cols.RawFinancials) > 0 {
		if err := json.Unmarshal(cols.RawFinancials, &rec.RawFinancials); err != nil {
			return fmt.Errorf("decode raw_financials: %w", err)
		}
	}
	return nil
}

// floatArg converts an optional value into a nullable query argument.
func floatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
