package model

import "time"

// QuantRecord is the precomputed per-ticker row written by the batch job.
type QuantRecord struct {
	Ticker          string           `json:"ticker"`
	CurrentPrice    float64          `json:"current_price"`
	DCFFairValue    *float64         `json:"dcf_fair_value"`
	DCFUpsidePct    *float64         `json:"dcf_upside_pct"`
	PiotroskiScore  int              `json:"piotroski_score"`
	ZScoreComposite float64          `json:"z_score_composite"`
	TierMatrix      *CompositeResult `json:"tier_matrix"`
	PeerComparison  []PeerRow        `json:"peer_comparison"`
	RawFinancials   map[string]any   `json:"raw_financials"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
