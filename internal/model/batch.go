package model

import "time"

// BatchRun summarizes one run of the quant batch job.
type BatchRun struct {
	ID       string        `json:"id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Records  []QuantRecord `json:"records"`
	// Failed maps a ticker to the reason it was skipped.
	Failed map[string]string `json:"failed"`
	Regime *MacroRegime      `json:"regime,omitempty"`
}
