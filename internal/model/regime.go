package model

import "time"

// MarketRegime describes the trend state of a ticker's benchmark.
type MarketRegime struct {
	Status  string `json:"status"`
	Color   string `json:"color"`
	Summary string `json:"summary"`
	Market  string `json:"market"`
}

// MacroRegime is the cross-asset risk regime persisted by the cron path.
type MacroRegime struct {
	RegimeLabel       string    `json:"regime_label" db:"regime_label"`
	SPYTrend          string    `json:"spy_trend" db:"spy_trend"`
	TLTTrend          string    `json:"tlt_trend" db:"tlt_trend"`
	GLDTrend          string    `json:"gld_trend" db:"gld_trend"`
	VIXLevel          float64   `json:"vix_level" db:"vix_level"`
	MarketHealthScore int       `json:"market_health_score" db:"market_health_score"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// PulseEntry is one asset line of the global market pulse.
type PulseEntry struct {
	Name      string  `json:"name"`
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	Delta     float64 `json:"delta"`
	PctChange float64 `json:"pct"`
	Arrow     string  `json:"arrow"`
	Color     string  `json:"color"`
	Signal    string  `json:"signal"`
	RSI       float64 `json:"rsi"`
}
