package model

// Grade is the discrete rating derived from a composite score.
type Grade string

const (
	GradeStrongBuy  Grade = "Strong Buy"
	GradeBuy        Grade = "Buy"
	GradeHold       Grade = "Hold"
	GradeSell       Grade = "Sell"
	GradeStrongSell Grade = "Strong Sell"
)

// TierScore is one of the twelve bounded sub-scores.
type TierScore struct {
	Tier    int            `json:"tier" msgpack:"tier"`
	Label   string         `json:"label" msgpack:"label"`
	Score   int            `json:"score" msgpack:"score"`
	Weight  int            `json:"weight" msgpack:"weight"`
	Metrics map[string]any `json:"metrics,omitempty" msgpack:"metrics,omitempty"`
}

// CompositeResult is the engine's output contract for a ticker.
type CompositeResult struct {
	Ticker         string         `json:"ticker" msgpack:"ticker"`
	FinalScore     int            `json:"final_score" msgpack:"final_score"`
	FinalGrade     Grade          `json:"final_grade" msgpack:"final_grade"`
	Breakdown      map[string]int `json:"breakdown" msgpack:"breakdown"`
	Tiers          []TierScore    `json:"tiers" msgpack:"tiers"`
	Metrics        map[string]any `json:"metrics" msgpack:"metrics"`
	Sector         string         `json:"sector" msgpack:"sector"`
	CompanyName    string         `json:"company_name" msgpack:"company_name"`
	CurrentPrice   float64        `json:"current_price" msgpack:"current_price"`
	NewsHeadlines  []string       `json:"news_headlines" msgpack:"news_headlines"`
	DCFFairValue   *float64       `json:"dcf_fair_value,omitempty" msgpack:"dcf_fair_value,omitempty"`
	PiotroskiScore *int           `json:"piotroski_score,omitempty" msgpack:"piotroski_score,omitempty"`
}

// ErrorResult is the single top-level payload returned when scoring fails.
type ErrorResult struct {
	Error string `json:"error"`
}

// MetricLabels lists the flattened display metrics in presentation order.
var MetricLabels = []string{
	"PEG Ratio",
	"RSI (D/W)",
	"P/S Ratio",
	"Beta",
	"Short Float",
	"Rel Strength (3M)",
	"Insider Own",
	"SMA 200",
	"Score (Yahoo)",
	"Score (Google)",
	"Headlines",
	"Alpha (Revisions)",
}
