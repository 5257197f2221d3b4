package model

// SentimentLabel is a headline classification outcome.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Classification is the classifier verdict for one headline.
type Classification struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// Sentiment is the consensus of the two headline sources.
type Sentiment struct {
	Score         int      `json:"score" msgpack:"score"`
	YahooScore    int      `json:"yahoo_score" msgpack:"yahoo_score"`
	GoogleScore   int      `json:"google_score" msgpack:"google_score"`
	HeadlineCount int      `json:"headline_count" msgpack:"headline_count"`
	Headlines     []string `json:"headlines" msgpack:"headlines"`
}

// NeutralSentiment is used when no consensus could be computed.
func NeutralSentiment() Sentiment {
	return Sentiment{Score: 50, YahooScore: 50, GoogleScore: 50}
}
