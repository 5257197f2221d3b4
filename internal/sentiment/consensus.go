package sentiment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/cache"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

const neutralScore = 50

// Aggregator fuses two headline sources into a consensus score.
type Aggregator struct {
	yahoo      Source
	google     Source
	classifier Classifier
	cache      cache.Cache
	ttl        time.Duration
	log        zerolog.Logger
}

// NewAggregator wires the two sources. classifier and c may be nil.
func NewAggregator(yahoo, google Source, classifier Classifier, c cache.Cache, ttl time.Duration, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		yahoo:      yahoo,
		google:     google,
		classifier: classifier,
		cache:      c,
		ttl:        ttl,
		log:        log.With().Str("component", "sentiment").Logger(),
	}
}

// Analyze maps headlines to 0-100: positive counts 100, neutral 50 and
// negative 0. Confidence does not weight the mean. Without a classifier or
// headlines it is 50.
func (a *Aggregator) Analyze(ctx context.Context, headlines []string) (int, error) {
	if a.classifier == nil || len(headlines) == 0 {
		return neutralScore, nil
	}
	results, err := a.classifier.Classify(ctx, headlines)
	if err != nil {
		return neutralScore, err
	}
	if len(results) == 0 {
		return neutralScore, nil
	}
	var total float64
	for _, r := range results {
		switch r.Label {
		case model.SentimentPositive:
			total += 100
		case model.SentimentNegative:
		default:
			total += neutralScore
		}
	}
	return int(total / float64(len(results))), nil
}

// sourceScore never fails: fetch or classification errors score 50.
func (a *Aggregator) sourceScore(ctx context.Context, src Source, ticker string) (int, []string) {
	if src == nil {
		return neutralScore, nil
	}
	headlines, err := src.Headlines(ctx, ticker)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Str("source", src.Name()).Msg("headline source unavailable")
		return neutralScore, nil
	}
	score, err := a.Analyze(ctx, headlines)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Str("source", src.Name()).Msg("headline classification failed")
	}
	return score, headlines
}

// Consensus returns the unweighted mean of the two source scores,
// cached per ticker.
func (a *Aggregator) Consensus(ctx context.Context, ticker string) model.Sentiment {
	if cached, ok := cache.GetValue[model.Sentiment](ctx, a.cache, ticker); ok {
		return cached
	}

	yScore, yHeadlines := a.sourceScore(ctx, a.yahoo, ticker)
	gScore, gHeadlines := a.sourceScore(ctx, a.google, ticker)

	headlines := append(append([]string{}, yHeadlines...), gHeadlines...)
	s := model.Sentiment{
		Score:         (yScore + gScore) / 2,
		YahooScore:    yScore,
		GoogleScore:   gScore,
		HeadlineCount: len(headlines),
		Headlines:     headlines,
	}
	if err := cache.PutValue(ctx, a.cache, ticker, s, a.ttl); err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("sentiment not cached")
	}
	return s
}
