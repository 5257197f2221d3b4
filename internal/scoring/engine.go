package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/cache"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// ErrNoPriceData aborts a score when the primary price history is empty.
var ErrNoPriceData = collector.ErrNoPriceData

// Snapshotter fetches everything one evaluation needs.
type Snapshotter interface {
	Collect(ctx context.Context, ticker string) (collector.Snapshot, error)
}

// PeerSampler returns the target's record followed by its sector peers.
type PeerSampler interface {
	Sample(ctx context.Context, ticker, sector string) []model.PeerRecord
}

// SentimentSource returns the consensus headline sentiment for a ticker.
type SentimentSource interface {
	Consensus(ctx context.Context, ticker string) model.Sentiment
}

// QuantLoader reads rows precomputed by the batch job.
type QuantLoader interface {
	LoadQuantMetrics(ctx context.Context, ticker string) (model.QuantRecord, bool, error)
}

// Deps are the collaborators of an Engine. Only Collector is required.
type Deps struct {
	Collector Snapshotter
	Peers     PeerSampler
	Sentiment SentimentSource
	Store     QuantLoader
	Cache     cache.Cache
	TTL       time.Duration
	Metrics   *metrics.Registry
	Log       zerolog.Logger
}

// Engine computes composite scores.
type Engine struct {
	collector Snapshotter
	peers     PeerSampler
	sentiment SentimentSource
	store     QuantLoader
	cache     cache.Cache
	ttl       time.Duration
	metrics   *metrics.Registry
	log       zerolog.Logger
	now       func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(d Deps) *Engine {
	return &Engine{
		collector: d.Collector,
		peers:     d.Peers,
		sentiment: d.Sentiment,
		store:     d.Store,
		cache:     d.Cache,
		ttl:       d.TTL,
		metrics:   d.Metrics,
		log:       d.Log.With().Str("component", "engine").Logger(),
		now:       time.Now,
	}
}

// Score returns the composite result for ticker. Unless live is set, a
// result stored by the batch job is returned verbatim with its DCF fair
// value and Piotroski score attached. Errors are ErrNoPriceData for a
// missing history or a wrapped source error when the history fetch fails.
func (e *Engine) Score(ctx context.Context, ticker string, live bool) (model.CompositeResult, error) {
	start := e.now()
	if !live {
		if res, ok := e.stored(ctx, ticker); ok {
			e.metrics.ObserveScore("store", start, nil)
			return res, nil
		}
		if res, ok := cache.GetValue[model.CompositeResult](ctx, e.cache, ticker); ok {
			e.metrics.ObserveScore("cache", start, nil)
			return res, nil
		}
	}

	res, err := e.compute(ctx, ticker)
	e.metrics.ObserveScore("live", start, err)
	if err != nil {
		return model.CompositeResult{}, err
	}
	if err := cache.PutValue(ctx, e.cache, ticker, res, e.ttl); err != nil {
		e.log.Warn().Err(err).Str("ticker", ticker).Msg("score not cached")
	}
	return res, nil
}

// stored is best-effort: any failure means a live computation.
func (e *Engine) stored(ctx context.Context, ticker string) (model.CompositeResult, bool) {
	if e.store == nil {
		return model.CompositeResult{}, false
	}
	rec, ok, err := e.store.LoadQuantMetrics(ctx, ticker)
	if err != nil {
		e.log.Debug().Err(err).Str("ticker", ticker).Msg("stored score unavailable")
		return model.CompositeResult{}, false
	}
	if !ok || rec.TierMatrix == nil {
		return model.CompositeResult{}, false
	}
	res := *rec.TierMatrix
	res.DCFFairValue = rec.DCFFairValue
	piotroski := rec.PiotroskiScore
	res.PiotroskiScore = &piotroski
	return res, true
}

// Evaluate scores a fetched snapshot. It never fails.
func (e *Engine) Evaluate(ctx context.Context, snap collector.Snapshot) model.CompositeResult {
	sector := snap.Info.String(model.KeySector)

	var sample []model.PeerRecord
	if e.peers != nil {
		sample = e.peers.Sample(ctx, snap.Ticker, sector)
	}
	sentiment := model.NeutralSentiment()
	if e.sentiment != nil {
		sentiment = e.sentiment.Consensus(ctx, snap.Ticker)
	}

	in := Inputs{
		Info:       snap.Info,
		History:    snap.History,
		Benchmark:  snap.Benchmark,
		Peers:      sample,
		Revisions:  snap.Revisions,
		Sentiment:  sentiment,
		Thresholds: ResolveThresholds(sector),
		Now:        e.now(),
	}
	tiers := ScoreAll(in)
	score, grade := Composite(tiers)

	name := snap.Info.String(model.KeyLongName)
	if name == "" {
		name = snap.Ticker
	}
	if sector == "" {
		sector = "Unknown"
	}
	return model.CompositeResult{
		Ticker:        snap.Ticker,
		FinalScore:    score,
		FinalGrade:    grade,
		Breakdown:     Breakdown(tiers),
		Tiers:         tiers,
		Metrics:       FlattenMetrics(tiers),
		Sector:        sector,
		CompanyName:   name,
		CurrentPrice:  in.CurrentPrice(),
		NewsHeadlines: sentiment.Headlines,
	}
}

func (e *Engine) compute(ctx context.Context, ticker string) (model.CompositeResult, error) {
	snap, err := e.collector.Collect(ctx, ticker)
	if err != nil {
		return model.CompositeResult{}, err
	}
	return e.Evaluate(ctx, snap), nil
}

// ErrorPayload renders a scoring failure as the single top-level error result.
func ErrorPayload(err error) model.ErrorResult {
	if errors.Is(err, ErrNoPriceData) {
		return model.ErrorResult{Error: "No price data found"}
	}
	return model.ErrorResult{Error: fmt.Sprintf("Failed to fetch data: %v", err)}
}
