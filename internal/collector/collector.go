package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// ErrNoPriceData is returned when a ticker has no primary price history.
var ErrNoPriceData = errors.New("no price data")

// Snapshot is everything fetched for one ticker evaluation.
type Snapshot struct {
	Ticker    string
	Info      model.RawMetricSet
	History   model.PriceSeries
	Benchmark model.PriceSeries
	Revisions []model.Revision
}

// Collector orchestrates the per-ticker fetches.
type Collector struct {
	Provider  Provider
	Benchmark string
	log       zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(provider Provider, benchmark string, log zerolog.Logger) *Collector {
	return &Collector{
		Provider:  provider,
		Benchmark: benchmark,
		log:       log.With().Str("component", "collector").Logger(),
	}
}

// Collect fetches the primary history first and fails fast when it is
// missing or the source is unavailable. Every other fetch degrades to an
// empty value with a warning.
func (c *Collector) Collect(ctx context.Context, ticker string) (Snapshot, error) {
	snap := Snapshot{Ticker: ticker}

	history, err := c.Provider.History(ctx, ticker, Period1Y)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return snap, fmt.Errorf("%s: %w", ticker, ErrNoPriceData)
		}
		return snap, fmt.Errorf("fetch history %s: %w", ticker, err)
	}
	if history.Empty() {
		return snap, fmt.Errorf("%s: %w", ticker, ErrNoPriceData)
	}
	snap.History = history

	info, err := c.Provider.Info(ctx, ticker)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("info fetch failed, scoring without fundamentals")
		info = model.RawMetricSet{Ticker: ticker}
	}
	snap.Info = info

	if c.Benchmark != "" {
		bench, err := c.Provider.History(ctx, c.Benchmark, Period1Y)
		if err != nil {
			c.log.Warn().Err(err).Str("benchmark", c.Benchmark).Msg("benchmark fetch failed, skipping relative strength")
		}
		snap.Benchmark = bench
	}

	revisions, err := c.Provider.UpgradesDowngrades(ctx, ticker)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("upgrades/downgrades fetch failed")
	}
	snap.Revisions = revisions

	return snap, nil
}
