package quant

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/peers"
)

// Scorer computes a live composite score.
type Scorer interface {
	Score(ctx context.Context, ticker string, live bool) (model.CompositeResult, error)
}

// PeerTable computes the ranked peer comparison.
type PeerTable interface {
	Comparison(ctx context.Context, ticker, sector string, live bool) []model.PeerRow
}

// Builder assembles the precomputed row the batch job stores per ticker.
type Builder struct {
	provider collector.Provider
	scorer   Scorer
	peers    PeerTable
	log      zerolog.Logger
	now      func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(provider collector.Provider, scorer Scorer, peerTable PeerTable, log zerolog.Logger) *Builder {
	return &Builder{
		provider: provider,
		scorer:   scorer,
		peers:    peerTable,
		log:      log.With().Str("component", "quant").Logger(),
		now:      time.Now,
	}
}

// Build scores ticker live and adds the peer table, margin z-scores, the
// Piotroski score and the DCF valuation.
func (b *Builder) Build(ctx context.Context, ticker, sector string) (model.QuantRecord, error) {
	info, err := b.provider.Info(ctx, ticker)
	if err != nil {
		return model.QuantRecord{}, fmt.Errorf("fetch info %s: %w", ticker, err)
	}

	res, err := b.scorer.Score(ctx, ticker, true)
	if err != nil {
		return model.QuantRecord{}, fmt.Errorf("score %s: %w", ticker, err)
	}

	rows := b.peers.Comparison(ctx, ticker, sector, true)
	peers.ApplyMarginZ(rows)

	price := info.FloatOr(model.KeyCurrentPrice, res.CurrentPrice)
	rec := model.QuantRecord{
		Ticker:          ticker,
		CurrentPrice:    price,
		PiotroskiScore:  Piotroski(info),
		ZScoreComposite: peers.MeanMarginZ(rows),
		TierMatrix:      &res,
		PeerComparison:  rows,
		RawFinancials:   rawFinancials(info),
		UpdatedAt:       b.now().UTC(),
	}
	if v, ok := DCF(info, price); ok {
		rec.DCFFairValue = &v.FairValue
		rec.DCFUpsidePct = &v.UpsidePct
	}

	b.log.Debug().
		Str("ticker", ticker).
		Int("score", res.FinalScore).
		Int("piotroski", rec.PiotroskiScore).
		Msg("quant record built")
	return rec, nil
}

func rawFinancials(info model.RawMetricSet) map[string]any {
	out := map[string]any{"pe": nil, "mkt_cap": nil}
	if v, ok := info.Float(model.KeyTrailingPE); ok {
		out["pe"] = v
	}
	if v, ok := info.Float(model.KeyMarketCap); ok {
		out["mkt_cap"] = v
	}
	return out
}
