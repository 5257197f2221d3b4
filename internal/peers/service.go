package peers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/cache"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// QuantLoader reads precomputed per-ticker rows.
type QuantLoader interface {
	LoadQuantMetrics(ctx context.Context, ticker string) (model.QuantRecord, bool, error)
}

// Service builds peer samples and comparison tables.
type Service struct {
	provider collector.Provider
	cache    cache.Cache
	ttl      time.Duration
	store    QuantLoader
	log      zerolog.Logger
}

// NewService creates a peer service. c and store may be nil.
func NewService(provider collector.Provider, c cache.Cache, ttl time.Duration, store QuantLoader, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		store:    store,
		log:      log.With().Str("component", "peers").Logger(),
	}
}

func sampleKey(ticker, sector string) string {
	return ticker + "|" + sector
}

// Sample returns the target's record followed by its sector peers.
// Tickers whose fundamentals cannot be fetched are skipped.
func (s *Service) Sample(ctx context.Context, ticker, sector string) []model.PeerRecord {
	key := sampleKey(ticker, sector)
	if cached, ok := cache.GetValue[[]model.PeerRecord](ctx, s.cache, key); ok {
		return cached
	}

	tickers := append([]string{ticker}, PeersFor(ticker, sector)...)
	records := make([]model.PeerRecord, 0, len(tickers))
	for _, t := range tickers {
		info, err := s.provider.Info(ctx, t)
		if err != nil {
			s.log.Debug().Err(err).Str("ticker", t).Msg("peer skipped")
			continue
		}
		records = append(records, BuildRecord(info))
	}

	if len(records) > 0 {
		if err := cache.PutValue(ctx, s.cache, key, records, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("peer sample not cached")
		}
	}
	return records
}

// Comparison returns the ranked peer table. Unless live is set, a table
// stored by the batch job is preferred; any store error falls back to a
// live computation.
func (s *Service) Comparison(ctx context.Context, ticker, sector string, live bool) []model.PeerRow {
	if !live && s.store != nil {
		rec, ok, err := s.store.LoadQuantMetrics(ctx, ticker)
		switch {
		case err != nil:
			s.log.Debug().Err(err).Str("ticker", ticker).Msg("stored peer table unavailable")
		case ok && len(rec.PeerComparison) > 0:
			return rec.PeerComparison
		}
	}
	return Compare(s.Sample(ctx, ticker, sector))
}
