package collector

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// BreakerConfig tunes the circuit breaker around a provider.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// DefaultBreakerConfig trips after five straight failures and probes again after 30s.
var DefaultBreakerConfig = BreakerConfig{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}

// Resilient guards a Provider with a circuit breaker and counts failures.
// Unknown tickers and cancelled requests do not count against the breaker.
type Resilient struct {
	next    Provider
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Registry
	log     zerolog.Logger
}

// NewResilient wraps next.
func NewResilient(next Provider, cfg BreakerConfig, m *metrics.Registry, log zerolog.Logger) *Resilient {
	r := &Resilient{
		next:    next,
		metrics: m,
		log:     log.With().Str("component", "breaker").Str("source", next.Name()).Logger(),
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			r.metrics.SetBreakerState(name, int(to))
		},
	})
	return r
}

func (r *Resilient) Name() string { return r.next.Name() }

// State returns the breaker state.
func (r *Resilient) State() gobreaker.State { return r.breaker.State() }

func execute[T any](r *Resilient, call string, fn func() (T, error)) (T, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.metrics.SourceFailure(r.next.Name(), call)
		}
		var zero T
		return zero, err
	}
	return out.(T), nil
}

func (r *Resilient) Info(ctx context.Context, ticker string) (model.RawMetricSet, error) {
	info, err := execute(r, "info", func() (model.RawMetricSet, error) { return r.next.Info(ctx, ticker) })
	if err != nil {
		return model.RawMetricSet{Ticker: ticker}, err
	}
	return info, nil
}

func (r *Resilient) History(ctx context.Context, ticker, period string) (model.PriceSeries, error) {
	s, err := execute(r, "history", func() (model.PriceSeries, error) { return r.next.History(ctx, ticker, period) })
	if err != nil {
		return model.PriceSeries{Symbol: ticker}, err
	}
	return s, nil
}

func (r *Resilient) UpgradesDowngrades(ctx context.Context, ticker string) ([]model.Revision, error) {
	return execute(r, "revisions", func() ([]model.Revision, error) { return r.next.UpgradesDowngrades(ctx, ticker) })
}

func (r *Resilient) News(ctx context.Context, ticker string) ([]string, error) {
	return execute(r, "news", func() ([]string, error) { return r.next.News(ctx, ticker) })
}

func (r *Resilient) Lookup(ctx context.Context, query string) (string, error) {
	return execute(r, "lookup", func() (string, error) { return r.next.Lookup(ctx, query) })
}
