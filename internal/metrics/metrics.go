package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus collectors for the terminal.
type Registry struct {
	reg *prometheus.Registry

	ScoreDuration  *prometheus.HistogramVec
	ScoresTotal    *prometheus.CounterVec
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	SourceFailures *prometheus.CounterVec
	BreakerState   *prometheus.GaugeVec
	BatchTickers   *prometheus.CounterVec
}

// NewRegistry creates and registers all collectors on a private registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ScoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "terminal_score_duration_seconds",
				Help:    "Duration of a full ticker score computation",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"source"},
		),
		ScoresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "terminal_scores_total",
				Help: "Score computations by outcome",
			},
			[]string{"result"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "terminal_cache_hits_total",
				Help: "Cache hits by cache namespace",
			},
			[]string{"namespace"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "terminal_cache_misses_total",
				Help: "Cache misses by cache namespace",
			},
			[]string{"namespace"},
		),
		SourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "terminal_source_failures_total",
				Help: "External data source failures by source and call",
			},
			[]string{"source", "call"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "terminal_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"breaker"},
		),
		BatchTickers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "terminal_batch_tickers_total",
				Help: "Tickers processed by the batch job by outcome",
			},
			[]string{"result"},
		),
	}
	r.reg.MustRegister(
		r.ScoreDuration,
		r.ScoresTotal,
		r.CacheHits,
		r.CacheMisses,
		r.SourceFailures,
		r.BreakerState,
		r.BatchTickers,
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying gatherer, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// ObserveScore records one score computation.
func (r *Registry) ObserveScore(source string, start time.Time, err error) {
	if r == nil {
		return
	}
	r.ScoreDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ScoresTotal.WithLabelValues(result).Inc()
}

// CacheLookup records a cache hit or miss for namespace.
func (r *Registry) CacheLookup(namespace string, hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheHits.WithLabelValues(namespace).Inc()
		return
	}
	r.CacheMisses.WithLabelValues(namespace).Inc()
}

// SourceFailure records a failed external call.
func (r *Registry) SourceFailure(source, call string) {
	if r == nil {
		return
	}
	r.SourceFailures.WithLabelValues(source, call).Inc()
}

// SetBreakerState records the numeric state of a named circuit breaker.
func (r *Registry) SetBreakerState(name string, state int) {
	if r == nil {
		return
	}
	r.BreakerState.WithLabelValues(name).Set(float64(state))
}

// BatchTicker records one ticker outcome of a batch run.
func (r *Registry) BatchTicker(ok bool) {
	if r == nil {
		return
	}
	if ok {
		r.BatchTickers.WithLabelValues("ok").Inc()
		return
	}
	r.BatchTickers.WithLabelValues("error").Inc()
}
