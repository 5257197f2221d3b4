package main

import (
	"context"
	"fmt"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/cache"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/config"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/logger"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/peers"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/quant"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/recorder"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/scoring"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/sentiment"
)

// app holds the wired components shared by all commands.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	metrics  *metrics.Registry
	provider collector.Provider
	store    recorder.Store
	peers    *peers.Service
	engine   *scoring.Engine
	builder  *quant.Builder
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if mockData {
		cfg.DataSource.Mock = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log := logger.New(cfg.Log)
	logger.SetGlobalLogger(log)
	reg := metrics.NewRegistry()

	var provider collector.Provider
	if cfg.DataSource.Mock {
		provider = &collector.MockProvider{Price: 100}
	} else {
		provider = collector.NewYahooProvider(collector.YahooConfig{
			ChartURL:       cfg.DataSource.ChartURL,
			SummaryURL:     cfg.DataSource.SummaryURL,
			SearchURL:      cfg.DataSource.SearchURL,
			Proxy:          cfg.Proxy,
			Timeout:        cfg.DataSource.Timeout,
			RequestsPerSec: cfg.DataSource.RequestsPerSec,
			Burst:          cfg.DataSource.Burst,
			QuoteClient:    yfgo.NewClient(),
		})
	}
	provider = collector.NewResilient(provider, collector.DefaultBreakerConfig, reg, log)
	log.Info().Str("source", provider.Name()).Msg("data source ready")

	backend, err := cache.New(ctx, cache.Options{
		Backend:   cfg.Cache.Backend,
		RedisAddr: cfg.Cache.RedisAddr,
		Prefix:    "terminal:",
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	store, err := recorder.Open(ctx, recorder.Options{
		Driver:     cfg.Database.Driver,
		SQLitePath: cfg.Database.SQLitePath,
		DSN:        cfg.Database.DSN,
	}, log)
	if err != nil {
		log.Warn().Err(err).Msg("init store failed, using noop")
		store = recorder.NewNoopStore()
	}

	peerSvc := peers.NewService(provider, cache.WithMetrics(backend, "peers", reg), time.Hour, store, log)

	var classifier sentiment.Classifier
	if cfg.Sentiment.AnthropicAPIKey != "" {
		classifier = sentiment.NewClaudeClassifier(cfg.Sentiment.AnthropicAPIKey, cfg.Sentiment.Model)
	} else {
		log.Info().Msg("no anthropic api key, sentiment stays neutral")
	}
	agg := sentiment.NewAggregator(
		sentiment.ProviderNews{Provider: provider},
		sentiment.NewGoogleNews(cfg.DataSource.GoogleNewsURL, cfg.DataSource.Timeout),
		classifier,
		cache.WithMetrics(backend, "sentiment", reg),
		cfg.Cache.TTL,
		log,
	)

	engine := scoring.NewEngine(scoring.Deps{
		Collector: collector.NewCollector(provider, cfg.DataSource.Benchmark, log),
		Peers:     peerSvc,
		Sentiment: agg,
		Store:     store,
		Cache:     cache.WithMetrics(backend, "score", reg),
		TTL:       cfg.Cache.TTL,
		Metrics:   reg,
		Log:       log,
	})

	return &app{
		cfg:      cfg,
		log:      log,
		metrics:  reg,
		provider: provider,
		store:    store,
		peers:    peerSvc,
		engine:   engine,
		builder:  quant.NewBuilder(provider, engine, peerSvc, log),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close store")
	}
}
