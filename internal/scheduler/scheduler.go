package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/notifier"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/quant"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/recorder"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/scoring"
)

// Builder produces the precomputed quant row for one ticker.
type Builder interface {
	Build(ctx context.Context, ticker, sector string) (model.QuantRecord, error)
}

// Scorer answers on-demand score commands.
type Scorer interface {
	Score(ctx context.Context, ticker string, live bool) (model.CompositeResult, error)
}

// Notifier delivers digests.
type Notifier interface {
	Enabled() bool
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Config controls the batch jobs.
type Config struct {
	QuantCron  string
	RegimeCron string
	Tickers    []string
	SectorFor  func(ticker string) string
	Workers    int
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	Cron     *cron.Cron
	Provider collector.Provider
	Builder  Builder
	Scorer   Scorer
	Store    recorder.Store
	Notifier Notifier
	Metrics  *metrics.Registry
	Ctx      context.Context

	cfg Config
	log zerolog.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler. Notifier and Metrics may be nil.
func NewScheduler(ctx context.Context, cfg Config, p collector.Provider, b Builder, sc Scorer, store recorder.Store, n Notifier, m *metrics.Registry, log zerolog.Logger) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SectorFor == nil {
		cfg.SectorFor = func(string) string { return "Technology" }
	}
	if store == nil {
		store = recorder.NewNoopStore()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Provider: p,
		Builder:  b,
		Scorer:   sc,
		Store:    store,
		Notifier: n,
		Metrics:  m,
		Ctx:      ctx,
		cfg:      cfg,
		log:      log.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
}

// RegisterAll registers the quant batch and macro regime jobs.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc(s.cfg.QuantCron, s.quantTask); err != nil {
		return fmt.Errorf("register quant task: %w", err)
	}
	if _, err := s.Cron.AddFunc(s.cfg.RegimeCron, s.regimeTask); err != nil {
		return fmt.Errorf("register regime task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().
		Str("quant_cron", s.cfg.QuantCron).
		Str("regime_cron", s.cfg.RegimeCron).
		Int("tickers", len(s.cfg.Tickers)).
		Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) quantTask() {
	run := s.RunQuantBatch(s.Ctx)
	s.trySend(notifier.FormatDigest(run))
}

func (s *Scheduler) regimeTask() {
	if _, err := s.RunRegime(s.Ctx); err != nil {
		s.log.Error().Err(err).Msg("macro regime job failed")
	}
}

type outcome struct {
	ticker string
	rec    model.QuantRecord
	err    error
}

// RunQuantBatch builds and stores the quant row for every configured
// ticker. Failed tickers are logged and skipped.
func (s *Scheduler) RunQuantBatch(ctx context.Context) model.BatchRun {
	run := model.BatchRun{
		ID:      uuid.NewString(),
		Started: s.now(),
		Failed:  make(map[string]string),
	}
	log := s.log.With().Str("run_id", run.ID).Logger()
	log.Info().Int("tickers", len(s.cfg.Tickers)).Int("workers", s.cfg.Workers).Msg("quant batch started")

	jobs := make(chan string)
	results := make(chan outcome)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				results <- s.processTicker(ctx, ticker)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, t := range s.cfg.Tickers {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for o := range results {
		s.Metrics.BatchTicker(o.err == nil)
		if o.err != nil {
			log.Warn().Err(o.err).Str("ticker", o.ticker).Msg("ticker skipped")
			run.Failed[o.ticker] = o.err.Error()
			continue
		}
		run.Records = append(run.Records, o.rec)
	}

	if r, ok, err := s.Store.LatestRegime(ctx); err != nil {
		log.Warn().Err(err).Msg("load macro regime")
	} else if ok {
		run.Regime = &r
	}

	run.Duration = s.now().Sub(run.Started)
	log.Info().
		Int("ok", len(run.Records)).
		Int("failed", len(run.Failed)).
		Dur("duration", run.Duration).
		Msg("quant batch finished")
	return run
}

func (s *Scheduler) processTicker(ctx context.Context, ticker string) outcome {
	rec, err := s.Builder.Build(ctx, ticker, s.cfg.SectorFor(ticker))
	if err != nil {
		return outcome{ticker: ticker, err: err}
	}
	if err := s.Store.SaveQuantMetrics(ctx, rec); err != nil {
		return outcome{ticker: ticker, err: fmt.Errorf("save quant metrics: %w", err)}
	}
	if rec.TierMatrix != nil {
		if err := s.Store.RecordScore(ctx, *rec.TierMatrix); err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("record score history")
		}
	}
	return outcome{ticker: ticker, rec: rec}
}

// RunRegime classifies and stores the macro regime.
func (s *Scheduler) RunRegime(ctx context.Context) (model.MacroRegime, error) {
	r, err := quant.MacroRegime(ctx, s.Provider)
	if err != nil {
		return model.MacroRegime{}, err
	}
	r.UpdatedAt = s.now()
	if err := s.Store.SaveRegime(ctx, r); err != nil {
		return r, fmt.Errorf("save regime: %w", err)
	}
	s.log.Info().
		Str("regime", r.RegimeLabel).
		Float64("vix", r.VIXLevel).
		Int("health", r.MarketHealthScore).
		Msg("macro regime updated")
	return r, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch strings.ToLower(fields[0]) {
	case "/score":
		if len(fields) < 2 {
			return "Usage: /score TICKER"
		}
		ticker := collector.NormalizeTicker(fields[1])
		res, err := s.Scorer.Score(ctx, ticker, false)
		if err != nil {
			if errors.Is(err, scoring.ErrNoPriceData) {
				return fmt.Sprintf("No price data found for %s", ticker)
			}
			s.log.Error().Err(err).Str("ticker", ticker).Msg("score command failed")
			return scoring.ErrorPayload(err).Error
		}
		return notifier.FormatScore(res)
	case "/regime":
		r, ok, err := s.Store.LatestRegime(ctx)
		if err != nil || !ok {
			if r, err = s.RunRegime(ctx); err != nil {
				return fmt.Sprintf("Macro regime unavailable: %v", err)
			}
		}
		return notifier.FormatRegime(r)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
