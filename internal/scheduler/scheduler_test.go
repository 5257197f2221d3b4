package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

type fakeBuilder struct {
	mu      sync.Mutex
	sectors map[string]string
	fail    map[string]error
}

func (b *fakeBuilder) Build(_ context.Context, ticker, sector string) (model.QuantRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sectors == nil {
		b.sectors = make(map[string]string)
	}
	b.sectors[ticker] = sector
	if err := b.fail[ticker]; err != nil {
		return model.QuantRecord{}, err
	}
	return model.QuantRecord{
		Ticker:         ticker,
		PiotroskiScore: 6,
		TierMatrix:     &model.CompositeResult{Ticker: ticker, FinalScore: 70, FinalGrade: model.GradeBuy},
	}, nil
}

type memStore struct {
	mu      sync.Mutex
	quant   map[string]model.QuantRecord
	scores  []string
	regimes []model.MacroRegime
	saveErr error
}

func newMemStore() *memStore { return &memStore{quant: make(map[string]model.QuantRecord)} }

func (m *memStore) SaveQuantMetrics(_ context.Context, rec model.QuantRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.quant[rec.Ticker] = rec
	return nil
}

func (m *memStore) LoadQuantMetrics(_ context.Context, ticker string) (model.QuantRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.quant[ticker]
	return rec, ok, nil
}

func (m *memStore) SaveRegime(_ context.Context, r model.MacroRegime) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regimes = append(m.regimes, r)
	return nil
}

func (m *memStore) LatestRegime(context.Context) (model.MacroRegime, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.regimes) == 0 {
		return model.MacroRegime{}, false, nil
	}
	return m.regimes[len(m.regimes)-1], true, nil
}

func (m *memStore) RecordScore(_ context.Context, res model.CompositeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, res.Ticker)
	return nil
}

func (m *memStore) Close() error { return nil }

type fakeScorer struct {
	err error
}

func (f fakeScorer) Score(_ context.Context, ticker string, live bool) (model.CompositeResult, error) {
	if f.err != nil {
		return model.CompositeResult{}, f.err
	}
	return model.CompositeResult{
		Ticker: ticker, CompanyName: ticker + " Corp", Sector: "Technology",
		FinalScore: 66, FinalGrade: model.GradeBuy,
	}, nil
}

type fakeNotifier struct {
	enabled bool
	sent    []string
}

func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

func newTestScheduler(b Builder, sc Scorer, store *memStore, n Notifier, m *metrics.Registry) *Scheduler {
	cfg := Config{
		QuantCron:  "0 0 22 * * 1-5",
		RegimeCron: "0 30 21 * * 1-5",
		Tickers:    []string{"AAPL", "JPM", "BAD", "XOM"},
		SectorFor: func(t string) string {
			if t == "JPM" {
				return "Financial Services"
			}
			return "Technology"
		},
		Workers: 3,
	}
	return NewScheduler(context.Background(), cfg, &collector.MockProvider{Price: 100}, b, sc, store, n, m, zerolog.Nop())
}

func TestRunQuantBatch(t *testing.T) {
	b := &fakeBuilder{fail: map[string]error{"BAD": errors.New("fetch info BAD: not found")}}
	store := newMemStore()
	store.regimes = []model.MacroRegime{{RegimeLabel: "Goldilocks"}}
	reg := metrics.NewRegistry()
	s := newTestScheduler(b, fakeScorer{}, store, nil, reg)

	run := s.RunQuantBatch(context.Background())

	assert.NotEmpty(t, run.ID)
	assert.Len(t, run.Records, 3)
	assert.Equal(t, map[string]string{"BAD": "fetch info BAD: not found"}, run.Failed)
	require.NotNil(t, run.Regime)
	assert.Equal(t, "Goldilocks", run.Regime.RegimeLabel)

	assert.Len(t, store.quant, 3)
	assert.ElementsMatch(t, []string{"AAPL", "JPM", "XOM"}, store.scores)
	assert.Equal(t, "Financial Services", b.sectors["JPM"])
	assert.Equal(t, "Technology", b.sectors["AAPL"])

	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "terminal_batch_tickers_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"ok": 3, "error": 1}, counts)
}

func TestRunQuantBatch_SaveFailure(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	s := newTestScheduler(&fakeBuilder{}, fakeScorer{}, store, nil, nil)

	run := s.RunQuantBatch(context.Background())

	assert.Empty(t, run.Records)
	assert.Len(t, run.Failed, 4)
	assert.Contains(t, run.Failed["AAPL"], "disk full")
	assert.Nil(t, run.Regime)
}

func TestQuantTask_SendsDigest(t *testing.T) {
	n := &fakeNotifier{enabled: true}
	s := newTestScheduler(&fakeBuilder{}, fakeScorer{}, newMemStore(), n, nil)

	s.quantTask()

	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "Quant Engine")
	assert.Contains(t, n.sent[0], "4 ok, 0 failed")
}

func TestQuantTask_DisabledNotifier(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(&fakeBuilder{}, fakeScorer{}, newMemStore(), n, nil)

	s.quantTask()

	assert.Empty(t, n.sent)
}

func TestRunRegime(t *testing.T) {
	store := newMemStore()
	s := newTestScheduler(&fakeBuilder{}, fakeScorer{}, store, nil, nil)

	r, err := s.RunRegime(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, r.RegimeLabel)
	assert.False(t, r.UpdatedAt.IsZero())
	require.Len(t, store.regimes, 1)
	assert.Equal(t, r, store.regimes[0])
}

func TestRunRegime_NoData(t *testing.T) {
	store := newMemStore()
	s := newTestScheduler(&fakeBuilder{}, fakeScorer{}, store, nil, nil)
	s.Provider = &collector.MockProvider{}

	_, err := s.RunRegime(context.Background())
	assert.ErrorIs(t, err, collector.ErrNoPriceData)
	assert.Empty(t, store.regimes)
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(&fakeBuilder{}, fakeScorer{}, newMemStore(), nil, nil)
	require.NoError(t, s.RegisterAll())
	assert.Len(t, s.Cron.Entries(), 2)

	s.cfg.QuantCron = "not a cron"
	assert.Error(t, s.RegisterAll())
}

func TestHandleCommand(t *testing.T) {
	store := newMemStore()
	store.regimes = []model.MacroRegime{{RegimeLabel: "Risk-Off", VIXLevel: 28}}
	s := newTestScheduler(&fakeBuilder{}, fakeScorer{}, store, nil, nil)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/score btc"), "BTC-USD Corp")
	assert.Equal(t, "Usage: /score TICKER", s.HandleCommand(ctx, "/score"))
	assert.Contains(t, s.HandleCommand(ctx, "/regime"), "Risk-Off")
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/score TICKER")
	assert.Contains(t, s.HandleCommand(ctx, ""), "/help")
}

func TestHandleCommand_Errors(t *testing.T) {
	ctx := context.Background()

	s := newTestScheduler(&fakeBuilder{}, fakeScorer{err: fmt.Errorf("collect: %w", collector.ErrNoPriceData)}, newMemStore(), nil, nil)
	assert.Equal(t, "No price data found for ZZZZ", s.HandleCommand(ctx, "/score zzzz"))

	s = newTestScheduler(&fakeBuilder{}, fakeScorer{err: errors.New("timeout")}, newMemStore(), nil, nil)
	assert.Equal(t, "Failed to fetch data: timeout", s.HandleCommand(ctx, "/score AAPL"))
}
