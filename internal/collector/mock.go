package collector

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// Tickers without fixtures get generated data when Price is set.
type MockProvider struct {
	Price     float64
	Infos     map[string]model.RawMetricSet
	Histories map[string]model.PriceSeries
	Revisions map[string][]model.Revision
	Headlines map[string][]string
	// Symbols maps lookup queries to tickers.
	Symbols map[string]string
	// Errors is keyed by "call" or "call:TICKER", e.g. "history:SPY".
	Errors map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) record(call, ticker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[call+":"+ticker]++
	if err, ok := m.Errors[call+":"+ticker]; ok {
		return err
	}
	if err, ok := m.Errors[call]; ok {
		return err
	}
	return nil
}

// Calls returns how many times call was made for ticker.
func (m *MockProvider) Calls(call, ticker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[call+":"+ticker]
}

func (m *MockProvider) Info(_ context.Context, ticker string) (model.RawMetricSet, error) {
	if err := m.record("info", ticker); err != nil {
		return model.RawMetricSet{Ticker: ticker}, err
	}
	if info, ok := m.Infos[ticker]; ok {
		return info, nil
	}
	if m.Price <= 0 {
		return model.RawMetricSet{Ticker: ticker}, ErrNotFound
	}
	return mockInfo(ticker, m.Price), nil
}

func (m *MockProvider) History(_ context.Context, ticker, period string) (model.PriceSeries, error) {
	if err := m.record("history", ticker); err != nil {
		return model.PriceSeries{Symbol: ticker}, err
	}
	if s, ok := m.Histories[ticker]; ok {
		return s, nil
	}
	if m.Price <= 0 {
		return model.PriceSeries{Symbol: ticker}, nil
	}
	return model.PriceSeries{
		Symbol:    ticker,
		Bars:      generateMockBars(m.Price, periodBars(period)),
		FetchedAt: time.Now(),
	}, nil
}

func (m *MockProvider) UpgradesDowngrades(_ context.Context, ticker string) ([]model.Revision, error) {
	if err := m.record("revisions", ticker); err != nil {
		return nil, err
	}
	return m.Revisions[ticker], nil
}

func (m *MockProvider) News(_ context.Context, ticker string) ([]string, error) {
	if err := m.record("news", ticker); err != nil {
		return nil, err
	}
	return m.Headlines[ticker], nil
}

// Lookup resolves query through Symbols. Without a match it echoes the
// normalized query when Price is set.
func (m *MockProvider) Lookup(_ context.Context, query string) (string, error) {
	if err := m.record("lookup", query); err != nil {
		return "", err
	}
	if sym, ok := m.Symbols[strings.ToLower(strings.TrimSpace(query))]; ok {
		return sym, nil
	}
	if m.Price <= 0 || strings.TrimSpace(query) == "" {
		return "", ErrNotFound
	}
	return NormalizeTicker(query), nil
}

func periodBars(period string) int {
	switch strings.ToLower(period) {
	case Period5D:
		return 5
	case Period3Mo:
		return 63
	case Period2Y:
		return 504
	case Period10Y:
		return 2520
	default:
		return 252
	}
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

func mockInfo(ticker string, price float64) model.RawMetricSet {
	return model.NewRawMetricSet(ticker, map[string]any{
		model.KeySector:              "Technology",
		model.KeyLongName:            ticker + " Corp",
		model.KeyCurrentPrice:        price,
		model.KeyTrailingPE:          24.0,
		model.KeyForwardPE:           21.0,
		model.KeyPEGRatio:            1.8,
		model.KeyPriceToSales:        6.5,
		model.KeyEnterpriseToEBITDA:  17.0,
		model.KeyEarningsGrowth:      0.12,
		model.KeyRevenueGrowth:       0.09,
		model.KeyReturnOnEquity:      0.28,
		model.KeyReturnOnAssets:      0.11,
		model.KeyProfitMargins:       0.21,
		model.KeyOperatingMargins:    0.27,
		model.KeyCurrentRatio:        1.4,
		model.KeyDebtToEquity:        60.0,
		model.KeyOperatingCashflow:   1.2e10,
		model.KeyFreeCashflow:        9e9,
		model.KeyNetIncomeToCommon:   1e10,
		model.KeyHeldPctInsiders:     0.02,
		model.KeyHeldPctInstitutions: 0.6,
		model.KeyMarketCap:           3e11,
		model.KeyVolume:              1.1e6,
		model.KeyAverageVolume:       1e6,
		model.KeyDividendYield:       0.01,
		model.KeyTargetMeanPrice:     price * 1.1,
		model.KeyBeta:                1.1,
		model.KeyShortPercentFloat:   0.02,
		model.KeySharesOutstanding:   2e9,
	})
}
