package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func TestCollector_Collect(t *testing.T) {
	mock := &MockProvider{Price: 100}
	c := NewCollector(mock, "SPY", zerolog.Nop())

	snap, err := c.Collect(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 252, snap.History.Len())
	assert.Equal(t, 252, snap.Benchmark.Len())
	assert.Equal(t, "Technology", snap.Info.String(model.KeySector))
	assert.Equal(t, 1, mock.Calls("history", "SPY"))
}

func TestCollector_NoPriceDataFailsFast(t *testing.T) {
	mock := &MockProvider{Histories: map[string]model.PriceSeries{"AAPL": {Symbol: "AAPL"}}}
	c := NewCollector(mock, "SPY", zerolog.Nop())

	_, err := c.Collect(context.Background(), "AAPL")
	require.ErrorIs(t, err, ErrNoPriceData)
	assert.Zero(t, mock.Calls("info", "AAPL"), "no further fetches after an empty history")

	mock = &MockProvider{Errors: map[string]error{"history": ErrNotFound}}
	_, err = NewCollector(mock, "", zerolog.Nop()).Collect(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNoPriceData)
}

func TestCollector_HistoryOutageIsNotNoPriceData(t *testing.T) {
	mock := &MockProvider{Price: 100, Errors: map[string]error{"history:AAPL": errors.New("connection refused")}}
	_, err := NewCollector(mock, "SPY", zerolog.Nop()).Collect(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPriceData)
	assert.Contains(t, err.Error(), "fetch history AAPL: connection refused")
	assert.Zero(t, mock.Calls("info", "AAPL"))
}

func TestCollector_SecondarySourcesDegrade(t *testing.T) {
	mock := &MockProvider{
		Price: 50,
		Errors: map[string]error{
			"info":        errors.New("timeout"),
			"history:SPY": errors.New("timeout"),
			"revisions":   errors.New("timeout"),
		},
	}
	snap, err := NewCollector(mock, "SPY", zerolog.Nop()).Collect(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, snap.Info.Empty())
	assert.True(t, snap.Benchmark.Empty())
	assert.Nil(t, snap.Revisions)
	assert.False(t, snap.History.Empty())
}

func TestResilient_TripsOnConsecutiveFailures(t *testing.T) {
	mock := &MockProvider{Errors: map[string]error{"news": errors.New("boom")}}
	reg := metrics.NewRegistry()
	r := NewResilient(mock, BreakerConfig{ConsecutiveFailures: 3}, reg, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := r.News(context.Background(), "AAPL")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, r.State())

	_, err := r.News(context.Background(), "AAPL")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, mock.Calls("news", "AAPL"), "open breaker short-circuits the call")
}

func TestResilient_NotFoundDoesNotTrip(t *testing.T) {
	mock := &MockProvider{}
	r := NewResilient(mock, BreakerConfig{ConsecutiveFailures: 2}, nil, zerolog.Nop())
	for i := 0; i < 5; i++ {
		_, err := r.Info(context.Background(), "NOPE")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, r.State())
}

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]string{
		"btc":      "BTC-USD",
		" eth ":    "ETH-USD",
		"BTC-USDT": "BTC-USD",
		"ETH-USDT": "ETH-USD",
		"aapl":     "AAPL",
		"SOL-USD":  "SOL-USD",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTicker(in), in)
	}
	assert.True(t, IsCrypto("DOGE"))
	assert.True(t, IsCrypto("ADA-USD"))
	assert.False(t, IsCrypto("MSFT"))
}
