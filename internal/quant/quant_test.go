package quant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func info(raw map[string]any) model.RawMetricSet {
	return model.NewRawMetricSet("TEST", raw)
}

func series(closes ...float64) model.PriceSeries {
	origin := time.Date(2025, 3, 3, 21, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: origin.AddDate(0, 0, i), Close: c}
	}
	return model.PriceSeries{Bars: bars}
}

func TestPiotroski(t *testing.T) {
	healthy := info(map[string]any{
		"returnOnAssets":    0.11,
		"operatingCashflow": 1.2e10,
		"earningsGrowth":    0.12,
		"netIncomeToCommon": 1e10,
		"currentRatio":      1.4,
		"profitMargins":     0.21,
		"revenueGrowth":     0.09,
	})
	assert.Equal(t, 8, Piotroski(healthy))

	weak := info(map[string]any{
		"returnOnAssets":    -0.1,
		"operatingCashflow": -1.0,
		"earningsGrowth":    -0.1,
		"netIncomeToCommon": 1.0,
		"currentRatio":      0.8,
		"profitMargins":     0.05,
		"revenueGrowth":     -0.01,
	})
	assert.Equal(t, 1, Piotroski(weak), "stable share count is always credited")

	assert.Equal(t, NeutralPiotroski, Piotroski(model.RawMetricSet{}))
	assert.Equal(t, 1, Piotroski(info(map[string]any{"profitMargins": 0.2})))
}

func TestDCF(t *testing.T) {
	base := map[string]any{"freeCashflow": 1e9, "sharesOutstanding": 1e8}
	with := func(extra map[string]any) model.RawMetricSet {
		raw := map[string]any{}
		for k, v := range base {
			raw[k] = v
		}
		for k, v := range extra {
			raw[k] = v
		}
		return info(raw)
	}

	cases := []struct {
		name   string
		growth map[string]any
		fair   float64
		upside float64
	}{
		{"given growth", map[string]any{"earningsGrowth": 0.10}, 216.45, 116.45},
		{"negative growth floored", map[string]any{"earningsGrowth": -0.3}, 154.31, 54.31},
		{"hyper growth capped", map[string]any{"earningsGrowth": 0.5}, 322.36, 222.36},
		{"missing growth", nil, 175.56, 75.56},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := DCF(with(tc.growth), 100)
			require.True(t, ok)
			assert.InDelta(t, tc.fair, v.FairValue, 0.011)
			assert.InDelta(t, tc.upside, v.UpsidePct, 0.011)
		})
	}
}

func TestDCF_MissingInputs(t *testing.T) {
	_, ok := DCF(info(map[string]any{"sharesOutstanding": 1e8}), 100)
	assert.False(t, ok)
	_, ok = DCF(info(map[string]any{"freeCashflow": 0.0, "sharesOutstanding": 1e8}), 100)
	assert.False(t, ok)
	_, ok = DCF(info(map[string]any{"freeCashflow": 1e9, "sharesOutstanding": 1e8}), 0)
	assert.False(t, ok)
}

func TestClassifyRegime(t *testing.T) {
	cases := []struct {
		spy, tlt string
		vix      float64
		label    string
		health   int
	}{
		{TrendBullish, TrendBearish, 14.2, RegimeRiskOn, 80},
		{TrendBullish, TrendBullish, 25, RegimeRiskOff, 80},
		{TrendBearish, TrendBullish, 14, RegimeDefensive, 40},
		{TrendBearish, TrendBearish, 30, RegimeStagflation, 40},
	}
	for _, tc := range cases {
		got := ClassifyRegime(tc.spy, tc.tlt, tc.vix)
		assert.Equal(t, tc.label, got.RegimeLabel)
		assert.Equal(t, tc.health, got.MarketHealthScore)
		assert.Equal(t, TrendNeutral, got.GLDTrend)
	}
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendBullish, Trend(series(1, 2, 3)))
	assert.Equal(t, TrendBearish, Trend(series(3, 2, 1)))
	assert.Equal(t, TrendBearish, Trend(series(2, 2, 2)))
	assert.Equal(t, TrendNeutral, Trend(model.PriceSeries{}))
}

func TestMacroRegime(t *testing.T) {
	p := &collector.MockProvider{Histories: map[string]model.PriceSeries{
		"SPY":  series(400, 410, 420, 430),
		"TLT":  series(100, 98, 96, 94),
		"^VIX": series(15, 14.234),
	}}
	got, err := MacroRegime(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, RegimeRiskOn, got.RegimeLabel)
	assert.Equal(t, 14.23, got.VIXLevel)
	assert.Equal(t, TrendBearish, got.TLTTrend)
}

func TestMacroRegime_MissingData(t *testing.T) {
	p := &collector.MockProvider{}
	_, err := MacroRegime(context.Background(), p)
	assert.ErrorIs(t, err, collector.ErrNoPriceData)

	p = &collector.MockProvider{Errors: map[string]error{"history:TLT": errors.New("timeout")}, Price: 100}
	_, err = MacroRegime(context.Background(), p)
	assert.Error(t, err)
}

type fakeScorer struct {
	res model.CompositeResult
	err error
}

func (s fakeScorer) Score(context.Context, string, bool) (model.CompositeResult, error) {
	return s.res, s.err
}

type fakePeers []model.PeerRow

func (p fakePeers) Comparison(context.Context, string, string, bool) []model.PeerRow {
	out := make([]model.PeerRow, len(p))
	copy(out, p)
	return out
}

func TestBuilder_Build(t *testing.T) {
	p := &collector.MockProvider{Infos: map[string]model.RawMetricSet{
		"ACME": model.NewRawMetricSet("ACME", map[string]any{
			"currentPrice":      100.0,
			"freeCashflow":      1e9,
			"sharesOutstanding": 1e8,
			"earningsGrowth":    0.10,
			"trailingPE":        22.5,
			"marketCap":         1e10,
		}),
	}}
	rows := fakePeers{
		{Rank: 1, Filled: map[string]float64{model.PeerMargins: 0.30}},
		{Rank: 2, Filled: map[string]float64{model.PeerMargins: 0.20}},
		{Rank: 3, Filled: map[string]float64{model.PeerMargins: 0.10}},
	}
	scorer := fakeScorer{res: model.CompositeResult{Ticker: "ACME", FinalScore: 66, FinalGrade: model.GradeBuy, CurrentPrice: 99}}
	b := NewBuilder(p, scorer, rows, zerolog.Nop())

	rec, err := b.Build(context.Background(), "ACME", "Technology")
	require.NoError(t, err)

	assert.Equal(t, "ACME", rec.Ticker)
	assert.Equal(t, 100.0, rec.CurrentPrice)
	require.NotNil(t, rec.TierMatrix)
	assert.Equal(t, 66, rec.TierMatrix.FinalScore)
	require.NotNil(t, rec.DCFFairValue)
	assert.InDelta(t, 216.45, *rec.DCFFairValue, 0.011)
	require.Len(t, rec.PeerComparison, 3)
	assert.Equal(t, 1.0, rec.PeerComparison[0].MarginZ)
	assert.Equal(t, -1.0, rec.PeerComparison[2].MarginZ)
	assert.InDelta(t, 0, rec.ZScoreComposite, 1e-9)
	assert.Equal(t, map[string]any{"pe": 22.5, "mkt_cap": 1e10}, rec.RawFinancials)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestBuilder_ScoreFailure(t *testing.T) {
	p := &collector.MockProvider{Price: 100}
	b := NewBuilder(p, fakeScorer{err: collector.ErrNoPriceData}, fakePeers{}, zerolog.Nop())

	_, err := b.Build(context.Background(), "ACME", "Technology")
	assert.ErrorIs(t, err, collector.ErrNoPriceData)
}
