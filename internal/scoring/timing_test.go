package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func trendSeries(n int, start, step float64) model.PriceSeries {
	origin := time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = model.OHLCV{Time: origin.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func TestScoreRSI_Buckets(t *testing.T) {
	cases := map[float64]float64{
		10: 100, 29.9: 100, 30: 85, 39.9: 85, 40: 50, 49.9: 50,
		50: 65, 70: 65, 72: 50, 75: 50, 75.1: 20, 95: 20,
	}
	for rsi, want := range cases {
		assert.Equal(t, want, ScoreRSI(rsi), "rsi=%v", rsi)
	}
}

func TestScoreTiming_ShortHistoryIsNeutral(t *testing.T) {
	tier := ScoreTiming(Inputs{History: trendSeries(15, 100, 1)})
	assert.Equal(t, 50, tier.Score)
	assert.Equal(t, "N/A", tier.Metrics["RSI (D/W)"])
	assert.Equal(t, "N/A", tier.Metrics["SMA 200"])
	assert.Equal(t, "N/A", tier.Metrics["Rel Strength (3M)"])
}

func TestScoreTiming_OversoldDowntrend(t *testing.T) {
	// far below the 200-day average (0) with daily and weekly RSI at 0 (100 each)
	tier := ScoreTiming(Inputs{History: trendSeries(260, 400, -1)})
	assert.Equal(t, 60, tier.Score)
	assert.Equal(t, "0 / 0", tier.Metrics["RSI (D/W)"])
	assert.Equal(t, "240.50", tier.Metrics["SMA 200"])
}

func TestScoreTiming_RelativeStrength(t *testing.T) {
	history := trendSeries(260, 100, 1)

	// stretched above trend (100) with undefined RSI readings (50 each)
	alone := ScoreTiming(Inputs{History: history})
	assert.Equal(t, 70, alone.Score)

	matched := ScoreTiming(Inputs{History: history, Benchmark: history})
	assert.Equal(t, 66, matched.Score)
	assert.Equal(t, "0.0%", matched.Metrics["Rel Strength (3M)"])

	flat := ScoreTiming(Inputs{History: history, Benchmark: trendSeries(260, 100, 0)})
	assert.Equal(t, 76, flat.Score)
}

func TestScoreTiming_RelativeStrengthNeedsMoreThanSixtyBars(t *testing.T) {
	bench := trendSeries(80, 100, 0)

	short := trendSeries(60, 100, 1)
	assert.Equal(t, ScoreTiming(Inputs{History: short}).Score,
		ScoreTiming(Inputs{History: short, Benchmark: bench}).Score)

	long := trendSeries(61, 100, 1)
	assert.NotEqual(t, ScoreTiming(Inputs{History: long}).Score,
		ScoreTiming(Inputs{History: long, Benchmark: bench}).Score)
}

func TestRelativeStrength_Unavailable(t *testing.T) {
	_, ok := RelativeStrength(trendSeries(100, 100, 1), model.PriceSeries{})
	assert.False(t, ok)

	rs, ok := RelativeStrength(trendSeries(100, 100, 1), trendSeries(100, 50, 0))
	assert.True(t, ok)
	assert.InDelta(t, 199.0/140.0-1, rs, 1e-9)
}
