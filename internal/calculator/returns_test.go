package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func TestPctChange(t *testing.T) {
	r := PctChange([]float64{100, 110, 99})
	assert.True(t, math.IsNaN(r[0]))
	assert.InDelta(t, 0.10, r[1], 1e-9)
	assert.InDelta(t, -0.10, r[2], 1e-9)
}

func TestPeriodReturn(t *testing.T) {
	closes := ramp(100, 100, 1)
	ret, ok := PeriodReturn(closes, 60)
	assert.True(t, ok)
	// closes[40] = 140, last = 199
	assert.InDelta(t, 199.0/140.0-1, ret, 1e-9)

	_, ok = PeriodReturn(closes[:10], 60)
	assert.False(t, ok)
}

func TestMaxDrawdown(t *testing.T) {
	assert.InDelta(t, -0.5, MaxDrawdown([]float64{1, 2, 1, 1.5}), 1e-9)
	assert.Equal(t, 0.0, MaxDrawdown([]float64{1, 2, 3}))
}

func TestCAGR(t *testing.T) {
	assert.InDelta(t, 1.0, CAGR(2, 252), 1e-9)
	assert.InDelta(t, math.Sqrt(2)-1, CAGR(2, 504), 1e-9)
	assert.Equal(t, 0.0, CAGR(0, 252))
}

func TestDailyVolatility(t *testing.T) {
	assert.Equal(t, 0.0, DailyVolatility([]float64{1}))
	assert.InDelta(t, 0.0, DailyVolatility(ramp(3, 1, 0)), 1e-12)
	assert.Greater(t, DailyVolatility([]float64{100, 110, 99, 120}), 0.0)
}

func TestAlignCloses_ForwardFill(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 16, 0, 0, 0, time.UTC) }
	target := []model.OHLCV{{Time: day(1)}, {Time: day(4)}, {Time: day(5)}, {Time: day(6)}}
	bench := []model.OHLCV{{Time: day(4), Close: 10}, {Time: day(6), Close: 12}}

	out := AlignCloses(target, bench)
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 10.0, out[1])
	assert.Equal(t, 10.0, out[2])
	assert.Equal(t, 12.0, out[3])
}
