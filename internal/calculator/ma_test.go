package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-9)

	v, err = CalculateSMA([]float64{10, 1, 2, 3}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrNotEnoughData)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestSMASeries(t *testing.T) {
	s := SMASeries([]float64{1, 2, 3, 4}, 2)
	require.Len(t, s, 4)
	assert.True(t, math.IsNaN(s[0]))
	assert.InDelta(t, 1.5, s[1], 1e-9)
	assert.InDelta(t, 3.5, s[3], 1e-9)

	short := SMASeries([]float64{1}, 5)
	assert.True(t, math.IsNaN(short[0]))
}

func TestLongTrendSMA_FallsBackTo50(t *testing.T) {
	closes := ramp(120, 100, 1)
	sma, ok := LongTrendSMA(closes)
	require.True(t, ok)
	// mean of the last 50 values: 170..219
	assert.InDelta(t, 194.5, sma, 1e-9)

	closes = ramp(250, 100, 1)
	sma, ok = LongTrendSMA(closes)
	require.True(t, ok)
	assert.InDelta(t, 249.5, sma, 1e-9)

	_, ok = LongTrendSMA(ramp(30, 1, 1))
	assert.False(t, ok)
}
