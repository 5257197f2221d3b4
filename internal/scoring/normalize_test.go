package scoring

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Scenarios(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(-5, 1.0, 3.0, true))
	assert.Equal(t, 50.0, NormalizeValue(nil, 1.0, 3.0, true))
	assert.InDelta(t, 50.0, Normalize(2.0, 1.0, 3.0, true), 1e-9)
}

func TestNormalize_NegativeInvertedIsZero(t *testing.T) {
	for _, v := range []float64{-0.0001, -1, -440, -1e9} {
		assert.Equal(t, 0.0, Normalize(v, 1, 3, true), "value %v", v)
		assert.Equal(t, 0.0, Normalize(v, -10, 10, true), "value %v", v)
	}
}

func TestNormalizeValue_MissingIsNeutral(t *testing.T) {
	for _, inv := range []bool{true, false} {
		assert.Equal(t, 50.0, NormalizeValue(nil, 0, 1, inv))
		assert.Equal(t, 50.0, NormalizeValue(nil, -100, 100, inv))
		assert.Equal(t, 50.0, NormalizeValue("n/a", 0, 1, inv))
		assert.Equal(t, 50.0, Normalize(math.NaN(), 0, 1, inv))
	}
}

func TestNormalizeValue_CoercesStrings(t *testing.T) {
	assert.InDelta(t, 50.0, NormalizeValue("10%", 0, 20, false), 1e-9)
	assert.InDelta(t, 50.0, NormalizeValue("1,500", 1000, 2000, false), 1e-9)
}

func TestNormalize_Clamped(t *testing.T) {
	assert.Equal(t, 100.0, Normalize(10, 0, 1, false))
	assert.Equal(t, 0.0, Normalize(-10, 0, 1, false))
	assert.Equal(t, 0.0, Normalize(10, 0, 1, true))
	assert.Equal(t, 100.0, Normalize(0, 1, 3, true))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		lo := rng.Float64()*200 - 100
		hi := lo + rng.Float64()*50 + 1e-3
		v := rng.NormFloat64() * 200
		for _, inv := range []bool{true, false} {
			got := Normalize(v, lo, hi, inv)
			assert.True(t, got >= 0 && got <= 100, "normalize(%v,%v,%v,%v)=%v", v, lo, hi, inv, got)
		}
	}
}
