package scoring

import (
	"math"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// Neutral is the score substituted for missing inputs.
const Neutral = 50.0

// Normalize linearly rescales value from [lo, hi] into [0, 100].
// With invert set, lower raw values score higher and any negative
// value scores exactly 0. NaN is treated as missing.
func Normalize(value, lo, hi float64, invert bool) float64 {
	if math.IsNaN(value) {
		return Neutral
	}
	if invert && value < 0 {
		return 0
	}
	score := (value - lo) / (hi - lo) * 100
	score = math.Max(0, math.Min(100, score))
	if invert {
		return 100 - score
	}
	return score
}

// NormalizeValue is Normalize over a raw provider value. Absent or
// non-numeric values return Neutral.
func NormalizeValue(v any, lo, hi float64, invert bool) float64 {
	f, ok := model.Coerce(v)
	if !ok {
		return Neutral
	}
	return Normalize(f, lo, hi, invert)
}
