package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveThresholds(t *testing.T) {
	tech := ResolveThresholds("Technology")
	assert.Equal(t, 25.0, tech.PEGood)
	assert.Equal(t, 0.20, tech.MarginGood)
	assert.Equal(t, 100.0, tech.DEGood)

	fin := ResolveThresholds("Financial Services")
	assert.Equal(t, 200.0, fin.DEGood)
	assert.Equal(t, 1.0, fin.PBGood)

	energy := ResolveThresholds("Energy")
	assert.Equal(t, 0.05, energy.MarginGood)
	assert.Equal(t, 1.5, energy.PBGood)

	assert.Equal(t, 40.0, ResolveThresholds("Healthcare").PEBad)
	assert.Equal(t, DefaultThresholds, ResolveThresholds("Unknown"))
	assert.Equal(t, DefaultThresholds, ResolveThresholds(""))
}

func TestResolveThresholds_DoesNotMutateDefaults(t *testing.T) {
	_ = ResolveThresholds("Technology")
	assert.Equal(t, 15.0, DefaultThresholds.PEGood)
}
