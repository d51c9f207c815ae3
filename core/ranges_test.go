package core

import (
	"testing"

	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRangeFor tests sex-aware range lookup.
func TestRangeFor(t *testing.T) {
	tests := []struct {
		name     string
		hormone  schema.HormoneType
		sex      schema.BiologicalSex
		min, max float64
		unit     string
	}{
		{"cortisol ignores sex", schema.Cortisol, schema.Female, 10, 20, "ug/dL"},
		{"testosterone male", schema.Testosterone, schema.Male, 300, 1000, "ng/dL"},
		{"testosterone female", schema.Testosterone, schema.Female, 15, 70, "ng/dL"},
		{"testosterone unspecified uses male", schema.Testosterone, schema.Unspecified, 300, 1000, "ng/dL"},
		{"dhea", schema.DHEA, schema.Male, 100, 400, "ug/dL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := RangeFor(tt.hormone, tt.sex)
			require.NoError(t, err)
			assert.Equal(t, tt.min, rng.OptimalMin)
			assert.Equal(t, tt.max, rng.OptimalMax)
			assert.Equal(t, tt.unit, rng.Unit)
			assert.Len(t, rng.AgeNorms, 5)
		})
	}
}

// TestRangeForUnknownHormone tests that unregistered hormones fail.
func TestRangeForUnknownHormone(t *testing.T) {
	_, err := RangeFor("progesterone", schema.Female)
	assert.ErrorIs(t, err, schema.ErrUnknownHormoneType)
}

// TestAgeNormsAreOrdered tests that every bucket has a sane spread.
func TestAgeNormsAreOrdered(t *testing.T) {
	for key, rng := range rangeTable {
		prevMax := 0
		for _, n := range rng.AgeNorms {
			assert.Less(t, n.Low, n.Mean, "%v", key)
			assert.Less(t, n.Mean, n.High, "%v", key)
			assert.Greater(t, n.MinAge, prevMax, "%v", key)
			prevMax = n.MaxAge
		}
	}
}

// TestSupportedHormonesIsCopy tests that callers cannot mutate the order.
func TestSupportedHormonesIsCopy(t *testing.T) {
	h := SupportedHormones()
	assert.Equal(t, []schema.HormoneType{schema.Cortisol, schema.Testosterone, schema.DHEA}, h)
	h[0] = schema.DHEA
	assert.Equal(t, schema.Cortisol, SupportedHormones()[0])
}
