package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

func TestSelectUnitThresholds(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		system   domain.System
		base     float64
		want     string
	}{
		{"metric volume below large", domain.CategoryVolume, domain.SystemMetric, 749.99, "ml"},
		{"metric volume at large", domain.CategoryVolume, domain.SystemMetric, 750, "L"},
		{"imperial volume small", domain.CategoryVolume, domain.SystemImperial, 14.99, "tsp"},
		{"imperial volume at medium", domain.CategoryVolume, domain.SystemImperial, 15, "cup"},
		{"imperial volume below large", domain.CategoryVolume, domain.SystemImperial, 945.99, "cup"},
		{"imperial volume at large", domain.CategoryVolume, domain.SystemImperial, 946, "qt"},
		{"metric weight below large", domain.CategoryWeight, domain.SystemMetric, 749, "g"},
		{"metric weight at large", domain.CategoryWeight, domain.SystemMetric, 750, "kg"},
		{"imperial weight below large", domain.CategoryWeight, domain.SystemImperial, 452.9, "oz"},
		{"imperial weight at large", domain.CategoryWeight, domain.SystemImperial, 453, "lb"},
		{"zero", domain.CategoryWeight, domain.SystemMetric, 0, "g"},
		{"negative falls to small unit", domain.CategoryVolume, domain.SystemImperial, -20, "tsp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectUnit(tt.category, tt.system, tt.base)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectUnitUnknownPair(t *testing.T) {
	_, ok := SelectUnit(domain.CategoryCount, domain.SystemMetric, 10)
	assert.False(t, ok)
	_, ok = SelectUnit(domain.CategoryVolume, domain.SystemNone, 10)
	assert.False(t, ok)
}

func TestTierUnitsAreRegistered(t *testing.T) {
	for k, steps := range tiers {
		require.NotEmpty(t, steps)
		assert.Equal(t, 0.0, steps[len(steps)-1].threshold, "last tier of %v must be unconditional", k)
		for i, s := range steps {
			def, ok := Lookup(s.unit)
			require.True(t, ok, "tier unit %q", s.unit)
			assert.Equal(t, k.category, def.Category)
			assert.Equal(t, k.system, def.System)
			if i > 0 {
				assert.Less(t, s.threshold, steps[i-1].threshold, "tiers must be ordered largest first")
			}
		}
	}
}

func TestExpress(t *testing.T) {
	amount, unit, ok := Express(1500, domain.CategoryWeight, domain.SystemMetric)
	require.True(t, ok)
	assert.Equal(t, "kg", unit)
	assert.InDelta(t, 1.5, amount, 1e-9)

	amount, unit, ok = Express(60, domain.CategoryVolume, domain.SystemImperial)
	require.True(t, ok)
	assert.Equal(t, "cup", unit)
	assert.InDelta(t, 60/236.588, amount, 1e-9)

	_, _, ok = Express(10, domain.CategoryCount, domain.SystemMetric)
	assert.False(t, ok)
}
