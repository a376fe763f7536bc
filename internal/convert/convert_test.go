package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

// stubResolver answers from a fixed map; unknown names decline.
type stubResolver struct {
	dry   map[string]float64
	calls []string
}

func (s *stubResolver) Resolve(name string) domain.DensityInfo {
	s.calls = append(s.calls, name)
	g, ok := s.dry[strings.ToLower(name)]
	if !ok {
		return domain.DensityInfo{}
	}
	return domain.DensityInfo{IsDryConvertible: true, GramsPerCup: &g}
}

func TestConvertBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		unit     string
		to       domain.System
		wantUnit string
		wantAmt  float64
	}{
		{"two cups stay ml", 2, "cup", domain.SystemMetric, "ml", 473.176},
		{"four cups become litres", 4, "cup", domain.SystemMetric, "L", 0.946352},
		{"60 ml is a quarter cup", 60, "ml", domain.SystemImperial, "cup", 60 / 236.588},
		{"10 ml is teaspoons", 10, "ml", domain.SystemImperial, "tsp", 10 / 4.929},
		{"1 L is quarts", 1, "L", domain.SystemImperial, "qt", 1000 / 946.353},
		{"500 g is pounds", 500, "g", domain.SystemImperial, "lb", 500 / 453.592},
		{"200 g is ounces", 200, "grams", domain.SystemImperial, "oz", 200 / 28.3495},
		{"1.5 lb is grams", 1.5, "lb", domain.SystemMetric, "g", 1.5 * 453.592},
		{"2 lb is kilograms", 2, "lbs", domain.SystemMetric, "kg", 2 * 0.453592},
		{"tablespoon to ml", 1, "T", domain.SystemMetric, "ml", 14.787},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.amount, tt.unit, tt.to)
			assert.True(t, got.Converted)
			assert.Equal(t, tt.wantUnit, got.Unit)
			assert.InDelta(t, tt.wantAmt, got.Amount, 1e-9)
		})
	}
}

func TestConvertPassThrough(t *testing.T) {
	for _, unit := range []string{"handful", "", "sprig", "C"} {
		for _, sys := range []domain.System{domain.SystemMetric, domain.SystemImperial} {
			got := Convert(3.5, unit, sys)
			assert.Equal(t, 3.5, got.Amount, "unit %q", unit)
			assert.Equal(t, unit, got.Unit, "unit %q", unit)
			assert.False(t, got.Converted)
		}
	}
}

func TestConvertNonConvertibleCategory(t *testing.T) {
	got := Convert(3, "cloves", domain.SystemMetric)
	assert.Equal(t, domain.ConversionResult{Amount: 3, Unit: "cloves"}, got)

	got = Convert(350, "fahrenheit", domain.SystemMetric)
	assert.Equal(t, domain.ConversionResult{Amount: 350, Unit: "fahrenheit"}, got)
}

func TestConvertSameSystemNormalizesLabel(t *testing.T) {
	got := Convert(250, "g", domain.SystemMetric)
	assert.Equal(t, domain.ConversionResult{Amount: 250, Unit: "g"}, got)

	got = Convert(3, "Tablespoons", domain.SystemImperial)
	assert.Equal(t, domain.ConversionResult{Amount: 3, Unit: "tbsp"}, got)

	got = Convert(1200, "grams", domain.SystemMetric)
	assert.Equal(t, "g", got.Unit, "same-system requests never re-tier")
	assert.Equal(t, 1200.0, got.Amount)
}

func TestConvertToSystemNone(t *testing.T) {
	got := Convert(2, "cups", domain.SystemNone)
	assert.Equal(t, domain.ConversionResult{Amount: 2, Unit: "cup"}, got)
}

func TestRoundTripWithinTolerance(t *testing.T) {
	inputs := []struct {
		amount float64
		unit   string
	}{
		{250, "ml"}, {1.5, "L"}, {30, "ml"}, {5, "ml"},
		{125, "g"}, {2, "kg"}, {500, "g"}, {15, "g"},
	}
	for _, in := range inputs {
		out := Convert(in.amount, in.unit, domain.SystemImperial)
		back := Convert(out.Amount, out.Unit, domain.SystemMetric)

		want, _, _ := units.ToBaseUnits(in.amount, in.unit)
		got, _, _ := units.ToBaseUnits(back.Amount, back.Unit)
		assert.InEpsilon(t, want, got, 0.005, "%v %s -> %v %s -> %v %s", in.amount, in.unit, out.Amount, out.Unit, back.Amount, back.Unit)
	}
}

func TestConvertWithIngredient(t *testing.T) {
	resolver := &stubResolver{dry: map[string]float64{"flour": 125, "sugar": 200}}
	conv := New(resolver)

	t.Run("dry good becomes grams", func(t *testing.T) {
		got := conv.ConvertWithIngredient(1, "cup", domain.SystemMetric, "flour")
		assert.True(t, got.Converted)
		assert.Equal(t, "g", got.Unit)
		assert.InDelta(t, 125, got.Amount, 1e-9)
	})

	t.Run("large dry amount becomes kilograms", func(t *testing.T) {
		got := conv.ConvertWithIngredient(4, "cups", domain.SystemMetric, "sugar")
		assert.Equal(t, "kg", got.Unit)
		assert.InDelta(t, 0.8, got.Amount, 1e-9)
	})

	t.Run("tablespoons of a dry good", func(t *testing.T) {
		got := conv.ConvertWithIngredient(2, "tbsp", domain.SystemMetric, "flour")
		assert.Equal(t, "g", got.Unit)
		assert.InDelta(t, 2*14.787/236.588*125, got.Amount, 1e-9)
	})

	t.Run("liquid stays volume", func(t *testing.T) {
		got := conv.ConvertWithIngredient(1, "cup", domain.SystemMetric, "milk")
		assert.True(t, got.Converted)
		assert.Equal(t, "ml", got.Unit)
		assert.InDelta(t, 236.588, got.Amount, 1e-9)
	})

	t.Run("large liquid becomes litres", func(t *testing.T) {
		got := conv.ConvertWithIngredient(2, "qt", domain.SystemMetric, "stock")
		assert.Equal(t, "L", got.Unit)
	})
}

func TestConvertWithIngredientOnlyAsksForVolumeToMetric(t *testing.T) {
	resolver := &stubResolver{dry: map[string]float64{"flour": 125}}
	conv := New(resolver)

	got := conv.ConvertWithIngredient(250, "g", domain.SystemImperial, "flour")
	assert.Equal(t, "oz", got.Unit)

	got = conv.ConvertWithIngredient(1, "lb", domain.SystemMetric, "flour")
	assert.Equal(t, "g", got.Unit)
	assert.InDelta(t, 453.592, got.Amount, 1e-9)

	got = conv.ConvertWithIngredient(250, "ml", domain.SystemImperial, "flour")
	assert.Equal(t, "cup", got.Unit)

	got = conv.ConvertWithIngredient(2, "cups", domain.SystemImperial, "flour")
	assert.Equal(t, domain.ConversionResult{Amount: 2, Unit: "cup"}, got)

	got = conv.ConvertWithIngredient(250, "ml", domain.SystemMetric, "flour")
	assert.Equal(t, domain.ConversionResult{Amount: 250, Unit: "ml"}, got, "metric volume stays as written")

	got = conv.ConvertWithIngredient(3, "cloves", domain.SystemMetric, "garlic")
	assert.Equal(t, domain.ConversionResult{Amount: 3, Unit: "cloves"}, got)

	assert.Empty(t, resolver.calls, "resolver is only consulted for volume headed to metric")
}

func TestConvertWithIngredientDecliningResolver(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name     string
		resolver domain.DensityResolver
	}{
		{"nil resolver", nil},
		{"dry without density", resolverFunc(func(string) domain.DensityInfo {
			return domain.DensityInfo{IsDryConvertible: true}
		})},
		{"dry with zero density", resolverFunc(func(string) domain.DensityInfo {
			return domain.DensityInfo{IsDryConvertible: true, GramsPerCup: &zero}
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.resolver).ConvertWithIngredient(1, "cup", domain.SystemMetric, "flour")
			assert.Equal(t, "ml", got.Unit)
			assert.InDelta(t, 236.588, got.Amount, 1e-9)
		})
	}
}

func TestConvertWithIngredientUnknownUnit(t *testing.T) {
	resolver := &stubResolver{}
	got := New(resolver).ConvertWithIngredient(2, "handfuls", domain.SystemMetric, "spinach")
	require.Equal(t, domain.ConversionResult{Amount: 2, Unit: "handfuls"}, got)
	assert.Empty(t, resolver.calls)
}

type resolverFunc func(string) domain.DensityInfo

func (f resolverFunc) Resolve(name string) domain.DensityInfo { return f(name) }
