package compose

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomeasure/internal/convert"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

type flourOnly struct{}

func (flourOnly) Resolve(name string) domain.DensityInfo {
	if name != "flour" {
		return domain.DensityInfo{}
	}
	g := 125.0
	return domain.DensityInfo{IsDryConvertible: true, GramsPerCup: &g}
}

func newComposer() *Composer {
	return New(convert.New(flourOnly{}))
}

func TestDisplayNameOnly(t *testing.T) {
	c := newComposer()
	line := c.Display(domain.Ingredient{Name: "salt", Note: "to taste"}, domain.TargetMetric, 2)

	assert.Equal(t, "salt", line.IngredientName)
	assert.Empty(t, line.QuantityText)
	assert.Empty(t, line.Unit)
	assert.Nil(t, line.OriginalText)
	assert.Equal(t, "to taste", line.Note)
	assert.Equal(t, "salt", line.Text())
}

func TestDisplayOriginalTarget(t *testing.T) {
	c := newComposer()
	line := c.Display(domain.Ingredient{Name: "flour", Quantity: domain.Qty(0.75), Unit: "cups"}, domain.TargetOriginal, 2)

	assert.Equal(t, "1 1/2", line.QuantityText)
	assert.Equal(t, "cups", line.Unit, "original target keeps the written unit")
	assert.Nil(t, line.OriginalText)
	assert.Equal(t, "1 1/2 cups flour", line.Text())
}

func TestDisplayConvertsDryGoodToWeight(t *testing.T) {
	c := newComposer()
	line := c.Display(domain.Ingredient{Name: "flour", Quantity: domain.Qty(1), Unit: "cup"}, domain.TargetMetric, 1)

	assert.Equal(t, "125", line.QuantityText)
	assert.Equal(t, "g", line.Unit)
	require.NotNil(t, line.OriginalText)
	assert.Equal(t, "1 cup", *line.OriginalText)
}

func TestDisplayScalesBeforeConverting(t *testing.T) {
	c := newComposer()
	line := c.Display(domain.Ingredient{Name: "milk", Quantity: domain.Qty(1), Unit: "cup"}, domain.TargetMetric, 4)

	assert.Equal(t, "0.9", line.QuantityText)
	assert.Equal(t, "L", line.Unit)
	require.NotNil(t, line.OriginalText)
	assert.Equal(t, "4 cup", *line.OriginalText)
}

func TestDisplayToImperial(t *testing.T) {
	c := newComposer()
	line := c.Display(domain.Ingredient{Name: "butter", Quantity: domain.Qty(500), Unit: "grams"}, domain.TargetImperial, 1)

	assert.Equal(t, "1.1", line.QuantityText)
	assert.Equal(t, "lb", line.Unit)
	require.NotNil(t, line.OriginalText)
	assert.Equal(t, "500 grams", *line.OriginalText)
}

func TestDisplaySameSystemHasNoTooltip(t *testing.T) {
	c := newComposer()
	line := c.Display(domain.Ingredient{Name: "sugar", Quantity: domain.Qty(200), Unit: "grams"}, domain.TargetMetric, 1)

	assert.Equal(t, "200", line.QuantityText)
	assert.Equal(t, "g", line.Unit, "same-system display normalizes the label")
	assert.Nil(t, line.OriginalText)
}

func TestDisplayNonConvertibleUnit(t *testing.T) {
	c := newComposer()
	tests := []domain.Ingredient{
		{Name: "garlic", Quantity: domain.Qty(3), Unit: "cloves"},
		{Name: "spinach", Quantity: domain.Qty(1), Unit: "handful"},
		{Name: "eggs", Quantity: domain.Qty(2)},
	}
	for _, ing := range tests {
		t.Run(ing.Name, func(t *testing.T) {
			line := c.Display(ing, domain.TargetMetric, 1.5)
			assert.Equal(t, ing.Unit, line.Unit)
			assert.Nil(t, line.OriginalText)
			assert.NotEmpty(t, line.QuantityText)
		})
	}

	line := c.Display(domain.Ingredient{Name: "eggs", Quantity: domain.Qty(2)}, domain.TargetMetric, 1.5)
	assert.Equal(t, "3", line.QuantityText)
	assert.Equal(t, "3 eggs", line.Text())
}

func TestDisplayBadMultiplier(t *testing.T) {
	c := newComposer()
	for _, m := range []float64{0, -2} {
		line := c.Display(domain.Ingredient{Name: "water", Quantity: domain.Qty(2), Unit: "cups"}, domain.TargetOriginal, m)
		assert.Equal(t, "2", line.QuantityText)
	}
}

func TestDisplayPrecisionOption(t *testing.T) {
	c := New(convert.New(nil), WithPrecision(3))
	line := c.Display(domain.Ingredient{Name: "saffron", Quantity: domain.Qty(0.0456), Unit: "g"}, domain.TargetOriginal, 1)
	assert.Equal(t, "0.046", line.QuantityText)
}

func TestDisplayAllKeepsOrder(t *testing.T) {
	c := newComposer()
	ings := []domain.Ingredient{
		{Name: "flour", Quantity: domain.Qty(2), Unit: "cups"},
		{Name: "salt", SizeDescriptor: "fine", Note: "to taste"},
		{Name: "milk", Quantity: domain.Qty(0.5), Unit: "cup", Optional: true},
	}

	lines := c.DisplayAll(ings, domain.TargetMetric, 1)
	require.Len(t, lines, 3)
	assert.Equal(t, "250 g flour", lines[0].Text())
	assert.Equal(t, "salt", lines[1].Text())
	assert.Equal(t, "fine, to taste", lines[1].Note)
	assert.Equal(t, "118.3 ml milk", lines[2].Text())
	assert.True(t, lines[2].Optional)
}

// The registry, converter and composer hold no mutable state, so one
// instance serves any number of goroutines. Run with -race.
func TestConcurrentUse(t *testing.T) {
	conv := convert.New(flourOnly{})
	c := New(conv)

	const workers = 32
	const rounds = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				name, ok := units.Normalize("Cups")
				if !assert.True(t, ok) || !assert.Equal(t, "cup", name) {
					return
				}

				res := conv.ConvertWithIngredient(1, "cup", domain.SystemMetric, "flour")
				if !assert.Equal(t, "g", res.Unit) || !assert.InDelta(t, 125, res.Amount, 1e-9) {
					return
				}
				res = conv.ConvertWithIngredient(2, "cups", domain.SystemMetric, "milk")
				if !assert.Equal(t, "ml", res.Unit) || !assert.InDelta(t, 473.176, res.Amount, 1e-9) {
					return
				}

				line := c.Display(domain.Ingredient{Name: "flour", Quantity: domain.Qty(1), Unit: "cup"}, domain.TargetMetric, 2)
				if !assert.Equal(t, "250", line.QuantityText) || !assert.Equal(t, "g", line.Unit) {
					return
				}
			}
		}()
	}
	wg.Wait()
}
