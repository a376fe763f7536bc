package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/engine"
	"github.com/hammamikhairi/ottomeasure/internal/shopping"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

func TestLine(t *testing.T) {
	original := "2 cups"
	out := Line(domain.DisplayLine{
		QuantityText:   "250",
		Unit:           "g",
		IngredientName: "flour",
		OriginalText:   &original,
		Note:           "sifted",
		Optional:       true,
	})
	for _, want := range []string{"250", "g", "flour", "sifted", "(optional)", "(from 2 cups)"} {
		assert.Contains(t, out, want)
	}

	plain := Line(domain.DisplayLine{IngredientName: "salt"})
	assert.Contains(t, plain, "salt")
	assert.NotContains(t, plain, "from")
}

func TestRecipe(t *testing.T) {
	view := &engine.RecipeView{
		Name:         "Pancakes",
		Servings:     8,
		BaseServings: 4,
		Multiplier:   2,
		Target:       "metric",
		Ingredients:  []domain.DisplayLine{{QuantityText: "500", Unit: "g", IngredientName: "flour"}},
		Steps:        []domain.Step{{Order: 1, Instruction: "Mix.", Duration: 5 * time.Minute}},
	}

	var buf bytes.Buffer
	require.NoError(t, Recipe(&buf, view))
	out := buf.String()
	for _, want := range []string{"Pancakes", "8 servings", "recipe makes 4", "metric", "flour", "Mix.", "5m0s"} {
		assert.Contains(t, out, want)
	}
}

func TestTables(t *testing.T) {
	unitsOut := UnitsTable(units.Definitions())
	assert.Contains(t, unitsOut, "tbsp")
	assert.Contains(t, unitsOut, "236.588 ml")

	recipesOut := RecipesTable([]domain.RecipeSummary{{ID: "toast", Name: "Toast", Servings: 1}})
	assert.Contains(t, recipesOut, "toast")

	densityOut := DensityTable([]domain.DensityEntry{
		{Name: "flour", GramsPerCup: 125, Dry: true},
		{Name: "water"},
	})
	assert.Contains(t, densityOut, "125")
	assert.Contains(t, densityOut, "dry")
	assert.Contains(t, densityOut, "wet")

	shopOut := ShoppingTable([]shopping.Item{
		{Name: "milk", Quantity: domain.Qty(0.5), Unit: "L", Recipes: []string{"custard"}},
		{Name: "salt"},
	})
	assert.Contains(t, shopOut, "1/2 L")
	assert.Contains(t, shopOut, "custard")

	assert.Empty(t, renderTable(nil, nil, nil))
}

func TestConversionLine(t *testing.T) {
	out := ConversionLine(1, "cup", domain.ConversionResult{Amount: 236.588, Unit: "ml", Converted: true})
	assert.Contains(t, out, "1 cup =")
	assert.Contains(t, out, "236.6 ml")

	out = ConversionLine(2, "pinch", domain.ConversionResult{Amount: 2, Unit: "pinch"})
	assert.Contains(t, out, "unchanged")
}

func TestErrorAndBanner(t *testing.T) {
	assert.Contains(t, Error(errors.New("boom")), "error: boom")

	banner := Banner(120, domain.TargetMetric, "database")
	assert.Contains(t, banner, "units: metric")
	assert.Contains(t, banner, "densities: database")
	lines := strings.Split(strings.TrimRight(banner, "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.Equal(t, 120, lipgloss.Width(l), "every banner line is padded to the requested width")
	}
	assert.True(t, strings.HasPrefix(lines[0], " "), "art is centred")
}
