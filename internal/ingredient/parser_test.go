package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want domain.Ingredient
	}{
		{"2 cups flour", domain.Ingredient{Name: "flour", Quantity: domain.Qty(2), Unit: "cups"}},
		{"1 1/2 cups all-purpose flour, sifted", domain.Ingredient{Name: "all-purpose flour", Quantity: domain.Qty(1.5), Unit: "cups", Note: "sifted"}},
		{"3/4 tsp salt", domain.Ingredient{Name: "salt", Quantity: domain.Qty(0.75), Unit: "tsp"}},
		{"½ cup milk", domain.Ingredient{Name: "milk", Quantity: domain.Qty(0.5), Unit: "cup"}},
		{"1½ T sugar", domain.Ingredient{Name: "sugar", Quantity: domain.Qty(1.5), Unit: "T"}},
		{"2.5 kg potatoes", domain.Ingredient{Name: "potatoes", Quantity: domain.Qty(2.5), Unit: "kg"}},
		{"250g spaghetti", domain.Ingredient{Name: "spaghetti", Quantity: domain.Qty(250), Unit: "g"}},
		{"8 fl oz heavy cream", domain.Ingredient{Name: "heavy cream", Quantity: domain.Qty(8), Unit: "fl oz"}},
		{"1 tbsp. olive oil", domain.Ingredient{Name: "olive oil", Quantity: domain.Qty(1), Unit: "tbsp."}},
		{"1 c. rice", domain.Ingredient{Name: "rice", Quantity: domain.Qty(1), Unit: "c"}},
		{"2 cups of water", domain.Ingredient{Name: "water", Quantity: domain.Qty(2), Unit: "cups"}},
		{"3 large eggs", domain.Ingredient{Name: "eggs", Quantity: domain.Qty(3), SizeDescriptor: "large"}},
		{"1 heaping cup oats", domain.Ingredient{Name: "oats", Quantity: domain.Qty(1), Unit: "cup", SizeDescriptor: "heaping"}},
		{"2-3 cloves garlic", domain.Ingredient{Name: "garlic", Quantity: domain.Qty(2), Unit: "cloves", Note: "2-3"}},
		{"1 to 2 tbsp honey", domain.Ingredient{Name: "honey", Quantity: domain.Qty(1), Unit: "tbsp", Note: "1-2"}},
		{"1 (14 oz) can tomatoes", domain.Ingredient{Name: "tomatoes", Quantity: domain.Qty(1), Unit: "can", Note: "14 oz"}},
		{"1 cup rice, optional", domain.Ingredient{Name: "rice", Quantity: domain.Qty(1), Unit: "cup", Optional: true}},
		{"1 tsp cornstarch (optional)", domain.Ingredient{Name: "cornstarch", Quantity: domain.Qty(1), Unit: "tsp", Optional: true}},
		{"a pinch of salt", domain.Ingredient{Name: "salt", Quantity: domain.Qty(1), Unit: "pinch"}},
		{"salt, to taste", domain.Ingredient{Name: "salt", Note: "to taste"}},
		{"fresh basil", domain.Ingredient{Name: "fresh basil"}},
		{"- 2 tomatoes", domain.Ingredient{Name: "tomatoes", Quantity: domain.Qty(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Unit, got.Unit)
			assert.Equal(t, tt.want.SizeDescriptor, got.SizeDescriptor)
			assert.Equal(t, tt.want.Note, got.Note)
			assert.Equal(t, tt.want.Optional, got.Optional)
			if tt.want.Quantity == nil {
				assert.Nil(t, got.Quantity)
				return
			}
			require.NotNil(t, got.Quantity)
			assert.InDelta(t, *tt.want.Quantity, *got.Quantity, 1e-9)
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	_, err := ParseLine("   ")
	assert.ErrorIs(t, err, domain.ErrEmptyLine)

	_, err = ParseLine("2 cups")
	assert.ErrorIs(t, err, domain.ErrEmptyLine)

	_, err = ParseLine("1/0 cup flour")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestParseLines(t *testing.T) {
	p := NewLineParser(nil)

	got, err := p.ParseLines([]string{"2 cups flour", "", "salt, to taste"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "flour", got[0].Name)
	assert.False(t, got[1].HasQuantity())

	_, err = p.ParseLines([]string{"2 cups flour", "3 tbsp"})
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2", 2},
		{"0.75", 0.75},
		{"1/2", 0.5},
		{"1 1/2", 1.5},
		{"1½", 1.5},
		{" ¾ ", 0.75},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	for _, bad := range []string{"", "lots", "1/0", "a 1/2"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, bad)
	}
}
