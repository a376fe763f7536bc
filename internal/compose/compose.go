// Package compose turns stored ingredients into display lines: scale by the
// serving multiplier, convert to the requested system, format.
package compose

import (
	"math"
	"strings"

	"github.com/hammamikhairi/ottomeasure/internal/convert"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/quantity"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

// Option configures the composer.
type Option func(*Composer)

// WithPrecision sets the decimals used for amounts below 0.1.
func WithPrecision(p int) Option {
	return func(c *Composer) {
		c.precision = p
	}
}

// Composer builds display lines. It holds no per-call state and is safe
// for concurrent use.
type Composer struct {
	conv      *convert.Converter
	precision int
}

// New creates a composer that converts through conv.
func New(conv *convert.Converter, opts ...Option) *Composer {
	c := &Composer{
		conv:      conv,
		precision: quantity.DefaultPrecision,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Display renders one ingredient. A multiplier that is not a positive
// finite number is treated as 1.
func (c *Composer) Display(ing domain.Ingredient, target domain.Target, multiplier float64) domain.DisplayLine {
	line := domain.DisplayLine{
		IngredientName: ing.Name,
		Note:           joinNote(ing.SizeDescriptor, ing.Note),
		Optional:       ing.Optional,
	}
	if !ing.HasQuantity() {
		return line
	}

	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		multiplier = 1
	}
	amount := ing.Amount() * multiplier
	unit := strings.TrimSpace(ing.Unit)

	system, convertTo := target.System()
	if !convertTo || !units.CanConvert(unit) {
		line.QuantityText = quantity.Format(amount, c.precision)
		line.Unit = unit
		return line
	}

	before := quantity.Format(amount, c.precision)
	res := c.conv.ConvertWithIngredient(amount, unit, system, ing.Name)

	line.QuantityText = quantity.Format(res.Amount, c.precision)
	line.Unit = res.Unit
	if res.Converted {
		original := before + " " + unit
		line.OriginalText = &original
	}
	return line
}

// DisplayAll renders a whole ingredient list in order.
func (c *Composer) DisplayAll(ings []domain.Ingredient, target domain.Target, multiplier float64) []domain.DisplayLine {
	out := make([]domain.DisplayLine, len(ings))
	for i, ing := range ings {
		out[i] = c.Display(ing, target, multiplier)
	}
	return out
}

func joinNote(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
