// Package convert moves ingredient quantities between metric and imperial.
//
// Every conversion pivots through the category's base unit (ml or g), so
// each unit carries a single factor and no pairwise table exists. Volume
// headed for metric may become a weight when the density resolver says the
// ingredient is a dry good.
//
// Nothing here fails: unknown units, non-convertible categories and a
// declining resolver all degrade to returning the input.
package convert

import (
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

// Convert expresses amount of fromUnit in the target system, picking the
// display unit by magnitude. Unrecognized or non-convertible units are
// returned untouched; a unit already in the target system only has its
// label normalized.
func Convert(amount float64, fromUnit string, to domain.System) domain.ConversionResult {
	def, ok := units.Lookup(fromUnit)
	if !ok || !def.Category.Convertible() {
		return domain.ConversionResult{Amount: amount, Unit: fromUnit}
	}
	if def.System == to {
		return domain.ConversionResult{Amount: amount, Unit: def.Name}
	}
	return express(amount*def.ToBase, def.Category, to, def.Name, amount)
}

// express turns a base amount into the target system. If the system has
// no display units (SystemNone) the original value is kept.
func express(base float64, category domain.Category, to domain.System, fromName string, amount float64) domain.ConversionResult {
	value, unit, ok := units.Express(base, category, to)
	if !ok {
		return domain.ConversionResult{Amount: amount, Unit: fromName}
	}
	return domain.ConversionResult{Amount: value, Unit: unit, Converted: true}
}

// Converter is the ingredient-aware converter. It is safe for concurrent
// use as long as its resolver is.
type Converter struct {
	resolver domain.DensityResolver
}

// New creates a converter. A nil resolver never reports dry goods, so
// volume always stays volume.
func New(resolver domain.DensityResolver) *Converter {
	return &Converter{resolver: resolver}
}

// Convert is the ingredient-blind conversion.
func (c *Converter) Convert(amount float64, fromUnit string, to domain.System) domain.ConversionResult {
	return Convert(amount, fromUnit, to)
}

// ConvertWithIngredient converts like Convert, except that volume headed
// for metric is expressed in grams or kilograms when the resolver knows
// the ingredient as a dry good with a grams-per-cup density.
func (c *Converter) ConvertWithIngredient(amount float64, fromUnit string, to domain.System, ingredientName string) domain.ConversionResult {
	def, ok := units.Lookup(fromUnit)
	if !ok {
		return domain.ConversionResult{Amount: amount, Unit: fromUnit}
	}

	switch def.Category {
	case domain.CategoryWeight:
		return Convert(amount, fromUnit, to)
	case domain.CategoryVolume:
		if def.System == to || to != domain.SystemMetric {
			return Convert(amount, fromUnit, to)
		}
		return c.volumeToMetric(amount, def, ingredientName)
	case domain.CategoryTemperature, domain.CategoryCount, domain.CategoryOther:
		return domain.ConversionResult{Amount: amount, Unit: fromUnit}
	default:
		return domain.ConversionResult{Amount: amount, Unit: fromUnit}
	}
}

func (c *Converter) volumeToMetric(amount float64, def units.Definition, ingredientName string) domain.ConversionResult {
	ml := amount * def.ToBase

	if grams, ok := c.gramsPerCup(ingredientName); ok {
		cupML, _, _ := units.ToBaseUnits(1, "cup")
		total := ml / cupML * grams
		return express(total, domain.CategoryWeight, domain.SystemMetric, def.Name, amount)
	}
	return express(ml, domain.CategoryVolume, domain.SystemMetric, def.Name, amount)
}

func (c *Converter) gramsPerCup(ingredientName string) (float64, bool) {
	if c == nil || c.resolver == nil {
		return 0, false
	}
	info := c.resolver.Resolve(ingredientName)
	if !info.IsDryConvertible || info.GramsPerCup == nil || *info.GramsPerCup <= 0 {
		return 0, false
	}
	return *info.GramsPerCup, true
}
