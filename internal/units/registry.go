// Package units holds the unit registry: canonical units, their base-unit
// factors and aliases, the normalizer that maps free text onto them, and
// the magnitude tiers used to pick a legible display unit.
//
// The registry is built once at package init and never written to
// afterwards, so every function here is safe for concurrent use.
package units

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// Definition describes one canonical unit. ToBase is the amount of the
// category's base unit (ml for volume, g for weight) in one of this unit.
type Definition struct {
	Name     string          `json:"name"`
	Category domain.Category `json:"-"`
	System   domain.System   `json:"-"`
	ToBase   float64         `json:"to_base"`
	Aliases  []string        `json:"aliases"`
}

// Base units per category.
const (
	BaseVolume = "ml"
	BaseWeight = "g"
)

var definitions = []Definition{
	// Imperial volume.
	{Name: "cup", Category: domain.CategoryVolume, System: domain.SystemImperial, ToBase: 236.588, Aliases: []string{"cups", "c"}},
	{Name: "tbsp", Category: domain.CategoryVolume, System: domain.SystemImperial, ToBase: 14.787, Aliases: []string{"tablespoon", "tablespoons", "tbs", "tbsp.", "tbsps", "T"}},
	{Name: "tsp", Category: domain.CategoryVolume, System: domain.SystemImperial, ToBase: 4.929, Aliases: []string{"teaspoon", "teaspoons", "tsp.", "tsps", "t"}},
	{Name: "fl oz", Category: domain.CategoryVolume, System: domain.SystemImperial, ToBase: 29.574, Aliases: []string{"fluid ounce", "fluid ounces", "fl.oz.", "fl. oz.", "fl oz."}},
	{Name: "qt", Category: domain.CategoryVolume, System: domain.SystemImperial, ToBase: 946.353, Aliases: []string{"quart", "quarts", "qts"}},
	{Name: "pt", Category: domain.CategoryVolume, System: domain.SystemImperial, ToBase: 473.176, Aliases: []string{"pint", "pints", "pts"}},
	{Name: "gal", Category: domain.CategoryVolume, System: domain.SystemImperial, ToBase: 3785.41, Aliases: []string{"gallon", "gallons", "gals"}},

	// Metric volume.
	{Name: "ml", Category: domain.CategoryVolume, System: domain.SystemMetric, ToBase: 1, Aliases: []string{"milliliter", "milliliters", "millilitre", "millilitres", "mls"}},
	{Name: "L", Category: domain.CategoryVolume, System: domain.SystemMetric, ToBase: 1000, Aliases: []string{"l", "liter", "liters", "litre", "litres"}},
	{Name: "dl", Category: domain.CategoryVolume, System: domain.SystemMetric, ToBase: 100, Aliases: []string{"deciliter", "deciliters", "decilitre", "decilitres"}},

	// Imperial weight.
	{Name: "lb", Category: domain.CategoryWeight, System: domain.SystemImperial, ToBase: 453.592, Aliases: []string{"lbs", "pound", "pounds"}},
	{Name: "oz", Category: domain.CategoryWeight, System: domain.SystemImperial, ToBase: 28.3495, Aliases: []string{"ounce", "ounces"}},

	// Metric weight.
	{Name: "g", Category: domain.CategoryWeight, System: domain.SystemMetric, ToBase: 1, Aliases: []string{"gram", "grams", "gr", "gramme", "grammes"}},
	{Name: "kg", Category: domain.CategoryWeight, System: domain.SystemMetric, ToBase: 1000, Aliases: []string{"kilogram", "kilograms", "kilo", "kilos", "kgs"}},
	{Name: "mg", Category: domain.CategoryWeight, System: domain.SystemMetric, ToBase: 0.001, Aliases: []string{"milligram", "milligrams"}},

	// Not convertible. Temperature tokens are multi-character only so a
	// bare "C" is never read as Celsius (or as cup).
	{Name: "piece", Category: domain.CategoryCount, Aliases: []string{"pieces", "pc", "pcs"}},
	{Name: "clove", Category: domain.CategoryCount, Aliases: []string{"cloves"}},
	{Name: "can", Category: domain.CategoryCount, Aliases: []string{"cans", "tin", "tins"}},
	{Name: "pinch", Category: domain.CategoryOther, Aliases: []string{"pinches"}},
	{Name: "dash", Category: domain.CategoryOther, Aliases: []string{"dashes"}},
	{Name: "°F", Category: domain.CategoryTemperature, Aliases: []string{"fahrenheit", "degf", "deg f", "degrees f"}},
	{Name: "°C", Category: domain.CategoryTemperature, Aliases: []string{"celsius", "centigrade", "degc", "deg c", "degrees c"}},
}

type registry struct {
	units map[string]*Definition // canonical name -> definition
	exact map[string]string      // single-letter tokens, case-sensitive
	fold  map[string]string      // folded alias -> canonical name
	list  []Definition
}

var std = mustRegistry(definitions)

func mustRegistry(defs []Definition) *registry {
	r, err := newRegistry(defs)
	if err != nil {
		panic(err)
	}
	return r
}

// newRegistry indexes defs. Every alias must resolve to exactly one
// canonical unit; a collision is reported as an error.
func newRegistry(defs []Definition) (*registry, error) {
	r := &registry{
		units: make(map[string]*Definition, len(defs)),
		exact: make(map[string]string),
		fold:  make(map[string]string),
		list:  make([]Definition, len(defs)),
	}
	copy(r.list, defs)

	for i := range r.list {
		def := &r.list[i]
		if _, dup := r.units[def.Name]; dup {
			return nil, fmt.Errorf("duplicate unit %q", def.Name)
		}
		r.units[def.Name] = def

		for _, token := range append([]string{def.Name}, def.Aliases...) {
			k := key(token)
			if k == "" {
				return nil, fmt.Errorf("unit %q has an empty alias", def.Name)
			}
			index, indexed := r.fold, fold(k)
			if caseSensitive(k) {
				index, indexed = r.exact, k
			}
			if owner, taken := index[indexed]; taken && owner != def.Name {
				return nil, fmt.Errorf("alias %q maps to both %q and %q", token, owner, def.Name)
			}
			index[indexed] = def.Name
		}
	}
	return r, nil
}

func (r *registry) lookup(text string) (*Definition, bool) {
	k := key(text)
	if k == "" {
		return nil, false
	}
	if caseSensitive(k) {
		name, ok := r.exact[k]
		if !ok {
			return nil, false
		}
		return r.units[name], true
	}
	name, ok := r.fold[fold(k)]
	if !ok {
		return nil, false
	}
	return r.units[name], true
}

// key trims, applies NFKC (so "℃" and full-width letters line up with
// their plain forms) and collapses inner whitespace.
func key(text string) string {
	s := norm.NFKC.String(strings.TrimSpace(text))
	return strings.Join(strings.Fields(s), " ")
}

// fold case-folds s. A Caser keeps state, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// caseSensitive reports whether a token is one of the letters whose case
// carries meaning: "T" is tbsp and "t" is tsp, "c" is cup and "C" is
// nothing (it is too easily read as Celsius). Other single letters such as
// "g" and "L" fold like any other token.
func caseSensitive(k string) bool {
	switch k {
	case "c", "C", "t", "T":
		return true
	}
	return false
}

// Normalize maps unit text to its canonical unit name. Lookup is trimmed,
// case-insensitive (except "c" and "t") and exact; there is no fuzzy
// matching.
func Normalize(text string) (string, bool) {
	def, ok := std.lookup(text)
	if !ok {
		return "", false
	}
	return def.Name, true
}

// NormalizeAs is Normalize restricted to one category. Callers that know
// they hold a temperature or a volume use it to avoid cross-category
// matches.
func NormalizeAs(text string, category domain.Category) (string, bool) {
	def, ok := std.lookup(text)
	if !ok || def.Category != category {
		return "", false
	}
	return def.Name, true
}

// Lookup returns the definition for unit text.
func Lookup(text string) (Definition, bool) {
	def, ok := std.lookup(text)
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// CategoryOf returns the category of unit text.
func CategoryOf(text string) (domain.Category, bool) {
	def, ok := std.lookup(text)
	if !ok {
		return domain.CategoryOther, false
	}
	return def.Category, true
}

// SystemOf returns the measurement system of unit text.
func SystemOf(text string) (domain.System, bool) {
	def, ok := std.lookup(text)
	if !ok {
		return domain.SystemNone, false
	}
	return def.System, true
}

// CanConvert reports whether unit text names a volume or weight unit.
func CanConvert(text string) bool {
	def, ok := std.lookup(text)
	return ok && def.Category.Convertible()
}

// Definitions returns every registered unit ordered by category, system
// and size.
func Definitions() []Definition {
	out := make([]Definition, len(std.list))
	copy(out, std.list)
	for i := range out {
		out[i].Aliases = append([]string(nil), out[i].Aliases...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].System != out[j].System {
			return out[i].System < out[j].System
		}
		return out[i].ToBase < out[j].ToBase
	})
	return out
}

// ToBaseUnits expresses amount of unit in the category's base unit.
func ToBaseUnits(amount float64, unit string) (float64, domain.Category, bool) {
	def, ok := std.lookup(unit)
	if !ok || !def.Category.Convertible() {
		return amount, domain.CategoryOther, false
	}
	return amount * def.ToBase, def.Category, true
}

// FromBaseUnits expresses a base-unit amount in unit.
func FromBaseUnits(base float64, unit string) (float64, bool) {
	def, ok := std.lookup(unit)
	if !ok || !def.Category.Convertible() {
		return base, false
	}
	return base / def.ToBase, true
}

// factor returns ToBase for a canonical name. Only called with names
// taken from the registry's own tables.
func factor(name string) float64 {
	return std.units[name].ToBase
}
