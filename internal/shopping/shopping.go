// Package shopping merges the ingredients of several recipes into one
// shopping list.
//
// Quantities of the same ingredient are summed in base units (ml or g) per
// category and expressed again through the display tiers, so 1 cup of milk
// plus 250 ml of milk becomes one line. Units that cannot be converted
// (cloves, pinches, cans, unknown text) are summed only with the same unit.
package shopping

import (
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/hammamikhairi/ottomeasure/internal/convert"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/quantity"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

// Source is one recipe's ingredients at a serving multiplier.
type Source struct {
	RecipeID    string
	Ingredients []domain.Ingredient
	Multiplier  float64
}

// Item is one line of the shopping list.
type Item struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Text     string   `json:"text"`
	Optional bool     `json:"optional,omitempty"`
	Recipes  []string `json:"recipes,omitempty"`
}

type bucketKind int

const (
	kindMeasured bucketKind = iota // volume or weight, summed in base units
	kindCounted                    // any other unit, summed as written
	kindNameOnly
)

type bucket struct {
	kind     bucketKind
	category domain.Category
	system   domain.System // first system seen, used for the original target
	unit     string        // kindCounted only
	total    float64
	optional bool
	recipes  []string
}

type group struct {
	name    string
	buckets []*bucket
}

// Aggregate merges sources into a shopping list. Ingredients are matched
// by case-folded name; the list keeps first-seen order. With a metric
// target, dry goods measured by volume are bought by weight when conv's
// resolver knows their density.
func Aggregate(sources []Source, target domain.Target, conv *convert.Converter) []Item {
	if conv == nil {
		conv = convert.New(nil)
	}
	caser := cases.Fold()

	var order []*group
	groups := make(map[string]*group)

	for _, src := range sources {
		mult := src.Multiplier
		if math.IsNaN(mult) || math.IsInf(mult, 0) || mult <= 0 {
			mult = 1
		}
		for _, ing := range src.Ingredients {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				continue
			}
			key := caser.String(name)
			g, ok := groups[key]
			if !ok {
				g = &group{name: name}
				groups[key] = g
				order = append(order, g)
			}
			g.add(src.RecipeID, ing, mult, target, conv)
		}
	}

	var out []Item
	for _, g := range order {
		out = append(out, g.items(target)...)
	}
	return out
}

func (g *group) add(recipeID string, ing domain.Ingredient, mult float64, target domain.Target, conv *convert.Converter) {
	if !ing.HasQuantity() {
		b := g.find(func(b *bucket) bool { return b.kind == kindNameOnly })
		if b == nil {
			b = &bucket{kind: kindNameOnly, optional: true}
			g.buckets = append(g.buckets, b)
		}
		b.note(recipeID, ing.Optional)
		return
	}

	amount := ing.Amount() * mult
	unit := ing.Unit
	if sys, ok := target.System(); ok && units.CanConvert(unit) {
		res := conv.ConvertWithIngredient(amount, unit, sys, ing.Name)
		amount, unit = res.Amount, res.Unit
	}

	if base, cat, ok := units.ToBaseUnits(amount, unit); ok && cat.Convertible() {
		b := g.find(func(b *bucket) bool { return b.kind == kindMeasured && b.category == cat })
		if b == nil {
			sys, _ := units.SystemOf(unit)
			b = &bucket{kind: kindMeasured, category: cat, system: sys, optional: true}
			g.buckets = append(g.buckets, b)
		}
		b.total += base
		b.note(recipeID, ing.Optional)
		return
	}

	canon := strings.TrimSpace(unit)
	if name, ok := units.Normalize(unit); ok {
		canon = name
	}
	b := g.find(func(b *bucket) bool { return b.kind == kindCounted && b.unit == canon })
	if b == nil {
		b = &bucket{kind: kindCounted, unit: canon, optional: true}
		g.buckets = append(g.buckets, b)
	}
	b.total += amount
	b.note(recipeID, ing.Optional)
}

func (g *group) find(match func(*bucket) bool) *bucket {
	for _, b := range g.buckets {
		if match(b) {
			return b
		}
	}
	return nil
}

func (b *bucket) note(recipeID string, optional bool) {
	b.optional = b.optional && optional
	if recipeID == "" {
		return
	}
	for _, id := range b.recipes {
		if id == recipeID {
			return
		}
	}
	b.recipes = append(b.recipes, recipeID)
}

func (g *group) items(target domain.Target) []Item {
	// A name-only entry adds nothing once the same ingredient has a
	// measured amount.
	measured := false
	for _, b := range g.buckets {
		if b.kind != kindNameOnly {
			measured = true
		}
	}

	var out []Item
	for _, b := range g.buckets {
		item := Item{Name: g.name, Optional: b.optional, Recipes: b.recipes}
		switch b.kind {
		case kindNameOnly:
			if measured {
				continue
			}
			item.Text = g.name
		case kindMeasured:
			sys := b.system
			if s, ok := target.System(); ok {
				sys = s
			}
			amount, unit, ok := units.Express(b.total, b.category, sys)
			if !ok {
				continue
			}
			item.Quantity = domain.Qty(amount)
			item.Unit = unit
			item.Text = joinText(quantity.Format(amount), unit, g.name)
		case kindCounted:
			item.Quantity = domain.Qty(b.total)
			item.Unit = b.unit
			item.Text = joinText(quantity.Format(b.total), b.unit, g.name)
		}
		out = append(out, item)
	}
	return out
}

func joinText(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
