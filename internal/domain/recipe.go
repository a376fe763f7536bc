// Package domain defines the core types and interfaces for the measurement
// engine and the recipe services around it.
// All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// Recipe represents a complete cooking recipe.
type Recipe struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Servings    int          `json:"servings" yaml:"servings"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Steps       []Step       `json:"steps,omitempty" yaml:"steps,omitempty"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Version     int          `json:"version" yaml:"-"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Servings    int      `json:"servings"`
	Tags        []string `json:"tags,omitempty"`
}

// Summary returns the listing view of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Servings:    r.Servings,
		Tags:        r.Tags,
	}
}

// Ingredient is the stored, canonical ingredient record. Quantities are
// kept exactly as the recipe author wrote them; conversion happens at
// display time.
type Ingredient struct {
	Name           string   `json:"name" yaml:"name" validate:"required"`
	Quantity       *float64 `json:"quantity,omitempty" yaml:"quantity,omitempty" validate:"omitempty,gte=0"` // nil for "salt, to taste"
	Unit           string   `json:"unit,omitempty" yaml:"unit,omitempty"`                                    // free text: "cups", "T", "grams", ""
	SizeDescriptor string   `json:"size,omitempty" yaml:"size,omitempty"`                                    // "small", "large", "heaping"
	Note           string   `json:"note,omitempty" yaml:"note,omitempty"`                                    // "sifted", "to taste"
	Optional       bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// HasQuantity reports whether the ingredient carries a measurable amount.
func (i Ingredient) HasQuantity() bool {
	return i.Quantity != nil
}

// Amount returns the quantity, or 0 for name-only ingredients.
func (i Ingredient) Amount() float64 {
	if i.Quantity == nil {
		return 0
	}
	return *i.Quantity
}

// Qty returns a pointer to v, for building ingredients inline.
func Qty(v float64) *float64 {
	return &v
}

// Step represents a single cooking step.
type Step struct {
	Order       int           `json:"order" yaml:"order"`
	Instruction string        `json:"instruction" yaml:"instruction"`
	Duration    time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"` // expected duration, 0 if untimed
}

// Clone returns a deep copy of the recipe.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = make([]Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		if ing.Quantity != nil {
			ing.Quantity = Qty(*ing.Quantity)
		}
		c.Ingredients[i] = ing
	}
	c.Steps = append([]Step(nil), r.Steps...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}
