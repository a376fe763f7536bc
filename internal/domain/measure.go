package domain

import (
	"fmt"
	"strings"
)

// Category classifies what a unit measures.
type Category int

const (
	CategoryOther Category = iota
	CategoryVolume
	CategoryWeight
	CategoryTemperature
	CategoryCount
)

// String returns a human-readable category.
func (c Category) String() string {
	switch c {
	case CategoryVolume:
		return "volume"
	case CategoryWeight:
		return "weight"
	case CategoryTemperature:
		return "temperature"
	case CategoryCount:
		return "count"
	case CategoryOther:
		return "other"
	default:
		return "unknown"
	}
}

// Convertible reports whether quantities in this category can move
// between measurement systems.
func (c Category) Convertible() bool {
	switch c {
	case CategoryVolume, CategoryWeight:
		return true
	case CategoryOther, CategoryTemperature, CategoryCount:
		return false
	default:
		return false
	}
}

// System is a measurement system.
type System int

const (
	// SystemNone is used by units that belong to no system (pieces, pinches).
	SystemNone System = iota
	SystemMetric
	SystemImperial
)

// String returns a human-readable system name.
func (s System) String() string {
	switch s {
	case SystemMetric:
		return "metric"
	case SystemImperial:
		return "imperial"
	case SystemNone:
		return "none"
	default:
		return "unknown"
	}
}

// Target is the system an ingredient list should be displayed in.
type Target int

const (
	// TargetOriginal keeps the units the recipe was written in.
	TargetOriginal Target = iota
	TargetMetric
	TargetImperial
)

// String returns the target's name as used in config files and URLs.
func (t Target) String() string {
	switch t {
	case TargetMetric:
		return "metric"
	case TargetImperial:
		return "imperial"
	case TargetOriginal:
		return "original"
	default:
		return "unknown"
	}
}

// System returns the measurement system for the target. The boolean is
// false for TargetOriginal.
func (t Target) System() (System, bool) {
	switch t {
	case TargetMetric:
		return SystemMetric, true
	case TargetImperial:
		return SystemImperial, true
	case TargetOriginal:
		return SystemNone, false
	default:
		return SystemNone, false
	}
}

// ParseTarget converts "metric", "imperial", "us" or "original" into a
// Target. An empty string means TargetOriginal.
func ParseTarget(name string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "original", "as-written":
		return TargetOriginal, nil
	case "metric", "si":
		return TargetMetric, nil
	case "imperial", "us":
		return TargetImperial, nil
	default:
		return TargetOriginal, fmt.Errorf("%w: %q", ErrUnknownSystem, name)
	}
}

// ConversionResult is the outcome of converting a quantity.
type ConversionResult struct {
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	Converted bool    `json:"converted"`
}

// DisplayLine is an ingredient ready for rendering.
type DisplayLine struct {
	QuantityText   string  `json:"quantity_text"`
	Unit           string  `json:"unit"`
	IngredientName string  `json:"ingredient_name"`
	OriginalText   *string `json:"original_text,omitempty"` // set only when a conversion changed the value
	Note           string  `json:"note,omitempty"`
	Optional       bool    `json:"optional,omitempty"`
}

// Text joins quantity, unit and name the way an ingredient list shows them.
func (l DisplayLine) Text() string {
	parts := make([]string, 0, 3)
	if l.QuantityText != "" {
		parts = append(parts, l.QuantityText)
	}
	if l.Unit != "" {
		parts = append(parts, l.Unit)
	}
	parts = append(parts, l.IngredientName)
	return strings.Join(parts, " ")
}

// DensityInfo is what a DensityResolver knows about one ingredient.
type DensityInfo struct {
	IsDryConvertible bool
	GramsPerCup      *float64
}

// DensityEntry is one row of an ingredient density catalog.
type DensityEntry struct {
	Name        string   `json:"name" toml:"name"`
	Aliases     []string `json:"aliases,omitempty" toml:"aliases,omitempty"`
	GramsPerCup float64  `json:"grams_per_cup" toml:"grams_per_cup"`
	Dry         bool     `json:"dry" toml:"dry"`
}
