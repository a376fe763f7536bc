package units

import "github.com/hammamikhairi/ottomeasure/internal/domain"

// tier is one magnitude step: base-unit amounts at or above threshold are
// shown in unit.
type tier struct {
	threshold float64
	unit      string
}

type tierKey struct {
	category domain.Category
	system   domain.System
}

// tiers lists display units per (category, system), largest threshold
// first. The last entry is the small unit and always applies.
var tiers = map[tierKey][]tier{
	{domain.CategoryVolume, domain.SystemMetric}: {
		{750, "L"},
		{0, "ml"},
	},
	{domain.CategoryVolume, domain.SystemImperial}: {
		{946, "qt"},
		{15, "cup"},
		{0, "tsp"},
	},
	{domain.CategoryWeight, domain.SystemMetric}: {
		{750, "kg"},
		{0, "g"},
	},
	{domain.CategoryWeight, domain.SystemImperial}: {
		{453, "lb"},
		{0, "oz"},
	},
}

// SelectUnit picks the display unit for a base-unit amount. The boolean is
// false when the category/system pair has no display units.
func SelectUnit(category domain.Category, system domain.System, base float64) (string, bool) {
	steps, ok := tiers[tierKey{category, system}]
	if !ok || len(steps) == 0 {
		return "", false
	}
	for _, t := range steps[:len(steps)-1] {
		if base >= t.threshold {
			return t.unit, true
		}
	}
	return steps[len(steps)-1].unit, true
}

// Express converts a base-unit amount into the most legible unit of the
// given system.
func Express(base float64, category domain.Category, system domain.System) (float64, string, bool) {
	unit, ok := SelectUnit(category, system, base)
	if !ok {
		return base, "", false
	}
	return base / factor(unit), unit, true
}
