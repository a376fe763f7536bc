// Package quantity renders ingredient amounts the way a cook reads them:
// common fractions for small amounts, whole numbers when close enough,
// one decimal otherwise.
package quantity

import (
	"math"
	"strconv"
)

// Tolerance is how close a value must be to a fraction or whole number to
// be shown as one.
const Tolerance = 0.01

// DefaultPrecision is the number of decimals used for amounts below 0.1.
const DefaultPrecision = 2

// fractionCeiling is the amount from which fractions are no longer used;
// "12.5" reads better than "12 1/2" on a scaled recipe.
const fractionCeiling = 10

var fractions = []struct {
	value float64
	text  string
}{
	{0.125, "1/8"},
	{0.25, "1/4"},
	{0.333, "1/3"},
	{0.375, "3/8"},
	{0.5, "1/2"},
	{0.625, "5/8"},
	{0.666, "2/3"},
	{0.75, "3/4"},
	{0.875, "7/8"},
}

// Format renders amount. The optional precision applies only to amounts
// below 0.1 and defaults to DefaultPrecision.
func Format(amount float64, precision ...int) string {
	p := DefaultPrecision
	if len(precision) > 0 && precision[0] >= 0 {
		p = precision[0]
	}

	switch {
	case amount == 0:
		return "0"
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return strconv.FormatFloat(amount, 'f', -1, 64)
	case amount < 0:
		return "-" + Format(-amount, p)
	}

	if amount < fractionCeiling {
		if s, ok := asFraction(amount); ok {
			return s
		}
	}

	if rounded := math.Round(amount); math.Abs(amount-rounded) < Tolerance {
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}

	if amount < 0.1 {
		return strconv.FormatFloat(amount, 'f', p, 64)
	}
	return oneDecimal(amount)
}

// asFraction matches the fractional part of amount against the fraction
// table, e.g. 1.5 -> "1 1/2", 0.25 -> "1/4".
func asFraction(amount float64) (string, bool) {
	whole := math.Floor(amount)
	frac := amount - whole
	for _, f := range fractions {
		if math.Abs(frac-f.value) < Tolerance {
			if whole == 0 {
				return f.text, true
			}
			return strconv.FormatFloat(whole, 'f', 0, 64) + " " + f.text, true
		}
	}
	return "", false
}

// oneDecimal rounds to one decimal place and drops a trailing ".0".
func oneDecimal(v float64) string {
	r := math.Round(v*10) / 10
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}
