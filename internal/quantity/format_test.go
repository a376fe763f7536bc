package quantity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0"},
		{0.5, "1/2"},
		{0.333, "1/3"},
		{1.0 / 3, "1/3"},
		{2.0 / 3, "2/3"},
		{0.125, "1/8"},
		{0.25, "1/4"},
		{0.375, "3/8"},
		{0.625, "5/8"},
		{0.75, "3/4"},
		{0.875, "7/8"},
		{1.5, "1 1/2"},
		{2.25, "2 1/4"},
		{1.745, "1 3/4"},
		{9.5, "9 1/2"},
		{3.0, "3"},
		{2.995, "3"},
		{1.004, "1"},
		{12.5, "12.5"},
		{10.25, "10.3"},
		{10.5, "10.5"},
		{473.176, "473.2"},
		{250, "250"},
		{1000.04, "1000"},
		{0.05, "0.05"},
		{0.005, "0"},
		{0.946352, "0.9"},
		{1.06, "1.1"},
		{4.96, "5"},
		{2.1, "2.1"},
		{0.2, "0.2"},
		{-0.5, "-1/2"},
		{-12.5, "-12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.amount), "Format(%v)", tt.amount)
		})
	}
}

func TestFormatPrecision(t *testing.T) {
	assert.Equal(t, "0.05", Format(0.05))
	assert.Equal(t, "0.046", Format(0.0456, 3))
	assert.Equal(t, "0.0", Format(0.04, 1))
	assert.Equal(t, "0.05", Format(0.05, -1), "negative precision falls back to the default")
	assert.Equal(t, "2.1", Format(2.14, 4), "precision only applies below 0.1")
}

func TestFormatNonFinite(t *testing.T) {
	assert.Equal(t, "NaN", Format(math.NaN()))
	assert.Equal(t, "+Inf", Format(math.Inf(1)))
}
