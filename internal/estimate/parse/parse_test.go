package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArea(t *testing.T) {
	a, ok := Area("841mm x 1189mm")
	require.True(t, ok)
	assert.InDelta(t, 0.999949, a, 1e-6)

	cases := []struct {
		in   string
		want float64
	}{
		{"500mm x 700mm", 0.35},
		{"500 X 700", 0.35},
		{"1000×1000", 1.0},
		{"1000*1000 mm", 1.0},
		{" 841mm x 1189mm ", 0.999949},
		{"210.5 x 297", 0.0625185},
	}
	for _, tc := range cases {
		got, ok := Area(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 1e-6, "input %q", tc.in)
	}

	for _, in := range []string{"", "bad text", "no dims", "500mm", "10 x 20 x 30"} {
		_, ok := Area(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2", 2},
		{"2.5", 2.5},
		{"1,250 units", 1250},
		{"qty: 5", 5},
		{"  10  ", 10},
	}
	for _, tc := range cases {
		got, ok := Quantity(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	for _, in := range []string{"", "n/a", "none"} {
		_, ok := Quantity(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1 234.50", 1234.5},
		{"1,234", 1234},
		{"1,250", 1250}, // commas are grouping, never decimal points
		{"$4.00", 4},
		{"12", 12},
		{" 1 000", 1000},
	}
	for _, tc := range cases {
		got, ok := Number(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	for _, in := range []string{"", "-", ".", "abc"} {
		_, ok := Number(in)
		assert.False(t, ok, "input %q", in)
	}
}
