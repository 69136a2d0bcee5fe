package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret_Boundaries(t *testing.T) {
	tests := []struct {
		total int
		label string
	}{
		{0, "Severe impairment"},
		{19, "Severe impairment"},
		{20, "Moderate impairment"},
		{22, "Moderate impairment"},
		{34, "Moderate impairment"},
		{35, "Mild impairment"},
		{49, "Mild impairment"},
		{50, "Normal function"},
		{52, "Normal function"},
		{200, "Normal function"},
	}

	for _, tc := range tests {
		band, err := Interpret(tc.total)
		require.NoError(t, err, "total %d", tc.total)
		assert.Equal(t, tc.label, band.Label, "total %d", tc.total)
	}
}

func TestInterpret_TotalAndNonOverlapping(t *testing.T) {
	// Every integer in [0, 200] matches exactly one band.
	for total := 0; total <= 200; total++ {
		matches := 0
		for _, b := range Bands() {
			if b.Contains(total) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "total %d", total)
	}
}

func TestInterpret_Negative(t *testing.T) {
	band, err := Interpret(-1)

	assert.ErrorIs(t, err, ErrNotCategorized)
	assert.Equal(t, NotCategorizedBand.Label, band.Label, "caller can still render the fallback")
	assert.Equal(t, "#6b7280", band.Color)
}

func TestBands_Colors(t *testing.T) {
	colors := make([]string, 0, 4)
	for _, b := range Bands() {
		colors = append(colors, b.Color)
	}
	assert.Equal(t, []string{"#ef4444", "#f97316", "#facc15", "#22c55e"}, colors)
}

func TestInterpret_MovingAcrossAThreshold(t *testing.T) {
	moderate, err := Interpret(22)
	require.NoError(t, err)
	assert.Equal(t, "Moderate impairment", moderate.Label)

	mild, err := Interpret(35)
	require.NoError(t, err)
	assert.Equal(t, "Mild impairment", mild.Label)
}
