package domain

import "fmt"

// Band is one severity range of the CMAS interpretation scale. Bands are
// contiguous and non-overlapping over the non-negative integers; the top
// band is open-ended so totals above the catalog maximum still resolve.
type Band struct {
	Label string
	Color string
	Min   int
	// Max is inclusive; -1 marks the open-ended top band.
	Max int
}

var bands = []Band{
	{Label: "Severe impairment", Color: "#ef4444", Min: 0, Max: 19},
	{Label: "Moderate impairment", Color: "#f97316", Min: 20, Max: 34},
	{Label: "Mild impairment", Color: "#facc15", Min: 35, Max: 49},
	{Label: "Normal function", Color: "#22c55e", Min: 50, Max: -1},
}

// NotCategorizedBand is the fallback presentation for totals no band
// matches. It is returned alongside ErrNotCategorized so callers can render
// it without crashing.
var NotCategorizedBand = Band{Label: "Not categorized", Color: "#6b7280", Min: 0, Max: -1}

// Bands returns the ordered interpretation scale.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Contains reports whether the total falls inside the band.
func (b Band) Contains(total int) bool {
	if total < b.Min {
		return false
	}
	return b.Max < 0 || total <= b.Max
}

// Interpret maps an aggregate score to its severity band. Only negative
// totals miss the scale; they yield NotCategorizedBand and ErrNotCategorized.
func Interpret(total int) (Band, error) {
	for _, b := range bands {
		if b.Contains(total) {
			return b, nil
		}
	}
	return NotCategorizedBand, fmt.Errorf("total %d: %w", total, ErrNotCategorized)
}
