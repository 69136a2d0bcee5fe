package domain

import (
	"fmt"
	"math"
)

// Input carries the raw user entry for one task. Exactly one field group is
// meaningful, selected by the task's type at scoring time.
type Input struct {
	// Choice is the declared value of the selected option, nil when nothing
	// was selected.
	Choice *int
	// Selected holds the chosen multiselect option ids.
	Selected []string
	// Numeric is the raw free-entry value.
	Numeric float64
}

// Score computes the score for a task from raw input, dispatching once on
// the task's type.
func Score(task TaskDefinition, input Input) (int, error) {
	switch task.Type {
	case TaskTypeChoice:
		return ScoreChoice(input.Choice)
	case TaskTypeMultiSelect:
		return ScoreMultiSelect(task, input.Selected)
	case TaskTypeNumeric:
		return ScoreNumeric(input.Numeric)
	default:
		return 0, fmt.Errorf("task %d: unknown type %q: %w", task.ID, task.Type, ErrValidation)
	}
}

// ScoreChoice scores a choice task: the identity of the selected option's
// declared value. A nil selection means the task was not answered.
func ScoreChoice(selected *int) (int, error) {
	if selected == nil {
		return 0, fmt.Errorf("no option selected: %w", ErrValidation)
	}
	value := *selected
	if value < 0 {
		value = 0
	}
	return value, nil
}

// ScoreMultiSelect scores a multiselect task: the sum of the values of every
// selected option. An empty selection is a validation failure; unknown
// option ids are silently dropped. Order of the selected set is irrelevant.
func ScoreMultiSelect(task TaskDefinition, selectedIDs []string) (int, error) {
	if len(selectedIDs) == 0 {
		return 0, fmt.Errorf("no options selected: %w", ErrValidation)
	}
	seen := make(map[string]struct{}, len(selectedIDs))
	total := 0
	for _, id := range selectedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if opt, ok := task.Option(id); ok {
			total += opt.Value
		}
	}
	return total, nil
}

// ScoreNumeric scores a numeric task: the non-negative integer floor of the
// entry. Malformed values (NaN, infinities, negatives) clamp to zero before
// the positivity check; zero means "not answered" and fails validation.
func ScoreNumeric(raw float64) (int, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		raw = 0
	}
	score := int(math.Floor(raw))
	if score <= 0 {
		return 0, fmt.Errorf("entry must be greater than zero: %w", ErrValidation)
	}
	return score, nil
}
