package domain

// TaskType identifies how a task collects and scores its input.
type TaskType string

const (
	// TaskTypeChoice presents mutually exclusive options; the score is the
	// declared value of the selected option.
	TaskTypeChoice TaskType = "choice"
	// TaskTypeMultiSelect presents independently selectable options; the
	// score is the sum of the selected option values.
	TaskTypeMultiSelect TaskType = "multiselect"
	// TaskTypeNumeric collects a free numeric entry. No task in the shipped
	// battery uses it, but the engine supports it fully.
	TaskTypeNumeric TaskType = "numeric"
)

// ValidTaskTypes returns the closed set of task types.
func ValidTaskTypes() []TaskType {
	return []TaskType{TaskTypeChoice, TaskTypeMultiSelect, TaskTypeNumeric}
}

// IsValidTaskType checks if the given type is part of the closed set.
func IsValidTaskType(t TaskType) bool {
	for _, valid := range ValidTaskTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// ChoiceOption is one mutually exclusive answer for a choice task.
type ChoiceOption struct {
	Label string
	Value int
}

// MultiOption is one independently selectable answer for a multiselect
// task. OptionID is unique within its task.
type MultiOption struct {
	OptionID string
	Label    string
	Value    int
}

// TaskDefinition is one immutable item of the assessment battery. ID is the
// task's 0-based ordinal position and its external identity; the catalog
// guarantees ids are dense and ordered.
type TaskDefinition struct {
	ID          int
	Title       string
	Instruction string
	Type        TaskType
	MaxPoints   int
	Unit        string

	// Choices is populated for TaskTypeChoice, MultiOptions for
	// TaskTypeMultiSelect. Numeric tasks carry neither.
	Choices      []ChoiceOption
	MultiOptions []MultiOption
}

// Option returns the multiselect option with the given id.
func (t TaskDefinition) Option(optionID string) (MultiOption, bool) {
	for _, opt := range t.MultiOptions {
		if opt.OptionID == optionID {
			return opt, true
		}
	}
	return MultiOption{}, false
}
