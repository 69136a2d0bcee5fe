package domain

import "fmt"

// Catalog is the fixed, ordered battery of assessment tasks. Task ids are
// dense 0-based ordinals; the ordinal is both identity and order key.
type Catalog struct {
	tasks       []TaskDefinition
	maxPossible int
}

// NewCatalog builds a catalog from an ordered task sequence, validating that
// ids are dense ordinals and option values stay within each task's bounds.
func NewCatalog(tasks []TaskDefinition) (*Catalog, error) {
	maxPossible := 0
	for i, task := range tasks {
		if task.ID != i {
			return nil, fmt.Errorf("task %q: id %d at position %d, ids must be dense ordinals", task.Title, task.ID, i)
		}
		if task.MaxPoints < 0 {
			return nil, fmt.Errorf("task %d: negative max points %d", task.ID, task.MaxPoints)
		}
		if !IsValidTaskType(task.Type) {
			return nil, fmt.Errorf("task %d: unknown type %q", task.ID, task.Type)
		}
		for _, opt := range task.Choices {
			if opt.Value < 0 || opt.Value > task.MaxPoints {
				return nil, fmt.Errorf("task %d: choice %q value %d out of range [0, %d]", task.ID, opt.Label, opt.Value, task.MaxPoints)
			}
		}
		seen := make(map[string]struct{}, len(task.MultiOptions))
		for _, opt := range task.MultiOptions {
			if _, dup := seen[opt.OptionID]; dup {
				return nil, fmt.Errorf("task %d: duplicate option id %q", task.ID, opt.OptionID)
			}
			seen[opt.OptionID] = struct{}{}
		}
		maxPossible += task.MaxPoints
	}
	return &Catalog{tasks: tasks, maxPossible: maxPossible}, nil
}

// Task returns the definition for the given ordinal id, or ErrTaskNotFound
// when the id is outside [0, Count).
func (c *Catalog) Task(id int) (TaskDefinition, error) {
	if id < 0 || id >= len(c.tasks) {
		return TaskDefinition{}, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	return c.tasks[id], nil
}

// Count returns the number of tasks in the battery.
func (c *Catalog) Count() int {
	return len(c.tasks)
}

// Tasks returns the full battery in order.
func (c *Catalog) Tasks() []TaskDefinition {
	out := make([]TaskDefinition, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// MaxPossibleScore returns the sum of MaxPoints over the battery.
func (c *Catalog) MaxPossibleScore() int {
	return c.maxPossible
}

// StandardCatalog returns the 14-item CMAS battery. Construction cannot fail
// for the shipped content; the validation in NewCatalog guards edits.
func StandardCatalog() *Catalog {
	catalog, err := NewCatalog(standardTasks())
	if err != nil {
		panic(fmt.Sprintf("standard catalog invalid: %v", err))
	}
	return catalog
}

func standardTasks() []TaskDefinition {
	return []TaskDefinition{
		{
			ID:          0,
			Title:       "Task 1: Head Lift",
			Instruction: "How many seconds could you hold your head up?",
			Type:        TaskTypeChoice,
			MaxPoints:   5,
			Choices: []ChoiceOption{
				{Label: "Unable to lift head", Value: 0},
				{Label: "1-9 seconds", Value: 1},
				{Label: "10-29 seconds", Value: 2},
				{Label: "30-59 seconds", Value: 3},
				{Label: "1-2 minutes", Value: 4},
				{Label: "More than 2 minutes", Value: 5},
			},
		},
		{
			ID:          1,
			Title:       "Task 2: Leg Raise / Touch Object",
			Instruction: "Can you lift your leg and touch the object (examiner's hand)?",
			Type:        TaskTypeChoice,
			MaxPoints:   2,
			Choices: []ChoiceOption{
				{Label: "Unable to lift leg", Value: 0},
				{Label: "Can lift leg but can't touch object", Value: 1},
				{Label: "Can touch the object", Value: 2},
			},
		},
		{
			ID:          2,
			Title:       "Task 3: Straight Leg Lift / Duration",
			Instruction: "How long could you hold your leg straight?",
			Type:        TaskTypeChoice,
			MaxPoints:   5,
			Choices: []ChoiceOption{
				{Label: "Unable to lift leg", Value: 0},
				{Label: "1-9 seconds", Value: 1},
				{Label: "10-29 seconds", Value: 2},
				{Label: "30-59 seconds", Value: 3},
				{Label: "1-2 minutes", Value: 4},
				{Label: "More than 2 minutes", Value: 5},
			},
		},
		{
			ID:          3,
			Title:       "Task 4: Supine to Prone",
			Instruction: "How difficult was it to turn from your back to your stomach?",
			Type:        TaskTypeChoice,
			MaxPoints:   3,
			Choices: []ChoiceOption{
				{Label: "Could not turn fully", Value: 0},
				{Label: "Turned but couldn't free right arm", Value: 1},
				{Label: "Freed arm with difficulty", Value: 2},
				{Label: "No difficulty", Value: 3},
			},
		},
		{
			ID:          4,
			Title:       "Task 5: Sit-ups",
			Instruction: "Which sit-up positions could you do?",
			Type:        TaskTypeMultiSelect,
			MaxPoints:   6,
			MultiOptions: []MultiOption{
				{OptionID: "sit1", Label: "Hands on thighs with counterbalance", Value: 1},
				{OptionID: "sit2", Label: "Hands on thighs without counterbalance", Value: 1},
				{OptionID: "sit3", Label: "Arms crossed with counterbalance", Value: 1},
				{OptionID: "sit4", Label: "Arms crossed without counterbalance", Value: 1},
				{OptionID: "sit5", Label: "Hands behind head with counterbalance", Value: 1},
				{OptionID: "sit6", Label: "Hands behind head without counterbalance", Value: 1},
			},
		},
		{
			ID:          5,
			Title:       "Task 6: Supine to Sit",
			Instruction: "How difficult was it to move from lying down to sitting up?",
			Type:        TaskTypeChoice,
			MaxPoints:   3,
			Choices: []ChoiceOption{
				{Label: "Unable to sit up", Value: 0},
				{Label: "Much difficulty", Value: 1},
				{Label: "Some difficulty", Value: 2},
				{Label: "No difficulty", Value: 3},
			},
		},
		{
			ID:          6,
			Title:       "Task 7: Arm Raise / Straighten",
			Instruction: "How high could you raise your arms?",
			Type:        TaskTypeChoice,
			MaxPoints:   3,
			Choices: []ChoiceOption{
				{Label: "Cannot raise to shoulder", Value: 0},
				{Label: "To shoulder, not above head", Value: 1},
				{Label: "Above head, not fully extended", Value: 2},
				{Label: "Fully extended above head", Value: 3},
			},
		},
		{
			ID:          7,
			Title:       "Task 8: Arm Raise / Duration",
			Instruction: "How long could you hold your arms up?",
			Type:        TaskTypeChoice,
			MaxPoints:   4,
			Choices: []ChoiceOption{
				{Label: "Unable to hold", Value: 0},
				{Label: "1-9 seconds", Value: 1},
				{Label: "10-29 seconds", Value: 2},
				{Label: "30-59 seconds", Value: 3},
				{Label: "60+ seconds", Value: 4},
			},
		},
		{
			ID:          8,
			Title:       "Task 9: Floor Sit",
			Instruction: "How difficult was it to sit on the floor from standing?",
			Type:        TaskTypeChoice,
			MaxPoints:   3,
			Choices: []ChoiceOption{
				{Label: "Unable to do it", Value: 0},
				{Label: "Much difficulty (needed chair)", Value: 1},
				{Label: "Some difficulty", Value: 2},
				{Label: "No difficulty", Value: 3},
			},
		},
		{
			ID:          9,
			Title:       "Task 10: All Fours Maneuver",
			Instruction: "What could you do on your hands and knees?",
			Type:        TaskTypeChoice,
			MaxPoints:   4,
			Choices: []ChoiceOption{
				{Label: "Could not get on hands and knees", Value: 0},
				{Label: "Barely maintained position", Value: 1},
				{Label: "Maintained position but couldn't crawl", Value: 2},
				{Label: "Could crawl", Value: 3},
				{Label: "Could crawl and extend a leg", Value: 4},
			},
		},
		{
			ID:          10,
			Title:       "Task 11: Floor Rise",
			Instruction: "How did you stand up from kneeling?",
			Type:        TaskTypeChoice,
			MaxPoints:   4,
			Choices: []ChoiceOption{
				{Label: "Could not stand up", Value: 0},
				{Label: "Used a chair to stand", Value: 1},
				{Label: "Used hands on body", Value: 2},
				{Label: "No hands, some difficulty", Value: 3},
				{Label: "No difficulty", Value: 4},
			},
		},
		{
			ID:          11,
			Title:       "Task 12: Chair Rise",
			Instruction: "How did you stand up from the chair?",
			Type:        TaskTypeChoice,
			MaxPoints:   4,
			Choices: []ChoiceOption{
				{Label: "Could not stand up", Value: 0},
				{Label: "Needed hands on chair", Value: 1},
				{Label: "Used hands on knees/thighs", Value: 2},
				{Label: "No hands, some difficulty", Value: 3},
				{Label: "No difficulty", Value: 4},
			},
		},
		{
			ID:          12,
			Title:       "Task 13: Stool Step",
			Instruction: "How did you step up onto the stool?",
			Type:        TaskTypeChoice,
			MaxPoints:   3,
			Choices: []ChoiceOption{
				{Label: "Could not step up", Value: 0},
				{Label: "Needed table or hand support", Value: 1},
				{Label: "Hand on knee/thigh", Value: 2},
				{Label: "No support needed", Value: 3},
			},
		},
		{
			ID:          13,
			Title:       "Task 14: Pick-Up",
			Instruction: "How difficult was it to pick up the pencil from the floor?",
			Type:        TaskTypeChoice,
			MaxPoints:   3,
			Choices: []ChoiceOption{
				{Label: "Could not pick it up", Value: 0},
				{Label: "Much difficulty (needed support)", Value: 1},
				{Label: "Some difficulty (brief support)", Value: 2},
				{Label: "No difficulty", Value: 3},
			},
		},
	}
}
