package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/cmas/internal/assessment/application/services"
	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Walk through the 14-task assessment battery",
	Long: `Walk the full CMAS battery in order. Every answer is scored and saved
immediately; an interrupted run resumes with recorded scores intact,
and re-answering a task overwrites its previous score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("application not initialized")
		}

		session := app.Container.SessionStore.Current()
		if session.Username() == "" {
			return errors.New("no user attached, run 'cmas login' first")
		}

		return runAssessment(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), app)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
}

func runAssessment(ctx context.Context, in io.Reader, out io.Writer, app *App) error {
	flow := app.Container.Flow
	flow.Reset()
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "CMAS assessment for %s (%d tasks)\n\n",
		app.Container.SessionStore.Current().Username(), app.Container.Catalog.Count())

	for {
		task, err := flow.CurrentTask()
		if errors.Is(err, domain.ErrSessionComplete) {
			break
		}
		if err != nil {
			return err
		}

		result, err := askTask(ctx, scanner, out, flow, task)
		if err != nil {
			return err
		}
		if result.PersistWarning != nil {
			fmt.Fprintln(out, "  warning: score saved in memory only, storage is unavailable")
		}
		fmt.Fprintf(out, "  recorded %d/%d, running total %d\n\n", result.Score.Score, task.MaxPoints, result.Total)

		if result.Complete {
			break
		}
	}

	return printSummary(ctx, out, app)
}

// askTask prompts until the current task has a valid answer.
func askTask(ctx context.Context, scanner *bufio.Scanner, out io.Writer, flow *services.FlowController, task domain.TaskDefinition) (services.SubmitResult, error) {
	for {
		renderTask(out, task)

		line, ok := readLine(scanner)
		if !ok {
			return services.SubmitResult{}, errors.New("input closed before the battery was finished")
		}

		input, err := parseAnswer(task, line)
		if err == nil {
			var result services.SubmitResult
			result, err = flow.Submit(ctx, task.ID, input)
			if err == nil {
				return result, nil
			}
		}

		if errors.Is(err, domain.ErrValidation) {
			fmt.Fprintf(out, "  %v, try again\n\n", err)
			continue
		}
		return services.SubmitResult{}, err
	}
}

func renderTask(out io.Writer, task domain.TaskDefinition) {
	fmt.Fprintf(out, "Task %d: %s\n", task.ID+1, task.Title)
	if task.Instruction != "" {
		fmt.Fprintf(out, "  %s\n", task.Instruction)
	}

	switch task.Type {
	case domain.TaskTypeChoice:
		for i, opt := range task.Choices {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, opt.Label)
		}
		fmt.Fprint(out, "Choose an option: ")
	case domain.TaskTypeMultiSelect:
		for i, opt := range task.MultiOptions {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, opt.Label)
		}
		fmt.Fprint(out, "Enter completed items (e.g. 1,2,3): ")
	case domain.TaskTypeNumeric:
		unit := task.Unit
		if unit == "" {
			unit = "value"
		}
		fmt.Fprintf(out, "Enter %s: ", unit)
	}
}

// parseAnswer turns a prompt line into a scoring input. Malformed text maps
// to ErrValidation so the prompt repeats instead of failing the run.
func parseAnswer(task domain.TaskDefinition, line string) (domain.Input, error) {
	line = strings.TrimSpace(line)

	switch task.Type {
	case domain.TaskTypeChoice:
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(task.Choices) {
			return domain.Input{}, fmt.Errorf("expected a number between 1 and %d: %w", len(task.Choices), domain.ErrValidation)
		}
		value := task.Choices[n-1].Value
		return domain.Input{Choice: &value}, nil

	case domain.TaskTypeMultiSelect:
		var selected []string
		for _, field := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(field)
			if err != nil || n < 1 || n > len(task.MultiOptions) {
				return domain.Input{}, fmt.Errorf("expected numbers between 1 and %d: %w", len(task.MultiOptions), domain.ErrValidation)
			}
			selected = append(selected, task.MultiOptions[n-1].OptionID)
		}
		return domain.Input{Selected: selected}, nil

	default:
		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return domain.Input{}, fmt.Errorf("expected a number: %w", domain.ErrValidation)
		}
		return domain.Input{Numeric: value}, nil
	}
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return scanner.Text(), true
}
