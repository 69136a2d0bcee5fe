package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/cmas/internal/assessment/application/queries"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("application not initialized")
		}
		return printSummary(cmd.Context(), cmd.OutOrStdout(), app)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printSummary(ctx context.Context, out io.Writer, app *App) error {
	summary, err := app.Container.SummaryHandler.Handle(ctx, queries.GetSummaryQuery{})
	if err != nil {
		return err
	}

	username := summary.Username
	if username == "" {
		username = "(not logged in)"
	}

	fmt.Fprintf(out, "User:   %s\n", username)
	fmt.Fprintf(out, "Score:  %d / %d (%d of %d tasks attempted)\n",
		summary.TotalScore, summary.MaxPossible, summary.Attempted, summary.TaskCount)
	fmt.Fprintf(out, "Result: %s\n", summary.Interpretation)

	if summary.Attempted == 0 {
		return nil
	}

	fmt.Fprintln(out)
	for _, task := range summary.Tasks {
		mark := " "
		score := "-"
		if task.Attempted {
			mark = "x"
			score = fmt.Sprintf("%d/%d", task.Score, task.MaxPoints)
		}
		fmt.Fprintf(out, "  [%s] %2d. %-38s %s\n", mark, task.TaskID+1, task.Title, score)
	}
	return nil
}
