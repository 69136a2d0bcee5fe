package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/cmas/internal/assessment/application/commands"
	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the current run as a measurement",
	Long: `Queue the current run's total as a clinic measurement. Delivery runs
through the local outbox, so submission succeeds even while the clinic
store is unreachable; the worker retries until it lands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("application not initialized")
		}

		result, err := app.Container.SubmitHandler.Handle(cmd.Context(), commands.SubmitSessionCommand{})
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return fmt.Errorf("nothing to submit: %w", err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Measurement queued for %s: total %d (%s)\n",
			result.Username, result.TotalScore, result.Band.Label)
		fmt.Fprintf(out, "  id: %s\n", result.MeasurementID)

		// The per-task breakdown supplements the queued total. Losing it
		// costs detail, not data, so a failed upload is only a notice.
		if submitter := app.Container.ScoreSubmitter; submitter != nil {
			session := app.Container.SessionStore.Current()
			if err := submitter.SubmitScores(cmd.Context(), session.Username(), session.Scores()); err != nil {
				fmt.Fprintf(out, "  note: per-task breakdown not uploaded (%v)\n", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
