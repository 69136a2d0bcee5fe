package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/cmas/internal/assessment/application/queries"
	"github.com/spf13/cobra"
)

var historyPatient string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded measurements",
	Long: `List all submitted measurements from the clinic store, oldest first,
with the band derived from each total. Use --patient to narrow the list
to one patient.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("application not initialized")
		}

		result, err := app.Container.HistoryHandler.Handle(cmd.Context(), queries.GetHistoryQuery{
			Patient: historyPatient,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Entries) == 0 {
			fmt.Fprintln(out, "No measurements recorded.")
			return nil
		}

		for _, entry := range result.Entries {
			fmt.Fprintf(out, "%s  %-12s %3d  %s\n",
				entry.Date.Format("2006-01-02"), entry.Username, entry.TotalScore, entry.Interpretation)
		}

		if historyPatient == "" && len(result.Patients) > 1 {
			fmt.Fprintf(out, "\nPatients: %d (filter with --patient)\n", len(result.Patients))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyPatient, "patient", "", "only show measurements for this patient")
	rootCmd.AddCommand(historyCmd)
}
