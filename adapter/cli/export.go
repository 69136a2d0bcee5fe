package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/cmas/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportHistory bool
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export assessment data as CSV",
	Long: `Export the current session's task scores as CSV, or with --history the
full measurement history. Writes to stdout unless --output is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("application not initialized")
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := writeExport(cmd, out, app); err != nil {
			return err
		}

		if exportOutput != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", exportOutput)
		}
		return nil
	},
}

func writeExport(cmd *cobra.Command, out io.Writer, app *App) error {
	if exportHistory {
		measurements, err := app.Container.MeasurementStore.History(cmd.Context())
		if err != nil {
			return err
		}
		return export.WriteHistoryCSV(out, measurements)
	}
	return export.WriteSessionCSV(out, app.Container.SessionStore.Current())
}

func init() {
	exportCmd.Flags().BoolVar(&exportHistory, "history", false, "export measurement history instead of the current session")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write CSV to a file")
	rootCmd.AddCommand(exportCmd)
}
