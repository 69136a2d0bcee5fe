package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Abandon the current run and start over",
	Long: `Wipe all recorded scores and reset the total to zero. The logged-in
username is kept. Nothing is submitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errors.New("application not initialized")
		}

		if err := app.Container.SessionStore.Clear(cmd.Context()); err != nil {
			logger.Warn("session cleared in memory, durable record may remain", "error", err)
		}
		app.Container.Flow.Reset()

		fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
