// Package cli implements the cmas command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/cmas/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

var activeCommand commandContext

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmas",
	Short: "CMAS - Childhood Myositis Assessment Scale",
	Long: `cmas scores the 14-task Childhood Myositis Assessment Scale battery,
keeps the run durable across restarts, and submits completed
assessments to the clinic history.

Run 'cmas login' first, then 'cmas assess' to walk the battery.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		activeCommand = commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		cmd.SetContext(observability.WithCorrelationID(cmd.Context(), activeCommand.correlationID.String()))
		logger.Debug("command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", activeCommand.correlationID.String(),
			"duration_ms", time.Since(activeCommand.startedAt).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}
