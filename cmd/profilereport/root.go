package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/profilereport/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for profilereport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profilereport",
		Short: "Render data profiling summaries as HTML reports",
		Long: `profilereport renders the summary written by a data profiling run
(table statistics, warnings and per-variable statistics) as a navigable
HTML report, and groups reports of related datasets into one page.

Reports can also be exported as JSON, Markdown or plain text.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewDatasetCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger installs the secure logger writing to stderr as default.
func setupLogger(verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}
