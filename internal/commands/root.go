package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/buildinfo"
	"github.com/extracto-dev/extracto/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "extracto",
		Short:   "Turn pasted bank statement text into deduplicated transactions",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "path to extracto.yaml")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(a),
		newParseCommand(a),
		newInboxCommand(a),
		newTransactionsCommand(a),
		newExportCommand(a),
	)

	return rootCmd
}
