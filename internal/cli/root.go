package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "volley",
	Short:   "A protocol-aware load testing tool",
	Version: version,
	Long: `Volley runs load tests described in YAML or JSON plan files against
HTTP, GraphQL, SOAP and SQL backends, with live progress, latency
percentiles and threshold-based pass/fail verdicts.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Add subcommands to root command
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(validateCmd)
}
