package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/volleyhq/volley"
	"github.com/volleyhq/volley/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [plan]",
	Short: "Validate a plan file without running it",
	Long: `Check a plan file the way a run would: structure, variables, data
sources, label validators, threshold expressions and protocol coverage.
Nothing is executed and no connection is opened.

  volley validate checkout.yaml
  volley validate --config checkout.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runValidate(cmd, args)
	},
}

func runValidate(cmd *cobra.Command, args []string) {
	configFile, _ := cmd.Flags().GetString("config")
	if len(args) > 0 {
		configFile = args[0]
	}
	if configFile == "" {
		fmt.Println("Error: a plan file is required")
		cmd.Help()
		return
	}

	fail := color.New(color.FgRed).Sprint("✗")

	plan, err := volley.LoadFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", fail, configFile, err)
		os.Exit(1)
	}
	if err := plan.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", fail, configFile, err)
		os.Exit(1)
	}

	ok := color.New(color.FgGreen).Sprint("✓")
	fmt.Printf("%s %s is valid\n\n", ok, configFile)
	printPlanSummary(plan.Doc)
}

// printPlanSummary shows what a run of the document would execute.
func printPlanSummary(doc *config.Document) {
	fmt.Printf("Scenario:   %s\n", doc.Name)
	fmt.Printf("Load:       %d workers × %d iterations\n", doc.Threads, doc.Iterations)
	if doc.RampUp > 0 {
		fmt.Printf("Ramp-up:    %s\n", doc.RampUp)
	}
	if doc.Hold > 0 {
		fmt.Printf("Hold:       %s\n", doc.Hold)
	}
	if len(doc.Thresholds) > 0 {
		fmt.Println("Thresholds:")
		for _, expr := range doc.Thresholds {
			fmt.Printf("  %s\n", expr)
		}
	}
	if len(doc.Data) > 0 {
		fmt.Println("Data sources:")
		for name, dc := range doc.Data {
			if dc.File != "" {
				fmt.Printf("  %s (file %s)\n", name, dc.File)
			} else {
				fmt.Printf("  %s (%d inline rows)\n", name, len(dc.Rows))
			}
		}
	}
	fmt.Println("Requests:")
	for i, rc := range doc.Requests {
		fmt.Printf("  %d. %s (%s)\n", i+1, rc.Name, protocolOf(rc))
	}
}

// protocolOf names the protocol block a request configures.
func protocolOf(rc *config.RequestConfig) string {
	switch {
	case rc.HTTP != nil:
		return "http"
	case rc.GraphQL != nil:
		return "graphql"
	case rc.SOAP != nil:
		return "soap"
	case rc.SQL != nil:
		return "sql"
	}
	return "unknown"
}

func init() {
	validateCmd.Flags().StringP("config", "c", "", "Plan file to validate (YAML or JSON)")
}
