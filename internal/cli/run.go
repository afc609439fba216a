package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/volleyhq/volley"
	"github.com/volleyhq/volley/internal/loadtest"
	"github.com/volleyhq/volley/internal/logging"
	"github.com/volleyhq/volley/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a load test from a plan file",
	Long: `Execute the load test a plan file describes: a fixed worker pool driven
through the plan's requests, with ramp-up staggering, live progress and a
threshold-based pass/fail verdict. The exit code is 0 only when the run
passed.

Basic run:
  volley run --config checkout.yaml

Override plan variables and write artifacts:
  volley run -c checkout.yaml \
    --var baseUrl=https://staging.example.com \
    --jtl results.jtl \
    --html report.html

CI mode (no live display, machine-readable result):
  volley run -c checkout.yaml --quiet --json result.json`,
	Run: func(cmd *cobra.Command, args []string) {
		runLoadTest(cmd, args)
	},
}

// runLoadTest loads the plan, executes it and renders the outcome
func runLoadTest(cmd *cobra.Command, args []string) {
	configFile, _ := cmd.Flags().GetString("config")
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logLevel, _ := cmd.Flags().GetString("log-level")
	varFlags, _ := cmd.Flags().GetStringArray("var")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	jtlPath, _ := cmd.Flags().GetString("jtl")
	htmlPath, _ := cmd.Flags().GetString("html")
	jsonPath, _ := cmd.Flags().GetString("json")

	if configFile == "" {
		fmt.Println("Error: --config is required")
		cmd.Help()
		return
	}

	if verbose {
		logLevel = "debug"
	}
	// Logs go to stderr so they never interleave with the live display.
	logger := logging.New(logging.Config{Level: logLevel})

	globals, err := splitVars(varFlags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plan, err := volley.LoadFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
		os.Exit(1)
	}

	runner, err := volley.NewRunner(plan, volley.Options{
		Logger:  logger,
		Globals: globals,
		Timeout: timeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	console := report.NewConsole(report.ConsoleConfig{Quiet: quiet})
	console.PrintHeader(runner.Spec())

	// Interrupts cancel the context; workers drain cooperatively and the
	// partial run is still summarized.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	var wg sync.WaitGroup
	var result *loadtest.Result
	var runErr error

	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, runErr = runner.Run(ctx)
		close(done)
	}()

	updateTicker := time.NewTicker(time.Second)
	defer updateTicker.Stop()

progressLoop:
	for {
		select {
		case <-done:
			break progressLoop
		case <-updateTicker.C:
			stats := report.StatsFromCollector(runner.Collector(), runner.Spec(), time.Since(start))
			if console.IsTTY() {
				console.Update(stats)
			} else if !quiet {
				console.PrintProgress(stats)
			}
		}
	}
	wg.Wait()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running test: %v\n", runErr)
	}
	if result == nil {
		os.Exit(1)
	}

	console.PrintSummary(result)

	if jtlPath != "" {
		if err := report.WriteJTLFile(jtlPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JTL file: %v\n", err)
		} else if !quiet {
			fmt.Printf("JTL results: %s\n", jtlPath)
		}
	}
	if htmlPath != "" {
		if err := writeHTMLReport(result, htmlPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating HTML report: %v\n", err)
		} else if !quiet {
			fmt.Printf("Report: %s\n", htmlPath)
		}
	}
	if jsonPath != "" {
		if err := writeJSONResult(result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON result: %v\n", err)
		} else if !quiet {
			fmt.Printf("JSON result: %s\n", jsonPath)
		}
	}

	// Exit with error code if test failed
	if !result.Passed || runErr != nil {
		os.Exit(1)
	}
}

// splitVars parses repeated --var key=value flags into a variable map.
func splitVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

// writeHTMLReport renders the HTML report, creating parent directories and
// normalizing the extension.
func writeHTMLReport(result *loadtest.Result, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return report.WriteHTML(result, outputPath)
}

// writeJSONResult writes the full result as indented JSON.
func writeJSONResult(result *loadtest.Result, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(outputPath, data, 0644)
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "Plan file to execute (YAML or JSON)")
	runCmd.Flags().BoolP("quiet", "q", false, "Disable live progress output, show only PASSED/FAILED")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	runCmd.Flags().String("log-level", "warn", "Log level: silent, error, warn, info, debug")
	runCmd.Flags().StringArray("var", []string{}, "Set a plan variable as key=value (can be used multiple times)")
	runCmd.Flags().DurationP("timeout", "t", 0, "Overall run timeout (overrides the plan)")
	runCmd.Flags().String("jtl", "", "Write per-sample results to a JMeter-compatible JTL file")
	runCmd.Flags().String("html", "", "Write an HTML report to this path")
	runCmd.Flags().String("json", "", "Write the full result as JSON to this path")
}
