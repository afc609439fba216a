// Command genreport renders an HTML report from synthetic run data, for
// iterating on the report template without running a load test.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/volleyhq/volley/internal/loadtest"
	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/report"
)

func main() {
	result := createSampleResult()

	outputPath := "sample-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := report.WriteHTML(result, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s\n", outputPath)
}

func createSampleResult() *loadtest.Result {
	now := time.Now()

	return &loadtest.Result{
		Scenario:         "checkout-load",
		Started:          now.Add(-2 * time.Minute),
		Duration:         2 * time.Minute,
		Passed:           true,
		SuccessThreshold: 99.0,
		Snapshot: &metrics.Snapshot{
			Count:        5847,
			SuccessCount: 5789,
			FailedCount:  58,
			SuccessRate:  99.01,
			Min:          8 * time.Millisecond,
			Mean:         47 * time.Millisecond,
			Max:          892 * time.Millisecond,
			P50:          39 * time.Millisecond,
			P90:          89 * time.Millisecond,
			P95:          124 * time.Millisecond,
			P99:          287 * time.Millisecond,
			Phase:        metrics.PhaseDone,
			PerRequest: map[string]*metrics.RequestStats{
				"login": {
					Count:        1949,
					SuccessCount: 1943,
					SuccessRate:  99.69,
					Min:          10 * time.Millisecond,
					Mean:         38 * time.Millisecond,
					Max:          456 * time.Millisecond,
					P50:          32 * time.Millisecond,
					P90:          74 * time.Millisecond,
					P95:          98 * time.Millisecond,
					P99:          234 * time.Millisecond,
				},
				"browse-catalog": {
					Count:        1949,
					SuccessCount: 1921,
					SuccessRate:  98.56,
					Min:          8 * time.Millisecond,
					Mean:         51 * time.Millisecond,
					Max:          678 * time.Millisecond,
					P50:          42 * time.Millisecond,
					P90:          101 * time.Millisecond,
					P95:          142 * time.Millisecond,
					P99:          312 * time.Millisecond,
				},
				"place-order": {
					Count:        1949,
					SuccessCount: 1925,
					SuccessRate:  98.77,
					Min:          15 * time.Millisecond,
					Mean:         54 * time.Millisecond,
					Max:          892 * time.Millisecond,
					P50:          45 * time.Millisecond,
					P90:          112 * time.Millisecond,
					P95:          138 * time.Millisecond,
					P99:          287 * time.Millisecond,
				},
			},
		},
		Thresholds: []loadtest.ThresholdResult{
			{
				Expression: "p95 < 200ms",
				Metric:     "p95",
				Value:      "124ms",
				Passed:     true,
			},
			{
				Expression: "p99 < 500ms",
				Metric:     "p99",
				Value:      "287ms",
				Passed:     true,
			},
			{
				Expression: "avg < 100ms",
				Metric:     "avg",
				Value:      "47ms",
				Passed:     true,
			},
		},
	}
}
