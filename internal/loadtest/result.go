package loadtest

import (
	"time"

	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// TestResult is one executed request instance: the recorded sample joined
// with its execution metadata. The (Worker, Iteration, Request) triple
// identifies the execution regardless of sample arrival order.
type TestResult struct {
	Worker    int               `json:"worker"`
	Iteration int64             `json:"iteration"`
	Request   string            `json:"request"`
	Protocol  scenario.Protocol `json:"protocol"`

	// Target is the resolved destination: URL or statement.
	Target string `json:"target"`

	Status   int           `json:"status"`
	Label    string        `json:"label"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`

	// Bytes is the response body size.
	Bytes int64 `json:"bytes"`

	// Timing is the connection phase breakdown, when observed.
	Timing *protocol.Timing `json:"timing,omitempty"`
}

// Result is the complete outcome of one scenario run. Any run that started
// produces a Result with the full list and snapshot, even if every request
// failed.
type Result struct {
	Scenario string        `json:"scenario"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`

	// Passed is the verdict: the success rate reached the scenario
	// threshold and every latency gate held.
	Passed bool `json:"passed"`

	// SuccessThreshold is the success-rate gate the verdict used.
	SuccessThreshold float64 `json:"successThreshold"`

	// Results preserves per-worker execution order; workers are
	// concatenated in worker-id order.
	Results []TestResult `json:"results"`

	// Snapshot is the final aggregation over every sample of the run.
	Snapshot *metrics.Snapshot `json:"snapshot"`

	// Thresholds lists the latency gate evaluations, in declaration order.
	Thresholds []ThresholdResult `json:"thresholds,omitempty"`

	// ResolutionGaps counts placeholders that no scope could bind.
	ResolutionGaps int64 `json:"resolutionGaps,omitempty"`
}
