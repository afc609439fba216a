// Package loadtest implements the load-test orchestration core: a fixed
// pool of worker goroutines driven through the iterations of one scenario,
// and the aggregation that turns their samples into a pass/fail verdict.
//
// The core performs no network or file I/O of its own. Protocol executors
// come in through a registry, data rows through preloaded sources, and the
// finished run leaves as plain values for the reporting layer. Everything
// that can fail by configuration fails in NewRunner, before any worker
// starts; after that the run always completes with a full result.
package loadtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/volleyhq/volley/internal/loadtest/classify"
	"github.com/volleyhq/volley/internal/loadtest/data"
	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
	"github.com/volleyhq/volley/internal/loadtest/vars"
)

// DefaultRequestTimeout bounds requests that configure no timeout of their
// own.
const DefaultRequestTimeout = 30 * time.Second

// Options carries the collaborators of a run.
type Options struct {
	// Registry resolves protocol executors. Required.
	Registry *protocol.Registry

	// Data holds the named data-row sources requests may reference.
	Data map[string]*data.Source

	// Globals is the lowest-precedence variable scope.
	Globals map[string]string

	// Timeout bounds the whole run. Zero means no global bound.
	Timeout time.Duration

	// RequestTimeout applies to requests without their own timeout. Zero
	// falls back to DefaultRequestTimeout.
	RequestTimeout time.Duration

	// Logger receives lifecycle and resolution-gap logging. Nil discards.
	Logger logrus.FieldLogger
}

// Runner executes one scenario. NewRunner resolves and validates everything
// that can fail before a worker starts; a Runner is meant for a single Run
// call.
type Runner struct {
	spec      *scenario.Spec
	globals   map[string]string
	timeout   time.Duration
	logger    logrus.FieldLogger
	resolver  *vars.Resolver
	collector *metrics.Collector

	// requests holds the setup-time binding of every scenario request, in
	// declaration order.
	requests []*boundRequest
}

// boundRequest is a scenario request with its setup-time resolution done:
// executor, compiled classifier, data source and effective timeout.
type boundRequest struct {
	spec       *scenario.Request
	executor   protocol.Executor
	classifier *classify.Classifier
	source     *data.Source
	timeout    time.Duration
}

// NewRunner validates the spec and binds every request to its executor,
// classifier and data source. All returned errors are configuration
// errors; nothing has been executed when NewRunner fails.
func NewRunner(spec *scenario.Spec, opts Options) (*Runner, error) {
	if spec == nil {
		return nil, &scenario.ConfigError{Field: "scenario", Message: "scenario is required"}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if opts.Registry == nil {
		return nil, &scenario.ConfigError{Field: "registry", Message: "protocol registry is required"}
	}
	if err := validateThresholds(spec.Thresholds); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	r := &Runner{
		spec:      spec,
		globals:   opts.Globals,
		timeout:   opts.Timeout,
		logger:    logger,
		resolver:  vars.NewResolver(logger),
		collector: metrics.NewCollector(),
	}

	for i, req := range spec.Requests {
		exec, err := opts.Registry.Lookup(req.Payload.Protocol())
		if err != nil {
			return nil, &scenario.ConfigError{
				Field:   fmt.Sprintf("requests[%d].payload", i),
				Message: err.Error(),
			}
		}

		classifier, err := classify.Compile(req.Labels)
		if err != nil {
			var ce *scenario.ConfigError
			if errors.As(err, &ce) {
				return nil, &scenario.ConfigError{
					Field:   fmt.Sprintf("requests[%d].%s", i, ce.Field),
					Message: ce.Message,
				}
			}
			return nil, err
		}

		var source *data.Source
		if req.DataSource != "" {
			source = opts.Data[req.DataSource]
			if source == nil {
				return nil, &scenario.ConfigError{
					Field:   fmt.Sprintf("requests[%d].dataSource", i),
					Message: fmt.Sprintf("unknown data source %q", req.DataSource),
				}
			}
		}

		timeout := req.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}

		r.requests = append(r.requests, &boundRequest{
			spec:       req,
			executor:   exec,
			classifier: classifier,
			source:     source,
			timeout:    timeout,
		})
	}
	return r, nil
}

// Spec returns the scenario this runner executes.
func (r *Runner) Spec() *scenario.Spec {
	return r.spec
}

// Collector exposes the live metrics of the run in flight: counters,
// streaming percentiles and the current phase.
func (r *Runner) Collector() *metrics.Collector {
	return r.collector
}

// Run schedules the workers and blocks until they are done or the global
// timeout elapses, then aggregates. Cancelling ctx stops the run
// cooperatively: workers notice between iterations and in-flight requests
// run to completion, so the returned Result covers everything that
// executed. The only error Run returns is a context already cancelled
// before any work started.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()
	threads := r.spec.Threads

	r.logger.WithFields(logrus.Fields{
		"scenario":   r.spec.Name,
		"threads":    threads,
		"iterations": r.spec.Iterations,
		"rampUp":     r.spec.RampUp,
		"hold":       r.spec.Hold,
	}).Info("run starting")

	if r.spec.RampUp > 0 {
		r.collector.SetPhase(metrics.PhaseRampUp)
	} else {
		r.collector.SetPhase(metrics.PhaseSteady)
	}

	stop := make(chan struct{})
	perWorker := make([][]TestResult, threads)

	var active atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			if delay := staggerDelay(id, threads, r.spec.RampUp); delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-runCtx.Done():
					timer.Stop()
					return
				case <-stop:
					timer.Stop()
					return
				}
			}
			if id == threads-1 {
				// The longest stagger slot has elapsed.
				r.collector.SetPhase(metrics.PhaseSteady)
			}

			r.collector.SetActiveWorkers(int(active.Add(1)))
			defer func() { r.collector.SetActiveWorkers(int(active.Add(-1))) }()

			perWorker[id] = r.newWorker(id).run(runCtx, stop)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-runCtx.Done():
		// Global timeout or caller cancellation: drain cooperatively.
		r.collector.SetPhase(metrics.PhaseDraining)
		close(stop)
		<-done
	}
	r.collector.SetPhase(metrics.PhaseDone)

	result := r.buildResult(started, perWorker)

	r.logger.WithFields(logrus.Fields{
		"scenario":    r.spec.Name,
		"samples":     result.Snapshot.Count,
		"successRate": result.Snapshot.SuccessRate,
		"passed":      result.Passed,
	}).Info("run complete")

	return result, nil
}

// staggerDelay is worker id's ramp-up delay: id * RampUp / threads.
func staggerDelay(id, threads int, rampUp time.Duration) time.Duration {
	if rampUp <= 0 || threads <= 0 {
		return 0
	}
	return time.Duration(int64(id) * int64(rampUp) / int64(threads))
}

// buildResult aggregates after worker join: per-worker results concatenated
// in worker-id order, the final snapshot, gate evaluations and the verdict.
func (r *Runner) buildResult(started time.Time, perWorker [][]TestResult) *Result {
	snap := r.collector.Snapshot()

	total := 0
	for _, list := range perWorker {
		total += len(list)
	}
	results := make([]TestResult, 0, total)
	for _, list := range perWorker {
		results = append(results, list...)
	}

	thresholds := evaluateThresholds(r.spec.Thresholds, snap)
	passed := snap.SuccessRate >= r.spec.EffectiveThreshold()
	for _, tr := range thresholds {
		if !tr.Passed {
			passed = false
			break
		}
	}

	return &Result{
		Scenario:         r.spec.Name,
		Started:          started,
		Duration:         time.Since(started),
		Passed:           passed,
		SuccessThreshold: r.spec.EffectiveThreshold(),
		Results:          results,
		Snapshot:         snap,
		Thresholds:       thresholds,
		ResolutionGaps:   r.resolver.Gaps(),
	}
}
