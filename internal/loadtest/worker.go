package loadtest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/textproto"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
	"github.com/volleyhq/volley/pkg/jsonpath"
)

// worker runs the iterations of one virtual user. Each worker is a single
// goroutine; apart from the shared collector, everything it touches is its
// own.
type worker struct {
	id     int
	runner *Runner

	// ctx cancels waits between requests and iterations. execCtx is what
	// executors receive: never cancelled, so an in-flight request always
	// runs to completion bounded by its timeout.
	ctx     context.Context
	execCtx context.Context
	stop    <-chan struct{}

	// extracted persists across the worker's iterations and feeds
	// subsequent requests of the same worker.
	extracted map[string]string

	results []TestResult
}

func (r *Runner) newWorker(id int) *worker {
	return &worker{
		id:        id,
		runner:    r,
		extracted: make(map[string]string),
	}
}

// run executes iterations until the iteration count, the hold cap, a stop
// signal or cancellation ends the loop, whichever comes first. The hold
// clock starts at the worker's own first iteration, after ramp-up stagger.
func (w *worker) run(ctx context.Context, stop <-chan struct{}) []TestResult {
	w.ctx = ctx
	w.execCtx = context.WithoutCancel(ctx)
	w.stop = stop

	r := w.runner
	start := time.Now()

	for iter := int64(0); iter < r.spec.Iterations; iter++ {
		select {
		case <-ctx.Done():
			return w.results
		case <-stop:
			return w.results
		default:
		}
		if r.spec.Hold > 0 && time.Since(start) >= r.spec.Hold {
			return w.results
		}

		w.runIteration(iter)

		if iter < r.spec.Iterations-1 && !w.pace() {
			return w.results
		}
	}
	return w.results
}

// runIteration executes every request of the scenario once, in order. An
// interrupted think-time wait abandons the rest of the iteration; the
// request in flight at that moment has already completed.
func (w *worker) runIteration(iter int64) {
	requests := w.runner.requests
	for i, bound := range requests {
		w.executeRequest(bound, iter)

		if bound.spec.ThinkTime > 0 && i < len(requests)-1 {
			if !w.wait(bound.spec.ThinkTime) {
				return
			}
		}
	}
}

// executeRequest resolves, executes, classifies and records one request.
// Exactly one sample is appended, success or failure.
func (w *worker) executeRequest(bound *boundRequest, iter int64) {
	r := w.runner
	req := bound.spec

	ec := w.executionContext(bound, iter)
	payload := req.Payload.ResolveTemplates(func(template string) string {
		return ec.Resolve(r.resolver, template)
	})

	resolved := &protocol.ResolvedRequest{
		Name:      req.Name,
		Payload:   payload,
		Worker:    w.id,
		Iteration: iter,
	}

	start := time.Now()
	resp := w.execute(bound, resolved)
	elapsed := resp.Elapsed
	if elapsed <= 0 {
		elapsed = time.Since(start)
	}

	outcome := bound.classifier.Classify(resp)
	w.applyExtracts(req, resp)

	var errText string
	if resp.Err != nil {
		errText = resp.Err.Error()
	}

	r.collector.Append(metrics.Sample{
		Request:  req.Name,
		Start:    start,
		Duration: elapsed,
		Success:  outcome.Success,
		Label:    outcome.Label,
		Error:    errText,
	})

	w.results = append(w.results, TestResult{
		Worker:    w.id,
		Iteration: iter,
		Request:   req.Name,
		Protocol:  payload.Protocol(),
		Target:    payload.Target(),
		Status:    resp.StatusCode,
		Label:     outcome.Label,
		Success:   outcome.Success,
		Error:     errText,
		Start:     start,
		Duration:  elapsed,
		Bytes:     int64(len(resp.Body)),
		Timing:    resp.Timing,
	})
}

// execute never lets an executor abort the worker: returned errors and
// recovered panics both become failed responses.
func (w *worker) execute(bound *boundRequest, req *protocol.ResolvedRequest) (resp *protocol.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			w.runner.logger.WithFields(logrus.Fields{
				"worker":  w.id,
				"request": req.Name,
			}).Warnf("executor panic: %v", rec)
			resp = &protocol.Response{Err: fmt.Errorf("executor panic: %v", rec)}
		}
	}()

	got, err := bound.executor.Execute(w.execCtx, req, bound.timeout)
	if err != nil {
		return &protocol.Response{Err: err}
	}
	if got == nil {
		return &protocol.Response{Err: errors.New("executor returned no response")}
	}
	return got
}

// executionContext assembles the variable environment for one request
// execution of this worker.
func (w *worker) executionContext(bound *boundRequest, iter int64) *ExecutionContext {
	var row map[string]string
	if bound.source != nil {
		if r, ok := bound.source.RowAt(iter); ok {
			row = r
		}
	}
	return newExecutionContext(
		w.id, iter,
		w.extracted, row,
		bound.spec.Variables,
		w.runner.spec.Variables,
		w.runner.globals,
	)
}

// applyExtracts captures response values into the worker scope.
func (w *worker) applyExtracts(req *scenario.Request, resp *protocol.Response) {
	for _, rule := range req.Extract {
		switch rule.Source {
		case scenario.ExtractBody:
			value, ok := jsonpath.Lookup(string(resp.Body), rule.Path)
			if !ok {
				w.runner.logger.WithFields(logrus.Fields{
					"worker":   w.id,
					"request":  req.Name,
					"variable": rule.Name,
					"path":     rule.Path,
				}).Warn("extract path not found in response body")
				continue
			}
			w.extracted[rule.Name] = value

		case scenario.ExtractHeader:
			value, ok := resp.Headers[rule.Path]
			if !ok {
				value, ok = resp.Headers[textproto.CanonicalMIMEHeaderKey(rule.Path)]
			}
			if !ok {
				w.runner.logger.WithFields(logrus.Fields{
					"worker":   w.id,
					"request":  req.Name,
					"variable": rule.Name,
					"header":   rule.Path,
				}).Warn("extract header not present in response")
				continue
			}
			w.extracted[rule.Name] = value

		case scenario.ExtractStatus:
			w.extracted[rule.Name] = strconv.Itoa(resp.StatusCode)
		}
	}
}

// wait sleeps cooperatively; false means the run is stopping.
func (w *worker) wait(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-w.ctx.Done():
		return false
	case <-w.stop:
		return false
	}
}

// pace applies the scenario's between-iteration pacing.
func (w *worker) pace() bool {
	p := w.runner.spec.Pacing
	if p == nil {
		return true
	}
	switch p.Kind {
	case scenario.PacingConstant:
		return w.wait(p.Duration)
	case scenario.PacingRandom:
		d := p.Min
		if span := int64(p.Max - p.Min); span > 0 {
			d += time.Duration(rand.Int63n(span + 1))
		}
		return w.wait(d)
	}
	return true
}
