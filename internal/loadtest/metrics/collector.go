// Package metrics collects per-request samples from concurrent workers and
// aggregates them into percentile-based statistics.
//
// The collector keeps three views of the same data: an append-only sample
// slice for exact post-run statistics, atomic counters for lock-free live
// reads, and an HDR histogram for cheap streaming percentiles while the run
// is in flight. Exact snapshots come from the slice; the histogram only
// serves live progress output.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     int64 = 1
	histogramMax     int64 = 3600000000
	histogramSigFigs       = 3
)

// Sample is one executed request. Immutable once appended.
type Sample struct {
	// Request is the request name from the scenario.
	Request string `json:"request"`

	// Start is when the execution began.
	Start time.Time `json:"start"`

	// Duration is the wall time of the execution.
	Duration time.Duration `json:"duration"`

	// Success is the classified outcome.
	Success bool `json:"success"`

	// Label is the status label assigned by classification.
	Label string `json:"label"`

	// Error describes the failure for failed samples, empty otherwise.
	Error string `json:"error,omitempty"`
}

// Percentiles is a streaming latency view read from the histogram while
// workers are still appending. Values carry histogram resolution, not
// exact-sample precision.
type Percentiles struct {
	Min time.Duration `json:"min"`
	Max time.Duration `json:"max"`
	P50 time.Duration `json:"p50"`
	P90 time.Duration `json:"p90"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
}

// Collector is the append-only sample store shared by all workers of a run.
// It is the only mutable structure workers share; everything else they see
// is read-only. Safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	samples []Sample

	histMu sync.Mutex
	hist   *hdrhistogram.Histogram

	total   atomic.Int64
	success atomic.Int64
	failed  atomic.Int64

	activeWorkers atomic.Int32

	phaseMu      sync.RWMutex
	currentPhase Phase
	phaseHistory []PhaseChange
}

// NewCollector returns an empty collector in the init phase.
func NewCollector() *Collector {
	return &Collector{
		hist:         hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		currentPhase: PhaseInit,
	}
}

// Append records one sample. Every request execution appends exactly one
// sample, success or failure; no sample is lost under concurrent append.
func (c *Collector) Append(s Sample) {
	c.mu.Lock()
	c.samples = append(c.samples, s)
	c.mu.Unlock()

	micros := s.Duration.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}
	c.histMu.Lock()
	c.hist.RecordValue(micros)
	c.histMu.Unlock()

	c.total.Add(1)
	if s.Success {
		c.success.Add(1)
	} else {
		c.failed.Add(1)
	}
}

// Count returns the number of appended samples without locking.
func (c *Collector) Count() int64 {
	return c.total.Load()
}

// SuccessCount returns the number of successful samples without locking.
func (c *Collector) SuccessCount() int64 {
	return c.success.Load()
}

// FailedCount returns the number of failed samples without locking.
func (c *Collector) FailedCount() int64 {
	return c.failed.Load()
}

// SuccessRate returns the live success percentage, 0 before any sample.
func (c *Collector) SuccessRate() float64 {
	total := c.total.Load()
	if total == 0 {
		return 0
	}
	return float64(c.success.Load()) / float64(total) * 100
}

// LivePercentiles reads the streaming latency view from the histogram.
func (c *Collector) LivePercentiles() Percentiles {
	c.histMu.Lock()
	defer c.histMu.Unlock()

	if c.hist.TotalCount() == 0 {
		return Percentiles{}
	}
	return Percentiles{
		Min: time.Duration(c.hist.Min()) * time.Microsecond,
		Max: time.Duration(c.hist.Max()) * time.Microsecond,
		P50: time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond,
		P90: time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond,
		P95: time.Duration(c.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99: time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond,
	}
}

// SetPhase records a phase transition. Setting the current phase again is
// a no-op.
func (c *Collector) SetPhase(phase Phase) {
	c.phaseMu.Lock()
	defer c.phaseMu.Unlock()

	if c.currentPhase == phase {
		return
	}
	c.currentPhase = phase
	c.phaseHistory = append(c.phaseHistory, PhaseChange{
		Phase:    phase,
		At:       time.Now(),
		Requests: c.total.Load(),
	})
}

// CurrentPhase returns the phase last set.
func (c *Collector) CurrentPhase() Phase {
	c.phaseMu.RLock()
	defer c.phaseMu.RUnlock()
	return c.currentPhase
}

// PhaseHistory returns a copy of all recorded transitions in order.
func (c *Collector) PhaseHistory() []PhaseChange {
	c.phaseMu.RLock()
	defer c.phaseMu.RUnlock()

	history := make([]PhaseChange, len(c.phaseHistory))
	copy(history, c.phaseHistory)
	return history
}

// SetActiveWorkers updates the live worker gauge.
func (c *Collector) SetActiveWorkers(n int) {
	c.activeWorkers.Store(int32(n))
}

// ActiveWorkers returns the live worker gauge.
func (c *Collector) ActiveWorkers() int {
	return int(c.activeWorkers.Load())
}
