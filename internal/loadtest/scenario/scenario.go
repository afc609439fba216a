// Package scenario defines the typed load-test scenario model: what to
// execute (requests with protocol payloads), how hard (threads, iterations,
// ramp-up, hold) and how to judge it (label rules, success threshold).
//
// Specs are built by the configuration loader or programmatically, validated
// once, and treated as read-only by the execution engine from the moment a
// run starts.
package scenario

import (
	"time"
)

// DefaultSuccessThreshold is the success-rate percentage a scenario must
// reach to pass when no explicit threshold is configured.
const DefaultSuccessThreshold = 100.0

// Spec is a complete, immutable description of one load-test scenario.
type Spec struct {
	// Name identifies the scenario in results and reports.
	Name string `json:"name" yaml:"name"`

	// Threads is the number of concurrent workers (virtual users).
	Threads int `json:"threads" yaml:"threads"`

	// Iterations is the number of iterations each worker runs.
	Iterations int64 `json:"iterations" yaml:"iterations"`

	// RampUp is the window over which worker starts are staggered.
	// Worker i delays its first iteration by i*RampUp/Threads.
	RampUp time.Duration `json:"rampUp,omitempty" yaml:"rampUp,omitempty"`

	// Hold caps each worker's running time, measured from that worker's
	// own first iteration. Zero means no time cap.
	Hold time.Duration `json:"hold,omitempty" yaml:"hold,omitempty"`

	// SuccessThreshold is the minimum success-rate percentage for a PASS
	// verdict. Zero means "not set" and defaults to 100.
	SuccessThreshold float64 `json:"successThreshold,omitempty" yaml:"successThreshold,omitempty"`

	// Thresholds are optional latency gate expressions evaluated against
	// the final metrics, e.g. "p95 < 500ms" or "avg < 200ms".
	Thresholds []string `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`

	// Pacing controls the wait between iterations of one worker.
	Pacing *Pacing `json:"pacing,omitempty" yaml:"pacing,omitempty"`

	// Variables is the scenario-level variable scope.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Requests are executed in order on every iteration.
	Requests []*Request `json:"requests" yaml:"requests"`
}

// Request is one templated request inside a scenario.
type Request struct {
	// Name identifies the request in metrics and results.
	Name string `json:"name" yaml:"name"`

	// Payload carries the protocol-specific template fields.
	Payload Payload `json:"payload" yaml:"payload"`

	// Labels classify responses. Rules are evaluated in declaration order;
	// the first accepting validator assigns its label and marks the sample
	// successful. Without rules, classification falls back to the status
	// code: success iff 200 <= status < 400.
	Labels []LabelRule `json:"labels,omitempty" yaml:"labels,omitempty"`

	// Variables is the request-level variable scope.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// DataSource names the data-row source backing ${...} lookups for this
	// request. Empty means no data rows.
	DataSource string `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`

	// Timeout bounds one execution of this request. Zero falls back to the
	// engine default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// ThinkTime is the pause after this request, skipped after the last
	// request of an iteration.
	ThinkTime time.Duration `json:"thinkTime,omitempty" yaml:"thinkTime,omitempty"`

	// Extract pulls values out of the response into the worker scope for
	// use by subsequent requests of the same worker.
	Extract []ExtractRule `json:"extract,omitempty" yaml:"extract,omitempty"`
}

// LabelRule binds a status label to the validator that decides it.
type LabelRule struct {
	// Label is assigned to samples accepted by Validator.
	Label string `json:"label" yaml:"label"`

	// Validator decides whether a response carries this label.
	Validator ValidatorSpec `json:"validator" yaml:"validator"`
}

// ValidatorKind enumerates the supported response validators.
type ValidatorKind string

const (
	// ValidatorStatus accepts by status code: Value is a single code
	// ("200") or an inclusive range ("200-299").
	ValidatorStatus ValidatorKind = "status"

	// ValidatorContains accepts bodies containing Value as a substring.
	ValidatorContains ValidatorKind = "contains"

	// ValidatorRegex accepts bodies matching the Value pattern.
	ValidatorRegex ValidatorKind = "regex"

	// ValidatorJSONPath accepts bodies where Path exists; with Value set,
	// the value at Path must also equal it.
	ValidatorJSONPath ValidatorKind = "jsonpath"

	// ValidatorJSONSchema accepts bodies validating against the JSON
	// schema document in Value.
	ValidatorJSONSchema ValidatorKind = "jsonschema"
)

// ValidatorSpec declares one response validator. The meaning of Value and
// Path depends on Kind; see the ValidatorKind constants.
type ValidatorSpec struct {
	Kind  ValidatorKind `json:"kind" yaml:"kind"`
	Value string        `json:"value,omitempty" yaml:"value,omitempty"`
	Path  string        `json:"path,omitempty" yaml:"path,omitempty"`
}

// ExtractSource enumerates where an ExtractRule reads from.
type ExtractSource string

const (
	ExtractBody   ExtractSource = "body"
	ExtractHeader ExtractSource = "header"
	ExtractStatus ExtractSource = "status"
)

// ExtractRule captures a response value into a named worker variable.
type ExtractRule struct {
	// Name of the variable to set.
	Name string `json:"name" yaml:"name"`

	// Source is where to read: body, header or status.
	Source ExtractSource `json:"source" yaml:"source"`

	// Path is the JSON path for body extraction or the header name.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// PacingKind enumerates iteration pacing strategies.
type PacingKind string

const (
	PacingNone     PacingKind = "none"
	PacingConstant PacingKind = "constant"
	PacingRandom   PacingKind = "random"
)

// Pacing controls the wait a worker inserts between iterations.
type Pacing struct {
	Kind PacingKind `json:"kind" yaml:"kind"`

	// Duration is the wait for constant pacing.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Min and Max bound the wait for random pacing.
	Min time.Duration `json:"min,omitempty" yaml:"min,omitempty"`
	Max time.Duration `json:"max,omitempty" yaml:"max,omitempty"`
}

// EffectiveThreshold returns the configured success threshold, falling back
// to DefaultSuccessThreshold when unset.
func (s *Spec) EffectiveThreshold() float64 {
	if s.SuccessThreshold <= 0 {
		return DefaultSuccessThreshold
	}
	return s.SuccessThreshold
}

// Validate checks the spec before any worker starts. A non-nil return is a
// configuration error and aborts the run; nothing is executed.
func (s *Spec) Validate() error {
	if s.Name == "" {
		return &ConfigError{Field: "name", Message: "scenario name is required"}
	}
	if s.Threads < 1 {
		return &ConfigError{Field: "threads", Message: "threads must be >= 1"}
	}
	if s.Iterations < 1 {
		return &ConfigError{Field: "iterations", Message: "iterations must be >= 1"}
	}
	if s.RampUp < 0 {
		return &ConfigError{Field: "rampUp", Message: "rampUp must be >= 0"}
	}
	if s.Hold < 0 {
		return &ConfigError{Field: "hold", Message: "hold must be >= 0"}
	}
	if s.SuccessThreshold < 0 || s.SuccessThreshold > 100 {
		return &ConfigError{Field: "successThreshold", Message: "successThreshold must be between 0 and 100"}
	}
	if len(s.Requests) == 0 {
		return &ConfigError{Field: "requests", Message: "at least one request is required"}
	}
	if s.Pacing != nil {
		if err := s.Pacing.validate(); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(s.Requests))
	for i, req := range s.Requests {
		if err := req.validate(); err != nil {
			return prefixConfigError(err, "requests", i)
		}
		if _, dup := seen[req.Name]; dup {
			return &ConfigError{Field: "requests", Message: "duplicate request name " + req.Name}
		}
		seen[req.Name] = struct{}{}
	}
	return nil
}

func (r *Request) validate() error {
	if r.Name == "" {
		return &ConfigError{Field: "name", Message: "request name is required"}
	}
	if r.Payload == nil {
		return &ConfigError{Field: "payload", Message: "request payload is required"}
	}
	if err := r.Payload.validate(); err != nil {
		return err
	}
	if r.Timeout < 0 {
		return &ConfigError{Field: "timeout", Message: "timeout must be >= 0"}
	}
	if r.ThinkTime < 0 {
		return &ConfigError{Field: "thinkTime", Message: "thinkTime must be >= 0"}
	}
	for _, rule := range r.Labels {
		if rule.Label == "" {
			return &ConfigError{Field: "labels", Message: "label name is required"}
		}
		switch rule.Validator.Kind {
		case ValidatorStatus, ValidatorContains, ValidatorRegex, ValidatorJSONPath, ValidatorJSONSchema:
		default:
			return &ConfigError{Field: "labels", Message: "unknown validator kind " + string(rule.Validator.Kind)}
		}
	}
	for _, ex := range r.Extract {
		if ex.Name == "" {
			return &ConfigError{Field: "extract", Message: "extract variable name is required"}
		}
		switch ex.Source {
		case ExtractBody, ExtractHeader, ExtractStatus:
		default:
			return &ConfigError{Field: "extract", Message: "unknown extract source " + string(ex.Source)}
		}
	}
	return nil
}

func (p *Pacing) validate() error {
	switch p.Kind {
	case PacingNone, PacingConstant, PacingRandom:
	default:
		return &ConfigError{Field: "pacing", Message: "unknown pacing kind " + string(p.Kind)}
	}
	if p.Kind == PacingRandom && p.Max < p.Min {
		return &ConfigError{Field: "pacing", Message: "pacing max must be >= min"}
	}
	return nil
}
