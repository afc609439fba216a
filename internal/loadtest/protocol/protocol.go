// Package protocol defines the boundary between the execution engine and
// concrete protocol senders: the resolved request an executor receives, the
// response it returns, and the registry the engine resolves executors from.
package protocol

import (
	"context"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// ResolvedRequest is one fully resolved request execution. Every template
// field has been substituted before an executor sees it.
type ResolvedRequest struct {
	// Name is the request name from the scenario.
	Name string

	// Payload carries the resolved protocol-specific fields.
	Payload scenario.Payload

	// Worker and Iteration identify the execution for result metadata.
	Worker    int
	Iteration int64
}

// Timing breaks a request's wall time into connection phases. Executors
// that cannot observe phases leave it nil.
type Timing struct {
	// DNS is the name-resolution time.
	DNS time.Duration `json:"dns"`

	// Connect is the TCP connect time.
	Connect time.Duration `json:"connect"`

	// TLS is the TLS handshake time.
	TLS time.Duration `json:"tls"`

	// TTFB is the time from request start to the first response byte.
	TTFB time.Duration `json:"ttfb"`
}

// Response is the outcome of one request execution.
//
// Ordinary failures -- timeouts, connection errors, error statuses -- are
// conveyed as Success=false with Err populated, never as a Go error from
// Execute. Only catastrophic failures surface as errors, and the engine
// absorbs those into failed samples as well.
type Response struct {
	// StatusCode is the protocol status (HTTP status, or a synthesized
	// code for protocols without one).
	StatusCode int

	// Body is the raw response body.
	Body []byte

	// Headers are the response headers, single-valued.
	Headers map[string]string

	// Elapsed is the wall time of the execution.
	Elapsed time.Duration

	// Success reflects the default status rule; classification rules may
	// override it downstream.
	Success bool

	// Err describes the failure when Success is false for a transport
	// reason.
	Err error

	// Timing is the phase breakdown, when the executor can observe it.
	Timing *Timing
}

// Executor executes resolved requests for exactly one protocol.
//
// Implementations must not return errors for ordinary request failures;
// those are Responses with Success=false. The per-call timeout bounds the
// whole execution; ctx carries engine-level cancellation.
type Executor interface {
	// Protocol returns the identifier the registry files this executor
	// under.
	Protocol() scenario.Protocol

	// Execute performs the request and reports its outcome.
	Execute(ctx context.Context, req *ResolvedRequest, timeout time.Duration) (*Response, error)
}

// StatusSuccess is the default status rule: a response succeeds iff its
// status code is in [200,400).
func StatusSuccess(code int) bool {
	return code >= 200 && code < 400
}
