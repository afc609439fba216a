package protocol

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

var (
	// ErrUnknownProtocol is returned when no executor is registered for a
	// requested protocol.
	ErrUnknownProtocol = errors.New("no executor registered for protocol")

	// ErrDuplicateProtocol is returned when a protocol is registered twice.
	ErrDuplicateProtocol = errors.New("executor already registered for protocol")
)

// Registry maps protocol identifiers to their single executor. It is
// populated during setup; the engine resolves each request's executor once,
// before any worker starts.
type Registry struct {
	mu        sync.RWMutex
	executors map[scenario.Protocol]Executor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[scenario.Protocol]Executor),
	}
}

// Register files an executor under its protocol. Registering a protocol
// twice is an error.
func (r *Registry) Register(e Executor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := e.Protocol()
	if _, exists := r.executors[p]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProtocol, p)
	}
	r.executors[p] = e
	return nil
}

// MustRegister is Register but panics on error. Meant for static setup
// where a duplicate is a programming mistake.
func (r *Registry) MustRegister(e Executor) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Lookup returns the executor for a protocol.
func (r *Registry) Lookup(p scenario.Protocol) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.executors[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, p)
	}
	return e, nil
}

// Protocols returns the registered protocol identifiers, sorted.
func (r *Registry) Protocols() []scenario.Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scenario.Protocol, 0, len(r.executors))
	for p := range r.executors {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
