package loadtest

import (
	"github.com/volleyhq/volley/internal/loadtest/vars"
)

// ExecutionContext is the immutable variable environment of one request
// execution within a (worker, iteration) pair. The scope chain is ordered
// highest precedence first:
//
//	dynamic functions > extracted > data row > request > scenario > globals
//
// A fresh context is built per request so that values extracted by an
// earlier request of the same iteration are already visible; once built, a
// context never changes.
type ExecutionContext struct {
	// Worker and Iteration identify the execution the context serves.
	Worker    int
	Iteration int64

	scopes []vars.Scope
}

func newExecutionContext(worker int, iteration int64, extracted, row, request, scenarioVars, globals map[string]string) *ExecutionContext {
	snapshot := make(map[string]string, len(extracted))
	for k, v := range extracted {
		snapshot[k] = v
	}

	return &ExecutionContext{
		Worker:    worker,
		Iteration: iteration,
		scopes: []vars.Scope{
			vars.FuncScope{Worker: worker, Iteration: iteration},
			vars.MapScope(snapshot),
			vars.MapScope(row),
			vars.MapScope(request),
			vars.MapScope(scenarioVars),
			vars.MapScope(globals),
		},
	}
}

// Scopes returns the resolution chain, highest precedence first.
func (c *ExecutionContext) Scopes() []vars.Scope {
	return c.scopes
}

// Resolve expands a template within this context.
func (c *ExecutionContext) Resolve(r *vars.Resolver, template string) string {
	return r.Resolve(template, c.scopes...)
}
