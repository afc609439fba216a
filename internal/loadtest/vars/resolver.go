// Package vars implements placeholder resolution for request templates.
//
// Templates reference variables as ${name} or ${function(args)}. Resolution
// walks the template exactly once, left to right; a substituted value is
// never re-scanned, so template syntax inside resolved values stays literal
// and expansion cannot recurse.
package vars

import (
	"io"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// placeholderPattern matches variable references like ${name} or ${fn(a,b)}.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Scope is one variable namespace consulted during resolution.
type Scope interface {
	// Lookup returns the value bound to ref and whether ref is bound.
	Lookup(ref string) (string, bool)
}

// MapScope adapts a plain string map into a Scope.
type MapScope map[string]string

// Lookup implements Scope.
func (m MapScope) Lookup(ref string) (string, bool) {
	v, ok := m[ref]
	return v, ok
}

// Merge flattens maps into a single MapScope. Maps are given lowest
// precedence first: a key in a later map overrides the same key in an
// earlier one. Nil maps are skipped.
func Merge(maps ...map[string]string) MapScope {
	out := make(MapScope)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Resolver substitutes placeholders from an ordered scope chain.
//
// Resolver is safe for concurrent use; workers share one instance.
type Resolver struct {
	logger logrus.FieldLogger

	// gaps counts placeholders that no scope could resolve.
	gaps atomic.Int64
}

// NewResolver creates a resolver. Unresolved placeholders are logged through
// logger; a nil logger discards them.
func NewResolver(logger logrus.FieldLogger) *Resolver {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Resolver{logger: logger}
}

// Resolve substitutes every ${...} placeholder in template. Scopes are
// consulted in the order given, highest precedence first; the first scope
// that binds the reference wins. An unbound reference is replaced by the
// empty string, counted and logged, and execution continues.
//
// Resolution is a single pass: values substituted into the output are not
// scanned again, so a value containing "${x}", "$" or "\" comes through
// verbatim.
func (r *Resolver) Resolve(template string, scopes ...Scope) string {
	if template == "" || !strings.Contains(template, "${") {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		ref := match[2 : len(match)-1]
		for _, scope := range scopes {
			if scope == nil {
				continue
			}
			if v, ok := scope.Lookup(ref); ok {
				return v
			}
		}

		r.gaps.Add(1)
		r.logger.WithFields(logrus.Fields{
			"placeholder": ref,
		}).Warn("unresolved placeholder, substituting empty string")
		return ""
	})
}

// Gaps returns how many placeholders resolved to nothing so far.
func (r *Resolver) Gaps() int64 {
	return r.gaps.Load()
}
