package vars

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// callPattern matches function-style references like randomInt(1,10).
var callPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// FuncScope implements the dynamic variables. It sits at the top of the
// precedence chain and its values are computed fresh on every lookup --
// resolving the same template twice may legitimately differ.
//
// Supported references:
//
//	iteration          zero-based iteration index of the current worker
//	threadId           zero-based worker id
//	timestamp          current wall clock, Unix milliseconds
//	uuid               random UUID v4
//	randomInt(min,max) uniform integer in [min,max]
type FuncScope struct {
	// Worker is the id reported by threadId.
	Worker int

	// Iteration is the index reported by iteration.
	Iteration int64
}

// Lookup implements Scope.
func (f FuncScope) Lookup(ref string) (string, bool) {
	switch ref {
	case "iteration":
		return strconv.FormatInt(f.Iteration, 10), true
	case "threadId":
		return strconv.Itoa(f.Worker), true
	case "timestamp":
		return strconv.FormatInt(time.Now().UnixMilli(), 10), true
	case "uuid":
		return uuid.NewString(), true
	}

	if name, args, ok := parseCall(ref); ok && name == "randomInt" {
		return randomInt(args)
	}
	return "", false
}

// parseCall splits a function-style reference into name and raw arguments.
func parseCall(ref string) (name string, args []string, ok bool) {
	m := callPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", nil, false
	}
	name = m[1]
	if m[2] != "" {
		args = strings.Split(m[2], ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
	}
	return name, args, true
}

// randomInt draws a uniform integer from the inclusive [min,max] range.
// Malformed arguments report not-found so the caller treats the reference
// as an ordinary resolution gap.
func randomInt(args []string) (string, bool) {
	if len(args) != 2 {
		return "", false
	}
	min, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "", false
	}
	max, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", false
	}
	if max < min {
		return "", false
	}
	return strconv.FormatInt(min+rand.Int63n(max-min+1), 10), true
}
