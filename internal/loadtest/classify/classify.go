// Package classify turns protocol responses into labeled outcomes using the
// declarative label rules of a request. Rules compile once at setup, so
// malformed patterns and schemas surface as configuration errors before any
// worker starts instead of per response.
package classify

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
	"github.com/volleyhq/volley/pkg/jsonpath"
	"github.com/volleyhq/volley/pkg/jsonschema"
)

// Labels assigned when no rule decides otherwise.
const (
	LabelOK     = "OK"
	LabelFailed = "Failed"
)

// Outcome is the classification of one response.
type Outcome struct {
	// Label names the bucket the response falls into; it is carried into
	// the per-request result.
	Label string

	// Success marks the sample as passed or failed.
	Success bool
}

// Classifier evaluates a request's compiled label rules. The zero-rule
// classifier falls back to the status rule. Safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

type compiledRule struct {
	label  string
	accept func(*protocol.Response) bool
}

// Compile builds a Classifier from declarative label rules. Patterns,
// ranges and schemas are compiled here; a bad one returns a ConfigError
// naming the offending rule.
func Compile(rules []scenario.LabelRule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		accept, err := compileValidator(rule.Validator)
		if err != nil {
			return nil, &scenario.ConfigError{
				Field:   fmt.Sprintf("labels[%d]", i),
				Message: err.Error(),
			}
		}
		c.rules = append(c.rules, compiledRule{label: rule.Label, accept: accept})
	}
	return c, nil
}

// Classify assigns a label and success flag to resp.
//
// Rules run in declaration order; the first accepting validator wins and
// marks the sample successful. With rules configured but none accepting,
// the outcome is the failure label. Without any rules the status code
// decides: success iff 200 <= status < 400.
func (c *Classifier) Classify(resp *protocol.Response) Outcome {
	if len(c.rules) == 0 {
		if resp.Err == nil && protocol.StatusSuccess(resp.StatusCode) {
			return Outcome{Label: LabelOK, Success: true}
		}
		return Outcome{Label: LabelFailed, Success: false}
	}
	for _, rule := range c.rules {
		if rule.accept(resp) {
			return Outcome{Label: rule.label, Success: true}
		}
	}
	return Outcome{Label: LabelFailed, Success: false}
}

func compileValidator(spec scenario.ValidatorSpec) (func(*protocol.Response) bool, error) {
	switch spec.Kind {
	case scenario.ValidatorStatus:
		lo, hi, err := parseStatusRange(spec.Value)
		if err != nil {
			return nil, err
		}
		return func(resp *protocol.Response) bool {
			return resp.StatusCode >= lo && resp.StatusCode <= hi
		}, nil

	case scenario.ValidatorContains:
		if spec.Value == "" {
			return nil, errors.New("contains validator requires a value")
		}
		needle := spec.Value
		return func(resp *protocol.Response) bool {
			return strings.Contains(string(resp.Body), needle)
		}, nil

	case scenario.ValidatorRegex:
		re, err := regexp.Compile(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", spec.Value, err)
		}
		return func(resp *protocol.Response) bool {
			return re.Match(resp.Body)
		}, nil

	case scenario.ValidatorJSONPath:
		if spec.Path == "" {
			return nil, errors.New("jsonpath validator requires a path")
		}
		path, want := spec.Path, spec.Value
		return func(resp *protocol.Response) bool {
			value, ok := jsonpath.Lookup(string(resp.Body), path)
			if !ok {
				return false
			}
			return want == "" || value == want
		}, nil

	case scenario.ValidatorJSONSchema:
		schema, err := jsonschema.Compile(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		return func(resp *protocol.Response) bool {
			return schema.Valid(resp.Body)
		}, nil

	default:
		return nil, fmt.Errorf("unknown validator kind %q", spec.Kind)
	}
}

// parseStatusRange parses a status validator value: a single code ("200")
// or an inclusive range ("200-299").
func parseStatusRange(value string) (int, int, error) {
	if value == "" {
		return 0, 0, errors.New("status validator requires a value")
	}
	if lo, hi, ok := strings.Cut(value, "-"); ok {
		low, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid status range %q", value)
		}
		high, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid status range %q", value)
		}
		if high < low {
			return 0, 0, fmt.Errorf("invalid status range %q: upper bound below lower", value)
		}
		return low, high, nil
	}
	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid status code %q", value)
	}
	return code, code, nil
}
