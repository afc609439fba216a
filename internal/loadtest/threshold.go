package loadtest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// ThresholdResult is the evaluation of one latency gate expression against
// the final snapshot. A failed gate is an ordinary reportable outcome, not
// an error.
type ThresholdResult struct {
	Expression string `json:"expression"`
	Metric     string `json:"metric"`
	Value      string `json:"value"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message,omitempty"`
}

// thresholdPattern splits expressions like "p95 < 500ms" or "avg<=200ms".
var thresholdPattern = regexp.MustCompile(`^(\w+)\s*([<>=!]+)\s*(.+)$`)

// parseThreshold splits a gate expression into metric, operator and value.
func parseThreshold(expr string) (metric, op, value string, err error) {
	matches := thresholdPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if len(matches) != 4 {
		return "", "", "", fmt.Errorf("invalid threshold expression %q", expr)
	}
	return matches[1], matches[2], strings.TrimSpace(matches[3]), nil
}

// validateThresholds rejects malformed gate expressions before any worker
// starts; evaluation after the run can then only fail on the comparison.
func validateThresholds(exprs []string) error {
	for i, expr := range exprs {
		metric, op, value, err := parseThreshold(expr)
		if err != nil {
			return &scenario.ConfigError{
				Field:   fmt.Sprintf("thresholds[%d]", i),
				Message: err.Error(),
			}
		}
		if _, ok := thresholdMetric(metric, &metrics.Snapshot{}); !ok {
			return &scenario.ConfigError{
				Field:   fmt.Sprintf("thresholds[%d]", i),
				Message: fmt.Sprintf("unknown threshold metric %q", metric),
			}
		}
		if !validOp(op) {
			return &scenario.ConfigError{
				Field:   fmt.Sprintf("thresholds[%d]", i),
				Message: fmt.Sprintf("unknown threshold operator %q", op),
			}
		}
		if _, err := time.ParseDuration(value); err != nil {
			return &scenario.ConfigError{
				Field:   fmt.Sprintf("thresholds[%d]", i),
				Message: fmt.Sprintf("invalid threshold duration %q", value),
			}
		}
	}
	return nil
}

// thresholdMetric reads the named latency statistic from a snapshot.
func thresholdMetric(name string, snap *metrics.Snapshot) (time.Duration, bool) {
	switch name {
	case "min":
		return snap.Min, true
	case "max":
		return snap.Max, true
	case "avg":
		return snap.Mean, true
	case "med", "p50":
		return snap.P50, true
	case "p90":
		return snap.P90, true
	case "p95":
		return snap.P95, true
	case "p99":
		return snap.P99, true
	}
	return 0, false
}

// evaluateThresholds evaluates every gate expression against the final
// snapshot, in declaration order.
func evaluateThresholds(exprs []string, snap *metrics.Snapshot) []ThresholdResult {
	if len(exprs) == 0 {
		return nil
	}
	results := make([]ThresholdResult, 0, len(exprs))
	for _, expr := range exprs {
		results = append(results, evaluateThreshold(expr, snap))
	}
	return results
}

func evaluateThreshold(expr string, snap *metrics.Snapshot) ThresholdResult {
	result := ThresholdResult{Expression: expr}

	metric, op, valueStr, err := parseThreshold(expr)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Metric = metric

	actual, ok := thresholdMetric(metric, snap)
	if !ok {
		result.Message = fmt.Sprintf("unknown threshold metric %q", metric)
		return result
	}
	want, err := time.ParseDuration(valueStr)
	if err != nil {
		result.Message = fmt.Sprintf("invalid threshold duration %q", valueStr)
		return result
	}

	result.Value = actual.String()
	result.Passed = compareValues(float64(actual), op, float64(want))
	if !result.Passed {
		result.Message = fmt.Sprintf("%s is %s, want %s %s", metric, actual, op, want)
	}
	return result
}

func validOp(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==", "=", "!=", "<>":
		return true
	}
	return false
}

// compareValues applies op between the observed and configured values.
func compareValues(actual float64, op string, threshold float64) bool {
	switch op {
	case "<":
		return actual < threshold
	case "<=":
		return actual <= threshold
	case ">":
		return actual > threshold
	case ">=":
		return actual >= threshold
	case "==", "=":
		return actual == threshold
	case "!=", "<>":
		return actual != threshold
	default:
		return false
	}
}
