package loadtest

import (
	"errors"
	"testing"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		expr       string
		wantMetric string
		wantOp     string
		wantValue  string
		wantErr    bool
	}{
		{expr: "p95 < 500ms", wantMetric: "p95", wantOp: "<", wantValue: "500ms"},
		{expr: "avg<=200ms", wantMetric: "avg", wantOp: "<=", wantValue: "200ms"},
		{expr: "max != 1s", wantMetric: "max", wantOp: "!=", wantValue: "1s"},
		{expr: "  med >= 250ms  ", wantMetric: "med", wantOp: ">=", wantValue: "250ms"},
		{expr: "p99<>2s", wantMetric: "p99", wantOp: "<>", wantValue: "2s"},
		{expr: "p95", wantErr: true},
		{expr: "", wantErr: true},
		{expr: "< 500ms", wantErr: true},
		{expr: "p95 ~ 500ms", wantErr: true},
	}
	for _, tt := range tests {
		metric, op, value, err := parseThreshold(tt.expr)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseThreshold(%q) succeeded, want error", tt.expr)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseThreshold(%q) error: %v", tt.expr, err)
			continue
		}
		if metric != tt.wantMetric || op != tt.wantOp || value != tt.wantValue {
			t.Errorf("parseThreshold(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.expr, metric, op, value, tt.wantMetric, tt.wantOp, tt.wantValue)
		}
	}
}

func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		exprs   []string
		wantErr bool
	}{
		{name: "empty", exprs: nil},
		{name: "every metric", exprs: []string{
			"min > 0s", "max < 10s", "avg < 1s", "med < 1s",
			"p50 < 1s", "p90 < 2s", "p95 < 3s", "p99 < 5s",
		}},
		{name: "malformed expression", exprs: []string{"p95"}, wantErr: true},
		{name: "unknown metric", exprs: []string{"p42 < 1s"}, wantErr: true},
		{name: "unknown operator", exprs: []string{"p95 !< 1s"}, wantErr: true},
		{name: "bare number value", exprs: []string{"p95 < 500"}, wantErr: true},
		{name: "non-duration value", exprs: []string{"p95 < fast"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateThresholds(tt.exprs)
			if tt.wantErr {
				var ce *scenario.ConfigError
				if !errors.As(err, &ce) {
					t.Fatalf("validateThresholds() error = %v, want *scenario.ConfigError", err)
				}
				return
			}
			if err != nil {
				t.Errorf("validateThresholds() error: %v", err)
			}
		})
	}
}

func TestValidateThresholdsNamesIndex(t *testing.T) {
	err := validateThresholds([]string{"p95 < 1s", "p42 < 1s"})
	var ce *scenario.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("validateThresholds() error = %T, want *scenario.ConfigError", err)
	}
	if want := "thresholds[1]"; ce.Field != want {
		t.Errorf("ConfigError.Field = %q, want %q", ce.Field, want)
	}
}

func TestEvaluateThresholds(t *testing.T) {
	snap := &metrics.Snapshot{
		Min:  10 * time.Millisecond,
		Mean: 20 * time.Millisecond,
		Max:  100 * time.Millisecond,
		P50:  15 * time.Millisecond,
		P90:  50 * time.Millisecond,
		P95:  80 * time.Millisecond,
		P99:  95 * time.Millisecond,
	}

	tests := []struct {
		expr       string
		wantPassed bool
	}{
		{"p95 < 100ms", true},
		{"p95 < 50ms", false},
		{"p95 <= 80ms", true},
		{"avg >= 20ms", true},
		{"avg > 20ms", false},
		{"med < 16ms", true},
		{"p50 < 16ms", true},
		{"max == 100ms", true},
		{"max = 100ms", true},
		{"min != 10ms", false},
		{"min <> 5ms", true},
		{"p90 > 10ms", true},
		{"p99 < 90ms", false},
	}
	for _, tt := range tests {
		got := evaluateThreshold(tt.expr, snap)
		if got.Passed != tt.wantPassed {
			t.Errorf("evaluateThreshold(%q).Passed = %t, want %t", tt.expr, got.Passed, tt.wantPassed)
		}
		if got.Expression != tt.expr {
			t.Errorf("evaluateThreshold(%q).Expression = %q", tt.expr, got.Expression)
		}
		if !got.Passed && got.Message == "" {
			t.Errorf("evaluateThreshold(%q) failed without a message", tt.expr)
		}
		if got.Passed && got.Message != "" {
			t.Errorf("evaluateThreshold(%q).Message = %q, want empty on pass", tt.expr, got.Message)
		}
	}
}

func TestEvaluateThresholdReportsObserved(t *testing.T) {
	snap := &metrics.Snapshot{P95: 80 * time.Millisecond}

	got := evaluateThreshold("p95 < 50ms", snap)
	if got.Metric != "p95" {
		t.Errorf("Metric = %q, want p95", got.Metric)
	}
	if got.Value != "80ms" {
		t.Errorf("Value = %q, want 80ms", got.Value)
	}
}

func TestEvaluateThresholdsOrderAndNil(t *testing.T) {
	snap := &metrics.Snapshot{Max: 100 * time.Millisecond, P50: 10 * time.Millisecond}

	if got := evaluateThresholds(nil, snap); got != nil {
		t.Errorf("evaluateThresholds(nil) = %v, want nil", got)
	}

	results := evaluateThresholds([]string{"max < 1s", "p50 > 1s"}, snap)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if !results[0].Passed || results[1].Passed {
		t.Errorf("results = [%t, %t], want [true, false]", results[0].Passed, results[1].Passed)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		actual    float64
		op        string
		threshold float64
		want      bool
	}{
		{1, "<", 2, true},
		{2, "<", 2, false},
		{2, "<=", 2, true},
		{3, ">", 2, true},
		{2, ">", 2, false},
		{2, ">=", 2, true},
		{2, "==", 2, true},
		{2, "=", 2, true},
		{2, "!=", 2, false},
		{1, "!=", 2, true},
		{1, "<>", 2, true},
		{2, "bogus", 2, false},
	}
	for _, tt := range tests {
		if got := compareValues(tt.actual, tt.op, tt.threshold); got != tt.want {
			t.Errorf("compareValues(%v, %q, %v) = %t, want %t", tt.actual, tt.op, tt.threshold, got, tt.want)
		}
	}
}
