package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/volleyhq/volley/internal/loadtest"
)

// htmlData is the template context for the HTML report.
type htmlData struct {
	*loadtest.Result
	Generated time.Time
}

// WriteHTML renders the HTML report for a run and writes it to a file.
func WriteHTML(res *loadtest.Result, outputPath string) error {
	html, err := HTMLString(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("write HTML file: %w", err)
	}
	return nil
}

// HTMLString renders the HTML report for a run. The output is fully
// self-contained: inline styles, no external scripts.
func HTMLString(res *loadtest.Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("parse report template: %w", err)
	}

	data := htmlData{
		Result:    res,
		Generated: time.Now(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": formatDuration,
		"formatLatency":  formatLatency,
		"formatNumber":   formatNumber,
		"rateClass":      rateClass,
	}
}

// formatLatency formats a latency with precision scaled to its magnitude.
func formatLatency(d time.Duration) string {
	if d == 0 {
		return "0"
	}
	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
	if d < time.Millisecond {
		us := float64(d.Microseconds())
		if us < 100 {
			return fmt.Sprintf("%.1fµs", us)
		}
		return fmt.Sprintf("%dµs", int(us))
	}
	if d < time.Second {
		ms := float64(d.Microseconds()) / 1000.0
		if ms < 10 {
			return fmt.Sprintf("%.2fms", ms)
		}
		if ms < 100 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	}
	s := d.Seconds()
	if s < 10 {
		return fmt.Sprintf("%.2fs", s)
	}
	return fmt.Sprintf("%.1fs", s)
}

// rateClass picks the badge class for a success-rate percentage.
func rateClass(rate float64) string {
	switch {
	case rate >= 99:
		return "ok"
	case rate >= 95:
		return "warn"
	default:
		return "fail"
	}
}
