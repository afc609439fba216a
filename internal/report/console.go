// Package report renders run outcomes: a colored console summary with a
// live progress display, JMeter-interchange JTL rows, and a self-contained
// HTML report. It consumes results; it never produces them.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/volleyhq/volley/internal/loadtest"
	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// Cursor control for live redraw. Colors go through fatih/color; cursor
// movement has no equivalent there.
const (
	cursorUp  = "\033[%dA"
	clearLine = "\033[2K\r"
)

// Box drawing characters for the live stats panel.
const (
	boxTopLeft     = "┌"
	boxTopRight    = "┐"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxHorizontal  = "─"
	boxVertical    = "│"

	progressFilled = "█"
	progressEmpty  = "░"
)

// palette groups the color styles the console uses. Styles are forced on
// or off at construction so rendering does not depend on the environment
// fatih/color detects at import time.
type palette struct {
	banner *color.Color
	bold   *color.Color
	dim    *color.Color
	value  *color.Color
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
	phase  *color.Color
	rate   *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		banner: color.New(color.FgCyan),
		bold:   color.New(color.Bold),
		dim:    color.New(color.Faint),
		value:  color.New(color.FgCyan),
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
		phase:  color.New(color.FgMagenta),
		rate:   color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.banner, p.bold, p.dim, p.value, p.ok, p.warn, p.fail, p.phase, p.rate} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// LiveStats is one frame of the live progress display.
type LiveStats struct {
	Progress      float64
	Elapsed       time.Duration
	Phase         string
	ActiveWorkers int
	TargetWorkers int
	Count         int64
	Failed        int64
	ErrorRate     float64
	RPS           float64
	LatencyP95    time.Duration
	LatencyP50    time.Duration
}

// StatsFromCollector builds a display frame from the collector's live view.
// Progress is wall-clock based when the scenario holds for a duration and
// sample-count based otherwise.
func StatsFromCollector(c *metrics.Collector, spec *scenario.Spec, elapsed time.Duration) *LiveStats {
	stats := &LiveStats{
		Elapsed:       elapsed,
		TargetWorkers: int(spec.Threads),
	}
	if c == nil {
		stats.Phase = string(metrics.PhaseInit)
		return stats
	}

	count := c.Count()
	failed := c.FailedCount()
	live := c.LivePercentiles()

	stats.Phase = string(c.CurrentPhase())
	stats.ActiveWorkers = c.ActiveWorkers()
	stats.Count = count
	stats.Failed = failed
	stats.LatencyP95 = live.P95
	stats.LatencyP50 = live.P50
	if count > 0 {
		stats.ErrorRate = float64(failed) / float64(count)
	}
	if elapsed > 0 {
		stats.RPS = float64(count) / elapsed.Seconds()
	}

	if spec.Hold > 0 {
		total := spec.RampUp + spec.Hold
		if total > 0 {
			stats.Progress = float64(elapsed) / float64(total)
		}
	} else {
		expected := spec.Threads * spec.Iterations * int64(len(spec.Requests))
		if expected > 0 {
			stats.Progress = float64(count) / float64(expected)
		}
	}
	if stats.Progress < 0 {
		stats.Progress = 0
	}
	if stats.Progress > 1 {
		stats.Progress = 1
	}
	return stats
}

// Console renders scenario progress and the final summary to a terminal
// or any writer. When the writer is a TTY the progress display redraws in
// place; otherwise callers should use PrintProgress for line-per-update
// output.
type Console struct {
	writer io.Writer
	isTTY  bool
	colors *palette
	quiet  bool

	mu         sync.Mutex
	linesDrawn int
}

// ConsoleConfig configures a Console.
type ConsoleConfig struct {
	Writer      io.Writer
	Quiet       bool
	ForceColors bool
	ForceTTY    bool
}

// NewConsole creates a console renderer. The writer defaults to stdout.
func NewConsole(cfg ConsoleConfig) *Console {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	isTTY := cfg.ForceTTY || isTerminal(cfg.Writer)
	useColors := cfg.ForceColors || (isTTY && supportsColors())

	return &Console{
		writer: cfg.Writer,
		isTTY:  isTTY,
		colors: newPalette(useColors),
		quiet:  cfg.Quiet,
	}
}

// IsTTY reports whether the output is a terminal.
func (c *Console) IsTTY() bool {
	return c.isTTY
}

// PrintHeader prints the scenario banner before workers start.
func (c *Console) PrintHeader(spec *scenario.Spec) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := strings.Repeat(boxHorizontal, 56)
	c.writeln(c.colors.banner.Sprint(line))
	c.writeln(c.colors.bold.Sprintf("%s - Running", spec.Name))
	c.writeln(c.colors.banner.Sprint(line))

	timing := fmt.Sprintf("%d workers × %d iterations", spec.Threads, spec.Iterations)
	if spec.RampUp > 0 {
		timing += fmt.Sprintf(", ramp-up %s", formatDuration(spec.RampUp))
	}
	if spec.Hold > 0 {
		timing += fmt.Sprintf(", hold %s", formatDuration(spec.Hold))
	}
	c.writeln(c.colors.dim.Sprint(timing))
	c.writeln("")
}

// Update redraws the live progress display. No-op when quiet or when the
// writer is not a terminal.
func (c *Console) Update(stats *LiveStats) {
	if c.quiet || !c.isTTY {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLive()

	lines := c.renderLiveStats(stats)
	c.linesDrawn = len(lines)
	for _, line := range lines {
		c.writeln(line)
	}
}

// PrintProgress prints a one-line status update for non-TTY output.
func (c *Console) PrintProgress(stats *LiveStats) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeln(fmt.Sprintf("[%s] %s | workers: %d/%d | samples: %d | rps: %.1f | errors: %d (%.1f%%) | p95: %s",
		formatDuration(stats.Elapsed),
		stats.Phase,
		stats.ActiveWorkers,
		stats.TargetWorkers,
		stats.Count,
		stats.RPS,
		stats.Failed,
		stats.ErrorRate*100,
		formatDurationShort(stats.LatencyP95)))
}

// clearLive erases the previously drawn live display. Callers hold c.mu.
func (c *Console) clearLive() {
	if c.linesDrawn == 0 {
		return
	}
	c.write(fmt.Sprintf(cursorUp, c.linesDrawn))
	for i := 0; i < c.linesDrawn; i++ {
		c.write(clearLine + "\n")
	}
	c.write(fmt.Sprintf(cursorUp, c.linesDrawn))
	c.linesDrawn = 0
}

func (c *Console) renderLiveStats(stats *LiveStats) []string {
	var lines []string

	bar := renderProgressBar(stats.Progress, 40)
	percent := fmt.Sprintf("%.0f%%", stats.Progress*100)
	lines = append(lines, fmt.Sprintf("Progress: %s %s %s",
		c.colors.ok.Sprint(bar),
		c.colors.bold.Sprint(percent),
		c.colors.dim.Sprint(formatDuration(stats.Elapsed))))
	lines = append(lines, fmt.Sprintf("Phase:    %s", c.colors.phase.Sprint(stats.Phase)))
	lines = append(lines, "")

	boxWidth := 55
	lines = append(lines, c.colors.dim.Sprint(boxTopLeft+strings.Repeat(boxHorizontal, boxWidth-2)+boxTopRight))

	workers := fmt.Sprintf("Workers: %s / %d",
		c.colors.value.Sprintf("%d", stats.ActiveWorkers), stats.TargetWorkers)
	samples := fmt.Sprintf("Samples:     %s", c.colors.value.Sprint(formatNumber(stats.Count)))
	lines = append(lines, c.formatBoxRow(workers, samples, boxWidth))

	rps := fmt.Sprintf("RPS:     %s", c.colors.ok.Sprintf("%.1f", stats.RPS))
	errStyle := c.colors.ok
	if stats.ErrorRate > 0.01 {
		errStyle = c.colors.warn
	}
	if stats.ErrorRate > 0.05 {
		errStyle = c.colors.fail
	}
	errors := fmt.Sprintf("Errors:      %s (%s)",
		errStyle.Sprintf("%d", stats.Failed),
		errStyle.Sprintf("%.1f%%", stats.ErrorRate*100))
	lines = append(lines, c.formatBoxRow(rps, errors, boxWidth))

	p95 := fmt.Sprintf("P95:     %s", c.colors.rate.Sprint(formatDurationShort(stats.LatencyP95)))
	p50 := fmt.Sprintf("P50:         %s", c.colors.rate.Sprint(formatDurationShort(stats.LatencyP50)))
	lines = append(lines, c.formatBoxRow(p95, p50, boxWidth))

	lines = append(lines, c.colors.dim.Sprint(boxBottomLeft+strings.Repeat(boxHorizontal, boxWidth-2)+boxBottomRight))

	return lines
}

// formatBoxRow lays out two columns inside the stats box. Padding is
// computed on the visible text, not the color escapes.
func (c *Console) formatBoxRow(left, right string, boxWidth int) string {
	leftVisible := stripANSI(left)
	rightVisible := stripANSI(right)

	colWidth := (boxWidth - 4) / 2

	leftPad := colWidth - len([]rune(leftVisible))
	if leftPad < 0 {
		leftPad = 0
	}
	rightPad := colWidth - len([]rune(rightVisible))
	if rightPad < 0 {
		rightPad = 0
	}

	return fmt.Sprintf("%s %s%s%s %s%s %s",
		c.colors.dim.Sprint(boxVertical),
		left, strings.Repeat(" ", leftPad),
		c.colors.dim.Sprint(boxVertical),
		right, strings.Repeat(" ", rightPad),
		c.colors.dim.Sprint(boxVertical))
}

func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	empty := width - filled

	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, empty) + "]"
}

// PrintSummary prints the final run summary. In quiet mode only the
// verdict is printed.
func (c *Console) PrintSummary(res *loadtest.Result) {
	if c.quiet {
		if res.Passed {
			c.writeln(c.colors.ok.Sprint("PASSED"))
		} else {
			c.writeln(c.colors.fail.Sprint("FAILED"))
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isTTY {
		c.clearLive()
	}

	line := strings.Repeat(boxHorizontal, 56)
	status := "Passed ✓"
	statusStyle := c.colors.ok
	if !res.Passed {
		status = "Failed ✗"
		statusStyle = c.colors.fail
	}

	c.writeln("")
	c.writeln(c.colors.banner.Sprint(line))
	c.writeln(fmt.Sprintf("%s - %s",
		c.colors.bold.Sprint(res.Scenario),
		statusStyle.Sprint(status)))
	c.writeln(c.colors.banner.Sprint(line))
	c.writeln("")

	c.writeln(fmt.Sprintf("Duration:      %s", c.colors.value.Sprint(formatDuration(res.Duration))))

	snap := res.Snapshot
	if snap != nil {
		c.writeln(fmt.Sprintf("Samples:       %s", c.colors.value.Sprint(formatNumber(snap.Count))))

		rateStyle := c.colors.ok
		if snap.SuccessRate < 99 {
			rateStyle = c.colors.warn
		}
		if snap.SuccessRate < 95 {
			rateStyle = c.colors.fail
		}
		c.writeln(fmt.Sprintf("Success Rate:  %s %s",
			rateStyle.Sprintf("%.1f%%", snap.SuccessRate),
			c.colors.dim.Sprintf("(required %.1f%%)", res.SuccessThreshold)))
	}
	if res.ResolutionGaps > 0 {
		c.writeln(fmt.Sprintf("Unbound Vars:  %s", c.colors.warn.Sprint(formatNumber(res.ResolutionGaps))))
	}
	c.writeln("")

	if snap != nil && snap.Count > 0 {
		c.writeln(c.colors.bold.Sprint("Latency Distribution:"))
		c.writeln(fmt.Sprintf("  Min:       %s", formatDurationShort(snap.Min)))
		c.writeln(fmt.Sprintf("  P50:       %s", formatDurationShort(snap.P50)))
		c.writeln(fmt.Sprintf("  P90:       %s", formatDurationShort(snap.P90)))
		c.writeln(fmt.Sprintf("  P95:       %s", formatDurationShort(snap.P95)))
		c.writeln(fmt.Sprintf("  P99:       %s", formatDurationShort(snap.P99)))
		c.writeln(fmt.Sprintf("  Max:       %s", formatDurationShort(snap.Max)))
		c.writeln(fmt.Sprintf("  Mean:      %s", formatDurationShort(snap.Mean)))
		c.writeln("")
	}

	if snap != nil && len(snap.PerRequest) > 1 {
		c.printRequestTable(snap)
	}

	if len(res.Thresholds) > 0 {
		c.writeln(c.colors.bold.Sprint("Thresholds:"))
		for _, t := range res.Thresholds {
			icon := c.colors.ok.Sprint("✓")
			if !t.Passed {
				icon = c.colors.fail.Sprint("✗")
			}
			c.writeln(fmt.Sprintf("  %s %s (actual: %s)", icon, t.Expression, t.Value))
		}
		c.writeln("")
	}
}

// printRequestTable prints per-request statistics, one row per request
// name in sorted order. Callers hold c.mu.
func (c *Console) printRequestTable(snap *metrics.Snapshot) {
	names := make([]string, 0, len(snap.PerRequest))
	for name := range snap.PerRequest {
		names = append(names, name)
	}
	sort.Strings(names)

	c.writeln(c.colors.bold.Sprint("Per Request:"))
	c.writeln(c.colors.dim.Sprintf("  %-20s %8s %8s %8s %8s %8s",
		"name", "count", "ok%", "p50", "p95", "max"))
	for _, name := range names {
		rs := snap.PerRequest[name]
		display := name
		if len([]rune(display)) > 20 {
			display = string([]rune(display)[:19]) + "…"
		}
		c.writeln(fmt.Sprintf("  %-20s %8s %7.1f%% %8s %8s %8s",
			display,
			formatNumber(rs.Count),
			rs.SuccessRate,
			formatDurationShort(rs.P50),
			formatDurationShort(rs.P95),
			formatDurationShort(rs.Max)))
	}
	c.writeln("")
}

func (c *Console) write(s string) {
	fmt.Fprint(c.writer, s)
}

func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatDurationShort formats a latency value.
func formatDurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// formatNumber formats a count with thousands separators.
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}

	return result.String()
}
