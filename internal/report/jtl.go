package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/volleyhq/volley/internal/loadtest"
)

// jtlHeader lists the JMeter CSV interchange columns. Tools that read JTL
// files (JMeter listeners, plugins, most load-test dashboards) expect
// exactly these names in this order.
var jtlHeader = []string{
	"timeStamp",
	"elapsed",
	"label",
	"responseCode",
	"responseMessage",
	"threadName",
	"dataType",
	"success",
	"failureMessage",
	"bytes",
	"sentBytes",
	"grpThreads",
	"allThreads",
	"URL",
	"Latency",
	"IdleTime",
	"Connect",
}

// JTLWriter streams run results as JMeter-interchange CSV rows.
type JTLWriter struct {
	writer   *csv.Writer
	scenario string
	threads  int64

	headerWritten bool
}

// NewJTLWriter creates a JTL writer over w. The scenario name and thread
// count fill the threadName and thread-count columns of every row.
func NewJTLWriter(w io.Writer, scenarioName string, threads int64) *JTLWriter {
	return &JTLWriter{
		writer:   csv.NewWriter(w),
		scenario: scenarioName,
		threads:  threads,
	}
}

// WriteHeader writes the column header row. Writing a result first writes
// the header implicitly.
func (j *JTLWriter) WriteHeader() error {
	if j.headerWritten {
		return nil
	}
	if err := j.writer.Write(jtlHeader); err != nil {
		return fmt.Errorf("write JTL header: %w", err)
	}
	j.headerWritten = true
	return nil
}

// WriteResult appends one sample row.
func (j *JTLWriter) WriteResult(r *loadtest.TestResult) error {
	if err := j.WriteHeader(); err != nil {
		return err
	}

	code := ""
	if r.Status > 0 {
		code = strconv.Itoa(r.Status)
	}

	latency := int64(0)
	connect := int64(0)
	if r.Timing != nil {
		latency = r.Timing.TTFB.Milliseconds()
		connect = r.Timing.Connect.Milliseconds()
	}

	record := []string{
		strconv.FormatInt(r.Start.UnixMilli(), 10),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
		r.Request,
		code,
		r.Label,
		fmt.Sprintf("%s 1-%d", j.scenario, r.Worker+1),
		"text",
		strconv.FormatBool(r.Success),
		r.Error,
		strconv.FormatInt(r.Bytes, 10),
		"0",
		strconv.FormatInt(j.threads, 10),
		strconv.FormatInt(j.threads, 10),
		r.Target,
		strconv.FormatInt(latency, 10),
		"0",
		strconv.FormatInt(connect, 10),
	}
	if err := j.writer.Write(record); err != nil {
		return fmt.Errorf("write JTL record: %w", err)
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (j *JTLWriter) Flush() error {
	j.writer.Flush()
	if err := j.writer.Error(); err != nil {
		return fmt.Errorf("flush JTL: %w", err)
	}
	return nil
}

// WriteAll writes the header and every result of a run, then flushes.
func (j *JTLWriter) WriteAll(res *loadtest.Result) error {
	if err := j.WriteHeader(); err != nil {
		return err
	}
	for i := range res.Results {
		if err := j.WriteResult(&res.Results[i]); err != nil {
			return err
		}
	}
	return j.Flush()
}

// WriteJTLFile writes a complete run to a JTL file at path.
func WriteJTLFile(path string, res *loadtest.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JTL file: %w", err)
	}

	w := NewJTLWriter(f, res.Scenario, workerCount(res))
	if err := w.WriteAll(res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close JTL file: %w", err)
	}
	return nil
}

// workerCount recovers the worker pool size from the recorded results.
func workerCount(res *loadtest.Result) int64 {
	max := -1
	for i := range res.Results {
		if res.Results[i].Worker > max {
			max = res.Results[i].Worker
		}
	}
	return int64(max + 1)
}
