package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/data"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// Scenario converts the document into a validated scenario spec.
func (d *Document) Scenario() (*scenario.Spec, error) {
	spec := &scenario.Spec{
		Name:             d.Name,
		Threads:          d.Threads,
		Iterations:       d.Iterations,
		RampUp:           time.Duration(d.RampUp),
		Hold:             time.Duration(d.Hold),
		SuccessThreshold: d.SuccessThreshold,
		Thresholds:       d.Thresholds,
		Variables:        d.Variables,
	}

	if d.Pacing != nil {
		pacing, err := d.Pacing.scenarioPacing()
		if err != nil {
			return nil, err
		}
		spec.Pacing = pacing
	}

	for i, rc := range d.Requests {
		req, err := rc.scenarioRequest(i)
		if err != nil {
			return nil, err
		}
		spec.Requests = append(spec.Requests, req)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (pc *PacingConfig) scenarioPacing() (*scenario.Pacing, error) {
	kind := scenario.PacingKind(pc.Kind)
	switch kind {
	case "":
		kind = scenario.PacingNone
	case scenario.PacingNone, scenario.PacingConstant, scenario.PacingRandom:
	default:
		return nil, &scenario.ConfigError{
			Field:   "pacing.kind",
			Message: fmt.Sprintf("unknown pacing kind %q", pc.Kind),
		}
	}
	return &scenario.Pacing{
		Kind:     kind,
		Duration: time.Duration(pc.Duration),
		Min:      time.Duration(pc.Min),
		Max:      time.Duration(pc.Max),
	}, nil
}

func (rc *RequestConfig) scenarioRequest(index int) (*scenario.Request, error) {
	var payloads []scenario.Payload
	if rc.HTTP != nil {
		payloads = append(payloads, rc.HTTP)
	}
	if rc.GraphQL != nil {
		payloads = append(payloads, rc.GraphQL)
	}
	if rc.SOAP != nil {
		payloads = append(payloads, rc.SOAP)
	}
	if rc.SQL != nil {
		payloads = append(payloads, rc.SQL)
	}
	if len(payloads) != 1 {
		return nil, &scenario.ConfigError{
			Field:   fmt.Sprintf("requests[%d]", index),
			Message: "exactly one of http, graphql, soap or sql is required",
		}
	}

	return &scenario.Request{
		Name:       rc.Name,
		Payload:    payloads[0],
		Labels:     rc.Labels,
		Variables:  rc.Variables,
		DataSource: rc.DataSource,
		Timeout:    time.Duration(rc.Timeout),
		ThinkTime:  time.Duration(rc.ThinkTime),
		Extract:    rc.Extract,
	}, nil
}

// DataSources loads every declared data source. File paths resolve
// relative to baseDir, typically the config file's directory.
func (d *Document) DataSources(baseDir string) (map[string]*data.Source, error) {
	if len(d.Data) == 0 {
		return nil, nil
	}
	out := make(map[string]*data.Source, len(d.Data))
	for name, dc := range d.Data {
		src, err := dc.load(baseDir)
		if err != nil {
			return nil, fmt.Errorf("data source %q: %w", name, err)
		}
		out[name] = src
	}
	return out, nil
}

func (dc *DataConfig) load(baseDir string) (*data.Source, error) {
	switch {
	case dc.File != "" && len(dc.Rows) > 0:
		return nil, errors.New("file and rows are mutually exclusive")

	case dc.File != "":
		path := dc.File
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return data.FromCSV(f)

	case len(dc.Rows) > 0:
		rows := make([]data.Row, len(dc.Rows))
		for i, m := range dc.Rows {
			rows[i] = data.Row(m)
		}
		return data.FromRows(rows), nil

	default:
		return nil, errors.New("file or rows is required")
	}
}
