// Package config loads volley test plans from YAML or JSON documents and
// turns them into runnable scenarios plus the settings of the execution
// collaborators (HTTP transport, database pool, data sources).
//
// Example YAML:
//
//	name: checkout-load
//	threads: 25
//	iterations: 200
//	rampUp: 30s
//	thresholds:
//	  - p95 < 500ms
//	variables:
//	  baseUrl: https://api.example.com
//	requests:
//	  - name: login
//	    http:
//	      url: ${baseUrl}/login
//	      method: POST
//	    extract:
//	      - name: token
//	        source: body
//	        path: $.token
package config

import (
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// Document is the root of a test plan file.
type Document struct {
	// Name identifies the scenario in results and reports.
	Name string `json:"name" yaml:"name"`

	// Threads is the number of concurrent workers.
	Threads int `json:"threads" yaml:"threads"`

	// Iterations is the number of iterations each worker runs.
	Iterations int64 `json:"iterations" yaml:"iterations"`

	// RampUp is the window over which worker starts are staggered.
	RampUp Duration `json:"rampUp,omitempty" yaml:"rampUp,omitempty"`

	// Hold caps each worker's running time.
	Hold Duration `json:"hold,omitempty" yaml:"hold,omitempty"`

	// SuccessThreshold is the minimum success-rate percentage for a PASS.
	SuccessThreshold float64 `json:"successThreshold,omitempty" yaml:"successThreshold,omitempty"`

	// Thresholds are latency gate expressions like "p95 < 500ms".
	Thresholds []string `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`

	// Pacing controls the wait between iterations of one worker.
	Pacing *PacingConfig `json:"pacing,omitempty" yaml:"pacing,omitempty"`

	// Variables is the scenario-level variable scope.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Timeout bounds the whole run.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// RequestTimeout applies to requests without their own timeout.
	RequestTimeout Duration `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"`

	// HTTP tunes the shared HTTP transport.
	HTTP *HTTPSettings `json:"http,omitempty" yaml:"http,omitempty"`

	// SQL configures the database connection for SQL requests.
	SQL *SQLSettings `json:"sql,omitempty" yaml:"sql,omitempty"`

	// Data declares the named data-row sources.
	Data map[string]*DataConfig `json:"data,omitempty" yaml:"data,omitempty"`

	// Requests are executed in order on every iteration.
	Requests []*RequestConfig `json:"requests" yaml:"requests"`
}

// PacingConfig mirrors scenario.Pacing with parseable durations.
type PacingConfig struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Min      Duration `json:"min,omitempty" yaml:"min,omitempty"`
	Max      Duration `json:"max,omitempty" yaml:"max,omitempty"`
}

// HTTPSettings tunes the pooled HTTP client.
type HTTPSettings struct {
	MaxIdleConns        int      `json:"maxIdleConns,omitempty" yaml:"maxIdleConns,omitempty"`
	MaxIdleConnsPerHost int      `json:"maxIdleConnsPerHost,omitempty" yaml:"maxIdleConnsPerHost,omitempty"`
	MaxConnsPerHost     int      `json:"maxConnsPerHost,omitempty" yaml:"maxConnsPerHost,omitempty"`
	IdleConnTimeout     Duration `json:"idleConnTimeout,omitempty" yaml:"idleConnTimeout,omitempty"`
	DisableKeepAlives   bool     `json:"disableKeepAlives,omitempty" yaml:"disableKeepAlives,omitempty"`
	DisableCompression  bool     `json:"disableCompression,omitempty" yaml:"disableCompression,omitempty"`
	InsecureSkipVerify  bool     `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
}

// SQLSettings configures the database handle SQL requests run on.
type SQLSettings struct {
	// DSN is the connection string. Required when any request is sql.
	DSN string `json:"dsn" yaml:"dsn"`

	MaxOpenConns    int      `json:"maxOpenConns,omitempty" yaml:"maxOpenConns,omitempty"`
	MaxIdleConns    int      `json:"maxIdleConns,omitempty" yaml:"maxIdleConns,omitempty"`
	ConnMaxLifetime Duration `json:"connMaxLifetime,omitempty" yaml:"connMaxLifetime,omitempty"`
	ConnMaxIdleTime Duration `json:"connMaxIdleTime,omitempty" yaml:"connMaxIdleTime,omitempty"`
}

// DataConfig declares one data source: either an external CSV file or
// inline rows, never both.
type DataConfig struct {
	// File is a CSV path, resolved relative to the config file.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Rows are inline records.
	Rows []map[string]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// RequestConfig is one request of the plan. Exactly one protocol block
// (http, graphql, soap, sql) must be set; it selects the executor.
type RequestConfig struct {
	Name string `json:"name" yaml:"name"`

	HTTP    *scenario.HTTPRequest    `json:"http,omitempty" yaml:"http,omitempty"`
	GraphQL *scenario.GraphQLRequest `json:"graphql,omitempty" yaml:"graphql,omitempty"`
	SOAP    *scenario.SOAPRequest    `json:"soap,omitempty" yaml:"soap,omitempty"`
	SQL     *scenario.SQLRequest     `json:"sql,omitempty" yaml:"sql,omitempty"`

	Labels     []scenario.LabelRule   `json:"labels,omitempty" yaml:"labels,omitempty"`
	Variables  map[string]string      `json:"variables,omitempty" yaml:"variables,omitempty"`
	DataSource string                 `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`
	Timeout    Duration               `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	ThinkTime  Duration               `json:"thinkTime,omitempty" yaml:"thinkTime,omitempty"`
	Extract    []scenario.ExtractRule `json:"extract,omitempty" yaml:"extract,omitempty"`
}

// NeedsSQL reports whether any request runs against the database.
func (d *Document) NeedsSQL() bool {
	for _, rc := range d.Requests {
		if rc.SQL != nil {
			return true
		}
	}
	return false
}
