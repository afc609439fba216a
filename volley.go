package volley

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/volleyhq/volley/internal/config"
	"github.com/volleyhq/volley/internal/httpexec"
	"github.com/volleyhq/volley/internal/loadtest"
	"github.com/volleyhq/volley/internal/loadtest/metrics"
	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
	"github.com/volleyhq/volley/internal/logging"
	"github.com/volleyhq/volley/internal/sqlexec"
)

// Plan is a loaded test plan bound to the directory its file came from,
// so relative data-file paths keep resolving.
type Plan struct {
	Doc *config.Document
	Dir string
}

// LoadFile reads and parses a plan file. The format follows the file
// extension: .json is JSON, everything else is YAML.
func LoadFile(path string) (*Plan, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &Plan{Doc: doc, Dir: filepath.Dir(path)}, nil
}

// Validate performs every setup-time check a run would perform without
// executing anything: scenario structure, data sources, label validators,
// threshold expressions, and executor coverage for every request protocol.
// No connection is opened; SQL plans are checked against a probe executor.
func (p *Plan) Validate() error {
	spec, err := p.Doc.Scenario()
	if err != nil {
		return err
	}

	sources, err := p.Doc.DataSources(p.Dir)
	if err != nil {
		return err
	}

	reg := protocol.NewRegistry()
	if err := httpexec.RegisterAll(reg, nil); err != nil {
		return err
	}
	if p.Doc.NeedsSQL() {
		if err := checkSQLSettings(p.Doc); err != nil {
			return err
		}
		if err := reg.Register(sqlexec.New(nil)); err != nil {
			return err
		}
	}

	_, err = loadtest.NewRunner(spec, loadtest.Options{
		Registry: reg,
		Data:     sources,
	})
	return err
}

// Options tunes a programmatic run beyond what the plan file carries.
type Options struct {
	// Logger receives lifecycle and resolution-gap logging. Nil discards.
	Logger logrus.FieldLogger

	// Globals is the lowest-precedence variable scope, below the plan's
	// own variables.
	Globals map[string]string

	// HTTPClient overrides the pooled client built from the plan's HTTP
	// settings. Mainly for tests.
	HTTPClient *http.Client

	// DB overrides the database handle built from the plan's SQL
	// settings. The caller keeps ownership; Run will not close it.
	DB *sql.DB

	// Timeout overrides the plan's run timeout when positive.
	Timeout time.Duration
}

// Runner binds a loaded plan to the executors it needs and runs it once.
type Runner struct {
	plan *Plan
	opts Options
	spec *scenario.Spec

	mu        sync.Mutex
	collector *metrics.Collector
}

// NewRunner builds a runner for a loaded plan. Structural configuration
// errors surface here; connection setup waits until Run.
func NewRunner(plan *Plan, opts Options) (*Runner, error) {
	spec, err := plan.Doc.Scenario()
	if err != nil {
		return nil, err
	}
	return &Runner{plan: plan, opts: opts, spec: spec}, nil
}

// Spec returns the validated scenario the runner will execute.
func (r *Runner) Spec() *scenario.Spec {
	return r.spec
}

// Collector returns the live metrics view of the run in flight, or nil
// before Run has started.
func (r *Runner) Collector() *metrics.Collector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collector
}

// Run wires data sources and protocol executors, executes the scenario,
// and returns the complete result. A database handle opened here is
// closed before Run returns; in-flight statements finish first because
// workers drain before the engine hands the result back.
func (r *Runner) Run(ctx context.Context) (*loadtest.Result, error) {
	doc := r.plan.Doc

	sources, err := doc.DataSources(r.plan.Dir)
	if err != nil {
		return nil, err
	}

	client := r.opts.HTTPClient
	if client == nil {
		client = httpexec.NewClient(clientConfig(doc.HTTP))
	}

	reg := protocol.NewRegistry()
	if err := httpexec.RegisterAll(reg, client); err != nil {
		return nil, err
	}

	if doc.NeedsSQL() {
		db := r.opts.DB
		if db == nil {
			if err := checkSQLSettings(doc); err != nil {
				return nil, err
			}
			opened, err := sqlexec.Open(ctx, sqlConfig(doc, r.logger()))
			if err != nil {
				return nil, err
			}
			db = opened
			defer opened.Close()
		}
		if err := reg.Register(sqlexec.New(db)); err != nil {
			return nil, err
		}
	}

	timeout := r.opts.Timeout
	if timeout <= 0 {
		timeout = doc.Timeout.GetDuration(0)
	}

	runner, err := loadtest.NewRunner(r.spec, loadtest.Options{
		Registry:       reg,
		Data:           sources,
		Globals:        r.opts.Globals,
		Timeout:        timeout,
		RequestTimeout: doc.RequestTimeout.GetDuration(0),
		Logger:         r.opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.collector = runner.Collector()
	r.mu.Unlock()

	return runner.Run(ctx)
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return logging.Nop()
}

// Run loads a plan file and executes it in one call.
func Run(ctx context.Context, path string, opts Options) (*loadtest.Result, error) {
	plan, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	runner, err := NewRunner(plan, opts)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

// checkSQLSettings verifies the plan carries a usable SQL block before a
// database connection is attempted.
func checkSQLSettings(doc *config.Document) error {
	if doc.SQL == nil || doc.SQL.DSN == "" {
		return &scenario.ConfigError{Field: "sql.dsn", Message: "required when any request is sql"}
	}
	return nil
}

// clientConfig maps plan HTTP settings onto the shared transport,
// starting from load-generation defaults.
func clientConfig(s *config.HTTPSettings) httpexec.ClientConfig {
	cfg := httpexec.DefaultClientConfig()
	if s == nil {
		return cfg
	}
	if s.MaxIdleConns > 0 {
		cfg.MaxIdleConns = s.MaxIdleConns
	}
	if s.MaxIdleConnsPerHost > 0 {
		cfg.MaxIdleConnsPerHost = s.MaxIdleConnsPerHost
	}
	if s.MaxConnsPerHost > 0 {
		cfg.MaxConnsPerHost = s.MaxConnsPerHost
	}
	if d := s.IdleConnTimeout.GetDuration(0); d > 0 {
		cfg.IdleConnTimeout = d
	}
	cfg.DisableKeepAlives = s.DisableKeepAlives
	cfg.DisableCompression = s.DisableCompression
	cfg.InsecureSkipVerify = s.InsecureSkipVerify
	return cfg
}

// sqlConfig maps plan SQL settings onto the database pool. An unset
// MaxOpenConns defaults to the worker count; a smaller explicit value
// would serialize workers on the pool, so it is kept but warned about.
func sqlConfig(doc *config.Document, logger logrus.FieldLogger) sqlexec.Config {
	s := doc.SQL
	cfg := sqlexec.Config{
		DSN:             s.DSN,
		MaxOpenConns:    s.MaxOpenConns,
		MaxIdleConns:    s.MaxIdleConns,
		ConnMaxLifetime: s.ConnMaxLifetime.GetDuration(0),
		ConnMaxIdleTime: s.ConnMaxIdleTime.GetDuration(0),
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = doc.Threads
	} else if cfg.MaxOpenConns < doc.Threads {
		logger.WithFields(logrus.Fields{
			"maxOpenConns": cfg.MaxOpenConns,
			"workers":      doc.Threads,
		}).Warn("sql pool smaller than worker count; workers will queue on connections")
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = cfg.MaxOpenConns
	}
	return cfg
}
