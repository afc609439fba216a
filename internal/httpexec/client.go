// Package httpexec implements the executors for the HTTP protocol family:
// plain HTTP, GraphQL and SOAP. All three send through net/http, share one
// pooled client and capture connection-phase timings via httptrace.
//
// Per-request timeouts come from the engine on every Execute call, so the
// underlying http.Client carries no timeout of its own.
package httpexec

import (
	"crypto/tls"
	"net/http"
	"time"
)

// defaultUserAgent is sent when neither the scenario nor the client set one.
const defaultUserAgent = "volley"

// ClientConfig tunes the shared HTTP transport.
type ClientConfig struct {
	// MaxIdleConns controls the maximum number of idle connections.
	MaxIdleConns int

	// MaxIdleConnsPerHost controls the maximum idle connections per host.
	MaxIdleConnsPerHost int

	// MaxConnsPerHost limits the total connections per host. Zero means
	// unlimited.
	MaxConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept alive.
	IdleConnTimeout time.Duration

	// DisableKeepAlives disables HTTP keep-alives.
	DisableKeepAlives bool

	// DisableCompression disables automatic decompression.
	DisableCompression bool

	// InsecureSkipVerify skips TLS certificate verification.
	InsecureSkipVerify bool
}

// DefaultClientConfig returns defaults sized for load generation: a large
// shared pool so workers reuse connections instead of exhausting ports.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxIdleConns:        1000,
		MaxIdleConnsPerHost: 100,
		MaxConnsPerHost:     0,
		IdleConnTimeout:     90 * time.Second,
	}
}

// NewClient builds the pooled HTTP client the executors share.
func NewClient(cfg ClientConfig) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		DisableKeepAlives:   cfg.DisableKeepAlives,
		DisableCompression:  cfg.DisableCompression,
	}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{Transport: transport}
}
