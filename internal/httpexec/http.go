package httpexec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// Executor sends plain HTTP requests.
type Executor struct {
	client *http.Client
}

// New creates the HTTP executor. A nil client gets the default pooled one.
func New(client *http.Client) *Executor {
	if client == nil {
		client = NewClient(DefaultClientConfig())
	}
	return &Executor{client: client}
}

// Protocol implements protocol.Executor.
func (e *Executor) Protocol() scenario.Protocol {
	return scenario.ProtocolHTTP
}

// Execute implements protocol.Executor.
func (e *Executor) Execute(ctx context.Context, req *protocol.ResolvedRequest, timeout time.Duration) (*protocol.Response, error) {
	payload, ok := req.Payload.(*scenario.HTTPRequest)
	if !ok {
		return nil, fmt.Errorf("httpexec: unexpected payload type %T", req.Payload)
	}

	httpReq, err := buildRequest(payload)
	if err != nil {
		return failed(err), nil
	}
	return send(ctx, e.client, timeout, httpReq), nil
}

// buildRequest turns a resolved HTTP payload into an http.Request.
func buildRequest(p *scenario.HTTPRequest) (*http.Request, error) {
	target := p.URL
	if len(p.Params) > 0 {
		parsed, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("invalid url %q: %w", target, err)
		}
		query := parsed.Query()
		for key, value := range p.Params {
			query.Set(key, value)
		}
		parsed.RawQuery = query.Encode()
		target = parsed.String()
	}

	var body io.Reader
	if p.Body != "" {
		body = strings.NewReader(p.Body)
	}

	req, err := http.NewRequest(p.Method, target, body)
	if err != nil {
		return nil, err
	}
	for key, value := range p.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}
