package httpexec

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// SOAPExecutor sends SOAP 1.1 envelopes as XML POSTs.
type SOAPExecutor struct {
	client *http.Client
}

// NewSOAP creates the SOAP executor. A nil client gets the default pooled
// one.
func NewSOAP(client *http.Client) *SOAPExecutor {
	if client == nil {
		client = NewClient(DefaultClientConfig())
	}
	return &SOAPExecutor{client: client}
}

// Protocol implements protocol.Executor.
func (e *SOAPExecutor) Protocol() scenario.Protocol {
	return scenario.ProtocolSOAP
}

// Execute implements protocol.Executor.
func (e *SOAPExecutor) Execute(ctx context.Context, req *protocol.ResolvedRequest, timeout time.Duration) (*protocol.Response, error) {
	payload, ok := req.Payload.(*scenario.SOAPRequest)
	if !ok {
		return nil, fmt.Errorf("httpexec: unexpected payload type %T", req.Payload)
	}

	httpReq, err := http.NewRequest(http.MethodPost, payload.URL, strings.NewReader(payload.Envelope))
	if err != nil {
		return failed(err), nil
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	if payload.Action != "" {
		// SOAP 1.1 requires the action value quoted.
		httpReq.Header.Set("SOAPAction", strconv.Quote(payload.Action))
	}
	for key, value := range payload.Headers {
		httpReq.Header.Set(key, value)
	}

	return send(ctx, e.client, timeout, httpReq), nil
}
