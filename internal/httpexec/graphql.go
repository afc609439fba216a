package httpexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

// GraphQLExecutor sends GraphQL operations as JSON POSTs.
type GraphQLExecutor struct {
	client *http.Client
}

// NewGraphQL creates the GraphQL executor. A nil client gets the default
// pooled one.
func NewGraphQL(client *http.Client) *GraphQLExecutor {
	if client == nil {
		client = NewClient(DefaultClientConfig())
	}
	return &GraphQLExecutor{client: client}
}

// Protocol implements protocol.Executor.
func (e *GraphQLExecutor) Protocol() scenario.Protocol {
	return scenario.ProtocolGraphQL
}

// graphqlBody is the standard GraphQL-over-HTTP request document.
type graphqlBody struct {
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables,omitempty"`
	OperationName string          `json:"operationName,omitempty"`
}

// Execute implements protocol.Executor.
func (e *GraphQLExecutor) Execute(ctx context.Context, req *protocol.ResolvedRequest, timeout time.Duration) (*protocol.Response, error) {
	payload, ok := req.Payload.(*scenario.GraphQLRequest)
	if !ok {
		return nil, fmt.Errorf("httpexec: unexpected payload type %T", req.Payload)
	}

	doc := graphqlBody{
		Query:         payload.Query,
		OperationName: payload.OperationName,
	}
	if payload.Variables != "" {
		// Variables arrive as a resolved template; they must form a JSON
		// document to embed verbatim.
		if !json.Valid([]byte(payload.Variables)) {
			return failed(fmt.Errorf("graphql variables are not valid JSON: %s", payload.Variables)), nil
		}
		doc.Variables = json.RawMessage(payload.Variables)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return failed(err), nil
	}

	httpReq, err := http.NewRequest(http.MethodPost, payload.URL, bytes.NewReader(body))
	if err != nil {
		return failed(err), nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, value := range payload.Headers {
		httpReq.Header.Set(key, value)
	}

	return send(ctx, e.client, timeout, httpReq), nil
}
