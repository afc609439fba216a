package scenario

import "fmt"

// Protocol identifies the wire protocol a request payload targets.
type Protocol string

const (
	// ProtocolHTTP is a plain HTTP request.
	ProtocolHTTP Protocol = "http"

	// ProtocolGraphQL is a GraphQL query POSTed as JSON.
	ProtocolGraphQL Protocol = "graphql"

	// ProtocolSOAP is a SOAP envelope POSTed as XML.
	ProtocolSOAP Protocol = "soap"

	// ProtocolSQL is a SQL statement executed against a database.
	ProtocolSQL Protocol = "sql"
)

// Payload is the protocol-specific part of a Request. Exactly one concrete
// kind backs each Request: HTTPRequest, GraphQLRequest, SOAPRequest or
// SQLRequest. The interface is sealed (unexported validate method) so the
// set of kinds is closed and executors can rely on it.
//
// All string fields on a payload are templates: they may contain ${...}
// placeholders and are only resolved immediately before execution.
type Payload interface {
	// Protocol returns the protocol identifier used for executor lookup.
	Protocol() Protocol

	// Target returns the destination of the payload (endpoint URL or
	// statement) for result metadata. Called on resolved payloads.
	Target() string

	// ResolveTemplates returns a deep copy with every template field passed
	// through resolve. The receiver is never mutated.
	ResolveTemplates(resolve func(string) string) Payload

	validate() error
}

// HTTPRequest describes a plain HTTP request.
type HTTPRequest struct {
	// URL is the endpoint template.
	URL string `json:"url" yaml:"url"`

	// Method is the HTTP method (GET, POST, ...).
	Method string `json:"method" yaml:"method"`

	// Headers are header templates keyed by header name.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Params are query parameter templates appended to the URL.
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`

	// Body is the request body template.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}

func (r *HTTPRequest) Protocol() Protocol { return ProtocolHTTP }

func (r *HTTPRequest) Target() string { return r.URL }

func (r *HTTPRequest) ResolveTemplates(resolve func(string) string) Payload {
	out := &HTTPRequest{
		URL:    resolve(r.URL),
		Method: r.Method,
		Body:   resolve(r.Body),
	}
	out.Headers = resolveMap(r.Headers, resolve)
	out.Params = resolveMap(r.Params, resolve)
	return out
}

func (r *HTTPRequest) validate() error {
	if r.URL == "" {
		return &ConfigError{Field: "url", Message: "http request url is required"}
	}
	if r.Method == "" {
		return &ConfigError{Field: "method", Message: "http request method is required"}
	}
	return nil
}

// GraphQLRequest describes a GraphQL operation sent as a JSON POST.
type GraphQLRequest struct {
	// URL is the GraphQL endpoint template.
	URL string `json:"url" yaml:"url"`

	// Query is the GraphQL document template.
	Query string `json:"query" yaml:"query"`

	// Variables is a raw JSON object template for operation variables.
	Variables string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// OperationName selects the operation when Query defines several.
	OperationName string `json:"operationName,omitempty" yaml:"operationName,omitempty"`

	// Headers are header templates keyed by header name.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

func (r *GraphQLRequest) Protocol() Protocol { return ProtocolGraphQL }

func (r *GraphQLRequest) Target() string { return r.URL }

func (r *GraphQLRequest) ResolveTemplates(resolve func(string) string) Payload {
	out := &GraphQLRequest{
		URL:           resolve(r.URL),
		Query:         resolve(r.Query),
		Variables:     resolve(r.Variables),
		OperationName: r.OperationName,
	}
	out.Headers = resolveMap(r.Headers, resolve)
	return out
}

func (r *GraphQLRequest) validate() error {
	if r.URL == "" {
		return &ConfigError{Field: "url", Message: "graphql request url is required"}
	}
	if r.Query == "" {
		return &ConfigError{Field: "query", Message: "graphql query is required"}
	}
	return nil
}

// SOAPRequest describes a SOAP call sent as an XML POST.
type SOAPRequest struct {
	// URL is the service endpoint template.
	URL string `json:"url" yaml:"url"`

	// Action is the SOAPAction header value.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`

	// Envelope is the XML envelope template sent as the request body.
	Envelope string `json:"envelope" yaml:"envelope"`

	// Headers are header templates keyed by header name.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

func (r *SOAPRequest) Protocol() Protocol { return ProtocolSOAP }

func (r *SOAPRequest) Target() string { return r.URL }

func (r *SOAPRequest) ResolveTemplates(resolve func(string) string) Payload {
	out := &SOAPRequest{
		URL:      resolve(r.URL),
		Action:   resolve(r.Action),
		Envelope: resolve(r.Envelope),
	}
	out.Headers = resolveMap(r.Headers, resolve)
	return out
}

func (r *SOAPRequest) validate() error {
	if r.URL == "" {
		return &ConfigError{Field: "url", Message: "soap request url is required"}
	}
	if r.Envelope == "" {
		return &ConfigError{Field: "envelope", Message: "soap envelope is required"}
	}
	return nil
}

// SQLRequest describes a SQL statement executed against a configured
// database handle.
type SQLRequest struct {
	// Statement is the SQL text template. Statements starting with SELECT
	// are executed as queries, everything else as commands.
	Statement string `json:"statement" yaml:"statement"`

	// Params are positional bind parameter templates.
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
}

func (r *SQLRequest) Protocol() Protocol { return ProtocolSQL }

func (r *SQLRequest) Target() string { return r.Statement }

func (r *SQLRequest) ResolveTemplates(resolve func(string) string) Payload {
	out := &SQLRequest{Statement: resolve(r.Statement)}
	if len(r.Params) > 0 {
		out.Params = make([]string, len(r.Params))
		for i, p := range r.Params {
			out.Params[i] = resolve(p)
		}
	}
	return out
}

func (r *SQLRequest) validate() error {
	if r.Statement == "" {
		return &ConfigError{Field: "statement", Message: "sql statement is required"}
	}
	return nil
}

// resolveMap resolves every value of a template map into a fresh map.
// Keys are not templated.
func resolveMap(in map[string]string, resolve func(string) string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = resolve(v)
	}
	return out
}

var (
	_ Payload = (*HTTPRequest)(nil)
	_ Payload = (*GraphQLRequest)(nil)
	_ Payload = (*SOAPRequest)(nil)
	_ Payload = (*SQLRequest)(nil)
)

// ParseProtocol converts a string into a known Protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(s) {
	case ProtocolHTTP, ProtocolGraphQL, ProtocolSOAP, ProtocolSQL:
		return Protocol(s), nil
	default:
		return "", fmt.Errorf("unknown protocol %q", s)
	}
}
