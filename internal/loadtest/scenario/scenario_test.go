package scenario

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validSpec() *Spec {
	return &Spec{
		Name:       "checkout",
		Threads:    2,
		Iterations: 3,
		Requests: []*Request{
			{
				Name:    "get-cart",
				Payload: &HTTPRequest{URL: "http://localhost/cart", Method: "GET"},
			},
		},
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Spec)
		wantField string
	}{
		{
			name:   "valid spec",
			mutate: func(s *Spec) {},
		},
		{
			name:      "missing name",
			mutate:    func(s *Spec) { s.Name = "" },
			wantField: "name",
		},
		{
			name:      "zero threads",
			mutate:    func(s *Spec) { s.Threads = 0 },
			wantField: "threads",
		},
		{
			name:      "negative threads",
			mutate:    func(s *Spec) { s.Threads = -1 },
			wantField: "threads",
		},
		{
			name:      "zero iterations",
			mutate:    func(s *Spec) { s.Iterations = 0 },
			wantField: "iterations",
		},
		{
			name:      "negative ramp-up",
			mutate:    func(s *Spec) { s.RampUp = -time.Second },
			wantField: "rampUp",
		},
		{
			name:      "negative hold",
			mutate:    func(s *Spec) { s.Hold = -time.Second },
			wantField: "hold",
		},
		{
			name:      "threshold above 100",
			mutate:    func(s *Spec) { s.SuccessThreshold = 101 },
			wantField: "successThreshold",
		},
		{
			name:      "no requests",
			mutate:    func(s *Spec) { s.Requests = nil },
			wantField: "requests",
		},
		{
			name: "request without payload",
			mutate: func(s *Spec) {
				s.Requests = append(s.Requests, &Request{Name: "broken"})
			},
			wantField: "requests[1].payload",
		},
		{
			name: "duplicate request names",
			mutate: func(s *Spec) {
				s.Requests = append(s.Requests, &Request{
					Name:    "get-cart",
					Payload: &HTTPRequest{URL: "http://localhost/cart", Method: "GET"},
				})
			},
			wantField: "requests",
		},
		{
			name: "http request without url",
			mutate: func(s *Spec) {
				s.Requests[0].Payload = &HTTPRequest{Method: "GET"}
			},
			wantField: "requests[0].url",
		},
		{
			name: "http request without method",
			mutate: func(s *Spec) {
				s.Requests[0].Payload = &HTTPRequest{URL: "http://localhost"}
			},
			wantField: "requests[0].method",
		},
		{
			name: "graphql request without query",
			mutate: func(s *Spec) {
				s.Requests[0].Payload = &GraphQLRequest{URL: "http://localhost/graphql"}
			},
			wantField: "requests[0].query",
		},
		{
			name: "soap request without envelope",
			mutate: func(s *Spec) {
				s.Requests[0].Payload = &SOAPRequest{URL: "http://localhost/soap"}
			},
			wantField: "requests[0].envelope",
		},
		{
			name: "sql request without statement",
			mutate: func(s *Spec) {
				s.Requests[0].Payload = &SQLRequest{}
			},
			wantField: "requests[0].statement",
		},
		{
			name: "unknown validator kind",
			mutate: func(s *Spec) {
				s.Requests[0].Labels = []LabelRule{
					{Label: "OK", Validator: ValidatorSpec{Kind: "magic"}},
				}
			},
			wantField: "requests[0].labels",
		},
		{
			name: "unknown extract source",
			mutate: func(s *Spec) {
				s.Requests[0].Extract = []ExtractRule{
					{Name: "token", Source: "cookie"},
				}
			},
			wantField: "requests[0].extract",
		},
		{
			name: "unknown pacing kind",
			mutate: func(s *Spec) {
				s.Pacing = &Pacing{Kind: "burst"}
			},
			wantField: "pacing",
		},
		{
			name: "random pacing max below min",
			mutate: func(s *Spec) {
				s.Pacing = &Pacing{Kind: PacingRandom, Min: time.Second, Max: time.Millisecond}
			},
			wantField: "pacing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(spec)

			err := spec.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() = nil, want error on field %q", tt.wantField)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() returned %T, want *ConfigError", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", ce.Field, tt.wantField)
			}
		})
	}
}

func TestEffectiveThreshold(t *testing.T) {
	spec := validSpec()
	if got := spec.EffectiveThreshold(); got != 100.0 {
		t.Errorf("EffectiveThreshold() = %v, want 100 by default", got)
	}

	spec.SuccessThreshold = 95.5
	if got := spec.EffectiveThreshold(); got != 95.5 {
		t.Errorf("EffectiveThreshold() = %v, want 95.5", got)
	}
}

func TestHTTPRequestResolveTemplates(t *testing.T) {
	orig := &HTTPRequest{
		URL:     "${base}/users/${id}",
		Method:  "POST",
		Headers: map[string]string{"Authorization": "Bearer ${token}"},
		Params:  map[string]string{"page": "${page}"},
		Body:    `{"name":"${name}"}`,
	}

	resolved := orig.ResolveTemplates(strings.ToUpper).(*HTTPRequest)

	if resolved.URL != "${BASE}/USERS/${ID}" {
		t.Errorf("URL = %q, resolver not applied", resolved.URL)
	}
	if resolved.Method != "POST" {
		t.Errorf("Method = %q, want POST untouched", resolved.Method)
	}
	if resolved.Headers["Authorization"] != "BEARER ${TOKEN}" {
		t.Errorf("header = %q, resolver not applied", resolved.Headers["Authorization"])
	}
	if resolved.Params["page"] != "${PAGE}" {
		t.Errorf("param = %q, resolver not applied", resolved.Params["page"])
	}

	// The original template must be untouched.
	if orig.URL != "${base}/users/${id}" || orig.Headers["Authorization"] != "Bearer ${token}" {
		t.Errorf("ResolveTemplates mutated the original payload: %+v", orig)
	}
}

func TestSQLRequestResolveTemplates(t *testing.T) {
	orig := &SQLRequest{
		Statement: "SELECT * FROM users WHERE id = $1",
		Params:    []string{"${userId}"},
	}

	resolved := orig.ResolveTemplates(func(s string) string {
		return strings.ReplaceAll(s, "${userId}", "42")
	}).(*SQLRequest)

	if resolved.Params[0] != "42" {
		t.Errorf("param = %q, want 42", resolved.Params[0])
	}
	if orig.Params[0] != "${userId}" {
		t.Errorf("ResolveTemplates mutated original params: %v", orig.Params)
	}
}

func TestParseProtocol(t *testing.T) {
	for _, valid := range []string{"http", "graphql", "soap", "sql"} {
		if _, err := ParseProtocol(valid); err != nil {
			t.Errorf("ParseProtocol(%q) = %v, want nil", valid, err)
		}
	}
	if _, err := ParseProtocol("grpc"); err == nil {
		t.Error("ParseProtocol(grpc) = nil, want error")
	}
}

func TestPayloadProtocols(t *testing.T) {
	tests := []struct {
		payload Payload
		want    Protocol
	}{
		{&HTTPRequest{}, ProtocolHTTP},
		{&GraphQLRequest{}, ProtocolGraphQL},
		{&SOAPRequest{}, ProtocolSOAP},
		{&SQLRequest{}, ProtocolSQL},
	}
	for _, tt := range tests {
		if got := tt.payload.Protocol(); got != tt.want {
			t.Errorf("%T.Protocol() = %q, want %q", tt.payload, got, tt.want)
		}
	}
}
