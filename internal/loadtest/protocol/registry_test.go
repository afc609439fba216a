package protocol

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

type stubExecutor struct {
	protocol scenario.Protocol
}

func (s *stubExecutor) Protocol() scenario.Protocol { return s.protocol }

func (s *stubExecutor) Execute(ctx context.Context, req *ResolvedRequest, timeout time.Duration) (*Response, error) {
	return &Response{StatusCode: 200, Success: true}, nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	exec := &stubExecutor{protocol: scenario.ProtocolHTTP}
	if err := r.Register(exec); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, err := r.Lookup(scenario.ProtocolHTTP)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if got != exec {
		t.Error("Lookup() returned a different executor")
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&stubExecutor{protocol: scenario.ProtocolSQL}); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}

	err := r.Register(&stubExecutor{protocol: scenario.ProtocolSQL})
	if !errors.Is(err, ErrDuplicateProtocol) {
		t.Errorf("second Register() = %v, want ErrDuplicateProtocol", err)
	}
}

func TestRegistryUnknownProtocol(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup(scenario.ProtocolSOAP)
	if !errors.Is(err, ErrUnknownProtocol) {
		t.Errorf("Lookup() = %v, want ErrUnknownProtocol", err)
	}
}

func TestRegistryProtocolsSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&stubExecutor{protocol: scenario.ProtocolSQL})
	r.MustRegister(&stubExecutor{protocol: scenario.ProtocolHTTP})
	r.MustRegister(&stubExecutor{protocol: scenario.ProtocolGraphQL})

	got := r.Protocols()
	want := []scenario.Protocol{scenario.ProtocolGraphQL, scenario.ProtocolHTTP, scenario.ProtocolSQL}
	if len(got) != len(want) {
		t.Fatalf("Protocols() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Protocols()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&stubExecutor{protocol: scenario.ProtocolHTTP})

	defer func() {
		if recover() == nil {
			t.Error("MustRegister() did not panic on duplicate")
		}
	}()
	r.MustRegister(&stubExecutor{protocol: scenario.ProtocolHTTP})
}

func TestStatusSuccess(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{302, true},
		{399, true},
		{400, false},
		{500, false},
		{0, false},
	}
	for _, tt := range tests {
		if got := StatusSuccess(tt.code); got != tt.want {
			t.Errorf("StatusSuccess(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
