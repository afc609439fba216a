package httpexec

import (
	"net/http"
	"testing"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

func TestDefaultClientConfig(t *testing.T) {
	cfg := DefaultClientConfig()

	if cfg.MaxIdleConns != 1000 {
		t.Errorf("MaxIdleConns = %d, want 1000", cfg.MaxIdleConns)
	}
	if cfg.MaxIdleConnsPerHost != 100 {
		t.Errorf("MaxIdleConnsPerHost = %d, want 100", cfg.MaxIdleConnsPerHost)
	}
	if cfg.MaxConnsPerHost != 0 {
		t.Errorf("MaxConnsPerHost = %d, want 0 (unlimited)", cfg.MaxConnsPerHost)
	}
	if cfg.IdleConnTimeout != 90*time.Second {
		t.Errorf("IdleConnTimeout = %v, want 90s", cfg.IdleConnTimeout)
	}
	if cfg.DisableKeepAlives {
		t.Error("DisableKeepAlives = true, want false")
	}
}

func TestNewClientAppliesConfig(t *testing.T) {
	client := NewClient(ClientConfig{
		MaxIdleConns:        500,
		MaxIdleConnsPerHost: 50,
		MaxConnsPerHost:     25,
		IdleConnTimeout:     time.Minute,
		DisableKeepAlives:   true,
		InsecureSkipVerify:  true,
	})

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport is %T, want *http.Transport", client.Transport)
	}
	if transport.MaxIdleConns != 500 {
		t.Errorf("MaxIdleConns = %d, want 500", transport.MaxIdleConns)
	}
	if transport.MaxIdleConnsPerHost != 50 {
		t.Errorf("MaxIdleConnsPerHost = %d, want 50", transport.MaxIdleConnsPerHost)
	}
	if transport.MaxConnsPerHost != 25 {
		t.Errorf("MaxConnsPerHost = %d, want 25", transport.MaxConnsPerHost)
	}
	if !transport.DisableKeepAlives {
		t.Error("DisableKeepAlives = false, want true")
	}
	if transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify {
		t.Error("InsecureSkipVerify not applied to TLS config")
	}
	if client.Timeout != 0 {
		t.Errorf("client.Timeout = %v; timeouts are per request", client.Timeout)
	}
}

func TestNewClientSecureByDefault(t *testing.T) {
	client := NewClient(DefaultClientConfig())
	transport := client.Transport.(*http.Transport)
	if transport.TLSClientConfig != nil {
		t.Error("TLSClientConfig set without InsecureSkipVerify")
	}
}

func TestRegisterAll(t *testing.T) {
	reg := protocol.NewRegistry()
	if err := RegisterAll(reg, nil); err != nil {
		t.Fatalf("RegisterAll() error: %v", err)
	}

	for _, proto := range []scenario.Protocol{scenario.ProtocolHTTP, scenario.ProtocolGraphQL, scenario.ProtocolSOAP} {
		exec, err := reg.Lookup(proto)
		if err != nil {
			t.Errorf("Lookup(%s) error: %v", proto, err)
			continue
		}
		if exec.Protocol() != proto {
			t.Errorf("Lookup(%s) returned executor for %s", proto, exec.Protocol())
		}
	}

	// Registering into the same registry twice must collide.
	if err := RegisterAll(reg, nil); err == nil {
		t.Error("RegisterAll() twice succeeded, want duplicate error")
	}
}
