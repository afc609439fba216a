package httpexec

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

func resolved(p scenario.Payload) *protocol.ResolvedRequest {
	return &protocol.ResolvedRequest{Name: "req", Payload: p}
}

func TestExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected method POST, got %s", r.Method)
		}
		if r.URL.Path != "/orders" {
			t.Errorf("Expected path /orders, got %s", r.URL.Path)
		}
		if r.Header.Get("X-Token") != "secret" {
			t.Errorf("Expected header X-Token: secret, got %s", r.Header.Get("X-Token"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"item":42}` {
			t.Errorf("Expected body {\"item\":42}, got %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7}`))
	}))
	defer server.Close()

	exec := New(nil)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL:     server.URL + "/orders",
		Method:  "POST",
		Headers: map[string]string{"X-Token": "secret"},
		Body:    `{"item":42}`,
	}), 5*time.Second)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if string(resp.Body) != `{"id":7}` {
		t.Errorf("Body = %s, want {\"id\":7}", resp.Body)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type header = %s, want application/json", resp.Headers["Content-Type"])
	}
	if !resp.Success {
		t.Error("Success = false, want true for 201")
	}
	if resp.Err != nil {
		t.Errorf("Err = %v, want nil", resp.Err)
	}
	if resp.Elapsed <= 0 {
		t.Error("Elapsed not measured")
	}
	if resp.Timing == nil {
		t.Fatal("Timing = nil, want phase breakdown")
	}
	if resp.Timing.TTFB <= 0 {
		t.Error("Timing.TTFB not measured")
	}
}

func TestExecuteQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("Expected query page=2, got %s", got)
		}
		if got := r.URL.Query().Get("q"); got != "shoes" {
			t.Errorf("Expected query q=shoes, got %s", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec := New(nil)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL:    server.URL + "/search?q=shoes",
		Method: "GET",
		Params: map[string]string{"page": "2"},
	}), 5*time.Second)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}

func TestExecuteUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec := New(nil)

	if _, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL: server.URL, Method: "GET",
	}), time.Second); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if gotAgent != defaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotAgent, defaultUserAgent)
	}

	if _, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL: server.URL, Method: "GET",
		Headers: map[string]string{"User-Agent": "custom-agent"},
	}), time.Second); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if gotAgent != "custom-agent" {
		t.Errorf("User-Agent = %q, want custom-agent", gotAgent)
	}
}

func TestExecuteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	exec := New(nil)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL: server.URL, Method: "GET",
	}), time.Second)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if resp.Success {
		t.Error("Success = true, want false for 500")
	}
	if resp.Err != nil {
		t.Errorf("Err = %v; an error status is not a transport error", resp.Err)
	}
}

func TestExecuteTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	exec := New(nil)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL: server.URL, Method: "GET",
	}), time.Second)
	if err != nil {
		t.Fatalf("Execute() error = %v; transport failures belong in the response", err)
	}

	if resp.Err == nil {
		t.Fatal("Err = nil, want connection failure")
	}
	if resp.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", resp.StatusCode)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
}

func TestExecuteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec := New(nil)
	start := time.Now()
	resp, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL: server.URL, Method: "GET",
	}), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if resp.Err == nil {
		t.Fatal("Err = nil, want timeout failure")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("Execute() took %v, want the 50ms timeout to cut it short", elapsed)
	}
}

func TestExecuteBadPayloadType(t *testing.T) {
	exec := New(nil)
	_, err := exec.Execute(context.Background(), resolved(&scenario.SQLRequest{
		Statement: "SELECT 1",
	}), time.Second)
	if err == nil {
		t.Fatal("Execute() succeeded with a SQL payload, want error")
	}
}

func TestExecuteInvalidURL(t *testing.T) {
	exec := New(nil)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL:    "://missing-scheme",
		Method: "GET",
		Params: map[string]string{"a": "b"},
	}), time.Second)
	if err != nil {
		t.Fatalf("Execute() error = %v; a bad resolved URL is a failed sample", err)
	}
	if resp.Err == nil {
		t.Error("Err = nil, want URL parse failure")
	}
}
