package httpexec

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
)

// send performs one HTTP exchange and maps it to a protocol response.
// Transport and read failures come back inside the response, never as a Go
// error: to the engine they are failed samples like any error status.
func send(ctx context.Context, client *http.Client, timeout time.Duration, req *http.Request) *protocol.Response {
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	timing := &protocol.Timing{}
	start := time.Now()

	// Capture connection-phase timings. On a reused connection only the
	// first-byte callback fires and the other phases stay zero.
	var dnsStart, connectStart, tlsStart time.Time
	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			timing.DNS = time.Since(dnsStart)
		},
		ConnectStart: func(string, string) {
			connectStart = time.Now()
		},
		ConnectDone: func(_, _ string, err error) {
			if err == nil {
				timing.Connect = time.Since(connectStart)
			}
		},
		TLSHandshakeStart: func() {
			tlsStart = time.Now()
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err == nil {
				timing.TLS = time.Since(tlsStart)
			}
		},
		GotFirstResponseByte: func() {
			timing.TTFB = time.Since(start)
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(reqCtx, trace))

	httpResp, err := client.Do(req)
	if err != nil {
		return &protocol.Response{
			Elapsed: time.Since(start),
			Err:     err,
			Timing:  timing,
		}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return &protocol.Response{
			StatusCode: httpResp.StatusCode,
			Elapsed:    elapsed,
			Err:        err,
			Timing:     timing,
		}
	}

	headers := make(map[string]string, len(httpResp.Header))
	for key := range httpResp.Header {
		headers[key] = httpResp.Header.Get(key)
	}

	return &protocol.Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    headers,
		Elapsed:    elapsed,
		Success:    protocol.StatusSuccess(httpResp.StatusCode),
		Timing:     timing,
	}
}

// failed wraps a pre-flight failure (request building, payload encoding)
// into a failed response so a bad data row costs one sample, not the run.
func failed(err error) *protocol.Response {
	return &protocol.Response{Err: err}
}
