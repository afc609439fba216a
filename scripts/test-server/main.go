// Local target server for trying out volley plans: JSON, GraphQL and SOAP
// endpoints, injectable latency and a flaky endpoint for threshold testing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "healthy")
	})

	mux.HandleFunc("/status/200", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	// JSON body with stable fields for extraction and jsonpath validators.
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": fmt.Sprintf("tok-%d", rand.Int63()),
			"user":  map[string]interface{}{"id": 42, "name": "alice"},
		})
	})

	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			OperationName string `json:"operationName"`
		}
		json.Unmarshal(body, &req)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"operation":  req.OperationName,
				"serverTime": time.Now().Format(time.RFC3339),
			},
		})
	})

	mux.HandleFunc("/soap", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body><EchoResponse><status>ok</status></EchoResponse></soap:Body>
</soap:Envelope>`)
	})

	// /delay?ms=250 holds the response for the requested time.
	mux.HandleFunc("/delay", func(w http.ResponseWriter, r *http.Request) {
		ms, err := strconv.Atoi(r.URL.Query().Get("ms"))
		if err != nil || ms < 0 {
			ms = 100
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "delayed %dms", ms)
	})

	// /flaky?rate=0.1 fails the given fraction of requests with a 500.
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		rate, err := strconv.ParseFloat(r.URL.Query().Get("rate"), 64)
		if err != nil || rate < 0 || rate > 1 {
			rate = 0.1
		}
		if rand.Float64() < rate {
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Printf("Starting test target on %s", *addr)
	log.Printf("Endpoints: /health /status/200 /login /graphql /soap /delay /flaky")

	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
