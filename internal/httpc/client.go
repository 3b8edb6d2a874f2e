// Package httpc builds the HTTP clients used for Google API calls.
// Clients share one transport so the Gemini and speech endpoints
// reuse the same connection pool.
package httpc

import (
	"net"
	"net/http"
	"time"
)

// Connection tuning. The per-request timeout comes from the caller;
// these only bound dialing and pooling.
const (
	connectTimeout  = 10 * time.Second
	keepAlive       = 30 * time.Second
	idleConnTimeout = 90 * time.Second
)

// transport is shared by every client NewClient hands out.
var transport = &http.Transport{
	DialContext: (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: keepAlive,
	}).DialContext,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       idleConnTimeout,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// NewClient returns a client with the given overall request timeout.
// Speech uploads and LLM completions can take several seconds on a
// Pi's uplink, so callers pass generous values.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
