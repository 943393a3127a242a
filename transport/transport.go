// Package transport holds the request and response shapes exchanged with an
// OpenID provider and the Transport capability that moves them.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxBodySize bounds how much of a response body HTTP reads.
// Discovery documents and key sets are typically well under 64KB.
const DefaultMaxBodySize = 1 << 20

// Response is what a provider answered. Non-2xx statuses are ordinary data.
type Response struct {
	StatusCode int
	Header     Header
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport executes a single request. Retries, timeouts and cancellation
// are the transport's business; callers never invoke it concurrently for
// one logical step.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Func adapts an ordinary function to the Transport interface.
type Func func(ctx context.Context, req Request) (*Response, error)

// Do calls f(ctx, req).
func (f Func) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// HTTP is a Transport backed by a *http.Client.
//
// net/http keeps headers in a map, so HTTP does not preserve field order
// across names in either direction: outgoing fields are written in the
// order net/http chooses and response fields come back sorted by name.
// Values of one name keep their relative order. Use another Transport when
// wire order matters.
type HTTP struct {
	Client      *http.Client
	MaxBodySize int64
}

// NewHTTP returns an HTTP transport. A nil client is replaced by one with
// a 30s timeout.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTP{
		Client:      client,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Do implements Transport.
func (t *HTTP) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := t.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	limit := t.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     HeaderFromHTTP(resp.Header),
		Body:       body,
	}, nil
}
