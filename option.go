package openidconnect

import (
	"errors"
	"net/http"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/biocad/openid-connect/transport"
)

// Sentinel errors for configuration validation.
var (
	ErrTransportNil  = errors.New("transport cannot be nil")
	ErrHTTPClientNil = errors.New("HTTP client cannot be nil")
	ErrLoggerNil     = errors.New("logger cannot be nil")
	ErrTracerNil     = errors.New("tracer cannot be nil")
	ErrMetricsNil    = errors.New("metrics cannot be nil")
)

// Option configures the Client.
// Returns error for validation failures.
type Option func(*Client) error

// WithTransport sets the transport requests are executed with.
// It takes precedence over WithHTTPClient.
//
// Default: transport.NewHTTP with a 30s timeout
func WithTransport(t transport.Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return ErrTransportNil
		}
		c.transport = t
		return nil
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return ErrHTTPClientNil
		}
		c.httpClient = client
		return nil
	}
}

// WithLogger sets a logger for requests and orchestration steps.
//
// Example:
//
//	client, err := openidconnect.New(
//	    openidconnect.WithLogger(openidconnect.NewLogrusLogger(logrus.StandardLogger())),
//	)
func WithLogger(logger Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return ErrLoggerNil
		}
		c.logger = logger
		return nil
	}
}

// WithTracer wraps every request in an OpenTelemetry client span.
func WithTracer(tracer oteltrace.Tracer) Option {
	return func(c *Client) error {
		if tracer == nil {
			return ErrTracerNil
		}
		c.tracer = tracer
		return nil
	}
}

// WithMetrics records a counter and a latency histogram for every request.
func WithMetrics(metrics Metrics) Option {
	return func(c *Client) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		c.metrics = metrics
		return nil
	}
}
