package openidconnect

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/biocad/openid-connect/transport"
)

func newRecordingTracer() (*tracetest.SpanRecorder, oteltrace.Tracer) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, provider.Tracer("test")
}

func attributesOf(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingTransport(t *testing.T) {
	req, err := transport.NewRequestFromString("https://op.example.com/.well-known/openid-configuration")
	require.NoError(t, err)

	t.Run("records a client span with the status", func(t *testing.T) {
		recorder, tracer := newRecordingTracer()
		tr := &tracingTransport{
			tracer: tracer,
			next: transport.Func(func(ctx context.Context, _ transport.Request) (*transport.Response, error) {
				assert.True(t, oteltrace.SpanFromContext(ctx).SpanContext().IsValid(), "span must be propagated")
				return &transport.Response{StatusCode: http.StatusOK}, nil
			}),
		}

		_, err := tr.Do(context.Background(), req)
		require.NoError(t, err)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "oidc GET", spans[0].Name())
		assert.Equal(t, oteltrace.SpanKindClient, spans[0].SpanKind())

		attrs := attributesOf(spans[0])
		assert.Equal(t, "GET", attrs["http.request.method"].AsString())
		assert.Equal(t, req.URL.String(), attrs["url.full"].AsString())
		assert.Equal(t, int64(http.StatusOK), attrs["http.response.status_code"].AsInt64())
		assert.Equal(t, codes.Unset, spans[0].Status().Code)
	})

	t.Run("marks error statuses", func(t *testing.T) {
		recorder, tracer := newRecordingTracer()
		tr := &tracingTransport{
			tracer: tracer,
			next: transport.Func(func(context.Context, transport.Request) (*transport.Response, error) {
				return &transport.Response{StatusCode: http.StatusBadGateway}, nil
			}),
		}

		_, err := tr.Do(context.Background(), req)
		require.NoError(t, err)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("records transport failures", func(t *testing.T) {
		recorder, tracer := newRecordingTracer()
		tr := &tracingTransport{
			tracer: tracer,
			next: transport.Func(func(context.Context, transport.Request) (*transport.Response, error) {
				return nil, errors.New("tls handshake timeout")
			}),
		}

		_, err := tr.Do(context.Background(), req)
		require.Error(t, err)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "tls handshake timeout", spans[0].Status().Description)
		require.NotEmpty(t, spans[0].Events(), "error must be recorded as an event")
	})
}

func TestTracingTransport_RequestWithoutAddress(t *testing.T) {
	recorder, tracer := newRecordingTracer()
	tr := &tracingTransport{
		tracer: tracer,
		next:   transport.NewHTTP(nil),
	}

	require.NotPanics(t, func() {
		_, err := tr.Do(context.Background(), transport.Request{Method: http.MethodGet})
		require.ErrorIs(t, err, transport.ErrInvalidAddress)
	})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	_, hasURL := attributesOf(spans[0])["url.full"]
	assert.False(t, hasURL)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
