package openidconnect

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/biocad/openid-connect/transport"
)

func Test_New_OptionsValidation(t *testing.T) {
	stub := transport.Func(func(context.Context, transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusOK}, nil
	})

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name: "no options",
			opts: []Option{},
		},
		{
			name:    "nil transport",
			opts:    []Option{WithTransport(nil)},
			wantErr: ErrTransportNil,
		},
		{
			name:    "nil HTTP client",
			opts:    []Option{WithHTTPClient(nil)},
			wantErr: ErrHTTPClientNil,
		},
		{
			name:    "nil logger",
			opts:    []Option{WithLogger(nil)},
			wantErr: ErrLoggerNil,
		},
		{
			name:    "nil tracer",
			opts:    []Option{WithTracer(nil)},
			wantErr: ErrTracerNil,
		},
		{
			name:    "nil metrics",
			opts:    []Option{WithMetrics(nil)},
			wantErr: ErrMetricsNil,
		},
		{
			name: "full configuration",
			opts: []Option{
				WithTransport(stub),
				WithLogger(&DefaultLogger{}),
				WithTracer(noop.NewTracerProvider().Tracer("test")),
				WithMetrics(&NoopMetrics{}),
			},
		},
		{
			name: "first invalid option stops construction",
			opts: []Option{
				WithTransport(stub),
				WithLogger(nil),
				WithMetrics(nil),
			},
			wantErr: ErrLoggerNil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client.Transport())
		})
	}
}

func TestWithHTTPClient(t *testing.T) {
	httpClient := &http.Client{Timeout: 5 * time.Second}

	client, err := New(WithHTTPClient(httpClient))
	require.NoError(t, err)

	logging, ok := client.Transport().(*loggingTransport)
	require.True(t, ok, "logging is always the innermost decorator")

	base, ok := logging.next.(*transport.HTTP)
	require.True(t, ok)
	assert.Same(t, httpClient, base.Client)
	assert.Equal(t, int64(transport.DefaultMaxBodySize), base.MaxBodySize)
}

func TestWithTransport_TakesPrecedence(t *testing.T) {
	called := false
	stub := transport.Func(func(context.Context, transport.Request) (*transport.Response, error) {
		called = true
		return &transport.Response{StatusCode: http.StatusOK}, nil
	})

	client, err := New(WithHTTPClient(&http.Client{}), WithTransport(stub))
	require.NoError(t, err)

	req, err := transport.NewRequestFromString("https://op.example.com")
	require.NoError(t, err)

	_, err = client.Transport().Do(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, called)
}
