package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
			w.Header().Set("X-Method", r.Method)
			w.Header().Set("X-Accept", r.Header.Get("Accept"))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)
		case "/large":
			_, _ = w.Write([]byte(strings.Repeat("a", 64)))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"not_found"}`))
		}
	}))
	defer server.Close()

	tr := NewHTTP(server.Client())

	t.Run("sends method, headers and body", func(t *testing.T) {
		req, err := NewRequestFromString(server.URL + "/echo")
		require.NoError(t, err)
		req, err = JSONPost(req, map[string]string{"hello": "world"})
		require.NoError(t, err)

		resp, err := tr.Do(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.True(t, resp.IsSuccess())
		assert.JSONEq(t, `{"hello":"world"}`, string(resp.Body))

		method, _ := resp.Header.Get("X-Method")
		assert.Equal(t, http.MethodPost, method)
		accept, _ := resp.Header.Get("X-Accept")
		assert.Equal(t, MediaTypeJSON, accept)
	})

	t.Run("returns non-2xx responses as data", func(t *testing.T) {
		req, err := NewRequestFromString(server.URL + "/missing")
		require.NoError(t, err)

		resp, err := tr.Do(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.False(t, resp.IsSuccess())
		assert.Equal(t, `{"code":"not_found"}`, string(resp.Body))
	})

	t.Run("limits the body size", func(t *testing.T) {
		limited := NewHTTP(server.Client())
		limited.MaxBodySize = 10

		req, err := NewRequestFromString(server.URL + "/large")
		require.NoError(t, err)

		resp, err := limited.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, resp.Body, 10)
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req, err := NewRequestFromString(server.URL + "/echo")
		require.NoError(t, err)

		_, err = tr.Do(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewHTTPDefaultsClient(t *testing.T) {
	tr := NewHTTP(nil)
	require.NotNil(t, tr.Client)
	assert.NotZero(t, tr.Client.Timeout)
	assert.Equal(t, int64(DefaultMaxBodySize), tr.MaxBodySize)
}

func TestFunc(t *testing.T) {
	var called bool
	tr := Func(func(_ context.Context, req Request) (*Response, error) {
		called = true
		return &Response{StatusCode: http.StatusNoContent}, nil
	})

	resp, err := tr.Do(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, resp.IsSuccess())
}
