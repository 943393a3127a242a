package openidconnect

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/biocad/openid-connect/transport"
)

// tracingTransport starts one client span per request.
type tracingTransport struct {
	next   transport.Transport
	tracer oteltrace.Tracer
}

func (t *tracingTransport) Do(ctx context.Context, req transport.Request) (*transport.Response, error) {
	attrs := []attribute.KeyValue{attribute.String("http.request.method", req.Method)}
	if req.URL != nil {
		attrs = append(attrs, attribute.String("url.full", req.URL.String()))
	}

	ctx, span := t.tracer.Start(ctx, "oidc "+req.Method,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(attrs...),
	)
	defer span.End()

	resp, err := t.next.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	if resp == nil {
		return nil, nil
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if !resp.IsSuccess() {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}
