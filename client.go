package openidconnect

import (
	"context"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/biocad/openid-connect/discovery"
	"github.com/biocad/openid-connect/expiry"
	"github.com/biocad/openid-connect/registration"
	"github.com/biocad/openid-connect/transport"
)

// Client runs the discovery and registration protocols over a configured
// transport. It holds no provider state and is safe for concurrent use as
// long as its transport is.
type Client struct {
	transport  transport.Transport
	httpClient *http.Client
	logger     Logger
	tracer     oteltrace.Tracer
	metrics    Metrics
}

// New creates a Client with the provided options.
//
// Example:
//
//	client, err := openidconnect.New(
//	    openidconnect.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
//	    openidconnect.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	provider, exp, err := client.DiscoverAndFetchKeys(ctx, "https://issuer.example.com")
func New(opts ...Option) (*Client, error) {
	c := &Client{
		logger: NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.transport == nil {
		c.transport = transport.NewHTTP(c.httpClient)
	}

	// Innermost first: logging sees the raw exchange, metrics the whole call.
	c.transport = &loggingTransport{next: c.transport, logger: c.logger}
	if c.tracer != nil {
		c.transport = &tracingTransport{next: c.transport, tracer: c.tracer}
	}
	if c.metrics != nil {
		c.transport = &metricsTransport{next: c.transport, metrics: c.metrics, now: time.Now}
	}

	return c, nil
}

// Transport returns the decorated transport the client issues requests with.
func (c *Client) Transport() transport.Transport {
	return c.transport
}

// Discover fetches the discovery document for issuer.
func (c *Client) Discover(ctx context.Context, issuer string) (*discovery.Document, expiry.Expiration, error) {
	doc, exp, err := discovery.Discover(ctx, c.transport, issuer)
	if err != nil {
		c.logger.Errorf("discovery for %s failed: %v", issuer, err)
		return nil, expiry.Expiration{}, err
	}
	c.logger.Debugf("discovered %s, expires %s", issuer, exp)
	return doc, exp, nil
}

// FetchKeys fetches the key set referenced by doc.
func (c *Client) FetchKeys(ctx context.Context, doc *discovery.Document) (jwk.Set, expiry.Expiration, error) {
	keys, exp, err := discovery.FetchKeys(ctx, c.transport, doc)
	if err != nil {
		c.logger.Errorf("fetching keys failed: %v", err)
		return nil, expiry.Expiration{}, err
	}
	c.logger.Debugf("fetched %d keys from %s, expires %s", keys.Len(), doc.JWKSURI, exp)
	return keys, exp, nil
}

// DiscoverAndFetchKeys fetches the discovery document for issuer and then
// the key set it references.
func (c *Client) DiscoverAndFetchKeys(ctx context.Context, issuer string) (*discovery.Provider, expiry.Expiration, error) {
	provider, exp, err := discovery.DiscoverAndFetchKeys(ctx, c.transport, issuer)
	if err != nil {
		c.logger.Errorf("provider discovery for %s failed: %v", issuer, err)
		return nil, expiry.Expiration{}, err
	}
	c.logger.Infof("discovered provider %s with %d keys, expires %s", issuer, provider.Keys.Len(), exp)
	return provider, exp, nil
}

// RegisterClient registers metadata with the provider described by doc
// using c's transport. It is a function because methods cannot have type
// parameters.
func RegisterClient[E any](
	ctx context.Context,
	c *Client,
	doc *discovery.Document,
	metadata registration.ClientMetadata[E],
) (*registration.ClientMetadataResponse[E], error) {
	resp, err := registration.RegisterClient(ctx, c.transport, doc, metadata)
	if err != nil {
		c.logger.Errorf("client registration failed: %v", err)
		return nil, err
	}
	c.logger.Infof("registered client %s", resp.ClientID)
	return resp, nil
}
