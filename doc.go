/*
Package openidconnect is a client for two OpenID Connect protocol steps:
Provider Discovery and Dynamic Client Registration.

The protocols themselves live in subpackages and only need a
transport.Transport. This package wraps them in a Client that adds logging,
tracing and metrics around the transport.

# Quick Start

	import (
	    "github.com/biocad/openid-connect"
	    "github.com/biocad/openid-connect/registration"
	)

	func main() {
	    client, err := openidconnect.New(
	        openidconnect.WithLogger(openidconnect.NewLogrusLogger(logrus.StandardLogger())),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    provider, exp, err := client.DiscoverAndFetchKeys(ctx, "https://issuer.example.com")
	    if err != nil {
	        log.Fatal(err)
	    }

	    resp, err := openidconnect.RegisterClient(ctx, client, &provider.Document,
	        registration.ClientMetadata[registration.NoExtension]{
	            Metadata: registration.Metadata{
	                RedirectURIs: []string{"https://app.example.com/callback"},
	            },
	        })
	}

# Packages

  - transport: requests, responses, ordered headers and the Transport interface
  - expiry: cache expiration from Date, Cache-Control and Expires
  - response: decoding provider responses and error objects
  - discovery: discovery document and key set retrieval
  - registration: dynamic client registration
  - providercache: reuse of discovered providers until they expire

# Requests

Every request is sent over https whatever scheme the address carries, and
accepts application/json. Requests are never retried; a failed call is
returned to the caller.

# Observability

	client, err := openidconnect.New(
	    openidconnect.WithTracer(otel.Tracer("oidc")),
	    openidconnect.WithMetrics(openidconnect.NewPrometheusMetrics(prometheus.DefaultRegisterer)),
	)

Tracing starts one client span per request. Metrics count requests by method
and status (oidc_client_requests_total) and record their latency
(oidc_client_request_duration_seconds).
*/
package openidconnect
