// Package registration implements the client side of OpenID Connect Dynamic
// Client Registration.
//
// The registration endpoint is taken from a discovery document. A provider
// that does not advertise one, or advertises one that is not a usable
// address, is reported as *Unsupported before any request is made:
//
//	resp, err := registration.RegisterClient(ctx, t, doc, registration.ClientMetadata[registration.NoExtension]{
//	    Metadata: registration.Metadata{
//	        RedirectURIs: []string{"https://app.example.com/callback"},
//	        ClientName:   "example",
//	    },
//	})
//	if errors.Is(err, registration.ErrUnsupported) {
//	    // fall back to a statically configured client
//	}
package registration

import (
	"context"

	"github.com/biocad/openid-connect/discovery"
	"github.com/biocad/openid-connect/response"
	"github.com/biocad/openid-connect/transport"
)

// CodeInvalidClientMetadata is the RFC 7591 error code used when the
// metadata itself cannot be encoded.
const CodeInvalidClientMetadata = "invalid_client_metadata"

// RegisterClient posts metadata to the registration endpoint advertised by
// doc. The transport is invoked exactly once, and only when the endpoint is
// advertised and usable. Failures are always an Error.
func RegisterClient[E any](
	ctx context.Context,
	t transport.Transport,
	doc *discovery.Document,
	metadata ClientMetadata[E],
) (*ClientMetadataResponse[E], error) {
	if doc == nil || doc.RegistrationEndpoint == "" {
		return nil, &Unsupported{}
	}

	req, err := transport.NewRequestFromString(doc.RegistrationEndpoint)
	if err != nil {
		return nil, &Unsupported{Endpoint: doc.RegistrationEndpoint, Err: err}
	}

	req, err = transport.JSONPost(req, metadata)
	if err != nil {
		return nil, &ProviderFailure{Response: &response.ErrorResponse{
			Code:        CodeInvalidClientMetadata,
			Description: err.Error(),
			Err:         err,
		}}
	}

	registered, _, err := response.Fetch(ctx, t, req, response.JSON[ClientMetadataResponse[E]])
	if err != nil {
		return nil, &ProviderFailure{Response: response.AsErrorResponse(err)}
	}
	return &registered, nil
}
