package discovery

import (
	"context"
	"errors"
	"net/url"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/biocad/openid-connect/expiry"
	"github.com/biocad/openid-connect/response"
	"github.com/biocad/openid-connect/transport"
)

// WellKnownPath is where a provider serves its discovery document by default.
const WellKnownPath = "/.well-known/openid-configuration"

var errNilAddress = errors.New("address is nil")

// Provider is a discovery document together with the key set it references.
type Provider struct {
	Document Document
	Keys     jwk.Set
}

// WellKnown returns u with its path replaced by WellKnownPath when the path
// is empty or "/". Any other path is kept, so providers serving discovery
// at a custom location can be addressed directly.
func WellKnown(u *url.URL) *url.URL {
	out := *u
	if u.Path == "" || u.Path == "/" {
		out.Path = WellKnownPath
		out.RawPath = ""
	}
	return &out
}

// Discover fetches the discovery document at address, which is parsed and
// rewritten with WellKnown first. Failures are always an Error.
func Discover(ctx context.Context, t transport.Transport, address string) (*Document, expiry.Expiration, error) {
	u, err := transport.ParseAddress(address)
	if err != nil {
		return nil, expiry.Expiration{}, &InvalidAddress{Address: address, Err: err}
	}
	return DiscoverURL(ctx, t, u)
}

// DiscoverURL is Discover for an already parsed address.
func DiscoverURL(ctx context.Context, t transport.Transport, u *url.URL) (*Document, expiry.Expiration, error) {
	if u == nil {
		return nil, expiry.Expiration{}, &InvalidAddress{Err: errNilAddress}
	}

	req, err := transport.NewRequest(WellKnown(u))
	if err != nil {
		return nil, expiry.Expiration{}, &InvalidAddress{Address: u.String(), Err: err}
	}

	doc, exp, err := response.Fetch(ctx, t, req, response.JSON[Document])
	if err != nil {
		return nil, expiry.Expiration{}, providerFailure(err)
	}
	return &doc, exp, nil
}

// FetchKeys fetches the key set referenced by doc.JWKSURI. Failures are
// always an Error.
func FetchKeys(ctx context.Context, t transport.Transport, doc *Document) (jwk.Set, expiry.Expiration, error) {
	if doc == nil {
		return nil, expiry.Expiration{}, &InvalidAddress{Err: errNilAddress}
	}

	req, err := transport.NewRequestFromString(doc.JWKSURI)
	if err != nil {
		return nil, expiry.Expiration{}, &InvalidAddress{Address: doc.JWKSURI, Err: err}
	}

	keys, exp, err := response.Fetch(ctx, t, req, parseKeySet)
	if err != nil {
		return nil, expiry.Expiration{}, providerFailure(err)
	}
	return keys, exp, nil
}

// DiscoverAndFetchKeys runs Discover and then, only if it succeeded,
// FetchKeys. The returned expiration is the earlier of the two, and is
// absent unless both responses carried one.
func DiscoverAndFetchKeys(ctx context.Context, t transport.Transport, address string) (*Provider, expiry.Expiration, error) {
	doc, docExp, err := Discover(ctx, t, address)
	if err != nil {
		return nil, expiry.Expiration{}, err
	}

	keys, keysExp, err := FetchKeys(ctx, t, doc)
	if err != nil {
		return nil, expiry.Expiration{}, err
	}

	return &Provider{Document: *doc, Keys: keys}, expiry.Both(docExp, keysExp), nil
}

func parseKeySet(body []byte) (jwk.Set, error) {
	return jwk.Parse(body)
}
