/*
Package discovery implements the client side of OpenID Connect Discovery:
fetching a provider's metadata document and the key set it references.

# Discovery

A provider serves its metadata at a well-known address:

	https://issuer.example.com/.well-known/openid-configuration

Discover accepts the issuer address and substitutes the well-known path when
the address has no path or just "/". Any other path is used as given, which
supports providers that publish discovery elsewhere.

# Usage

	t := transport.NewHTTP(nil)

	provider, exp, err := discovery.DiscoverAndFetchKeys(ctx, t, "https://issuer.example.com")
	if err != nil {
	    var failure *discovery.ProviderFailure
	    if errors.As(err, &failure) {
	        log.Printf("provider said %s", failure.Response.Code)
	    }
	    return err
	}

	if until, ok := exp.Time(); ok {
	    // provider may be reused until this instant
	}

# Requests

Discovery and key retrieval are issued strictly in sequence, once each: the
key set address is only known after the discovery document is decoded. No
request is retried.

# Errors

Every failure is an Error, one of:
  - *InvalidAddress: an address could not be turned into a request
  - *ProviderFailure: the provider answered with an error, answered with
    something undecodable, or could not be reached

# Expiration

The expiration returned by DiscoverAndFetchKeys is the earlier of the
discovery and key set expirations. When either response is not cacheable,
neither is the Provider.
*/
package discovery
