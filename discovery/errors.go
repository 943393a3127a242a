package discovery

import (
	"fmt"

	"github.com/biocad/openid-connect/response"
)

// Error is the closed set of discovery failures: *ProviderFailure and
// *InvalidAddress.
type Error interface {
	error
	discoveryError()
}

// ProviderFailure reports a provider that answered with an error object, or
// with something that could not be decoded, or that could not be reached.
type ProviderFailure struct {
	Response *response.ErrorResponse
}

// Error implements the error interface.
func (e *ProviderFailure) Error() string {
	return fmt.Sprintf("discovery: provider failure: %v", e.Response)
}

// Unwrap returns the provider's error response.
func (e *ProviderFailure) Unwrap() error {
	return e.Response
}

func (*ProviderFailure) discoveryError() {}

// InvalidAddress reports an address that cannot be turned into a request.
type InvalidAddress struct {
	Address string
	Err     error
}

// Error implements the error interface.
func (e *InvalidAddress) Error() string {
	return fmt.Sprintf("discovery: invalid address %q: %v", e.Address, e.Err)
}

// Unwrap returns the underlying address error.
func (e *InvalidAddress) Unwrap() error {
	return e.Err
}

func (*InvalidAddress) discoveryError() {}

func providerFailure(err error) Error {
	return &ProviderFailure{Response: response.AsErrorResponse(err)}
}
