package registration

import (
	"errors"
	"fmt"

	"github.com/biocad/openid-connect/response"
)

// ErrUnsupported is matched by every *Unsupported.
var ErrUnsupported = errors.New("dynamic client registration is not supported")

// Error is the closed set of registration failures: *Unsupported and
// *ProviderFailure.
type Error interface {
	error
	registrationError()
}

// Unsupported reports a provider that does not advertise a registration
// endpoint, or advertises one that cannot be turned into a request.
type Unsupported struct {
	// Endpoint is the advertised address, empty when none is advertised.
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *Unsupported) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registration: %v: endpoint %q: %v", ErrUnsupported, e.Endpoint, e.Err)
	}
	return "registration: " + ErrUnsupported.Error()
}

// Unwrap returns the address error, if any.
func (e *Unsupported) Unwrap() error {
	return e.Err
}

// Is allows the error to be compared with ErrUnsupported.
func (e *Unsupported) Is(target error) bool {
	return target == ErrUnsupported
}

func (*Unsupported) registrationError() {}

// ProviderFailure reports a provider that rejected the registration,
// answered with something undecodable, or could not be reached.
type ProviderFailure struct {
	Response *response.ErrorResponse
}

// Error implements the error interface.
func (e *ProviderFailure) Error() string {
	return fmt.Sprintf("registration: provider failure: %v", e.Response)
}

// Unwrap returns the provider's error response.
func (e *ProviderFailure) Unwrap() error {
	return e.Response
}

func (*ProviderFailure) registrationError() {}
