// Package response turns provider responses into typed values or
// classified provider errors.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/biocad/openid-connect/expiry"
	"github.com/biocad/openid-connect/transport"
)

const (
	// MaxDescriptionBytes caps how much of an undecodable body is kept.
	MaxDescriptionBytes = 1024

	// CodeInvalidResponse marks a response body that could not be decoded.
	CodeInvalidResponse = "invalid_response"

	// CodeTransportError marks a request the transport failed to deliver.
	CodeTransportError = "transport_error"
)

// ErrorResponse is an error object reported by, or synthesized for, a
// provider. Both the {"code","description"} and the OAuth 2.0
// {"error","error_description"} spellings are accepted.
type ErrorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`

	// Err is the cause of a synthesized error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	if e.Description != "" {
		return e.Code + ": " + e.Description
	}
	return e.Code
}

// Unwrap returns the cause of a synthesized error.
func (e *ErrorResponse) Unwrap() error {
	return e.Err
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code             string `json:"code"`
		Description      string `json:"description"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Code = raw.Code
	if e.Code == "" {
		e.Code = raw.Error
	}
	e.Description = raw.Description
	if e.Description == "" {
		e.Description = raw.ErrorDescription
	}
	if e.Code == "" {
		return errors.New("error response has no code")
	}
	return nil
}

// Decoder decodes a response body into a value.
type Decoder[T any] func(body []byte) (T, error)

// JSON decodes body as JSON into a T.
func JSON[T any](body []byte) (T, error) {
	var v T
	err := json.Unmarshal(body, &v)
	return v, err
}

// Parse classifies resp. A 2xx body decoded by decode is returned with the
// expiration computed from the headers. Any other outcome is returned as a
// *ErrorResponse: the provider's own error object when a non-2xx body
// carries one, a synthesized invalid_response error otherwise.
func Parse[T any](resp *transport.Response, decode Decoder[T]) (T, expiry.Expiration, error) {
	var zero T

	if resp.IsSuccess() {
		v, err := decode(resp.Body)
		if err != nil {
			return zero, expiry.Expiration{}, invalidResponse(resp.Body, err)
		}
		return v, expiry.FromHeader(resp.Header), nil
	}

	var providerErr ErrorResponse
	if err := json.Unmarshal(resp.Body, &providerErr); err != nil {
		return zero, expiry.Expiration{}, invalidResponse(resp.Body, fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}
	return zero, expiry.Expiration{}, &providerErr
}

// Fetch invokes t exactly once with req and parses the result. A transport
// failure is reported as a transport_error *ErrorResponse wrapping it.
func Fetch[T any](ctx context.Context, t transport.Transport, req transport.Request, decode Decoder[T]) (T, expiry.Expiration, error) {
	resp, err := t.Do(ctx, req)
	if err == nil && resp == nil {
		err = errors.New("transport returned no response")
	}
	if err != nil {
		var zero T
		return zero, expiry.Expiration{}, &ErrorResponse{
			Code:        CodeTransportError,
			Description: err.Error(),
			Err:         err,
		}
	}
	return Parse(resp, decode)
}

func invalidResponse(body []byte, cause error) *ErrorResponse {
	if len(body) > MaxDescriptionBytes {
		body = body[:MaxDescriptionBytes]
	}
	return &ErrorResponse{
		Code:        CodeInvalidResponse,
		Description: strings.ToValidUTF8(string(body), "\uFFFD"),
		Err:         cause,
	}
}

// AsErrorResponse returns err as an *ErrorResponse, synthesizing an
// invalid_response one when err is of another type.
func AsErrorResponse(err error) *ErrorResponse {
	var errResp *ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}
	return &ErrorResponse{Code: CodeInvalidResponse, Description: err.Error(), Err: err}
}
