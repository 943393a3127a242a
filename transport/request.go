package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	// MediaTypeJSON is the media type sent in Accept and Content-Type.
	MediaTypeJSON = "application/json"

	schemeHTTPS = "https"
)

// ErrInvalidAddress is matched by every *AddressError.
var ErrInvalidAddress = errors.New("invalid address")

// A port alone, as in "https://:443", is not a host.
var errMissingHost = errors.New("missing host")

// AddressError reports an address that cannot be used as a request target.
type AddressError struct {
	Address string
	Err     error
}

// Error implements the error interface.
func (e *AddressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid address %q: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("invalid address %q", e.Address)
}

// Unwrap returns the underlying parse error.
func (e *AddressError) Unwrap() error {
	return e.Err
}

// Is allows the error to be compared with ErrInvalidAddress.
func (e *AddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}

// Request is an outbound request handed to a Transport.
type Request struct {
	Method string
	URL    *url.URL
	Header Header
	Body   []byte
}

// ParseAddress parses text into an absolute address with a host.
func ParseAddress(text string) (*url.URL, error) {
	u, err := url.Parse(text)
	if err != nil {
		return nil, &AddressError{Address: text, Err: err}
	}
	if u.Hostname() == "" {
		return nil, &AddressError{Address: text, Err: errMissingHost}
	}
	return u, nil
}

// NewRequest builds a GET request for u. The scheme is always forced to
// https and the request accepts application/json.
func NewRequest(u *url.URL) (Request, error) {
	if u == nil {
		return Request{}, &AddressError{Err: errors.New("address is nil")}
	}
	if u.Hostname() == "" || u.Opaque != "" {
		return Request{}, &AddressError{Address: u.String(), Err: errMissingHost}
	}

	target := *u
	target.Scheme = schemeHTTPS

	return AddHeader(Request{
		Method: http.MethodGet,
		URL:    &target,
	}, "Accept", MediaTypeJSON), nil
}

// NewRequestFromString parses text and builds a GET request for it.
func NewRequestFromString(text string) (Request, error) {
	u, err := ParseAddress(text)
	if err != nil {
		return Request{}, err
	}
	return NewRequest(u)
}

// AddHeader returns a copy of req with the header name set to value.
// Any field with the same name, compared case-insensitively, is replaced.
func AddHeader(req Request, name, value string) Request {
	req.Header = req.Header.Set(name, value)
	return req
}

// JSONPost turns req into a POST carrying body encoded as JSON.
func JSONPost(req Request, body any) (Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Request{}, fmt.Errorf("could not encode request body: %w", err)
	}

	req.Method = http.MethodPost
	req.Body = payload
	return AddHeader(req, "Content-Type", MediaTypeJSON), nil
}

// HTTPRequest converts req into a *http.Request bound to ctx.
func (r Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	if r.URL == nil {
		return nil, &AddressError{Err: errors.New("address is nil")}
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("could not build request: %w", err)
	}
	req.Header = r.Header.HTTP()
	return req, nil
}
