// Package expiry derives how long a provider response may be cached from
// its Date, Cache-Control and Expires headers.
package expiry

import (
	"strconv"
	"strings"
	"time"

	"github.com/biocad/openid-connect/transport"
)

const (
	// DateLayout is the fixed HTTP date format used by Date and Expires.
	DateLayout = time.RFC1123

	maxAgeDirective = "max-age"

	// At most six digits of max-age are read, which bounds the lifetime
	// to 999999 seconds whatever the header claims.
	maxAgeDigits = 6
)

// Expiration is an absolute instant after which a response is stale.
// The zero value means the response must not be cached.
type Expiration struct {
	at time.Time
}

// At returns an Expiration at t.
func At(t time.Time) Expiration {
	return Expiration{at: t}
}

// Time returns the expiration instant and whether one is present.
func (e Expiration) Time() (time.Time, bool) {
	return e.at, !e.at.IsZero()
}

// IsZero reports whether e carries no instant.
func (e Expiration) IsZero() bool {
	return e.at.IsZero()
}

// TTL returns how long after now the expiration lies, or zero when it is
// absent or already passed.
func (e Expiration) TTL(now time.Time) time.Duration {
	if e.IsZero() || !e.at.After(now) {
		return 0
	}
	return e.at.Sub(now)
}

// String implements fmt.Stringer.
func (e Expiration) String() string {
	if e.IsZero() {
		return "none"
	}
	return e.at.UTC().Format(DateLayout)
}

// FromHeader computes the expiration of a response from its headers.
//
// A computable max-age, counted from the Date header, always wins over
// Expires. An Expires earlier than Date yields no expiration.
func FromHeader(h transport.Header) Expiration {
	date, hasDate := headerTime(h, "Date")

	if cacheControl, ok := h.Get("Cache-Control"); ok && hasDate {
		if maxAge, ok := parseMaxAge(cacheControl); ok {
			return At(date.Add(maxAge))
		}
	}

	if expires, ok := headerTime(h, "Expires"); ok {
		if hasDate && expires.Before(date) {
			return Expiration{}
		}
		return At(expires)
	}

	return Expiration{}
}

// Both combines two independent expirations. The result is the earlier of
// the two, and is absent unless both are present.
func Both(a, b Expiration) Expiration {
	if a.IsZero() || b.IsZero() {
		return Expiration{}
	}
	if b.at.Before(a.at) {
		return b
	}
	return a
}

func headerTime(h transport.Header, name string) (time.Time, bool) {
	value, ok := h.Get(name)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseMaxAge reads the run of digits following the first max-age in the
// header value, with an optional '=' in between.
func parseMaxAge(cacheControl string) (time.Duration, bool) {
	value := strings.ToLower(cacheControl)
	i := strings.Index(value, maxAgeDirective)
	if i < 0 {
		return 0, false
	}
	rest := strings.TrimPrefix(value[i+len(maxAgeDirective):], "=")

	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, false
	}
	if n > maxAgeDigits {
		n = maxAgeDigits
	}

	seconds, err := strconv.Atoi(rest[:n])
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
