package transport

import (
	"net/http"
	"sort"
	"strings"
)

// HeaderField is a single header line.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered list of header fields. Names compare
// case-insensitively; the wire order of the fields is preserved.
type Header []HeaderField

// Get returns the value of the first field named name.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns the values of every field named name, in order.
func (h Header) Values(name string) []string {
	var values []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Set returns a copy of h in which every field named name is dropped and
// the new field is placed in front. The other fields keep their order.
func (h Header) Set(name, value string) Header {
	out := make(Header, 0, len(h)+1)
	out = append(out, HeaderField{Name: name, Value: value})
	for _, f := range h {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a copy of h that shares no storage with it.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	out := make(Header, len(h))
	copy(out, h)
	return out
}

// HTTP converts h into a net/http header map. Order across names is lost;
// values of one name keep their order.
func (h Header) HTTP() http.Header {
	out := make(http.Header, len(h))
	for _, f := range h {
		out.Add(f.Name, f.Value)
	}
	return out
}

// HeaderFromHTTP converts a net/http header map. Map iteration has no
// order, so names are sorted to keep the result deterministic.
func HeaderFromHTTP(hh http.Header) Header {
	names := make([]string, 0, len(hh))
	for name := range hh {
		names = append(names, name)
	}
	sort.Strings(names)

	var out Header
	for _, name := range names {
		for _, v := range hh[name] {
			out = append(out, HeaderField{Name: name, Value: v})
		}
	}
	return out
}
