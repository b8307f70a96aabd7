package httptracing

import (
	"fmt"
	"net/http"
	"sort"
)

// HeaderCarrier exposes inbound request headers to Tracer.Extract.
//
// Each header is presented with its first value only. The carrier never
// modifies the headers it wraps.
type HeaderCarrier struct {
	header http.Header
}

// NewHeaderCarrier wraps h. It fails with ErrNilHeaders when h is nil.
func NewHeaderCarrier(h http.Header) (*HeaderCarrier, error) {
	if h == nil {
		return nil, ErrNilHeaders
	}
	return &HeaderCarrier{header: h}, nil
}

// ForeachKey calls handler once per header with the header's first value and
// returns the first error handler returns. It can be called any number of times.
func (c *HeaderCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, vs := range c.header {
		var v string
		if len(vs) > 0 {
			v = vs[0]
		}
		if err := handler(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the first value of key, matched case-insensitively.
func (c *HeaderCarrier) Get(key string) string {
	return c.header.Get(key)
}

// Keys returns the header names in sorted order.
func (c *HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c.header))
	for k := range c.header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set always fails with ErrUnsupportedOperation.
func (c *HeaderCarrier) Set(key, val string) error {
	return fmt.Errorf("%w: cannot set %q, header carrier is read-only", ErrUnsupportedOperation, key)
}
