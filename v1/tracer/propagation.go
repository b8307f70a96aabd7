package tracer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const traceparentHeader = "traceparent"

// Extract reads the W3C trace context and baggage held by carrier.
//
// carrier must implement TextMapReader. For HTTPHeaders keys are lower-cased
// before lookup so canonical header names such as "Traceparent" match.
//
// Extract returns ErrSpanContextNotFound when no traceparent is present and
// ErrSpanContextCorrupted when one is present but invalid.
func (t *TracerClient) Extract(format Format, carrier interface{}) (SpanContext, error) {
	if format != HTTPHeaders && format != TextMap {
		return SpanContext{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	reader, ok := carrier.(TextMapReader)
	if !ok {
		return SpanContext{}, fmt.Errorf("%w: %T is not a TextMapReader", ErrInvalidCarrier, carrier)
	}

	mc := propagation.MapCarrier{}
	err := reader.ForeachKey(func(key, val string) error {
		if format == HTTPHeaders {
			key = strings.ToLower(key)
		}
		mc[key] = val
		return nil
	})
	if err != nil {
		return SpanContext{}, fmt.Errorf("%w: %v", ErrSpanContextCorrupted, err)
	}

	ctx := t.propagator.Extract(context.Background(), mc)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		if _, present := mc[traceparentHeader]; present {
			return SpanContext{}, ErrSpanContextCorrupted
		}
		return SpanContext{}, ErrSpanContextNotFound
	}

	return SpanContext{SpanContext: sc, Baggage: baggage.FromContext(ctx)}, nil
}

// Inject writes the trace context and baggage carried by ctx into carrier,
// which must implement TextMapWriter. The first error returned by the
// carrier's Set aborts the injection and is returned.
func (t *TracerClient) Inject(ctx context.Context, format Format, carrier interface{}) error {
	if format != HTTPHeaders && format != TextMap {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	writer, ok := carrier.(TextMapWriter)
	if !ok {
		return fmt.Errorf("%w: %T is not a TextMapWriter", ErrInvalidCarrier, carrier)
	}

	mc := propagation.MapCarrier{}
	t.propagator.Inject(ctx, mc)

	keys := mc.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		if err := writer.Set(k, mc[k]); err != nil {
			return fmt.Errorf("inject %q: %w", k, err)
		}
	}
	return nil
}

// GetCarrier returns the trace context of ctx as a header map suitable for
// outgoing requests or message headers.
func (t *TracerClient) GetCarrier(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	t.propagator.Inject(ctx, carrier)
	return carrier
}

// SetCarrierOnContext is the complement of GetCarrier: it returns ctx
// enriched with the trace context found in carrier.
func (t *TracerClient) SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return t.propagator.Extract(ctx, propagation.MapCarrier(carrier))
}

// MapCarrier is a TextMapReader and TextMapWriter over a plain map.
type MapCarrier map[string]string

// ForeachKey implements TextMapReader.
func (c MapCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, v := range c {
		if err := handler(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Set implements TextMapWriter.
func (c MapCarrier) Set(key, val string) error {
	c[key] = val
	return nil
}
