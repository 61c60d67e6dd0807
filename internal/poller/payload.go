package poller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidJSON is returned by [DecodePayload] when a body is not a
// single well-formed JSON value.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

// Payload is a decoded JSON response body.
//
// The shape is defined entirely by the remote service. Payload keeps the
// compacted text of the body (for literal display) and, when the body is a
// JSON object, its top-level fields. Numbers are kept as [json.Number] so
// they render exactly as the server sent them.
type Payload struct {
	raw    []byte
	fields map[string]any
}

// DecodePayload parses body as JSON.
func DecodePayload(body []byte) (Payload, error) {
	if !json.Valid(body) {
		return Payload{}, ErrInvalidJSON
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return Payload{}, fmt.Errorf("compact body: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return Payload{}, fmt.Errorf("decode body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Payload{}, ErrInvalidJSON
	}

	p := Payload{raw: compact.Bytes()}
	if obj, ok := value.(map[string]any); ok {
		p.fields = obj
	}
	return p, nil
}

// IsZero reports whether no payload has been decoded.
func (p Payload) IsZero() bool {
	return p.raw == nil
}

// Raw returns the compacted JSON text of the body.
func (p Payload) Raw() string {
	return string(p.raw)
}

// Has reports whether the payload is an object containing key.
func (p Payload) Has(key string) bool {
	_, ok := p.fields[key]
	return ok
}

// Field returns the display text of a top-level field.
//
// Missing keys and JSON null render as the empty string. Strings are
// returned unquoted; numbers and booleans verbatim; nested values as
// compact JSON.
func (p Payload) Field(key string) string {
	v, ok := p.fields[key]
	if !ok {
		return ""
	}
	return formatValue(v)
}

// Fields returns a shallow copy of the top-level fields, or nil when the
// payload is not a JSON object.
func (p Payload) Fields() map[string]any {
	if p.fields == nil {
		return nil
	}
	cp := make(map[string]any, len(p.fields))
	for k, v := range p.fields {
		cp[k] = v
	}
	return cp
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
