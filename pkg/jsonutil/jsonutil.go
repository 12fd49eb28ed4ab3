// Package jsonutil wraps github.com/go-json-experiment/json behind the
// familiar encoding/json surface. Snapshots for larger tenants run to
// thousands of entities, and every pipeline stage round-trips them, so
// the faster encoder is worth the wrapper.
package jsonutil

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Marshal returns the JSON encoding of v. Map keys are emitted in
// sorted order; pipeline artifacts must be byte-identical across runs
// on the same inputs, and the encoder's default map order is not.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v, json.Deterministic(true))
}

// MarshalIndent returns the indented JSON encoding of v, with the same
// sorted map keys as Marshal. The prefix argument is accepted for
// encoding/json compatibility and ignored.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.Marshal(v, json.Deterministic(true), jsontext.WithIndent(indent))
}

// UnmarshalRead decodes a single JSON value from r into v.
func UnmarshalRead(r io.Reader, v any) error {
	return json.UnmarshalRead(r, v)
}

// MarshalWrite encodes v to w with the same sorted map keys as
// Marshal.
func MarshalWrite(w io.Writer, v any) error {
	return json.MarshalWrite(w, v, json.Deterministic(true))
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return jsontext.Value(data).IsValid()
}
