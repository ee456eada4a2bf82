// Package jsonutil holds the tolerant JSON helpers used at the oracle
// response boundary: models occasionally wrap the payload in a code fence or
// surrounding prose even when asked for bare JSON.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
)

var (
	reFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	reBrace = regexp.MustCompile(`(?s)(\{.*\})`)
)

// ErrNoJSON reports a response with no extractable JSON object.
var ErrNoJSON = errors.New("jsonutil: no JSON object in response")

// Extract returns the JSON object embedded in raw. It tries, in order:
// the raw bytes as-is, a fenced ```json block, and the outermost brace pair.
func Extract(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if json.Valid(trimmed) && len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.RawMessage(trimmed), nil
	}
	if m := reFence.FindSubmatch(trimmed); m != nil && json.Valid(bytes.TrimSpace(m[1])) {
		return json.RawMessage(bytes.TrimSpace(m[1])), nil
	}
	if m := reBrace.FindSubmatch(trimmed); m != nil && json.Valid(m[1]) {
		return json.RawMessage(m[1]), nil
	}
	return nil, ErrNoJSON
}

// ExtractInto extracts the JSON object in raw and unmarshals it into v.
func ExtractInto(raw []byte, v any) error {
	obj, err := Extract(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(obj, v)
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into < etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent is MarshalNoEscape with indentation.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
