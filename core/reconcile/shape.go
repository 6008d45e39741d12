package reconcile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ShapeError reports a remote response that could not be read as a list.
// Readers treat it as an empty list rather than a failure.
type ShapeError struct {
	Reason string
	Err    error
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response shape: %s: %v", e.Reason, e.Err)
	}
	return "unexpected response shape: " + e.Reason
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// Shape identifies how the remote resource carries its list.
type Shape int

const (
	// ShapeUnknown means the response could not be read.
	ShapeUnknown Shape = iota
	// ShapeArray is a bare JSON array of strings.
	ShapeArray
	// ShapeObject is an object with one list-bearing field.
	ShapeObject
)

// ErrNoCarrier is returned when a payload is requested from an unknown shape.
var ErrNoCarrier = errors.New("remote resource shape is unknown; refusing to build a replacement payload")

// Carrier is an opaque snapshot of a remote resource with one addressable
// list field. Every other field is echoed back byte for byte, and so are
// list elements that are not strings.
type Carrier struct {
	Shape  Shape
	Field  string
	object map[string]json.RawMessage
	// opaque holds the non-string list elements; they are written ahead of
	// the string entries.
	opaque []json.RawMessage
}

// Known reports whether a payload can be built from the carrier.
func (c Carrier) Known() bool {
	return c.Shape == ShapeArray || c.Shape == ShapeObject
}

// Payload returns the request body that replaces the list with entries.
func (c Carrier) Payload(entries []string) (any, error) {
	if entries == nil {
		entries = []string{}
	}

	switch c.Shape {
	case ShapeArray:
		if len(c.opaque) == 0 {
			return entries, nil
		}
		return c.list(entries)
	case ShapeObject:
		items, err := c.list(entries)
		if err != nil {
			return nil, err
		}
		list, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		out := make(map[string]json.RawMessage, len(c.object)+1)
		for k, v := range c.object {
			out[k] = v
		}
		out[c.Field] = list
		return out, nil
	default:
		return nil, ErrNoCarrier
	}
}

// list returns the opaque elements followed by entries.
func (c Carrier) list(entries []string) ([]json.RawMessage, error) {
	items := make([]json.RawMessage, 0, len(c.opaque)+len(entries))
	items = append(items, c.opaque...)
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	return items, nil
}

// Opaque returns how many list elements are carried without being entries.
func (c Carrier) Opaque() int {
	return len(c.opaque)
}

// Fields returns the names of all top-level fields held by an object carrier.
func (c Carrier) Fields() []string {
	names := make([]string, 0, len(c.object))
	for k := range c.object {
		names = append(names, k)
	}
	return names
}

// Extraction is the canonical record produced from any supported shape.
type Extraction struct {
	Entries []string
	Carrier Carrier
}

// ExtractList reads a list from a bare JSON array or from an object carrying
// it under one of fields. The first field holding a non-empty list wins, then
// the first field present, then fields[0].
func ExtractList(body []byte, fields ...string) (Extraction, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Extraction{}, &ShapeError{Reason: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		entries, opaque, err := decodeStrings(trimmed)
		if err != nil {
			return Extraction{}, &ShapeError{Reason: "array", Err: err}
		}
		return Extraction{Entries: entries, Carrier: Carrier{Shape: ShapeArray, opaque: opaque}}, nil

	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return Extraction{}, &ShapeError{Reason: "object", Err: err}
		}
		return extractFromObject(object, fields)

	default:
		return Extraction{}, &ShapeError{Reason: "neither an array nor an object"}
	}
}

func extractFromObject(object map[string]json.RawMessage, fields []string) (Extraction, error) {
	var firstPresent string
	for _, field := range fields {
		raw, ok := object[field]
		if !ok {
			continue
		}
		entries, opaque, err := decodeStrings(raw)
		if err != nil {
			return Extraction{}, &ShapeError{Reason: fmt.Sprintf("field %q", field), Err: err}
		}
		if len(entries) > 0 || len(opaque) > 0 {
			return Extraction{
				Entries: entries,
				Carrier: Carrier{Shape: ShapeObject, Field: field, object: object, opaque: opaque},
			}, nil
		}
		if firstPresent == "" {
			firstPresent = field
		}
	}

	if firstPresent == "" && len(fields) > 0 {
		firstPresent = fields[0]
	}
	if firstPresent == "" {
		return Extraction{}, &ShapeError{Reason: "object without a known list field"}
	}

	return Extraction{
		Entries: []string{},
		Carrier: Carrier{Shape: ShapeObject, Field: firstPresent, object: object},
	}, nil
}

// decodeStrings decodes a JSON array into its string elements. Elements of
// any other type are returned raw so they survive a rewrite. A JSON null is
// an empty list.
func decodeStrings(raw json.RawMessage) ([]string, []json.RawMessage, error) {
	if string(bytes.TrimSpace(raw)) == "null" {
		return []string{}, nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil, err
	}

	entries := make([]string, 0, len(items))
	var opaque []json.RawMessage
	for _, item := range items {
		var s string
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) || json.Unmarshal(item, &s) != nil {
			opaque = append(opaque, item)
			continue
		}
		entries = append(entries, s)
	}
	return entries, opaque, nil
}
