package stripekit

import (
	"bytes"
	"encoding/json"
)

// objectBuilder is the accumulator side of the decode protocol. Every
// response object type has a companion builder: the driver walks the JSON
// object and hands each field's raw value to the builder, which either claims
// it or ignores it. Field order is never assumed and unknown names are always
// ignored, Stripe adds both fields and enum values without notice. Once the
// object ends the builder's finish method decides whether every required
// field was seen.
//
// Builders are single-use. They are consumed by the decode and then
// discarded.
type objectBuilder interface {
	field(name string, raw json.RawMessage) error
}

// decodeObject drives a builder over the JSON object held in data.
func decodeObject(data []byte, b objectBuilder) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()

	if err != nil {
		return errType("object", "JSON object")
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errType("object", "JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()

		if err != nil {
			return errType("object", "JSON object")
		}

		name, ok := tok.(string)

		if !ok {
			return errType("object", "JSON object key")
		}

		var raw json.RawMessage

		if err := dec.Decode(&raw); err != nil {
			return errType(name, "JSON value")
		}

		if err := b.field(name, raw); err != nil {
			return err
		}
	}
	return nil
}

// bufferObject reads the JSON object in data into its raw key/value pairs
// without committing to a concrete builder. Unions discriminated by a sibling
// field (deleted, object) are buffered first and replayed once the
// discriminant is known, since Stripe does not guarantee it appears before
// the fields it governs.
func bufferObject(data []byte) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)

	err := decodeObject(data, fieldMap(fields))
	return fields, err
}

type fieldMap map[string]json.RawMessage

func (m fieldMap) field(name string, raw json.RawMessage) error {
	m[name] = raw
	return nil
}

// replayObject feeds buffered fields into a builder. Iteration order is
// irrelevant, builders accept fields in any order.
func replayObject(fields map[string]json.RawMessage, b objectBuilder) error {
	for name, raw := range fields {
		if err := b.field(name, raw); err != nil {
			return err
		}
	}
	return nil
}

// isNull reports whether raw is the JSON null literal.
func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 4 && string(raw) == "null"
}

// firstByte returns the first non-whitespace byte of raw, or zero.
func firstByte(raw []byte) byte {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c
	}
	return 0
}

func decodeString(field string, raw json.RawMessage) (string, error) {
	var s string

	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errType(field, "string")
	}
	return s, nil
}

// decodeNullString decodes a nullable string field. Explicit null yields nil
// with no error, the field counts as seen.
func decodeNullString(field string, raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}

	s, err := decodeString(field, raw)

	if err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeInt64(field string, raw json.RawMessage) (int64, error) {
	var n int64

	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errType(field, "integer")
	}
	return n, nil
}

func decodeNullInt64(field string, raw json.RawMessage) (*int64, error) {
	if isNull(raw) {
		return nil, nil
	}

	n, err := decodeInt64(field, raw)

	if err != nil {
		return nil, err
	}
	return &n, nil
}

func decodeBool(field string, raw json.RawMessage) (bool, error) {
	var v bool

	if err := json.Unmarshal(raw, &v); err != nil {
		return false, errType(field, "boolean")
	}
	return v, nil
}

func decodeNullBool(field string, raw json.RawMessage) (*bool, error) {
	if isNull(raw) {
		return nil, nil
	}

	v, err := decodeBool(field, raw)

	if err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeFloat64(field string, raw json.RawMessage) (float64, error) {
	var v float64

	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, errType(field, "number")
	}
	return v, nil
}

// decodeTimestamp accepts JSON numbers only, Stripe never quotes timestamps.
func decodeTimestamp(field string, raw json.RawMessage) (Timestamp, error) {
	if firstByte(raw) == '"' {
		return 0, errType(field, "unix timestamp number")
	}

	n, err := decodeInt64(field, raw)
	return Timestamp(n), err
}

func decodeNullTimestamp(field string, raw json.RawMessage) (*Timestamp, error) {
	if isNull(raw) {
		return nil, nil
	}

	t, err := decodeTimestamp(field, raw)

	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeCurrency(field string, raw json.RawMessage) (Currency, error) {
	var c Currency

	if err := json.Unmarshal(raw, &c); err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Field = field
			return "", de
		}
		return "", errType(field, "currency string")
	}
	return c, nil
}

func decodeNullCurrency(field string, raw json.RawMessage) (*Currency, error) {
	if isNull(raw) {
		return nil, nil
	}

	c, err := decodeCurrency(field, raw)

	if err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeMetadata(field string, raw json.RawMessage) (Metadata, error) {
	var m Metadata

	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errType(field, "object of strings")
	}
	return m, nil
}

// decodeInto decodes a nested object field into v via its own builder-backed
// UnmarshalJSON. Decode errors from the nested builder propagate unchanged so
// the failing field name survives.
func decodeInto(field string, raw json.RawMessage, v json.Unmarshaler) error {
	if firstByte(raw) != '{' {
		return errType(field, "object")
	}
	return v.UnmarshalJSON(raw)
}

// probeID pulls the id field out of a raw object without running the object's
// full builder. Used by Expandable to expose an ID for both faces.
func probeID(raw json.RawMessage) string {
	fields, err := bufferObject(raw)

	if err != nil {
		return ""
	}

	idRaw, ok := fields["id"]

	if !ok {
		return ""
	}

	id, err := decodeString("id", idRaw)

	if err != nil {
		return ""
	}
	return id
}
