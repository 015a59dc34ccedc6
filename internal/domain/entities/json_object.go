package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSONObject is a JSON object that keeps its keys in document order, so that
// editing a manifest only changes the keys that were touched.
// Values are kept as raw JSON and are never re-interpreted.
type JSONObject struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewJSONObject returns an empty object.
func NewJSONObject() *JSONObject {
	return &JSONObject{fields: orderedmap.New[string, json.RawMessage]()}
}

// ParseJSONObject parses data, which must hold exactly one JSON object.
func ParseJSONObject(data []byte) (*JSONObject, error) {
	object := NewJSONObject()
	if err := object.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return object, nil
}

// Keys returns the keys in document order.
func (o *JSONObject) Keys() []string {
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the raw value stored under key.
func (o *JSONObject) Get(key string) (json.RawMessage, bool) {
	return o.fields.Get(key)
}

// GetString returns the value under key when it is a JSON string.
func (o *JSONObject) GetString(key string) (string, bool) {
	raw, ok := o.fields.Get(key)
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// Set stores value under key. An existing key keeps its position, a new key
// is appended at the end.
func (o *JSONObject) Set(key string, value any) error {
	raw, err := marshalUnescaped(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	o.fields.Set(key, raw)
	return nil
}

// Clone returns a copy that can be edited without touching o.
func (o *JSONObject) Clone() *JSONObject {
	clone := NewJSONObject()
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		clone.fields.Set(pair.Key, append(json.RawMessage(nil), pair.Value...))
	}
	return clone
}

// Format renders the object with two-space indentation and a trailing newline,
// without escaping HTML characters.
func (o *JSONObject) Format() (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(o); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MarshalJSON implements json.Marshaler. Keys are written without HTML
// escaping, values exactly as stored.
func (o *JSONObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		encodedKey, err := marshalUnescaped(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(pair.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *JSONObject) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return errors.New("invalid JSON document")
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("invalid JSON: expected an object")
	}

	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	o.fields = fields
	return nil
}

func marshalUnescaped(value any) (json.RawMessage, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
