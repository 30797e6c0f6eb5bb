// Package source gives shape-aware access to deserialized documents. A Value
// wraps whatever a generic YAML or JSON decode produced (map[string]any
// mappings, []any sequences, scalar leaves) without committing the engine to
// any particular input format.
package source

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrKindMismatch = errors.New("source value kind mismatch")

// Value is one node of a deserialized document.
type Value struct {
	data any
}

// Entry is a key-value pair of a mapping.
type Entry struct {
	Key   string
	Value Value
}

// Of wraps an already deserialized value.
func Of(v any) Value { return Value{data: v} }

// FromYAML decodes a YAML document into a Value.
func FromYAML(data []byte) (Value, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Value{}, fmt.Errorf("cannot decode document: %w", err)
	}

	return Value{data: v}, nil
}

// LoadFile reads and decodes a YAML document file.
func LoadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Value{}, fmt.Errorf("cannot read document %q: %w", path, err)
	}

	v, err := FromYAML(data)
	if err != nil {
		return Value{}, fmt.Errorf("document %q: %w", path, err)
	}

	return v, nil
}

// Raw returns the wrapped value as decoded.
func (v Value) Raw() any { return v.data }

// Kind classifies the wrapped value.
func (v Value) Kind() KindEnum {
	switch v.data.(type) {
	case nil:
		return KindNil
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []any:
		return KindSequence
	case map[string]any:
		return KindMapping
	default:
		return KindInvalid
	}
}

// IsNil reports whether the value is an explicit null or absent.
func (v Value) IsNil() bool { return v.data == nil }

// Field returns the named field of a mapping.
func (v Value) Field(name string) (Value, bool) {
	m, ok := v.data.(map[string]any)
	if !ok {
		return Value{}, false
	}

	f, ok := m[name]

	return Value{data: f}, ok
}

// Fields returns the field names of a mapping, sorted for determinism.
func (v Value) Fields() []string {
	m, ok := v.data.(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Items returns the elements of a sequence in document order.
func (v Value) Items() ([]Value, error) {
	s, ok := v.data.([]any)
	if !ok {
		return nil, kindError(KindSequence, v.Kind())
	}

	items := make([]Value, len(s))
	for i, e := range s {
		items[i] = Value{data: e}
	}

	return items, nil
}

// Entries returns the key-value pairs of a mapping, key-sorted.
func (v Value) Entries() ([]Entry, error) {
	m, ok := v.data.(map[string]any)
	if !ok {
		return nil, kindError(KindMapping, v.Kind())
	}

	entries := make([]Entry, 0, len(m))
	for _, name := range v.Fields() {
		entries = append(entries, Entry{Key: name, Value: Value{data: m[name]}})
	}

	return entries, nil
}

// AsString returns the value as a string scalar.
func (v Value) AsString() (string, error) {
	s, ok := v.data.(string)
	if !ok {
		return "", kindError(KindString, v.Kind())
	}

	return s, nil
}

// AsInt returns the value as an integer scalar.
func (v Value) AsInt() (int64, error) {
	switch n := v.data.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > 1<<63-1 {
			return 0, fmt.Errorf("%w: integer %d overflows int64", ErrKindMismatch, n)
		}

		return int64(n), nil
	default:
		return 0, kindError(KindInt, v.Kind())
	}
}

// AsFloat returns the value as a float scalar. Integers widen losslessly.
func (v Value) AsFloat() (float64, error) {
	switch n := v.data.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, kindError(KindFloat, v.Kind())
	}
}

// AsBool returns the value as a boolean scalar.
func (v Value) AsBool() (bool, error) {
	b, ok := v.data.(bool)
	if !ok {
		return false, kindError(KindBool, v.Kind())
	}

	return b, nil
}

// Discriminant reads the named tag field of a mapping as a string.
func (v Value) Discriminant(tagField string) (string, error) {
	f, ok := v.Field(tagField)
	if !ok {
		return "", fmt.Errorf("%w: mapping lacks discriminant field %q", ErrKindMismatch, tagField)
	}

	tag, err := f.AsString()
	if err != nil {
		return "", fmt.Errorf("discriminant field %q: %w", tagField, err)
	}

	return tag, nil
}

func kindError(want, got KindEnum) error {
	return fmt.Errorf("%w: want %v, got %v", ErrKindMismatch, want, got)
}
