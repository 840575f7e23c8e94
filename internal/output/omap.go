package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Map is a string-keyed map that keeps insertion order through both
// YAML and JSON marshalling. Go maps randomize iteration and yaml.v3
// sorts map keys, so declaration listings go through this instead.
type Map struct {
	keys   []string
	values map[string]interface{}
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{values: make(map[string]interface{})}
}

// Set adds or replaces a key, keeping its first insertion position.
// It returns the map for chaining.
func (m *Map) Set(key string, value interface{}) *Map {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// MarshalYAML implements yaml.Marshaler by building an explicit mapping
// node, which the encoder emits without re-sorting.
func (m *Map) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range m.keys {
		var keyNode, valueNode yaml.Node
		if err := keyNode.Encode(key); err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", key, err)
		}
		if err := valueNode.Encode(m.values[key]); err != nil {
			return nil, fmt.Errorf("encoding value for %q: %w", key, err)
		}
		node.Content = append(node.Content, &keyNode, &valueNode)
	}
	return node, nil
}

// MarshalJSON implements json.Marshaler, writing keys in insertion order.
// Encoding goes through a non-HTML-escaping encoder so signatures like
// "-> None" keep their literal characters, matching the YAML output.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalNoEscape(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("encoding value for %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape is json.Marshal without HTML escaping.
func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
