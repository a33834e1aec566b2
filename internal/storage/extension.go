package storage

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ExtensionState holds free-form properties as raw JSON per key.
type ExtensionState map[string]json.RawMessage

// Set stores v under key after marshalling it to JSON.
func (e *ExtensionState) Set(k string, v any) error {
	if *e == nil {
		*e = ExtensionState{}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal property %q: %w", k, err)
	}

	(*e)[k] = json.RawMessage(b)
	return nil
}

// Get unmarshals the value at key into out.
// Returns (found=false, nil) if not present.
func (e ExtensionState) Get(key string, out any) (bool, error) {
	raw, ok := e[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal property %q: %w", key, err)
	}
	return true, nil
}

// Keys returns the property names in ascending order.
func (e ExtensionState) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// Clone copies the map and every raw value. A nil state stays nil.
func (e ExtensionState) Clone() ExtensionState {
	if e == nil {
		return nil
	}
	c := make(ExtensionState, len(e))
	for k, v := range e {
		c[k] = slices.Clone(v)
	}
	return c
}
