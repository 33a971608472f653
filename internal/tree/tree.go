// Package tree provides helpers for locale trees: ordered maps from string
// keys to strings or nested trees.
package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/path"
)

// New returns an empty tree that does not HTML-escape on JSON output.
func New() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return m
}

// ToOrderedMapPtr converts both value and pointer types of OrderedMap to a pointer.
// Returns nil if the value is not an OrderedMap.
func ToOrderedMapPtr(v any) *orderedmap.OrderedMap {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return val
	case orderedmap.OrderedMap:
		return &val
	default:
		return nil
	}
}

// FromJSON decodes a JSON object into a normalized tree, keeping the key
// order of the document.
func FromJSON(data []byte) (*orderedmap.OrderedMap, error) {
	om := orderedmap.New()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, err
	}
	return Clone(om), nil
}

// Clone returns a normalized deep copy of t.
func Clone(t *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	if t == nil {
		return New()
	}
	return Normalize(t).(*orderedmap.OrderedMap)
}

// Normalize deep-copies v. Nested maps of either OrderedMap form become
// *orderedmap.OrderedMap with HTML escaping disabled; slices are copied.
func Normalize(v any) any {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		result := New()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			result.Set(k, Normalize(child))
		}
		return result
	case orderedmap.OrderedMap:
		return Normalize(&val)
	case map[string]any:
		// Plain maps carry no order; this only happens for values built in Go.
		result := New()
		for k, child := range val {
			result.Set(k, Normalize(child))
		}
		result.SortKeys(sort.Strings)
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = Normalize(item)
		}
		return result
	default:
		// Primitives (string, float64, bool, nil) are immutable
		return val
	}
}

// Get extracts the value at the given key path.
func Get(t *orderedmap.OrderedMap, p path.Path) (any, bool) {
	var current any = t
	for _, segment := range p.Segments() {
		m := ToOrderedMapPtr(current)
		if m == nil {
			return nil, false
		}
		val, exists := m.Get(segment)
		if !exists {
			return nil, false
		}
		current = val
	}
	return current, true
}

// Set sets the value at the given key path.
// Creates intermediate trees as needed.
func Set(t *orderedmap.OrderedMap, p path.Path, value any) error {
	segments := p.Segments()
	if len(segments) == 0 {
		return fmt.Errorf("empty path")
	}
	if t == nil {
		return fmt.Errorf("tree is nil")
	}

	m := t
	for _, segment := range segments[:len(segments)-1] {
		next, exists := m.Get(segment)
		if !exists {
			child := New()
			m.Set(segment, child)
			m = child
			continue
		}
		nextMap := ToOrderedMapPtr(next)
		if nextMap == nil {
			return fmt.Errorf("path segment %q is not a map", segment)
		}
		if _, isValue := next.(orderedmap.OrderedMap); isValue {
			// Replace the copy so later writes land in the tree.
			m.Set(segment, nextMap)
		}
		m = nextMap
	}

	m.Set(segments[len(segments)-1], value)
	return nil
}

// Delete removes the key at the given path. It reports whether the key
// existed.
func Delete(t *orderedmap.OrderedMap, p path.Path) bool {
	segments := p.Segments()
	if len(segments) == 0 {
		return false
	}
	parent, ok := Get(t, path.New(segments[:len(segments)-1]...))
	if !ok {
		return false
	}
	m := ToOrderedMapPtr(parent)
	if m == nil {
		return false
	}
	last := segments[len(segments)-1]
	if _, exists := m.Get(last); !exists {
		return false
	}
	m.Delete(last)
	return true
}

// Flatten returns every leaf of t keyed by its dotted path, in tree order.
func Flatten(t *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	out := New()
	flatten(t, nil, out)
	return out
}

func flatten(m *orderedmap.OrderedMap, prefix []string, out *orderedmap.OrderedMap) {
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		key := append(prefix[:len(prefix):len(prefix)], k)
		if child := ToOrderedMapPtr(v); child != nil {
			flatten(child, key, out)
			continue
		}
		out.Set(strings.Join(key, "."), v)
	}
}
