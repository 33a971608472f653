// Package toml provides the TOML locale format handler.
package toml

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/format"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

// Handler implements format.Handler for TOML files.
type Handler struct{}

// New creates a new TOML handler.
func New() *Handler {
	return &Handler{}
}

// Descriptor identifies TOML locale files.
func Descriptor() format.Descriptor {
	return format.NewDescriptor("toml", []string{"toml"}, "toml")
}

// Parse reads TOML bytes and returns a tree.
// Key order from the original TOML document is preserved.
func (h *Handler) Parse(data []byte) (*orderedmap.OrderedMap, error) {
	// Decode into a generic map to get values
	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, FormatError(err)
	}
	if raw == nil {
		return tree.New(), nil
	}

	// Convert to ordered map using metadata for key order
	return convertWithMeta(raw, meta, nil).(*orderedmap.OrderedMap), nil
}

// convertWithMeta recursively converts map[string]any to a tree using TOML
// metadata to preserve key order.
func convertWithMeta(v any, meta toml.MetaData, prefix []string) any {
	switch val := v.(type) {
	case map[string]any:
		result := tree.New()
		for _, k := range keysInOrder(meta, prefix, val) {
			childPrefix := append(append([]string(nil), prefix...), k)
			result.Set(k, convertWithMeta(val[k], meta, childPrefix))
		}
		return result
	case []map[string]any:
		// Array of tables
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertWithMeta(item, meta, prefix)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertWithMeta(item, meta, prefix)
		}
		return result
	default:
		return val
	}
}

// keysInOrder returns map keys in document order using TOML metadata.
func keysInOrder(meta toml.MetaData, prefix []string, m map[string]any) []string {
	seen := make(map[string]bool, len(m))
	ordered := make([]string, 0, len(m))
	for _, key := range meta.Keys() {
		// Keys one level below prefix
		if len(key) != len(prefix)+1 || !matchesPrefix(key, prefix) {
			continue
		}
		k := key[len(prefix)]
		if _, ok := m[k]; ok && !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}

	// Keys inside arrays of tables carry no usable prefix.
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// matchesPrefix checks if key starts with prefix.
func matchesPrefix(key toml.Key, prefix []string) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if key[i] != p {
			return false
		}
	}
	return true
}

// Serialize writes the tree to TOML bytes. The encoder emits keys sorted,
// with plain values before tables.
func (h *Handler) Serialize(t *orderedmap.OrderedMap, _ format.SerializeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(toRegularMap(t)); err != nil {
		return nil, fmt.Errorf("failed to serialize TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// toRegularMap recursively converts trees to map[string]any.
func toRegularMap(v any) any {
	if om := tree.ToOrderedMapPtr(v); om != nil {
		result := make(map[string]any, len(om.Keys()))
		for _, k := range om.Keys() {
			child, _ := om.Get(k)
			result[k] = toRegularMap(child)
		}
		return result
	}
	if list, ok := v.([]any); ok {
		result := make([]any, len(list))
		for i, item := range list {
			result[i] = toRegularMap(item)
		}
		return result
	}
	return v
}

// FormatError wraps a TOML parse error, adding the position when the
// decoder reports one.
func FormatError(err error) error {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("TOML parse error at line %d, column %d: %w", perr.Position.Line, perr.Position.Col, err)
	}
	return fmt.Errorf("failed to parse TOML: %w", err)
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
