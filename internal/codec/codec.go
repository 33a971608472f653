// Package codec converts locale trees to text deterministically.
//
// The output is JSON. Key order is the tree's insertion order unless sorting
// is requested, in which case keys at every depth, including objects nested
// inside arrays, are emitted in ascending order.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

// Indent is an indentation unit: a tab, or a number of spaces.
type Indent struct {
	Tab   bool
	Width int
}

// Spaces returns an indent of n spaces. Negative widths are treated as zero.
func Spaces(n int) Indent {
	if n < 0 {
		n = 0
	}
	return Indent{Width: n}
}

// Tab is the tab indentation unit.
var Tab = Indent{Tab: true}

// String returns the text of one indentation level.
func (i Indent) String() string {
	if i.Tab {
		return "\t"
	}
	return strings.Repeat(" ", i.Width)
}

// Value returns the unit as handed to user serializers: the tab character
// itself, or the number of spaces.
func (i Indent) Value() any {
	if i.Tab {
		return "\t"
	}
	return i.Width
}

// Options configures StableSerialize.
type Options struct {
	Indent Indent
	Sort   bool
}

// StableSerialize renders t as JSON text. It has no side effects; the same
// tree and options always produce the same bytes.
func StableSerialize(t *orderedmap.OrderedMap, opts Options) (string, error) {
	var v any = tree.Clone(t)
	if opts.Sort {
		v = Sorted(v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", opts.Indent.String())
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to serialize tree: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Canonicalize sorts t by serializing it with sorted keys and parsing the
// text back, so callers get a fresh tree whose maps are genuinely in sorted
// order rather than only sorted output.
func Canonicalize(t *orderedmap.OrderedMap, indent Indent) (*orderedmap.OrderedMap, error) {
	text, err := StableSerialize(t, Options{Indent: indent, Sort: true})
	if err != nil {
		return nil, err
	}
	out, err := tree.FromJSON([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to re-parse sorted tree: %w", err)
	}
	return out, nil
}

// Sorted returns a deep copy of v with the keys of every map sorted.
func Sorted(v any) any {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		keys := append([]string(nil), val.Keys()...)
		sort.Strings(keys)
		result := tree.New()
		for _, k := range keys {
			child, _ := val.Get(k)
			result.Set(k, Sorted(child))
		}
		return result
	case orderedmap.OrderedMap:
		return Sorted(&val)
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = Sorted(item)
		}
		return result
	default:
		return val
	}
}

// SortedTree is Sorted for a whole tree.
func SortedTree(t *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	if t == nil {
		return tree.New()
	}
	return Sorted(t).(*orderedmap.OrderedMap)
}
