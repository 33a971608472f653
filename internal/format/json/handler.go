// Package json provides the JSON and JSONC locale format handler.
package json

import (
	"fmt"
	"regexp"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/codec"
	"github.com/thirteen37/i18n-ecma/internal/format"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

// Handler implements format.Handler for JSON/JSONC files.
type Handler struct {
	stripComments bool
}

// New creates a new JSON handler.
func New() *Handler {
	return &Handler{}
}

// NewJSONC creates a handler that strips // comments before parsing.
func NewJSONC() *Handler {
	return &Handler{stripComments: true}
}

// Descriptor identifies plain JSON locale files.
func Descriptor() format.Descriptor {
	return format.NewDescriptor("json", []string{"json"}, "json")
}

// JSONCDescriptor identifies JSON-with-comments locale files.
func JSONCDescriptor() format.Descriptor {
	return format.NewDescriptor("jsonc", []string{"jsonc"}, "jsonc")
}

// commentRegex matches single-line // comments.
var commentRegex = regexp.MustCompile(`(?m)^\s*//.*$|//[^"]*$`)

// StripComments removes single-line // comments from JSON.
// This allows parsing JSONC (JSON with comments) files.
func StripComments(data []byte) []byte {
	return commentRegex.ReplaceAll(data, nil)
}

// Parse reads JSON bytes and returns a tree in document key order.
func (h *Handler) Parse(data []byte) (*orderedmap.OrderedMap, error) {
	if h.stripComments {
		data = StripComments(data)
	}

	t, err := tree.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return t, nil
}

// Serialize writes the tree to formatted JSON bytes.
func (h *Handler) Serialize(t *orderedmap.OrderedMap, opts format.SerializeOptions) ([]byte, error) {
	indent := opts.Indent
	if indent == (codec.Indent{}) {
		indent = codec.Spaces(2)
	}

	text, err := codec.StableSerialize(t, codec.Options{Indent: indent})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize JSON: %w", err)
	}
	// Add trailing newline
	return []byte(text + "\n"), nil
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
