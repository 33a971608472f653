// Package format provides the locale file parsers and the handlers for the
// text formats they are built on.
package format

import (
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/codec"
)

// SerializeOptions configures serialization behavior.
type SerializeOptions struct {
	Indent codec.Indent // Indentation unit, where the format has one
}

// Handler converts between raw bytes of a text format and locale trees.
type Handler interface {
	// Parse reads raw bytes and returns a tree in document key order.
	Parse(data []byte) (*orderedmap.OrderedMap, error)

	// Serialize writes the tree back to bytes.
	Serialize(t *orderedmap.OrderedMap, opts SerializeOptions) ([]byte, error)
}
