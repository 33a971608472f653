package format

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/codec"
)

// Parser reads and writes locale files of one kind.
type Parser interface {
	Descriptor() Descriptor

	// Readonly reports whether Save can never succeed.
	Readonly() bool

	// Parse converts file contents to a tree.
	Parse(data []byte) (*orderedmap.OrderedMap, error)

	// Dump renders a tree as file contents.
	Dump(ctx context.Context, t *orderedmap.OrderedMap, sort bool) (string, error)

	Load(ctx context.Context, filename string) (*orderedmap.OrderedMap, error)
	Save(ctx context.Context, filename string, t *orderedmap.OrderedMap, sort bool) error
}

// Descriptor is the static identity of a parser: the editor language ids it
// accepts and a file extension pattern.
type Descriptor struct {
	ID          string
	LanguageIDs []string

	// Extension is a regular expression matched against the whole file
	// extension, without the dot, ignoring case. "m?js" matches .js and .mjs.
	Extension string

	re *regexp.Regexp
}

// NewDescriptor returns a Descriptor. It panics if ext is not a valid
// regular expression.
func NewDescriptor(id string, languageIDs []string, ext string) Descriptor {
	return Descriptor{
		ID:          id,
		LanguageIDs: append([]string(nil), languageIDs...),
		Extension:   ext,
		re:          regexp.MustCompile(`(?i)^(?:` + ext + `)$`),
	}
}

// MatchFile reports whether filename has a matching extension.
func (d Descriptor) MatchFile(filename string) bool {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" || d.re == nil {
		return false
	}
	return d.re.MatchString(ext)
}

// SupportsLanguageID reports whether id is one of the descriptor's language ids.
func (d Descriptor) SupportsLanguageID(id string) bool {
	for _, l := range d.LanguageIDs {
		if l == id {
			return true
		}
	}
	return false
}

// Options are the writer settings shared by all parsers.
type Options struct {
	Indent int
	Tab    string // "\t" to indent with tabs
}

// IndentUnit returns the indentation unit. A literal tab wins over Indent.
func (o Options) IndentUnit() codec.Indent {
	if o.Tab == "\t" {
		return codec.Tab
	}
	return codec.Spaces(o.Indent)
}
