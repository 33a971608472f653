package format

import (
	"context"
	"errors"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/i18n-ecma/internal/codec"
)

func TestDescriptor_MatchFile(t *testing.T) {
	js := NewDescriptor("js", []string{"javascript"}, "m?js")

	tests := []struct {
		file string
		want bool
	}{
		{"en.js", true},
		{"locales/en.mjs", true},
		{"EN.JS", true},
		{"en.cjs", false},
		{"en.json", false},
		{"en.js.map", false},
		{"js", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, js.MatchFile(tt.file))
		})
	}
}

func TestDescriptor_SupportsLanguageID(t *testing.T) {
	ts := NewDescriptor("ts", []string{"typescript"}, "ts")
	assert.True(t, ts.SupportsLanguageID("typescript"))
	assert.False(t, ts.SupportsLanguageID("javascript"))
	assert.False(t, ts.SupportsLanguageID("TypeScript"))
}

func TestOptions_IndentUnit(t *testing.T) {
	assert.Equal(t, codec.Spaces(2), Options{Indent: 2}.IndentUnit())
	assert.Equal(t, codec.Tab, Options{Indent: 2, Tab: "\t"}.IndentUnit())
	assert.Equal(t, codec.Spaces(4), Options{Indent: 4, Tab: "  "}.IndentUnit())
}

// upperHandler is a trivial Handler for Static tests.
type upperHandler struct{}

func (upperHandler) Parse(data []byte) (*orderedmap.OrderedMap, error) {
	if len(data) == 0 {
		return nil, errors.New("empty")
	}
	t := orderedmap.New()
	t.Set("text", string(data))
	return t, nil
}

func (upperHandler) Serialize(t *orderedmap.OrderedMap, opts SerializeOptions) ([]byte, error) {
	return []byte(opts.Indent.String() + joinKeys(t)), nil
}

func joinKeys(t *orderedmap.OrderedMap) string {
	out := ""
	for _, k := range t.Keys() {
		out += k
	}
	return out
}

func TestStatic(t *testing.T) {
	var written map[string]string
	write := func(filename string, data []byte) error {
		written = map[string]string{filename: string(data)}
		return nil
	}
	p := NewStatic(NewDescriptor("up", []string{"up"}, "up"), upperHandler{}, Options{Tab: "\t"}, write)

	assert.False(t, p.Readonly())
	assert.Equal(t, "up", p.Descriptor().ID)

	tree := orderedmap.New()
	tree.Set("b", "1")
	tree.Set("a", "2")

	out, err := p.Dump(context.Background(), tree, false)
	require.NoError(t, err)
	assert.Equal(t, "\tba", out)

	require.NoError(t, p.Save(context.Background(), "x.up", tree, true))
	assert.Equal(t, map[string]string{"x.up": "\tab"}, written)
	assert.Equal(t, []string{"b", "a"}, tree.Keys())

	_, err = p.Load(context.Background(), "does-not-exist.up")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	js := NewStatic(NewDescriptor("js", []string{"javascript"}, "m?js"), upperHandler{}, Options{}, nil)
	ts := NewStatic(NewDescriptor("ts", []string{"typescript"}, "ts"), upperHandler{}, Options{}, nil)
	r := NewRegistry(js)
	r.Register(ts)

	p, ok := r.ForFile("src/locales/en.mjs")
	require.True(t, ok)
	assert.Equal(t, "js", p.Descriptor().ID)

	p, ok = r.ForLanguageID("typescript")
	require.True(t, ok)
	assert.Equal(t, "ts", p.Descriptor().ID)

	_, ok = r.ForFile("en.yaml")
	assert.False(t, ok)
	_, ok = r.ForLanguageID("yaml")
	assert.False(t, ok)

	assert.Len(t, r.Parsers(), 2)
}
