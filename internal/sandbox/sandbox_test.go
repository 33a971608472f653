package sandbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestEvaluate(t *testing.T) {
	filename := writeScript(t, `module.exports = { zebra: "z", apple: { b: "1", a: "2" }, list: ["x", 2] }`)

	got, err := Evaluate(context.Background(), filename)
	require.NoError(t, err)

	m, ok := got.(*orderedmap.OrderedMap)
	require.True(t, ok, "export is %T", got)
	assert.Equal(t, []string{"zebra", "apple", "list"}, m.Keys())

	apple, _ := m.Get("apple")
	assert.Equal(t, []string{"b", "a"}, apple.(*orderedmap.OrderedMap).Keys())

	list, _ := m.Get("list")
	assert.Equal(t, []any{"x", int64(2)}, list)
}

func TestEvaluate_ExportsAlias(t *testing.T) {
	filename := writeScript(t, `exports.greeting = "hi"`)

	got, err := Evaluate(context.Background(), filename)
	require.NoError(t, err)
	v, _ := got.(*orderedmap.OrderedMap).Get("greeting")
	assert.Equal(t, "hi", v)
}

func TestEvaluate_DefaultUnwrap(t *testing.T) {
	filename := writeScript(t, `module.exports = { default: { greeting: "hi" } }`)

	got, err := Evaluate(context.Background(), filename)
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting"}, got.(*orderedmap.OrderedMap).Keys())
}

func TestEvaluate_Isolation(t *testing.T) {
	filename := writeScript(t, `
module.exports = {
  require: typeof require,
  process: typeof process,
  console: typeof console,
  leaked: typeof leakedGlobal,
}
var leakedGlobal = 1
`)

	first, err := Evaluate(context.Background(), filename)
	require.NoError(t, err)
	m := first.(*orderedmap.OrderedMap)
	for _, k := range []string{"require", "process", "console"} {
		v, _ := m.Get(k)
		assert.Equal(t, "undefined", v, k)
	}

	// A second evaluation does not see the first one's globals.
	other := writeScript(t, `module.exports = { leaked: typeof leakedGlobal }`)
	second, err := Evaluate(context.Background(), other)
	require.NoError(t, err)
	v, _ := second.(*orderedmap.OrderedMap).Get("leaked")
	assert.Equal(t, "undefined", v)
}

func TestEvaluate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
		inMsg   string
	}{
		{name: "syntax error", content: "module.exports = {", inMsg: "failed to compile"},
		{name: "throw", content: `throw new Error("boom")`, inMsg: "boom"},
		{name: "undefined export", content: "module.exports = undefined", target: ErrNoExport},
		{name: "null export", content: "module.exports = null", target: ErrNoExport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := writeScript(t, tt.content)
			_, err := Evaluate(context.Background(), filename)
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "error %v is not %v", err, tt.target)
			}
			if tt.inMsg != "" {
				assert.Contains(t, err.Error(), tt.inMsg)
			}
			assert.Contains(t, err.Error(), filename)
		})
	}
}

func TestEvaluate_MissingFile(t *testing.T) {
	_, err := Evaluate(context.Background(), filepath.Join(t.TempDir(), "nope.js"))
	assert.Error(t, err)
}

func TestEvaluate_Cancelled(t *testing.T) {
	filename := writeScript(t, `for (;;) {}`)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Evaluate(ctx, filename)
	require.Error(t, err)
}

func TestLoadFunc(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "bare function", content: `module.exports = function (a, b) { return a + b }`},
		{name: "default wrapped", content: `module.exports = { default: function (a, b) { return a + b } }`},
		{name: "exports.default", content: `exports.default = (a, b) => a + b`},
		{name: "object", content: `module.exports = { add: 1 }`, wantErr: ErrNotCallable},
		{name: "string default", content: `module.exports = { default: "nope" }`, wantErr: ErrNotCallable},
		{name: "untouched exports", content: `var x = 1`, wantErr: ErrNotCallable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := writeScript(t, tt.content)
			fn, err := LoadFunc(context.Background(), filename)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filename, fn.Filename())

			got, err := fn.Call(context.Background(), 2, 3)
			require.NoError(t, err)
			assert.Equal(t, int64(5), got)
		})
	}
}

func TestFunc_CallWithTree(t *testing.T) {
	filename := writeScript(t, `
module.exports = function (obj, indent, sort) {
  return JSON.stringify(obj, null, indent) + (sort ? "|sorted" : "")
}`)

	fn, err := LoadFunc(context.Background(), filename)
	require.NoError(t, err)

	tr := tree.New()
	tr.Set("zebra", "z")
	nested := tree.New()
	nested.Set("b", "1")
	nested.Set("a", "2")
	tr.Set("apple", nested)

	got, err := fn.Call(context.Background(), tr, "\t", true)
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"zebra\": \"z\",\n\t\"apple\": {\n\t\t\"b\": \"1\",\n\t\t\"a\": \"2\"\n\t}\n}|sorted", got)
}

func TestFunc_CallThrows(t *testing.T) {
	filename := writeScript(t, `module.exports = function () { throw new Error("render failed") }`)

	fn, err := LoadFunc(context.Background(), filename)
	require.NoError(t, err)

	_, err = fn.Call(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render failed")

	// The runtime stays usable after a throw.
	_, err = fn.Call(context.Background())
	assert.Contains(t, err.Error(), "render failed")
}
