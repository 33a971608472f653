package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/i18n-ecma/internal/config"
	"github.com/thirteen37/i18n-ecma/internal/format/ecmascript"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

func writeFile(t *testing.T, filename, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0755))
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
}

func TestOpen_Defaults(t *testing.T) {
	root := t.TempDir()

	p, err := Open(root, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, root, p.Root())
	assert.Equal(t, "en", p.Translator.Locale())

	opts := p.Bridge.Options()
	assert.Equal(t, "npx ts-node", opts.Runner)
	assert.Equal(t, config.DefaultTimeout, opts.Timeout)
	assert.True(t, opts.SyntaxCheck)

	var ids []string
	for _, parser := range p.Registry.Parsers() {
		ids = append(ids, parser.Descriptor().ID)
	}
	assert.Equal(t, []string{"js", "ts", "json", "jsonc", "toml", "ini"}, ids)
}

func TestProject_ParserFor(t *testing.T) {
	p, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		file    string
		wantID  string
		wantErr bool
	}{
		{file: "locales/en.js", wantID: "js"},
		{file: "locales/en.mjs", wantID: "js"},
		{file: "locales/en.ts", wantID: "ts"},
		{file: "locales/en.json", wantID: "json"},
		{file: "locales/en.toml", wantID: "toml"},
		{file: "locales/en.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			parser, err := p.ParserFor(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, parser.Descriptor().ID)
		})
	}
}

func TestProject_SandboxEngine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), "[parsers.ecmascript]\nengine = \"sandbox\"\n")
	writeFile(t, filepath.Join(root, "locales", "en.js"), `module.exports = { greeting: "hi", nested: { bye: "bye" } }`)

	p, err := Open(root, zerolog.Nop())
	require.NoError(t, err)

	got, err := p.Load(context.Background(), filepath.Join(root, "locales", "en.js"))
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting", "nested"}, got.Keys())

	// Without a custom serializer JS files cannot be written.
	parser, err := p.ParserFor("en.js")
	require.NoError(t, err)
	assert.True(t, parser.Readonly())
	err = p.Save(context.Background(), filepath.Join(root, "locales", "en.js"), got, nil)
	assert.True(t, errors.Is(err, ecmascript.ErrCannotWrite))
}

func TestProject_SaveJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), "indent = 4\nsort_keys = true\n")

	p, err := Open(root, zerolog.Nop())
	require.NoError(t, err)

	tr := tree.New()
	tr.Set("b", "2")
	tr.Set("a", "1")
	filename := filepath.Join(root, "locales", "en.json")

	require.NoError(t, p.Save(context.Background(), filename, tr, nil))
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": \"1\",\n    \"b\": \"2\"\n}\n", string(data))

	unsorted := false
	require.NoError(t, p.Save(context.Background(), filename, tr, &unsorted))
	data, err = os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"b\": \"2\",\n    \"a\": \"1\"\n}\n", string(data))
}

func TestProject_CustomSerializer(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".vscode", "i18n-ally-custom-ecmascript-parser.js"), `
module.exports = {
  default: (obj, indent) => "module.exports = " + JSON.stringify(obj, null, indent) + "\n",
}`)

	p, err := Open(root, zerolog.Nop())
	require.NoError(t, err)

	tr := tree.New()
	tr.Set("greeting", "hi")
	filename := filepath.Join(root, "locales", "en.js")

	require.NoError(t, p.Save(context.Background(), filename, tr, nil))
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "module.exports = {\n  \"greeting\": \"hi\"\n}\n", string(data))
}
