package json

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/codec"
	"github.com/thirteen37/i18n-ecma/internal/format"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no comments",
			input: `{"key": "value"}`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "single line comment",
			input: "// comment\n{\"key\": \"value\"}",
			want:  "\n{\"key\": \"value\"}",
		},
		{
			name:  "inline comment",
			input: "{\"key\": \"value\"} // comment",
			want:  "{\"key\": \"value\"} ",
		},
		{
			name:  "comment with leading whitespace",
			input: "  // comment\n{\"key\": \"value\"}",
			want:  "\n{\"key\": \"value\"}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(StripComments([]byte(tt.input)))
			if got != tt.want {
				t.Errorf("StripComments() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandler_Parse(t *testing.T) {
	tests := []struct {
		name     string
		handler  *Handler
		input    string
		wantKeys []string
		wantErr  bool
	}{
		{
			name:     "simple json",
			handler:  New(),
			input:    `{"key": "value"}`,
			wantKeys: []string{"key"},
		},
		{
			name:     "keeps document order",
			handler:  New(),
			input:    `{"zebra": "z", "apple": "a", "mango": "m"}`,
			wantKeys: []string{"zebra", "apple", "mango"},
		},
		{
			name:     "nested json",
			handler:  New(),
			input:    `{"outer": {"inner": "value"}}`,
			wantKeys: []string{"outer"},
		},
		{
			name:     "jsonc comments stripped",
			handler:  NewJSONC(),
			input:    "// comment\n{\"key\": \"value\"}",
			wantKeys: []string{"key"},
		},
		{
			name:    "comments rejected in plain json",
			handler: New(),
			input:   "// comment\n{\"key\": \"value\"}",
			wantErr: true,
		},
		{
			name:    "invalid json",
			handler: New(),
			input:   `{invalid}`,
			wantErr: true,
		},
		{
			name:    "top level array",
			handler: New(),
			input:   `["a"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.handler.Parse([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			gotKeys := got.Keys()
			if len(gotKeys) != len(tt.wantKeys) {
				t.Errorf("Parse() got %d keys, want %d", len(gotKeys), len(tt.wantKeys))
				return
			}
			for i, k := range gotKeys {
				if k != tt.wantKeys[i] {
					t.Errorf("Parse() key[%d] = %q, want %q", i, k, tt.wantKeys[i])
				}
			}
		})
	}
}

func TestHandler_Parse_NestedMapsArePointers(t *testing.T) {
	got, err := New().Parse([]byte(`{"outer": {"inner": "value"}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	outer, _ := got.Get("outer")
	if _, ok := outer.(*orderedmap.OrderedMap); !ok {
		t.Errorf("nested value is %T, want *orderedmap.OrderedMap", outer)
	}
}

func TestHandler_Serialize_PreservesOrder(t *testing.T) {
	h := New()

	// Create ordered map with specific key order
	tree := orderedmap.New()
	tree.Set("zebra", "last")
	tree.Set("apple", "first")
	tree.Set("mango", "middle")

	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	// The order should be zebra, apple, mango (insertion order)
	want := "{\n  \"zebra\": \"last\",\n  \"apple\": \"first\",\n  \"mango\": \"middle\"\n}\n"
	if string(data) != want {
		t.Errorf("Serialize() = %q, want %q", string(data), want)
	}
}

func TestHandler_Serialize_Indent(t *testing.T) {
	tree := orderedmap.New()
	inner := orderedmap.New()
	inner.Set("b", "<b>")
	tree.Set("a", inner)

	tests := []struct {
		name   string
		indent codec.Indent
		want   string
	}{
		{name: "tab", indent: codec.Tab, want: "{\n\t\"a\": {\n\t\t\"b\": \"<b>\"\n\t}\n}\n"},
		{name: "four spaces", indent: codec.Spaces(4), want: "{\n    \"a\": {\n        \"b\": \"<b>\"\n    }\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := New().Serialize(tree, format.SerializeOptions{Indent: tt.indent})
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Serialize() = %q, want %q", string(data), tt.want)
			}
		})
	}
}

func TestHandler_ParseAndSerialize_PreservesOrder(t *testing.T) {
	h := New()

	// Parse JSON with specific key order
	input := `{"zebra": "last", "apple": "first", "mango": "middle"}`

	tree, err := h.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	// The order should be preserved: zebra, apple, mango
	want := "{\n  \"zebra\": \"last\",\n  \"apple\": \"first\",\n  \"mango\": \"middle\"\n}\n"
	if string(data) != want {
		t.Errorf("ParseAndSerialize() = %q, want %q", string(data), want)
	}
}

func TestStatic_SaveSorted(t *testing.T) {
	p := format.NewStatic(Descriptor(), New(), format.Options{Indent: 2}, nil)
	filename := filepath.Join(t.TempDir(), "locales", "en.json")

	tree, err := p.Parse([]byte(`{"b": {"z": "1", "y": "2"}, "a": "3"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := p.Save(context.Background(), filename, tree, true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "{\n  \"a\": \"3\",\n  \"b\": {\n    \"y\": \"2\",\n    \"z\": \"1\"\n  }\n}\n"
	if string(data) != want {
		t.Errorf("saved = %q, want %q", string(data), want)
	}

	loaded, err := p.Load(context.Background(), filename)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Keys(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Load() keys = %v", got)
	}
}
