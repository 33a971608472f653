// Package ini provides the INI locale format handler.
package ini

import (
	"bytes"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/format"
	"github.com/thirteen37/i18n-ecma/internal/tree"
	"gopkg.in/ini.v1"
)

// Handler implements format.Handler for INI files.
type Handler struct{}

// New creates a new INI handler.
func New() *Handler {
	return &Handler{}
}

// Descriptor identifies INI locale files.
func Descriptor() format.Descriptor {
	return format.NewDescriptor("ini", []string{"ini", "properties"}, "ini|properties")
}

// Parse reads INI bytes and returns a tree.
// Structure: {"section": {"key": "value"}}
// Global keys (before any section) are stored at the top level.
func (h *Handler) Parse(data []byte) (*orderedmap.OrderedMap, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI: %w", err)
	}

	result := tree.New()
	for _, section := range cfg.Sections() {
		// ini.v1 uses "DEFAULT" for the global section
		if section.Name() == ini.DefaultSection {
			for _, key := range section.Keys() {
				result.Set(key.Name(), key.Value())
			}
			continue
		}

		sectionMap := tree.New()
		for _, key := range section.Keys() {
			sectionMap.Set(key.Name(), key.Value())
		}
		result.Set(section.Name(), sectionMap)
	}

	return result, nil
}

// Serialize writes the tree to INI bytes. Top-level strings go to the
// global section; nested trees deeper than one level are flattened into
// dotted keys.
func (h *Handler) Serialize(t *orderedmap.OrderedMap, _ format.SerializeOptions) ([]byte, error) {
	cfg := ini.Empty()

	for _, name := range t.Keys() {
		val, _ := t.Get(name)
		sectionMap := tree.ToOrderedMapPtr(val)
		if sectionMap == nil {
			if _, err := cfg.Section(ini.DefaultSection).NewKey(name, toString(val)); err != nil {
				return nil, fmt.Errorf("failed to create key %q: %w", name, err)
			}
			continue
		}

		section, err := cfg.NewSection(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create section %q: %w", name, err)
		}

		flat := tree.Flatten(sectionMap)
		for _, keyName := range flat.Keys() {
			keyVal, _ := flat.Get(keyName)
			if _, err := section.NewKey(keyName, toString(keyVal)); err != nil {
				return nil, fmt.Errorf("failed to create key %q: %w", keyName, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize INI: %w", err)
	}

	return buf.Bytes(), nil
}

// toString converts any value to its string representation.
// INI files only support string values.
func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
