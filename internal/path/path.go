// Package path provides key path selectors for navigating locale trees.
package path

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Path represents a selector for a key inside a locale tree.
type Path interface {
	// Segments returns the path as a slice of string keys.
	Segments() []string

	// String returns a canonical string representation.
	String() string
}

// KeyPath is a path made of plain string keys.
// Example: ["home", "title"] is written "home.title".
type KeyPath struct {
	segments []string
}

// New creates a KeyPath from string segments.
func New(segments ...string) *KeyPath {
	return &KeyPath{segments: segments}
}

// Parse reads a key path in either dotted form ("home.title") or as a JSON
// array (`["home", "title.long"]`). The array form is needed when a key
// itself contains the separator.
func Parse(s string) (*KeyPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty key path")
	}
	if strings.HasPrefix(s, "[") {
		return ParseArray(s)
	}

	segments := strings.Split(s, ".")
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("key path %q has an empty segment at position %d", s, i)
		}
	}
	return &KeyPath{segments: segments}, nil
}

// ParseArray parses a JSON array string into a KeyPath.
func ParseArray(s string) (*KeyPath, error) {
	var segments []string
	if err := json.Unmarshal([]byte(s), &segments); err != nil {
		return nil, fmt.Errorf("invalid path array: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty key path")
	}
	return &KeyPath{segments: segments}, nil
}

// Segments returns the path segments.
func (p *KeyPath) Segments() []string {
	return p.segments
}

// String returns the dotted form, or the JSON array form when a segment
// contains a dot.
func (p *KeyPath) String() string {
	for _, seg := range p.segments {
		if strings.Contains(seg, ".") {
			data, _ := json.Marshal(p.segments)
			return string(data)
		}
	}
	return strings.Join(p.segments, ".")
}
