// Package syntax checks locale modules for syntax errors before they are
// handed to an external toolchain, and locates error offsets in text.
package syntax

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Error is a syntax error at a position in a file.
type Error struct {
	File    string
	Line    int // 1-based
	Column  int // 1-based
	Snippet string
	Kind    string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: syntax error", e.File, e.Line, e.Column)
	if e.Kind != "" {
		msg += " (" + e.Kind + ")"
	}
	if e.Snippet != "" {
		msg += ": " + e.Snippet
	}
	return msg
}

// Check parses source with the TypeScript grammar, which also accepts plain
// JavaScript, and returns the first error node as an *Error.
func Check(file string, source []byte) error {
	lang := tree_sitter_typescript.LanguageTypescript()

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tree_sitter.NewLanguage(lang)); err != nil {
		return fmt.Errorf("set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return fmt.Errorf("tree-sitter returned nil tree for %s", file)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	line, col, snippet := Locate(string(source), int(bad.StartByte()))
	kind := "unexpected input"
	if bad.IsMissing() {
		kind = "missing " + bad.Kind()
	}
	return &Error{File: file, Line: line, Column: col, Snippet: snippet, Kind: kind}
}

// firstError returns the earliest ERROR or MISSING node under n.
func firstError(n *tree_sitter.Node) *tree_sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}

// Locate converts a byte offset in content to a 1-based line and column and
// returns the offending line, trimmed. Offsets past the end report line 1,
// column 1 and an empty snippet.
func Locate(content string, offset int) (line, col int, snippet string) {
	if offset < 0 || offset > len(content) {
		return 1, 1, ""
	}

	line = 1 + strings.Count(content[:offset], "\n")
	lineStart := strings.LastIndexByte(content[:offset], '\n') + 1
	col = offset - lineStart + 1

	lineEnd := strings.IndexByte(content[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(content)
	} else {
		lineEnd += lineStart
	}
	return line, col, strings.TrimSpace(content[lineStart:lineEnd])
}
