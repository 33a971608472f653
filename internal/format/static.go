package format

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/codec"
)

// WriteFunc writes a file.
type WriteFunc func(filename string, data []byte) error

// WriteFile writes data to filename, creating parent directories.
func WriteFile(filename string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Static is a Parser for plain data formats, backed by a Handler.
type Static struct {
	desc    Descriptor
	handler Handler
	opts    Options
	write   WriteFunc
}

// NewStatic creates a Static parser. A nil write uses WriteFile.
func NewStatic(desc Descriptor, handler Handler, opts Options, write WriteFunc) *Static {
	if write == nil {
		write = WriteFile
	}
	return &Static{desc: desc, handler: handler, opts: opts, write: write}
}

func (s *Static) Descriptor() Descriptor { return s.desc }

func (s *Static) Readonly() bool { return false }

func (s *Static) Parse(data []byte) (*orderedmap.OrderedMap, error) {
	return s.handler.Parse(data)
}

func (s *Static) Dump(_ context.Context, t *orderedmap.OrderedMap, sort bool) (string, error) {
	if sort {
		t = codec.SortedTree(t)
	}
	data, err := s.handler.Serialize(t, SerializeOptions{Indent: s.opts.IndentUnit()})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Static) Load(_ context.Context, filename string) (*orderedmap.OrderedMap, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	t, err := s.handler.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

func (s *Static) Save(ctx context.Context, filename string, t *orderedmap.OrderedMap, sort bool) error {
	text, err := s.Dump(ctx, t, sort)
	if err != nil {
		return err
	}
	return s.write(filename, []byte(text))
}

var _ Parser = (*Static)(nil)
