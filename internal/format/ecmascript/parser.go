// Package ecmascript provides the JavaScript and TypeScript locale parsers.
//
// Locale modules are executed to be read, either through an external
// transpile toolchain or, for plain CommonJS JavaScript, in-process. Writing
// them back needs a project-provided serializer; without one the parser is
// read-only.
package ecmascript

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/iancoleman/orderedmap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thirteen37/i18n-ecma/internal/format"
	"github.com/thirteen37/i18n-ecma/internal/i18n"
	"github.com/thirteen37/i18n-ecma/internal/sandbox"
	"github.com/thirteen37/i18n-ecma/internal/serializer"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

// ErrCannotWrite is returned by Save and Dump when no custom serializer is
// available.
var ErrCannotWrite = serializer.ErrCannotWrite

// Variant selects the module language.
type Variant string

const (
	JS Variant = "js"
	TS Variant = "ts"
)

// Descriptor returns the identity of a variant.
func Descriptor(v Variant) format.Descriptor {
	switch v {
	case TS:
		return format.NewDescriptor(string(TS), []string{"typescript"}, "ts")
	default:
		return format.NewDescriptor(string(JS), []string{"javascript"}, "m?js")
	}
}

// Loader loads a locale module as a tree.
type Loader interface {
	Load(ctx context.Context, filename string) (*orderedmap.OrderedMap, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, filename string) (*orderedmap.OrderedMap, error)

func (f LoaderFunc) Load(ctx context.Context, filename string) (*orderedmap.OrderedMap, error) {
	return f(ctx, filename)
}

// SandboxLoader evaluates CommonJS modules in-process.
var SandboxLoader Loader = LoaderFunc(func(ctx context.Context, filename string) (*orderedmap.OrderedMap, error) {
	v, err := sandbox.Evaluate(ctx, filename)
	if err != nil {
		return nil, err
	}
	t := tree.ToOrderedMapPtr(v)
	if t == nil {
		return nil, fmt.Errorf("%s: module exported %T, want an object", filename, v)
	}
	return t, nil
})

// Config configures a Parser.
type Config struct {
	Options  format.Options
	Loader   Loader
	Resolver *serializer.Resolver

	// Translator localizes user-facing messages. Defaults to English.
	Translator i18n.Translator
	Logger     *zerolog.Logger

	// Write replaces format.WriteFile.
	Write format.WriteFunc
}

// Parser reads and writes JavaScript or TypeScript locale modules.
type Parser struct {
	variant  Variant
	desc     format.Descriptor
	opts     format.Options
	loader   Loader
	resolver *serializer.Resolver
	t        i18n.Translator
	logger   zerolog.Logger
	write    format.WriteFunc
}

// New creates a Parser. Loader and Resolver are required.
func New(v Variant, cfg Config) *Parser {
	p := &Parser{
		variant:  v,
		desc:     Descriptor(v),
		opts:     cfg.Options,
		loader:   cfg.Loader,
		resolver: cfg.Resolver,
		t:        cfg.Translator,
		logger:   log.Logger,
		write:    cfg.Write,
	}
	if cfg.Logger != nil {
		p.logger = *cfg.Logger
	}
	if p.t == nil {
		p.t = i18n.Must(i18n.DefaultLocale)
	}
	if p.write == nil {
		p.write = format.WriteFile
	}
	p.logger = p.logger.With().Str("parser", string(v)).Logger()
	return p
}

func (p *Parser) Variant() Variant { return p.variant }

func (p *Parser) Descriptor() format.Descriptor { return p.desc }

// Readonly reports whether the custom serializer was missing when the
// parser was created.
func (p *Parser) Readonly() bool {
	return p.resolver.Readonly()
}

// Parse returns an empty tree; modules are code and have to be loaded.
func (p *Parser) Parse([]byte) (*orderedmap.OrderedMap, error) {
	return tree.New(), nil
}

// Dump renders t with the custom serializer. Without one it returns ""
// and ErrCannotWrite.
func (p *Parser) Dump(ctx context.Context, t *orderedmap.OrderedMap, sort bool) (string, error) {
	return p.resolver.Render(ctx, t, p.opts.IndentUnit(), sort)
}

// Load executes the module at filename and returns its default export.
func (p *Parser) Load(ctx context.Context, filename string) (*orderedmap.OrderedMap, error) {
	p.logger.Debug().Str("file", filename).Msg(p.t.T(i18n.Loading, filepath.Base(filename)))
	t, err := p.loader.Load(ctx, filename)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Save renders t and writes it to filename. Without a custom serializer
// nothing is written: the condition is logged and ErrCannotWrite returned.
func (p *Parser) Save(ctx context.Context, filename string, t *orderedmap.OrderedMap, sort bool) error {
	text, err := p.Dump(ctx, t, sort)
	if errors.Is(err, ErrCannotWrite) {
		p.logger.Warn().Str("file", filename).Msg(p.t.T(i18n.WritingJS, p.resolver.Filename()))
		return err
	}
	if err != nil {
		return err
	}
	if err := p.write(filename, []byte(text)); err != nil {
		return err
	}
	p.logger.Info().Str("file", filename).Msg(p.t.T(i18n.Saved, filepath.Base(filename)))
	return nil
}

var _ format.Parser = (*Parser)(nil)
