// Package project wires configuration, message catalog and parsers for one
// project root.
package project

import (
	"context"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/rs/zerolog"
	"github.com/thirteen37/i18n-ecma/internal/config"
	"github.com/thirteen37/i18n-ecma/internal/format"
	"github.com/thirteen37/i18n-ecma/internal/format/ecmascript"
	"github.com/thirteen37/i18n-ecma/internal/format/ini"
	"github.com/thirteen37/i18n-ecma/internal/format/json"
	"github.com/thirteen37/i18n-ecma/internal/format/toml"
	"github.com/thirteen37/i18n-ecma/internal/i18n"
	"github.com/thirteen37/i18n-ecma/internal/serializer"
	"github.com/thirteen37/i18n-ecma/internal/transpile"
)

// Project is an opened project root.
type Project struct {
	Config     *config.Config
	Translator *i18n.Catalog
	Registry   *format.Registry
	Bridge     *transpile.Bridge

	logger zerolog.Logger
}

// Open loads the configuration at root and builds the parsers.
func Open(root string, logger zerolog.Logger) (*Project, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg, logger)
}

// New builds a Project from an already loaded configuration.
func New(cfg *config.Config, logger zerolog.Logger) (*Project, error) {
	catalog, err := i18n.New(cfg.Locale)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	p := &Project{
		Config:     cfg,
		Translator: catalog,
		logger:     logger,
	}
	p.Bridge = transpile.New(transpile.Options{
		Runner:          cfg.Parsers.Typescript.TsNodePath,
		Loader:          cfg.LoaderPath(),
		Dir:             cfg.RootPath,
		CompilerOptions: cfg.CompilerOptions(),
		Timeout:         timeout,
		SyntaxCheck:     cfg.Parsers.Typescript.SyntaxCheck,
	}, logger)

	opts := format.Options{Indent: cfg.Indent, Tab: cfg.Tab}
	p.Registry = format.NewRegistry(
		p.ecmascript(ecmascript.JS, opts),
		p.ecmascript(ecmascript.TS, opts),
		format.NewStatic(json.Descriptor(), json.New(), opts, nil),
		format.NewStatic(json.JSONCDescriptor(), json.NewJSONC(), opts, nil),
		format.NewStatic(toml.Descriptor(), toml.New(), opts, nil),
		format.NewStatic(ini.Descriptor(), ini.New(), opts, nil),
	)

	logger.Debug().
		Str("root", cfg.RootPath).
		Str("locale", catalog.Locale()).
		Str("engine", cfg.Parsers.Ecmascript.Engine).
		Msg("Project opened")
	return p, nil
}

// ecmascript builds a JS or TS parser with its own serializer resolver.
func (p *Project) ecmascript(v ecmascript.Variant, opts format.Options) *ecmascript.Parser {
	var loader ecmascript.Loader = p.Bridge
	if v == ecmascript.JS && p.Config.Parsers.Ecmascript.Engine == config.EngineSandbox {
		loader = ecmascript.SandboxLoader
	}
	resolver := serializer.New(p.Config.RootPath,
		serializer.WithLogger(p.logger),
		serializer.WithTranslator(p.Translator),
	)
	return ecmascript.New(v, ecmascript.Config{
		Options:    opts,
		Loader:     loader,
		Resolver:   resolver,
		Translator: p.Translator,
		Logger:     &p.logger,
	})
}

// Root returns the absolute project root.
func (p *Project) Root() string {
	return p.Config.RootPath
}

// ParserFor returns the parser for filename.
func (p *Project) ParserFor(filename string) (format.Parser, error) {
	parser, ok := p.Registry.ForFile(filename)
	if !ok {
		return nil, fmt.Errorf("no parser for %s", filename)
	}
	return parser, nil
}

// Load reads a locale file with the matching parser.
func (p *Project) Load(ctx context.Context, filename string) (*orderedmap.OrderedMap, error) {
	parser, err := p.ParserFor(filename)
	if err != nil {
		return nil, err
	}
	return parser.Load(ctx, filename)
}

// Save writes a locale file with the matching parser. sort nil means the
// configured default.
func (p *Project) Save(ctx context.Context, filename string, t *orderedmap.OrderedMap, sort *bool) error {
	parser, err := p.ParserFor(filename)
	if err != nil {
		return err
	}
	s := p.Config.SortKeys
	if sort != nil {
		s = *sort
	}
	return parser.Save(ctx, filename, t, s)
}
