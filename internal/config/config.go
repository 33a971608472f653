// Package config provides project configuration for i18n-ecma.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// FileName is the project configuration file, relative to the project root.
const FileName = ".i18n-ecma.toml"

// Engines for loading ecmascript locale modules.
const (
	EngineToolchain = "toolchain"
	EngineSandbox   = "sandbox"
)

// DefaultTimeout bounds a single toolchain run.
const DefaultTimeout = 30 * time.Second

// Config represents the .i18n-ecma.toml configuration file.
type Config struct {
	// RootPath is the project root. It is not stored in the file.
	RootPath string `toml:"-"`

	// Locale selects the language of user-facing messages.
	Locale string `toml:"locale,omitempty"`

	// Indent is the number of spaces per level when writing locale files.
	Indent int `toml:"indent"`

	// Tab, when set to "\t", indents with tabs instead of spaces.
	Tab string `toml:"tab,omitempty"`

	// SortKeys sorts keys on save unless a command overrides it.
	SortKeys bool `toml:"sort_keys"`

	// ExtensionPath holds assets/loader.js. Empty means the embedded loader.
	ExtensionPath string `toml:"extension_path,omitempty"`

	LogLevel string `toml:"log_level,omitempty"`

	Parsers Parsers `toml:"parsers"`
}

// Parsers holds per-parser settings.
type Parsers struct {
	Typescript Typescript `toml:"typescript"`
	Ecmascript Ecmascript `toml:"ecmascript"`
}

// Typescript configures the out-of-process transpile toolchain.
type Typescript struct {
	// TsNodePath is the toolchain runner, e.g. "npx ts-node".
	TsNodePath string `toml:"ts_node_path"`

	// CompilerOptions shallow-override the built-in compiler options.
	CompilerOptions map[string]any `toml:"compiler_options,omitempty"`

	// Timeout is a Go duration string, e.g. "30s".
	Timeout string `toml:"timeout,omitempty"`

	// SyntaxCheck parses the file before spawning the toolchain.
	SyntaxCheck bool `toml:"syntax_check"`
}

// Ecmascript configures loading of .js/.mjs locale modules.
type Ecmascript struct {
	// Engine is "toolchain" (default) or "sandbox" (in-process, CommonJS only).
	Engine string `toml:"engine,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Indent:   2,
		LogLevel: "info",
		Parsers: Parsers{
			Typescript: Typescript{
				TsNodePath:  "npx ts-node",
				Timeout:     DefaultTimeout.String(),
				SyntaxCheck: true,
			},
			Ecmascript: Ecmascript{
				Engine: EngineToolchain,
			},
		},
	}
}

// Load reads the configuration for the project at root.
// A missing file yields defaults. Values from <root>/.env and the process
// environment (I18N_ECMA_*) override the file.
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg := Default()
	filename := filepath.Join(absRoot, FileName)
	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("file", filename).Msg("No config file found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.RootPath = absRoot

	envFile := filepath.Join(absRoot, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("file", envFile).Msg("Failed to read .env file")
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to filename.
func (c *Config) Save(filename string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	if c.Tab != "" && c.Tab != "\t" {
		return fmt.Errorf("tab must be empty or a single tab character, got %q", c.Tab)
	}
	if c.Indent == 0 && c.Tab == "" {
		return errors.New("indent must be at least 1 unless tab indentation is set")
	}
	switch c.Parsers.Ecmascript.Engine {
	case "", EngineToolchain, EngineSandbox:
	default:
		return fmt.Errorf("unknown ecmascript engine %q (want %q or %q)",
			c.Parsers.Ecmascript.Engine, EngineToolchain, EngineSandbox)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the toolchain timeout.
func (c *Config) Timeout() (time.Duration, error) {
	s := c.Parsers.Typescript.Timeout
	if s == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid parsers.typescript.timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parsers.typescript.timeout must be positive, got %s", d)
	}
	return d, nil
}

// LoaderPath returns the configured bootstrap loader script, or "" when the
// embedded one should be used.
func (c *Config) LoaderPath() string {
	if c.ExtensionPath == "" {
		return ""
	}
	return filepath.Join(c.ExtensionPath, "assets", "loader.js")
}

// CompilerOptions returns a copy of the configured compiler option overrides.
func (c *Config) CompilerOptions() map[string]any {
	out := make(map[string]any, len(c.Parsers.Typescript.CompilerOptions))
	for k, v := range c.Parsers.Typescript.CompilerOptions {
		out[k] = v
	}
	return out
}

func (c *Config) applyEnv() {
	c.Locale = getEnv("I18N_ECMA_LOCALE", c.Locale)
	c.ExtensionPath = getEnv("I18N_ECMA_EXTENSION_PATH", c.ExtensionPath)
	c.LogLevel = getEnv("I18N_ECMA_LOG_LEVEL", c.LogLevel)
	c.Indent = getEnvInt("I18N_ECMA_INDENT", c.Indent)
	c.Parsers.Typescript.TsNodePath = getEnv("I18N_ECMA_TS_NODE_PATH", c.Parsers.Typescript.TsNodePath)
	c.Parsers.Typescript.Timeout = getEnv("I18N_ECMA_TIMEOUT", c.Parsers.Typescript.Timeout)
	c.Parsers.Ecmascript.Engine = getEnv("I18N_ECMA_ENGINE", c.Parsers.Ecmascript.Engine)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
