// Package transpile loads TypeScript and JavaScript locale modules by running
// an external toolchain (ts-node by default) that prints the module's default
// export as JSON.
package transpile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thirteen37/i18n-ecma/internal/assets"
	"github.com/thirteen37/i18n-ecma/internal/syntax"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

// DefaultTimeout bounds one toolchain run when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// waitDelay is how long Wait waits for output pipes after the process exits
// or is killed.
const waitDelay = 2 * time.Second

// DefaultCompilerOptions are passed to the toolchain unless overridden.
func DefaultCompilerOptions() map[string]any {
	return map[string]any{
		"importHelpers": false,
		"allowJs":       true,
		"module":        "commonjs",
	}
}

// Options configures a Bridge.
type Options struct {
	// Runner is an executable path or a whitespace separated command such
	// as "npx ts-node".
	Runner string

	// Loader is the bootstrap script. Empty means the embedded loader.
	Loader string

	// Dir is the project root, passed as --dir and used as working directory.
	Dir string

	// CompilerOptions shallow-override DefaultCompilerOptions.
	CompilerOptions map[string]any

	Timeout time.Duration

	// SyntaxCheck parses the file in-process before spawning the toolchain.
	SyntaxCheck bool
}

// ProcessError is returned when the toolchain cannot be started, exits
// non-zero or times out.
type ProcessError struct {
	File     string
	ExitCode int // -1 when the process did not exit normally
	Stderr   string
	Timeout  bool
	Err      error
}

func (e *ProcessError) Error() string {
	var msg string
	switch {
	case e.Timeout:
		msg = fmt.Sprintf("toolchain timed out loading %s", e.File)
	case e.ExitCode >= 0:
		msg = fmt.Sprintf("toolchain exited with code %d loading %s", e.ExitCode, e.File)
	default:
		msg = fmt.Sprintf("toolchain failed loading %s: %v", e.File, e.Err)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// PayloadError is returned when the toolchain output is not a JSON object.
type PayloadError struct {
	File    string
	Line    int
	Column  int
	Snippet string
	Err     error
}

func (e *PayloadError) Error() string {
	msg := fmt.Sprintf("invalid toolchain output for %s at line %d, column %d: %v", e.File, e.Line, e.Column, e.Err)
	if e.Snippet != "" {
		msg += fmt.Sprintf("\n  %s", e.Snippet)
	}
	return msg
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// Bridge runs the toolchain.
type Bridge struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Bridge. A zero Timeout means DefaultTimeout.
func New(opts Options, logger ...zerolog.Logger) *Bridge {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	b := &Bridge{opts: opts, logger: log.Logger}
	if len(logger) > 0 {
		b.logger = logger[0]
	}
	return b
}

// Options returns the bridge configuration.
func (b *Bridge) Options() Options {
	return b.opts
}

// CompilerOptionsJSON returns the merged compiler options as compact JSON.
// Keys are emitted in sorted order.
func (b *Bridge) CompilerOptionsJSON() (string, error) {
	merged := DefaultCompilerOptions()
	for k, v := range b.opts.CompilerOptions {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return "", fmt.Errorf("failed to encode compiler options: %w", err)
	}
	return string(data), nil
}

// Args returns the toolchain arguments for file, after the runner:
//
//	--dir <root> --transpile-only --compiler-options <json> <loader> <file>
func (b *Bridge) Args(file string) ([]string, error) {
	opts, err := b.CompilerOptionsJSON()
	if err != nil {
		return nil, err
	}
	loader := b.opts.Loader
	if loader == "" {
		loader, err = assets.LoaderPath()
		if err != nil {
			return nil, err
		}
	}
	return []string{
		"--dir", b.opts.Dir,
		"--transpile-only",
		"--compiler-options", opts,
		loader,
		file,
	}, nil
}

// Command returns the executable and full argument list for file.
func (b *Bridge) Command(file string) (string, []string, error) {
	runner, err := splitRunner(b.opts.Runner)
	if err != nil {
		return "", nil, err
	}
	args, err := b.Args(file)
	if err != nil {
		return "", nil, err
	}
	return runner[0], append(runner[1:], args...), nil
}

// splitRunner treats a runner naming an existing file as a single path and
// splits anything else on whitespace.
func splitRunner(runner string) ([]string, error) {
	runner = strings.TrimSpace(runner)
	if runner == "" {
		return nil, errors.New("no toolchain runner configured")
	}
	if info, err := os.Stat(runner); err == nil && !info.IsDir() {
		return []string{runner}, nil
	}
	return strings.Fields(runner), nil
}

// Load runs the toolchain on file and decodes its output as a locale tree
// in document key order. There are no retries.
func (b *Bridge) Load(ctx context.Context, file string) (*orderedmap.OrderedMap, error) {
	if !filepath.IsAbs(file) && b.opts.Dir != "" {
		file = filepath.Join(b.opts.Dir, file)
	}

	if b.opts.SyntaxCheck {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := syntax.Check(file, src); err != nil {
			return nil, err
		}
	}

	name, args, err := b.Command(file)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = b.opts.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	b.logger.Debug().
		Str("file", file).
		Str("runner", name).
		Strs("args", args).
		Msg("Spawning toolchain")

	runErr := cmd.Run()
	b.logger.Debug().
		Str("file", file).
		Dur("duration", time.Since(start)).
		Msg("Toolchain finished")

	if runErr != nil {
		perr := &ProcessError{
			File:     file,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      runErr,
		}
		var exitErr *exec.ExitError
		if ctxErr := ctx.Err(); ctxErr != nil {
			perr.Timeout = errors.Is(ctxErr, context.DeadlineExceeded)
			perr.Err = fmt.Errorf("%w: %w", ctxErr, runErr)
		} else if errors.As(runErr, &exitErr) && exitErr.Exited() {
			perr.ExitCode = exitErr.ExitCode()
		}
		return nil, perr
	}

	return decodePayload(file, strings.TrimSpace(stdout.String()))
}

// decodePayload parses the toolchain output into a tree.
func decodePayload(file, out string) (*orderedmap.OrderedMap, error) {
	if !strings.HasPrefix(out, "{") {
		line, col, snippet := syntax.Locate(out, 0)
		return nil, &PayloadError{
			File: file, Line: line, Column: col, Snippet: snippet,
			Err: errors.New("output is not a JSON object"),
		}
	}

	t, err := tree.FromJSON([]byte(out))
	if err != nil {
		offset := 0
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			offset = int(syntaxErr.Offset)
		case errors.As(err, &typeErr):
			offset = int(typeErr.Offset)
		}
		line, col, snippet := syntax.Locate(out, offset)
		return nil, &PayloadError{File: file, Line: line, Column: col, Snippet: snippet, Err: err}
	}
	return t, nil
}
