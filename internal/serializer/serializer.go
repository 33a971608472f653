// Package serializer resolves and runs the optional user-supplied function
// that renders a locale tree back into source code.
//
// The function lives in a file at a fixed project-relative path. Whether the
// file exists is recorded once, when the Resolver is created; an instance
// created without it stays read-only for its whole lifetime.
package serializer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thirteen37/i18n-ecma/internal/codec"
	"github.com/thirteen37/i18n-ecma/internal/i18n"
	"github.com/thirteen37/i18n-ecma/internal/sandbox"
	"golang.org/x/sync/singleflight"
)

// CustomSerializerPath is where a project provides its serializer, relative
// to the project root.
const CustomSerializerPath = ".vscode/i18n-ally-custom-ecmascript-parser.js"

// DefaultLoadTimeout bounds one evaluation of the serializer module.
const DefaultLoadTimeout = 10 * time.Second

// ErrCannotWrite means no usable serializer is available, so the format
// cannot be written. It is an expected condition, not a failure.
var ErrCannotWrite = errors.New("cannot write this format: no custom serializer available")

// LocaleSerializer renders a locale tree as source text.
type LocaleSerializer interface {
	Serialize(ctx context.Context, tree *orderedmap.OrderedMap, indent codec.Indent, sort bool) (string, error)
}

// LoaderFunc loads the serializer from filename.
type LoaderFunc func(ctx context.Context, filename string) (LocaleSerializer, error)

// State is the resolution state of a Resolver.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resolver owns one custom serializer handle. Resolution happens at most
// once; Resolved and Failed are terminal until Invalidate is called.
type Resolver struct {
	filename    string
	readonly    bool
	load        LoaderFunc
	loadTimeout time.Duration
	logger      zerolog.Logger
	t           i18n.Translator

	group singleflight.Group

	mu         sync.Mutex
	state      State
	serializer LocaleSerializer
	attempts   int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution failures.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithTranslator sets the catalog for user-facing messages.
func WithTranslator(t i18n.Translator) Option {
	return func(r *Resolver) { r.t = t }
}

// WithLoader replaces the sandboxed loader.
func WithLoader(load LoaderFunc) Option {
	return func(r *Resolver) { r.load = load }
}

// WithLoadTimeout bounds how long one load may run. Non-positive values
// mean DefaultLoadTimeout.
func WithLoadTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.loadTimeout = d }
}

// New creates a Resolver for the project at root and takes the read-only
// snapshot.
func New(root string, opts ...Option) *Resolver {
	r := &Resolver{
		filename: filepath.Join(root, filepath.FromSlash(CustomSerializerPath)),
		load:     SandboxLoader,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loadTimeout <= 0 {
		r.loadTimeout = DefaultLoadTimeout
	}
	if r.t == nil {
		r.t = i18n.Must(i18n.DefaultLocale)
	}

	info, err := os.Stat(r.filename)
	r.readonly = err != nil || info.IsDir()
	r.logger.Debug().
		Str("file", r.filename).
		Bool("readonly", r.readonly).
		Msg("Custom serializer snapshot")
	return r
}

// Filename returns the absolute path of the serializer module.
func (r *Resolver) Filename() string {
	return r.filename
}

// Readonly reports whether the serializer file was absent at construction.
func (r *Resolver) Readonly() bool {
	return r.readonly
}

// State returns the current resolution state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Attempts returns how many times the loader has run.
func (r *Resolver) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

// Resolve loads the serializer if that has not been tried yet and returns
// the resulting state. Concurrent callers share one attempt. Failures are
// logged, never returned. A read-only Resolver stays Unresolved.
//
// The load runs detached from ctx and is bounded by the load timeout, so a
// caller that gives up does not decide the outcome for the others. Such a
// caller gets the state at the time it stopped waiting, usually Resolving.
func (r *Resolver) Resolve(ctx context.Context) State {
	if r.readonly {
		return Unresolved
	}

	r.mu.Lock()
	if r.state == Resolved || r.state == Failed {
		st := r.state
		r.mu.Unlock()
		return st
	}
	r.mu.Unlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("resolve", func() (any, error) {
		return r.resolve(loadCtx), nil
	})
	select {
	case res := <-ch:
		return res.Val.(State)
	case <-ctx.Done():
		return r.State()
	}
}

// resolve performs one load attempt and records its outcome.
func (r *Resolver) resolve(ctx context.Context) State {
	r.mu.Lock()
	if r.state == Resolved || r.state == Failed {
		st := r.state
		r.mu.Unlock()
		return st
	}
	r.state = Resolving
	r.attempts++
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.loadTimeout)
	defer cancel()
	s, err := r.load(ctx, r.filename)

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case errors.Is(err, context.Canceled):
		// Not a verdict on the serializer; the next Resolve tries again.
		r.state = Unresolved
		r.logger.Debug().Err(err).Str("file", r.filename).Msg("Custom serializer load cancelled")
	case errors.Is(err, sandbox.ErrNotCallable):
		r.state = Failed
		r.logger.Error().Err(err).Str("file", r.filename).Msg(r.t.T(i18n.InvalidEcmascriptParser, r.filename))
	case err != nil:
		r.state = Failed
		r.logger.Error().Err(err).Str("file", r.filename).Msg("Failed to load custom serializer")
	default:
		r.serializer = s
		r.state = Resolved
		r.logger.Debug().Str("file", r.filename).Msg("Custom serializer resolved")
	}
	return r.state
}

// Invalidate drops a resolved or failed serializer so the next Resolve
// tries again. The read-only snapshot is kept.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Resolving {
		return
	}
	r.state = Unresolved
	r.serializer = nil
}

// Render resolves the serializer if needed and renders t with it. When
// sorting is requested the tree is first canonicalized into sorted order.
// Without a usable serializer it returns "" and ErrCannotWrite. If ctx ends
// before resolution completes, ctx's error is returned instead.
func (r *Resolver) Render(ctx context.Context, t *orderedmap.OrderedMap, indent codec.Indent, sort bool) (string, error) {
	if r.Resolve(ctx) != Resolved {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", ErrCannotWrite
	}

	r.mu.Lock()
	s := r.serializer
	r.mu.Unlock()
	if s == nil {
		// Invalidated between Resolve and here.
		return "", ErrCannotWrite
	}

	content := t
	if sort {
		sorted, err := codec.Canonicalize(t, indent)
		if err != nil {
			return "", fmt.Errorf("failed to sort tree: %w", err)
		}
		content = sorted
	}

	text, err := s.Serialize(ctx, content, indent, sort)
	if err != nil {
		return "", fmt.Errorf("custom serializer failed: %w", err)
	}
	return text, nil
}

// funcSerializer adapts a sandboxed function to LocaleSerializer.
type funcSerializer struct {
	fn *sandbox.Func
}

// SandboxLoader loads filename through the sandbox and adapts its exported
// function.
func SandboxLoader(ctx context.Context, filename string) (LocaleSerializer, error) {
	fn, err := sandbox.LoadFunc(ctx, filename)
	if err != nil {
		return nil, err
	}
	return &funcSerializer{fn: fn}, nil
}

func (s *funcSerializer) Serialize(ctx context.Context, t *orderedmap.OrderedMap, indent codec.Indent, sort bool) (string, error) {
	out, err := s.fn.Call(ctx, t, indent.Value(), sort)
	if err != nil {
		return "", err
	}
	text, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T, want string", s.fn.Filename(), out)
	}
	return text, nil
}
