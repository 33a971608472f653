// Package sandbox evaluates a single JavaScript file in a fresh, isolated
// goja runtime and hands back what it exported.
//
// The runtime exposes only `module` (with a mutable `exports` object) and an
// `exports` alias on top of the ECMAScript built-ins. There is no `require`,
// no filesystem and no module cache: every evaluation starts from nothing and
// its runtime is dropped afterwards, unless a callable export keeps it alive.
// This is an isolation boundary for convenience, not a security boundary.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dop251/goja"
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

var (
	// ErrNoExport is returned when the script leaves module.exports
	// undefined or null.
	ErrNoExport = errors.New("module did not export a value")

	// ErrNotCallable is returned by LoadFunc when the export, after
	// unwrapping a default export, is not a function.
	ErrNotCallable = errors.New("module export is not a function")
)

// module is one evaluated script.
type module struct {
	vm      *goja.Runtime
	exports goja.Value
}

// run reads and executes filename in a new runtime.
func run(ctx context.Context, filename string) (*module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read module: %w", err)
	}

	prog, err := goja.Compile(filename, string(src), false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", filename, err)
	}

	vm := goja.New()
	moduleObj := vm.NewObject()
	exportsObj := vm.NewObject()
	if err := moduleObj.Set("exports", exportsObj); err != nil {
		return nil, err
	}
	if err := vm.Set("module", moduleObj); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exportsObj); err != nil {
		return nil, err
	}

	stop := interruptOnDone(ctx, vm)
	_, err = vm.RunProgram(prog)
	stop()
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", filename, err)
	}

	exported := moduleObj.Get("exports")
	if exported == nil || goja.IsUndefined(exported) || goja.IsNull(exported) {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoExport)
	}

	return &module{vm: vm, exports: unwrapDefault(exported)}, nil
}

// unwrapDefault returns v.default when v is a non-function object that has
// a default property, and v otherwise.
func unwrapDefault(v goja.Value) goja.Value {
	obj, ok := v.(*goja.Object)
	if !ok {
		return v
	}
	if _, isFunc := goja.AssertFunction(v); isFunc {
		return v
	}
	if def := obj.Get("default"); def != nil {
		return def
	}
	return v
}

// interruptOnDone interrupts vm when ctx is done. The returned func stops
// watching and clears a pending interrupt.
func interruptOnDone(ctx context.Context, vm *goja.Runtime) func() {
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	return func() {
		stop()
		vm.ClearInterrupt()
	}
}

// Evaluate runs filename and returns its export converted to Go values.
// A `{default: x}` export yields x. Objects become *orderedmap.OrderedMap
// in property order, arrays become []any.
func Evaluate(ctx context.Context, filename string) (any, error) {
	m, err := run(ctx, filename)
	if err != nil {
		return nil, err
	}
	return fromValue(m.exports), nil
}

// Func is a function exported by a sandboxed module, bound to the runtime
// that produced it. It is safe for concurrent use; calls are serialized.
type Func struct {
	mu       sync.Mutex
	vm       *goja.Runtime
	fn       goja.Callable
	filename string
}

// LoadFunc runs filename and returns its exported function. Both
// `module.exports = fn` and `module.exports = { default: fn }` are accepted.
func LoadFunc(ctx context.Context, filename string) (*Func, error) {
	m, err := run(ctx, filename)
	if err != nil {
		return nil, err
	}
	fn, ok := goja.AssertFunction(m.exports)
	if !ok {
		return nil, fmt.Errorf("%s: %w", filename, ErrNotCallable)
	}
	return &Func{vm: m.vm, fn: fn, filename: filename}, nil
}

// Filename returns the file the function was loaded from.
func (f *Func) Filename() string {
	return f.filename
}

// Call invokes the function with args converted to JavaScript values and
// returns the result converted back to Go.
func (f *Func) Call(ctx context.Context, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = toValue(f.vm, arg)
	}

	stop := interruptOnDone(ctx, f.vm)
	res, err := f.fn(goja.Undefined(), jsArgs...)
	stop()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.filename, err)
	}
	return fromValue(res), nil
}

// toValue converts Go values, including locale trees, to JavaScript values.
// Object property order follows the tree.
func toValue(vm *goja.Runtime, v any) goja.Value {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		obj := vm.NewObject()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			_ = obj.Set(k, toValue(vm, child))
		}
		return obj
	case orderedmap.OrderedMap:
		return toValue(vm, &val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = toValue(vm, item)
		}
		return vm.NewArray(items...)
	case nil:
		return goja.Null()
	default:
		return vm.ToValue(val)
	}
}

// fromValue converts a JavaScript value to Go. Plain objects become ordered
// trees; functions and other exotic values use goja's default export.
func fromValue(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	if _, isFunc := goja.AssertFunction(v); isFunc {
		return v.Export()
	}

	switch obj.ClassName() {
	case "Array":
		length := int(obj.Get("length").ToInteger())
		out := make([]any, length)
		for i := 0; i < length; i++ {
			out[i] = fromValue(obj.Get(fmt.Sprint(i)))
		}
		return out
	case "Object":
		out := tree.New()
		for _, k := range obj.Keys() {
			out.Set(k, fromValue(obj.Get(k)))
		}
		return out
	default:
		return v.Export()
	}
}
