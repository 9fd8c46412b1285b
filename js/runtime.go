// Package js hosts the foreign side of the bridge: a goja JavaScript runtime
// with the DOM interface lattice installed, plus the low-level primitives the
// bridge relies on (reference table, property access, invocation, exception
// capture and constructor introspection).
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Runtime wraps a goja JavaScript runtime.
//
// goja is single threaded. Every exported method takes the runtime lock, so a
// Runtime may be shared between goroutines, but calls are serialised and are
// observed by the engine in the order they acquire the lock.
type Runtime struct {
	vm      *goja.Runtime
	log     *zap.Logger
	refs    *refTable
	mu      sync.Mutex
	errors  []error
	onError func(error)

	codeUnits goja.Callable
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for console output and script errors.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRuntime creates a new JavaScript runtime.
func NewRuntime(opts ...Option) *Runtime {
	vm := goja.New()

	r := &Runtime{
		vm:     vm,
		log:    zap.NewNop(),
		refs:   newRefTable(),
		errors: make([]error, 0),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.setupConsole()
	r.setupWindow()
	r.setupHelpers()

	return r
}

// VM returns the underlying goja runtime. Callers using it directly bypass
// the runtime lock.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Logger returns the runtime logger.
func (r *Runtime) Logger() *zap.Logger {
	return r.log
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Recover from panics in the goja parser/runtime
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// ExecuteScript runs JavaScript code from a script element.
// Scripts are compiled in non-strict (sloppy) mode, as for classic scripts.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return err
	}

	_, err = r.vm.RunProgram(program)
	if err != nil {
		r.recordError(err)
	}
	return err
}

// recordError must be called with r.mu held.
func (r *Runtime) recordError(err error) {
	r.errors = append(r.errors, err)
	r.log.Debug("script error", zap.Error(err))
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors that occurred during script execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// setupConsole creates the console object. Output goes to the runtime logger.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	logAt := func(level string) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			msg := formatArgs(call.Arguments)
			switch level {
			case "error":
				r.log.Error(msg, zap.String("source", "console"))
			case "warn":
				r.log.Warn(msg, zap.String("source", "console"))
			case "debug", "trace":
				r.log.Debug(msg, zap.String("source", "console"))
			default:
				r.log.Info(msg, zap.String("source", "console"))
			}
			return goja.Undefined()
		}
	}

	for _, name := range []string{"log", "info", "warn", "error", "debug", "trace"} {
		console.Set(name, logAt(name))
	}

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			r.log.Warn(msg, zap.String("source", "console"))
		}
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

// setupWindow makes window/self/globalThis all point to the global object.
func (r *Runtime) setupWindow() {
	window := r.vm.GlobalObject()
	r.vm.Set("window", window)
	r.vm.Set("self", window)
	r.vm.Set("globalThis", window)
}

// setupHelpers compiles the small engine-side helpers used by the primitives.
func (r *Runtime) setupHelpers() {
	v, err := r.vm.RunString(`(function (s) {
		var out = new Array(s.length);
		for (var i = 0; i < s.length; i++) {
			out[i] = s.charCodeAt(i);
		}
		return out;
	})`)
	if err != nil {
		panic(fmt.Sprintf("js: compile helpers: %v", err))
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic("js: code unit helper is not callable")
	}
	r.codeUnits = fn
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, formatValue(arg))
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
