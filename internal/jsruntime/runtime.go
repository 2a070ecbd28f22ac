// Package jsruntime runs packaged workers inside an embedded JavaScript VM.
//
// The host implements the part of the CommonJS contract the generated
// bundles rely on: a per-file require that resolves paths relative to the
// requiring file, a module cache keyed by absolute path, __dirname and
// __filename, plus console and process.argv. Bare module names are not
// resolved; workers are expected to be self-contained.
package jsruntime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
)

// ChunkLoadError reports a dependency chunk the startup loader could not
// merge. The worker cannot run without it.
type ChunkLoadError struct {
	ChunkID string
	Err     error
}

func (e *ChunkLoadError) Error() string {
	return fmt.Sprintf("dependency chunk %q could not be loaded: %v", e.ChunkID, e.Err)
}

func (e *ChunkLoadError) Unwrap() error {
	return e.Err
}

// Runtime is a single-use VM. It is not safe for concurrent use.
type Runtime struct {
	vm     *goja.Runtime
	logger *slog.Logger
	cache  map[string]*goja.Object
}

// New creates a runtime whose console writes to the context logger.
func New(ctx context.Context, args []string) *Runtime {
	r := &Runtime{
		vm:     goja.New(),
		logger: ctxlog.FromContext(ctx).With("component", "jsruntime"),
		cache:  make(map[string]*goja.Object),
	}
	r.installConsole()
	r.installProcess(args)
	return r
}

// RunFile executes the file at path as the main module and returns its
// exports converted to Go values.
func (r *Runtime) RunFile(path string) (any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Running main module.", "path", abs)

	require := r.vm.ToValue(r.requireFrom(filepath.Dir(abs)))
	v, err := r.call(require, abs)
	if err != nil {
		return nil, r.translate(err)
	}
	return v.Export(), nil
}

// call invokes require(path) from JavaScript so exceptions surface as
// errors instead of Go panics.
func (r *Runtime) call(require goja.Value, path string) (goja.Value, error) {
	fn, ok := goja.AssertFunction(require)
	if !ok {
		return nil, errors.New("jsruntime: require is not callable")
	}
	return fn(goja.Undefined(), r.vm.ToValue(path))
}

// translate turns loader failures into ChunkLoadError.
func (r *Runtime) translate(err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return err
	}
	if obj, ok := ex.Value().(*goja.Object); ok {
		if id := obj.Get("chunkId"); id != nil && !goja.IsUndefined(id) && !goja.IsNull(id) {
			msg := ex.Error()
			if m := obj.Get("message"); m != nil {
				msg = m.String()
			}
			return &ChunkLoadError{ChunkID: id.String(), Err: errors.New(msg)}
		}
	}
	return fmt.Errorf("uncaught exception: %w", err)
}

func (r *Runtime) requireFrom(dir string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		request := call.Argument(0).String()
		path, err := resolve(dir, request)
		if err != nil {
			panic(r.moduleNotFound(request))
		}
		exports, err := r.load(path)
		if err != nil {
			r.throw(err)
		}
		return exports
	}
}

// resolve maps a request to an existing file, trying a ".js" suffix.
func resolve(dir, request string) (string, error) {
	if !filepath.IsAbs(request) && !strings.HasPrefix(request, "./") && !strings.HasPrefix(request, "../") {
		return "", fmt.Errorf("bare module %q", request)
	}
	p := request
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	p = filepath.Clean(p)
	for _, candidate := range []string{p, p + ".js"} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

func (r *Runtime) load(path string) (goja.Value, error) {
	if m, ok := r.cache[path]; ok {
		return m.Get("exports"), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Loading module file.", "path", path, "bytes", len(src))

	wrapper := "(function(exports, require, module, __filename, __dirname) {" + string(src) + "\n})"
	fnValue, err := r.vm.RunScript(path, wrapper)
	if err != nil {
		return nil, err
	}
	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return nil, fmt.Errorf("jsruntime: %s did not compile to a function", path)
	}

	module := r.vm.NewObject()
	exports := r.vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := module.Set("id", path); err != nil {
		return nil, err
	}
	// Cache before running so that circular requires see partial exports.
	r.cache[path] = module

	dir := filepath.Dir(path)
	_, err = fn(exports, exports, r.vm.ToValue(r.requireFrom(dir)), module, r.vm.ToValue(path), r.vm.ToValue(dir))
	if err != nil {
		delete(r.cache, path)
		return nil, err
	}
	return module.Get("exports"), nil
}

func (r *Runtime) moduleNotFound(request string) goja.Value {
	e := r.vm.NewGoError(fmt.Errorf("Cannot find module '%s'", request))
	_ = e.Set("code", "MODULE_NOT_FOUND")
	return e
}

// throw rethrows err into the calling JavaScript.
func (r *Runtime) throw(err error) {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		panic(ex.Value())
	}
	panic(r.vm.NewGoError(err))
}

func (r *Runtime) installConsole() {
	console := r.vm.NewObject()
	logAt := func(level slog.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, 0, len(call.Arguments))
			for _, a := range call.Arguments {
				parts = append(parts, a.String())
			}
			r.logger.Log(context.Background(), level, strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	_ = console.Set("log", logAt(slog.LevelInfo))
	_ = console.Set("info", logAt(slog.LevelInfo))
	_ = console.Set("debug", logAt(slog.LevelDebug))
	_ = console.Set("warn", logAt(slog.LevelWarn))
	_ = console.Set("error", logAt(slog.LevelError))
	_ = r.vm.Set("console", console)
}

func (r *Runtime) installProcess(args []string) {
	process := r.vm.NewObject()
	argv := append([]string{"workerpack"}, args...)
	_ = process.Set("argv", argv)
	_ = process.Set("platform", "workerpack")
	_ = r.vm.Set("process", process)
}
