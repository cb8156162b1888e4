//go:build js && wasm

package jsdom

import (
	"context"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/wippyai/canvas-bridge/bootstrap"
	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/config"
	"github.com/wippyai/canvas-bridge/errors"
)

// ModuleLoader loads a runtime through its ES module glue: the module is
// imported dynamically, its init export (default) is awaited, then its start
// export is called with the canvas id.
type ModuleLoader struct {
	globals     *Globals
	moduleURL   string
	wasmURL     string
	initExport  string
	startExport string
}

var _ bootstrap.Loader = (*ModuleLoader)(nil)

func NewModuleLoader(cfg config.Config) *ModuleLoader {
	return &ModuleLoader{
		moduleURL:   cfg.ModuleURL,
		wasmURL:     cfg.WasmURL,
		initExport:  cfg.InitExport,
		startExport: cfg.StartExport,
	}
}

// Load installs the entry points on window before importing the module so
// its imports resolve during instantiation.
func (l *ModuleLoader) Load(ctx context.Context, hb bridge.HostBridge) (bootstrap.Runtime, error) {
	l.globals = InstallGlobals(js.Global(), hb)

	importer := js.Global().Get("Function").New("url", "return import(url)")
	mod, err := importModule(ctx, importer, l.moduleURL)
	if err != nil {
		l.Close()
		return nil, errors.Load("import "+l.moduleURL, err)
	}
	Logger().Debug("runtime glue imported", zap.String("url", l.moduleURL))
	return &moduleRuntime{loader: l, mod: mod}, nil
}

// Close removes the installed entry points.
func (l *ModuleLoader) Close() {
	if l.globals != nil {
		l.globals.Release()
		l.globals = nil
	}
}

type moduleRuntime struct {
	loader *ModuleLoader
	mod    js.Value
}

func (r *moduleRuntime) Init(ctx context.Context) error {
	fn := r.mod.Get(r.loader.initExport)
	if fn.Type() != js.TypeFunction {
		Logger().Debug("glue has no init export", zap.String("export", r.loader.initExport))
		return nil
	}
	var args []any
	if r.loader.wasmURL != "" {
		args = append(args, r.loader.wasmURL)
	}
	if _, err := call(ctx, r.mod, r.loader.initExport, args...); err != nil {
		return errors.New(errors.PhaseInit, errors.KindRuntimeFailure).
			Path(r.loader.initExport).
			Cause(err).
			Detail("runtime init rejected").
			Build()
	}
	return nil
}

func (r *moduleRuntime) Start(ctx context.Context, canvasID string) error {
	if r.mod.Get(r.loader.startExport).Type() != js.TypeFunction {
		return errors.MissingExport(errors.PhaseStart, r.loader.startExport)
	}
	if _, err := call(ctx, r.mod, r.loader.startExport, canvasID); err != nil {
		return errors.New(errors.PhaseStart, errors.KindRuntimeFailure).
			Path(r.loader.startExport).
			Cause(err).
			Detail("runtime start failed").
			Build()
	}
	return nil
}

// call invokes obj[name](args...) and awaits the result if it is a promise.
// Synchronous exceptions are recovered into errors.
func call(ctx context.Context, obj js.Value, name string, args ...any) (v js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			panic(r)
		}
	}()
	return await(ctx, obj.Call(name, args...))
}

// importModule runs the dynamic import, recovering a synchronous throw
// (a malformed specifier) into an error.
func importModule(ctx context.Context, importer js.Value, url string) (v js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			panic(r)
		}
	}()
	return await(ctx, importer.Invoke(url))
}

type settled struct {
	value js.Value
	err   error
}

// await blocks the calling goroutine until p settles. Non-thenables are
// returned as is.
func await(ctx context.Context, p js.Value) (js.Value, error) {
	if p.Type() != js.TypeObject || p.Get("then").Type() != js.TypeFunction {
		return p, nil
	}

	ch := make(chan settled, 1)
	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		ch <- settled{value: v}
		return nil
	})
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		reason := js.Undefined()
		if len(args) > 0 {
			reason = args[0]
		}
		ch <- settled{err: rejection{reason: describe(reason)}}
		return nil
	})
	release := func() {
		onResolve.Release()
		onReject.Release()
	}

	p.Call("then", onResolve, onReject)

	select {
	case s := <-ch:
		release()
		return s.value, s.err
	case <-ctx.Done():
		// the callbacks stay live until the promise settles
		go func() {
			<-ch
			release()
		}()
		return js.Undefined(), ctx.Err()
	}
}

type rejection struct {
	reason string
}

func (r rejection) Error() string {
	return "promise rejected: " + r.reason
}

func describe(v js.Value) string {
	if v.Type() == js.TypeObject {
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return msg.String()
		}
	}
	return js.Global().Get("String").Invoke(v).String()
}
