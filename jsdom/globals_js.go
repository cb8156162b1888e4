//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/canvas-bridge/bridge"
)

// Globals publishes bridge entry points as functions on a JS object,
// normally window, where a separately compiled runtime can import them.
type Globals struct {
	target js.Value
	funcs  map[string]js.Func
}

// InstallGlobals defines every entry point and alias on target.
func InstallGlobals(target js.Value, hb bridge.HostBridge) *Globals {
	g := &Globals{target: target, funcs: make(map[string]js.Func)}
	for _, ep := range bridge.EntryPoints() {
		for _, name := range ep.Names() {
			fn := js.FuncOf(entryFunc(ep, name, hb))
			target.Set(name, fn)
			g.funcs[name] = fn
		}
	}
	return g
}

// Release removes the functions from the target and frees them.
func (g *Globals) Release() {
	for name, fn := range g.funcs {
		g.target.Delete(name)
		fn.Release()
	}
	g.funcs = nil
}

func entryFunc(ep bridge.EntryPoint, name string, hb bridge.HostBridge) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		arg := js.Undefined()
		if len(args) > 0 {
			arg = args[0]
		}
		if err := ep.Invoke(hb, fromJS(ep.Param, arg)); err != nil {
			Logger().Warn("dropping bridge call", zap.String("entry", name), zap.Error(err))
		}
		return nil
	}
}

// fromJS converts a JS argument the way the page's own glue would: booleans
// by truthiness, strings via String(), numbers via Number().
func fromJS(t wit.Type, v js.Value) any {
	switch t.(type) {
	case wit.Bool:
		return v.Truthy()
	case wit.String:
		if v.Type() == js.TypeString {
			return v.String()
		}
		if v.IsUndefined() || v.IsNull() {
			return ""
		}
		return js.Global().Get("String").Invoke(v).String()
	case wit.F64:
		if v.Type() == js.TypeNumber {
			return v.Float()
		}
		return js.Global().Get("Number").Invoke(v).Float()
	default:
		return nil
	}
}
