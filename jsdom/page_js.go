//go:build js && wasm

package jsdom

import (
	"syscall/js"
)

// PageEnvironment collects configuration from <html data-*> attributes and
// the allow-listed URL query parameters, in the form config.LoadFrom takes.
func PageEnvironment() map[string]string {
	global := js.Global()

	dataset := entries(global.Get("document").Get("documentElement").Get("dataset"))

	params := global.Get("URLSearchParams").New(global.Get("location").Get("search"))
	query := entries(global.Get("Object").Call("fromEntries", params))

	return mergeEnvironment(dataset, query)
}

func entries(obj js.Value) map[string]string {
	out := make(map[string]string)
	if obj.IsUndefined() || obj.IsNull() {
		return out
	}
	pairs := js.Global().Get("Object").Call("entries", obj)
	for i := 0; i < pairs.Length(); i++ {
		pair := pairs.Index(i)
		out[pair.Index(0).String()] = pair.Index(1).String()
	}
	return out
}
