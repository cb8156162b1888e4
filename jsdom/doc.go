// Package jsdom binds canvas-bridge to the browser through syscall/js.
//
// Everything except the page configuration helpers is only built for
// GOOS=js GOARCH=wasm. All values must be used from the goroutine the
// browser calls back on; js.FuncOf callbacks installed here never block.
package jsdom
