//go:build !(js && wasm)

// Command canvas-bridge is the browser entry point. Build it with
//
//	GOOS=js GOARCH=wasm go build -o canvas-bridge.wasm ./cmd/canvas-bridge
//
// and load it with wasm_exec.js next to the page's canvas. Use cmd/preview
// to run a game module natively.
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "canvas-bridge runs in the browser: build with GOOS=js GOARCH=wasm, or use cmd/preview")
	os.Exit(2)
}
