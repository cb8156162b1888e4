//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"os"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/wippyai/canvas-bridge/bootstrap"
	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/config"
	"github.com/wippyai/canvas-bridge/display"
	"github.com/wippyai/canvas-bridge/jsdom"
	"github.com/wippyai/canvas-bridge/watcher"
)

func main() {
	cfg, err := config.LoadFrom(jsdom.PageEnvironment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "canvas-bridge: %v; using defaults\n", err)
		cfg = config.Default()
	}

	log, err := cfg.NewLogger()
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync()
	setLoggers(log)

	doc := jsdom.NewDocument()
	win := jsdom.NewWindow()
	loader := jsdom.NewModuleLoader(cfg)
	defer loader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispose := js.FuncOf(func(this js.Value, args []js.Value) any {
		cancel()
		return nil
	})
	js.Global().Set("disposeCanvasBridge", dispose)
	defer func() {
		js.Global().Delete("disposeCanvasBridge")
		dispose.Release()
	}()

	host := bootstrap.New(cfg, doc, win, loader)
	if err := host.Run(ctx); err != nil {
		log.Error("canvas bridge failed to start", zap.Error(err))
	}

	// keep the Go side alive for the watcher and the installed entry points
	<-host.Done()
	log.Info("canvas bridge disposed")
}

func setLoggers(log *zap.Logger) {
	named := func(name string) *zap.Logger { return log.Named(name) }
	bootstrap.SetLogger(named("bootstrap"))
	bridge.SetLogger(named("bridge"))
	display.SetLogger(named("display"))
	watcher.SetLogger(named("watcher"))
	jsdom.SetLogger(named("jsdom"))
}
