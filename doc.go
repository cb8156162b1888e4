// Package canvasbridge connects an HTML canvas to a separately compiled game
// runtime and lets that runtime drive a few pieces of host page UI.
//
// The library keeps the canvas's logical size bounded relative to the device
// pixel ratio as the ratio changes, and exposes a fixed set of entry points
// the runtime calls to show or hide overlays and publish debug text and
// frame rate.
//
// # Architecture Overview
//
//	canvasbridge/       Root package with the Document, Element and Screen abstractions
//	├── display/        DPR-bounded canvas sizing (viewport or container strategy)
//	├── watcher/        Resolution change loop that re-sizes and re-arms
//	├── bridge/         HostBridge entry points, registry and cross-goroutine relay
//	├── bootstrap/      Startup ordering, runtime loading and load failure fallback
//	├── engine/         Native runtime loading on wazero (headless preview)
//	├── jsdom/          syscall/js implementations (GOOS=js GOARCH=wasm only)
//	├── memdom/         In-memory document and window for tests and previews
//	├── framerate/      Frame time averaging
//	├── config/         Environment driven configuration
//	├── errors/         Structured error types
//	└── cmd/            canvas-bridge (browser entry) and preview (headless TUI)
//
// # Quick Start
//
// In the browser build:
//
//	cfg, _ := config.LoadFrom(jsdom.PageEnvironment())
//	host := bootstrap.New(cfg, doc, win, jsdom.NewModuleLoader(cfg))
//	if err := host.Run(ctx); err != nil {
//	    log.Print(err)
//	}
//
// Headless, against a compiled game module:
//
//	doc := memdom.NewDocument()
//	doc.Add(memdom.NewElement("main-canvas"))
//	win := memdom.NewWindow(2, canvasbridge.Size{Width: 1280, Height: 720})
//	host := bootstrap.New(config.Default(), doc, win, engine.NewLoader(wasmBytes))
//
// # Thread Safety
//
// DOM mutations are confined to one goroutine, the browser main thread in the
// js build. Calls that originate on another goroutine must go through a
// bridge.Relay and be drained on the owning goroutine.
package canvasbridge
