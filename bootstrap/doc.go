// Package bootstrap starts a game runtime against a canvas.
//
// Host.Run orders startup: size the canvas, start the resolution watcher,
// then load, initialize and start the runtime with the canvas id. If any of
// the runtime steps fail the page shows a fallback element carrying the
// error instead of staying blank.
//
// The runtime side is abstracted as a Loader producing a Runtime. jsdom
// provides a loader for the browser; engine provides one backed by wazero.
package bootstrap
