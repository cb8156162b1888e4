// Package engine runs a compiled game runtime natively on wazero.
//
// The browser build hands the runtime to the page's own WebAssembly engine.
// Natively, for headless previews and tests, this package plays that role:
// it instantiates the game module, satisfies its imports with the bridge
// entry points and drives its exports.
//
// # Guest Contract
//
//	Export        Signature               Required
//	──────────────────────────────────────────────
//	memory        linear memory           yes
//	run_game      (ptr i32, len i32)      yes (name configurable)
//	alloc         (len i32) -> ptr i32    yes when passing the canvas id
//	init          ()                      no
//	frame         (dt f64)                no
//
// # Imports
//
// Every bridge entry point, aliases included, is offered in the "env"
// namespace. Parameter types follow their WIT descriptions:
//
//	WIT Type   Core Representation
//	──────────────────────────────
//	bool       i32 (non-zero is true)
//	string     (ptr, len) as i32×2, UTF-8
//	f64        f64
//
// A module importing anything else fails to instantiate.
package engine
