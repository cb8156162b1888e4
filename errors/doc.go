// Package errors provides structured error types for canvas-bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Only the bootstrap boundary produces them: loading, binding and
// starting the runtime, and reading configuration. HostBridge entry points
// never fail; a missing target element is a silent no-op.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStart, errors.KindRuntimeFailure).
//		Path("run_game").
//		Detail("start export trapped").
//		Cause(trap).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseDisplay, "main-canvas")
//	err := errors.MissingExport(errors.PhaseStart, "run_game")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
