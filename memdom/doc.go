// Package memdom is an in-memory stand-in for the host page.
//
// Document and Element mirror the handful of DOM operations the bridge and
// sizer use. Window simulates device pixel ratio changes and the one-shot
// resolution media queries a browser would fire for them. All types are
// safe for concurrent use so a preview host can read state while a runtime
// goroutine writes it.
package memdom
