// Package bridge implements the entry points a game runtime calls to drive
// host page UI.
//
// HostBridge has four methods: pause overlay visibility, debug overlay
// visibility, debug text and the frame rate readout. The DOM implementation
// finds its target element on every call and does nothing when the element
// is absent, so a page may omit any piece of optional chrome. No state is
// kept between calls; each call fully decides the state of its one target.
//
// EntryPoints is the fixed registry binders use to publish those methods
// under their stable names, with parameter types described as WIT types so
// the browser and wazero binders agree on signatures.
//
// Relay moves calls made on a foreign goroutine onto the goroutine that owns
// the document.
package bridge
