// Package watcher re-sizes the canvas whenever the device pixel ratio
// changes.
//
// A browser only offers one-shot "resolution no longer matches" media
// queries, so observing every change means re-registering after each one.
// Watcher does that in a loop: arm a query keyed to the current ratio, wait
// for it, resize, and arm again for the new ratio. Exactly one query is live
// while the loop is idle.
package watcher

import (
	"context"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// Resizer is the action run on every ratio change.
type Resizer interface {
	Update()
}

// ResizeFunc adapts a function to Resizer.
type ResizeFunc func()

func (f ResizeFunc) Update() { f() }

// Watcher drives a Resizer from resolution change notifications.
type Watcher struct {
	source  canvasbridge.ResolutionSource
	resizer Resizer
	armed   chan struct{}
	ratio   atomic.Uint64
	firings atomic.Uint64
	running atomic.Bool
}

// New creates a watcher. Nothing happens until Run is called.
func New(source canvasbridge.ResolutionSource, resizer Resizer) *Watcher {
	return &Watcher{
		source:  source,
		resizer: resizer,
		armed:   make(chan struct{}, 1),
	}
}

// Run resizes once, then waits for ratio changes until ctx is done.
// Cancelling ctx releases the live subscription and returns ctx.Err().
// Run must not be called concurrently with itself.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		panic("watcher: Run called twice")
	}
	defer w.running.Store(false)

	w.resizer.Update()

	for {
		dpr := w.source.DevicePixelRatio()
		sub := w.source.MatchResolution(dpr)

		if current := w.source.DevicePixelRatio(); !sameRatio(current, dpr) {
			// moved between the read and the registration; the query is
			// keyed to a ratio that is already gone
			sub.Release()
			Logger().Debug("resolution changed while arming",
				zap.Float64("armed", dpr),
				zap.Float64("current", current),
			)
		} else {
			w.ratio.Store(math.Float64bits(dpr))
			w.signalArmed()

			Logger().Debug("resolution watch armed", zap.Float64("dpr", dpr))

			select {
			case <-ctx.Done():
				sub.Release()
				Logger().Debug("resolution watch stopped", zap.Float64("dpr", dpr))
				return ctx.Err()
			case <-sub.Changed():
				sub.Release()
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		w.firings.Add(1)
		Logger().Debug("resolution changed",
			zap.Float64("from", dpr),
			zap.Float64("to", w.source.DevicePixelRatio()),
		)
		w.resizer.Update()
	}
}

// Armed receives a value each time the loop re-arms. Only the latest
// re-arm is buffered.
func (w *Watcher) Armed() <-chan struct{} {
	return w.armed
}

// Ratio returns the ratio the live subscription is keyed to.
func (w *Watcher) Ratio() float64 {
	return math.Float64frombits(w.ratio.Load())
}

// Firings counts handled ratio changes.
func (w *Watcher) Firings() uint64 {
	return w.firings.Load()
}

func (w *Watcher) signalArmed() {
	select {
	case w.armed <- struct{}{}:
	default:
	}
}

// sameRatio compares ratios, treating two NaN readings as equal so a
// broken host value cannot spin the loop.
func sameRatio(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
