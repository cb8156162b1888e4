//go:build js && wasm

package jsdom

import (
	"strconv"
	"sync"
	"syscall/js"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// Window wraps the global window object.
type Window struct {
	win js.Value
}

var _ canvasbridge.ResolutionSource = (*Window)(nil)

func NewWindow() *Window {
	return &Window{win: js.Global()}
}

func (w *Window) DevicePixelRatio() float64 {
	v := w.win.Get("devicePixelRatio")
	if v.Type() != js.TypeNumber {
		return 1
	}
	return v.Float()
}

func (w *Window) ViewportSize() canvasbridge.Size {
	return canvasbridge.Size{
		Width:  w.win.Get("innerWidth").Float(),
		Height: w.win.Get("innerHeight").Float(),
	}
}

// MatchResolution registers a once-only change listener on the media query
// (resolution: <dpr>dppx). The query stops matching, and the listener fires,
// as soon as the ratio moves away from dpr.
func (w *Window) MatchResolution(dpr float64) canvasbridge.Subscription {
	query := "(resolution: " + strconv.FormatFloat(dpr, 'f', -1, 64) + "dppx)"
	mql := w.win.Call("matchMedia", query)

	s := &mediaSubscription{
		mql:     mql,
		changed: make(chan struct{}, 1),
	}
	s.fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		select {
		case s.changed <- struct{}{}:
		default:
		}
		return nil
	})
	mql.Call("addEventListener", "change", s.fn, map[string]any{"once": true})
	return s
}

type mediaSubscription struct {
	mql     js.Value
	fn      js.Func
	changed chan struct{}
	once    sync.Once
}

func (s *mediaSubscription) Changed() <-chan struct{} {
	return s.changed
}

func (s *mediaSubscription) Release() {
	s.once.Do(func() {
		s.mql.Call("removeEventListener", "change", s.fn)
		s.fn.Release()
	})
}
