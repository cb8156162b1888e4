package memdom

import (
	"sync"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// Window simulates the browser window's display state.
type Window struct {
	matchers map[*matcher]struct{}
	viewport canvasbridge.Size
	dpr      float64
	issued   int
	mu       sync.Mutex
}

// NewWindow creates a window at the given ratio and viewport.
func NewWindow(dpr float64, viewport canvasbridge.Size) *Window {
	return &Window{
		dpr:      dpr,
		viewport: viewport,
		matchers: make(map[*matcher]struct{}),
	}
}

func (w *Window) DevicePixelRatio() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dpr
}

func (w *Window) ViewportSize() canvasbridge.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewport
}

// SetViewportSize resizes the viewport. Resizes do not fire resolution
// matchers.
func (w *Window) SetViewportSize(size canvasbridge.Size) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.viewport = size
}

// SetDevicePixelRatio changes the ratio and fires every live matcher whose
// match state flips, in either direction, the way a resolution media query
// reports changes. Each matcher fires at most once.
func (w *Window) SetDevicePixelRatio(dpr float64) {
	w.mu.Lock()
	w.dpr = dpr
	var fired []*matcher
	for m := range w.matchers {
		if (m.dpr == dpr) != m.matching {
			fired = append(fired, m)
			delete(w.matchers, m)
		}
	}
	w.mu.Unlock()

	for _, m := range fired {
		m.fire()
	}
}

// MatchResolution implements canvasbridge.ResolutionSource.
func (w *Window) MatchResolution(dpr float64) canvasbridge.Subscription {
	m := &matcher{
		window:  w,
		dpr:     dpr,
		changed: make(chan struct{}, 1),
	}
	w.mu.Lock()
	m.matching = dpr == w.dpr
	w.matchers[m] = struct{}{}
	w.issued++
	w.mu.Unlock()
	return m
}

// Subscriptions returns the ratio keys of live matchers.
func (w *Window) Subscriptions() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]float64, 0, len(w.matchers))
	for m := range w.matchers {
		keys = append(keys, m.dpr)
	}
	return keys
}

// Issued counts every MatchResolution call so far.
func (w *Window) Issued() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.issued
}

type matcher struct {
	window  *Window
	changed chan struct{}
	dpr     float64
	once    sync.Once

	// matching is the query's state at registration.
	matching bool
}

func (m *matcher) Changed() <-chan struct{} {
	return m.changed
}

func (m *matcher) fire() {
	m.once.Do(func() {
		m.changed <- struct{}{}
	})
}

func (m *matcher) Release() {
	m.window.mu.Lock()
	delete(m.window.matchers, m)
	m.window.mu.Unlock()
}
