package bootstrap

import (
	"context"
	stderrors "errors"
	"sync"

	"go.uber.org/zap"

	canvasbridge "github.com/wippyai/canvas-bridge"
	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/config"
	"github.com/wippyai/canvas-bridge/display"
	"github.com/wippyai/canvas-bridge/errors"
	"github.com/wippyai/canvas-bridge/watcher"
)

// Runtime is the contract a loaded game runtime fulfils.
type Runtime interface {
	// Init performs asynchronous module initialization.
	Init(ctx context.Context) error
	// Start begins execution bound to the canvas and returns once running.
	Start(ctx context.Context, canvasID string) error
}

// Loader fetches and instantiates a runtime. The bridge passed in is what
// the runtime's calls must be routed to.
type Loader interface {
	Load(ctx context.Context, hb bridge.HostBridge) (Runtime, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, hb bridge.HostBridge) (Runtime, error)

func (f LoaderFunc) Load(ctx context.Context, hb bridge.HostBridge) (Runtime, error) {
	return f(ctx, hb)
}

// Host wires the sizer, watcher and bridge around one runtime.
type Host struct {
	doc     canvasbridge.Document
	screen  canvasbridge.ResolutionSource
	loader  Loader
	bridge  bridge.HostBridge
	sizer   *display.Sizer
	watcher *watcher.Watcher
	runtime Runtime
	done    chan struct{}
	cfg     config.Config
	mu      sync.Mutex
}

// Option customizes a Host.
type Option func(*Host)

// WithBridge replaces the bridge handed to the loader, for example with a
// bridge.Relay when the runtime runs off the document's goroutine.
func WithBridge(hb bridge.HostBridge) Option {
	return func(h *Host) {
		h.bridge = hb
	}
}

// New creates a host. The default bridge writes straight to doc.
func New(cfg config.Config, doc canvasbridge.Document, screen canvasbridge.ResolutionSource, loader Loader, opts ...Option) *Host {
	h := &Host{
		cfg:    cfg,
		doc:    doc,
		screen: screen,
		loader: loader,
		bridge: bridge.NewDOM(doc, cfg.Targets()),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run sizes the canvas, starts watching for ratio changes and starts the
// runtime. It returns once the runtime's start entry point returns; the
// watcher keeps running until ctx is cancelled, after which Done is closed.
func (h *Host) Run(ctx context.Context) error {
	el, ok := h.doc.ElementByID(h.cfg.CanvasID)
	if !ok {
		err := errors.NotFound(errors.PhaseDisplay, h.cfg.CanvasID)
		h.showFallback(err)
		close(h.done)
		return err
	}

	sizer := display.NewSizer(h.screen, el, h.cfg.DisplayOptions())
	// size before the runtime can paint; the watcher's own first pass is
	// then a no-op rewrite of the same values
	sizer.Update()
	w := watcher.New(h.screen, sizer)

	h.mu.Lock()
	h.sizer = sizer
	h.watcher = w
	h.mu.Unlock()

	go func() {
		defer close(h.done)
		if err := w.Run(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
			Logger().Warn("resolution watcher stopped", zap.Error(err))
		}
	}()

	rt, err := h.start(ctx)
	if err != nil {
		Logger().Error("runtime failed to start", zap.Error(err))
		h.showFallback(err)
		return err
	}

	h.mu.Lock()
	h.runtime = rt
	h.mu.Unlock()

	Logger().Info("runtime started", zap.String("canvas", h.cfg.CanvasID))
	return nil
}

func (h *Host) start(ctx context.Context) (Runtime, error) {
	Logger().Info("loading runtime", zap.Stringer("config", h.cfg))

	rt, err := h.loader.Load(ctx, h.bridge)
	if err != nil {
		return nil, asBootError(errors.PhaseLoad, err, "load runtime")
	}
	if err := rt.Init(ctx); err != nil {
		closeRuntime(ctx, rt)
		return nil, asBootError(errors.PhaseInit, err, "initialize runtime")
	}
	if err := rt.Start(ctx, h.cfg.CanvasID); err != nil {
		closeRuntime(ctx, rt)
		return nil, asBootError(errors.PhaseStart, err, "start runtime")
	}
	return rt, nil
}

// closeRuntime releases a runtime that failed to come up, if it holds
// anything to release.
func closeRuntime(ctx context.Context, rt Runtime) {
	c, ok := rt.(interface{ Close(context.Context) error })
	if !ok {
		return
	}
	if err := c.Close(ctx); err != nil {
		Logger().Debug("closing failed runtime", zap.Error(err))
	}
}

// showFallback reveals the fallback element with the error text. Like the
// bridge, a page without a fallback element is left as is.
func (h *Host) showFallback(err error) {
	if h.cfg.FallbackID == "" {
		return
	}
	el, ok := h.doc.ElementByID(h.cfg.FallbackID)
	if !ok {
		Logger().Debug("fallback element missing", zap.String("id", h.cfg.FallbackID))
		return
	}
	el.SetText(err.Error())
	el.SetHidden(false)
}

// Done is closed once the watcher has stopped.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Sizer returns the canvas sizer, or nil before Run resolves the canvas.
func (h *Host) Sizer() *display.Sizer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sizer
}

// Watcher returns the resolution watcher, or nil before Run.
func (h *Host) Watcher() *watcher.Watcher {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.watcher
}

// Runtime returns the started runtime, or nil.
func (h *Host) Runtime() Runtime {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runtime
}

// Bridge returns the bridge handed to the loader.
func (h *Host) Bridge() bridge.HostBridge {
	return h.bridge
}

func asBootError(phase errors.Phase, err error, detail string) error {
	var be *errors.Error
	if stderrors.As(err, &be) {
		return err
	}
	return errors.Wrap(phase, errors.KindRuntimeFailure, err, detail)
}
