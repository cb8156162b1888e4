// Command preview runs a compiled game module headlessly against an
// in-memory page and reports what it did to the host UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	canvasbridge "github.com/wippyai/canvas-bridge"
	"github.com/wippyai/canvas-bridge/bootstrap"
	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/config"
	"github.com/wippyai/canvas-bridge/display"
	"github.com/wippyai/canvas-bridge/engine"
	"github.com/wippyai/canvas-bridge/framerate"
	"github.com/wippyai/canvas-bridge/memdom"
	"github.com/wippyai/canvas-bridge/watcher"
)

type options struct {
	wasmFile    string
	initExport  string
	viewport    canvasbridge.Size
	dpr         float64
	frames      int
	interactive bool
}

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to the game module")
		dpr         = flag.Float64("dpr", 1, "Initial device pixel ratio")
		viewport    = flag.String("viewport", "1280x720", "Viewport size in CSS pixels (WxH)")
		frames      = flag.Int("frames", 60, "Frames to drive when the module exports frame")
		initExport  = flag.String("init", engine.DefaultInitExport, "Init export name")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: preview -wasm <game.wasm> [-dpr 2] [-viewport 1280x720] [-frames N]")
		fmt.Fprintln(os.Stderr, "       preview -wasm <game.wasm> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "Element ids and the start export come from CANVAS_BRIDGE_* variables.")
		os.Exit(1)
	}

	size, err := parseViewport(*viewport)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := options{
		wasmFile:    *wasmFile,
		initExport:  *initExport,
		viewport:    size,
		dpr:         *dpr,
		frames:      *frames,
		interactive: *interactive,
	}

	if opts.interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Interactive mode needs a terminal; running headless")
		opts.interactive = false
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()
	setLoggers(log)

	data, err := os.ReadFile(opts.wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	p := newSession(cfg, opts, data)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.start(ctx); err != nil {
		fmt.Print(p.report())
		return err
	}
	defer p.close(ctx)

	if opts.interactive {
		return runInteractive(ctx, p)
	}

	if p.inst.HasFrame() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for i := 0; i < opts.frames; i++ {
			<-ticker.C
			if err := p.frame(ctx); err != nil {
				return err
			}
			p.relay.Drain()
		}
	}

	fmt.Print(p.report())
	return nil
}

// session is one headless page with a running game module.
type session struct {
	cfg     config.Config
	doc     *memdom.Document
	win     *memdom.Window
	canvas  *memdom.Element
	relay   *bridge.Relay
	host    *bootstrap.Host
	inst    *engine.Instance
	counter *framerate.Counter
	wasm    []byte
	opts    options
	frames  int
}

func newSession(cfg config.Config, opts options, wasm []byte) *session {
	doc, canvas := newPage(cfg, opts.viewport)
	win := memdom.NewWindow(opts.dpr, opts.viewport)
	relay := bridge.NewRelay(bridge.NewDOM(doc, cfg.Targets()))
	counter := framerate.NewCounter(30)
	counter.OnClamp(func(d time.Duration) {
		zap.L().Debug("long frame", zap.Duration("delta", d))
	})

	return &session{
		cfg:     cfg,
		doc:     doc,
		win:     win,
		canvas:  canvas,
		relay:   relay,
		counter: counter,
		wasm:    wasm,
		opts:    opts,
	}
}

// newPage builds the stock page: a canvas inside a container plus every
// optional element, all overlays initially hidden.
func newPage(cfg config.Config, viewport canvasbridge.Size) (*memdom.Document, *memdom.Element) {
	container := memdom.NewElement("game-container").WithBox(viewport)
	canvas := container.AppendChild(memdom.NewElement(cfg.CanvasID))
	doc := memdom.NewDocument().Add(
		container,
		canvas,
		memdom.NewElement(cfg.PauseID).WithHidden(true),
		memdom.NewElement(cfg.DebugID).WithHidden(true),
		memdom.NewElement(cfg.DebugTextID),
		memdom.NewElement(cfg.FPSID),
		memdom.NewElement(cfg.FallbackID).WithHidden(true),
	)
	return doc, canvas
}

func (s *session) start(ctx context.Context) error {
	loader := engine.NewLoader(s.wasm,
		engine.WithStartExport(s.cfg.StartExport),
		engine.WithInitExport(s.opts.initExport),
	)
	s.host = bootstrap.New(s.cfg, s.doc, s.win, loader, bootstrap.WithBridge(s.relay))

	err := s.host.Run(ctx)
	s.relay.Drain()
	if err != nil {
		return err
	}
	s.inst = s.host.Runtime().(*engine.Instance)
	return nil
}

func (s *session) frame(ctx context.Context) error {
	dt := s.counter.Tick()
	s.frames++
	return s.inst.Frame(ctx, dt.Seconds())
}

// hostFPS is the rate the host measured driving frames, empty before the
// first frame. It must run on the goroutine that calls frame.
func (s *session) hostFPS() string {
	if s.frames == 0 {
		return ""
	}
	return bridge.FormatFPS(s.counter.FPS())
}

func (s *session) close(ctx context.Context) {
	if s.inst != nil {
		s.inst.Close(ctx)
	}
}

type pageState struct {
	canvasWidth  string
	canvasHeight string
	debugText    string
	fps          string
	fallback     string
	bounds       display.Bounds
	ratio        float64
	firings      uint64
	pause        bool
	debug        bool
	failed       bool
}

func (s *session) state() pageState {
	st := pageState{
		canvasWidth:  s.canvas.Style("width"),
		canvasHeight: s.canvas.Style("height"),
		ratio:        s.win.DevicePixelRatio(),
	}
	if sz := s.host.Sizer(); sz != nil {
		st.bounds = sz.Bounds()
	}
	if w := s.host.Watcher(); w != nil {
		st.firings = w.Firings()
	}
	if el, ok := s.doc.Element(s.cfg.PauseID); ok {
		st.pause = !el.Hidden()
	}
	if el, ok := s.doc.Element(s.cfg.DebugID); ok {
		st.debug = !el.Hidden()
	}
	if el, ok := s.doc.Element(s.cfg.DebugTextID); ok {
		st.debugText = el.Text()
	}
	if el, ok := s.doc.Element(s.cfg.FPSID); ok {
		st.fps = el.Text()
	}
	if el, ok := s.doc.Element(s.cfg.FallbackID); ok && !el.Hidden() {
		st.failed = true
		st.fallback = el.Text()
	}
	return st
}

func (s *session) report() string {
	st := s.state()
	var b strings.Builder
	fmt.Fprintf(&b, "Canvas:        %s (%s x %s)\n", s.cfg.CanvasID, st.canvasWidth, st.canvasHeight)
	fmt.Fprintf(&b, "Resolved size: %.0fx%.0f at dpr %v\n", st.bounds.Width, st.bounds.Height, st.ratio)
	fmt.Fprintf(&b, "Pause overlay: %s\n", shown(st.pause))
	fmt.Fprintf(&b, "Debug overlay: %s\n", shown(st.debug))
	fmt.Fprintf(&b, "Debug text:    %q\n", st.debugText)
	fmt.Fprintf(&b, "FPS:           %s\n", st.fps)
	if fps := s.hostFPS(); fps != "" {
		fmt.Fprintf(&b, "Host FPS:      %s (%d frames)\n", fps, s.frames)
	}
	if st.failed {
		fmt.Fprintf(&b, "Load error:    %s\n", st.fallback)
	}
	return b.String()
}

func shown(v bool) string {
	if v {
		return "shown"
	}
	return "hidden"
}

func parseViewport(s string) (canvasbridge.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return canvasbridge.Size{}, fmt.Errorf("viewport %q: want WxH", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil || width <= 0 {
		return canvasbridge.Size{}, fmt.Errorf("viewport %q: bad width", s)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil || height <= 0 {
		return canvasbridge.Size{}, fmt.Errorf("viewport %q: bad height", s)
	}
	return canvasbridge.Size{Width: width, Height: height}, nil
}

func setLoggers(log *zap.Logger) {
	zap.ReplaceGlobals(log)
	bootstrap.SetLogger(log.Named("bootstrap"))
	bridge.SetLogger(log.Named("bridge"))
	display.SetLogger(log.Named("display"))
	watcher.SetLogger(log.Named("watcher"))
	engine.SetLogger(log.Named("engine"))
}
