package display

import (
	"math"
	"strconv"
	"sync"

	"go.uber.org/zap"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// DefaultBudget is the physical pixel budget per canvas side.
const DefaultBudget = 2048

// Bounds is the result of one sizing pass.
type Bounds struct {
	// Ratio is the device pixel ratio the pass used.
	Ratio float64
	// Max is the logical size at which a side reaches the pixel budget.
	Max float64
	// Available is the bounding dimension picked by the strategy.
	Available canvasbridge.Size
	// Width and Height are the resolved logical sizes.
	Width  float64
	Height float64
}

// Measure computes the canvas bounds for a device pixel ratio. Width and
// height are clamped independently; the bound is square, not aspect locked.
func Measure(dpr float64, available canvasbridge.Size, budget float64) Bounds {
	dpr = normalizeRatio(dpr)
	maxSize := budget / dpr
	return Bounds{
		Ratio:     dpr,
		Max:       maxSize,
		Available: available,
		Width:     math.Min(available.Width, maxSize),
		Height:    math.Min(available.Height, maxSize),
	}
}

func normalizeRatio(dpr float64) float64 {
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		return 1
	}
	return dpr
}

// Options configures a Sizer.
type Options struct {
	Strategy Strategy
	// Budget is the physical pixel budget; zero, negative or non-finite
	// values mean DefaultBudget.
	Budget float64
}

// Sizer keeps a canvas's logical size bounded by the pixel budget.
type Sizer struct {
	screen   canvasbridge.Screen
	canvas   canvasbridge.Element
	last     Bounds
	strategy Strategy
	budget   float64
	mu       sync.Mutex
}

// NewSizer creates a sizer for canvas.
func NewSizer(screen canvasbridge.Screen, canvas canvasbridge.Element, opts Options) *Sizer {
	budget := opts.Budget
	if !(budget > 0) || math.IsInf(budget, 0) {
		budget = DefaultBudget
	}
	return &Sizer{
		screen:   screen,
		canvas:   canvas,
		strategy: opts.Strategy,
		budget:   budget,
	}
}

// Update recomputes the bound from the current ratio and available
// dimension and writes it to the canvas style. Calling it again with
// unchanged inputs writes the same values.
func (s *Sizer) Update() {
	b := Measure(s.screen.DevicePixelRatio(), s.available(), s.budget)
	maxPx := formatPixels(b.Max)

	s.canvas.SetStyle("width", "min("+s.strategy.relativeWidth()+", "+maxPx+")")
	s.canvas.SetStyle("height", "min("+s.strategy.relativeHeight()+", "+maxPx+")")

	s.mu.Lock()
	s.last = b
	s.mu.Unlock()

	Logger().Debug("canvas resized",
		zap.String("canvas", s.canvas.ID()),
		zap.Stringer("strategy", s.strategy),
		zap.Float64("dpr", b.Ratio),
		zap.Float64("max", b.Max),
		zap.Float64("width", b.Width),
		zap.Float64("height", b.Height),
	)
}

// Bounds returns the bounds applied by the most recent Update.
func (s *Sizer) Bounds() Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Strategy reports the configured strategy.
func (s *Sizer) Strategy() Strategy {
	return s.strategy
}

func (s *Sizer) available() canvasbridge.Size {
	if s.strategy == StrategyContainer {
		if parent, ok := s.canvas.Parent(); ok {
			return parent.BoxSize()
		}
	}
	return s.screen.ViewportSize()
}

// formatPixels renders v the way a browser template literal would, using the
// shortest representation that round-trips.
func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
