package bridge

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// HostBridge is the set of UI operations exposed to the runtime.
// Implementations never fail and never return values.
type HostBridge interface {
	SetPauseVisible(visible bool)
	SetDebugVisible(visible bool)
	SetDebugText(text string)
	SetFPS(value float64)
}

// Targets names the element each entry point reconciles.
type Targets struct {
	Pause     string
	Debug     string
	DebugText string
	FPS       string
}

// DefaultTargets returns the element ids used by the stock page.
func DefaultTargets() Targets {
	return Targets{
		Pause:     "pause-menu",
		Debug:     "debug-overlay",
		DebugText: "debug-text",
		FPS:       "fps",
	}
}

// DOM applies bridge calls to elements of a document.
type DOM struct {
	doc     canvasbridge.Document
	targets Targets
}

var _ HostBridge = (*DOM)(nil)

// NewDOM creates a bridge over doc.
func NewDOM(doc canvasbridge.Document, targets Targets) *DOM {
	return &DOM{doc: doc, targets: targets}
}

func (b *DOM) SetPauseVisible(visible bool) {
	b.setVisible(b.targets.Pause, visible)
}

func (b *DOM) SetDebugVisible(visible bool) {
	b.setVisible(b.targets.Debug, visible)
}

func (b *DOM) SetDebugText(text string) {
	el, ok := b.lookup(b.targets.DebugText)
	if !ok {
		return
	}
	el.SetText(text)
}

func (b *DOM) SetFPS(value float64) {
	el, ok := b.lookup(b.targets.FPS)
	if !ok {
		return
	}
	el.SetText(FormatFPS(value))
}

func (b *DOM) setVisible(id string, visible bool) {
	el, ok := b.lookup(id)
	if !ok {
		return
	}
	el.SetHidden(!visible)
}

func (b *DOM) lookup(id string) (canvasbridge.Element, bool) {
	if id == "" {
		return nil, false
	}
	el, ok := b.doc.ElementByID(id)
	if !ok {
		Logger().Debug("bridge target missing", zap.String("id", id))
		return nil, false
	}
	return el, true
}

// FormatFPS rounds to the nearest integer, halves rounding up.
// Non-finite values render as "--".
func FormatFPS(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "--"
	}
	r := math.Floor(value)
	if value-r >= 0.5 {
		r++
	}
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}
