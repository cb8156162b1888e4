package memdom

import (
	"sync"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// Element is an in-memory element.
type Element struct {
	parent *Element
	styles map[string]string
	id     string
	text   string
	box    canvasbridge.Size
	hidden bool
	mu     sync.RWMutex
}

// NewElement creates a visible element with no styles.
func NewElement(id string) *Element {
	return &Element{
		id:     id,
		styles: make(map[string]string),
	}
}

// WithHidden sets the initial hidden attribute.
func (e *Element) WithHidden(hidden bool) *Element {
	e.hidden = hidden
	return e
}

// WithText sets the initial text content.
func (e *Element) WithText(text string) *Element {
	e.text = text
	return e
}

// WithBox sets the element's content box size.
func (e *Element) WithBox(size canvasbridge.Size) *Element {
	e.box = size
	return e
}

// AppendChild makes e the parent of child.
func (e *Element) AppendChild(child *Element) *Element {
	child.mu.Lock()
	child.parent = e
	child.mu.Unlock()
	return child
}

func (e *Element) ID() string {
	return e.id
}

func (e *Element) SetStyle(property, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.styles[property] = value
}

func (e *Element) Style(property string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.styles[property]
}

func (e *Element) SetHidden(hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hidden = hidden
}

func (e *Element) Hidden() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hidden
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

func (e *Element) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

// SetBoxSize changes the content box, as a layout change would.
func (e *Element) SetBoxSize(size canvasbridge.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.box = size
}

func (e *Element) BoxSize() canvasbridge.Size {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.box
}

func (e *Element) Parent() (canvasbridge.Element, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.parent == nil {
		return nil, false
	}
	return e.parent, true
}

// Snapshot is a comparable copy of an element's observable state.
type Snapshot struct {
	Styles map[string]string
	Text   string
	Hidden bool
}

// Snapshot copies the element's state.
func (e *Element) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	styles := make(map[string]string, len(e.styles))
	for k, v := range e.styles {
		styles[k] = v
	}
	return Snapshot{Styles: styles, Text: e.text, Hidden: e.hidden}
}
