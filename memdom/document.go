package memdom

import (
	"sort"
	"sync"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// Document indexes elements by id.
type Document struct {
	elements map[string]*Element
	mu       sync.RWMutex
}

func NewDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Add registers elements, replacing any with the same id.
func (d *Document) Add(elements ...*Element) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, el := range elements {
		d.elements[el.id] = el
	}
	return d
}

// Remove drops an element from the index.
func (d *Document) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, id)
}

// ElementByID implements canvasbridge.Document.
func (d *Document) ElementByID(id string) (canvasbridge.Element, bool) {
	el, ok := d.Element(id)
	if !ok {
		return nil, false
	}
	return el, true
}

// Element returns the concrete element for id.
func (d *Document) Element(id string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[id]
	return el, ok
}

// IDs lists element ids in sorted order.
func (d *Document) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.elements))
	for id := range d.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot copies the state of every element.
func (d *Document) Snapshot() map[string]Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]Snapshot, len(d.elements))
	for id, el := range d.elements {
		out[id] = el.Snapshot()
	}
	return out
}
