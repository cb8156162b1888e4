//go:build js && wasm

package jsdom

import (
	"syscall/js"

	canvasbridge "github.com/wippyai/canvas-bridge"
)

// Document wraps the page's document object.
type Document struct {
	doc js.Value
}

var _ canvasbridge.Document = (*Document)(nil)

func NewDocument() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) ElementByID(id string) (canvasbridge.Element, bool) {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	return &Element{el: el}, true
}

// Element wraps a DOM element.
type Element struct {
	el js.Value
}

var _ canvasbridge.Element = (*Element)(nil)

func (e *Element) ID() string {
	return e.el.Get("id").String()
}

func (e *Element) SetStyle(property, value string) {
	e.el.Get("style").Call("setProperty", property, value)
}

func (e *Element) Style(property string) string {
	return e.el.Get("style").Call("getPropertyValue", property).String()
}

func (e *Element) SetHidden(hidden bool) {
	e.el.Call("toggleAttribute", "hidden", hidden)
}

func (e *Element) Hidden() bool {
	return e.el.Call("hasAttribute", "hidden").Bool()
}

func (e *Element) SetText(text string) {
	e.el.Set("innerText", text)
}

func (e *Element) Text() string {
	return e.el.Get("innerText").String()
}

func (e *Element) BoxSize() canvasbridge.Size {
	return canvasbridge.Size{
		Width:  e.el.Get("clientWidth").Float(),
		Height: e.el.Get("clientHeight").Float(),
	}
}

func (e *Element) Parent() (canvasbridge.Element, bool) {
	p := e.el.Get("parentElement")
	if p.IsNull() || p.IsUndefined() {
		return nil, false
	}
	return &Element{el: p}, true
}
