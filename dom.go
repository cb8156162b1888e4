package canvasbridge

// Size is a logical (CSS pixel) size.
type Size struct {
	Width  float64
	Height float64
}

// Element is a host page element addressed by id.
type Element interface {
	ID() string
	SetStyle(property, value string)
	Style(property string) string
	SetHidden(hidden bool)
	Hidden() bool
	SetText(text string)
	Text() string
	// BoxSize returns the element's content box in logical pixels.
	BoxSize() Size
	Parent() (Element, bool)
}

// Document locates elements. A missing element is reported with ok=false,
// never as an error.
type Document interface {
	ElementByID(id string) (Element, bool)
}

// Screen reports the display state of the window hosting the canvas.
type Screen interface {
	DevicePixelRatio() float64
	ViewportSize() Size
}

// Subscription is a one-shot change registration.
type Subscription interface {
	// Changed is closed or signalled at most once.
	Changed() <-chan struct{}
	// Release detaches the registration. Safe to call more than once.
	Release()
}

// ResolutionSource issues one-shot notifications for device pixel ratio
// changes.
type ResolutionSource interface {
	Screen
	// MatchResolution fires once the ratio no longer equals dpr.
	MatchResolution(dpr float64) Subscription
}
