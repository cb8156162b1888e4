package display

import (
	"fmt"
	"strings"
)

// Strategy selects which dimension bounds the canvas besides the pixel budget.
type Strategy int

const (
	// StrategyViewport bounds the canvas by the full browser viewport.
	// Used when the game owns the whole page.
	StrategyViewport Strategy = iota
	// StrategyContainer bounds the canvas by its parent element's box.
	// Used when the page is embedded in an iframe or a layout slot.
	StrategyContainer
)

func (s Strategy) String() string {
	switch s {
	case StrategyViewport:
		return "viewport"
	case StrategyContainer:
		return "container"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "viewport", "page", "":
		*s = StrategyViewport
	case "container", "embedded", "iframe":
		*s = StrategyContainer
	default:
		return fmt.Errorf("unknown sizing strategy %q", text)
	}
	return nil
}

// relativeWidth and relativeHeight are the CSS lengths standing for the
// available dimension in the clamp expression.
func (s Strategy) relativeWidth() string {
	if s == StrategyContainer {
		return "100%"
	}
	return "100vw"
}

func (s Strategy) relativeHeight() string {
	if s == StrategyContainer {
		return "100%"
	}
	return "100vh"
}
