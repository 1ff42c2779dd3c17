package pixel

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a constant RGB operand. It carries no alpha.
type Color struct {
	R, G, B uint8
}

// Triple returns the color as an (R, G, B) array.
func (c Color) Triple() [3]uint8 { return [3]uint8{c.R, c.G, c.B} }

// Hex formats the color as #RRGGBB.
func (c Color) Hex() string { return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B) }

// ParseError reports a malformed hex color.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid color %q: %s", e.Input, e.Reason)
}

// ParseHex parses "#RRGGBB" or "RRGGBB". The #RGB shorthand is rejected.
func ParseHex(s string) (Color, error) {
	in := s
	switch {
	case len(s) == 6:
		s = "#" + s
	case len(s) == 7 && s[0] == '#':
	case len(s) == 7:
		return Color{}, &ParseError{Input: s, Reason: "7 character form must start with '#'"}
	default:
		return Color{}, &ParseError{Input: s, Reason: "want 6 or 7 characters"}
	}
	if strings.ContainsAny(s[1:], "#+-") {
		return Color{}, &ParseError{Input: in, Reason: "want hex digits only"}
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, &ParseError{Input: in, Reason: err.Error()}
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}
