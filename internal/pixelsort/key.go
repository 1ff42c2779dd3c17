package pixelsort

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Key maps a pixel to a sort key in [0, 1].
type Key uint8

const (
	Brightness Key = iota
	Red
	Green
	Blue
	Hue
	Saturation
	Luminance
)

var keyNames = map[Key]string{
	Brightness: "brightness",
	Red:        "red",
	Green:      "green",
	Blue:       "blue",
	Hue:        "hue",
	Saturation: "saturation",
	Luminance:  "luminance",
}

// ParseKey accepts the names above plus single-letter channel names.
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "r":
		return Red, nil
	case "g":
		return Green, nil
	case "b":
		return Blue, nil
	case "", "max":
		return Brightness, nil
	}
	for k, name := range keyNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown sort key %q", s)
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// Of returns the normalized key of an RGB pixel.
func (k Key) Of(r, g, b uint8) float64 {
	switch k {
	case Red:
		return float64(r) / 255
	case Green:
		return float64(g) / 255
	case Blue:
		return float64(b) / 255
	case Hue:
		h, _, _ := toColorful(r, g, b).Hsv()
		return h / 360
	case Saturation:
		_, s, _ := toColorful(r, g, b).Hsv()
		return s
	case Luminance:
		// Rec. 709 weights on the raw values, no linearization.
		return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
	}
	return float64(max(r, g, b)) / 255
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
