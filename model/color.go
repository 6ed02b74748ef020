package model

import (
	"fmt"
	"image/color"
	"math"
)

// RGB is one LED's raw intensities. There is no colour-space handling: the
// values go to the driver as they are.
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{}
	White = RGB{R: 255, G: 255, B: 255}
	Red   = RGB{R: 255}
	Green = RGB{G: 255}
	Blue  = RGB{B: 255}
)

// Clamp8 rounds toward zero and clamps x into [0,255].
func Clamp8(x float64) uint8 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}

// Scale multiplies every channel by f.
func (c RGB) Scale(f float64) RGB {
	return RGB{
		R: Clamp8(float64(c.R) * f),
		G: Clamp8(float64(c.G) * f),
		B: Clamp8(float64(c.B) * f),
	}
}

// Add sums two colours channel by channel, saturating at 255.
func (c RGB) Add(o RGB) RGB {
	return RGB{
		R: Clamp8(float64(c.R) + float64(o.R)),
		G: Clamp8(float64(c.G) + float64(o.G)),
		B: Clamp8(float64(c.B) + float64(o.B)),
	}
}

func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseRGB accepts "#RRGGBB" or "RRGGBB".
func ParseRGB(s string) (RGB, error) {
	var c RGB
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return c, fmt.Errorf("invalid colour %q: want RRGGBB", s)
	}
	if _, err := fmt.Sscanf(s, "%02X%02X%02X", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}
