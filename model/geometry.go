package model

import "math"

const (
	// MaxBrightness is the top of the APA102 5-bit global brightness field.
	MaxBrightness uint8 = 0x1F

	// DegreesPerLED is the arc covered by one LED on the ring.
	DegreesPerLED = 360.0 / RingSize
)

// Position maps a bearing in degrees to the LED that faces it. offset is the
// calibration added before quantising (15 centres LED 0 on 0 degrees).
func Position(direction, offset float64) int {
	p := int(math.Floor((direction+offset)/DegreesPerLED)) % RingSize
	if p < 0 {
		p += RingSize
	}
	return p
}

// ClampPercent clamps a brightness percentage into [1,100].
func ClampPercent(pct int) int {
	if pct < 1 {
		return 1
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// BrightnessLevel converts a percentage into the driver's 5-bit level.
func BrightnessLevel(pct int) uint8 {
	pct = ClampPercent(pct)
	return uint8(math.Round(float64(MaxBrightness) * float64(pct) / 100))
}
