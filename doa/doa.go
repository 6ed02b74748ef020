// Package doa supplies the speaker's bearing to the ring. Estimating it from
// the microphones is somebody else's job; this package only defines the
// boundary and keeps the latest reading at hand.
package doa

import "math"

// Source returns a bearing in degrees, 0 facing LED 0.
type Source interface {
	Direction() float64
}

// Static always faces the same way. Static(0) stands in when there is no
// microphone array.
type Static float64

func (s Static) Direction() float64 { return Normalize(float64(s)) }

// Func adapts a plain function.
type Func func() float64

func (f Func) Direction() float64 { return Normalize(f()) }

// Normalize wraps any bearing into [0,360).
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
