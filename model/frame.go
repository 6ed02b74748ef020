package model

import (
	"fmt"
	"image"
)

// RingSize is the LED count of every supported mic array.
const RingSize = 12

// Frame holds one colour per LED, index 0 being the reference LED. Its
// length is fixed by the type.
type Frame [RingSize]RGB

// Fill returns a frame with every LED set to c.
func Fill(c RGB) Frame {
	var f Frame
	for i := range f {
		f[i] = c
	}
	return f
}

// FrameFromBytes builds a frame from flat R,G,B bytes. A slice of any other
// length than 3*RingSize is a bug in the caller and panics.
func FrameFromBytes(b []byte) Frame {
	if len(b) != 3*RingSize {
		panic(fmt.Sprintf("model: frame needs %d bytes, got %d", 3*RingSize, len(b)))
	}
	var f Frame
	for i := range f {
		f[i] = RGB{R: b[i*3+0], G: b[i*3+1], B: b[i*3+2]}
	}
	return f
}

// Rotate moves every LED n positions forward; with n=1 the last LED wraps
// to index 0. Negative n rotates the other way.
func (f Frame) Rotate(n int) Frame {
	n %= RingSize
	if n < 0 {
		n += RingSize
	}
	var out Frame
	for i := range f {
		out[(i+n)%RingSize] = f[i]
	}
	return out
}

// Scale multiplies every channel of every LED by s.
func (f Frame) Scale(s float64) Frame {
	var out Frame
	for i, c := range f {
		out[i] = c.Scale(s)
	}
	return out
}

// Add sums two frames LED by LED, saturating each channel.
func (f Frame) Add(o Frame) Frame {
	var out Frame
	for i := range f {
		out[i] = f[i].Add(o[i])
	}
	return out
}

// IsOff reports whether every LED is black.
func (f Frame) IsOff() bool {
	return f == Frame{}
}

// Bytes flattens the frame as R,G,B per LED.
func (f Frame) Bytes() []byte {
	buf := make([]byte, 0, 3*RingSize)
	for _, c := range f {
		buf = append(buf, c.R, c.G, c.B)
	}
	return buf
}

// Image lays the ring out as a 12x1 strip.
func (f Frame) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, RingSize, 1))
	for x := 0; x < im.Rect.Max.X; x++ {
		im.SetNRGBA(x, 0, f[x].NRGBA())
	}
	return im
}
