package spi

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	pspi "periph.io/x/conn/v3/spi"

	"github.com/coreman2200/funtimes-pixelring/model"
)

// DefaultAPA102Freq is the clock the mic array boards are driven at.
const DefaultAPA102Freq = 8 * physic.MegaHertz

const (
	apa102StartSize = 4
	apa102EndSize   = 4
	apa102LedSize   = 4
	apa102LedHeader = 0xE0
)

// APA102Size is the length of one encoded frame.
const APA102Size = apa102StartSize + model.RingSize*apa102LedSize + apa102EndSize

// EncodeAPA102 appends the wire form of f to dst: a zero start frame, then
// per LED the 5-bit brightness behind 0b111 followed by B, G, R, then an end
// frame of ones to clock the last LEDs through.
func EncodeAPA102(dst []byte, f model.Frame, brightness uint8) []byte {
	if brightness > model.MaxBrightness {
		brightness = model.MaxBrightness
	}
	dst = append(dst, 0, 0, 0, 0)
	for _, c := range f {
		dst = append(dst, apa102LedHeader|brightness, c.B, c.G, c.R)
	}
	return append(dst, 0xFF, 0xFF, 0xFF, 0xFF)
}

// APA102 writes frames to the ring's own APA102 LEDs, using the hardware
// global brightness field.
type APA102 struct {
	mu   sync.Mutex
	conn pspi.Conn
	buf  []byte
}

func NewAPA102(p pspi.Port, freq physic.Frequency) (*APA102, error) {
	if freq == 0 {
		freq = DefaultAPA102Freq
	}
	c, err := p.Connect(freq, pspi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("apa102 connect: %w", err)
	}
	return &APA102{conn: c, buf: make([]byte, 0, APA102Size)}, nil
}

func (a *APA102) Show(f model.Frame, brightness uint8) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buf = EncodeAPA102(a.buf[:0], f, brightness)
	if err := a.conn.Tx(a.buf, nil); err != nil {
		return fmt.Errorf("apa102 write: %w", err)
	}
	return nil
}

// Halt blanks the ring.
func (a *APA102) Halt() error {
	return a.Show(model.Frame{}, 0)
}

func (a *APA102) String() string {
	return "apa102{" + a.conn.String() + "}"
}
