package spi

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	pspi "periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-pixelring/model"
)

// DefaultNRZFreq gives 3 SPI bits per NRZ bit at 800kHz, plus margin.
const DefaultNRZFreq = (800*3 + 100) * physic.KiloHertz

// NRZ drives a WS281x ring over SPI. Those LEDs have no global brightness,
// so the level scales the colours instead.
type NRZ struct {
	dev *nrzled.Dev
}

func NewNRZ(p pspi.Port, freq physic.Frequency) (*NRZ, error) {
	if freq == 0 {
		freq = DefaultNRZFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: model.RingSize,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: d}, nil
}

func (n *NRZ) Show(f model.Frame, brightness uint8) error {
	if _, err := n.dev.Write(scaleLevel(f, brightness).Bytes()); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

func (n *NRZ) Halt() error { return n.dev.Halt() }

func (n *NRZ) String() string { return n.dev.String() }

// scaleLevel folds the 5-bit global level into the colours.
func scaleLevel(f model.Frame, brightness uint8) model.Frame {
	if brightness >= model.MaxBrightness {
		return f
	}
	return f.Scale(float64(brightness) / float64(model.MaxBrightness))
}
