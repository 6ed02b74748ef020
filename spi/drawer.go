package spi

import (
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/funtimes-pixelring/model"
)

// Drawer renders frames on any periph display, such as the terminal.
type Drawer struct {
	d display.Drawer
}

func NewDrawer(d display.Drawer) *Drawer {
	return &Drawer{d: d}
}

// NewConsole prints the ring as coloured blocks on stdout.
func NewConsole() *Drawer {
	return NewDrawer(screen.New(model.RingSize))
}

func (d *Drawer) Show(f model.Frame, brightness uint8) error {
	return d.d.Draw(d.d.Bounds(), scaleLevel(f, brightness).Image(), image.Point{})
}

func (d *Drawer) Halt() error { return d.d.Halt() }

func (d *Drawer) String() string { return d.d.String() }
