// Package spi provides the pixel sinks the ring can draw on: APA102 or
// WS281x LEDs over a periph SPI port, the terminal, a log, or memory.
package spi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	pspi "periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-pixelring/model"
)

const (
	DriverAPA102  = "apa102"
	DriverNRZ     = "nrzled"
	DriverConsole = "console"
	DriverSim     = "sim"
)

// Sink is a pixel sink that can also be blanked.
type Sink interface {
	Show(f model.Frame, brightness uint8) error
	Halt() error
	String() string
}

type Options struct {
	Driver string
	// Port is the spireg name; empty picks the first port found.
	Port string
	Freq physic.Frequency
	// PowerPin is the gpioreg name of the LED power enable line (GPIO5 on
	// the 4-mic and 6-mic hats); empty leaves power alone.
	PowerPin string
}

// Device is an opened sink together with the hardware it holds.
type Device struct {
	Sink
	// Fallback is set when the requested SPI sink could not be opened and
	// the console is used instead.
	Fallback bool

	port  pspi.PortCloser
	power gpio.PinOut
}

// Open initialises the host and opens the sink described by o. When no SPI
// port can be found it prints at the console instead.
func Open(o Options) (*Device, error) {
	driver := strings.ToLower(strings.TrimSpace(o.Driver))
	switch driver {
	case DriverSim:
		return &Device{Sink: NewSim()}, nil
	case DriverConsole:
		return &Device{Sink: NewConsole()}, nil
	case "", DriverAPA102, DriverNRZ:
	default:
		return nil, fmt.Errorf("unknown driver %q", o.Driver)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	d := &Device{}
	if o.PowerPin != "" {
		pin := gpioreg.ByName(o.PowerPin)
		if pin == nil {
			return nil, fmt.Errorf("power pin %q not found", o.PowerPin)
		}
		if err := pin.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("power pin %s: %w", o.PowerPin, err)
		}
		d.power = pin
	}

	p, err := spireg.Open(o.Port)
	if err != nil {
		log.Warn().Err(err).Str("port", o.Port).Msg("failed to find a SPI port, printing at the console")
		d.Sink = NewConsole()
		d.Fallback = true
		return d, nil
	}
	if err := d.attach(p, driver, o.Freq); err != nil {
		return nil, err
	}
	return d, nil
}

// attach connects the LED sink on p. On failure everything d holds,
// including p, is released.
func (d *Device) attach(p pspi.PortCloser, driver string, freq physic.Frequency) error {
	d.port = p

	var s Sink
	var err error
	if driver == DriverNRZ {
		s, err = NewNRZ(p, freq)
	} else {
		s, err = NewAPA102(p, freq)
	}
	if err != nil {
		return errors.Join(err, d.Close())
	}
	d.Sink = s
	return nil
}

// Close blanks the LEDs, drops their power and releases the port.
func (d *Device) Close() error {
	var errs []error
	if d.Sink != nil {
		errs = append(errs, d.Sink.Halt())
	}
	if d.power != nil {
		errs = append(errs, d.power.Out(gpio.Low))
	}
	if d.port != nil {
		errs = append(errs, d.port.Close())
	}
	return errors.Join(errs...)
}
