package spi

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
	pspi "periph.io/x/conn/v3/spi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errConnect = errors.New("connect refused")
	errRelease = errors.New("release failed")
)

type brokenPort struct {
	closed bool
}

func (p *brokenPort) String() string { return "broken" }
func (p *brokenPort) Connect(physic.Frequency, pspi.Mode, int) (pspi.Conn, error) {
	return nil, errConnect
}
func (p *brokenPort) LimitSpeed(physic.Frequency) error { return nil }
func (p *brokenPort) Close() error {
	p.closed = true
	return errRelease
}

func TestAttachFailureReportsCleanup(t *testing.T) {
	for _, driver := range []string{DriverAPA102, DriverNRZ} {
		t.Run(driver, func(t *testing.T) {
			p := &brokenPort{}
			d := &Device{}

			err := d.attach(p, driver, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, errConnect)
			assert.ErrorIs(t, err, errRelease)
			assert.True(t, p.closed)
			assert.Nil(t, d.Sink)
		})
	}
}
