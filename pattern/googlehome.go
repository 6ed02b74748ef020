package pattern

import (
	"time"

	"github.com/coreman2200/funtimes-pixelring/model"
)

const (
	// googleOffset puts the red basis LED a quarter turn ahead of the speaker.
	googleOffset = 90 + customOffset
	wakeupGain   = 25
	wakeupStep   = 100 * time.Millisecond
	wakeupBlends = 2

	listenSteps = 24
	listenStep  = 10 * time.Millisecond

	fadeSteps = 5
	fadeStart = 100 * time.Millisecond

	speakMin  = 5
	speakMax  = 24
	speakStep = 20 * time.Millisecond
)

// googleBasis is four dim LEDs a quarter turn apart: red, yellow, green, blue.
var googleBasis = func() model.Frame {
	var f model.Frame
	f[0] = model.RGB{R: 8}
	f[3] = model.RGB{R: 4, G: 4}
	f[6] = model.RGB{G: 8}
	f[9] = model.RGB{B: 8}
	return f
}()

// GoogleHome mimics the four-colour spinner. It remembers the last frame it
// settled on so each animation picks up where the previous one stopped.
type GoogleHome struct {
	base
	basis  model.Frame
	pixels model.Frame
}

func NewGoogleHome(show ShowFunc, opts ...Option) *GoogleHome {
	g := &GoogleHome{basis: googleBasis, pixels: googleBasis}
	g.init(show, opts)
	return g
}

// Pixels returns the frame later animations continue from.
func (g *GoogleHome) Pixels() model.Frame {
	return g.pixels
}

// Wakeup spins the basis toward direction. The sequence is short and does
// not check the stop flag.
func (g *GoogleHome) Wakeup(direction float64) error {
	position := model.Position(direction, googleOffset)

	pixels := g.basis.Rotate(position).Scale(wakeupGain)
	if err := g.show(pixels); err != nil {
		return err
	}
	g.sleep(wakeupStep)

	pixels = pixels.Rotate(1)
	if err := g.show(pixels); err != nil {
		return err
	}
	g.sleep(wakeupStep)

	for i := 0; i < wakeupBlends; i++ {
		next := pixels.Rotate(1)
		if err := g.show(pixels.Scale(0.5).Add(next)); err != nil {
			return err
		}
		pixels = next
		g.sleep(wakeupStep)
	}

	if err := g.show(pixels); err != nil {
		return err
	}
	g.pixels = pixels
	return nil
}

// Listen fades the stored frame in. It is a short acknowledgement and does
// not check the stop flag.
func (g *GoogleHome) Listen() error {
	for i := 1; i <= listenSteps; i++ {
		if err := g.show(g.pixels.Scale(float64(i) / listenSteps)); err != nil {
			return err
		}
		g.sleep(listenStep)
	}
	return nil
}

// Think rotates the stored frame every speed until stopped, then spins down.
func (g *GoogleHome) Think(speed time.Duration) error {
	pixels := g.pixels

	for !g.Stopped() {
		pixels = pixels.Rotate(1)
		if err := g.show(pixels); err != nil {
			return err
		}
		g.sleep(speed)
	}

	d := fadeStart
	for i := 0; i < fadeSteps; i++ {
		pixels = pixels.Rotate(1)
		if err := g.show(pixels.Scale(float64(fadeSteps-1-i) / (fadeSteps - 1))); err != nil {
			return err
		}
		g.sleep(d)
		d /= 2
	}

	g.pixels = pixels
	return nil
}

// Speak pulses the stored frame between levels 5 and 24 of 24, holding for
// speed at each end.
func (g *GoogleHome) Speak(speed time.Duration) error {
	level, step := speakMin, 1

	for !g.Stopped() {
		if err := g.show(g.pixels.Scale(float64(level) / speakMax)); err != nil {
			return err
		}

		switch {
		case level <= speakMin:
			step = 1
			g.sleep(speed)
		case level >= speakMax:
			step = -1
			g.sleep(speed)
		default:
			g.sleep(speakStep)
		}
		level += step
	}
	return nil
}
