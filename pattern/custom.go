package pattern

import (
	"time"

	"github.com/coreman2200/funtimes-pixelring/model"
)

// customOffset centres LED 0 on a bearing of 0 degrees.
const customOffset = 15

// Custom draws everything from two user colours.
type Custom struct {
	base
	Primary   model.RGB
	Secondary model.RGB
}

func NewCustom(primary, secondary model.RGB, show ShowFunc, opts ...Option) *Custom {
	c := &Custom{Primary: primary, Secondary: secondary}
	c.init(show, opts)
	return c
}

// Wakeup lights the LED facing direction in the secondary colour.
func (c *Custom) Wakeup(direction float64) error {
	pixels := model.Fill(c.Primary)
	pixels[model.Position(direction, customOffset)] = c.Secondary
	return c.show(pixels)
}

func (c *Custom) Listen() error {
	return c.show(model.Fill(c.Primary))
}

// Think chases a single secondary LED around the ring, one step per speed.
func (c *Custom) Think(speed time.Duration) error {
	pixels := model.Fill(c.Primary)
	pixels[0] = c.Secondary

	for !c.Stopped() {
		if err := c.show(pixels); err != nil {
			return err
		}
		c.sleep(speed)
		pixels = pixels.Rotate(1)
	}
	return nil
}

// Speak flashes the whole ring between the two colours.
func (c *Custom) Speak(speed time.Duration) error {
	frames := [2]model.Frame{model.Fill(c.Primary), model.Fill(c.Secondary)}

	for i := 0; !c.Stopped(); i ^= 1 {
		if err := c.show(frames[i]); err != nil {
			return err
		}
		c.sleep(speed)
	}
	return nil
}
