// Package pattern generates the LED frames for each voice-assistant state.
//
// A Pattern emits frames through the ShowFunc it was built with. The looping
// animations (Think, Speak) check the stop flag before every emission, so a
// request to stop is honoured within one sleep interval; nothing interrupts
// a sleep in progress.
package pattern

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/coreman2200/funtimes-pixelring/model"
)

// ShowFunc pushes one frame to the ring. A non-nil error aborts the
// animation and is returned by the pattern method unchanged.
type ShowFunc func(model.Frame) error

// Pattern is the capability set shared by every variant.
type Pattern interface {
	Wakeup(direction float64) error
	Listen() error
	Think(speed time.Duration) error
	Speak(speed time.Duration) error
	Off() error

	SetStop(bool)
	Stopped() bool
}

type Kind string

const (
	KindCustom Kind = "custom"
	KindGoogle Kind = "google"
)

// ParseKind normalises a user supplied name. Unknown names map to
// KindCustom.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindGoogle:
		return KindGoogle
	default:
		return KindCustom
	}
}

// Default colours for the custom pattern.
var (
	DefaultPrimary   = model.RGB{B: 255}
	DefaultSecondary = model.RGB{R: 255, G: 255, B: 255}
)

// New builds the pattern for kind. GoogleHome ignores the colours.
func New(kind Kind, primary, secondary model.RGB, show ShowFunc, opts ...Option) Pattern {
	switch ParseKind(string(kind)) {
	case KindGoogle:
		return NewGoogleHome(show, opts...)
	default:
		return NewCustom(primary, secondary, show, opts...)
	}
}

type Option func(*base)

// WithSleep replaces the blocking delay used between frames.
func WithSleep(sleep func(time.Duration)) Option {
	return func(b *base) {
		if sleep != nil {
			b.sleep = sleep
		}
	}
}

// base carries what every variant needs: the sink, the delay and the
// cooperative stop flag.
type base struct {
	show  ShowFunc
	sleep func(time.Duration)
	stop  atomic.Bool
}

func (b *base) init(show ShowFunc, opts []Option) {
	if show == nil {
		panic("pattern: show func is nil")
	}
	b.show = show
	b.sleep = time.Sleep
	for _, o := range opts {
		o(b)
	}
}

func (b *base) SetStop(v bool) { b.stop.Store(v) }
func (b *base) Stopped() bool  { return b.stop.Load() }

func (b *base) Off() error {
	return b.show(model.Frame{})
}
