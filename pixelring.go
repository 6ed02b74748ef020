// Package pixelring drives the 12-LED ring of a microphone array from
// voice-assistant states.
//
// A PixelRing owns one pattern and one worker goroutine. Every request is
// queued and returns at once; the worker runs them strictly in order. Before
// a request is queued the current pattern's stop flag is raised, which ends a
// looping animation (think, speak) at its next iteration, so a new request
// waits at most one frame interval. A pattern method that never checks the
// flag holds the queue until it returns.
//
// SetPattern also raises the flag on the pattern it replaces, and the worker
// leaves the flag raised when it starts a job while others are already
// queued, so a looping job in a burst of requests ends at once instead of
// running forever.
package pixelring

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelring/doa"
	"github.com/coreman2200/funtimes-pixelring/model"
	"github.com/coreman2200/funtimes-pixelring/pattern"
)

const (
	DefaultThinkSpeed = 250 * time.Millisecond
	DefaultSpeakSpeed = 500 * time.Millisecond
)

// ErrClosed is returned by Close when the ring was already shut down
// without a sink failure.
var ErrClosed = errors.New("pixelring: closed")

// Sink receives every frame together with the 5-bit global brightness. It
// blocks until the data is latched; an error is fatal for the ring.
type Sink interface {
	Show(frame model.Frame, brightness uint8) error
}

type PixelRing struct {
	sink Sink
	dir  doa.Source
	log  zerolog.Logger

	patternOpts []pattern.Option
	brightness  atomic.Uint32

	q       *jobQueue
	pattern pattern.Pattern // guarded by q.mu

	done   chan struct{}
	err    error // set by the worker before done is closed
	closed atomic.Bool
}

type Option func(*PixelRing)

func WithLogger(l zerolog.Logger) Option {
	return func(r *PixelRing) { r.log = l }
}

// WithPatternOptions is applied to every pattern the ring creates.
func WithPatternOptions(opts ...pattern.Option) Option {
	return func(r *PixelRing) { r.patternOpts = append(r.patternOpts, opts...) }
}

// WithBrightness sets the starting brightness percentage.
func WithBrightness(pct int) Option {
	return func(r *PixelRing) { r.brightness.Store(uint32(model.BrightnessLevel(pct))) }
}

// New starts the worker and queues an initial Off. dir may be nil, in which
// case every wakeup faces 0 degrees.
func New(sink Sink, dir doa.Source, opts ...Option) *PixelRing {
	if sink == nil {
		panic("pixelring: nil sink")
	}
	if dir == nil {
		dir = doa.Static(0)
	}
	r := &PixelRing{
		sink: sink,
		dir:  dir,
		log:  log.With().Str("component", "pixelring").Logger(),
		q:    newJobQueue(),
		done: make(chan struct{}),
	}
	r.brightness.Store(uint32(model.MaxBrightness))
	for _, o := range opts {
		o(r)
	}
	r.pattern = pattern.New(pattern.KindCustom, model.Black, model.Black, r.show, r.patternOpts...)

	go r.run()
	r.Off()
	return r
}

func (r *PixelRing) show(f model.Frame) error {
	return r.sink.Show(f, r.Brightness())
}

// SetBrightness clamps pct into [1,100] and applies it from the next frame.
func (r *PixelRing) SetBrightness(pct int) {
	level := model.BrightnessLevel(pct)
	r.brightness.Store(uint32(level))
	r.log.Debug().Int("pct", model.ClampPercent(pct)).Uint8("level", level).Msg("brightness")
}

// Brightness returns the current 5-bit level.
func (r *PixelRing) Brightness() uint8 {
	return uint8(r.brightness.Load())
}

// SetPattern replaces the current pattern; the old one is discarded along
// with its animation state. Unknown kinds fall back to custom. A loop still
// running on the old pattern is told to stop.
func (r *PixelRing) SetPattern(kind pattern.Kind, primary, secondary model.RGB) {
	p := pattern.New(kind, primary, secondary, r.show, r.patternOpts...)

	r.q.mu.Lock()
	old := r.pattern
	r.pattern = p
	r.q.mu.Unlock()

	old.SetStop(true)
	r.log.Debug().Str("kind", string(pattern.ParseKind(string(kind)))).
		Stringer("primary", primary).Stringer("secondary", secondary).Msg("pattern")
}

// Wakeup resolves the speaker's bearing now and queues the wakeup animation.
func (r *PixelRing) Wakeup() {
	r.enqueue(job{kind: jobWakeup, direction: r.dir.Direction()})
}

func (r *PixelRing) Listen() {
	r.enqueue(job{kind: jobListen})
}

// Think queues the thinking loop. speed <= 0 selects DefaultThinkSpeed.
func (r *PixelRing) Think(speed time.Duration) {
	if speed <= 0 {
		speed = DefaultThinkSpeed
	}
	r.enqueue(job{kind: jobThink, speed: speed})
}

// Wait is Think under the name some callers use.
func (r *PixelRing) Wait(speed time.Duration) {
	r.Think(speed)
}

// Speak queues the speaking loop. speed <= 0 selects DefaultSpeakSpeed.
func (r *PixelRing) Speak(speed time.Duration) {
	if speed <= 0 {
		speed = DefaultSpeakSpeed
	}
	r.enqueue(job{kind: jobSpeak, speed: speed})
}

func (r *PixelRing) Off() {
	r.enqueue(job{kind: jobOff})
}

func (r *PixelRing) enqueue(j job) {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	if r.q.closed {
		r.log.Debug().Stringer("job", j.kind).Msg("ring stopped; request dropped")
		return
	}
	r.pattern.SetStop(true)
	r.q.push(j)
}

func (r *PixelRing) run() {
	defer close(r.done)
	for {
		r.q.mu.Lock()
		j, ok := r.q.pop()
		if !ok {
			r.q.mu.Unlock()
			return
		}
		p := r.pattern
		// Leave the flag up when more work is already waiting.
		p.SetStop(len(r.q.jobs) > 0)
		r.q.mu.Unlock()

		r.log.Trace().Stringer("job", j.kind).Msg("run")
		if err := j.run(p); err != nil {
			r.err = fmt.Errorf("pixelring: %s: %w", j.kind, err)
			r.log.Error().Err(err).Stringer("job", j.kind).Msg("pixel sink failed; worker halted")

			r.q.mu.Lock()
			r.q.closed = true
			r.q.jobs = nil
			r.q.mu.Unlock()
			return
		}
	}
}

// Done is closed once the worker has exited, after Close or a sink failure.
func (r *PixelRing) Done() <-chan struct{} {
	return r.done
}

// Err returns the sink failure that halted the worker, if any.
func (r *PixelRing) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Close drops pending requests, stops the running animation and waits for
// the worker to exit. It returns the sink failure that halted the worker,
// or ErrClosed on a second call.
func (r *PixelRing) Close() error {
	if r.closed.Swap(true) {
		<-r.done
		if r.err != nil {
			return r.err
		}
		return ErrClosed
	}

	r.q.mu.Lock()
	r.q.closed = true
	r.q.jobs = nil
	r.pattern.SetStop(true)
	r.q.cond.Broadcast()
	r.q.mu.Unlock()

	<-r.done
	return r.err
}
