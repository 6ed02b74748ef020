package spi

import (
	"sync"

	"github.com/coreman2200/funtimes-pixelring/model"
)

// Shown is one frame as it reached a Recorder.
type Shown struct {
	Frame      model.Frame
	Brightness uint8
}

// Recorder keeps every frame in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	shown  []Shown
	notify chan struct{}

	// Fail, when set, is returned by Show instead of recording.
	Fail func(n int) error
}

func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

func (r *Recorder) Show(f model.Frame, brightness uint8) error {
	r.mu.Lock()
	if r.Fail != nil {
		if err := r.Fail(len(r.shown)); err != nil {
			r.mu.Unlock()
			return err
		}
	}
	r.shown = append(r.shown, Shown{Frame: f, Brightness: brightness})
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return nil
}

// Shown returns a copy of everything recorded so far.
func (r *Recorder) Shown() []Shown {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Shown(nil), r.shown...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shown)
}

// Last returns the most recent frame, false when nothing was shown.
func (r *Recorder) Last() (Shown, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shown) == 0 {
		return Shown{}, false
	}
	return r.shown[len(r.shown)-1], true
}

// Reset forgets what was recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.shown = nil
	r.mu.Unlock()
}

// Updated receives a value after frames were shown.
func (r *Recorder) Updated() <-chan struct{} {
	return r.notify
}

func (r *Recorder) Halt() error { return nil }

func (r *Recorder) String() string { return "recorder" }
