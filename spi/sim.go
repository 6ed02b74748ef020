package spi

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelring/model"
)

// Sim logs a short summary of each frame and remembers only the last one,
// so it can run headless for as long as the process does.
type Sim struct {
	log zerolog.Logger

	mu    sync.Mutex
	count int
	last  Shown
}

func NewSim() *Sim {
	return &Sim{log: log.With().Str("component", "sim").Logger()}
}

func (s *Sim) Show(f model.Frame, brightness uint8) error {
	s.mu.Lock()
	s.count++
	s.last = Shown{Frame: f, Brightness: brightness}
	n := s.count
	s.mu.Unlock()

	var r, g, b int
	lit := 0
	for _, c := range f {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
		if c != model.Black {
			lit++
		}
	}
	s.log.Debug().Int("frame", n).Uint8("level", brightness).Int("lit", lit).
		Ints("avg", []int{r / model.RingSize, g / model.RingSize, b / model.RingSize}).
		Stringer("first", f[0]).Msg("show")
	return nil
}

// Count is the number of frames shown so far.
func (s *Sim) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Last returns the most recent frame, false when nothing was shown.
func (s *Sim) Last() (Shown, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.count > 0
}

func (s *Sim) Halt() error { return nil }

func (s *Sim) String() string { return "sim" }
