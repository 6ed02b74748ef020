package doa

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultInterval = 100 * time.Millisecond

// Estimator produces a fresh bearing, usually from a block of audio.
type Estimator interface {
	Estimate(ctx context.Context) (float64, error)
}

type EstimatorFunc func(ctx context.Context) (float64, error)

func (f EstimatorFunc) Estimate(ctx context.Context) (float64, error) { return f(ctx) }

// Sampler polls an Estimator in the background and serves the last good
// bearing, so Direction never blocks the caller.
type Sampler struct {
	est      Estimator
	interval time.Duration
	log      zerolog.Logger

	last atomic.Uint64 // math.Float64bits of the bearing

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSampler(est Estimator, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		est:      est,
		interval: interval,
		log:      log.With().Str("component", "doa").Logger(),
	}
}

// Start runs the sampling loop until ctx is done or Stop is called.
func (s *Sampler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
}

func (s *Sampler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sample(ctx)
	for {
		select {
		case <-ticker.C:
			s.sample(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sampler) sample(ctx context.Context) {
	d, err := s.est.Estimate(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Debug().Err(err).Msg("estimate failed; keeping last bearing")
		}
		return
	}
	s.last.Store(math.Float64bits(Normalize(d)))
}

// Direction returns the most recent bearing, 0 before the first sample.
func (s *Sampler) Direction() float64 {
	return math.Float64frombits(s.last.Load())
}

// Stop ends the loop and waits for it.
func (s *Sampler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
