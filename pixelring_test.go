package pixelring

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelring/doa"
	"github.com/coreman2200/funtimes-pixelring/model"
	"github.com/coreman2200/funtimes-pixelring/pattern"
	"github.com/coreman2200/funtimes-pixelring/spi"
)

var (
	blue  = model.RGB{B: 255}
	white = model.RGB{R: 255, G: 255, B: 255}
)

// fastSleep keeps every pattern delay to a millisecond.
func fastSleep(time.Duration) { time.Sleep(time.Millisecond) }

func newTestRing(t *testing.T, dir doa.Source) (*PixelRing, *spi.Recorder) {
	t.Helper()
	rec := spi.NewRecorder()
	r := New(rec, dir,
		WithLogger(zerolog.Nop()),
		WithPatternOptions(pattern.WithSleep(fastSleep)),
	)
	t.Cleanup(func() { _ = r.Close() })
	waitFrames(t, rec, 1)
	return r, rec
}

func waitFrames(t *testing.T, rec *spi.Recorder, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return rec.Len() >= n }, 2*time.Second, time.Millisecond)
}

func waitLast(t *testing.T, rec *spi.Recorder, want model.Frame) {
	t.Helper()
	require.Eventually(t, func() bool {
		last, ok := rec.Last()
		return ok && last.Frame == want
	}, 2*time.Second, time.Millisecond)
}

// settled waits until no frame arrived for a while and returns the count.
func settled(rec *spi.Recorder) int {
	n := rec.Len()
	for {
		time.Sleep(20 * time.Millisecond)
		m := rec.Len()
		if m == n {
			return n
		}
		n = m
	}
}

func TestNewStartsOff(t *testing.T) {
	_, rec := newTestRing(t, nil)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.True(t, last.Frame.IsOff())
	assert.Equal(t, model.MaxBrightness, last.Brightness)
}

func TestWakeupFacesDirection(t *testing.T) {
	r, rec := newTestRing(t, doa.Static(0))
	r.SetPattern(pattern.KindCustom, blue, white)
	r.Wakeup()

	want := model.Fill(blue)
	want[0] = white
	waitLast(t, rec, want)
}

func TestWakeupResolvesDirectionAtRequest(t *testing.T) {
	bearing := 95.0
	r, rec := newTestRing(t, doa.Func(func() float64 { return bearing }))
	r.SetPattern("custom", blue, white)
	r.Wakeup()

	want := model.Fill(blue)
	want[3] = white
	waitLast(t, rec, want)
}

func TestSetBrightness(t *testing.T) {
	r, rec := newTestRing(t, nil)
	for _, v := range []struct {
		Pct    int
		Expect uint8
	}{
		{150, 31}, {100, 31}, {50, 16}, {10, 3}, {1, 0}, {-5, 0},
	} {
		r.SetBrightness(v.Pct)
		assert.Equal(t, v.Expect, r.Brightness(), "pct %d", v.Pct)
	}

	r.SetBrightness(50)
	r.Listen()
	waitFrames(t, rec, 2)
	last, _ := rec.Last()
	assert.Equal(t, uint8(16), last.Brightness)
}

func TestWithBrightness(t *testing.T) {
	rec := spi.NewRecorder()
	r := New(rec, nil, WithLogger(zerolog.Nop()), WithBrightness(10))
	defer r.Close()
	waitFrames(t, rec, 1)
	last, _ := rec.Last()
	assert.Equal(t, uint8(3), last.Brightness)
}

func TestRequestPreemptsThink(t *testing.T) {
	r, rec := newTestRing(t, nil)
	r.SetPattern(pattern.KindCustom, blue, white)

	r.Think(time.Millisecond)
	waitFrames(t, rec, 6)

	r.Listen()
	waitLast(t, rec, model.Fill(blue))
	n := settled(rec)
	assert.Equal(t, n, rec.Len())
	last, _ := rec.Last()
	assert.Equal(t, model.Fill(blue), last.Frame)
}

func TestWaitIsThink(t *testing.T) {
	r, rec := newTestRing(t, nil)
	r.SetPattern(pattern.KindCustom, blue, white)
	rec.Reset()

	r.Wait(0)
	waitFrames(t, rec, 3)
	r.Off()
	waitLast(t, rec, model.Frame{})

	shown := rec.Shown()
	first := model.Fill(blue)
	first[0] = white
	assert.Equal(t, first, shown[0].Frame)
	assert.Equal(t, first.Rotate(1), shown[1].Frame)
}

func TestSpeakThenOff(t *testing.T) {
	r, rec := newTestRing(t, nil)
	r.SetPattern(pattern.KindCustom, blue, white)
	r.Speak(time.Millisecond)
	waitFrames(t, rec, 5)

	r.Off()
	waitLast(t, rec, model.Frame{})
	settled(rec)
	last, _ := rec.Last()
	assert.True(t, last.Frame.IsOff())
}

func TestQueuedBurstSkipsStaleLoops(t *testing.T) {
	r, rec := newTestRing(t, nil)
	r.SetPattern(pattern.KindCustom, blue, white)
	r.Listen()
	r.Think(time.Millisecond)
	r.Speak(time.Millisecond)
	r.Off()

	waitLast(t, rec, model.Frame{})
	settled(rec)
	last, _ := rec.Last()
	assert.True(t, last.Frame.IsOff())
}

func TestJobsRunInOrder(t *testing.T) {
	r, rec := newTestRing(t, doa.Static(30))
	r.SetPattern(pattern.KindCustom, blue, white)
	rec.Reset()

	r.Listen()
	r.Wakeup()
	r.Off()
	waitFrames(t, rec, 3)

	woke := model.Fill(blue)
	woke[1] = white
	shown := rec.Shown()
	assert.Equal(t, model.Fill(blue), shown[0].Frame)
	assert.Equal(t, woke, shown[1].Frame)
	assert.Equal(t, model.Frame{}, shown[2].Frame)
}

func TestSetPatternStopsLoopOnOldPattern(t *testing.T) {
	r, rec := newTestRing(t, nil)
	r.SetPattern(pattern.KindCustom, blue, white)
	r.Think(time.Millisecond)
	waitFrames(t, rec, 4)

	r.SetPattern(pattern.KindGoogle, model.Black, model.Black)
	n := settled(rec)

	r.Wakeup()
	waitFrames(t, rec, n+5)
	settled(rec)
	last, _ := rec.Last()
	assert.False(t, last.Frame.IsOff())
	assert.Equal(t, model.RGB{R: 200}, last.Frame[6])
}

func TestUnknownPatternFallsBackToCustom(t *testing.T) {
	r, rec := newTestRing(t, nil)
	r.SetPattern("sparkle", white, blue)
	r.Listen()
	waitLast(t, rec, model.Fill(white))
}

func TestSinkFailureHaltsWorker(t *testing.T) {
	rec := spi.NewRecorder()
	boom := errors.New("spi: wiring fault")
	rec.Fail = func(n int) error {
		if n >= 3 {
			return boom
		}
		return nil
	}
	r := New(rec, nil, WithLogger(zerolog.Nop()), WithPatternOptions(pattern.WithSleep(fastSleep)))
	r.SetPattern(pattern.KindCustom, blue, white)
	assert.NoError(t, r.Err())

	r.Think(time.Millisecond)
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not halt")
	}
	require.ErrorIs(t, r.Err(), boom)
	assert.Contains(t, r.Err().Error(), "think")

	r.Listen()
	assert.Equal(t, 3, rec.Len())
	assert.ErrorIs(t, r.Close(), boom)
	assert.ErrorIs(t, r.Close(), boom)
}

func TestCloseStopsRunningLoop(t *testing.T) {
	rec := spi.NewRecorder()
	r := New(rec, nil, WithLogger(zerolog.Nop()), WithPatternOptions(pattern.WithSleep(fastSleep)))
	r.Speak(time.Millisecond)
	waitFrames(t, rec, 4)

	done := make(chan error)
	go func() { done <- r.Close() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("close blocked")
	}
	assert.ErrorIs(t, r.Close(), ErrClosed)

	n := rec.Len()
	r.Listen()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, rec.Len())
}

func TestConcurrentCallers(t *testing.T) {
	r, _ := newTestRing(t, doa.Static(120))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				switch (i + j) % 6 {
				case 0:
					r.SetPattern(pattern.KindGoogle, model.Black, model.Black)
				case 1:
					r.SetPattern(pattern.KindCustom, blue, white)
				case 2:
					r.Think(time.Millisecond)
				case 3:
					r.Speak(time.Millisecond)
				case 4:
					r.Wakeup()
				default:
					r.SetBrightness(j * 4)
				}
			}
		}(i)
	}
	wg.Wait()

	r.Off()
	require.Eventually(t, func() bool {
		r.q.mu.Lock()
		defer r.q.mu.Unlock()
		return len(r.q.jobs) == 0
	}, 5*time.Second, time.Millisecond)
	assert.NoError(t, r.Close())
}
