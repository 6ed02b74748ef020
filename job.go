package pixelring

import (
	"fmt"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-pixelring/pattern"
)

type jobKind int

const (
	jobWakeup jobKind = iota
	jobListen
	jobThink
	jobSpeak
	jobOff
)

func (k jobKind) String() string {
	switch k {
	case jobWakeup:
		return "wakeup"
	case jobListen:
		return "listen"
	case jobThink:
		return "think"
	case jobSpeak:
		return "speak"
	case jobOff:
		return "off"
	default:
		return fmt.Sprintf("job(%d)", int(k))
	}
}

// job is one deferred pattern call and its argument.
type job struct {
	kind      jobKind
	direction float64
	speed     time.Duration
}

func (j job) run(p pattern.Pattern) error {
	switch j.kind {
	case jobWakeup:
		return p.Wakeup(j.direction)
	case jobListen:
		return p.Listen()
	case jobThink:
		return p.Think(j.speed)
	case jobSpeak:
		return p.Speak(j.speed)
	case jobOff:
		return p.Off()
	default:
		panic("pixelring: unknown " + j.kind.String())
	}
}

// jobQueue is an unbounded FIFO. The mutex also guards the current pattern
// so that raising its stop flag and publishing the job happen together.
type jobQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []job
	closed bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// pop blocks until a job is available. ok is false once the queue is closed.
// Must be called with mu held.
func (q *jobQueue) pop() (j job, ok bool) {
	for len(q.jobs) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return job{}, false
	}
	j = q.jobs[0]
	q.jobs[0] = job{}
	q.jobs = q.jobs[1:]
	return j, true
}

// Must be called with mu held.
func (q *jobQueue) push(j job) {
	q.jobs = append(q.jobs, j)
	q.cond.Signal()
}
