package live

import (
	"sync"
	"time"

	"github.com/medisage-ai/medisage-go/pkg/core/audio"
)

// Sink is the minimal abstraction over the speaker. PlayAt schedules a buffer
// to start at the given time; StopAll cancels everything in flight.
type Sink interface {
	PlayAt(buf audio.Buffer, at time.Time)
	StopAll()
}

// Scheduler assigns start times to inbound playback buffers so they play
// back-to-back with no gap and no overlap: each buffer starts at
// max(now, previous buffer's end). An interruption clears everything and
// resets the next start to "now".
type Scheduler struct {
	mu        sync.Mutex
	sink      Sink
	now       func() time.Time
	nextStart time.Time
}

// NewScheduler creates a scheduler backed by the given sink.
func NewScheduler(sink Sink) *Scheduler {
	return &Scheduler{
		sink: sink,
		now:  time.Now,
	}
}

// Schedule enqueues a buffer and returns its computed start time.
func (p *Scheduler) Schedule(buf audio.Buffer) time.Time {
	p.mu.Lock()
	start := p.now()
	if p.nextStart.After(start) {
		start = p.nextStart
	}
	p.nextStart = start.Add(buf.Duration())
	p.mu.Unlock()

	p.sink.PlayAt(buf, start)
	return start
}

// Flush stops all in-flight buffers and resets the next-start marker so the
// next scheduled buffer begins immediately.
func (p *Scheduler) Flush() {
	p.mu.Lock()
	p.nextStart = time.Time{}
	p.mu.Unlock()

	p.sink.StopAll()
}
