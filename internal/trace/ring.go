package trace

import (
	"io"
	"sync"
)

const defaultRingSize = 4096

// RingTracer holds the most recent events in a fixed-size circular buffer.
// The service exposes it at /debug/trace and the CLI dumps it after a panic.
type RingTracer struct {
	level Level

	mu    sync.Mutex
	slots []Event
	next  int // slot the next event goes into
	count int // filled slots, at most len(slots)
}

// NewRingTracer keeps up to capacity events. A non-positive capacity falls
// back to 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{level: level, slots: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !admitted(t.level, ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.slots[t.next] = *ev
	t.slots[t.next].Seq = NextSeq()
	t.next = (t.next + 1) % len(t.slots)
	if t.count < len(t.slots) {
		t.count++
	}
}

// Snapshot copies the buffered events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := len(t.slots)
	first := (t.next - t.count + size) % size
	out := make([]Event, t.count)
	for i := range out {
		out[i] = t.slots[(first+i)%size]
	}
	return out
}

// Dump writes the buffered events to w, oldest first. A positive last keeps
// only that many of the newest events.
func (t *RingTracer) Dump(w io.Writer, format Format, last int) error {
	events := t.Snapshot()
	if last > 0 && len(events) > last {
		events = events[len(events)-last:]
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
