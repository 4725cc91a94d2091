package trace

import (
	"errors"
	"io"
	"sync"
)

// RingTracer keeps the last N accepted events in memory. A long index run
// traced at debug level stays bounded; the tail is written out on Close
// when a dump writer is set.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	head   int // следующая позиция записи
	full   bool
	level  Level
	dump   io.Writer
	format Format
}

// DefaultRingSize is used when the configured size is not positive.
const DefaultRingSize = 4096

// NewRingTracer creates a ring holding capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

// DumpOnClose makes Close write the retained events to w in format.
func (t *RingTracer) DumpOnClose(w io.Writer, format Format) *RingTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dump = w
	t.format = format
	return t
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.head] = stored
	t.head++
	if t.head == len(t.events) {
		t.head = 0
		t.full = true
	}
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the retained events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	stream := NewStreamTracer(w, LevelDebug, format)
	for _, ev := range t.Snapshot() {
		data := FormatEvent(&ev, stream.format)
		if stream.format == FormatChrome && stream.count > 0 {
			stream.buf.WriteString(",\n")
		}
		stream.buf.Write(data)
		stream.count++
	}
	if stream.format == FormatChrome {
		stream.buf.WriteString("\n]}\n")
	}
	return stream.buf.Flush()
}

func (t *RingTracer) Flush() error { return nil }

// Close writes the dump, if one was requested, and closes its writer.
func (t *RingTracer) Close() error {
	t.mu.Lock()
	w, format := t.dump, t.format
	t.dump = nil
	t.mu.Unlock()
	if w == nil {
		return nil
	}
	err := t.Dump(w, format)
	if c, ok := w.(io.Closer); ok && !isStdStream(w) {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
