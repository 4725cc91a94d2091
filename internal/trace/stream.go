package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// StreamTracer encodes every accepted event to a writer as it arrives.
// Output is buffered; Flush and Close push it out.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
	count  int
	closed bool
}

// NewStreamTracer creates a tracer writing to w. FormatAuto means text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	t := &StreamTracer{out: w, buf: bufio.NewWriter(w), level: level, format: format}
	if format == FormatChrome {
		t.buf.WriteString("{\"traceEvents\":[\n")
	}
	return t
}

// Emit encodes ev; write errors are dropped so tracing never fails a build.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.format == FormatChrome && t.count > 0 {
		t.buf.WriteString(",\n")
	}
	t.buf.Write(data)
	t.count++
}

// Flush writes the buffered events.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

// Close terminates a Chrome array, flushes and closes the writer when it is
// an io.Closer other than stderr.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.format == FormatChrome {
		t.buf.WriteString("\n]}\n")
	}
	err := t.buf.Flush()
	if c, ok := t.out.(io.Closer); ok && !isStdStream(t.out) {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
