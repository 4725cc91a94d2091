package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"scopetree/internal/source"
)

// Cursor is a byte position in a file. Content past Limit is not lexed, so
// the file can be lexed up to an old end while appended text is pending.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32
}

// NewCursor returns a cursor over the whole content of f.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// Seek moves to off, clamped to Limit.
func (c *Cursor) Seek(off uint32) {
	c.Off = min(off, c.Limit)
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// at returns the byte i positions ahead, 0 past Limit.
func (c *Cursor) at(i uint32) byte {
	if c.Off+i >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+i]
}

// Peek читает текущий байт, 0 в конце
func (c *Cursor) Peek() byte { return c.at(0) }

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.at(0), c.at(1), true
}

// Peek3 is Peek2 for three bytes.
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.Limit {
		return 0, 0, 0, false
	}
	return c.at(0), c.at(1), c.at(2), true
}

// Bump consumes one byte and returns it, 0 at the end.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Mark запоминает позицию для SpanFrom и Reset
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom is the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
