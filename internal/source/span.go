package source

import (
	"fmt"
	"math"
)

// NoPos marks an absent byte offset.
const NoPos uint32 = math.MaxUint32

// NoSpan is the span of constructs that have no location (implicit nodes).
var NoSpan = Span{Start: NoPos, End: NoPos}

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// PointSpan returns an empty span positioned at off.
func PointSpan(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}

// IsValid reports whether both ends are known and ordered.
func (s Span) IsValid() bool {
	return s.Start != NoPos && s.End != NoPos && s.Start <= s.End
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	if !s.IsValid() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("%d:<invalid>", s.File)
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Invalid operands are ignored; spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if !other.IsValid() {
		return s
	}
	if !s.IsValid() {
		return other
	}
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	if !s.IsValid() || !other.IsValid() || s.File != other.File {
		return false
	}
	return s.Start <= other.Start && other.End <= s.End
}

// ContainsOffset reports whether off lies within s. The end offset counts as
// inside so that a position right after the last token still belongs to it.
func (s Span) ContainsOffset(off uint32) bool {
	if !s.IsValid() || off == NoPos {
		return false
	}
	return s.Start <= off && off <= s.End
}

// Before reports whether s ends no later than other starts.
func (s Span) Before(other Span) bool {
	return s.End <= other.Start
}

// WithEnd returns s with the end moved to end, never before Start.
func (s Span) WithEnd(end uint32) Span {
	if end < s.Start {
		end = s.Start
	}
	s.End = end
	return s
}

func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}
