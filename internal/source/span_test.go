package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "nested span keeps outer",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "invalid receiver takes other",
			a:        NoSpan,
			b:        Span{File: 1, Start: 3, End: 4},
			expected: Span{File: 1, Start: 3, End: 4},
		},
		{
			name:     "invalid other is ignored",
			a:        Span{File: 1, Start: 3, End: 4},
			b:        NoSpan,
			expected: Span{File: 1, Start: 3, End: 4},
		},
		{
			name:     "different files are not merged",
			a:        Span{File: 1, Start: 3, End: 4},
			b:        Span{File: 2, Start: 0, End: 9},
			expected: Span{File: 1, Start: 3, End: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Fatalf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanContainsOffset(t *testing.T) {
	sp := Span{File: 0, Start: 5, End: 10}
	for _, off := range []uint32{5, 7, 10} {
		if !sp.ContainsOffset(off) {
			t.Fatalf("expected %v to contain %d", sp, off)
		}
	}
	for _, off := range []uint32{4, 11, NoPos} {
		if sp.ContainsOffset(off) {
			t.Fatalf("expected %v not to contain %d", sp, off)
		}
	}
	if NoSpan.ContainsOffset(0) {
		t.Fatalf("invalid span must not contain anything")
	}
}

func TestSpanContainsAndBefore(t *testing.T) {
	outer := Span{Start: 0, End: 20}
	inner := Span{Start: 4, End: 20}
	if !outer.Contains(inner) {
		t.Fatalf("expected %v to contain %v", outer, inner)
	}
	if inner.Contains(outer) {
		t.Fatalf("did not expect %v to contain %v", inner, outer)
	}
	if !(Span{Start: 0, End: 4}).Before(Span{Start: 4, End: 9}) {
		t.Fatalf("abutting spans must be ordered")
	}
	if (Span{Start: 0, End: 5}).Before(Span{Start: 4, End: 9}) {
		t.Fatalf("overlapping spans must not be ordered")
	}
}

func TestSpanShift(t *testing.T) {
	sp := Span{File: 1, Start: 10, End: 20}
	if got := sp.ShiftLeft(5); got != (Span{File: 1, Start: 5, End: 15}) {
		t.Fatalf("ShiftLeft(5) = %v", got)
	}
	if got := sp.ShiftLeft(15); got != sp {
		t.Fatalf("ShiftLeft past start must return original, got %v", got)
	}
	if got := sp.ShiftRight(3); got != (Span{File: 1, Start: 13, End: 23}) {
		t.Fatalf("ShiftRight(3) = %v", got)
	}
	if got := sp.WithEnd(2); got.End != sp.Start {
		t.Fatalf("WithEnd before start must clamp, got %v", got)
	}
}
