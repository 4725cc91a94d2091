package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"

	"scopetree/internal/source"
)

// Bag collects diagnostics of one run up to a limit. It is not safe for
// concurrent use; parallel builds keep one Bag per file.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most max diagnostics; values beyond the
// uint16 range saturate.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = math.MaxUint16
		if max < 0 {
			limit = 0
		}
	}
	return &Bag{items: make([]Diagnostic, 0, min(limit, 64)), max: limit}
}

// Add appends d unless the bag is full; it reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddForced appends d past the limit, raising it by one. Used for
// bookkeeping entries such as timings that must survive a full bag.
func (b *Bag) AddForced(d Diagnostic) {
	if len(b.items) >= int(b.max) && b.max < math.MaxUint16 {
		b.max++
	}
	b.items = append(b.items, d)
}

func (b *Bag) Cap() uint16 { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Count returns the number of diagnostics at least as severe as sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.items {
		if d.Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) HasWarnings() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevWarning })
}

// Items возвращает внутренний срез: не модифицировать
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends other's diagnostics, growing the limit to fit them.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	total, err := safecast.Conv[uint16](len(b.items) + len(other.items))
	if err != nil {
		total = math.MaxUint16
	}
	b.max = max(b.max, total)
	b.items = append(b.items, other.items...)
}

// Sort orders by file, start, end, then errors before warnings, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic for every code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.Filter(func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// Filter keeps only diagnostics accepted by keep.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}
