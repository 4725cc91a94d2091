package snapshot

import (
	"fmt"
	"strings"
)

// Difference is one mismatch between two snapshots, addressed by the
// pre-order index of the node in the left snapshot.
type Difference struct {
	Index int
	Field string
	Left  string
	Right string
}

func (d Difference) String() string {
	return fmt.Sprintf("node %d %s: %s != %s", d.Index, d.Field, d.Left, d.Right)
}

// CompareOpts selects what Compare ignores.
type CompareOpts struct {
	// IgnoreLaziness compares a lazy scope equal to an expanded one.
	IgnoreLaziness bool
}

// Compare walks both snapshots in pre-order and reports every mismatch.
// A length mismatch is reported once at the first missing index.
func Compare(a, b *Snapshot, opts CompareOpts) []Difference {
	var out []Difference
	n := min(len(a.Nodes), len(b.Nodes))
	for i := range n {
		out = compareNode(out, i, &a.Nodes[i], &b.Nodes[i], opts)
	}
	if len(a.Nodes) != len(b.Nodes) {
		out = append(out, Difference{
			Index: n,
			Field: "count",
			Left:  fmt.Sprint(len(a.Nodes)),
			Right: fmt.Sprint(len(b.Nodes)),
		})
	}
	return out
}

func compareNode(out []Difference, i int, l, r *Node, opts CompareOpts) []Difference {
	add := func(field string, lv, rv any) {
		out = append(out, Difference{Index: i, Field: field, Left: fmt.Sprint(lv), Right: fmt.Sprint(rv)})
	}
	if l.Kind != r.Kind {
		add("kind", l.Kind, r.Kind)
	}
	if l.Parent != r.Parent {
		add("parent", l.Parent, r.Parent)
	}
	if l.Start != r.Start || l.End != r.End {
		add("range", fmt.Sprintf("[%d-%d)", l.Start, l.End), fmt.Sprintf("[%d-%d)", r.Start, r.End))
	}
	if l.Detail != r.Detail {
		add("detail", l.Detail, r.Detail)
	}
	if l.Lookup != r.Lookup {
		add("lookup", l.Lookup, r.Lookup)
	}
	if !opts.IgnoreLaziness && l.Lazy != r.Lazy {
		add("lazy", l.Lazy, r.Lazy)
	}
	return out
}

// Format renders differences one per line, at most limit of them (0 = all).
func Format(diffs []Difference, limit int) string {
	var sb strings.Builder
	for i, d := range diffs {
		if limit > 0 && i == limit {
			fmt.Fprintf(&sb, "... %d more\n", len(diffs)-limit)
			break
		}
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
