// Package snapshot captures a scope tree as plain data so that it can be
// serialized with msgpack, cached on disk and compared across rebuilds.
package snapshot

import (
	"crypto/sha256"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"scopetree/internal/astscope"
	"scopetree/internal/source"
)

// SchemaVersion must be bumped whenever Snapshot or Node change shape.
const SchemaVersion uint16 = 1

// Digest is a SHA-256 value.
type Digest [sha256.Size]byte

// Node is one scope in pre-order. Parent and Lookup are pre-order indexes
// (-1 for none) so that two snapshots of equal trees compare equal even when
// arena ids differ.
type Node struct {
	Kind      string `msgpack:"k"`
	Parent    int32  `msgpack:"p"`
	Depth     uint16 `msgpack:"d"`
	Start     uint32 `msgpack:"s"`
	End       uint32 `msgpack:"e"`
	StartLine uint32 `msgpack:"sl"`
	StartCol  uint32 `msgpack:"sc"`
	EndLine   uint32 `msgpack:"el"`
	EndCol    uint32 `msgpack:"ec"`
	Detail    string `msgpack:"x,omitempty"`
	Lazy      bool   `msgpack:"z,omitempty"`
	Lookup    int32  `msgpack:"l"`
}

// Snapshot is the serializable form of a tree.
type Snapshot struct {
	Schema uint16 `msgpack:"schema"`
	Path   string `msgpack:"path"`
	Hash   Digest `msgpack:"hash"`
	Nodes  []Node `msgpack:"nodes"`
}

// Take records every scope built so far; nothing is expanded.
func Take(t *astscope.Tree) *Snapshot {
	s := &Snapshot{Schema: SchemaVersion}
	if af := t.Builder().Files.Get(t.File()); af != nil {
		if f := t.FileSet().Get(af.Source); f != nil {
			s.Path = f.Path
			s.Hash = f.Hash
		}
	}
	index := make(map[astscope.ScopeID]int32)
	var lookups []astscope.ScopeID
	var walk func(id astscope.ScopeID, parent int32, depth int)
	walk = func(id astscope.ScopeID, parent int32, depth int) {
		sc := t.Scope(id)
		if sc == nil {
			return
		}
		pos := toIndex(len(s.Nodes))
		index[id] = pos
		s.Nodes = append(s.Nodes, node(t, id, sc, parent, depth))
		lookups = append(lookups, sc.LookupParent())
		for _, c := range sc.Built() {
			walk(c, pos, depth+1)
		}
	}
	walk(t.Root(), -1, 0)
	for i, lp := range lookups {
		if !lp.IsValid() {
			continue
		}
		if at, ok := index[lp]; ok {
			s.Nodes[i].Lookup = at
		}
	}
	return s
}

func node(t *astscope.Tree, id astscope.ScopeID, sc *astscope.Scope, parent int32, depth int) Node {
	d, err := safecast.Conv[uint16](depth)
	if err != nil {
		panic(fmt.Errorf("snapshot depth overflow: %w", err))
	}
	sp := t.SourceRange(id)
	n := Node{
		Kind:   sc.Kind.String(),
		Parent: parent,
		Depth:  d,
		Start:  sp.Start,
		End:    sp.End,
		Lazy:   sc.State == astscope.NotExpanded,
		Lookup: -1,
	}
	if sc.Kind != astscope.KindDiversion {
		n.Detail = t.Describe(id)
	}
	if sp.IsValid() && t.FileSet() != nil {
		start, end := t.FileSet().Resolve(sp)
		n.StartLine, n.StartCol = start.Line, start.Col
		n.EndLine, n.EndCol = end.Line, end.Col
	}
	return n
}

func toIndex(n int) int32 {
	v, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Errorf("snapshot size overflow: %w", err))
	}
	return v
}

// Encode writes s as msgpack.
func Encode(w io.Writer, s *Snapshot) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return nil
}

// Decode reads a snapshot and rejects foreign schema versions.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("snapshot: schema %d, want %d", s.Schema, SchemaVersion)
	}
	return &s, nil
}

// Marshal is Encode into a byte slice.
func Marshal(s *Snapshot) ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return b, nil
}

// Key derives a cache key from file content and the build variant, e.g. the
// options that change tree shape.
func Key(content Digest, variant ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, v := range variant {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(v))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// FileKey is Key over a loaded file's hash.
func FileKey(f *source.File, variant ...string) Digest {
	return Key(f.Hash, variant...)
}
