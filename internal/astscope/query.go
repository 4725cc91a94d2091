package astscope

import (
	"scopetree/internal/source"
)

// FindInnermost returns the deepest scope whose range contains the byte
// offset loc, expanding scopes on the way down. Positions outside every
// child resolve to the root.
func (t *Tree) FindInnermost(loc uint32) ScopeID {
	return t.FindInnermostFrom(t.root, loc)
}

// FindInnermostFrom descends from start. When siblings touch, the later one
// wins: a position at the end of one scope and the start of the next
// belongs to the next.
func (t *Tree) FindInnermostFrom(start ScopeID, loc uint32) ScopeID {
	cur := start
	for {
		next := NoScopeID
		for _, c := range t.Children(cur) {
			r := t.SourceRange(c)
			if r.IsValid() && r.Start > loc {
				break
			}
			if r.ContainsOffset(loc) {
				next = c
			}
		}
		if !next.IsValid() {
			return cur
		}
		cur = next
	}
}

// FindInnermostAt resolves a 1-based line and column first.
func (t *Tree) FindInnermostAt(pos source.LineCol) (ScopeID, bool) {
	f := t.b.Files.Get(t.file)
	if f == nil || t.fs == nil {
		return NoScopeID, false
	}
	sf := t.fs.Get(f.Source)
	if sf == nil {
		return NoScopeID, false
	}
	off, ok := sf.Offset(pos)
	if !ok {
		return NoScopeID, false
	}
	return t.FindInnermost(off), true
}

// LookupParent is the next scope for name lookup: the parent, except for a
// diversion, which leads back into its guard's condition chain.
func (t *Tree) LookupParent(id ScopeID) ScopeID {
	s := t.scopes.Get(id)
	if s == nil {
		return NoScopeID
	}
	if s.Kind == KindDiversion && s.lookupParent.IsValid() {
		return s.lookupParent
	}
	return s.parent
}

// LookupChain lists the scopes consulted for a lookup starting at id,
// innermost first, ending at the root.
func (t *Tree) LookupChain(id ScopeID) []ScopeID {
	var out []ScopeID
	for id.IsValid() {
		out = append(out, id)
		id = t.LookupParent(id)
	}
	return out
}
