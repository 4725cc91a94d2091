package astscope

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"scopetree/internal/ast"
	"scopetree/internal/source"
	"scopetree/internal/trace"
)

// ErrFrozen is returned by mutating calls on a frozen tree.
var ErrFrozen = errors.New("astscope: tree is frozen")

// liveFingerprint summarizes the AST state a scope's expansion depends on.
func (t *Tree) liveFingerprint(id ScopeID) uint32 {
	s := t.scopes.Get(id)
	switch s.Kind {
	case KindSourceFile:
		if f := t.b.Files.Get(t.file); f != nil {
			return count(len(f.Decls))
		}
	case KindFunctionBody:
		if fn, ok := t.b.Decls.Func(s.Ref.Decl); ok {
			return uint32(fn.Body)
		}
	case KindTypeBody:
		return count(len(t.members(s.Ref.Decl)))
	case KindBraceStmt:
		if br, ok := t.b.Stmts.Brace(s.Ref.Stmt); ok {
			return count(len(br.Elements))
		}
	}
	return 0
}

func count(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("astscope: count overflow: %w", err))
	}
	return v
}

// IsCurrent reports whether the children of id still match the AST. Scopes
// that were never expanded are always current.
func (t *Tree) IsCurrent(id ScopeID) bool {
	s := t.scopes.Get(id)
	if s == nil || s.dead || s.State == NotExpanded {
		return true
	}
	if s.Kind == KindSourceFile {
		f := t.b.Files.Get(t.file)
		return f == nil || t.consumed == len(f.Decls)
	}
	return s.fingerprint == t.liveFingerprint(id)
}

// Reexpand brings id up to date with the AST. The root only ever appends:
// new top-level elements continue from where the last one left off. Any
// other scope drops its subtree and expands again; subtrees that an
// ancestor's continuation attached below it are kept and re-attached at the
// new insertion point.
func (t *Tree) Reexpand(id ScopeID) error {
	if t.frozen {
		return ErrFrozen
	}
	s := t.scopes.Get(id)
	if s == nil || s.dead {
		return fmt.Errorf("astscope: unknown scope %d", id)
	}
	if s.State == NotExpanded || t.IsCurrent(id) {
		return nil
	}
	if id == t.root {
		t.appendRoot()
		return nil
	}
	return t.rebuildSubtree(id)
}

func (t *Tree) appendRoot() {
	f := t.b.Files.Get(t.file)
	fresh := f.Decls[t.consumed:]
	span := trace.Begin(t.tracer, trace.ScopeNode, "reexpand SourceFile", 0)
	t.invalidate(t.root)
	t.rootIP = t.addSiblings(t.rootIP, t.root, declElements(fresh), false)
	t.consumed = len(f.Decls)
	t.scopes.Get(t.root).fingerprint = t.liveFingerprint(t.root)
	span.End(fmt.Sprintf("appended=%d", len(fresh)))
}

func (t *Tree) rebuildSubtree(id ScopeID) error {
	span := trace.Begin(t.tracer, trace.ScopeNode, "reexpand "+t.Kind(id).String(), 0)
	before := t.Descendants(id)

	inside := map[ScopeID]bool{id: true}
	var rescued, discard []ScopeID
	var walk func(ScopeID)
	walk = func(n ScopeID) {
		for _, c := range t.scopes.Get(n).children {
			if !inside[t.scopes.Get(c).provider] {
				rescued = append(rescued, c)
				continue
			}
			inside[c] = true
			discard = append(discard, c)
			walk(c)
		}
	}
	walk(id)

	for _, d := range discard {
		ds := t.scopes.Get(d)
		ds.dead = true
		ds.children = nil
		if ds.hasKey {
			t.registry.Release(ds.key)
			ds.hasKey = false
		}
	}
	s := t.scopes.Get(id)
	s.children = nil
	s.ancestorChildren = 0
	s.ignored, s.hasIgnored = source.NoSpan, false
	s.State = NotExpanded
	t.invalidate(id)

	ip := t.expandNode(id)
	at := id
	if ip.Continues {
		at = ip.Scope
	}
	for _, r := range rescued {
		t.attach(at, r)
	}
	if len(rescued) > 0 {
		trace.Point(t.tracer, trace.ScopeNode, "rescue", fmt.Sprintf("#%d kept=%d under #%d", id, len(rescued), at))
	}
	if t.scopes.Get(t.rootIP).dead {
		t.rootIP = at
	}

	after := t.Descendants(id)
	span.End(fmt.Sprintf("#%d descendants %d -> %d", id, before, after))
	if after < before {
		err := invariantf(ErrTreeShrank, id, "descendants %d -> %d", before, after)
		t.violate(err)
		return err
	}
	return nil
}

// AppendTopLevelAndReexpand adds decls to the end of the file and extends
// the tree with them.
func (t *Tree) AppendTopLevelAndReexpand(decls ...ast.DeclID) error {
	if t.frozen {
		return ErrFrozen
	}
	if len(decls) > 0 {
		t.b.AppendTopLevel(t.file, decls...)
	}
	s := t.scopes.Get(t.root)
	s.cached = false
	if s.State == NotExpanded {
		return nil
	}
	return t.Reexpand(t.root)
}
