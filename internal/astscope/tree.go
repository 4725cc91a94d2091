package astscope

import (
	"fmt"

	"scopetree/internal/ast"
	"scopetree/internal/source"
	"scopetree/internal/trace"
)

type Options struct {
	// IncludeInactive also scopes the inactive clauses of `#if` blocks.
	IncludeInactive bool
	// Verify turns invariant violations into panics, as the
	// scopetree_debug build tag does.
	Verify bool
	Tracer trace.Tracer
}

// Tree is the lazily built scope tree of one source file. A Tree has a
// single writer; after Freeze it may be queried from several goroutines.
type Tree struct {
	b      *ast.Builder
	fs     *source.FileSet
	file   ast.FileID
	opts   Options
	checks bool
	tracer trace.Tracer

	scopes   *Scopes
	registry *Registry
	root     ScopeID
	// rootIP is where the next appended top-level element is attached.
	rootIP ScopeID
	// consumed is the number of top-level decls already turned into scopes.
	consumed int
	frozen   bool
}

// New creates the tree for file. Only the root exists until children are
// requested.
func New(b *ast.Builder, fs *source.FileSet, file ast.FileID, opts Options) (*Tree, error) {
	if b == nil {
		return nil, fmt.Errorf("astscope: nil builder")
	}
	if b.Files.Get(file) == nil {
		return nil, fmt.Errorf("astscope: unknown file %d", file)
	}
	t := &Tree{
		b:        b,
		fs:       fs,
		file:     file,
		opts:     opts,
		checks:   debugChecks || opts.Verify,
		tracer:   opts.Tracer,
		registry: NewRegistry(),
	}
	if t.tracer == nil {
		t.tracer = trace.Nop
	}
	t.reset()
	return t, nil
}

func (t *Tree) reset() {
	t.scopes = NewScopes(0)
	t.registry.Reset()
	t.root = t.scopes.New(KindSourceFile, Ref{}, NoScopeID, NoScopeID)
	t.rootIP = t.root
	t.consumed = 0
	t.frozen = false
}

// Rebuild discards every scope and starts a new construction pass.
func (t *Tree) Rebuild() {
	t.reset()
}

func (t *Tree) Root() ScopeID { return t.root }

// Builder returns the AST the tree indexes.
func (t *Tree) Builder() *ast.Builder { return t.b }

// FileSet returns the file set used to resolve positions.
func (t *Tree) FileSet() *source.FileSet { return t.fs }

// File returns the AST file the tree covers.
func (t *Tree) File() ast.FileID { return t.file }

// Registry exposes the dedup keys reserved in the current pass.
func (t *Tree) Registry() *Registry { return t.registry }

// Scope returns the scope record or nil for unknown ids.
func (t *Tree) Scope(id ScopeID) *Scope { return t.scopes.Get(id) }

// Kind returns the kind of id or KindInvalid.
func (t *Tree) Kind(id ScopeID) Kind {
	if s := t.scopes.Get(id); s != nil {
		return s.Kind
	}
	return KindInvalid
}

func (t *Tree) Parent(id ScopeID) ScopeID {
	if s := t.scopes.Get(id); s != nil {
		return s.parent
	}
	return NoScopeID
}

// Children returns the children of id, running its expansion on first
// access. The returned slice must not be modified.
func (t *Tree) Children(id ScopeID) []ScopeID {
	s := t.scopes.Get(id)
	if s == nil || s.dead {
		return nil
	}
	if s.State == NotExpanded {
		if t.frozen {
			panic(fmt.Sprintf("astscope: expanding scope %d of a frozen tree", id))
		}
		t.expandNode(id)
		s = t.scopes.Get(id)
	}
	return s.children
}

// ExpandAll forces expansion of the whole tree. Meant for tooling and tests.
func (t *Tree) ExpandAll() {
	span := trace.Begin(t.tracer, trace.ScopeFile, "expand-all", 0)
	stack := []ScopeID{t.root}
	n := 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, t.Children(id)...)
	}
	span.End(fmt.Sprintf("scopes=%d", n))
}

// Freeze expands everything, fills every range cache and forbids further
// mutation. A frozen tree is safe for concurrent queries.
func (t *Tree) Freeze() {
	t.ExpandAll()
	t.SourceRange(t.root)
	t.frozen = true
}

func (t *Tree) Frozen() bool { return t.frozen }

// Descendants counts live scopes below id that exist so far.
func (t *Tree) Descendants(id ScopeID) int {
	s := t.scopes.Get(id)
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.children {
		n += 1 + t.Descendants(c)
	}
	return n
}

// Live counts scopes that were not discarded.
func (t *Tree) Live() int {
	n := 0
	for i := range t.scopes.data[1:] {
		if !t.scopes.data[i+1].dead {
			n++
		}
	}
	return n
}

// expandNode runs the expansion rule of id once.
func (t *Tree) expandNode(id ScopeID) InsertionPoint {
	s := t.scopes.Get(id)
	if s.State == Expanded {
		return stay(id)
	}
	s.State = Expanded
	kind := s.Kind
	span := trace.Begin(t.tracer, trace.ScopeNode, "expand "+kind.String(), 0)
	ip := t.expand(id)
	s = t.scopes.Get(id)
	s.fingerprint = t.liveFingerprint(id)
	t.invalidate(id)
	span.End(fmt.Sprintf("#%d children=%d", id, len(s.children)))
	return ip
}

// newScope allocates a scope and appends it to parent's children.
func (t *Tree) newScope(kind Kind, ref Ref, parent, provider ScopeID) ScopeID {
	id := t.scopes.New(kind, ref, parent, provider)
	t.attach(parent, id)
	return id
}

// newChain allocates a scope that its parent's expansion owns outright.
// Chain scopes are born expanded: the caller fills in their children.
func (t *Tree) newChain(kind Kind, ref Ref, parent ScopeID) ScopeID {
	id := t.newScope(kind, ref, parent, parent)
	t.scopes.Get(id).State = Expanded
	return id
}

// attach links child as the last child of parent, checking sibling order.
func (t *Tree) attach(parent, child ScopeID) {
	p := t.scopes.Get(parent)
	if n := len(p.children); n > 0 {
		prev := p.children[n-1]
		pr, cr := t.SourceRange(prev), t.ownRange(child)
		if pr.IsValid() && cr.IsValid() && pr.End > cr.Start {
			t.violate(invariantf(ErrChildOrder, parent, "child %d %v starts inside %d %v", child, cr, prev, pr))
		}
		p = t.scopes.Get(parent)
	}
	p.children = append(p.children, child)
	c := t.scopes.Get(child)
	c.parent = parent
	if c.provider != parent {
		p.ancestorChildren++
	}
	t.invalidate(parent)
}

// widen folds a construct without its own scope into id's ignored range.
func (t *Tree) widen(id ScopeID, sp source.Span) {
	if !sp.IsValid() {
		return
	}
	s := t.scopes.Get(id)
	if s.hasIgnored {
		s.ignored = s.ignored.Cover(sp)
	} else {
		s.ignored, s.hasIgnored = sp, true
	}
	t.invalidate(id)
}

// reserve dry-runs the dedup key of a candidate scope.
func (t *Tree) reserve(kind Kind, ref ast.Referent) (Key, bool) {
	key := Key{Kind: kind, Referent: ref}
	if !ref.IsValid() {
		return key, true
	}
	if !t.registry.TryReserve(key) {
		trace.Point(t.tracer, trace.ScopeNode, "dedup", fmt.Sprintf("%s %s", kind, ref))
		return key, false
	}
	return key, true
}

// newCandidate creates a scope for a candidate element unless its referent
// was already scoped during this pass.
func (t *Tree) newCandidate(kind Kind, ref Ref, referent ast.Referent, ip, organic ScopeID) (ScopeID, bool) {
	key, ok := t.reserve(kind, referent)
	if !ok {
		return NoScopeID, false
	}
	id := t.newScope(kind, ref, ip, organic)
	s := t.scopes.Get(id)
	s.key, s.hasKey = key, referent.IsValid()
	return id, true
}
