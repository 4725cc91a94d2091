package astscope

import (
	"fmt"

	"fortio.org/safecast"

	"scopetree/internal/ast"
	"scopetree/internal/source"
)

// State tracks whether a scope's children were produced yet.
type State uint8

const (
	NotExpanded State = iota
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "not-expanded"
}

// Ref is the non-owning link from a scope to the construct it covers.
// Only the fields meaningful for the scope's Kind are set; Index selects a
// condition, entry or generic parameter within the referenced node.
type Ref struct {
	Decl    ast.DeclID
	Stmt    ast.StmtID
	Expr    ast.ExprID
	Pattern ast.PatternID
	Attr    ast.AttrID
	Index   int
}

// Scope is one node of the lexical scope tree.
type Scope struct {
	Kind  Kind
	Ref   Ref
	State State

	parent   ScopeID
	children []ScopeID // по возрастанию начала диапазона
	// provider is the scope whose expansion created this one. It differs
	// from parent for scopes attached below a continuation point.
	provider ScopeID

	rangeCache source.Span
	cached     bool
	ignored    source.Span
	hasIgnored bool

	fingerprint uint32
	// ancestorChildren counts trailing children attached by an ancestor's
	// continuation rather than by this scope's own expansion.
	ancestorChildren int

	// lookupParent is set on diversions only.
	lookupParent ScopeID

	key    Key
	hasKey bool
	dead   bool
}

// InsertionPoint is the result of expanding a scope: the scope under which
// the next sibling candidate of the enclosing list must be attached.
type InsertionPoint struct {
	Scope ScopeID
	// Continues is set when Scope differs from the expanded scope and later
	// siblings must descend through it.
	Continues bool
}

func stay(id ScopeID) InsertionPoint { return InsertionPoint{Scope: id} }

// Scopes stores all allocated scopes in a slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 64
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a scope. The returned pointer of any earlier Get may be
// invalidated by this call.
func (s *Scopes) New(kind Kind, ref Ref, parent, provider ScopeID) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	s.data = append(s.data, Scope{
		Kind:     kind,
		Ref:      ref,
		parent:   parent,
		provider: provider,
	})
	return ScopeID(value)
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel, dead ones included.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Parent returns the structural parent.
func (sc *Scope) Parent() ScopeID { return sc.parent }

// Provider returns the scope whose expansion created this one.
func (sc *Scope) Provider() ScopeID { return sc.provider }

// Dead reports whether the scope was discarded by a re-expansion.
func (sc *Scope) Dead() bool { return sc.dead }

// AncestorChildren reports how many trailing children came from an
// ancestor's continuation.
func (sc *Scope) AncestorChildren() int { return sc.ancestorChildren }

// Ignored returns the accumulated range of constructs folded into this scope.
func (sc *Scope) Ignored() (source.Span, bool) { return sc.ignored, sc.hasIgnored }

// Built returns the children attached so far without expanding the scope.
func (sc *Scope) Built() []ScopeID { return sc.children }

// Fingerprint returns the currency value recorded at the last expansion.
func (sc *Scope) Fingerprint() uint32 { return sc.fingerprint }

// LookupParent returns the lookup link of a diversion, NoScopeID otherwise.
func (sc *Scope) LookupParent() ScopeID { return sc.lookupParent }
