package ast

import "scopetree/internal/source"

type PatternKind uint8

const (
	PatternNamed PatternKind = iota
	PatternAny
	PatternTuple
	PatternTyped
	PatternBinding
	PatternEnumElement
	PatternExpr
)

var patternKindNames = [...]string{
	PatternNamed:       "Named",
	PatternAny:         "Any",
	PatternTuple:       "Tuple",
	PatternTyped:       "Typed",
	PatternBinding:     "Binding",
	PatternEnumElement: "EnumElement",
	PatternExpr:        "Expr",
}

func (k PatternKind) String() string {
	if int(k) < len(patternKindNames) {
		return patternKindNames[k]
	}
	return "Unknown"
}

// Pattern is a compact record; kind-specific fields are unused by other kinds.
type Pattern struct {
	Kind PatternKind
	Span source.Span
	// Named
	Name source.StringID
	Var  DeclID
	// Tuple
	Elements []PatternID
	// Typed, Binding, EnumElement
	Sub   PatternID
	Type  TypeRef
	IsLet bool
	// Expr
	Expr ExprID
}

type Patterns struct {
	Arena *Arena[Pattern]
}

func NewPatterns(capHint uint) *Patterns {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Patterns{Arena: NewArena[Pattern](capHint)}
}

func (p *Patterns) New(pat Pattern) PatternID {
	return PatternID(p.Arena.Allocate(pat))
}

func (p *Patterns) Get(id PatternID) *Pattern {
	return p.Arena.Get(uint32(id))
}

// Walk visits id and every sub-pattern in source order.
func (p *Patterns) Walk(id PatternID, fn func(PatternID, *Pattern)) {
	pat := p.Get(id)
	if pat == nil {
		return
	}
	fn(id, pat)
	switch pat.Kind {
	case PatternTuple:
		for _, el := range pat.Elements {
			p.Walk(el, fn)
		}
	case PatternTyped, PatternBinding, PatternEnumElement:
		p.Walk(pat.Sub, fn)
	}
}

// BoundNames lists the names a pattern introduces, in source order.
func (p *Patterns) BoundNames(id PatternID) []source.StringID {
	var out []source.StringID
	p.Walk(id, func(_ PatternID, pat *Pattern) {
		if pat.Kind == PatternNamed {
			out = append(out, pat.Name)
		}
	})
	return out
}
