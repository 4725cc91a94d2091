package ast

import "scopetree/internal/source"

type AttrKind uint8

const (
	AttrOther AttrKind = iota
	// AttrSpecialize is `@_specialize(where T == Int)`.
	AttrSpecialize
	// AttrPropertyWrapper is a custom attribute applied to a stored property.
	AttrPropertyWrapper
)

func (k AttrKind) String() string {
	switch k {
	case AttrSpecialize:
		return "specialize"
	case AttrPropertyWrapper:
		return "propertyWrapper"
	default:
		return "attr"
	}
}

// Attr описывает атрибут вида `@name(args...)`.
type Attr struct {
	Kind     AttrKind
	Name     source.StringID
	Args     []ExprID
	ArgsSpan source.Span // от '(' до ')', NoSpan без аргументов
	Span     source.Span
}

type Attrs struct {
	Arena *Arena[Attr]
}

func NewAttrs(capHint uint) *Attrs {
	if capHint == 0 {
		capHint = 1 << 5
	}
	return &Attrs{Arena: NewArena[Attr](capHint)}
}

func (a *Attrs) New(attr Attr) AttrID {
	return AttrID(a.Arena.Allocate(attr))
}

func (a *Attrs) Get(id AttrID) *Attr {
	return a.Arena.Get(uint32(id))
}
