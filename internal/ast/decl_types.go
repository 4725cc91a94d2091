package ast

import "scopetree/internal/source"

type FuncDecl struct {
	Name     source.StringID
	NameSpan source.Span
	IsInit   bool
	Static   bool
	// Generics are DeclGenericParam decls written in `<...>`.
	Generics    []DeclID
	GenericSpan source.Span
	Params      []DeclID
	ParamsSpan  source.Span // от '(' до ')'
	Throws      bool
	Result      TypeRef
	Body        StmtID // NoStmtID for protocol requirements and delayed bodies
	// BodySpan covers the body braces even when parsing of the body was
	// delayed; Body stays NoStmtID until ParseDelayedBody runs.
	BodySpan    source.Span
	BodyDelayed bool
}

// HasBody reports whether the function was written with braces.
func (f *FuncDecl) HasBody() bool { return f.BodySpan.IsValid() }

type PatternEntry struct {
	Pattern       PatternID
	Init          ExprID // NoExprID if the entry has no `= expr`
	EqualSpan     source.Span
	Accessors     []DeclID
	AccessorsSpan source.Span // от '{' до '}'
	Span          source.Span
}

// PatternBindingDecl is a `var`/`let` declaration with one or more entries.
type PatternBindingDecl struct {
	IsLet   bool
	Static  bool
	Entries []PatternEntry
	// Vars are the DeclVar decls emitted right after this binding.
	Vars []DeclID
}

type VarDecl struct {
	Name     source.StringID
	NameSpan source.Span
	IsLet    bool
	Binding  DeclID // owning pattern binding, NoDeclID for pattern vars in conditions
	Pattern  PatternID
}

type ParamDecl struct {
	Label     source.StringID
	Name      source.StringID
	NameSpan  source.Span
	Type      TypeRef
	Default   ExprID
	Variadic  bool
	InClosure bool
}

type GenericParamDecl struct {
	Name       source.StringID
	NameSpan   source.Span
	Constraint TypeRef
}

type NominalKind uint8

const (
	NominalStruct NominalKind = iota
	NominalClass
	NominalEnum
	NominalProtocol
)

func (k NominalKind) String() string {
	switch k {
	case NominalStruct:
		return "struct"
	case NominalClass:
		return "class"
	case NominalEnum:
		return "enum"
	case NominalProtocol:
		return "protocol"
	default:
		return "nominal"
	}
}

type NominalDecl struct {
	Kind        NominalKind
	Name        source.StringID
	NameSpan    source.Span
	Generics    []DeclID
	GenericSpan source.Span
	Inherits    []TypeRef
	Members     []DeclID
	BodySpan    source.Span // от '{' до '}'
}

type ExtensionDecl struct {
	Extended TypeRef
	Inherits []TypeRef
	Members  []DeclID
	BodySpan source.Span
}

type AccessorKind uint8

const (
	AccessorGet AccessorKind = iota
	AccessorSet
	AccessorWillSet
	AccessorDidSet
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorGet:
		return "get"
	case AccessorSet:
		return "set"
	case AccessorWillSet:
		return "willSet"
	case AccessorDidSet:
		return "didSet"
	default:
		return "accessor"
	}
}

type AccessorDecl struct {
	Kind AccessorKind
	// ParamName is the explicit `set(v)` name; NoStringID means the implicit
	// newValue/oldValue.
	ParamName source.StringID
	Body      StmtID
}

type TopLevelCodeDecl struct {
	Body StmtID
}

type IfConfigClause struct {
	// Cond is NoExprID for `#else`.
	Cond     ExprID
	Active   bool
	Elements []Element
	Span     source.Span
}

type IfConfigDecl struct {
	Clauses []IfConfigClause
}

type ImportDecl struct {
	Path []source.StringID
}

type TypeAliasDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Generics []DeclID
	Type     TypeRef
}

type EnumElement struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []DeclID
}

type EnumCaseDecl struct {
	Elements []EnumElement
}
