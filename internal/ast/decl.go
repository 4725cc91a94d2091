package ast

import (
	"scopetree/internal/source"
)

type DeclKind uint8

const (
	DeclFunc DeclKind = iota
	DeclPatternBinding
	DeclVar
	DeclParam
	DeclGenericParam
	DeclNominal
	DeclExtension
	DeclAccessor
	DeclTopLevelCode
	DeclIfConfig
	DeclImport
	DeclTypeAlias
	DeclEnumCase
)

var declKindNames = [...]string{
	DeclFunc:           "Func",
	DeclPatternBinding: "PatternBinding",
	DeclVar:            "Var",
	DeclParam:          "Param",
	DeclGenericParam:   "GenericParam",
	DeclNominal:        "Nominal",
	DeclExtension:      "Extension",
	DeclAccessor:       "Accessor",
	DeclTopLevelCode:   "TopLevelCode",
	DeclIfConfig:       "IfConfig",
	DeclImport:         "Import",
	DeclTypeAlias:      "TypeAlias",
	DeclEnumCase:       "EnumCase",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "Unknown"
}

type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Payload PayloadID
	Attrs   []AttrID
	// Implicit decls are synthesized by the parser and have no written text.
	Implicit bool
}

type Decls struct {
	Arena         *Arena[Decl]
	Funcs         *Arena[FuncDecl]
	Bindings      *Arena[PatternBindingDecl]
	Vars          *Arena[VarDecl]
	Params        *Arena[ParamDecl]
	GenericParams *Arena[GenericParamDecl]
	Nominals      *Arena[NominalDecl]
	Extensions    *Arena[ExtensionDecl]
	Accessors     *Arena[AccessorDecl]
	TopLevelCodes *Arena[TopLevelCodeDecl]
	IfConfigs     *Arena[IfConfigDecl]
	Imports       *Arena[ImportDecl]
	TypeAliases   *Arena[TypeAliasDecl]
	EnumCases     *Arena[EnumCaseDecl]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Decls{
		Arena:         NewArena[Decl](capHint),
		Funcs:         NewArena[FuncDecl](capHint),
		Bindings:      NewArena[PatternBindingDecl](capHint),
		Vars:          NewArena[VarDecl](capHint),
		Params:        NewArena[ParamDecl](capHint),
		GenericParams: NewArena[GenericParamDecl](capHint),
		Nominals:      NewArena[NominalDecl](capHint),
		Extensions:    NewArena[ExtensionDecl](capHint),
		Accessors:     NewArena[AccessorDecl](capHint),
		TopLevelCodes: NewArena[TopLevelCodeDecl](capHint),
		IfConfigs:     NewArena[IfConfigDecl](capHint),
		Imports:       NewArena[ImportDecl](capHint),
		TypeAliases:   NewArena[TypeAliasDecl](capHint),
		EnumCases:     NewArena[EnumCaseDecl](capHint),
	}
}

func (d *Decls) new(kind DeclKind, span source.Span, payload PayloadID) DeclID {
	return DeclID(d.Arena.Allocate(Decl{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the declaration with the given ID.
func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

func (d *Decls) payload(id DeclID, kind DeclKind) (PayloadID, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != kind {
		return NoPayloadID, false
	}
	return decl.Payload, true
}

// NewFunc creates a function or initializer declaration.
func (d *Decls) NewFunc(span source.Span, data FuncDecl) DeclID {
	return d.new(DeclFunc, span, PayloadID(d.Funcs.Allocate(data)))
}

// Func returns the function payload for the given declaration.
func (d *Decls) Func(id DeclID) (*FuncDecl, bool) {
	p, ok := d.payload(id, DeclFunc)
	if !ok {
		return nil, false
	}
	return d.Funcs.Get(uint32(p)), true
}

// NewPatternBinding creates a `var`/`let` declaration.
func (d *Decls) NewPatternBinding(span source.Span, data PatternBindingDecl) DeclID {
	return d.new(DeclPatternBinding, span, PayloadID(d.Bindings.Allocate(data)))
}

func (d *Decls) PatternBinding(id DeclID) (*PatternBindingDecl, bool) {
	p, ok := d.payload(id, DeclPatternBinding)
	if !ok {
		return nil, false
	}
	return d.Bindings.Get(uint32(p)), true
}

// NewVar creates the declaration of one bound name.
func (d *Decls) NewVar(span source.Span, data VarDecl) DeclID {
	return d.new(DeclVar, span, PayloadID(d.Vars.Allocate(data)))
}

func (d *Decls) Var(id DeclID) (*VarDecl, bool) {
	p, ok := d.payload(id, DeclVar)
	if !ok {
		return nil, false
	}
	return d.Vars.Get(uint32(p)), true
}

func (d *Decls) NewParam(span source.Span, data ParamDecl) DeclID {
	return d.new(DeclParam, span, PayloadID(d.Params.Allocate(data)))
}

func (d *Decls) Param(id DeclID) (*ParamDecl, bool) {
	p, ok := d.payload(id, DeclParam)
	if !ok {
		return nil, false
	}
	return d.Params.Get(uint32(p)), true
}

func (d *Decls) NewGenericParam(span source.Span, data GenericParamDecl) DeclID {
	return d.new(DeclGenericParam, span, PayloadID(d.GenericParams.Allocate(data)))
}

func (d *Decls) GenericParam(id DeclID) (*GenericParamDecl, bool) {
	p, ok := d.payload(id, DeclGenericParam)
	if !ok {
		return nil, false
	}
	return d.GenericParams.Get(uint32(p)), true
}

// NewNominal creates a struct, class, enum or protocol declaration.
func (d *Decls) NewNominal(span source.Span, data NominalDecl) DeclID {
	return d.new(DeclNominal, span, PayloadID(d.Nominals.Allocate(data)))
}

func (d *Decls) Nominal(id DeclID) (*NominalDecl, bool) {
	p, ok := d.payload(id, DeclNominal)
	if !ok {
		return nil, false
	}
	return d.Nominals.Get(uint32(p)), true
}

func (d *Decls) NewExtension(span source.Span, data ExtensionDecl) DeclID {
	return d.new(DeclExtension, span, PayloadID(d.Extensions.Allocate(data)))
}

func (d *Decls) Extension(id DeclID) (*ExtensionDecl, bool) {
	p, ok := d.payload(id, DeclExtension)
	if !ok {
		return nil, false
	}
	return d.Extensions.Get(uint32(p)), true
}

func (d *Decls) NewAccessor(span source.Span, data AccessorDecl) DeclID {
	return d.new(DeclAccessor, span, PayloadID(d.Accessors.Allocate(data)))
}

func (d *Decls) Accessor(id DeclID) (*AccessorDecl, bool) {
	p, ok := d.payload(id, DeclAccessor)
	if !ok {
		return nil, false
	}
	return d.Accessors.Get(uint32(p)), true
}

// NewTopLevelCode wraps a top-level statement list (an implicit brace).
func (d *Decls) NewTopLevelCode(span source.Span, body StmtID) DeclID {
	return d.new(DeclTopLevelCode, span, PayloadID(d.TopLevelCodes.Allocate(TopLevelCodeDecl{Body: body})))
}

func (d *Decls) TopLevelCode(id DeclID) (*TopLevelCodeDecl, bool) {
	p, ok := d.payload(id, DeclTopLevelCode)
	if !ok {
		return nil, false
	}
	return d.TopLevelCodes.Get(uint32(p)), true
}

func (d *Decls) NewIfConfig(span source.Span, clauses []IfConfigClause) DeclID {
	return d.new(DeclIfConfig, span, PayloadID(d.IfConfigs.Allocate(IfConfigDecl{Clauses: clauses})))
}

func (d *Decls) IfConfig(id DeclID) (*IfConfigDecl, bool) {
	p, ok := d.payload(id, DeclIfConfig)
	if !ok {
		return nil, false
	}
	return d.IfConfigs.Get(uint32(p)), true
}

func (d *Decls) NewImport(span source.Span, path []source.StringID) DeclID {
	return d.new(DeclImport, span, PayloadID(d.Imports.Allocate(ImportDecl{Path: path})))
}

func (d *Decls) Import(id DeclID) (*ImportDecl, bool) {
	p, ok := d.payload(id, DeclImport)
	if !ok {
		return nil, false
	}
	return d.Imports.Get(uint32(p)), true
}

func (d *Decls) NewTypeAlias(span source.Span, data TypeAliasDecl) DeclID {
	return d.new(DeclTypeAlias, span, PayloadID(d.TypeAliases.Allocate(data)))
}

func (d *Decls) TypeAlias(id DeclID) (*TypeAliasDecl, bool) {
	p, ok := d.payload(id, DeclTypeAlias)
	if !ok {
		return nil, false
	}
	return d.TypeAliases.Get(uint32(p)), true
}

func (d *Decls) NewEnumCase(span source.Span, elements []EnumElement) DeclID {
	return d.new(DeclEnumCase, span, PayloadID(d.EnumCases.Allocate(EnumCaseDecl{Elements: elements})))
}

func (d *Decls) EnumCase(id DeclID) (*EnumCaseDecl, bool) {
	p, ok := d.payload(id, DeclEnumCase)
	if !ok {
		return nil, false
	}
	return d.EnumCases.Get(uint32(p)), true
}
