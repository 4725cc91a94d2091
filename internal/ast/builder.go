package ast

import (
	"fmt"

	"scopetree/internal/source"
)

type Hints struct{ Files, Decls, Stmts, Exprs uint }

// Builder owns every arena of one AST. Nodes are only ever appended, so ids
// stay valid for the builder's lifetime.
type Builder struct {
	Files    *Files
	Decls    *Decls
	Stmts    *Stmts
	Exprs    *Exprs
	Patterns *Patterns
	Attrs    *Attrs
	Strings  *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 3
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:    NewFiles(hints.Files),
		Decls:    NewDecls(hints.Decls),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Patterns: NewPatterns(hints.Decls),
		Attrs:    NewAttrs(0),
		Strings:  strings,
	}
}

func (b *Builder) NewFile(src source.FileID, sp source.Span) FileID {
	return b.Files.New(src, sp)
}

// AppendTopLevel adds decls to the end of the file and widens its span.
func (b *Builder) AppendTopLevel(file FileID, decls ...DeclID) {
	f := b.Files.Get(file)
	if f == nil {
		panic(fmt.Sprintf("ast: unknown file %d", file))
	}
	f.Decls = append(f.Decls, decls...)
	for _, d := range decls {
		f.Span = f.Span.Cover(b.Decls.Get(d).Span)
	}
}

// SetFuncBody installs a parsed body into a function whose body was delayed.
func (b *Builder) SetFuncBody(decl DeclID, body StmtID) error {
	fn, ok := b.Decls.Func(decl)
	if !ok {
		return fmt.Errorf("ast: decl %d is not a function", decl)
	}
	fn.Body = body
	fn.BodyDelayed = false
	return nil
}

// Name returns interned text or "" for NoStringID.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// ElementSpan returns the written range of an element; implicit decls
// report an invalid span.
func (b *Builder) ElementSpan(el Element) source.Span {
	switch el.Class {
	case ElemDecl:
		if d := b.Decls.Get(DeclID(el.ID)); d != nil && !d.Implicit {
			return d.Span
		}
	case ElemStmt:
		if s := b.Stmts.Get(StmtID(el.ID)); s != nil {
			return s.Span
		}
	case ElemExpr:
		if e := b.Exprs.Get(ExprID(el.ID)); e != nil {
			return e.Span
		}
	}
	return source.NoSpan
}

// ElementReferent maps an element to its node identity.
func (b *Builder) ElementReferent(el Element) Referent {
	switch el.Class {
	case ElemDecl:
		return DeclReferent(DeclID(el.ID))
	case ElemStmt:
		return StmtReferent(StmtID(el.ID))
	case ElemExpr:
		return ExprReferent(ExprID(el.ID))
	default:
		return Referent{}
	}
}

// DescribeElement renders a short kind label, used by dumps and traces.
func (b *Builder) DescribeElement(el Element) string {
	switch el.Class {
	case ElemDecl:
		if d := b.Decls.Get(DeclID(el.ID)); d != nil {
			return d.Kind.String()
		}
	case ElemStmt:
		if s := b.Stmts.Get(StmtID(el.ID)); s != nil {
			return s.Kind.String()
		}
	case ElemExpr:
		if e := b.Exprs.Get(ExprID(el.ID)); e != nil {
			return e.Kind.String()
		}
	}
	return "?"
}
