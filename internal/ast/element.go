package ast

import "fmt"

type ElementClass uint8

const (
	ElemNone ElementClass = iota
	ElemDecl
	ElemStmt
	ElemExpr
)

// Element is an entry of a brace body or a member list: a decl, a statement
// or a bare expression.
type Element struct {
	Class ElementClass
	ID    uint32
}

func DeclElement(id DeclID) Element { return Element{Class: ElemDecl, ID: uint32(id)} }
func StmtElement(id StmtID) Element { return Element{Class: ElemStmt, ID: uint32(id)} }
func ExprElement(id ExprID) Element { return Element{Class: ElemExpr, ID: uint32(id)} }

func (e Element) IsValid() bool { return e.Class != ElemNone && e.ID != 0 }

func (e Element) Decl() (DeclID, bool) { return DeclID(e.ID), e.Class == ElemDecl }
func (e Element) Stmt() (StmtID, bool) { return StmtID(e.ID), e.Class == ElemStmt }
func (e Element) Expr() (ExprID, bool) { return ExprID(e.ID), e.Class == ElemExpr }

func (e Element) String() string {
	switch e.Class {
	case ElemDecl:
		return fmt.Sprintf("decl#%d", e.ID)
	case ElemStmt:
		return fmt.Sprintf("stmt#%d", e.ID)
	case ElemExpr:
		return fmt.Sprintf("expr#%d", e.ID)
	default:
		return "none"
	}
}

type ReferentClass uint8

const (
	RefNone ReferentClass = iota
	RefDecl
	RefStmt
	RefExpr
	RefPattern
	RefAttr
)

// Referent is the stable identity of an AST node. Ids are never reused
// within one Builder, so equal referents always denote the same node.
type Referent struct {
	Class ReferentClass
	ID    uint32
}

func DeclReferent(id DeclID) Referent       { return Referent{Class: RefDecl, ID: uint32(id)} }
func StmtReferent(id StmtID) Referent       { return Referent{Class: RefStmt, ID: uint32(id)} }
func ExprReferent(id ExprID) Referent       { return Referent{Class: RefExpr, ID: uint32(id)} }
func PatternReferent(id PatternID) Referent { return Referent{Class: RefPattern, ID: uint32(id)} }
func AttrReferent(id AttrID) Referent       { return Referent{Class: RefAttr, ID: uint32(id)} }

func (r Referent) IsValid() bool { return r.Class != RefNone && r.ID != 0 }

func (r Referent) String() string {
	switch r.Class {
	case RefDecl:
		return fmt.Sprintf("decl#%d", r.ID)
	case RefStmt:
		return fmt.Sprintf("stmt#%d", r.ID)
	case RefExpr:
		return fmt.Sprintf("expr#%d", r.ID)
	case RefPattern:
		return fmt.Sprintf("pattern#%d", r.ID)
	case RefAttr:
		return fmt.Sprintf("attr#%d", r.ID)
	default:
		return "none"
	}
}
