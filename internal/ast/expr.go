package ast

import (
	"scopetree/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLit
	ExprCall
	ExprMember
	ExprBinary
	ExprUnary
	ExprParen
	ExprTuple
	ExprArray
	ExprClosure
	ExprAssign
	ExprTry
)

var exprKindNames = [...]string{
	ExprIdent:   "Ident",
	ExprLit:     "Literal",
	ExprCall:    "Call",
	ExprMember:  "Member",
	ExprBinary:  "Binary",
	ExprUnary:   "Unary",
	ExprParen:   "Paren",
	ExprTuple:   "Tuple",
	ExprArray:   "Array",
	ExprClosure: "Closure",
	ExprAssign:  "Assign",
	ExprTry:     "Try",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLiteralData]
	Calls    *Arena[ExprCallData]
	Members  *Arena[ExprMemberData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Lists    *Arena[ExprListData]
	Closures *Arena[ExprClosureData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Calls:    NewArena[ExprCallData](capHint),
		Members:  NewArena[ExprMemberData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint),
		Lists:    NewArena[ExprListData](capHint),
		Closures: NewArena[ExprClosureData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (PayloadID, bool) {
	expr := e.Get(id)
	if expr == nil {
		return NoPayloadID, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return expr.Payload, true
		}
	}
	return NoPayloadID, false
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, PayloadID(payload))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(uint32(p)), true
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value})
	return e.new(ExprLit, span, PayloadID(payload))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(uint32(p)), true
}

// NewCall creates a call; trailing is the trailing closure or NoExprID.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []CallArg, trailing ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: args, Trailing: trailing})
	return e.new(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(uint32(p)), true
}

// NewMember creates `base.name`; base is NoExprID for implicit member `.name`.
func (e *Exprs) NewMember(span source.Span, base ExprID, name source.StringID) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Base: base, Name: name})
	return e.new(ExprMember, span, PayloadID(payload))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(uint32(p)), true
}

// NewBinary creates a new binary expression; assignment uses ExprAssign.
func (e *Exprs) NewBinary(kind ExprKind, span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(kind, span, PayloadID(payload))
}

// Binary returns the operands of a binary or assignment expression.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(uint32(p)), true
}

// NewUnary creates prefix operators, `try` and parenthesised expressions.
func (e *Exprs) NewUnary(kind ExprKind, span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(kind, span, PayloadID(payload))
}

// Unary returns the operand of a unary, paren or try expression.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary, ExprParen, ExprTry)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(uint32(p)), true
}

// NewList creates tuple and array literals.
func (e *Exprs) NewList(kind ExprKind, span source.Span, elems []ExprID) ExprID {
	payload := e.Lists.Allocate(ExprListData{Elements: elems})
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprTuple, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(uint32(p)), true
}

func (e *Exprs) NewClosure(span source.Span, data ExprClosureData) ExprID {
	payload := e.Closures.Allocate(data)
	return e.new(ExprClosure, span, PayloadID(payload))
}

func (e *Exprs) Closure(id ExprID) (*ExprClosureData, bool) {
	p, ok := e.payload(id, ExprClosure)
	if !ok {
		return nil, false
	}
	return e.Closures.Get(uint32(p)), true
}
