package ast

import "scopetree/internal/source"

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitString
	ExprLitTrue
	ExprLitFalse
	ExprLitNil
)

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
	ExprBinaryRangeClosed
	ExprBinaryRangeHalfOpen
	ExprBinaryAssign
	ExprBinaryAddAssign
)

type ExprUnaryOp uint8

const (
	ExprUnaryNot ExprUnaryOp = iota
	ExprUnaryMinus
	ExprUnaryGroup // (x)
	ExprUnaryTry
)

type ExprIdentData struct {
	Name source.StringID
}

type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type CallArg struct {
	Label source.StringID
	Value ExprID
}

type ExprCallData struct {
	Callee   ExprID
	Args     []CallArg
	Trailing ExprID
}

type ExprMemberData struct {
	Base ExprID
	Name source.StringID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprListData struct {
	Elements []ExprID
}

// CaptureEntry is one `[weak self, x = y]` item.
type CaptureEntry struct {
	Name     source.StringID
	NameSpan source.Span
	Init     ExprID // NoExprID для `[x]`
	Weak     bool
}

type ExprClosureData struct {
	Captures    []CaptureEntry
	CaptureSpan source.Span // от '[' до ']'
	Params      []DeclID
	ParamsSpan  source.Span // параметры до `in`
	InSpan      source.Span
	Body        StmtID // implicit brace holding the statements
}

// HasSignature reports whether the closure spells `... in`.
func (c *ExprClosureData) HasSignature() bool { return c.InSpan.IsValid() }
