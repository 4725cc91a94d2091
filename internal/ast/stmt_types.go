package ast

import "scopetree/internal/source"

// BraceStmt is a `{ ... }` element list. Implicit braces (top-level code,
// case bodies) have no brace tokens.
type BraceStmt struct {
	Elements []Element
	LBrace   source.Span
	RBrace   source.Span // source.NoSpan когда '}' отсутствует
	Implicit bool
	// LastTokenEnd is the end of the last token the parser consumed for this
	// brace. Used as the range end when RBrace is missing.
	LastTokenEnd uint32
}

// Missing reports whether the closing brace was never found.
func (b *BraceStmt) Missing() bool { return !b.Implicit && !b.RBrace.IsValid() }

type ConditionKind uint8

const (
	// CondBool is a plain boolean expression.
	CondBool ConditionKind = iota
	// CondBinding is `let x = e` / `var x = e`.
	CondBinding
	// CondCase is `case .some(let x) = e`.
	CondCase
)

// Condition is one element of an if/guard/while condition list.
type Condition struct {
	Kind    ConditionKind
	Expr    ExprID // CondBool
	Pattern PatternID
	Init    ExprID
	Span    source.Span
}

// HasPattern reports whether the condition binds names.
func (c Condition) HasPattern() bool { return c.Kind != CondBool && c.Pattern.IsValid() }

type IfStmt struct {
	Conds []Condition
	Then  StmtID
	// Else is a Brace or another If, NoStmtID when absent.
	Else StmtID
}

type GuardStmt struct {
	Conds []Condition
	Body  StmtID
}

type WhileStmt struct {
	Conds []Condition
	Body  StmtID
}

type RepeatWhileStmt struct {
	Body StmtID
	Cond ExprID
}

type ForEachStmt struct {
	Pattern PatternID
	Seq     ExprID
	Where   ExprID
	Body    StmtID
}

type SwitchStmt struct {
	Subject ExprID
	Cases   []StmtID
	LBrace  source.Span
	RBrace  source.Span
}

type CaseLabel struct {
	Pattern PatternID
	Where   ExprID
}

type CaseStmt struct {
	Labels    []CaseLabel
	IsDefault bool
	ColonSpan source.Span
	Body      StmtID // implicit brace
}

type DoStmt struct {
	Body StmtID
}

type DoCatchStmt struct {
	Body    StmtID
	Catches []StmtID
}

type CatchStmt struct {
	Pattern PatternID // NoPatternID binds the implicit `error`
	Where   ExprID
	Body    StmtID
}

type ReturnStmt struct {
	Value ExprID
}

type DeferStmt struct {
	Body StmtID
}
