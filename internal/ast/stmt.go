package ast

import (
	"scopetree/internal/source"
)

type StmtKind uint8

const (
	StmtBrace StmtKind = iota
	StmtIf
	StmtGuard
	StmtWhile
	StmtRepeatWhile
	StmtForEach
	StmtSwitch
	StmtCase
	StmtDo
	StmtDoCatch
	StmtCatch
	StmtReturn
	StmtThrow
	StmtBreak
	StmtContinue
	StmtDefer
)

var stmtKindNames = [...]string{
	StmtBrace:       "Brace",
	StmtIf:          "If",
	StmtGuard:       "Guard",
	StmtWhile:       "While",
	StmtRepeatWhile: "RepeatWhile",
	StmtForEach:     "ForEach",
	StmtSwitch:      "Switch",
	StmtCase:        "Case",
	StmtDo:          "Do",
	StmtDoCatch:     "DoCatch",
	StmtCatch:       "Catch",
	StmtReturn:      "Return",
	StmtThrow:       "Throw",
	StmtBreak:       "Break",
	StmtContinue:    "Continue",
	StmtDefer:       "Defer",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type Stmts struct {
	Arena     *Arena[Stmt]
	Braces    *Arena[BraceStmt]
	Ifs       *Arena[IfStmt]
	Guards    *Arena[GuardStmt]
	Whiles    *Arena[WhileStmt]
	Repeats   *Arena[RepeatWhileStmt]
	ForEachs  *Arena[ForEachStmt]
	Switches  *Arena[SwitchStmt]
	Cases     *Arena[CaseStmt]
	Dos       *Arena[DoStmt]
	DoCatches *Arena[DoCatchStmt]
	Catches   *Arena[CatchStmt]
	Returns   *Arena[ReturnStmt]
	Defers    *Arena[DeferStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		Braces:    NewArena[BraceStmt](capHint),
		Ifs:       NewArena[IfStmt](capHint),
		Guards:    NewArena[GuardStmt](capHint),
		Whiles:    NewArena[WhileStmt](capHint),
		Repeats:   NewArena[RepeatWhileStmt](capHint),
		ForEachs:  NewArena[ForEachStmt](capHint),
		Switches:  NewArena[SwitchStmt](capHint),
		Cases:     NewArena[CaseStmt](capHint),
		Dos:       NewArena[DoStmt](capHint),
		DoCatches: NewArena[DoCatchStmt](capHint),
		Catches:   NewArena[CatchStmt](capHint),
		Returns:   NewArena[ReturnStmt](capHint),
		Defers:    NewArena[DeferStmt](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (PayloadID, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return NoPayloadID, false
	}
	return st.Payload, true
}

func (s *Stmts) NewBrace(span source.Span, data BraceStmt) StmtID {
	return s.new(StmtBrace, span, PayloadID(s.Braces.Allocate(data)))
}

func (s *Stmts) Brace(id StmtID) (*BraceStmt, bool) {
	p, ok := s.payload(id, StmtBrace)
	if !ok {
		return nil, false
	}
	return s.Braces.Get(uint32(p)), true
}

func (s *Stmts) NewIf(span source.Span, data IfStmt) StmtID {
	return s.new(StmtIf, span, PayloadID(s.Ifs.Allocate(data)))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(uint32(p)), true
}

func (s *Stmts) NewGuard(span source.Span, data GuardStmt) StmtID {
	return s.new(StmtGuard, span, PayloadID(s.Guards.Allocate(data)))
}

func (s *Stmts) Guard(id StmtID) (*GuardStmt, bool) {
	p, ok := s.payload(id, StmtGuard)
	if !ok {
		return nil, false
	}
	return s.Guards.Get(uint32(p)), true
}

func (s *Stmts) NewWhile(span source.Span, data WhileStmt) StmtID {
	return s.new(StmtWhile, span, PayloadID(s.Whiles.Allocate(data)))
}

func (s *Stmts) While(id StmtID) (*WhileStmt, bool) {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(uint32(p)), true
}

func (s *Stmts) NewRepeatWhile(span source.Span, data RepeatWhileStmt) StmtID {
	return s.new(StmtRepeatWhile, span, PayloadID(s.Repeats.Allocate(data)))
}

func (s *Stmts) RepeatWhile(id StmtID) (*RepeatWhileStmt, bool) {
	p, ok := s.payload(id, StmtRepeatWhile)
	if !ok {
		return nil, false
	}
	return s.Repeats.Get(uint32(p)), true
}

func (s *Stmts) NewForEach(span source.Span, data ForEachStmt) StmtID {
	return s.new(StmtForEach, span, PayloadID(s.ForEachs.Allocate(data)))
}

func (s *Stmts) ForEach(id StmtID) (*ForEachStmt, bool) {
	p, ok := s.payload(id, StmtForEach)
	if !ok {
		return nil, false
	}
	return s.ForEachs.Get(uint32(p)), true
}

func (s *Stmts) NewSwitch(span source.Span, data SwitchStmt) StmtID {
	return s.new(StmtSwitch, span, PayloadID(s.Switches.Allocate(data)))
}

func (s *Stmts) Switch(id StmtID) (*SwitchStmt, bool) {
	p, ok := s.payload(id, StmtSwitch)
	if !ok {
		return nil, false
	}
	return s.Switches.Get(uint32(p)), true
}

func (s *Stmts) NewCase(span source.Span, data CaseStmt) StmtID {
	return s.new(StmtCase, span, PayloadID(s.Cases.Allocate(data)))
}

func (s *Stmts) Case(id StmtID) (*CaseStmt, bool) {
	p, ok := s.payload(id, StmtCase)
	if !ok {
		return nil, false
	}
	return s.Cases.Get(uint32(p)), true
}

func (s *Stmts) NewDo(span source.Span, body StmtID) StmtID {
	return s.new(StmtDo, span, PayloadID(s.Dos.Allocate(DoStmt{Body: body})))
}

func (s *Stmts) Do(id StmtID) (*DoStmt, bool) {
	p, ok := s.payload(id, StmtDo)
	if !ok {
		return nil, false
	}
	return s.Dos.Get(uint32(p)), true
}

func (s *Stmts) NewDoCatch(span source.Span, data DoCatchStmt) StmtID {
	return s.new(StmtDoCatch, span, PayloadID(s.DoCatches.Allocate(data)))
}

func (s *Stmts) DoCatch(id StmtID) (*DoCatchStmt, bool) {
	p, ok := s.payload(id, StmtDoCatch)
	if !ok {
		return nil, false
	}
	return s.DoCatches.Get(uint32(p)), true
}

func (s *Stmts) NewCatch(span source.Span, data CatchStmt) StmtID {
	return s.new(StmtCatch, span, PayloadID(s.Catches.Allocate(data)))
}

func (s *Stmts) Catch(id StmtID) (*CatchStmt, bool) {
	p, ok := s.payload(id, StmtCatch)
	if !ok {
		return nil, false
	}
	return s.Catches.Get(uint32(p)), true
}

// NewReturn covers return and throw: both carry one optional value.
func (s *Stmts) NewReturn(kind StmtKind, span source.Span, value ExprID) StmtID {
	return s.new(kind, span, PayloadID(s.Returns.Allocate(ReturnStmt{Value: value})))
}

// Return returns the payload of a return or throw statement.
func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	st := s.Get(id)
	if st == nil || (st.Kind != StmtReturn && st.Kind != StmtThrow) {
		return nil, false
	}
	return s.Returns.Get(uint32(st.Payload)), true
}

// NewJump creates break/continue; they have no payload.
func (s *Stmts) NewJump(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, NoPayloadID)
}

func (s *Stmts) NewDefer(span source.Span, body StmtID) StmtID {
	return s.new(StmtDefer, span, PayloadID(s.Defers.Allocate(DeferStmt{Body: body})))
}

func (s *Stmts) Defer(id StmtID) (*DeferStmt, bool) {
	p, ok := s.payload(id, StmtDefer)
	if !ok {
		return nil, false
	}
	return s.Defers.Get(uint32(p)), true
}
