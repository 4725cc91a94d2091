package ast

import (
	"testing"

	"scopetree/internal/source"
)

func sp(start, end uint32) source.Span { return source.Span{Start: start, End: end} }

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatalf("empty arena must not resolve ids")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("unexpected arena state: id=%d len=%d", id, a.Len())
	}
}

func TestPayloadAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	fn := b.Decls.NewFunc(sp(0, 10), FuncDecl{Name: b.Strings.Intern("f")})
	if _, ok := b.Decls.Func(fn); !ok {
		t.Fatalf("func payload missing")
	}
	if _, ok := b.Decls.PatternBinding(fn); ok {
		t.Fatalf("func must not resolve as pattern binding")
	}
	ret := b.Stmts.NewReturn(StmtThrow, sp(0, 5), NoExprID)
	if _, ok := b.Stmts.Return(ret); !ok {
		t.Fatalf("throw shares the return payload")
	}
}

func TestBoundNames(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Patterns.New(Pattern{Kind: PatternNamed, Name: b.Strings.Intern("x"), Span: sp(1, 2)})
	wild := b.Patterns.New(Pattern{Kind: PatternAny, Span: sp(4, 5)})
	y := b.Patterns.New(Pattern{Kind: PatternNamed, Name: b.Strings.Intern("y"), Span: sp(7, 8)})
	tuple := b.Patterns.New(Pattern{Kind: PatternTuple, Elements: []PatternID{x, wild, y}, Span: sp(0, 9)})
	bound := b.Patterns.New(Pattern{Kind: PatternBinding, IsLet: true, Sub: tuple, Span: sp(0, 9)})

	names := b.Patterns.BoundNames(bound)
	if len(names) != 2 || b.Name(names[0]) != "x" || b.Name(names[1]) != "y" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestOutermostClosures(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	inner := b.Exprs.NewClosure(sp(12, 16), ExprClosureData{})
	outer := b.Exprs.NewClosure(sp(5, 20), ExprClosureData{
		Captures: []CaptureEntry{{Name: b.Strings.Intern("c"), Init: inner}},
	})
	second := b.Exprs.NewClosure(sp(22, 30), ExprClosureData{})
	callee := b.Exprs.NewIdent(sp(0, 4), b.Strings.Intern("run"))
	call := b.Exprs.NewCall(sp(0, 30), callee, []CallArg{{Value: outer}}, second)

	got := b.OutermostClosures(call)
	if len(got) != 2 || got[0] != outer || got[1] != second {
		t.Fatalf("expected [outer second], got %v", got)
	}
}

func TestAppendTopLevelWidensFile(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := b.NewFile(0, sp(0, 10))
	d := b.Decls.NewImport(sp(10, 20), nil)
	b.AppendTopLevel(file, d)
	f := b.Files.Get(file)
	if len(f.Decls) != 1 || f.Span.End != 20 {
		t.Fatalf("unexpected file after append: %+v", f)
	}
}

func TestElementSpanSkipsImplicit(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	d := b.Decls.NewImport(sp(3, 9), nil)
	if got := b.ElementSpan(DeclElement(d)); got != sp(3, 9) {
		t.Fatalf("span = %v", got)
	}
	b.Decls.Get(d).Implicit = true
	if b.ElementSpan(DeclElement(d)).IsValid() {
		t.Fatalf("implicit decl must not be locatable")
	}
}
