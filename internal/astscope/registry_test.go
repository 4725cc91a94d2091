package astscope_test

import (
	"testing"

	"scopetree/internal/ast"
	"scopetree/internal/astscope"
)

func TestRegistryReserveOnce(t *testing.T) {
	r := astscope.NewRegistry()
	key := astscope.Key{Kind: astscope.KindPatternEntryDecl, Referent: ast.PatternReferent(3)}
	if !r.TryReserve(key) {
		t.Fatalf("first reservation must succeed")
	}
	if r.TryReserve(key) {
		t.Fatalf("second reservation of %v must fail", key)
	}
	other := astscope.Key{Kind: astscope.KindClosure, Referent: ast.PatternReferent(3)}
	if !r.TryReserve(other) {
		t.Fatalf("same referent under another kind is a different key")
	}
	r.Release(key)
	if !r.TryReserve(key) {
		t.Fatalf("released key must be reservable again")
	}
	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("Len after Reset = %d", r.Len())
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range []astscope.Kind{
		astscope.KindSourceFile,
		astscope.KindGuardStmt,
		astscope.KindDiversion,
		astscope.KindClosureBody,
	} {
		got, ok := astscope.ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := astscope.ParseKind("Invalid"); ok {
		t.Fatalf("Invalid must not parse")
	}
}
