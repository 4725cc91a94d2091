package astscope_test

import (
	"slices"
	"testing"

	"scopetree/internal/astscope"
	"scopetree/internal/parser"
	"scopetree/internal/testkit"
)

func build(t *testing.T, src string) (*testkit.Fixture, *astscope.Tree) {
	t.Helper()
	fx := testkit.Parse(t, src, parser.Options{})
	return fx, fx.Tree(t, astscope.Options{})
}

// collect walks the tree, expanding as it goes, and returns every scope of
// kind in pre-order.
func collect(tree *astscope.Tree, kind astscope.Kind) []astscope.ScopeID {
	var out []astscope.ScopeID
	var walk func(astscope.ScopeID)
	walk = func(id astscope.ScopeID) {
		if tree.Kind(id) == kind {
			out = append(out, id)
		}
		for _, c := range tree.Children(id) {
			walk(c)
		}
	}
	walk(tree.Root())
	return out
}

func only(t *testing.T, tree *astscope.Tree, kind astscope.Kind) astscope.ScopeID {
	t.Helper()
	ids := collect(tree, kind)
	if len(ids) != 1 {
		t.Fatalf("want exactly one %s, got %d", kind, len(ids))
	}
	return ids[0]
}

func ancestors(tree *astscope.Tree, id astscope.ScopeID) []astscope.ScopeID {
	var out []astscope.ScopeID
	for p := tree.Parent(id); p.IsValid(); p = tree.Parent(p) {
		out = append(out, p)
	}
	return out
}

func names(vs []astscope.VisibleName) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func hasName(vs []astscope.VisibleName, name string) bool {
	return slices.Contains(names(vs), name)
}

func mustVerify(t *testing.T, tree *astscope.Tree) {
	t.Helper()
	if err := tree.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}
