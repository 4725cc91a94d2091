package snapshot_test

import (
	"bytes"
	"strings"
	"testing"

	"scopetree/internal/astscope"
	"scopetree/internal/parser"
	"scopetree/internal/snapshot"
	"scopetree/internal/testkit"
)

const baseSrc = `func f(a: Int) -> Int {
    guard a > 0 else { return 0 }
    let b = a
    return b
}
`

const extraSrc = `let x = 1
if x == 1 { print(x) }
`

func expanded(t *testing.T, src string) *astscope.Tree {
	t.Helper()
	fx := testkit.Parse(t, src, parser.Options{})
	tree := fx.Tree(t, astscope.Options{})
	tree.ExpandAll()
	return tree
}

func TestRebuildProducesSameSnapshot(t *testing.T) {
	tree := expanded(t, baseSrc+extraSrc)
	before := snapshot.Take(tree)

	tree.Rebuild()
	tree.ExpandAll()
	after := snapshot.Take(tree)

	if diffs := snapshot.Compare(before, after, snapshot.CompareOpts{}); len(diffs) != 0 {
		t.Fatalf("rebuild changed the tree:\n%s", snapshot.Format(diffs, 10))
	}
	if len(before.Nodes) < 5 {
		t.Fatalf("suspiciously small snapshot: %d nodes", len(before.Nodes))
	}
}

func TestIncrementalAppendMatchesFreshBuild(t *testing.T) {
	fx := testkit.Parse(t, baseSrc, parser.Options{})
	tree := fx.Tree(t, astscope.Options{})
	tree.ExpandAll()

	fx.Append(t, extraSrc)
	if err := tree.AppendTopLevelAndReexpand(); err != nil {
		t.Fatalf("append: %v", err)
	}
	tree.ExpandAll()
	grown := snapshot.Take(tree)

	fresh := snapshot.Take(expanded(t, baseSrc+extraSrc))
	if diffs := snapshot.Compare(fresh, grown, snapshot.CompareOpts{}); len(diffs) != 0 {
		t.Fatalf("incremental tree differs from fresh build:\n%s", snapshot.Format(diffs, 10))
	}
}

func TestDiversionLookupIsPreorderIndex(t *testing.T) {
	s := snapshot.Take(expanded(t, baseSrc))
	found := false
	for i, n := range s.Nodes {
		if n.Kind != astscope.KindDiversion.String() {
			continue
		}
		found = true
		if n.Lookup < 0 || int(n.Lookup) >= i {
			t.Fatalf("diversion %d: lookup %d must point at an earlier node", i, n.Lookup)
		}
		if n.Detail != "" {
			t.Fatalf("diversion detail must not carry arena ids, got %q", n.Detail)
		}
	}
	if !found {
		t.Fatalf("no diversion in snapshot")
	}
}

func TestEncodeDecode(t *testing.T) {
	s := snapshot.Take(expanded(t, baseSrc))
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, s); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := snapshot.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diffs := snapshot.Compare(s, got, snapshot.CompareOpts{}); len(diffs) != 0 {
		t.Fatalf("decoded snapshot differs:\n%s", snapshot.Format(diffs, 10))
	}
	if got.Hash != s.Hash || got.Path != s.Path {
		t.Fatalf("header lost: %q/%x vs %q/%x", got.Path, got.Hash, s.Path, s.Hash)
	}

	s.Schema = snapshot.SchemaVersion + 1
	buf.Reset()
	if err := snapshot.Encode(&buf, s); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := snapshot.Decode(&buf); err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("want schema error, got %v", err)
	}
}

func TestCompareReportsChanges(t *testing.T) {
	a := snapshot.Take(expanded(t, baseSrc))
	b := snapshot.Take(expanded(t, strings.Replace(baseSrc, "let b = a", "let c = a", 1)))

	diffs := snapshot.Compare(a, b, snapshot.CompareOpts{})
	if len(diffs) == 0 {
		t.Fatalf("renamed binding must show up as a difference")
	}
	sawDetail := false
	for _, d := range diffs {
		if d.Field == "detail" && d.Left == "b" && d.Right == "c" {
			sawDetail = true
		}
	}
	if !sawDetail {
		t.Fatalf("want detail b != c, got:\n%s", snapshot.Format(diffs, 0))
	}
}

func TestCompareIgnoresLaziness(t *testing.T) {
	fx := testkit.Parse(t, baseSrc, parser.Options{})
	lazy := fx.Tree(t, astscope.Options{})
	a := snapshot.Take(lazy)
	b := snapshot.Take(lazy)
	b.Nodes[0].Lazy = !b.Nodes[0].Lazy

	if diffs := snapshot.Compare(a, b, snapshot.CompareOpts{}); len(diffs) != 1 || diffs[0].Field != "lazy" {
		t.Fatalf("want one lazy difference, got %v", diffs)
	}
	if diffs := snapshot.Compare(a, b, snapshot.CompareOpts{IgnoreLaziness: true}); len(diffs) != 0 {
		t.Fatalf("laziness must be ignored, got %v", diffs)
	}
}

func TestCache(t *testing.T) {
	cache, err := snapshot.OpenCacheDir(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tree := expanded(t, baseSrc)
	s := snapshot.Take(tree)
	key := snapshot.Key(s.Hash, "include-inactive=false")

	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(key, s); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got.Nodes) != len(s.Nodes) {
		t.Fatalf("cached %d nodes, want %d", len(got.Nodes), len(s.Nodes))
	}
	if other := snapshot.Key(s.Hash, "include-inactive=true"); other == key {
		t.Fatalf("variant must change the key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Fatalf("entry survived DropAll")
	}
}
