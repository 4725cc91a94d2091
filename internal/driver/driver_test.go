package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"scopetree/internal/diag"
	"scopetree/internal/snapshot"
	"scopetree/internal/source"
	"scopetree/internal/token"
	"scopetree/internal/trace"
)

const guardSrc = `func f(y: Int?) {
    let before = 1
    guard let x = y else { return }
    let a = x
    print(a)
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.swift", "let x = 1\n")
	res, err := Tokenize(path, 0)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(res.Tokens) < 5 || res.Tokens[len(res.Tokens)-1].Kind != token.EOF {
		t.Fatalf("unexpected tokens %v", res.Tokens)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("clean input produced errors: %v", res.Bag.Items())
	}
}

func TestTokenizeMaxDepth(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.swift", "func f() { if a { } }\n}\nstruct S { }\n")
	res, err := Tokenize(path, 0)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if res.MaxDepth != 2 {
		t.Fatalf("MaxDepth = %d, want 2", res.MaxDepth)
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	if _, err := Tokenize(filepath.Join(t.TempDir(), "nope.swift"), 10); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.swift", "func f( {\n")
	res, err := Parse(path, ParseOptions{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("expected syntax errors")
	}
	if res.Builder.Files.Get(res.FileID) == nil {
		t.Fatalf("a file is produced even for broken input")
	}
}

type phaseLog struct {
	mu     sync.Mutex
	events []PhaseEvent
}

func (l *phaseLog) observe(ev PhaseEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *phaseLog) started(file string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, ev := range l.events {
		if ev.File == file && ev.Status == PhaseStart {
			out = append(out, ev.Name)
		}
	}
	return out
}

func TestBuildFilePipeline(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guard.swift", guardSrc)
	var log phaseLog
	res, err := BuildFile(context.Background(), path, BuildOptions{
		ExpandAll:     true,
		Verify:        true,
		Snapshot:      true,
		EnableTimings: true,
		PhaseObserver: log.observe,
	})
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	want := []string{PhaseLoad, PhaseParse, PhaseBuild, PhaseExpand, PhaseVerify, PhaseSnapshot}
	if got := log.started(path); !slices.Equal(got, want) {
		t.Fatalf("phases %v, want %v", got, want)
	}
	if res.Tree == nil || res.Snapshot == nil || res.CacheHit {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Bag.Items())
	}
	if len(res.Snapshot.Nodes) != res.Tree.Live() {
		t.Fatalf("snapshot has %d nodes, tree %d scopes", len(res.Snapshot.Nodes), res.Tree.Live())
	}
	if res.Timing == nil {
		t.Fatalf("timings requested")
	}
	if _, ok := res.Timing.Phase(PhaseExpand); !ok {
		t.Fatalf("expand not timed: %+v", res.Timing)
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			found = true
		}
	}
	if !found {
		t.Fatalf("timing diagnostic missing")
	}
}

func TestBuildFileLazyByDefault(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guard.swift", guardSrc)
	res, err := BuildFile(context.Background(), path, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if n := res.Tree.Live(); n != 2 {
		t.Fatalf("want root and one function scope, got %d scopes", n)
	}
	if res.Snapshot != nil || res.Timing != nil {
		t.Fatalf("nothing optional was requested")
	}
}

func TestBuildFileUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guard.swift", guardSrc)
	cache, err := snapshot.OpenCacheDir(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenCacheDir: %v", err)
	}
	opts := BuildOptions{ExpandAll: true, Cache: cache}

	first, err := BuildFile(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	if first.CacheHit || first.Snapshot == nil {
		t.Fatalf("first build must miss and record a snapshot")
	}
	second, err := BuildFile(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if !second.CacheHit || second.Tree != nil {
		t.Fatalf("second build must be served from cache")
	}
	if diffs := snapshot.Compare(first.Snapshot, second.Snapshot, snapshot.CompareOpts{}); len(diffs) != 0 {
		t.Fatalf("cached snapshot differs:\n%s", snapshot.Format(diffs, 5))
	}

	// другой набор опций даёт другой ключ
	opts.IncludeInactive = true
	third, err := BuildFile(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("third build: %v", err)
	}
	if third.CacheHit {
		t.Fatalf("variant change must miss the cache")
	}
}

func TestBuildFileDoesNotCacheBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.swift", "func f( {\n")
	cache, err := snapshot.OpenCacheDir(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenCacheDir: %v", err)
	}
	opts := BuildOptions{ExpandAll: true, Cache: cache}
	for i := range 2 {
		res, err := BuildFile(context.Background(), path, opts)
		if err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
		if res.CacheHit {
			t.Fatalf("build %d: a file with errors was cached", i)
		}
	}
}

func TestBuildFileTracesDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.swift", "func f( {\n")
	ring := trace.NewRingTracer(256, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	res, err := BuildFile(ctx, path, BuildOptions{ExpandAll: true})
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("expected syntax errors")
	}
	var points int
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindPoint && strings.HasPrefix(ev.Name, "diag ") {
			points++
		}
	}
	if points != res.Bag.Count(diag.SevError) {
		t.Fatalf("traced %d diagnostics, bag has %d errors", points, res.Bag.Count(diag.SevError))
	}
}

func TestBuildDirParallel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.swift", "func b() { let x = 1 }\n")
	writeFile(t, dir, "a.swift", guardSrc)
	writeFile(t, dir, "sub/c.swift", "struct C { var v = 0 }\n")
	writeFile(t, dir, ".hidden/d.swift", "func d() {}\n")
	writeFile(t, dir, "notes.txt", "not swift\n")

	var log phaseLog
	fs, results, err := BuildDir(context.Background(), dir, BuildOptions{
		ExpandAll:     true,
		Verify:        true,
		PhaseObserver: log.observe,
	}, 2)
	if err != nil {
		t.Fatalf("BuildDir: %v", err)
	}
	if fs.BaseDir() != dir {
		t.Fatalf("base dir %q", fs.BaseDir())
	}
	var got []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		got = append(got, filepath.ToSlash(rel))
		if r.Tree == nil || r.Bag.HasErrors() {
			t.Fatalf("%s: tree=%v errors=%v", rel, r.Tree != nil, r.Bag.Items())
		}
		if len(log.started(r.Path)) == 0 {
			t.Fatalf("%s: no phase events", rel)
		}
	}
	want := []string{"a.swift", "b.swift", "sub/c.swift"}
	if !slices.Equal(got, want) {
		t.Fatalf("files %v, want %v", got, want)
	}
}

func TestBuildFilesReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.swift", "func ok() {}\n")
	missing := filepath.Join(dir, "missing.swift")

	_, results, err := BuildFiles(context.Background(), dir, []string{missing, ok}, BuildOptions{}, 0)
	if err != nil {
		t.Fatalf("BuildFiles: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	items := results[0].Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError || results[0].Tree != nil {
		t.Fatalf("missing file result: %+v", items)
	}
	if results[1].Tree == nil {
		t.Fatalf("the readable file must still be built")
	}
}

func TestBuildDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.swift", "func a() {}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := BuildDir(ctx, dir, BuildOptions{}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestGrowMatchesFreshBuild(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.swift", guardSrc)
	extra := writeFile(t, dir, "extra.swift", "let x = 1\nif x == 1 { print(x) }\n")
	more := writeFile(t, dir, "more.swift", "func g() { f(y: nil) }\n")

	res, steps, err := Grow(context.Background(), base, []string{extra, more}, BuildOptions{ExpandAll: true, Verify: true})
	if err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("want 2 steps, got %d", len(steps))
	}
	for _, st := range steps {
		if st.Decls == 0 || st.After <= st.Before {
			t.Fatalf("%s: step did not grow the tree: %+v", st.Path, st)
		}
		if len(st.Diffs) != 0 {
			t.Fatalf("%s: grown tree differs from fresh build:\n%s", st.Path, snapshot.Format(st.Diffs, 5))
		}
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Bag.Items())
	}
}

func TestQueryParsesDelayedBody(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guard.swift", guardSrc)
	res, err := BuildFile(context.Background(), path, BuildOptions{Parse: ParseOptions{DelayBodies: true}})
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	pos, err := ParseLineCol("5:5")
	if err != nil {
		t.Fatalf("ParseLineCol: %v", err)
	}
	q, err := res.Query(pos)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !q.BodyParsed {
		t.Fatalf("the delayed body must be parsed on demand")
	}
	var names []string
	for _, n := range q.Names {
		names = append(names, n.Name)
	}
	if want := []string{"a", "x", "before", "y", "f"}; !slices.Equal(names, want) {
		t.Fatalf("names %v, want %v", names, want)
	}
	if q.Chain[0] != q.Innermost || q.Chain[len(q.Chain)-1] != res.Tree.Root() {
		t.Fatalf("chain must run from the innermost scope to the root: %v", q.Chain)
	}

	again, err := res.Query(pos)
	if err != nil {
		t.Fatalf("second Query: %v", err)
	}
	if again.BodyParsed || again.Innermost != q.Innermost {
		t.Fatalf("second query must reuse the parsed body")
	}
}

func TestParseLineCol(t *testing.T) {
	tests := []struct {
		in   string
		want source.LineCol
		ok   bool
	}{
		{"3:7", source.LineCol{Line: 3, Col: 7}, true},
		{"1:1", source.LineCol{Line: 1, Col: 1}, true},
		{"0:1", source.LineCol{}, false},
		{"3", source.LineCol{}, false},
		{"a:b", source.LineCol{}, false},
	}
	for _, tt := range tests {
		got, err := ParseLineCol(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("ParseLineCol(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestTestdataSamplesKeepInvariants(t *testing.T) {
	root := filepath.Join("..", "..", "testdata", "scopes")
	files, err := ListSourceFiles(root)
	if err != nil || len(files) == 0 {
		t.Skipf("no samples under %s: %v", root, err)
	}
	_, results, err := BuildFiles(context.Background(), root, files, BuildOptions{ExpandAll: true, Verify: true}, 2)
	if err != nil {
		t.Fatalf("BuildFiles: %v", err)
	}
	for i, res := range results {
		if res.Tree == nil {
			t.Fatalf("%s: no tree", files[i])
		}
		for _, d := range res.Bag.Items() {
			if d.Code >= diag.ScopeRangeInvariant && d.Code <= diag.ScopeBadParentLink {
				t.Fatalf("%s: %s", files[i], d.Message)
			}
		}
	}
}
