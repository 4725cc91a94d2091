package testkit

import (
	"strings"
	"testing"

	"scopetree/internal/ast"
	"scopetree/internal/astscope"
	"scopetree/internal/diag"
	"scopetree/internal/parser"
	"scopetree/internal/source"
)

// Fixture is one parsed virtual file.
type Fixture struct {
	FS      *source.FileSet
	Src     source.FileID
	Builder *ast.Builder
	File    ast.FileID
	Bag     *diag.Bag
	Opts    parser.Options
}

// Parse parses src as a virtual file and checks the basic span invariants.
func Parse(tb testing.TB, src string, opts parser.Options) *Fixture {
	tb.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte(src))
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(100)
	opts.Reporter = diag.BagReporter{Bag: bag}
	res, err := parser.ParseFile(fs, id, b, opts)
	if err != nil {
		tb.Fatalf("parse: %v", err)
	}
	if err := CheckSpanInvariants(b, res.File, fs.Get(id)); err != nil {
		tb.Fatalf("span invariants: %v", err)
	}
	return &Fixture{FS: fs, Src: id, Builder: b, File: res.File, Bag: bag, Opts: opts}
}

// Text returns the current file content.
func (f *Fixture) Text() string {
	return string(f.FS.Get(f.Src).Content)
}

// Offset returns the byte offset of the n-th (0-based) occurrence of marker.
func (f *Fixture) Offset(tb testing.TB, marker string, n int) uint32 {
	tb.Helper()
	text := f.Text()
	base := 0
	for i := 0; ; i++ {
		idx := strings.Index(text[base:], marker)
		if idx < 0 {
			tb.Fatalf("marker %q occurrence %d not found", marker, n)
		}
		if i == n {
			return uint32(base + idx) // #nosec G115 -- test sources are small
		}
		base += idx + len(marker)
	}
}

// Tree builds the scope tree of the fixture with checks enabled.
func (f *Fixture) Tree(tb testing.TB, opts astscope.Options) *astscope.Tree {
	tb.Helper()
	opts.Verify = true
	tree, err := astscope.New(f.Builder, f.FS, f.File, opts)
	if err != nil {
		tb.Fatalf("astscope.New: %v", err)
	}
	return tree
}

// Append extends the file with more text and parses the new top-level
// elements without touching the tree.
func (f *Fixture) Append(tb testing.TB, more string) []ast.DeclID {
	tb.Helper()
	off, err := f.FS.Extend(f.Src, []byte(more))
	if err != nil {
		tb.Fatalf("extend: %v", err)
	}
	res, err := parser.ParseAppended(f.FS, f.File, off, f.Builder, f.Opts)
	if err != nil {
		tb.Fatalf("parse appended: %v", err)
	}
	return res.Decls
}
