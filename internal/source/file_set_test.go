package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.swift", []byte("hello world"), 0)
	id2 := fs.Add("test.swift", []byte("hello universe"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("test.swift")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Fatalf("old version content = %q", got)
	}
	if fs.Get(FileID(99)) != nil {
		t.Fatalf("unknown id must return nil")
	}
}

func TestResolveAndOffsetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.swift", []byte("let a = 1\nlet bb = 2\n\nfunc f() {}\n"))
	f := fs.Get(id)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{4, LineCol{Line: 1, Col: 5}},
		{10, LineCol{Line: 2, Col: 1}},
		{22, LineCol{Line: 4, Col: 1}},
	}
	for _, c := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: c.off, End: c.off})
		if start != c.want {
			t.Fatalf("Resolve(%d) = %v, want %v", c.off, start, c.want)
		}
		off, ok := f.Offset(c.want)
		if !ok || off != c.off {
			t.Fatalf("Offset(%v) = %d,%v; want %d", c.want, off, ok, c.off)
		}
	}
	if _, ok := f.Offset(LineCol{Line: 40, Col: 1}); ok {
		t.Fatalf("expected out-of-range line to fail")
	}
	if got := f.GetLine(2); got != "let bb = 2" {
		t.Fatalf("GetLine(2) = %q", got)
	}
}

func TestExtendKeepsOffsets(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("repl.swift", []byte("let a = 1\n"))
	start, err := fs.Extend(id, []byte("let b = a\r\n"))
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if start != 10 {
		t.Fatalf("extension offset = %d, want 10", start)
	}
	f := fs.Get(id)
	if string(f.Content) != "let a = 1\nlet b = a\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileExtended == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if f.Span().End != f.Len() {
		t.Fatalf("file span must cover content")
	}
	if _, err := fs.Extend(FileID(7), nil); err == nil {
		t.Fatalf("expected error for unknown file")
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.swift")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFlet a = 1\r\nlet b = 2\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "let a = 1\nlet b = 2\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}
