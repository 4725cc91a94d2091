package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"scopetree/internal/diag"
	"scopetree/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("let x = \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.swift", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 28},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.swift:1:9"},
		{"Relative path", PathModeRelative, "src/test.swift:1:9"},
		{"Basename only", PathModeBasename, "test.swift:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Fatalf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "Unterminated string literal"} {
				if !strings.Contains(output, want) {
					t.Fatalf("expected %q in output, got:\n%s", want, output)
				}
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "test.swift", "test.swift:1:9"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/file.swift", "file.swift:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			fileID := fs.AddVirtual(tt.path, []byte("let x = 42\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: 8, End: 10}, "Test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := buf.String()

			if !strings.HasPrefix(output, tt.expected) {
				t.Fatalf("expected output to start with %q, got:\n%s", tt.expected, output)
			}
			if strings.Contains(output, "/very/long") {
				t.Fatalf("long path must be shortened, got:\n%s", output)
			}
		})
	}
}

func TestPrettyCaretsFollowDisplayWidth(t *testing.T) {
	fs := source.NewFileSet()
	// "名前" занимает 6 байт и 4 колонки
	content := []byte("let 名前 = \tfoo\n")
	fileID := fs.AddVirtual("wide.swift", content)
	start := uint32(strings.Index(string(content), "foo")) // #nosec G115 -- small literal
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: start, End: start + 3}, "unexpected"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected header, source and caret lines, got:\n%s", buf.String())
	}
	src, caret := lines[1], lines[2]
	if !strings.HasSuffix(caret, "^~~") {
		t.Fatalf("caret line %q must end with ^~~", caret)
	}
	// "let 名前 = " is 11 columns, the tab widens to column 12
	srcCol := strings.Index(src, "foo")
	caretCol := strings.Index(caret, "^")
	prefix := strings.Index(src, "let")
	if caretCol-prefix != 12 || srcCol-prefix != len("let ")+len("名前")+len(" = ")+1 {
		t.Fatalf("caret misaligned:\n%s\n%s", src, caret)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import core.util\n")
	fileID := fs.AddVirtual("test.swift", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 7, End: 11}
	d := diag.New(diag.SevWarning, diag.SynUnexpectedToken, primary, "unexpected token")
	d = d.WithNote(source.Span{File: fileID, Start: 12, End: 16}, "remove trailing identifier")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: source.PointSpan(fileID, primary.End), NewText: ";"})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	output := buf.String()

	for _, want := range []string{
		"note: test.swift:1:13: remove trailing identifier",
		"fix #1: insert semicolon",
		"edit test.swift:1:12-1:12 apply=\";\"",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "preview:") {
		t.Fatalf("preview must be off by default, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let a = 42 // missing semicolon")
	fileID := fs.AddVirtual("example.swift", content)

	bag := diag.NewBag(2)
	insertSpan := source.PointSpan(fileID, 10)
	d := diag.New(diag.SevWarning, diag.LexUnknownChar, insertSpan, "missing semicolon")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: insertSpan, NewText: ";"})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true, ShowPreview: true})
	output := buf.String()

	for _, want := range []string{
		"preview:",
		"- let a = 42 // missing semicolon",
		"+ let a = 42; // missing semicolon",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q, got:\n%s", want, output)
		}
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.swift", []byte("x\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 1}, "bad"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{}, "failed to load file: missing.swift"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if got := buf.String(); got != "ERROR IO4001: failed to load file: missing.swift\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
