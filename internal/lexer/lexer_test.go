package lexer_test

import (
	"testing"

	"scopetree/internal/diag"
	"scopetree/internal/lexer"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte(src))
	bag := diag.NewBag(100)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"guard", "guard let x = y else { return }", []token.Kind{
			token.KwGuard, token.KwLet, token.Ident, token.Assign, token.Ident,
			token.KwElse, token.LBrace, token.KwReturn, token.RBrace,
		}},
		{"ranges", "for i in 0..<10 {}", []token.Kind{
			token.KwFor, token.Ident, token.KwIn, token.IntLit, token.DotDotLt, token.IntLit,
			token.LBrace, token.RBrace,
		}},
		{"closed range", "1...3", []token.Kind{token.IntLit, token.DotDotDot, token.IntLit}},
		{"float", "1.5e3 0x_ff", []token.Kind{token.FloatLit, token.IntLit}},
		{"attribute", "@propertyWrapper struct W {}", []token.Kind{
			token.At, token.Ident, token.KwStruct, token.Ident, token.LBrace, token.RBrace,
		}},
		{"pound", "#if DEBUG\n#elseif X\n#else\n#endif", []token.Kind{
			token.PoundIf, token.Ident, token.PoundElseIf, token.Ident, token.PoundElse, token.PoundEndIf,
		}},
		{"closure", "{ [a] (x: Int) -> Int in x }", []token.Kind{
			token.LBrace, token.LBracket, token.Ident, token.RBracket, token.LParen, token.Ident,
			token.Colon, token.Ident, token.RParen, token.Arrow, token.Ident, token.KwIn, token.Ident, token.RBrace,
		}},
		{"underscore", "_ _x", []token.Kind{token.Underscore, token.Ident}},
		{"unicode ident", "let café = 1", []token.Kind{token.KwLet, token.Ident, token.Assign, token.IntLit}},
		{"anonymous args", "{ $0 + $1 }", []token.Kind{token.LBrace, token.Ident, token.Plus, token.Ident, token.RBrace}},
		{"escaped ident", "let `class` = 1", []token.Kind{token.KwLet, token.Ident, token.Assign, token.IntLit}},
		{"interpolation", `"a \(f(")")) b" x`, []token.Kind{token.StringLit, token.Ident}},
		{"multiline string", "\"\"\"\nline \"quoted\"\n\"\"\" x", []token.Kind{token.StringLit, token.Ident}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.src)
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestLexerTextMatchesSpan(t *testing.T) {
	src := "func f(a: Int) { let s = \"x\\(a)\" } // tail"
	toks, _ := lexAll(t, src)
	for _, tok := range toks {
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("text %q does not match span slice %q", tok.Text, got)
		}
	}
}

func TestLexerTrivia(t *testing.T) {
	toks, _ := lexAll(t, "a // c\n/* b /* nested */ */ b")
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(toks))
	}
	lead := toks[1].Leading
	if len(lead) != 5 {
		t.Fatalf("expected 5 trivia pieces, got %d: %+v", len(lead), lead)
	}
	if lead[1].Kind != token.TriviaLineComment || lead[3].Kind != token.TriviaBlockComment {
		t.Fatalf("unexpected trivia kinds: %+v", lead)
	}
	if !toks[1].StartsLine() {
		t.Fatalf("second token follows a newline")
	}
}

func TestLexerShebangAndSlash(t *testing.T) {
	toks, bag := lexAll(t, "#!/usr/bin/env swift\nlet q = a / b")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(toks) != 6 || toks[0].Kind != token.KwLet || toks[4].Kind != token.Slash {
		t.Fatalf("unexpected tokens %v", kinds(toks))
	}
	if lead := toks[0].Leading; len(lead) != 2 || lead[0].Kind != token.TriviaLineComment || lead[0].Text != "#!/usr/bin/env swift" {
		t.Fatalf("shebang trivia %+v", lead)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"\"open", diag.LexUnterminatedString},
		{"/* open", diag.LexUnterminatedBlockComment},
		{"#warning", diag.LexBadDirective},
		{"a $ b", diag.LexUnknownChar},
		{"`open", diag.LexUnknownChar},
		{"\"\"\"\nnever closed", diag.LexUnterminatedString},
		{"1e+", diag.LexBadNumber},
	}
	for _, tt := range tests {
		_, bag := lexAll(t, tt.src)
		if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
			t.Fatalf("%q: expected %v, got %v", tt.src, tt.code, bag.Items())
		}
	}
}

func TestNewAtStartsMidFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("grow.swift", []byte("let a = 1\n"))
	off, err := fs.Extend(id, []byte("let b = 2\n"))
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	lx := lexer.NewAt(fs.Get(id), off, lexer.Options{})
	first := lx.Next()
	if first.Kind != token.KwLet || first.Span.Start != off {
		t.Fatalf("expected let at %d, got %v at %d", off, first.Kind, first.Span.Start)
	}
	if name := lx.Next(); name.Text != "b" {
		t.Fatalf("expected b, got %q", name.Text)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.swift", []byte("x y"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if lx.Peek().Text != "x" || lx.Peek().Text != "x" {
		t.Fatalf("peek must be stable")
	}
	if lx.Next().Text != "x" || lx.Next().Text != "y" || lx.Next().Kind != token.EOF {
		t.Fatalf("unexpected stream after peek")
	}
}
