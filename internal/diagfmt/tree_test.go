package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"scopetree/internal/astscope"
	"scopetree/internal/lexer"
	"scopetree/internal/parser"
	"scopetree/internal/testkit"
)

const outlineSrc = `struct S {
    func m(a: Int) {
        if let b = a { print(b) }
    }
}
let f = { x in x }
`

func TestFormatASTPretty(t *testing.T) {
	fx := testkit.Parse(t, outlineSrc, parser.Options{})
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, fx.Builder, fx.File, fx.FS); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"test.swift (span: 1:1-7:1)",
		"├─ struct S (span: 1:1-5:2)",
		"│  └─ Func m (span: 2:5-4:6)",
		"params: a",
		"cond 0 (span: 3:12-3:21) binds b",
		"PatternBinding let (span: 6:1-6:19)",
		"Closure (span: 6:9-6:19)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("outline lacks %q:\n%s", want, out)
		}
	}
}

func TestScopeTreeRendering(t *testing.T) {
	fx := testkit.Parse(t, `func f(y: Int?) {
    guard let x = y else { return }
    print(x)
}
`, parser.Options{})
	tree := fx.Tree(t, astscope.Options{})
	tree.Children(tree.Root())

	var lazy bytes.Buffer
	if err := ScopeTree(&lazy, tree, tree.Root(), TreeOpts{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(lazy.String(), "FunctionDecl [1:1-4:2) f (lazy)") {
		t.Fatalf("unexpanded function must be marked lazy:\n%s", lazy.String())
	}

	tree.ExpandAll()
	var buf bytes.Buffer
	if err := ScopeTree(&buf, tree, tree.Root(), TreeOpts{Names: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"test.swift SourceFile [1:1-5:1) {f}",
		"└─ FunctionDecl [1:1-4:2) f",
		"ParameterList [1:7-4:2) {y}",
		"ConditionalClausePatternUse",
		"{x}",
		"Diversion",
		"-> ConditionalClausePatternUse",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("scope tree lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "(lazy)") || strings.Contains(out, "#") {
		t.Fatalf("expanded tree without addresses:\n%s", out)
	}

	var addr bytes.Buffer
	if err := ScopeTree(&addr, tree, tree.Root(), TreeOpts{Addresses: true}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(addr.String(), "SourceFile #1 ") {
		t.Fatalf("addresses requested:\n%s", addr.String())
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fx := testkit.Parse(t, "let x = 1 // one\n", parser.Options{})
	toks := lexer.New(fx.FS.Get(fx.Src), lexer.Options{}).All()

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fx.FS); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"x" at 1:5-1:6`) {
		t.Fatalf("identifier token missing:\n%s", out)
	}
}

func TestFormatTokensJSONDepth(t *testing.T) {
	fx := testkit.Parse(t, "func f() {\n  if c { g() }\n}\n", parser.Options{})
	toks := lexer.New(fx.FS.Get(fx.Src), lexer.Options{}).All()

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, fx.FS); err != nil {
		t.Fatalf("format: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	depths := map[string]int{}
	for _, tok := range out {
		if tok.Text == "c" || tok.Text == "g" || tok.Text == "f" {
			depths[tok.Text] = tok.Depth
		}
	}
	if depths["f"] != 0 || depths["c"] != 1 || depths["g"] != 2 {
		t.Fatalf("depths %v", depths)
	}
	if last := out[len(out)-1]; last.Kind != "}" || last.Depth != 0 || last.Start.Line != 3 {
		t.Fatalf("closing brace %+v", last)
	}
}
