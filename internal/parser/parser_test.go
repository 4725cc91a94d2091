package parser_test

import (
	"testing"

	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/parser"
	"scopetree/internal/source"
)

type parsed struct {
	fs     *source.FileSet
	src    source.FileID
	b      *ast.Builder
	res    parser.Result
	bag    *diag.Bag
	source string
}

func parse(t *testing.T, src string, opts parser.Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte(src))
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(100)
	opts.Reporter = diag.BagReporter{Bag: bag}
	res, err := parser.ParseFile(fs, id, b, opts)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return parsed{fs: fs, src: id, b: b, res: res, bag: bag, source: src}
}

func (p parsed) noErrors(t *testing.T) {
	t.Helper()
	for _, d := range p.bag.Items() {
		t.Errorf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
	}
}

func (p parsed) text(sp source.Span) string {
	return p.source[sp.Start:sp.End]
}

func (p parsed) declKinds() []ast.DeclKind {
	var out []ast.DeclKind
	for _, d := range p.res.Decls {
		out = append(out, p.b.Decls.Get(d).Kind)
	}
	return out
}

func firstFuncBody(t *testing.T, p parsed) *ast.BraceStmt {
	t.Helper()
	for _, d := range p.res.Decls {
		if fn, ok := p.b.Decls.Func(d); ok {
			body, ok := p.b.Stmts.Brace(fn.Body)
			if !ok {
				t.Fatalf("function has no parsed body")
			}
			return body
		}
	}
	t.Fatalf("no function in file")
	return nil
}

func TestTopLevelElements(t *testing.T) {
	p := parse(t, "let x = 1, y = 2\nprint(x)\nfunc f() {}\n", parser.Options{})
	p.noErrors(t)
	want := []ast.DeclKind{ast.DeclPatternBinding, ast.DeclVar, ast.DeclVar, ast.DeclTopLevelCode, ast.DeclFunc}
	got := p.declKinds()
	if len(got) != len(want) {
		t.Fatalf("decl kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decl %d kind = %v, want %v", i, got[i], want[i])
		}
	}
	pbd, _ := p.b.Decls.PatternBinding(p.res.Decls[0])
	if len(pbd.Entries) != 2 || len(pbd.Vars) != 2 {
		t.Fatalf("entries=%d vars=%d, want 2/2", len(pbd.Entries), len(pbd.Vars))
	}
	tlc, _ := p.b.Decls.TopLevelCode(p.res.Decls[3])
	body, _ := p.b.Stmts.Brace(tlc.Body)
	if !body.Implicit || len(body.Elements) != 1 {
		t.Fatalf("top-level code body: implicit=%v elements=%d", body.Implicit, len(body.Elements))
	}
}

func TestGuardAndConditions(t *testing.T) {
	src := "func f(a: Int?) {\n  guard let x = a, x > 0 else { return }\n  if case .some(let y) = a { print(y) }\n}\n"
	p := parse(t, src, parser.Options{})
	p.noErrors(t)
	body := firstFuncBody(t, p)
	if len(body.Elements) != 2 {
		t.Fatalf("body elements = %d, want 2", len(body.Elements))
	}
	gid, _ := body.Elements[0].Stmt()
	guard, ok := p.b.Stmts.Guard(gid)
	if !ok {
		t.Fatalf("first element is not a guard")
	}
	if len(guard.Conds) != 2 || guard.Conds[0].Kind != ast.CondBinding || guard.Conds[1].Kind != ast.CondBool {
		t.Fatalf("guard conditions = %+v", guard.Conds)
	}
	names := p.b.Patterns.BoundNames(guard.Conds[0].Pattern)
	if len(names) != 1 || p.b.Name(names[0]) != "x" {
		t.Fatalf("guard binds %v", names)
	}
	iid, _ := body.Elements[1].Stmt()
	ifs, _ := p.b.Stmts.If(iid)
	if ifs.Conds[0].Kind != ast.CondCase {
		t.Fatalf("if condition kind = %v, want case", ifs.Conds[0].Kind)
	}
	if names := p.b.Patterns.BoundNames(ifs.Conds[0].Pattern); len(names) != 1 || p.b.Name(names[0]) != "y" {
		t.Fatalf("case condition binds %v", names)
	}
}

func TestConditionDoesNotTakeTrailingClosure(t *testing.T) {
	p := parse(t, "if ready { go() }\n", parser.Options{})
	p.noErrors(t)
	tlc, _ := p.b.Decls.TopLevelCode(p.res.Decls[0])
	body, _ := p.b.Stmts.Brace(tlc.Body)
	sid, _ := body.Elements[0].Stmt()
	ifs, ok := p.b.Stmts.If(sid)
	if !ok {
		t.Fatalf("expected if statement")
	}
	if k := p.b.Exprs.Get(ifs.Conds[0].Expr).Kind; k != ast.ExprIdent {
		t.Fatalf("condition kind = %v, want Ident", k)
	}
	if !ifs.Then.IsValid() {
		t.Fatalf("then branch missing")
	}
}

func TestClosureSignature(t *testing.T) {
	src := "items.map { [weak self, n = count] a, b in a + n }\n"
	p := parse(t, src, parser.Options{})
	p.noErrors(t)
	tlc, _ := p.b.Decls.TopLevelCode(p.res.Decls[0])
	body, _ := p.b.Stmts.Brace(tlc.Body)
	eid, _ := body.Elements[0].Expr()
	closures := p.b.OutermostClosures(eid)
	if len(closures) != 1 {
		t.Fatalf("closures = %d, want 1", len(closures))
	}
	c, _ := p.b.Exprs.Closure(closures[0])
	if len(c.Captures) != 2 || !c.Captures[0].Weak || !c.Captures[1].Init.IsValid() {
		t.Fatalf("captures = %+v", c.Captures)
	}
	if len(c.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(c.Params))
	}
	if got := p.text(c.InSpan); got != "in" {
		t.Fatalf("in span text = %q", got)
	}
	cb, _ := p.b.Stmts.Brace(c.Body)
	if cb.LBrace != c.InSpan {
		t.Fatalf("closure body starts at %v, want the 'in' token %v", cb.LBrace, c.InSpan)
	}
	if got := p.text(c.CaptureSpan); got != "[weak self, n = count]" {
		t.Fatalf("capture span text = %q", got)
	}
}

func TestClosureWithoutSignature(t *testing.T) {
	p := parse(t, "run { print(1); for x in xs { use(x) } }\n", parser.Options{})
	p.noErrors(t)
	tlc, _ := p.b.Decls.TopLevelCode(p.res.Decls[0])
	body, _ := p.b.Stmts.Brace(tlc.Body)
	eid, _ := body.Elements[0].Expr()
	c, _ := p.b.Exprs.Closure(p.b.OutermostClosures(eid)[0])
	if c.HasSignature() {
		t.Fatalf("closure reported a signature")
	}
	cb, _ := p.b.Stmts.Brace(c.Body)
	if len(cb.Elements) != 2 {
		t.Fatalf("closure body elements = %d, want 2", len(cb.Elements))
	}
}

func TestMissingCloseBrace(t *testing.T) {
	src := "func f() {\n  let x = 1\n  print(x)"
	p := parse(t, src, parser.Options{})
	if !p.bag.HasErrors() {
		t.Fatalf("expected a diagnostic for the missing '}'")
	}
	found := false
	for _, d := range p.bag.Items() {
		if d.Code == diag.SynUnclosedBrace {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing %s", diag.SynUnclosedBrace.ID())
	}
	body := firstFuncBody(t, p)
	if !body.Missing() {
		t.Fatalf("brace not marked as missing")
	}
	if int(body.LastTokenEnd) != len(src) {
		t.Fatalf("LastTokenEnd = %d, want %d", body.LastTokenEnd, len(src))
	}
}

func TestIfConfigClauses(t *testing.T) {
	src := "#if DEBUG && !os(Windows)\nlet a = 1\n#elseif RELEASE\nlet b = 2\n#else\nlet c = 3\n#endif\n"
	tests := []struct {
		name    string
		defines map[string]bool
		active  int
	}{
		{"debug", map[string]bool{"DEBUG": true}, 0},
		{"debug on windows", map[string]bool{"DEBUG": true, "os(Windows)": true}, 2},
		{"release", map[string]bool{"RELEASE": true}, 1},
		{"none", nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, src, parser.Options{Defines: tt.defines})
			p.noErrors(t)
			ic, ok := p.b.Decls.IfConfig(p.res.Decls[0])
			if !ok || len(ic.Clauses) != 3 {
				t.Fatalf("expected an #if with 3 clauses")
			}
			for i, c := range ic.Clauses {
				if c.Active != (i == tt.active) {
					t.Fatalf("clause %d active=%v, want clause %d active", i, c.Active, tt.active)
				}
				if len(c.Elements) != 2 {
					t.Fatalf("clause %d has %d elements, want binding+var", i, len(c.Elements))
				}
			}
		})
	}
}

func TestDelayedBodies(t *testing.T) {
	src := "func outer() {\n  func inner() { let z = 0 }\n  let y = 1\n}\n"
	p := parse(t, src, parser.Options{DelayBodies: true})
	p.noErrors(t)
	fid := p.res.Decls[0]
	fn, _ := p.b.Decls.Func(fid)
	if !fn.BodyDelayed || fn.Body.IsValid() {
		t.Fatalf("body should be delayed: %+v", fn)
	}
	if p.text(fn.BodySpan)[0] != '{' {
		t.Fatalf("body span %q does not start at '{'", p.text(fn.BodySpan))
	}
	if err := parser.ParseDelayedBody(p.fs, fid, p.b, parser.Options{DelayBodies: true}); err != nil {
		t.Fatalf("ParseDelayedBody: %v", err)
	}
	body := firstFuncBody(t, p)
	// inner function is local and parsed eagerly
	innerID, _ := body.Elements[0].Decl()
	inner, ok := p.b.Decls.Func(innerID)
	if !ok || inner.BodyDelayed || !inner.Body.IsValid() {
		t.Fatalf("local function body not parsed")
	}
	if len(body.Elements) != 3 {
		t.Fatalf("outer body elements = %d, want 3", len(body.Elements))
	}
}

func TestPropertyWrapperAndAccessors(t *testing.T) {
	src := "struct S {\n  @Clamped(lo: 0, hi: 10) var level: Int = 5\n  var total: Int {\n    get { level }\n    set(v) { print(v) }\n  }\n  var twice: Int { level * 2 }\n  var watched = 0 {\n    didSet { print(oldValue) }\n  }\n}\n"
	p := parse(t, src, parser.Options{})
	p.noErrors(t)
	nom, ok := p.b.Decls.Nominal(p.res.Decls[0])
	if !ok {
		t.Fatalf("expected struct")
	}
	var bindings []ast.DeclID
	for _, m := range nom.Members {
		if p.b.Decls.Get(m).Kind == ast.DeclPatternBinding {
			bindings = append(bindings, m)
		}
	}
	if len(bindings) != 4 {
		t.Fatalf("bindings = %d, want 4", len(bindings))
	}
	attrs := p.b.Decls.Get(bindings[0]).Attrs
	if len(attrs) != 1 || p.b.Attrs.Get(attrs[0]).Kind != ast.AttrPropertyWrapper {
		t.Fatalf("expected a property wrapper attribute")
	}
	if args := p.b.Attrs.Get(attrs[0]).Args; len(args) != 2 {
		t.Fatalf("wrapper args = %d, want 2", len(args))
	}
	wantAccessors := []int{0, 2, 1, 1}
	for i, id := range bindings {
		pbd, _ := p.b.Decls.PatternBinding(id)
		if got := len(pbd.Entries[0].Accessors); got != wantAccessors[i] {
			t.Fatalf("binding %d accessors = %d, want %d", i, got, wantAccessors[i])
		}
	}
	pbd, _ := p.b.Decls.PatternBinding(bindings[1])
	set, _ := p.b.Decls.Accessor(pbd.Entries[0].Accessors[1])
	if set.Kind != ast.AccessorSet || p.b.Name(set.ParamName) != "v" {
		t.Fatalf("setter = %+v", set)
	}
	watched, _ := p.b.Decls.PatternBinding(bindings[3])
	if !watched.Entries[0].Init.IsValid() {
		t.Fatalf("observed property lost its initializer")
	}
}

func TestSwitchCases(t *testing.T) {
	src := "switch v {\ncase .pair(let a, let b) where a > b:\n  use(a)\n  use(b)\ncase 1...5, 7:\n  break\ndefault:\n  break\n}\n"
	p := parse(t, src, parser.Options{})
	p.noErrors(t)
	tlc, _ := p.b.Decls.TopLevelCode(p.res.Decls[0])
	body, _ := p.b.Stmts.Brace(tlc.Body)
	sid, _ := body.Elements[0].Stmt()
	sw, ok := p.b.Stmts.Switch(sid)
	if !ok || len(sw.Cases) != 3 {
		t.Fatalf("expected a switch with 3 cases")
	}
	first, _ := p.b.Stmts.Case(sw.Cases[0])
	if names := p.b.Patterns.BoundNames(first.Labels[0].Pattern); len(names) != 2 {
		t.Fatalf("first case binds %d names, want 2", len(names))
	}
	if !first.Labels[0].Where.IsValid() {
		t.Fatalf("where clause lost")
	}
	fb, _ := p.b.Stmts.Brace(first.Body)
	if !fb.Implicit || len(fb.Elements) != 2 {
		t.Fatalf("first case body implicit=%v elements=%d", fb.Implicit, len(fb.Elements))
	}
	second, _ := p.b.Stmts.Case(sw.Cases[1])
	if len(second.Labels) != 2 {
		t.Fatalf("second case labels = %d, want 2", len(second.Labels))
	}
	last, _ := p.b.Stmts.Case(sw.Cases[2])
	if !last.IsDefault {
		t.Fatalf("last case is not default")
	}
}

func TestDoCatchAndForEach(t *testing.T) {
	src := "do {\n  try run()\n} catch let e as IOError where e.fatal {\n  log(e)\n} catch {\n  log(error)\n}\nfor (i, x) in pairs where i > 0 { use(x) }\n"
	p := parse(t, src, parser.Options{})
	p.noErrors(t)
	tlc, _ := p.b.Decls.TopLevelCode(p.res.Decls[0])
	body, _ := p.b.Stmts.Brace(tlc.Body)
	sid, _ := body.Elements[0].Stmt()
	dc, ok := p.b.Stmts.DoCatch(sid)
	if !ok || len(dc.Catches) != 2 {
		t.Fatalf("expected do-catch with 2 catches")
	}
	c0, _ := p.b.Stmts.Catch(dc.Catches[0])
	if !c0.Pattern.IsValid() || !c0.Where.IsValid() {
		t.Fatalf("first catch = %+v", c0)
	}
	c1, _ := p.b.Stmts.Catch(dc.Catches[1])
	if c1.Pattern.IsValid() {
		t.Fatalf("bare catch has a pattern")
	}

	tlc2, _ := p.b.Decls.TopLevelCode(p.res.Decls[1])
	body2, _ := p.b.Stmts.Brace(tlc2.Body)
	fid, _ := body2.Elements[0].Stmt()
	fe, ok := p.b.Stmts.ForEach(fid)
	if !ok {
		t.Fatalf("expected for-each")
	}
	if names := p.b.Patterns.BoundNames(fe.Pattern); len(names) != 2 {
		t.Fatalf("for-each binds %d names", len(names))
	}
	if !fe.Where.IsValid() || !fe.Body.IsValid() {
		t.Fatalf("for-each where/body missing")
	}
}

func TestParseAppended(t *testing.T) {
	p := parse(t, "let a = 1\n", parser.Options{})
	off, err := p.fs.Extend(p.src, []byte("func g() {}\nprint(a)\n"))
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	res, err := parser.ParseAppended(p.fs, p.res.File, off, p.b, parser.Options{})
	if err != nil {
		t.Fatalf("ParseAppended: %v", err)
	}
	if len(res.Decls) != 2 {
		t.Fatalf("appended decls = %d, want 2", len(res.Decls))
	}
	f := p.b.Files.Get(p.res.File)
	if len(f.Decls) != 4 {
		t.Fatalf("file decls = %d, want 4", len(f.Decls))
	}
	if f.Span.End != p.fs.Get(p.src).Len() {
		t.Fatalf("file span not widened: %v", f.Span)
	}
}

func TestGenericFunctionAndExtension(t *testing.T) {
	src := "@_specialize(where T == Int)\nfunc id<T: Equatable, U>(_ x: T, y: U = .zero) -> T where T: Hashable { return x }\nextension Array: P where Element: Q {\n  static func make() -> Self { fatalError() }\n}\n"
	p := parse(t, src, parser.Options{})
	p.noErrors(t)
	fn, _ := p.b.Decls.Func(p.res.Decls[0])
	if len(fn.Generics) != 2 || len(fn.Params) != 2 {
		t.Fatalf("generics=%d params=%d", len(fn.Generics), len(fn.Params))
	}
	attrs := p.b.Decls.Get(p.res.Decls[0]).Attrs
	if len(attrs) != 1 || p.b.Attrs.Get(attrs[0]).Kind != ast.AttrSpecialize {
		t.Fatalf("expected a specialize attribute")
	}
	param, _ := p.b.Decls.Param(fn.Params[1])
	if !param.Default.IsValid() {
		t.Fatalf("default argument lost")
	}
	if got := p.text(fn.GenericSpan); got != "<T: Equatable, U>" {
		t.Fatalf("generic span = %q", got)
	}
	ext, ok := p.b.Decls.Extension(p.res.Decls[1])
	if !ok || len(ext.Members) != 1 {
		t.Fatalf("extension members missing")
	}
	member, _ := p.b.Decls.Func(ext.Members[0])
	if !member.Static {
		t.Fatalf("static modifier lost")
	}
}

func TestBindingWithoutPatternStopsAtKeyword(t *testing.T) {
	tests := []struct {
		src      string
		entries  int
		emptyAt  int // индекс записи без шаблона
		emptyOff uint32
		declText string
	}{
		{src: "let!x\n", entries: 1, emptyAt: 0, emptyOff: 3, declText: "let"},
		{src: "let x = 1, !\n", entries: 2, emptyAt: 1, emptyOff: 10, declText: "let x = 1,"},
		{src: "var a, ,b\n", entries: 3, emptyAt: 1, emptyOff: 6, declText: "var a, ,b"},
	}
	for _, tt := range tests {
		p := parse(t, tt.src, parser.Options{})
		if p.bag.Len() == 0 {
			t.Fatalf("%q: expected a syntax error", tt.src)
		}
		decl := p.b.Decls.Get(p.res.Decls[0])
		pbd, ok := p.b.Decls.PatternBinding(p.res.Decls[0])
		if !ok {
			t.Fatalf("%q: first decl is %v", tt.src, decl.Kind)
		}
		if got := p.text(decl.Span); got != tt.declText {
			t.Fatalf("%q: binding covers %q, want %q", tt.src, got, tt.declText)
		}
		if len(pbd.Entries) != tt.entries {
			t.Fatalf("%q: entries = %d, want %d", tt.src, len(pbd.Entries), tt.entries)
		}
		sp := pbd.Entries[tt.emptyAt].Span
		if !sp.Empty() || sp.Start != tt.emptyOff {
			t.Fatalf("%q: entry %d span = %v, want empty at %d", tt.src, tt.emptyAt, sp, tt.emptyOff)
		}
		for i, e := range pbd.Entries {
			if !decl.Span.Contains(e.Span) {
				t.Fatalf("%q: entry %d %v outside binding %v", tt.src, i, e.Span, decl.Span)
			}
		}
	}
}
