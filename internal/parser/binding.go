package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// parseBinding parses `var`/`let` with one or more entries. The returned
// slice holds the binding followed by one Var decl per bound name.
func (p *Parser) parseBinding(start source.Span, static bool) []ast.DeclID {
	kw := p.advance()
	data := ast.PatternBindingDecl{IsLet: kw.Kind == token.KwLet, Static: static}
	for {
		entryPos, entryStart := p.pos, p.peek().Span
		entry := ast.PatternEntry{EqualSpan: source.NoSpan, AccessorsSpan: source.NoSpan}
		entry.Pattern = p.parsePattern(patternMode{bind: true, typed: true, isLet: data.IsLet})
		if eq, ok := p.eat(token.Assign); ok {
			entry.EqualSpan = eq.Span
			entry.Init = p.parseExpr()
		}
		if p.at(token.LBrace) && (!entry.Init.IsValid() || isObserverKeyword(p.peekN(1))) {
			entry.Accessors, entry.AccessorsSpan = p.parseAccessorBlock()
		}
		entry.Span = p.spanSince(entryPos, entryStart)
		data.Entries = append(data.Entries, entry)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}

	pbd := p.arenas.Decls.NewPatternBinding(start.Cover(p.lastSpan), data)
	var vars []ast.DeclID
	for _, e := range data.Entries {
		vars = append(vars, p.declareVars(e.Pattern, pbd, data.IsLet)...)
	}
	stored, _ := p.arenas.Decls.PatternBinding(pbd)
	stored.Vars = vars
	return append([]ast.DeclID{pbd}, vars...)
}

// declareVars creates a Var decl for every name the pattern binds.
func (p *Parser) declareVars(pat ast.PatternID, binding ast.DeclID, isLet bool) []ast.DeclID {
	var out []ast.DeclID
	p.arenas.Patterns.Walk(pat, func(_ ast.PatternID, pt *ast.Pattern) {
		if pt.Kind != ast.PatternNamed {
			return
		}
		v := p.arenas.Decls.NewVar(pt.Span, ast.VarDecl{
			Name:     pt.Name,
			NameSpan: pt.Span,
			IsLet:    isLet,
			Binding:  binding,
		})
		vd, _ := p.arenas.Decls.Var(v)
		vd.Pattern = pat
		pt.Var = v
		out = append(out, v)
	})
	return out
}

func isObserverKeyword(t token.Token) bool {
	return t.Kind == token.KwWillSet || t.Kind == token.KwDidSet
}

func isAccessorKeyword(t token.Token) bool {
	switch t.Kind {
	case token.KwGet, token.KwSet, token.KwWillSet, token.KwDidSet:
		return true
	default:
		return false
	}
}

// atAccessorList отличает `{ get set }` / `{ get { } }` от неявного геттера.
func (p *Parser) atAccessorList() bool {
	if !isAccessorKeyword(p.peek()) {
		return false
	}
	next := p.peekN(1)
	switch next.Kind {
	case token.LBrace, token.LParen, token.RBrace:
		return true
	}
	return isAccessorKeyword(next) || next.StartsLine()
}

// parseAccessorBlock parses `{ get { } set(v) { } }` or an implicit getter
// `{ statements }`.
func (p *Parser) parseAccessorBlock() ([]ast.DeclID, source.Span) {
	lb := p.advance()
	if !p.atAccessorList() {
		p.funcDepth++
		saved := p.noTrailing
		p.noTrailing = false
		body := p.parseBraceAfter(lb)
		p.noTrailing = saved
		p.funcDepth--
		sp := p.arenas.Stmts.Get(body).Span
		acc := p.arenas.Decls.NewAccessor(sp, ast.AccessorDecl{Kind: ast.AccessorGet, Body: body})
		return []ast.DeclID{acc}, sp
	}

	var out []ast.DeclID
	for isAccessorKeyword(p.peek()) {
		kw := p.advance()
		data := ast.AccessorDecl{Kind: accessorKind(kw.Kind)}
		if _, ok := p.eat(token.LParen); ok {
			data.ParamName, _, _ = p.parseIdent()
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after accessor parameter")
		}
		if p.at(token.LBrace) {
			data.Body = p.parseNestedBody()
		}
		out = append(out, p.arenas.Decls.NewAccessor(kw.Span.Cover(p.lastSpan), data))
		p.eat(token.Semicolon)
	}
	if rb, ok := p.eat(token.RBrace); ok {
		return out, lb.Span.Cover(rb.Span)
	}
	p.unclosedBrace(lb.Span, "expected '}' to close accessor block")
	return out, lb.Span.Cover(p.lastSpan)
}

func accessorKind(k token.Kind) ast.AccessorKind {
	switch k {
	case token.KwSet:
		return ast.AccessorSet
	case token.KwWillSet:
		return ast.AccessorWillSet
	case token.KwDidSet:
		return ast.AccessorDidSet
	default:
		return ast.AccessorGet
	}
}
