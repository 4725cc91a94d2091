package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/token"
)

// patternMode: bind — голые идентификаторы объявляют имена (после let/var);
// typed — разрешена аннотация `: Type`.
type patternMode struct {
	bind  bool
	typed bool
	isLet bool
}

func (p *Parser) parsePattern(mode patternMode) ast.PatternID {
	id := p.parsePatternAtom(mode)
	if !id.IsValid() {
		return id
	}
	if p.at(token.Ident) && p.peek().Text == "as" {
		p.advance()
		ty := p.parseType()
		id = p.arenas.Patterns.New(ast.Pattern{
			Kind: ast.PatternTyped,
			Span: p.arenas.Patterns.Get(id).Span.Cover(ty.Span),
			Sub:  id,
			Type: ty,
		})
	}
	if mode.typed && p.at(token.Colon) {
		p.advance()
		ty := p.parseType()
		id = p.arenas.Patterns.New(ast.Pattern{
			Kind: ast.PatternTyped,
			Span: p.arenas.Patterns.Get(id).Span.Cover(ty.Span),
			Sub:  id,
			Type: ty,
		})
	}
	return id
}

func (p *Parser) parsePatternAtom(mode patternMode) ast.PatternID {
	tok := p.peek()
	switch {
	case tok.Kind == token.KwLet || tok.Kind == token.KwVar:
		p.advance()
		isLet := tok.Kind == token.KwLet
		sub := p.parsePattern(patternMode{bind: true, typed: mode.typed, isLet: isLet})
		return p.arenas.Patterns.New(ast.Pattern{
			Kind:  ast.PatternBinding,
			Span:  tok.Span.Cover(p.lastSpan),
			Sub:   sub,
			IsLet: isLet,
		})
	case tok.Kind == token.Underscore:
		p.advance()
		return p.arenas.Patterns.New(ast.Pattern{Kind: ast.PatternAny, Span: tok.Span})
	case tok.Kind == token.LParen:
		return p.parseTuplePattern(mode)
	case tok.Kind == token.Dot:
		return p.parseEnumElementPattern(mode)
	case tok.Kind == token.Ident && tok.Text == "is":
		p.advance()
		ty := p.parseType()
		return p.arenas.Patterns.New(ast.Pattern{Kind: ast.PatternAny, Span: tok.Span.Cover(ty.Span), Type: ty})
	case tok.Kind == token.Ident && p.peekN(1).Kind == token.Dot && isUpperStart(tok.Text):
		return p.parseEnumElementPattern(mode)
	case mode.bind && (tok.Kind == token.Ident || tok.Kind.IsContextualKeyword()):
		p.advance()
		return p.arenas.Patterns.New(ast.Pattern{
			Kind:  ast.PatternNamed,
			Span:  tok.Span,
			Name:  p.intern(tok.Text),
			IsLet: mode.isLet,
		})
	case mode.bind:
		p.err(diag.SynExpectPattern, "expected pattern, got \""+tok.Text+"\"")
		return ast.NoPatternID
	}
	e := p.parseExpr()
	if !e.IsValid() {
		return ast.NoPatternID
	}
	return p.arenas.Patterns.New(ast.Pattern{Kind: ast.PatternExpr, Span: p.arenas.Exprs.Get(e).Span, Expr: e})
}

func (p *Parser) parseTuplePattern(mode patternMode) ast.PatternID {
	lp := p.advance()
	var elems []ast.PatternID
	for !p.atOr(token.RParen, token.EOF) {
		// метка элемента кортежа: `(x: let a, y: let b)`
		if p.at(token.Ident) && p.peekN(1).Kind == token.Colon && !mode.typed {
			p.advance()
			p.advance()
		}
		el := p.parsePattern(patternMode{bind: mode.bind, isLet: mode.isLet})
		if !el.IsValid() {
			break
		}
		elems = append(elems, el)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close tuple pattern")
	return p.arenas.Patterns.New(ast.Pattern{Kind: ast.PatternTuple, Span: lp.Span.Cover(p.lastSpan), Elements: elems})
}

// parseEnumElementPattern parses `.name`, `Type.name` and `.name(sub, ...)`.
func (p *Parser) parseEnumElementPattern(mode patternMode) ast.PatternID {
	start := p.peek().Span
	if p.at(token.Ident) {
		p.advance()
	}
	var name token.Token
	for p.at(token.Dot) {
		p.advance()
		name = p.peek()
		if _, _, ok := p.parseIdent(); !ok {
			return ast.NoPatternID
		}
	}
	pat := ast.Pattern{Kind: ast.PatternEnumElement, Name: p.intern(name.Text)}
	if p.at(token.LParen) && !p.peek().StartsLine() {
		pat.Sub = p.parseTuplePattern(patternMode{bind: mode.bind, isLet: mode.isLet})
	}
	pat.Span = start.Cover(p.lastSpan)
	return p.arenas.Patterns.New(pat)
}
