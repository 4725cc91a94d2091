package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// parseClosure parses `{ [captures] (params) -> R in statements }`. With a
// signature the body brace starts at the `in` token.
func (p *Parser) parseClosure() ast.ExprID {
	lb := p.advance()
	data := ast.ExprClosureData{
		CaptureSpan: source.NoSpan,
		ParamsSpan:  source.NoSpan,
		InSpan:      source.NoSpan,
	}
	open := lb
	if p.closureHasSignature() {
		if p.at(token.LBracket) {
			data.Captures, data.CaptureSpan = p.parseCaptureList()
		}
		data.Params, data.ParamsSpan = p.parseClosureParams()
		p.parseEffects()
		if _, ok := p.eat(token.Arrow); ok {
			p.parseType()
		}
		if in, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after closure signature"); ok {
			data.InSpan = in.Span
			open = in
		}
	}

	p.funcDepth++
	saved := p.noTrailing
	p.noTrailing = false
	elems := p.parseElements(func() bool { return p.at(token.RBrace) })
	p.noTrailing = saved
	p.funcDepth--

	brace := ast.BraceStmt{Elements: elems, LBrace: open.Span, RBrace: source.NoSpan}
	if rb, ok := p.eat(token.RBrace); ok {
		brace.RBrace = rb.Span
	} else {
		p.unclosedBrace(lb.Span, "expected '}' at end of closure")
	}
	brace.LastTokenEnd = p.lastSpan.End
	data.Body = p.arenas.Stmts.NewBrace(open.Span.Cover(p.lastSpan), brace)
	return p.arenas.Exprs.NewClosure(lb.Span.Cover(p.lastSpan), data)
}

// closureHasSignature смотрит вперёд до `in` на нулевой глубине; любой токен,
// которого не бывает в сигнатуре, означает обычное тело.
func (p *Parser) closureHasSignature() bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.peekN(i)
		switch t.Kind {
		case token.EOF, token.LBrace, token.RBrace:
			return false
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		case token.KwIn:
			if depth == 0 {
				return true
			}
		case token.Ident, token.Underscore, token.Comma, token.Arrow, token.Colon, token.Dot,
			token.Question, token.Bang, token.Lt, token.Gt, token.KwSelf, token.At, token.Assign:
		default:
			if depth == 0 {
				return false
			}
		}
	}
}

// parseCaptureList parses `[weak self, x = y]`.
func (p *Parser) parseCaptureList() ([]ast.CaptureEntry, source.Span) {
	lb := p.advance()
	var out []ast.CaptureEntry
	for !p.atOr(token.RBracket, token.EOF) {
		entry := ast.CaptureEntry{}
		if t := p.peek(); t.Kind == token.Ident && (t.Text == "weak" || t.Text == "unowned") &&
			(p.peekN(1).Kind == token.Ident || p.peekN(1).Kind == token.KwSelf || p.peekN(1).Kind == token.LParen) {
			p.advance()
			entry.Weak = t.Text == "weak"
			if p.at(token.LParen) {
				p.skipBalanced(token.LParen, token.RParen)
			}
		}
		name := p.peek()
		if name.Kind != token.Ident && name.Kind != token.KwSelf {
			p.err(diag.SynExpectIdentifier, "expected name in capture list")
			break
		}
		p.advance()
		entry.Name, entry.NameSpan = p.intern(name.Text), name.Span
		if _, ok := p.eat(token.Assign); ok {
			entry.Init = p.parseExpr()
		}
		out = append(out, entry)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close capture list")
	return out, lb.Span.Cover(p.lastSpan)
}

// parseClosureParams parses `(a: Int, b)` or the bare `a, b` form.
func (p *Parser) parseClosureParams() ([]ast.DeclID, source.Span) {
	if p.at(token.LParen) {
		return p.parseParamList(true)
	}
	var (
		out []ast.DeclID
		sp  = source.NoSpan
	)
	for p.atOr(token.Ident, token.Underscore) {
		tok := p.advance()
		name := p.intern(tok.Text)
		out = append(out, p.arenas.Decls.NewParam(tok.Span, ast.ParamDecl{
			Label:     name,
			Name:      name,
			NameSpan:  tok.Span,
			InClosure: true,
		}))
		sp = sp.Cover(tok.Span)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	return out, sp
}
