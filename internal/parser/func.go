package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// parseFunc parses `func name<T>(params) throws -> R { ... }` and `init`.
func (p *Parser) parseFunc(start source.Span, static bool) ast.DeclID {
	kw := p.advance()
	fn := ast.FuncDecl{
		Static:      static,
		GenericSpan: source.NoSpan,
		ParamsSpan:  source.NoSpan,
		BodySpan:    source.NoSpan,
	}
	if kw.Kind == token.KwInit {
		fn.IsInit = true
		fn.Name = p.intern("init")
		fn.NameSpan = kw.Span
		if !p.peek().StartsLine() && p.atOr(token.Question, token.Bang) {
			p.advance()
		}
	} else {
		fn.Name, fn.NameSpan = p.parseFuncName()
	}

	if p.at(token.Lt) {
		fn.Generics, fn.GenericSpan = p.parseGenericParams()
	}
	if p.at(token.LParen) {
		fn.Params, fn.ParamsSpan = p.parseParamList(false)
	} else {
		p.err(diag.SynUnexpectedToken, "expected '(' in function declaration")
	}
	fn.Throws = p.parseEffects()
	if _, ok := p.eat(token.Arrow); ok {
		fn.Result = p.parseType()
	}
	p.skipWhereClause()
	if p.at(token.LBrace) {
		p.parseFuncBody(&fn)
	}
	return p.arenas.Decls.NewFunc(start.Cover(p.lastSpan), fn)
}

// parseFuncName принимает идентификатор или оператор (`static func ==`).
func (p *Parser) parseFuncName() (source.StringID, source.Span) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.Underscore:
		p.advance()
		return p.intern(tok.Text), tok.Span
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.EqEq,
		token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.AndAnd, token.OrOr,
		token.Bang, token.DotDotDot, token.DotDotLt:
		p.advance()
		return p.intern(tok.Text), tok.Span
	}
	if tok.Kind.IsContextualKeyword() {
		p.advance()
		return p.intern(tok.Text), tok.Span
	}
	p.err(diag.SynExpectIdentifier, "expected function name")
	return source.NoStringID, tok.Span
}

// parseEffects съедает async/throws/rethrows.
func (p *Parser) parseEffects() bool {
	throws := false
	for p.at(token.Ident) {
		switch p.peek().Text {
		case "throws", "rethrows":
			throws = true
		case "async":
		default:
			return throws
		}
		p.advance()
	}
	return throws
}

// parseFuncBody either parses the body or, for non-local functions with
// DelayBodies set, records only its span.
func (p *Parser) parseFuncBody(fn *ast.FuncDecl) {
	if p.opts.DelayBodies && p.funcDepth == 0 {
		fn.BodySpan, _ = p.skipBalanced(token.LBrace, token.RBrace)
		fn.BodyDelayed = true
		return
	}
	fn.Body = p.parseNestedBody()
	fn.BodySpan = p.arenas.Stmts.Get(fn.Body).Span
}

// parseNestedBody parses a brace that starts a new function context.
func (p *Parser) parseNestedBody() ast.StmtID {
	p.funcDepth++
	saved := p.noTrailing
	p.noTrailing = false
	body := p.parseBrace()
	p.noTrailing = saved
	p.funcDepth--
	return body
}

// parseGenericParams parses `<T, U: P>`.
func (p *Parser) parseGenericParams() ([]ast.DeclID, source.Span) {
	lt := p.advance()
	var out []ast.DeclID
	for !p.atOr(token.Gt, token.EOF) {
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			break
		}
		gp := ast.GenericParamDecl{Name: name, NameSpan: nameSpan}
		if _, ok := p.eat(token.Colon); ok {
			gp.Constraint = p.parseType()
		}
		out = append(out, p.arenas.Decls.NewGenericParam(nameSpan.Cover(p.lastSpan), gp))
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	p.skipWhereClauseInAngles()
	gt, _ := p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>' to close generic parameters")
	return out, lt.Span.Cover(gt.Span)
}

// skipWhereClauseInAngles съедает `<T where T: P>` (старый синтаксис).
func (p *Parser) skipWhereClauseInAngles() {
	if _, ok := p.eat(token.KwWhere); !ok {
		return
	}
	for !p.atOr(token.Gt, token.EOF, token.LBrace) {
		p.advance()
	}
}

// parseParamList parses `(label name: Type = default, ...)`. Closure
// parameters may omit the type.
func (p *Parser) parseParamList(inClosure bool) ([]ast.DeclID, source.Span) {
	lp := p.advance()
	var out []ast.DeclID
	for !p.atOr(token.RParen, token.EOF) {
		start := p.peek().Span
		first := p.peek()
		if !isParamName(first) {
			p.err(diag.SynExpectIdentifier, "expected parameter name")
			break
		}
		p.advance()
		param := ast.ParamDecl{InClosure: inClosure}
		param.Label = p.intern(first.Text)
		param.Name, param.NameSpan = param.Label, first.Span
		if second := p.peek(); isParamName(second) && second.Kind != token.KwIn {
			p.advance()
			param.Name, param.NameSpan = p.intern(second.Text), second.Span
		}
		if _, ok := p.eat(token.Colon); ok {
			param.Type = p.parseType()
		} else if !inClosure {
			p.err(diag.SynExpectColon, "expected ':' after parameter name")
		}
		if _, ok := p.eat(token.DotDotDot); ok {
			param.Variadic = true
		}
		if _, ok := p.eat(token.Assign); ok {
			param.Default = p.parseExpr()
		}
		out = append(out, p.arenas.Decls.NewParam(start.Cover(p.lastSpan), param))
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list")
	if !ok {
		return out, lp.Span.Cover(p.lastSpan)
	}
	return out, lp.Span.Cover(rp.Span)
}

// isParamName: метки параметров могут быть ключевыми словами (`for`, `in`).
func isParamName(t token.Token) bool {
	return t.Kind == token.Ident || t.Kind == token.Underscore || t.Kind.IsKeyword()
}
