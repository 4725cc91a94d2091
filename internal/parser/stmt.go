package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// parseBrace expects '{' and parses a statement list up to the matching '}'.
func (p *Parser) parseBrace() ast.StmtID {
	lb, ok := p.expect(token.LBrace, diag.SynExpectBody, "expected '{'")
	if !ok {
		return ast.NoStmtID
	}
	return p.parseBraceAfter(lb)
}

// parseBraceAfter parses the rest of a brace whose '{' was already consumed.
// A missing '}' is reported and the brace ends at the last consumed token.
func (p *Parser) parseBraceAfter(lb token.Token) ast.StmtID {
	elems := p.parseElements(func() bool { return p.at(token.RBrace) })
	data := ast.BraceStmt{
		Elements: elems,
		LBrace:   lb.Span,
		RBrace:   source.NoSpan,
	}
	if rb, ok := p.eat(token.RBrace); ok {
		data.RBrace = rb.Span
	} else {
		p.unclosedBrace(lb.Span, "expected '}' at end of block")
	}
	data.LastTokenEnd = p.lastSpan.End
	return p.arenas.Stmts.NewBrace(lb.Span.Cover(p.lastSpan), data)
}

// parseElements reads decls, statements and expressions until stop.
func (p *Parser) parseElements(stop func() bool) []ast.Element {
	var out []ast.Element
	for !p.at(token.EOF) && !stop() {
		start := p.pos
		if p.atDeclStart() {
			if ds, ok := p.parseDecl(declContext{kind: ctxLocal}); ok {
				for _, d := range ds {
					out = append(out, ast.DeclElement(d))
				}
			}
		} else if el, ok := p.parseStmtElement(); ok {
			out = append(out, el)
		}
		if p.pos == start {
			p.err(diag.SynUnexpectedToken, "unexpected \""+p.peek().Text+"\"")
			p.advance()
			continue
		}
		p.endOfStatement()
	}
	return out
}

func isLabeledKeyword(k token.Kind) bool {
	switch k {
	case token.KwWhile, token.KwFor, token.KwRepeat, token.KwDo, token.KwIf, token.KwSwitch:
		return true
	default:
		return false
	}
}

// parseStmtElement parses one statement or bare expression.
func (p *Parser) parseStmtElement() (ast.Element, bool) {
	if p.at(token.Ident) && p.peekN(1).Kind == token.Colon && isLabeledKeyword(p.peekN(2).Kind) {
		p.advance() // label
		p.advance() // :
	}
	var st ast.StmtID
	switch p.peek().Kind {
	case token.KwIf:
		st = p.parseIf()
	case token.KwGuard:
		st = p.parseGuard()
	case token.KwWhile:
		st = p.parseWhile()
	case token.KwRepeat:
		st = p.parseRepeat()
	case token.KwFor:
		st = p.parseForEach()
	case token.KwSwitch:
		st = p.parseSwitch()
	case token.KwDo:
		st = p.parseDo()
	case token.KwDefer:
		kw := p.advance()
		body := p.parseBodyBrace("defer")
		st = p.arenas.Stmts.NewDefer(kw.Span.Cover(p.lastSpan), body)
	case token.KwReturn, token.KwThrow:
		st = p.parseReturn()
	case token.KwBreak, token.KwContinue:
		kw := p.advance()
		kind := ast.StmtBreak
		if kw.Kind == token.KwContinue {
			kind = ast.StmtContinue
		}
		if p.at(token.Ident) && !p.peek().StartsLine() {
			p.advance() // label
		}
		st = p.arenas.Stmts.NewJump(kind, kw.Span.Cover(p.lastSpan))
	default:
		e := p.parseExpr()
		if !e.IsValid() {
			return ast.Element{}, false
		}
		return ast.ExprElement(e), true
	}
	if !st.IsValid() {
		return ast.Element{}, false
	}
	return ast.StmtElement(st), true
}

// parseBodyBrace parses the mandatory body of a statement.
func (p *Parser) parseBodyBrace(what string) ast.StmtID {
	if !p.at(token.LBrace) {
		p.err(diag.SynExpectBody, "expected '{' after "+what)
		return ast.NoStmtID
	}
	saved := p.noTrailing
	p.noTrailing = false
	body := p.parseBrace()
	p.noTrailing = saved
	return body
}

func (p *Parser) parseReturn() ast.StmtID {
	kw := p.advance()
	kind := ast.StmtReturn
	if kw.Kind == token.KwThrow {
		kind = ast.StmtThrow
	}
	value := ast.NoExprID
	next := p.peek()
	if !next.StartsLine() && !p.atOr(token.EOF, token.RBrace, token.Semicolon, token.KwCase, token.KwDefault) {
		value = p.parseExpr()
	}
	return p.arenas.Stmts.NewReturn(kind, kw.Span.Cover(p.lastSpan), value)
}
