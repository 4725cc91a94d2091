package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/token"
)

// parseIfConfig parses `#if cond ... #elseif cond ... #else ... #endif`.
// At most one clause is active: the first whose condition holds.
func (p *Parser) parseIfConfig(ctx declContext) ast.DeclID {
	start := p.peek().Span
	var clauses []ast.IfConfigClause
	taken := false
	for {
		kw := p.advance() // #if / #elseif / #else
		clause := ast.IfConfigClause{}
		holds := true
		if kw.Kind != token.PoundElse {
			p.withNoTrailing(func() { clause.Cond = p.parseExpr() })
			holds = p.evalCondition(clause.Cond)
		}
		clause.Active = !taken && holds
		if clause.Active {
			taken = true
		}
		clause.Elements = p.parseClauseElements(ctx)
		clause.Span = kw.Span.Cover(p.lastSpan)
		clauses = append(clauses, clause)
		if !p.atOr(token.PoundElseIf, token.PoundElse) {
			break
		}
	}
	if _, ok := p.eat(token.PoundEndIf); !ok {
		p.report(diag.SynIfConfigUnterminated, diag.SevError, start, "expected '#endif' to close '#if'")
	}
	return p.arenas.Decls.NewIfConfig(start.Cover(p.lastSpan), clauses)
}

func (p *Parser) atClauseEnd() bool {
	return p.atOr(token.PoundElseIf, token.PoundElse, token.PoundEndIf)
}

// parseClauseElements parses clause contents the way the enclosing context
// would: top-level decls, statements or members.
func (p *Parser) parseClauseElements(ctx declContext) []ast.Element {
	switch ctx.kind {
	case ctxLocal:
		return p.parseElements(func() bool { return p.at(token.RBrace) || p.atClauseEnd() })
	case ctxMember:
		var out []ast.Element
		for _, d := range p.parseMembers(ctx, func() bool { return p.at(token.RBrace) || p.atClauseEnd() }) {
			out = append(out, ast.DeclElement(d))
		}
		return out
	}
	var out []ast.Element
	for !p.at(token.EOF) && !p.atClauseEnd() {
		start := p.pos
		if p.at(token.RBrace) {
			p.err(diag.SynUnexpectedTopLevel, "unexpected '}' at top level")
			p.advance()
			continue
		}
		if ds, ok := p.parseTopLevelElement(); ok {
			for _, d := range ds {
				out = append(out, ast.DeclElement(d))
			}
		}
		p.endOfStatement()
		if p.pos == start {
			p.advance()
		}
	}
	return out
}

// evalCondition evaluates a build condition against Options.Defines.
// Calls like `os(Linux)` are looked up by their written form.
func (p *Parser) evalCondition(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprIdent:
		ident, _ := p.arenas.Exprs.Ident(id)
		return p.opts.Defines[p.arenas.Name(ident.Name)]
	case ast.ExprLit:
		lit, _ := p.arenas.Exprs.Literal(id)
		return lit.Kind == ast.ExprLitTrue
	case ast.ExprParen:
		u, _ := p.arenas.Exprs.Unary(id)
		return p.evalCondition(u.Operand)
	case ast.ExprUnary:
		u, _ := p.arenas.Exprs.Unary(id)
		if u.Op == ast.ExprUnaryNot {
			return !p.evalCondition(u.Operand)
		}
	case ast.ExprBinary:
		bin, _ := p.arenas.Exprs.Binary(id)
		switch bin.Op {
		case ast.ExprBinaryLogicalAnd:
			return p.evalCondition(bin.Left) && p.evalCondition(bin.Right)
		case ast.ExprBinaryLogicalOr:
			return p.evalCondition(bin.Left) || p.evalCondition(bin.Right)
		}
	case ast.ExprCall:
		return p.opts.Defines[string(p.file.Content[e.Span.Start:e.Span.End])]
	}
	p.report(diag.SynIfConfigBadCondition, diag.SevError, e.Span, "unsupported '#if' condition")
	return false
}
