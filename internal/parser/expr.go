package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

type binaryOp struct {
	prec int
	op   ast.ExprBinaryOp
}

// таблица приоритетов: чем больше, тем сильнее связывает
var binaryOps = map[token.Kind]binaryOp{
	token.OrOr:      {1, ast.ExprBinaryLogicalOr},
	token.AndAnd:    {2, ast.ExprBinaryLogicalAnd},
	token.EqEq:      {3, ast.ExprBinaryEq},
	token.BangEq:    {3, ast.ExprBinaryNotEq},
	token.Lt:        {3, ast.ExprBinaryLess},
	token.LtEq:      {3, ast.ExprBinaryLessEq},
	token.Gt:        {3, ast.ExprBinaryGreater},
	token.GtEq:      {3, ast.ExprBinaryGreaterEq},
	token.DotDotDot: {4, ast.ExprBinaryRangeClosed},
	token.DotDotLt:  {4, ast.ExprBinaryRangeHalfOpen},
	token.Plus:      {5, ast.ExprBinaryAdd},
	token.Minus:     {5, ast.ExprBinarySub},
	token.Star:      {6, ast.ExprBinaryMul},
	token.Slash:     {6, ast.ExprBinaryDiv},
	token.Percent:   {6, ast.ExprBinaryMod},
}

// parseExpr parses an expression including assignment.
func (p *Parser) parseExpr() ast.ExprID {
	lhs := p.parseBinary(1)
	if !lhs.IsValid() {
		return lhs
	}
	if p.atOr(token.Assign, token.PlusAssign) {
		opTok := p.advance()
		op := ast.ExprBinaryAssign
		if opTok.Kind == token.PlusAssign {
			op = ast.ExprBinaryAddAssign
		}
		rhs := p.parseExpr()
		if !rhs.IsValid() {
			return lhs
		}
		return p.arenas.Exprs.NewBinary(ast.ExprAssign, p.span(lhs).Cover(p.span(rhs)), op, lhs, rhs)
	}
	return lhs
}

func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	lhs := p.parsePrefix()
	if !lhs.IsValid() {
		return lhs
	}
	for {
		bop, ok := binaryOps[p.peek().Kind]
		if !ok || bop.prec < minPrec {
			return lhs
		}
		p.advance()
		rhs := p.parseBinary(bop.prec + 1)
		if !rhs.IsValid() {
			return lhs
		}
		lhs = p.arenas.Exprs.NewBinary(ast.ExprBinary, p.span(lhs).Cover(p.span(rhs)), bop.op, lhs, rhs)
	}
}

func (p *Parser) parsePrefix() ast.ExprID {
	tok := p.peek()
	var (
		kind = ast.ExprUnary
		op   ast.ExprUnaryOp
	)
	switch tok.Kind {
	case token.Bang:
		op = ast.ExprUnaryNot
	case token.Minus:
		op = ast.ExprUnaryMinus
	case token.KwTry:
		kind, op = ast.ExprTry, ast.ExprUnaryTry
	case token.Amp: // inout-аргумент
		p.advance()
		return p.parsePrefix()
	default:
		return p.parsePostfix()
	}
	p.advance()
	if kind == ast.ExprTry && !p.peek().StartsLine() && p.atOr(token.Question, token.Bang) {
		p.advance()
	}
	var operand ast.ExprID
	if kind == ast.ExprTry {
		// try покрывает всё выражение справа
		operand = p.parseBinary(1)
	} else {
		operand = p.parsePrefix()
	}
	if !operand.IsValid() {
		return operand
	}
	return p.arenas.Exprs.NewUnary(kind, tok.Span.Cover(p.span(operand)), op, operand)
}

func (p *Parser) parsePostfix() ast.ExprID {
	e := p.parsePrimary()
	if !e.IsValid() {
		return e
	}
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Dot:
			// цепочки `.map { }` часто начинаются с новой строки
			p.advance()
			name := p.peek()
			switch {
			case name.Kind == token.Ident || name.Kind == token.IntLit || name.Kind.IsKeyword():
				p.advance()
			default:
				p.err(diag.SynExpectIdentifier, "expected member name after '.'")
				return e
			}
			e = p.arenas.Exprs.NewMember(p.span(e).Cover(name.Span), e, p.intern(name.Text))
		case (tok.Kind == token.LParen || tok.Kind == token.LBracket) && !tok.StartsLine():
			closeKind := token.RParen
			if tok.Kind == token.LBracket {
				closeKind = token.RBracket
			}
			p.advance()
			args := p.parseArgList(closeKind)
			p.expect(closeKind, diag.SynUnclosedParen, "expected '"+closeKind.String()+"' to close argument list")
			e = p.arenas.Exprs.NewCall(p.span(e).Cover(p.lastSpan), e, args, ast.NoExprID)
		case tok.Kind == token.LBrace && !tok.StartsLine() && !p.noTrailing && !isObserverKeyword(p.peekN(1)):
			closure := p.parseClosure()
			sp := p.span(e).Cover(p.span(closure))
			if call, ok := p.arenas.Exprs.Call(e); ok && !call.Trailing.IsValid() {
				call.Trailing = closure
				p.arenas.Exprs.Get(e).Span = sp
			} else {
				e = p.arenas.Exprs.NewCall(sp, e, nil, closure)
			}
		case (tok.Kind == token.Question || tok.Kind == token.Bang) && len(tok.Leading) == 0:
			// optional chaining / force unwrap не меняют структуру
			p.advance()
			p.arenas.Exprs.Get(e).Span = p.span(e).Cover(tok.Span)
		default:
			return e
		}
	}
}

// parseArgList parses `label: value, value` up to close without consuming it.
func (p *Parser) parseArgList(closeKind token.Kind) []ast.CallArg {
	saved := p.noTrailing
	p.noTrailing = false
	defer func() { p.noTrailing = saved }()

	var args []ast.CallArg
	for !p.atOr(closeKind, token.EOF) {
		arg := ast.CallArg{}
		if next := p.peekN(1); next.Kind == token.Colon && isParamName(p.peek()) {
			arg.Label = p.intern(p.advance().Text)
			p.advance()
		}
		arg.Value = p.parseExpr()
		if !arg.Value.IsValid() {
			break
		}
		// словарные литералы `[k: v]`
		if _, ok := p.eat(token.Colon); ok {
			args = append(args, arg)
			arg = ast.CallArg{Value: p.parseExpr()}
		}
		args = append(args, arg)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	return args
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.KwSelf, token.Underscore, token.KwInit:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok.Text))
	case token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNil:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, literalKind(tok.Kind), p.intern(tok.Text))
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		lb := p.advance()
		args := p.parseArgList(token.RBracket)
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close array literal")
		elems := make([]ast.ExprID, 0, len(args))
		for _, a := range args {
			elems = append(elems, a.Value)
		}
		return p.arenas.Exprs.NewList(ast.ExprArray, lb.Span.Cover(p.lastSpan), elems)
	case token.LBrace:
		return p.parseClosure()
	case token.Dot:
		dot := p.advance()
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return ast.NoExprID
		}
		return p.arenas.Exprs.NewMember(dot.Span.Cover(nameSpan), ast.NoExprID, name)
	}
	if tok.Kind.IsContextualKeyword() {
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok.Text))
	}
	p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
	return ast.NoExprID
}

func literalKind(k token.Kind) ast.ExprLitKind {
	switch k {
	case token.FloatLit:
		return ast.ExprLitFloat
	case token.StringLit:
		return ast.ExprLitString
	case token.KwTrue:
		return ast.ExprLitTrue
	case token.KwFalse:
		return ast.ExprLitFalse
	case token.KwNil:
		return ast.ExprLitNil
	default:
		return ast.ExprLitInt
	}
}

// parseParenOrTuple: `(e)` даёт Paren, `()` и `(a, b)` дают Tuple.
func (p *Parser) parseParenOrTuple() ast.ExprID {
	lp := p.advance()
	args := p.parseArgList(token.RParen)
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parenthesized expression")
	sp := lp.Span.Cover(p.lastSpan)
	if len(args) == 1 && args[0].Label == source.NoStringID {
		return p.arenas.Exprs.NewUnary(ast.ExprParen, sp, ast.ExprUnaryGroup, args[0].Value)
	}
	elems := make([]ast.ExprID, 0, len(args))
	for _, a := range args {
		elems = append(elems, a.Value)
	}
	return p.arenas.Exprs.NewList(ast.ExprTuple, sp, elems)
}

func (p *Parser) span(e ast.ExprID) source.Span {
	if x := p.arenas.Exprs.Get(e); x != nil {
		return x.Span
	}
	return source.NoSpan
}
