package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// withNoTrailing runs fn with trailing closures disabled, so that the '{'
// after a condition starts the body.
func (p *Parser) withNoTrailing(fn func()) {
	saved := p.noTrailing
	p.noTrailing = true
	fn()
	p.noTrailing = saved
}

// parseConditions parses a comma separated condition list of if/guard/while.
func (p *Parser) parseConditions() []ast.Condition {
	var conds []ast.Condition
	p.withNoTrailing(func() {
		for {
			start := p.peek().Span
			var c ast.Condition
			switch p.peek().Kind {
			case token.KwLet, token.KwVar:
				kw := p.advance()
				isLet := kw.Kind == token.KwLet
				sub := p.parsePattern(patternMode{bind: true, typed: true, isLet: isLet})
				c.Kind = ast.CondBinding
				c.Pattern = p.arenas.Patterns.New(ast.Pattern{
					Kind:  ast.PatternBinding,
					Span:  kw.Span.Cover(p.lastSpan),
					Sub:   sub,
					IsLet: isLet,
				})
				if _, ok := p.eat(token.Assign); ok {
					c.Init = p.parseExpr()
				}
				p.declareVars(c.Pattern, ast.NoDeclID, isLet)
			case token.KwCase:
				p.advance()
				c.Kind = ast.CondCase
				c.Pattern = p.parsePattern(patternMode{})
				if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in case condition"); ok {
					c.Init = p.parseExpr()
				}
				p.declareVars(c.Pattern, ast.NoDeclID, true)
			default:
				c.Kind = ast.CondBool
				c.Expr = p.parseExpr()
				if !c.Expr.IsValid() {
					return
				}
			}
			c.Span = start.Cover(p.lastSpan)
			conds = append(conds, c)
			if _, ok := p.eat(token.Comma); !ok {
				return
			}
		}
	})
	return conds
}

func (p *Parser) parseIf() ast.StmtID {
	kw := p.advance()
	data := ast.IfStmt{}
	data.Conds = p.parseConditions()
	data.Then = p.parseBodyBrace("if condition")
	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			data.Else = p.parseIf()
		} else {
			data.Else = p.parseBodyBrace("else")
		}
	}
	return p.arenas.Stmts.NewIf(kw.Span.Cover(p.lastSpan), data)
}

func (p *Parser) parseGuard() ast.StmtID {
	kw := p.advance()
	data := ast.GuardStmt{}
	data.Conds = p.parseConditions()
	if _, ok := p.eat(token.KwElse); !ok {
		p.err(diag.SynGuardMissingElse, "expected 'else' after guard condition")
		if !p.at(token.LBrace) {
			return p.arenas.Stmts.NewGuard(kw.Span.Cover(p.lastSpan), data)
		}
	}
	data.Body = p.parseBodyBrace("guard else")
	return p.arenas.Stmts.NewGuard(kw.Span.Cover(p.lastSpan), data)
}

func (p *Parser) parseWhile() ast.StmtID {
	kw := p.advance()
	data := ast.WhileStmt{}
	data.Conds = p.parseConditions()
	data.Body = p.parseBodyBrace("while condition")
	return p.arenas.Stmts.NewWhile(kw.Span.Cover(p.lastSpan), data)
}

func (p *Parser) parseRepeat() ast.StmtID {
	kw := p.advance()
	data := ast.RepeatWhileStmt{}
	data.Body = p.parseBodyBrace("repeat")
	if _, ok := p.expect(token.KwWhile, diag.SynRepeatMissingWhile, "expected 'while' after repeat body"); ok {
		p.withNoTrailing(func() { data.Cond = p.parseExpr() })
	}
	return p.arenas.Stmts.NewRepeatWhile(kw.Span.Cover(p.lastSpan), data)
}

// parseForEach parses `for [case] pattern in seq [where cond] { }`.
func (p *Parser) parseForEach() ast.StmtID {
	kw := p.advance()
	data := ast.ForEachStmt{}
	p.withNoTrailing(func() {
		mode := patternMode{bind: true, typed: true, isLet: true}
		if _, ok := p.eat(token.KwCase); ok {
			mode = patternMode{}
		}
		data.Pattern = p.parsePattern(mode)
		p.declareVars(data.Pattern, ast.NoDeclID, true)
		if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' after for-each pattern"); !ok {
			return
		}
		data.Seq = p.parseExpr()
		if _, ok := p.eat(token.KwWhere); ok {
			data.Where = p.parseExpr()
		}
	})
	data.Body = p.parseBodyBrace("for-each sequence")
	return p.arenas.Stmts.NewForEach(kw.Span.Cover(p.lastSpan), data)
}

func (p *Parser) parseSwitch() ast.StmtID {
	kw := p.advance()
	data := ast.SwitchStmt{LBrace: source.NoSpan, RBrace: source.NoSpan}
	p.withNoTrailing(func() { data.Subject = p.parseExpr() })
	lb, ok := p.expect(token.LBrace, diag.SynExpectBody, "expected '{' after switch subject")
	if !ok {
		return p.arenas.Stmts.NewSwitch(kw.Span.Cover(p.lastSpan), data)
	}
	data.LBrace = lb.Span
	saved := p.noTrailing
	p.noTrailing = false
	for !p.atOr(token.RBrace, token.EOF) {
		if p.atCaseLabel() {
			data.Cases = append(data.Cases, p.parseCase())
			continue
		}
		p.err(diag.SynExpectCaseLabel, "all statements inside a switch must be covered by a 'case' or 'default'")
		for !p.atOr(token.RBrace, token.EOF) && !p.atCaseLabel() {
			if p.at(token.LBrace) {
				p.skipBalanced(token.LBrace, token.RBrace)
				continue
			}
			p.advance()
		}
	}
	p.noTrailing = saved
	if rb, ok := p.eat(token.RBrace); ok {
		data.RBrace = rb.Span
	} else {
		p.unclosedBrace(lb.Span, "expected '}' to close switch")
	}
	return p.arenas.Stmts.NewSwitch(kw.Span.Cover(p.lastSpan), data)
}

// atCaseLabel также узнаёт `@unknown default:`.
func (p *Parser) atCaseLabel() bool {
	if p.atOr(token.KwCase, token.KwDefault) {
		return true
	}
	return p.at(token.At) && p.peekN(1).Text == "unknown"
}

// parseCase parses one `case p1, p2 where c:` or `default:` with its body.
// The body is an implicit brace from the colon to the last statement.
func (p *Parser) parseCase() ast.StmtID {
	start := p.peek().Span
	if p.at(token.At) {
		p.advance()
		p.advance()
	}
	data := ast.CaseStmt{ColonSpan: source.NoSpan}
	if _, ok := p.eat(token.KwDefault); ok {
		data.IsDefault = true
	} else {
		p.advance() // case
		p.withNoTrailing(func() {
			for {
				label := ast.CaseLabel{Pattern: p.parsePattern(patternMode{})}
				p.declareVars(label.Pattern, ast.NoDeclID, true)
				if _, ok := p.eat(token.KwWhere); ok {
					label.Where = p.parseExpr()
				}
				data.Labels = append(data.Labels, label)
				if _, ok := p.eat(token.Comma); !ok {
					return
				}
			}
		})
	}
	colon, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after case label")
	bodyStart := p.lastSpan.End
	if ok {
		data.ColonSpan = colon.Span
		bodyStart = colon.Span.End
	}
	elems := p.parseElements(func() bool { return p.atOr(token.RBrace) || p.atCaseLabel() })
	bodySpan := source.PointSpan(p.lastSpan.File, bodyStart)
	if len(elems) > 0 {
		bodySpan = bodySpan.WithEnd(p.lastSpan.End)
	}
	data.Body = p.arenas.Stmts.NewBrace(bodySpan, ast.BraceStmt{
		Elements:     elems,
		LBrace:       source.NoSpan,
		RBrace:       source.NoSpan,
		Implicit:     true,
		LastTokenEnd: p.lastSpan.End,
	})
	return p.arenas.Stmts.NewCase(start.Cover(p.lastSpan), data)
}

// parseDo parses `do { }` and `do { } catch pattern where cond { } ...`.
func (p *Parser) parseDo() ast.StmtID {
	kw := p.advance()
	body := p.parseBodyBrace("do")
	if !p.at(token.KwCatch) {
		return p.arenas.Stmts.NewDo(kw.Span.Cover(p.lastSpan), body)
	}
	data := ast.DoCatchStmt{Body: body}
	for p.at(token.KwCatch) {
		ckw := p.advance()
		c := ast.CatchStmt{}
		p.withNoTrailing(func() {
			if !p.atOr(token.LBrace, token.KwWhere) {
				c.Pattern = p.parsePattern(patternMode{})
				p.declareVars(c.Pattern, ast.NoDeclID, true)
			}
			if _, ok := p.eat(token.KwWhere); ok {
				c.Where = p.parseExpr()
			}
		})
		c.Body = p.parseBodyBrace("catch")
		data.Catches = append(data.Catches, p.arenas.Stmts.NewCatch(ckw.Span.Cover(p.lastSpan), c))
	}
	return p.arenas.Stmts.NewDoCatch(kw.Span.Cover(p.lastSpan), data)
}
