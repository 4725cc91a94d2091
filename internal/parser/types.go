package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// типовые спецификаторы, которые пропускаем перед типом
var typeSpecifiers = map[string]bool{
	"inout": true, "some": true, "any": true, "__owned": true, "borrowing": true, "consuming": true,
}

// parseType reads a type annotation loosely: only the head name and the
// covered text are kept.
func (p *Parser) parseType() ast.TypeRef {
	start := p.peek().Span
	ref := ast.TypeRef{Span: source.NoSpan}
	for {
		switch {
		case p.at(token.At):
			p.advance()
			p.parseIdent()
			if p.at(token.LParen) && !p.peek().StartsLine() {
				p.skipBalanced(token.LParen, token.RParen)
			}
			continue
		case p.at(token.Ident) && typeSpecifiers[p.peek().Text] && p.peekN(1).Kind != token.Colon:
			p.advance()
			continue
		}
		break
	}

	if !p.parseTypeAtom(&ref) {
		p.err(diag.SynExpectType, "expected type, got \""+p.peek().Text+"\"")
		return ref
	}
suffixes:
	for {
		tok := p.peek()
		switch {
		case (tok.Kind == token.Question || tok.Kind == token.Bang) && len(tok.Leading) == 0:
			p.advance()
		case tok.Kind == token.Amp && !tok.StartsLine():
			p.advance()
			var other ast.TypeRef
			p.parseTypeAtom(&other)
		default:
			break suffixes
		}
	}
	p.parseEffects()
	if p.at(token.Arrow) {
		p.advance()
		p.parseType()
	}
	ref.Span = start.Cover(p.lastSpan)
	return ref
}

// parseTypeAtom reads a name with generic arguments, a tuple/function
// parameter list or a collection type.
func (p *Parser) parseTypeAtom(ref *ast.TypeRef) bool {
	switch p.peek().Kind {
	case token.LParen:
		p.skipBalanced(token.LParen, token.RParen)
		return true
	case token.LBracket:
		p.skipBalanced(token.LBracket, token.RBracket)
		return true
	case token.Ident, token.KwSelf:
		tok := p.advance()
		ref.Name = p.intern(tok.Text)
		for {
			if p.at(token.Lt) && len(p.peek().Leading) == 0 {
				p.skipAngles()
				continue
			}
			if p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
				p.advance()
				p.advance()
				continue
			}
			return true
		}
	}
	return false
}

// skipAngles пропускает `<...>` с вложенностью.
func (p *Parser) skipAngles() {
	depth := 0
	for !p.at(token.EOF) {
		tok := p.advance()
		switch tok.Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return
			}
		case token.LBrace, token.RBrace, token.Semicolon:
			return
		}
	}
}
