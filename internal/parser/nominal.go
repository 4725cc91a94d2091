package parser

import (
	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

func nominalKind(k token.Kind) ast.NominalKind {
	switch k {
	case token.KwClass:
		return ast.NominalClass
	case token.KwEnum:
		return ast.NominalEnum
	case token.KwProtocol:
		return ast.NominalProtocol
	default:
		return ast.NominalStruct
	}
}

// parseNominal parses struct, class, enum and protocol declarations.
func (p *Parser) parseNominal(start source.Span) ast.DeclID {
	kw := p.advance()
	data := ast.NominalDecl{
		Kind:        nominalKind(kw.Kind),
		GenericSpan: source.NoSpan,
		BodySpan:    source.NoSpan,
	}
	data.Name, data.NameSpan, _ = p.parseIdent()
	if p.at(token.Lt) {
		data.Generics, data.GenericSpan = p.parseGenericParams()
	}
	data.Inherits = p.parseInheritance()
	p.skipWhereClause()
	ctx := declContext{kind: ctxMember, inEnum: data.Kind == ast.NominalEnum}
	data.Members, data.BodySpan = p.parseMemberBlock(ctx)
	return p.arenas.Decls.NewNominal(start.Cover(p.lastSpan), data)
}

func (p *Parser) parseExtension(start source.Span) ast.DeclID {
	p.advance() // extension
	data := ast.ExtensionDecl{BodySpan: source.NoSpan}
	data.Extended = p.parseType()
	data.Inherits = p.parseInheritance()
	p.skipWhereClause()
	data.Members, data.BodySpan = p.parseMemberBlock(declContext{kind: ctxMember})
	return p.arenas.Decls.NewExtension(start.Cover(p.lastSpan), data)
}

func (p *Parser) parseInheritance() []ast.TypeRef {
	if _, ok := p.eat(token.Colon); !ok {
		return nil
	}
	var out []ast.TypeRef
	for {
		out = append(out, p.parseType())
		if _, ok := p.eat(token.Comma); !ok {
			return out
		}
	}
}

// parseMemberBlock parses `{ members }`; BodySpan is NoSpan when the brace
// is absent.
func (p *Parser) parseMemberBlock(ctx declContext) ([]ast.DeclID, source.Span) {
	lb, ok := p.expect(token.LBrace, diag.SynExpectBody, "expected '{' to start type body")
	if !ok {
		return nil, source.NoSpan
	}
	saved := p.noTrailing
	p.noTrailing = false
	members := p.parseMembers(ctx, func() bool { return p.at(token.RBrace) })
	p.noTrailing = saved
	if rb, ok := p.eat(token.RBrace); ok {
		return members, lb.Span.Cover(rb.Span)
	}
	p.unclosedBrace(lb.Span, "expected '}' at end of type body")
	return members, lb.Span.Cover(p.lastSpan)
}

// parseMembers reads declarations until stop; anything else is reported
// and skipped.
func (p *Parser) parseMembers(ctx declContext, stop func() bool) []ast.DeclID {
	var out []ast.DeclID
	for !p.at(token.EOF) && !stop() {
		start := p.pos
		if p.atDeclStart() || (ctx.inEnum && p.at(token.KwCase)) {
			if ds, ok := p.parseDecl(ctx); ok {
				out = append(out, ds...)
			}
		} else {
			p.err(diag.SynUnexpectedToken, "expected member declaration, got \""+p.peek().Text+"\"")
			p.advance()
			p.resyncToLineStart()
			continue
		}
		p.endOfStatement()
		if p.pos == start {
			p.advance()
		}
	}
	return out
}

// resyncToLineStart пропускает токены до начала следующей строки или '}'.
func (p *Parser) resyncToLineStart() {
	for !p.atOr(token.EOF, token.RBrace) && !p.peek().StartsLine() {
		if p.at(token.LBrace) {
			p.skipBalanced(token.LBrace, token.RBrace)
			continue
		}
		p.advance()
	}
}
