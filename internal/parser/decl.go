package parser

import (
	"unicode"
	"unicode/utf8"

	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

type contextKind uint8

const (
	ctxTopLevel contextKind = iota
	ctxMember
	ctxLocal
)

type declContext struct {
	kind contextKind
	// inEnum разрешает `case` как объявление элементов перечисления
	inEnum bool
}

// modifiers are contextual words that may precede a declaration keyword.
var modifiers = map[string]bool{
	"public": true, "private": true, "fileprivate": true, "internal": true, "open": true,
	"override": true, "mutating": true, "nonmutating": true, "final": true, "lazy": true,
	"weak": true, "unowned": true, "convenience": true, "required": true, "dynamic": true,
	"indirect": true, "optional": true, "prefix": true, "postfix": true, "infix": true,
}

func isDeclKeyword(k token.Kind) bool {
	switch k {
	case token.KwFunc, token.KwInit, token.KwVar, token.KwLet, token.KwStruct, token.KwClass,
		token.KwEnum, token.KwProtocol, token.KwExtension, token.KwImport, token.KwTypealias,
		token.KwStatic:
		return true
	default:
		return false
	}
}

// atDeclStart reports whether the upcoming tokens begin a declaration.
func (p *Parser) atDeclStart() bool {
	for i := 0; ; i++ {
		t := p.peekN(i)
		switch {
		case t.Kind == token.At, t.Kind == token.PoundIf, isDeclKeyword(t.Kind):
			return true
		case t.Kind == token.Ident && modifiers[t.Text]:
			next := p.peekN(i + 1)
			if next.Kind == token.LParen { // private(set)
				return true
			}
			if isDeclKeyword(next.Kind) || (next.Kind == token.Ident && modifiers[next.Text]) {
				continue
			}
			return false
		default:
			return false
		}
	}
}

// parseDecl parses one declaration. Pattern bindings return the binding
// followed by its Var decls.
func (p *Parser) parseDecl(ctx declContext) ([]ast.DeclID, bool) {
	start := p.peek().Span
	if p.at(token.PoundIf) {
		return []ast.DeclID{p.parseIfConfig(ctx)}, true
	}
	attrs := p.parseAttributes()
	static := p.parseModifiers()

	var (
		decls []ast.DeclID
		ok    = true
	)
	switch p.peek().Kind {
	case token.KwFunc, token.KwInit:
		decls = []ast.DeclID{p.parseFunc(start, static)}
	case token.KwVar, token.KwLet:
		decls = p.parseBinding(start, static)
	case token.KwStruct, token.KwClass, token.KwEnum, token.KwProtocol:
		decls = []ast.DeclID{p.parseNominal(start)}
	case token.KwExtension:
		decls = []ast.DeclID{p.parseExtension(start)}
	case token.KwImport:
		decls = []ast.DeclID{p.parseImport(start)}
	case token.KwTypealias:
		decls = []ast.DeclID{p.parseTypeAlias(start)}
	case token.KwCase:
		if !ctx.inEnum {
			p.err(diag.SynUnexpectedToken, "'case' outside of an enum or switch")
			p.advance()
			return nil, false
		}
		decls = []ast.DeclID{p.parseEnumCase(start)}
	default:
		p.err(diag.SynUnexpectedToken, "expected declaration, got \""+p.peek().Text+"\"")
		ok = false
	}
	if len(decls) > 0 && len(attrs) > 0 {
		p.attachAttrs(decls[0], attrs)
	}
	return decls, ok
}

// parseModifiers съедает модификаторы; возвращает true для static/class.
func (p *Parser) parseModifiers() bool {
	static := false
	for {
		t := p.peek()
		switch {
		case t.Kind == token.KwStatic:
			static = true
			p.advance()
		case t.Kind == token.KwClass && (p.peekN(1).Kind == token.KwFunc || p.peekN(1).Kind == token.KwVar):
			static = true
			p.advance()
		case t.Kind == token.Ident && modifiers[t.Text]:
			p.advance()
			if p.at(token.LParen) {
				p.skipBalanced(token.LParen, token.RParen)
			}
		default:
			return static
		}
	}
}

// parseAttributes reads `@name` and `@name(args)`. Arguments of custom
// attributes are parsed as expressions; built-in ones are skipped.
func (p *Parser) parseAttributes() []ast.AttrID {
	var out []ast.AttrID
	for p.at(token.At) {
		at := p.advance()
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			continue
		}
		attr := ast.Attr{Name: name, ArgsSpan: source.NoSpan}
		text := p.arenas.Name(name)
		if text == "_specialize" {
			attr.Kind = ast.AttrSpecialize
		}
		if p.at(token.LParen) && !p.peek().StartsLine() {
			if isUpperStart(text) {
				lp := p.advance()
				args := p.parseArgList(token.RParen)
				rp, _ := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after attribute arguments")
				attr.ArgsSpan = lp.Span.Cover(rp.Span)
				for _, a := range args {
					attr.Args = append(attr.Args, a.Value)
				}
			} else {
				attr.ArgsSpan, _ = p.skipBalanced(token.LParen, token.RParen)
			}
		}
		attr.Span = at.Span.Cover(nameSpan).Cover(attr.ArgsSpan)
		out = append(out, p.arenas.Attrs.New(attr))
	}
	return out
}

func isUpperStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// attachAttrs stores attrs on the decl; custom attributes on stored
// properties become property wrappers.
func (p *Parser) attachAttrs(decl ast.DeclID, attrs []ast.AttrID) {
	d := p.arenas.Decls.Get(decl)
	d.Attrs = attrs
	if d.Kind != ast.DeclPatternBinding {
		return
	}
	for _, id := range attrs {
		a := p.arenas.Attrs.Get(id)
		if a.Kind == ast.AttrOther && isUpperStart(p.arenas.Name(a.Name)) {
			a.Kind = ast.AttrPropertyWrapper
		}
	}
}

func (p *Parser) parseImport(start source.Span) ast.DeclID {
	p.advance() // import
	switch p.peek().Kind {
	case token.KwStruct, token.KwClass, token.KwEnum, token.KwProtocol, token.KwFunc,
		token.KwVar, token.KwLet, token.KwTypealias:
		p.advance()
	}
	var path []source.StringID
	for {
		name, _, ok := p.parseIdent()
		if !ok {
			break
		}
		path = append(path, name)
		if _, ok := p.eat(token.Dot); !ok {
			break
		}
	}
	return p.arenas.Decls.NewImport(start.Cover(p.lastSpan), path)
}

func (p *Parser) parseTypeAlias(start source.Span) ast.DeclID {
	p.advance() // typealias
	data := ast.TypeAliasDecl{}
	data.Name, data.NameSpan, _ = p.parseIdent()
	if p.at(token.Lt) {
		data.Generics, _ = p.parseGenericParams()
	}
	if _, ok := p.expect(token.Assign, diag.SynExpectType, "expected '=' in typealias"); ok {
		data.Type = p.parseType()
	}
	return p.arenas.Decls.NewTypeAlias(start.Cover(p.lastSpan), data)
}

func (p *Parser) parseEnumCase(start source.Span) ast.DeclID {
	p.advance() // case
	var elems []ast.EnumElement
	for {
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			break
		}
		el := ast.EnumElement{Name: name, NameSpan: nameSpan}
		if p.at(token.LParen) {
			el.Params, _ = p.parseParamList(false)
		}
		if _, ok := p.eat(token.Assign); ok {
			p.parseExpr()
		}
		elems = append(elems, el)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	return p.arenas.Decls.NewEnumCase(start.Cover(p.lastSpan), elems)
}

// skipWhereClause съедает `where ...` до тела или до конца строки.
func (p *Parser) skipWhereClause() {
	if _, ok := p.eat(token.KwWhere); !ok {
		return
	}
	for !p.atOr(token.EOF, token.LBrace, token.RBrace, token.Semicolon) && !p.peek().StartsLine() {
		if p.at(token.Lt) {
			p.skipAngles()
			continue
		}
		p.advance()
	}
}
