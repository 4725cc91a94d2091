package parser

import (
	"fmt"
	"slices"

	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/lexer"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// Defines are the names that evaluate to true in `#if` conditions.
	Defines map[string]bool
	// DelayBodies skips bodies of non-local functions; ParseDelayedBody
	// parses them on demand.
	DelayBodies bool
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	// Decls are the top-level decls produced by this call, in source order.
	Decls []ast.DeclID
}

// Parser — состояние парсера на один файл
type Parser struct {
	toks     []token.Token // весь поток токенов, последний всегда EOF
	pos      int
	arenas   *ast.Builder
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	// noTrailing запрещает trailing closure (условия if/guard/while, for-in, switch)
	noTrailing bool
	// funcDepth > 0 inside a function, accessor or closure body
	funcDepth int
}

func newParser(file *source.File, off uint32, arenas *ast.Builder, opts Options) *Parser {
	lx := lexer.NewAt(file, off, lexer.Options{Reporter: opts.Reporter})
	toks := lx.All()
	toks = append(toks, lx.Next()) // EOF
	return &Parser{
		toks:     toks,
		arenas:   arenas,
		file:     file,
		opts:     opts,
		lastSpan: source.PointSpan(file.ID, off),
	}
}

// ParseFile — входная точка для разбора одного файла целиком.
func ParseFile(fs *source.FileSet, id source.FileID, arenas *ast.Builder, opts Options) (Result, error) {
	f := fs.Get(id)
	if f == nil {
		return Result{}, fmt.Errorf("parse: unknown file %d", id)
	}
	p := newParser(f, 0, arenas, opts)
	fileID := arenas.NewFile(f.ID, f.Span())
	decls := p.parseTopLevel()
	arenas.AppendTopLevel(fileID, decls...)
	arenas.Files.Get(fileID).Span = f.Span()
	return Result{File: fileID, Decls: decls}, nil
}

// ParseAppended parses text that was appended to an already parsed file,
// starting at byte offset off, and appends the new top-level decls.
func ParseAppended(fs *source.FileSet, file ast.FileID, off uint32, arenas *ast.Builder, opts Options) (Result, error) {
	af := arenas.Files.Get(file)
	if af == nil {
		return Result{}, fmt.Errorf("parse: unknown ast file %d", file)
	}
	f := fs.Get(af.Source)
	if f == nil {
		return Result{}, fmt.Errorf("parse: unknown source file %d", af.Source)
	}
	p := newParser(f, off, arenas, opts)
	decls := p.parseTopLevel()
	arenas.AppendTopLevel(file, decls...)
	af.Span = f.Span()
	return Result{File: file, Decls: decls}, nil
}

// ParseDelayedBody parses the body of a function whose parsing was skipped
// and installs it. It is a no-op for functions that already have a body.
func ParseDelayedBody(fs *source.FileSet, decl ast.DeclID, arenas *ast.Builder, opts Options) error {
	fn, ok := arenas.Decls.Func(decl)
	if !ok {
		return fmt.Errorf("parse: decl %d is not a function", decl)
	}
	if !fn.BodyDelayed {
		return nil
	}
	f := fs.Get(fn.BodySpan.File)
	if f == nil {
		return fmt.Errorf("parse: unknown source file %d", fn.BodySpan.File)
	}
	p := newParser(f, fn.BodySpan.Start, arenas, opts)
	p.funcDepth = 1
	body := p.parseBrace()
	return arenas.SetFuncBody(decl, body)
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

// peekN смотрит на n токенов вперёд; за концом потока — EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// parseTopLevel — основной цикл верхнего уровня: пока не EOF.
func (p *Parser) parseTopLevel() []ast.DeclID {
	var decls []ast.DeclID
	for !p.at(token.EOF) {
		start := p.pos
		if p.atOr(token.RBrace, token.PoundElse, token.PoundElseIf, token.PoundEndIf) {
			code := diag.SynUnexpectedTopLevel
			if p.peek().Kind.IsPound() {
				code = diag.SynIfConfigStray
			}
			p.err(code, "unexpected '"+p.peek().Text+"' at top level")
			p.advance()
			continue
		}
		d, ok := p.parseTopLevelElement()
		if ok {
			decls = append(decls, d...)
		}
		p.endOfStatement()
		if p.pos == start {
			p.advance()
		}
	}
	return decls
}

// parseTopLevelElement returns the decls for one top-level construct. Plain
// statements are wrapped in a TopLevelCode decl with an implicit brace.
func (p *Parser) parseTopLevelElement() ([]ast.DeclID, bool) {
	if p.atDeclStart() {
		return p.parseDecl(declContext{kind: ctxTopLevel})
	}
	el, ok := p.parseStmtElement()
	if !ok {
		return nil, false
	}
	return []ast.DeclID{p.wrapTopLevelCode(el)}, true
}

func (p *Parser) wrapTopLevelCode(el ast.Element) ast.DeclID {
	sp := p.arenas.ElementSpan(el)
	body := p.arenas.Stmts.NewBrace(sp, ast.BraceStmt{
		Elements:     []ast.Element{el},
		LBrace:       source.NoSpan,
		RBrace:       source.NoSpan,
		Implicit:     true,
		LastTokenEnd: sp.End,
	})
	return p.arenas.Decls.NewTopLevelCode(sp, body)
}

// parseIdent — ожидает Ident (или `_`) и интернирует его.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.atOr(token.Ident, token.Underscore) || p.peek().Kind.IsContextualKeyword() {
		tok := p.advance()
		return p.intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	return source.NoStringID, p.peek().Span, false
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.Strings.Intern(s)
}
