package astscope

import (
	"scopetree/internal/ast"
	"scopetree/internal/source"
)

// VisibleName is a name introduced by a scope on the lookup chain.
type VisibleName struct {
	Name  string
	Scope ScopeID
	Span  source.Span // NoSpan for implicit names such as self or newValue
}

// VisibleNames lists the names visible at loc, innermost scope first. A name
// may appear more than once; the first occurrence shadows the rest.
func (t *Tree) VisibleNames(loc uint32) []VisibleName {
	var out []VisibleName
	from := NoScopeID
	for _, id := range t.LookupChain(t.FindInnermost(loc)) {
		out = t.appendNames(out, id, from)
		from = id
	}
	return out
}

// Introduced lists the names id contributes to lookups that pass through it.
// Member and top-level bindings are listed by their TypeBody or SourceFile.
func (t *Tree) Introduced(id ScopeID) []VisibleName {
	if t.scopes.Get(id) == nil {
		return nil
	}
	return t.appendNames(nil, id, NoScopeID)
}

func (t *Tree) appendNames(out []VisibleName, id, from ScopeID) []VisibleName {
	s := t.scopes.Get(id)
	ref := s.Ref
	b := t.b
	add := func(name source.StringID, sp source.Span) {
		if text := b.Name(name); text != "" && text != "_" {
			out = append(out, VisibleName{Name: text, Scope: id, Span: sp})
		}
	}
	implicit := func(name string) {
		out = append(out, VisibleName{Name: name, Scope: id, Span: source.NoSpan})
	}
	pattern := func(pat ast.PatternID) {
		b.Patterns.Walk(pat, func(_ ast.PatternID, p *ast.Pattern) {
			if p.Kind == ast.PatternNamed {
				add(p.Name, p.Span)
			}
		})
	}

	switch s.Kind {
	case KindPatternEntryDecl:
		// переменная не видна в собственном инициализаторе
		if t.Kind(from) == KindPatternEntryInitializer {
			break
		}
		if pk := t.Kind(s.provider); pk == KindSourceFile || pk == KindTypeBody {
			break
		}
		pattern(ref.Pattern)
	case KindConditionalClausePatternUse, KindForEachPattern:
		pattern(ref.Pattern)
	case KindParameterList:
		if fn, ok := b.Decls.Func(ref.Decl); ok {
			for _, p := range fn.Params {
				if pd, ok := b.Decls.Param(p); ok {
					add(pd.Name, pd.NameSpan)
				}
			}
		}
	case KindGenericParam:
		if gp, ok := b.Decls.GenericParam(t.genericParam(ref.Decl, ref.Index)); ok {
			add(gp.Name, gp.NameSpan)
		}
	case KindClosureParameters:
		if c, ok := b.Exprs.Closure(ref.Expr); ok {
			for _, p := range c.Params {
				if pd, ok := b.Decls.Param(p); ok {
					add(pd.Name, pd.NameSpan)
				}
			}
		}
	case KindCaptureList:
		if c, ok := b.Exprs.Closure(ref.Expr); ok {
			for _, capt := range c.Captures {
				add(capt.Name, capt.NameSpan)
			}
		}
	case KindCatchClause:
		if ref.Pattern.IsValid() {
			pattern(ref.Pattern)
		} else {
			implicit("error")
		}
	case KindCaseClause:
		cs, ok := b.Stmts.Case(ref.Stmt)
		if !ok {
			break
		}
		seen := make(map[source.StringID]struct{})
		for _, l := range cs.Labels {
			b.Patterns.Walk(l.Pattern, func(_ ast.PatternID, p *ast.Pattern) {
				if p.Kind != ast.PatternNamed {
					return
				}
				if _, dup := seen[p.Name]; dup {
					return
				}
				seen[p.Name] = struct{}{}
				add(p.Name, p.Span)
			})
		}
	case KindAccessor:
		acc, ok := b.Decls.Accessor(ref.Decl)
		if !ok {
			break
		}
		switch {
		case acc.ParamName != source.NoStringID && acc.Kind != ast.AccessorGet:
			add(acc.ParamName, source.NoSpan)
		case acc.Kind == ast.AccessorSet || acc.Kind == ast.AccessorWillSet:
			implicit("newValue")
		case acc.Kind == ast.AccessorDidSet:
			implicit("oldValue")
		}
	case KindTypeBody:
		out = t.appendDeclNames(out, id, declElements(t.members(ref.Decl)), true)
		implicit("self")
	case KindSourceFile:
		if f := b.Files.Get(t.file); f != nil {
			out = t.appendDeclNames(out, id, declElements(f.Decls), true)
		}
	case KindBraceStmt:
		if br, ok := b.Stmts.Brace(ref.Stmt); ok {
			out = t.appendDeclNames(out, id, br.Elements, false)
		}
	}
	return out
}

// appendDeclNames collects names declared by elements. Stored properties
// count only for member and file lists; in a brace they belong to the
// pattern-entry scopes.
func (t *Tree) appendDeclNames(out []VisibleName, id ScopeID, elems []ast.Element, withVars bool) []VisibleName {
	b := t.b
	add := func(name source.StringID, sp source.Span) {
		if text := b.Name(name); text != "" && text != "_" {
			out = append(out, VisibleName{Name: text, Scope: id, Span: sp})
		}
	}
	for _, el := range elems {
		decl, ok := el.Decl()
		if !ok {
			continue
		}
		d := b.Decls.Get(decl)
		if d == nil {
			continue
		}
		switch d.Kind {
		case ast.DeclFunc:
			fn, _ := b.Decls.Func(decl)
			add(fn.Name, fn.NameSpan)
		case ast.DeclNominal:
			n, _ := b.Decls.Nominal(decl)
			add(n.Name, n.NameSpan)
		case ast.DeclTypeAlias:
			ta, _ := b.Decls.TypeAlias(decl)
			add(ta.Name, ta.NameSpan)
		case ast.DeclEnumCase:
			ec, _ := b.Decls.EnumCase(decl)
			for _, e := range ec.Elements {
				add(e.Name, e.NameSpan)
			}
		case ast.DeclPatternBinding:
			if !withVars {
				continue
			}
			pbd, _ := b.Decls.PatternBinding(decl)
			for _, e := range pbd.Entries {
				b.Patterns.Walk(e.Pattern, func(_ ast.PatternID, p *ast.Pattern) {
					if p.Kind == ast.PatternNamed {
						add(p.Name, p.Span)
					}
				})
			}
		case ast.DeclIfConfig:
			cfg, _ := b.Decls.IfConfig(decl)
			for _, cl := range cfg.Clauses {
				if cl.Active || t.opts.IncludeInactive {
					out = t.appendDeclNames(out, id, cl.Elements, withVars)
				}
			}
		}
	}
	return out
}
