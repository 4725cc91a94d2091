package astscope

import (
	"cmp"
	"slices"

	"scopetree/internal/ast"
)

// addSiblings turns a list of elements into scopes. Each candidate is
// attached under ip; a candidate that continues moves ip for the ones after
// it. organic is the scope whose expansion owns the list. local selects the
// brace-body rules for pattern bindings.
func (t *Tree) addSiblings(ip, organic ScopeID, elems []ast.Element, local bool) ScopeID {
	for _, el := range t.candidates(elems) {
		ip = t.addCandidate(ip, organic, el, local)
	}
	return ip
}

// candidates flattens #if blocks, drops elements that never open a scope
// and orders the rest by end, then start.
func (t *Tree) candidates(elems []ast.Element) []ast.Element {
	out := make([]ast.Element, 0, len(elems))
	var flatten func([]ast.Element)
	flatten = func(list []ast.Element) {
		for _, el := range list {
			id, ok := el.Decl()
			if !ok {
				out = append(out, el)
				continue
			}
			d := t.b.Decls.Get(id)
			if d == nil {
				continue
			}
			switch d.Kind {
			case ast.DeclIfConfig:
				cfg, _ := t.b.Decls.IfConfig(id)
				for _, cl := range cfg.Clauses {
					if cl.Active || t.opts.IncludeInactive {
						flatten(cl.Elements)
					}
				}
			case ast.DeclVar, ast.DeclEnumCase:
				// имена привязок живут в PatternBinding, кейсы enum не открывают скоуп
			default:
				out = append(out, el)
			}
		}
	}
	flatten(elems)
	slices.SortStableFunc(out, func(a, b ast.Element) int {
		sa, sb := t.b.ElementSpan(a), t.b.ElementSpan(b)
		if c := cmp.Compare(sa.End, sb.End); c != 0 {
			return c
		}
		return cmp.Compare(sa.Start, sb.Start)
	})
	return out
}

func declElements(decls []ast.DeclID) []ast.Element {
	out := make([]ast.Element, len(decls))
	for i, d := range decls {
		out[i] = ast.DeclElement(d)
	}
	return out
}

// addCandidate creates the scope for one element and returns the new
// insertion point.
func (t *Tree) addCandidate(ip, organic ScopeID, el ast.Element, local bool) ScopeID {
	if sp := t.b.ElementSpan(el); !sp.IsValid() {
		return ip
	}
	switch el.Class {
	case ast.ElemDecl:
		id, _ := el.Decl()
		return t.addDeclCandidate(ip, organic, id, local)
	case ast.ElemStmt:
		id, _ := el.Stmt()
		return t.addStmtCandidate(ip, organic, id)
	case ast.ElemExpr:
		id, _ := el.Expr()
		t.widen(ip, t.b.Exprs.Get(id).Span)
		t.addIgnoredClosures(ip, organic, id)
	}
	return ip
}

func (t *Tree) addDeclCandidate(ip, organic ScopeID, id ast.DeclID, local bool) ScopeID {
	d := t.b.Decls.Get(id)
	ref := ast.DeclReferent(id)
	switch d.Kind {
	case ast.DeclFunc:
		t.newCandidate(KindFunctionDecl, Ref{Decl: id}, ref, ip, organic)
	case ast.DeclNominal:
		t.newCandidate(KindNominalType, Ref{Decl: id}, ref, ip, organic)
	case ast.DeclExtension:
		t.newCandidate(KindExtension, Ref{Decl: id}, ref, ip, organic)
	case ast.DeclPatternBinding:
		return t.addPatternBinding(ip, organic, id, local)
	case ast.DeclTopLevelCode:
		sc, ok := t.newCandidate(KindTopLevelCode, Ref{Decl: id}, ref, ip, organic)
		if !ok {
			return ip
		}
		if next := t.expandNode(sc); next.Continues {
			return next.Scope
		}
	default:
		t.widen(ip, d.Span)
	}
	return ip
}

// addPatternBinding creates property-wrapper scopes for the binding's
// custom attributes and one scope per entry. In a brace body each entry
// continues, so later code (and later entries) sits inside it.
func (t *Tree) addPatternBinding(ip, organic ScopeID, id ast.DeclID, local bool) ScopeID {
	d := t.b.Decls.Get(id)
	for _, a := range d.Attrs {
		if attr := t.b.Attrs.Get(a); attr != nil && attr.Kind == ast.AttrPropertyWrapper {
			t.newCandidate(KindAttachedPropertyWrapper, Ref{Decl: id, Attr: a}, ast.AttrReferent(a), ip, organic)
		}
	}
	pbd, _ := t.b.Decls.PatternBinding(id)
	for i := range pbd.Entries {
		e := pbd.Entries[i]
		sc, ok := t.newCandidate(KindPatternEntryDecl, Ref{Decl: id, Pattern: e.Pattern, Index: i},
			ast.PatternReferent(e.Pattern), ip, organic)
		if !ok || !local {
			continue
		}
		t.expandNode(sc)
		ip = sc
	}
	return ip
}

func (t *Tree) addStmtCandidate(ip, organic ScopeID, id ast.StmtID) ScopeID {
	st := t.b.Stmts.Get(id)
	ref := ast.StmtReferent(id)
	switch st.Kind {
	case ast.StmtBrace:
		t.newCandidate(KindBraceStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtIf:
		t.newCandidate(KindIfStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtGuard:
		sc, ok := t.newCandidate(KindGuardStmt, Ref{Stmt: id}, ref, ip, organic)
		if !ok {
			return ip
		}
		if next := t.expandNode(sc); next.Continues {
			return next.Scope
		}
	case ast.StmtWhile:
		t.newCandidate(KindWhileStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtRepeatWhile:
		t.newCandidate(KindRepeatWhileStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtForEach:
		t.newCandidate(KindForEachStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtSwitch:
		t.newCandidate(KindSwitchStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtDo:
		t.newCandidate(KindDoStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtDoCatch:
		t.newCandidate(KindDoCatchStmt, Ref{Stmt: id}, ref, ip, organic)
	case ast.StmtDefer:
		t.widen(ip, st.Span)
		if def, ok := t.b.Stmts.Defer(id); ok && def.Body.IsValid() {
			t.newCandidate(KindBraceStmt, Ref{Stmt: def.Body}, ast.StmtReferent(def.Body), ip, organic)
		}
	case ast.StmtReturn, ast.StmtThrow:
		t.widen(ip, st.Span)
		if ret, ok := t.b.Stmts.Return(id); ok {
			t.addIgnoredClosures(ip, organic, ret.Value)
		}
	default:
		t.widen(ip, st.Span)
	}
	return ip
}

// addIgnoredClosures gives the closures of an expression that has no scope
// of its own their scopes at ip.
func (t *Tree) addIgnoredClosures(ip, organic ScopeID, expr ast.ExprID) {
	if !expr.IsValid() {
		return
	}
	for _, c := range t.b.OutermostClosures(expr) {
		t.newCandidate(KindClosure, Ref{Expr: c}, ast.ExprReferent(c), ip, organic)
	}
}

// addClosures attaches scopes for the closures of a sub-expression owned by
// parent's own expansion.
func (t *Tree) addClosures(parent ScopeID, expr ast.ExprID) {
	if !expr.IsValid() {
		return
	}
	for _, c := range t.b.OutermostClosures(expr) {
		t.newScope(KindClosure, Ref{Expr: c}, parent, parent)
	}
}

// addPatternClosures covers expression patterns such as `case f({ $0 })`.
func (t *Tree) addPatternClosures(parent ScopeID, pat ast.PatternID) {
	t.b.Patterns.Walk(pat, func(_ ast.PatternID, p *ast.Pattern) {
		if p.Kind == ast.PatternExpr {
			t.addClosures(parent, p.Expr)
		}
	})
}
