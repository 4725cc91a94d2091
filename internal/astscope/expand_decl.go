package astscope

import "scopetree/internal/ast"

// addGenericParams nests one scope per generic parameter; each runs to the
// end of the owning declaration.
func (t *Tree) addGenericParams(parent ScopeID, owner ast.DeclID, gps []ast.DeclID) ScopeID {
	tip := parent
	for i := range gps {
		tip = t.newChain(KindGenericParam, Ref{Decl: owner, Index: i}, tip)
	}
	return tip
}

func (t *Tree) expandFunction(id ScopeID, decl ast.DeclID) {
	fn, ok := t.b.Decls.Func(decl)
	if !ok {
		return
	}
	for _, a := range t.b.Decls.Get(decl).Attrs {
		if attr := t.b.Attrs.Get(a); attr != nil && attr.Kind == ast.AttrSpecialize {
			t.newChain(KindSpecializeAttribute, Ref{Decl: decl, Attr: a}, id)
		}
	}
	tip := t.addGenericParams(id, decl, fn.Generics)
	if fn.ParamsSpan.IsValid() {
		list := t.newChain(KindParameterList, Ref{Decl: decl}, tip)
		for _, p := range fn.Params {
			pd, ok := t.b.Decls.Param(p)
			if !ok || !pd.Default.IsValid() {
				continue
			}
			def := t.newChain(KindDefaultArgument, Ref{Decl: p, Expr: pd.Default}, list)
			t.addClosures(def, pd.Default)
		}
		tip = list
	}
	if fn.HasBody() {
		// тело может быть ещё не разобрано: FunctionBody раскрывается лениво
		t.newScope(KindFunctionBody, Ref{Decl: decl}, tip, tip)
	}
}

func (t *Tree) expandNominal(id ScopeID, decl ast.DeclID) {
	n, ok := t.b.Decls.Nominal(decl)
	if !ok {
		return
	}
	tip := t.addGenericParams(id, decl, n.Generics)
	if n.BodySpan.IsValid() {
		t.newScope(KindTypeBody, Ref{Decl: decl}, tip, tip)
	}
}

func (t *Tree) members(decl ast.DeclID) []ast.DeclID {
	if n, ok := t.b.Decls.Nominal(decl); ok {
		return n.Members
	}
	if x, ok := t.b.Decls.Extension(decl); ok {
		return x.Members
	}
	return nil
}

func (t *Tree) expandTypeBody(id ScopeID, decl ast.DeclID) {
	t.addSiblings(id, id, declElements(t.members(decl)), false)
}

func (t *Tree) expandPatternEntry(id ScopeID, ref Ref) {
	e, ok := t.entry(ref.Decl, ref.Index)
	if !ok {
		return
	}
	if e.Init.IsValid() {
		init := t.newChain(KindPatternEntryInitializer, Ref{Decl: ref.Decl, Expr: e.Init, Index: ref.Index}, id)
		t.addClosures(init, e.Init)
	}
	if !e.AccessorsSpan.IsValid() {
		return
	}
	accs := t.newChain(KindAccessors, Ref{Decl: ref.Decl, Index: ref.Index}, id)
	for _, a := range e.Accessors {
		acc, ok := t.b.Decls.Accessor(a)
		if !ok {
			continue
		}
		sc := t.newChain(KindAccessor, Ref{Decl: a}, accs)
		t.addBrace(sc, acc.Body)
	}
}

func (t *Tree) expandClosure(id ScopeID, expr ast.ExprID) {
	c, ok := t.b.Exprs.Closure(expr)
	if !ok {
		return
	}
	tip := id
	if c.CaptureSpan.IsValid() {
		tip = t.newChain(KindCaptureList, Ref{Expr: expr}, id)
		for _, capt := range c.Captures {
			t.addClosures(tip, capt.Init)
		}
	}
	if c.ParamsSpan.IsValid() && len(c.Params) > 0 {
		tip = t.newChain(KindClosureParameters, Ref{Expr: expr}, tip)
	}
	if c.Body.IsValid() {
		body := t.newChain(KindClosureBody, Ref{Expr: expr, Stmt: c.Body}, tip)
		t.addBrace(body, c.Body)
	}
}
