package astscope

import (
	"scopetree/internal/ast"
	"scopetree/internal/source"
)

// SourceRange returns the cached range of id: its own syntax, the ignored
// range and the ranges of every child created so far. It never expands.
func (t *Tree) SourceRange(id ScopeID) source.Span {
	s := t.scopes.Get(id)
	if s == nil {
		return source.NoSpan
	}
	if s.cached {
		return s.rangeCache
	}
	r := t.computeRange(id)
	s = t.scopes.Get(id)
	s.rangeCache, s.cached = r, true
	return r
}

func (t *Tree) computeRange(id ScopeID) source.Span {
	s := t.scopes.Get(id)
	r := t.ownRange(id)
	if s.hasIgnored {
		r = r.Cover(s.ignored)
	}
	for _, c := range s.children {
		r = r.Cover(t.SourceRange(c))
	}
	return r
}

// invalidate drops cached ranges from id up to the first ancestor whose
// cache is already empty.
func (t *Tree) invalidate(id ScopeID) {
	for id.IsValid() {
		s := t.scopes.Get(id)
		if s == nil || !s.cached {
			return
		}
		s.cached = false
		id = s.parent
	}
}

// ownRange is the range of the scope's syntax alone.
func (t *Tree) ownRange(id ScopeID) source.Span {
	s := t.scopes.Get(id)
	b := t.b
	ref := s.Ref
	switch s.Kind {
	case KindSourceFile:
		if f := b.Files.Get(t.file); f != nil {
			return f.Span
		}
	case KindBraceStmt, KindClosureBody:
		return t.braceRange(ref.Stmt)
	case KindIfStmt, KindGuardStmt, KindWhileStmt, KindRepeatWhileStmt,
		KindDoStmt, KindDoCatchStmt, KindCatchClause, KindSwitchStmt,
		KindCaseClause, KindForEachStmt:
		return t.stmtSpan(ref.Stmt)
	case KindConditionalClause:
		if cond, ok := t.condition(ref.Stmt, ref.Index); ok {
			return spanBetween(cond.Span, cond.Span.Start, t.clauseBodyStart(ref.Stmt))
		}
	case KindConditionalClausePatternUse:
		if cond, ok := t.condition(ref.Stmt, ref.Index); ok {
			start := cond.Span.End
			if e := b.Exprs.Get(cond.Init); e != nil {
				start = e.Span.End
			} else if pat := b.Patterns.Get(cond.Pattern); pat != nil {
				start = pat.Span.End
			}
			return spanBetween(cond.Span, start, t.clauseBodyStart(ref.Stmt))
		}
	case KindDiversion:
		sp := t.stmtSpan(ref.Stmt)
		if sp.IsValid() {
			return source.PointSpan(sp.File, sp.End)
		}
	case KindForEachPattern:
		if fe, ok := b.Stmts.ForEach(ref.Stmt); ok {
			body := t.braceRange(fe.Body)
			start := body.Start
			if e := b.Exprs.Get(fe.Where); e != nil {
				start = e.Span.Start
			}
			return spanBetween(body, start, body.End)
		}
	case KindFunctionDecl, KindNominalType, KindExtension, KindTopLevelCode, KindAccessor:
		return t.declSpan(ref.Decl)
	case KindSpecializeAttribute, KindAttachedPropertyWrapper:
		if a := b.Attrs.Get(ref.Attr); a != nil {
			return a.Span
		}
	case KindGenericParam:
		if gp := b.Decls.Get(t.genericParam(ref.Decl, ref.Index)); gp != nil {
			owner := t.declSpan(ref.Decl)
			return spanBetween(gp.Span, gp.Span.Start, owner.End)
		}
	case KindParameterList:
		if fn, ok := b.Decls.Func(ref.Decl); ok {
			owner := t.declSpan(ref.Decl)
			return spanBetween(fn.ParamsSpan, fn.ParamsSpan.Start, owner.End)
		}
	case KindDefaultArgument, KindPatternEntryInitializer:
		if e := b.Exprs.Get(ref.Expr); e != nil {
			return e.Span
		}
	case KindFunctionBody:
		if fn, ok := b.Decls.Func(ref.Decl); ok {
			return fn.BodySpan
		}
	case KindTypeBody:
		return t.typeBodySpan(ref.Decl)
	case KindPatternEntryDecl:
		if e, ok := t.entry(ref.Decl, ref.Index); ok {
			return clampSpan(e.Span, t.declSpan(ref.Decl))
		}
	case KindAccessors:
		if e, ok := t.entry(ref.Decl, ref.Index); ok {
			return e.AccessorsSpan
		}
	case KindClosure:
		if e := b.Exprs.Get(ref.Expr); e != nil {
			return e.Span
		}
	case KindCaptureList:
		if c, ok := b.Exprs.Closure(ref.Expr); ok {
			end := b.Exprs.Get(ref.Expr).Span.End
			return spanBetween(c.CaptureSpan, c.CaptureSpan.Start, end)
		}
	case KindClosureParameters:
		if c, ok := b.Exprs.Closure(ref.Expr); ok {
			end := b.Exprs.Get(ref.Expr).Span.End
			return spanBetween(c.ParamsSpan, c.ParamsSpan.Start, end)
		}
	}
	return source.NoSpan
}

// spanBetween builds [start, end] in like's file, clamping end to start.
func spanBetween(like source.Span, start, end uint32) source.Span {
	if start == source.NoPos || end == source.NoPos {
		return source.NoSpan
	}
	if end < start {
		end = start
	}
	return source.Span{File: like.File, Start: start, End: end}
}

// clampSpan keeps sp inside owner. An empty owner carries no extent and
// leaves sp as is.
func clampSpan(sp, owner source.Span) source.Span {
	if !sp.IsValid() || !owner.IsValid() || owner.Empty() {
		return sp
	}
	start := min(max(sp.Start, owner.Start), owner.End)
	return spanBetween(sp, start, min(sp.End, owner.End))
}

func (t *Tree) stmtSpan(id ast.StmtID) source.Span {
	if st := t.b.Stmts.Get(id); st != nil {
		return st.Span
	}
	return source.NoSpan
}

func (t *Tree) declSpan(id ast.DeclID) source.Span {
	if d := t.b.Decls.Get(id); d != nil {
		return d.Span
	}
	return source.NoSpan
}

// braceRange runs from '{' to '}'; without '}' it ends at the last token
// the parser consumed for the brace.
func (t *Tree) braceRange(id ast.StmtID) source.Span {
	br, ok := t.b.Stmts.Brace(id)
	if !ok {
		return source.NoSpan
	}
	sp := t.stmtSpan(id)
	if br.Implicit || !br.LBrace.IsValid() {
		return sp
	}
	end := br.LastTokenEnd
	if br.RBrace.IsValid() {
		end = br.RBrace.End
	}
	return spanBetween(sp, br.LBrace.Start, end)
}

func (t *Tree) typeBodySpan(decl ast.DeclID) source.Span {
	if n, ok := t.b.Decls.Nominal(decl); ok {
		return n.BodySpan
	}
	if x, ok := t.b.Decls.Extension(decl); ok {
		return x.BodySpan
	}
	return source.NoSpan
}

// conditions returns the condition list and body of an if, guard or while.
func (t *Tree) conditions(stmt ast.StmtID) ([]ast.Condition, ast.StmtID) {
	if s, ok := t.b.Stmts.If(stmt); ok {
		return s.Conds, s.Then
	}
	if s, ok := t.b.Stmts.Guard(stmt); ok {
		return s.Conds, s.Body
	}
	if s, ok := t.b.Stmts.While(stmt); ok {
		return s.Conds, s.Body
	}
	return nil, ast.NoStmtID
}

func (t *Tree) condition(stmt ast.StmtID, i int) (ast.Condition, bool) {
	conds, _ := t.conditions(stmt)
	if i < 0 || i >= len(conds) {
		return ast.Condition{}, false
	}
	return conds[i], true
}

// clauseBodyStart is where the guarded body begins; clauses end there.
func (t *Tree) clauseBodyStart(stmt ast.StmtID) uint32 {
	_, body := t.conditions(stmt)
	if r := t.braceRange(body); r.IsValid() {
		return r.Start
	}
	return t.stmtSpan(stmt).End
}

func (t *Tree) entry(decl ast.DeclID, i int) (*ast.PatternEntry, bool) {
	pbd, ok := t.b.Decls.PatternBinding(decl)
	if !ok || i < 0 || i >= len(pbd.Entries) {
		return nil, false
	}
	return &pbd.Entries[i], true
}

// genericParam returns the i-th generic parameter of a function or type.
func (t *Tree) genericParam(owner ast.DeclID, i int) ast.DeclID {
	var gps []ast.DeclID
	if fn, ok := t.b.Decls.Func(owner); ok {
		gps = fn.Generics
	} else if n, ok := t.b.Decls.Nominal(owner); ok {
		gps = n.Generics
	}
	if i < 0 || i >= len(gps) {
		return ast.NoDeclID
	}
	return gps[i]
}
