package astscope

import "scopetree/internal/ast"

// addClauses builds the condition chain of an if, guard or while below
// parent. Every clause nests in the previous one, so a binding made by a
// condition is visible to the conditions after it. Returns the last link.
func (t *Tree) addClauses(parent ScopeID, stmt ast.StmtID) ScopeID {
	conds, _ := t.conditions(stmt)
	tip := parent
	for i, c := range conds {
		clause := t.newChain(KindConditionalClause, Ref{Stmt: stmt, Pattern: c.Pattern, Index: i}, tip)
		t.addClosures(clause, c.Expr)
		if c.Kind == ast.CondCase {
			t.addPatternClosures(clause, c.Pattern)
		}
		t.addClosures(clause, c.Init)
		tip = clause
		if c.HasPattern() {
			tip = t.newChain(KindConditionalClausePatternUse, Ref{Stmt: stmt, Pattern: c.Pattern, Index: i}, clause)
		}
	}
	return tip
}

func (t *Tree) expandIf(id ScopeID, stmt ast.StmtID) {
	s, ok := t.b.Stmts.If(stmt)
	if !ok {
		return
	}
	tip := t.addClauses(id, stmt)
	t.addBrace(tip, s.Then)
	if !s.Else.IsValid() {
		return
	}
	if _, elseIf := t.b.Stmts.If(s.Else); elseIf {
		t.newScope(KindIfStmt, Ref{Stmt: s.Else}, id, id)
		return
	}
	t.addBrace(id, s.Else)
}

// expandGuard builds the clause chain and the early-exit body, then a
// diversion at the end of the guard. Code after the guard is attached to the
// diversion and resolves names through the clause chain, while the body does
// not see the guard's bindings.
func (t *Tree) expandGuard(id ScopeID, stmt ast.StmtID) InsertionPoint {
	g, ok := t.b.Stmts.Guard(stmt)
	if !ok {
		return stay(id)
	}
	tip := t.addClauses(id, stmt)
	t.addBrace(id, g.Body)
	div := t.newChain(KindDiversion, Ref{Stmt: stmt}, id)
	t.scopes.Get(div).lookupParent = tip
	return InsertionPoint{Scope: div, Continues: true}
}

func (t *Tree) expandWhile(id ScopeID, stmt ast.StmtID) {
	w, ok := t.b.Stmts.While(stmt)
	if !ok {
		return
	}
	tip := t.addClauses(id, stmt)
	t.addBrace(tip, w.Body)
}

func (t *Tree) expandRepeatWhile(id ScopeID, stmt ast.StmtID) {
	r, ok := t.b.Stmts.RepeatWhile(stmt)
	if !ok {
		return
	}
	t.addBrace(id, r.Body)
	t.addClosures(id, r.Cond)
}

func (t *Tree) expandForEach(id ScopeID, stmt ast.StmtID) {
	fe, ok := t.b.Stmts.ForEach(stmt)
	if !ok {
		return
	}
	t.addClosures(id, fe.Seq)
	if !fe.Body.IsValid() {
		return
	}
	pat := t.newChain(KindForEachPattern, Ref{Stmt: stmt, Pattern: fe.Pattern}, id)
	t.addClosures(pat, fe.Where)
	t.addBrace(pat, fe.Body)
}

func (t *Tree) expandSwitch(id ScopeID, stmt ast.StmtID) {
	sw, ok := t.b.Stmts.Switch(stmt)
	if !ok {
		return
	}
	t.addClosures(id, sw.Subject)
	for _, c := range sw.Cases {
		cs, ok := t.b.Stmts.Case(c)
		if !ok {
			continue
		}
		clause := t.newChain(KindCaseClause, Ref{Stmt: c}, id)
		for _, l := range cs.Labels {
			t.addPatternClosures(clause, l.Pattern)
			t.addClosures(clause, l.Where)
		}
		t.addBrace(clause, cs.Body)
	}
}

func (t *Tree) expandDoCatch(id ScopeID, stmt ast.StmtID) {
	dc, ok := t.b.Stmts.DoCatch(stmt)
	if !ok {
		return
	}
	t.addBrace(id, dc.Body)
	for _, c := range dc.Catches {
		cs, ok := t.b.Stmts.Catch(c)
		if !ok {
			continue
		}
		clause := t.newChain(KindCatchClause, Ref{Stmt: c, Pattern: cs.Pattern}, id)
		t.addPatternClosures(clause, cs.Pattern)
		t.addClosures(clause, cs.Where)
		t.addBrace(clause, cs.Body)
	}
}
