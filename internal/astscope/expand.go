package astscope

import (
	"fmt"

	"scopetree/internal/ast"
)

// expand runs the kind-specific rule that creates the children of id.
// Scopes born expanded (chain links) never reach it.
func (t *Tree) expand(id ScopeID) InsertionPoint {
	s := t.scopes.Get(id)
	ref := s.Ref
	switch s.Kind {
	case KindSourceFile:
		return t.expandSourceFile(id)
	case KindBraceStmt:
		return t.expandBrace(id, ref.Stmt)
	case KindTopLevelCode:
		return t.expandTopLevelCode(id, ref.Decl)
	case KindIfStmt:
		t.expandIf(id, ref.Stmt)
	case KindGuardStmt:
		return t.expandGuard(id, ref.Stmt)
	case KindWhileStmt:
		t.expandWhile(id, ref.Stmt)
	case KindRepeatWhileStmt:
		t.expandRepeatWhile(id, ref.Stmt)
	case KindForEachStmt:
		t.expandForEach(id, ref.Stmt)
	case KindSwitchStmt:
		t.expandSwitch(id, ref.Stmt)
	case KindDoStmt:
		if do, ok := t.b.Stmts.Do(ref.Stmt); ok {
			t.addBrace(id, do.Body)
		}
	case KindDoCatchStmt:
		t.expandDoCatch(id, ref.Stmt)
	case KindFunctionDecl:
		t.expandFunction(id, ref.Decl)
	case KindFunctionBody:
		if fn, ok := t.b.Decls.Func(ref.Decl); ok && fn.Body.IsValid() {
			t.addBrace(id, fn.Body)
		}
	case KindNominalType:
		t.expandNominal(id, ref.Decl)
	case KindExtension:
		if x, ok := t.b.Decls.Extension(ref.Decl); ok && x.BodySpan.IsValid() {
			t.newScope(KindTypeBody, Ref{Decl: ref.Decl}, id, id)
		}
	case KindTypeBody:
		t.expandTypeBody(id, ref.Decl)
	case KindPatternEntryDecl:
		t.expandPatternEntry(id, ref)
	case KindAttachedPropertyWrapper:
		if a := t.b.Attrs.Get(ref.Attr); a != nil {
			for _, arg := range a.Args {
				t.addClosures(id, arg)
			}
		}
	case KindClosure:
		t.expandClosure(id, ref.Expr)
	default:
		panic(fmt.Sprintf("astscope: no expansion rule for %s", s.Kind))
	}
	return stay(id)
}

// addBrace attaches a lazy scope for a brace statement.
func (t *Tree) addBrace(parent ScopeID, brace ast.StmtID) ScopeID {
	if !brace.IsValid() {
		return NoScopeID
	}
	return t.newScope(KindBraceStmt, Ref{Stmt: brace}, parent, parent)
}

func (t *Tree) expandSourceFile(id ScopeID) InsertionPoint {
	f := t.b.Files.Get(t.file)
	ip := t.addSiblings(id, id, declElements(f.Decls), false)
	t.rootIP = ip
	t.consumed = len(f.Decls)
	return stay(id)
}

// expandBrace adds the brace elements. Only an implicit brace hands its
// final insertion point to the enclosing list.
func (t *Tree) expandBrace(id ScopeID, stmt ast.StmtID) InsertionPoint {
	br, ok := t.b.Stmts.Brace(stmt)
	if !ok {
		return stay(id)
	}
	ip := t.addSiblings(id, id, br.Elements, true)
	if br.Implicit && ip != id {
		return InsertionPoint{Scope: ip, Continues: true}
	}
	return stay(id)
}

func (t *Tree) expandTopLevelCode(id ScopeID, decl ast.DeclID) InsertionPoint {
	tlc, ok := t.b.Decls.TopLevelCode(decl)
	if !ok || !tlc.Body.IsValid() {
		return stay(id)
	}
	body := t.addBrace(id, tlc.Body)
	if next := t.expandNode(body); next.Continues {
		return next
	}
	return stay(id)
}
