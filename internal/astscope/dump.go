package astscope

import (
	"fmt"
	"io"
	"strings"

	"scopetree/internal/ast"
	"scopetree/internal/source"
)

// Dump writes the scopes built so far below id, one per line, indented by
// depth. Nothing is expanded; lazy scopes are marked.
func (t *Tree) Dump(w io.Writer, id ScopeID) error {
	var sb strings.Builder
	t.dump(&sb, id, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Tree) dump(sb *strings.Builder, id ScopeID, depth int) {
	s := t.scopes.Get(id)
	if s == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%s #%d %s", s.Kind, id, t.FormatRange(t.SourceRange(id)))
	if d := t.Describe(id); d != "" {
		sb.WriteByte(' ')
		sb.WriteString(d)
	}
	if s.State == NotExpanded {
		sb.WriteString(" (lazy)")
	}
	sb.WriteByte('\n')
	for _, c := range s.children {
		t.dump(sb, c, depth+1)
	}
}

// FormatRange renders a span as [line:col-line:col) when positions can be
// resolved, and as byte offsets otherwise.
func (t *Tree) FormatRange(sp source.Span) string {
	if !sp.IsValid() {
		return "[?)"
	}
	if t.fs != nil && t.fs.Get(sp.File) != nil {
		start, end := t.fs.Resolve(sp)
		return fmt.Sprintf("[%s-%s)", start, end)
	}
	return fmt.Sprintf("[%d-%d)", sp.Start, sp.End)
}

// Describe returns a short label for the construct behind id.
func (t *Tree) Describe(id ScopeID) string {
	s := t.scopes.Get(id)
	if s == nil {
		return ""
	}
	b := t.b
	ref := s.Ref
	switch s.Kind {
	case KindFunctionDecl:
		if fn, ok := b.Decls.Func(ref.Decl); ok {
			if fn.IsInit {
				return "init"
			}
			return b.Name(fn.Name)
		}
	case KindNominalType:
		if n, ok := b.Decls.Nominal(ref.Decl); ok {
			return n.Kind.String() + " " + b.Name(n.Name)
		}
	case KindGenericParam:
		if gp, ok := b.Decls.GenericParam(t.genericParam(ref.Decl, ref.Index)); ok {
			return b.Name(gp.Name)
		}
	case KindPatternEntryDecl, KindConditionalClausePatternUse, KindForEachPattern:
		return t.patternNames(ref.Pattern)
	case KindConditionalClause:
		return fmt.Sprintf("cond %d", ref.Index)
	case KindAccessor:
		if acc, ok := b.Decls.Accessor(ref.Decl); ok {
			return acc.Kind.String()
		}
	case KindAttachedPropertyWrapper, KindSpecializeAttribute:
		if a := b.Attrs.Get(ref.Attr); a != nil {
			return "@" + b.Name(a.Name)
		}
	case KindDiversion:
		return fmt.Sprintf("-> #%d", s.lookupParent)
	case KindBraceStmt:
		if br, ok := b.Stmts.Brace(ref.Stmt); ok && br.Missing() {
			return "unclosed"
		}
	}
	return ""
}

func (t *Tree) patternNames(pat ast.PatternID) string {
	names := t.b.Patterns.BoundNames(pat)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, t.b.Name(n))
	}
	return strings.Join(parts, ",")
}
