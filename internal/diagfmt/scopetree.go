package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"scopetree/internal/astscope"
)

type scopePalette struct {
	decl, stmt, clause *color.Color
	closure, divert    *color.Color
	rng, lazy, names   *color.Color
}

func newScopePalette(enabled bool) scopePalette {
	return scopePalette{
		decl:    newColor(enabled, color.FgYellow, color.Bold),
		stmt:    newColor(enabled, color.FgCyan),
		clause:  newColor(enabled, color.FgGreen),
		closure: newColor(enabled, color.FgMagenta),
		divert:  newColor(enabled, color.FgRed, color.Bold),
		rng:     newColor(enabled, color.FgHiBlack),
		lazy:    newColor(enabled, color.Faint, color.Italic),
		names:   newColor(enabled, color.FgBlue),
	}
}

func (p scopePalette) kind(k astscope.Kind) *color.Color {
	switch k {
	case astscope.KindSourceFile, astscope.KindNominalType, astscope.KindExtension,
		astscope.KindTypeBody, astscope.KindFunctionDecl, astscope.KindPatternEntryDecl,
		astscope.KindAccessors, astscope.KindAccessor, astscope.KindTopLevelCode:
		return p.decl
	case astscope.KindConditionalClause, astscope.KindConditionalClausePatternUse,
		astscope.KindForEachPattern, astscope.KindCatchClause, astscope.KindCaseClause,
		astscope.KindParameterList, astscope.KindGenericParam:
		return p.clause
	case astscope.KindClosure, astscope.KindCaptureList, astscope.KindClosureParameters,
		astscope.KindClosureBody:
		return p.closure
	case astscope.KindDiversion:
		return p.divert
	default:
		return p.stmt
	}
}

// ScopeTree renders the scopes built so far below id as a tree with
// connectors. Nothing is expanded: call ExpandAll first for a full view.
func ScopeTree(w io.Writer, tree *astscope.Tree, id astscope.ScopeID, opts TreeOpts) error {
	r := scopeRenderer{tree: tree, opts: opts, pal: newScopePalette(opts.Color)}
	root := r.node(id)
	if root == nil {
		return fmt.Errorf("scope %d not found", id)
	}
	if fs := tree.FileSet(); fs != nil {
		if af := tree.Builder().Files.Get(tree.File()); af != nil {
			if f := fs.Get(af.Source); f != nil {
				root.label = formatPath(f, fs.BaseDir(), opts.PathMode) + " " + root.label
			}
		}
	}
	return renderTree(w, root)
}

type scopeRenderer struct {
	tree *astscope.Tree
	opts TreeOpts
	pal  scopePalette
}

func (r *scopeRenderer) node(id astscope.ScopeID) *treeNode {
	sc := r.tree.Scope(id)
	if sc == nil {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(r.pal.kind(sc.Kind).Sprint(sc.Kind.String()))
	if r.opts.Addresses {
		fmt.Fprintf(&sb, " #%d", id)
	}
	sb.WriteByte(' ')
	sb.WriteString(r.pal.rng.Sprint(r.tree.FormatRange(r.tree.SourceRange(id))))
	if d := r.detail(id, sc); d != "" {
		sb.WriteByte(' ')
		sb.WriteString(d)
	}
	if r.opts.Names {
		if names := r.names(id); names != "" {
			sb.WriteByte(' ')
			sb.WriteString(r.pal.names.Sprint("{" + names + "}"))
		}
	}
	if sc.State == astscope.NotExpanded {
		sb.WriteByte(' ')
		sb.WriteString(r.pal.lazy.Sprint("(lazy)"))
	}
	n := &treeNode{label: sb.String()}
	for _, c := range sc.Built() {
		if child := r.node(c); child != nil {
			n.children = append(n.children, child)
		}
	}
	return n
}

// detail: без адресов ссылка диверсии печатается как вид целевой области
func (r *scopeRenderer) detail(id astscope.ScopeID, sc *astscope.Scope) string {
	if sc.Kind != astscope.KindDiversion || r.opts.Addresses {
		return r.tree.Describe(id)
	}
	lp := sc.LookupParent()
	if !lp.IsValid() {
		return ""
	}
	return "-> " + r.tree.Kind(lp).String()
}

func (r *scopeRenderer) names(id astscope.ScopeID) string {
	vs := r.tree.Introduced(id)
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.Name)
	}
	return strings.Join(parts, ", ")
}
