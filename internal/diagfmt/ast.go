package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"scopetree/internal/ast"
	"scopetree/internal/source"
)

// FormatASTPretty prints an outline of the parsed file: declarations,
// statements that own bodies and closures, each with its span.
func FormatASTPretty(w io.Writer, b *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := b.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	header := "File"
	if fs != nil {
		if f := fs.Get(file.Source); f != nil {
			header = formatPath(f, fs.BaseDir(), PathModeAuto)
		}
	}
	o := outliner{b: b, fs: fs}
	root := &treeNode{label: fmt.Sprintf("%s (span: %s)", header, o.span(file.Span))}
	for _, d := range file.Decls {
		o.decl(root, d)
	}
	return renderTree(w, root)
}

type outliner struct {
	b  *ast.Builder
	fs *source.FileSet
}

func (o *outliner) span(sp source.Span) string {
	if !sp.IsValid() {
		return "implicit"
	}
	if o.fs == nil || o.fs.Get(sp.File) == nil {
		return fmt.Sprintf("%d-%d", sp.Start, sp.End)
	}
	start, end := o.fs.Resolve(sp)
	return fmt.Sprintf("%s-%s", start, end)
}

func (o *outliner) names(ids []source.StringID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, o.b.Name(id))
	}
	return strings.Join(parts, ", ")
}

func (o *outliner) elements(parent *treeNode, elems []ast.Element) {
	for _, el := range elems {
		if id, ok := el.Decl(); ok {
			o.decl(parent, id)
		} else if id, ok := el.Stmt(); ok {
			o.stmt(parent, id)
		} else if id, ok := el.Expr(); ok {
			o.expr(parent, id)
		}
	}
}

func (o *outliner) decl(parent *treeNode, id ast.DeclID) {
	d := o.b.Decls.Get(id)
	if d == nil {
		return
	}
	label := d.Kind.String()
	node := &treeNode{}
	switch d.Kind {
	case ast.DeclFunc:
		fn, _ := o.b.Decls.Func(id)
		name := o.b.Name(fn.Name)
		if fn.IsInit {
			name = "init"
		}
		label += " " + name
		if len(fn.Generics) > 0 {
			node.add("generics: " + o.declNames(fn.Generics))
		}
		if len(fn.Params) > 0 {
			node.add("params: " + o.declNames(fn.Params))
		}
		switch {
		case fn.BodyDelayed:
			node.add(fmt.Sprintf("body: delayed (span: %s)", o.span(fn.BodySpan)))
		case fn.Body.IsValid():
			o.stmt(node, fn.Body)
		}
	case ast.DeclPatternBinding:
		pb, _ := o.b.Decls.PatternBinding(id)
		if pb.IsLet {
			label += " let"
		} else {
			label += " var"
		}
		for i := range pb.Entries {
			e := &pb.Entries[i]
			entry := node.add(fmt.Sprintf("entry %s", o.names(o.b.Patterns.BoundNames(e.Pattern))))
			o.expr(entry, e.Init)
			for _, acc := range e.Accessors {
				o.decl(entry, acc)
			}
		}
	case ast.DeclVar:
		v, _ := o.b.Decls.Var(id)
		label += " " + o.b.Name(v.Name)
	case ast.DeclNominal:
		n, _ := o.b.Decls.Nominal(id)
		label = fmt.Sprintf("%s %s", n.Kind, o.b.Name(n.Name))
		if len(n.Generics) > 0 {
			node.add("generics: " + o.declNames(n.Generics))
		}
		for _, m := range n.Members {
			o.decl(node, m)
		}
	case ast.DeclExtension:
		ext, _ := o.b.Decls.Extension(id)
		for _, m := range ext.Members {
			o.decl(node, m)
		}
	case ast.DeclAccessor:
		acc, _ := o.b.Decls.Accessor(id)
		label += " " + acc.Kind.String()
		o.stmt(node, acc.Body)
	case ast.DeclTopLevelCode:
		tlc, _ := o.b.Decls.TopLevelCode(id)
		if br, ok := o.b.Stmts.Brace(tlc.Body); ok {
			o.elements(node, br.Elements)
		}
	case ast.DeclIfConfig:
		ic, _ := o.b.Decls.IfConfig(id)
		for i := range ic.Clauses {
			c := &ic.Clauses[i]
			state := "inactive"
			if c.Active {
				state = "active"
			}
			clause := node.add(fmt.Sprintf("clause %d %s (span: %s)", i, state, o.span(c.Span)))
			o.elements(clause, c.Elements)
		}
	case ast.DeclTypeAlias:
		ta, _ := o.b.Decls.TypeAlias(id)
		label += " " + o.b.Name(ta.Name)
	case ast.DeclImport:
		imp, _ := o.b.Decls.Import(id)
		paths := make([]string, 0, len(imp.Path))
		for _, p := range imp.Path {
			paths = append(paths, o.b.Name(p))
		}
		label += " " + strings.Join(paths, ".")
	case ast.DeclEnumCase:
		ec, _ := o.b.Decls.EnumCase(id)
		names := make([]string, 0, len(ec.Elements))
		for _, el := range ec.Elements {
			names = append(names, o.b.Name(el.Name))
		}
		label += " " + strings.Join(names, ", ")
	}
	node.label = fmt.Sprintf("%s (span: %s)", label, o.span(d.Span))
	parent.children = append(parent.children, node)
}

func (o *outliner) declNames(ids []ast.DeclID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := o.b.Decls.Param(id); ok {
			parts = append(parts, o.b.Name(p.Name))
		} else if gp, ok := o.b.Decls.GenericParam(id); ok {
			parts = append(parts, o.b.Name(gp.Name))
		}
	}
	return strings.Join(parts, ", ")
}

func (o *outliner) stmt(parent *treeNode, id ast.StmtID) {
	st := o.b.Stmts.Get(id)
	if st == nil {
		return
	}
	node := &treeNode{label: fmt.Sprintf("%s (span: %s)", st.Kind, o.span(st.Span))}
	switch st.Kind {
	case ast.StmtBrace:
		br, _ := o.b.Stmts.Brace(id)
		if br.Missing() {
			node.label += " unclosed"
		}
		o.elements(node, br.Elements)
	case ast.StmtIf:
		s, _ := o.b.Stmts.If(id)
		o.conditions(node, s.Conds)
		o.stmt(node, s.Then)
		o.stmt(node, s.Else)
	case ast.StmtGuard:
		s, _ := o.b.Stmts.Guard(id)
		o.conditions(node, s.Conds)
		o.stmt(node, s.Body)
	case ast.StmtWhile:
		s, _ := o.b.Stmts.While(id)
		o.conditions(node, s.Conds)
		o.stmt(node, s.Body)
	case ast.StmtRepeatWhile:
		s, _ := o.b.Stmts.RepeatWhile(id)
		o.stmt(node, s.Body)
	case ast.StmtForEach:
		s, _ := o.b.Stmts.ForEach(id)
		node.add("pattern: " + o.names(o.b.Patterns.BoundNames(s.Pattern)))
		o.stmt(node, s.Body)
	case ast.StmtSwitch:
		s, _ := o.b.Stmts.Switch(id)
		for _, c := range s.Cases {
			o.stmt(node, c)
		}
	case ast.StmtCase:
		s, _ := o.b.Stmts.Case(id)
		if s.IsDefault {
			node.label += " default"
		}
		o.stmt(node, s.Body)
	case ast.StmtDo:
		s, _ := o.b.Stmts.Do(id)
		o.stmt(node, s.Body)
	case ast.StmtDoCatch:
		s, _ := o.b.Stmts.DoCatch(id)
		o.stmt(node, s.Body)
		for _, c := range s.Catches {
			o.stmt(node, c)
		}
	case ast.StmtCatch:
		s, _ := o.b.Stmts.Catch(id)
		o.stmt(node, s.Body)
	case ast.StmtDefer:
		s, _ := o.b.Stmts.Defer(id)
		o.stmt(node, s.Body)
	case ast.StmtReturn, ast.StmtThrow:
		s, _ := o.b.Stmts.Return(id)
		o.expr(node, s.Value)
	}
	parent.children = append(parent.children, node)
}

func (o *outliner) conditions(parent *treeNode, conds []ast.Condition) {
	for i := range conds {
		c := &conds[i]
		label := fmt.Sprintf("cond %d (span: %s)", i, o.span(c.Span))
		if c.Pattern.IsValid() {
			label += " binds " + o.names(o.b.Patterns.BoundNames(c.Pattern))
		}
		parent.add(label)
	}
}

// expr добавляет только замыкания: остальное в outline не нужно.
func (o *outliner) expr(parent *treeNode, id ast.ExprID) {
	o.b.Inspect(id, func(eid ast.ExprID, e *ast.Expr) bool {
		if e.Kind != ast.ExprClosure {
			return true
		}
		c, _ := o.b.Exprs.Closure(eid)
		node := parent.add(fmt.Sprintf("Closure (span: %s)", o.span(e.Span)))
		if len(c.Params) > 0 {
			node.add("params: " + o.declNames(c.Params))
		}
		o.stmt(node, c.Body)
		return false
	})
}
