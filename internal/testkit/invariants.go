package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"scopetree/internal/ast"
	"scopetree/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span is non-empty and within file content bounds
// 2) every written top-level decl span is non-empty and inside file.Span
// 3) top-level decls do not overlap and come in source order
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	// 1) file span sanity
	if f.Span.End <= f.Span.Start && len(sf.Content) > 0 {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	// 2) decl spans within file span; 3) ordering
	var prev source.Span
	havePrev := false
	for _, id := range f.Decls {
		d := b.Decls.Get(id)
		if d == nil {
			return fmt.Errorf("nil decl for id=%d", id)
		}
		if d.Implicit || d.Kind == ast.DeclVar {
			continue
		}
		sp := d.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty %s span: %v", d.Kind, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("decl span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("%s span %v is outside file span %v", d.Kind, sp, f.Span)
		}
		if havePrev && prev.End > sp.Start {
			return fmt.Errorf("%s span %v overlaps previous %v", d.Kind, sp, prev)
		}
		prev, havePrev = sp, true
	}
	return nil
}
