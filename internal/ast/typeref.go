package ast

import "scopetree/internal/source"

// TypeRef is a loosely parsed type annotation. Types never introduce scopes,
// so only the head name and the covered text are kept.
type TypeRef struct {
	Name source.StringID
	Span source.Span
}

// IsValid reports whether a type was written.
func (t TypeRef) IsValid() bool { return t.Span.IsValid() }
