package ast

import (
	"scopetree/internal/source"
)

// File is one parsed source file. Decls holds the top-level elements in
// source order; top-level statements are wrapped in DeclTopLevelCode.
type File struct {
	Source source.FileID
	Span   source.Span
	Decls  []DeclID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(src source.FileID, sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Source: src,
		Span:   sp,
		Decls:  make([]DeclID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
