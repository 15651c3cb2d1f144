package ast

import "asli/internal/source"

// File is a single parsed translation unit: an ordered list of top-level
// declarations. ASL has no module/import system, so a File carries no
// namespace metadata beyond its span.
type File struct {
	Span  source.Span
	Decls []DeclID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp, Decls: make([]DeclID, 0)}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}

func (f *Files) PushDecl(id FileID, decl DeclID) {
	file := f.Get(id)
	file.Decls = append(file.Decls, decl)
}
