// Package driver wires internal/lexer, internal/parser, internal/symbols,
// internal/sema, internal/xform, internal/mono, internal/backend, and
// internal/emit into the end-to-end asli/asl2c pipeline, reporting
// progress to a ProgressSink as each stage starts and finishes.
package driver

import (
	"fmt"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/project"
	"asli/internal/sema"
	"asli/internal/source"
	"asli/internal/symbols"
)

// Session holds the shared state of one compilation: ASL has no
// module/import system (internal/ast.File's doc comment), so every input
// file is a declaration list folded into one shared Builder/Table/Bag,
// not a per-file arena merged afterward.
type Session struct {
	FS    *source.FileSet
	Str   *source.Interner
	B     *ast.Builder
	Table *symbols.Table
	Diags *diag.Bag

	MaxDiagnostics int
	Sink           ProgressSink

	files   []source.FileID
	asts    []ast.FileID
	paths   []string
}

// NewSession creates a Session rooted at baseDir (used for relative path
// display) with a diagnostic bag capped at maxDiagnostics.
func NewSession(baseDir string, maxDiagnostics int) *Session {
	str := source.NewInterner()
	return &Session{
		FS:             source.NewFileSetWithBase(baseDir),
		Str:            str,
		B:              ast.NewBuilder(ast.Hints{}),
		Table:          symbols.NewTable(symbols.Hints{}, str, source.Span{}),
		Diags:          diag.NewBag(maxDiagnostics),
		MaxDiagnostics: maxDiagnostics,
		Sink:           NullSink{},
	}
}

// LoadFiles reads paths from disk into the session's FileSet, in order.
func (s *Session) LoadFiles(paths []string) error {
	for _, p := range paths {
		id, err := s.FS.Load(p)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		s.files = append(s.files, id)
		s.paths = append(s.paths, p)
	}
	return nil
}

// emit reports an event if the session has a non-nil sink.
func (s *Session) emit(file string, stage Stage, status Status, err error) {
	if s.Sink == nil {
		return
	}
	s.Sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err})
}

// ContentDigest hashes one loaded file's bytes for project.DiskCache
// lookups.
func (s *Session) ContentDigest(id source.FileID) project.Digest {
	return project.Digest(s.FS.Get(id).Hash)
}
