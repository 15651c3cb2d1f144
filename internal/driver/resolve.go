package driver

import (
	"asli/internal/diag"
	"asli/internal/symbols"
)

// ResolveFiles registers every parsed file's top-level declarations into
// the session's shared symbols.Table, loading the builtin prelude first.
// Declarations are registered for every file before any `operator`
// candidate name is resolved, so an operator in one file may legally
// name a function declared later in another file.
func (s *Session) ResolveFiles(perFile [][]symbols.OperatorCandidate, customPrelude []symbols.PreludeEntry) {
	resolver := symbols.NewResolver(s.Table, diag.BagReporter{Bag: s.Diags}, s.B)
	resolver.LoadPrelude(customPrelude)

	for i, astFile := range s.asts {
		s.emit(s.paths[i], StageResolve, StatusWorking, nil)
		resolver.ResolveFile(astFile, nil)
		s.emit(s.paths[i], StageResolve, StatusDone, nil)
	}
	for _, candidates := range perFile {
		resolver.ResolveOperators(candidates)
	}
}
