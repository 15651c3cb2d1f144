package driver

import (
	"asli/internal/diag"
	"asli/internal/lexer"
	"asli/internal/parser"
	"asli/internal/source"
	"asli/internal/symbols"
)

// ParseFiles parses every loaded file, in load order, into the session's
// shared Builder — serially, since the Builder's arenas are not
// goroutine-safe and every file contributes declarations to the same
// translation unit (ASL has no per-file module boundary).
func (s *Session) ParseFiles() ([][]symbols.OperatorCandidate, error) {
	var perFile [][]symbols.OperatorCandidate
	for i, id := range s.files {
		path := s.paths[i]
		s.emit(path, StageParse, StatusWorking, nil)
		file := s.FS.Get(id)
		lx := lexer.New(file, lexer.Options{})
		p := parser.New(lx, s.Str, diag.BagReporter{Bag: s.Diags}, id, s.B)
		astFile := p.ParseFile()
		s.asts = append(s.asts, astFile)

		var candidates []symbols.OperatorCandidate
		for _, oc := range p.OperatorCandidates() {
			names := make([]source.StringID, len(oc.Names))
			copy(names, oc.Names)
			candidates = append(candidates, symbols.OperatorCandidate{Decl: oc.Decl, Names: names})
		}
		perFile = append(perFile, candidates)

		if s.Diags.AtLimit() {
			s.emit(path, StageParse, StatusError, errTooManyDiagnostics)
			break
		}
		s.emit(path, StageParse, StatusDone, nil)
	}
	return perFile, nil
}

var errTooManyDiagnostics = &diagLimitError{}

type diagLimitError struct{}

func (*diagLimitError) Error() string { return "too many diagnostics" }
