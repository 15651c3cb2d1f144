package driver

import (
	"asli/internal/sema"
	"asli/internal/source"
	"asli/internal/value"
)

// CheckFiles typechecks every parsed file with one shared sema.Checker, so
// a declaration in one file may reference a symbol declared in another —
// one single-threaded, serialized pass over the whole program.
func (s *Session) CheckFiles(consts map[source.StringID]value.Value) sema.Result {
	c := sema.NewChecker(s.B, s.Str, s.Table, s.Diags, consts)
	for i, astFile := range s.asts {
		s.emit(s.paths[i], StageCheck, StatusWorking, nil)
		c.CheckFile(astFile)
		s.emit(s.paths[i], StageCheck, StatusDone, nil)
	}
	return c.Result()
}
