package driver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"asli/internal/diag"
	"asli/internal/lexer"
	"asli/internal/source"
	"asli/internal/token"
)

// TokenizeResult is one file's token stream, produced independently of
// parsing. Session.Run does not tokenize separately (ParseFiles lexes as it
// parses), and neither command-line tool calls TokenizeFiles.
type TokenizeResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
}

// TokenizeFiles lexes every loaded file concurrently with
// golang.org/x/sync/errgroup: each lexer reads one read-only source.File
// and writes into an isolated token slice and Bag, so no shared mutable
// state needs protecting (unlike ParseFiles, which writes into the
// session's single shared ast.Builder and must run serially).
func (s *Session) TokenizeFiles(ctx context.Context, jobs int) ([]TokenizeResult, error) {
	if jobs <= 0 {
		jobs = len(s.files)
	}
	results := make([]TokenizeResult, len(s.files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, jobs))

	for i, id := range s.files {
		i, id := i, id
		path := s.paths[i]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			s.emit(path, StageParse, StatusWorking, nil)
			bag := diag.NewBag(s.MaxDiagnostics)
			file := s.FS.Get(id)
			lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
			var toks []token.Token
			for {
				tok := lx.Next()
				toks = append(toks, tok)
				if tok.Kind == token.EOF {
					break
				}
			}
			results[i] = TokenizeResult{Path: path, FileID: id, Tokens: toks, Bag: bag}
			if bag.HasErrors() {
				s.emit(path, StageParse, StatusError, fmt.Errorf("%d diagnostics", bag.Len()))
			} else {
				s.emit(path, StageParse, StatusDone, nil)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
