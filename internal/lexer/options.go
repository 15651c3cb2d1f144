package lexer

import (
	"asli/internal/diag"
	"asli/internal/source"
)

type Options struct {
	Reporter diag.Reporter // may be nil, in which case diagnostics are dropped but lexing continues
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (lx *Lexer) warn(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevWarning, sp, msg, nil, nil)
	}
}
