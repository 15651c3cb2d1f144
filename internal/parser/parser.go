// Package parser implements syntactic analysis: a hand-written
// recursive-descent parser with arbitrary buffered lookahead that turns a
// token stream into the ast package's arena-backed tree.
package parser

import (
	"fmt"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/lexer"
	"asli/internal/source"
	"asli/internal/token"
)

// Parser consumes one file's worth of tokens and builds into a shared
// ast.Builder: one parser per file, one builder (and so one arena set)
// per program.
type Parser struct {
	lx       *lexer.Lexer
	interner *source.Interner
	rep      diag.Reporter
	fileID   source.FileID
	b        *ast.Builder

	buf  []token.Token
	prev token.Token

	operatorCandidates []OperatorCandidateNames
}

// OperatorCandidateNames records the as-written candidate function names for
// one `operator` declaration. DeclOperatorData has no slot for names — only
// resolved Candidates []DeclID — so a single-pass parser that cannot yet see
// forward-declared functions stashes the raw names here; internal/symbols
// resolves them against its global table and patches DeclOperatorData in
// place once every top-level name is known.
type OperatorCandidateNames struct {
	Decl  ast.DeclID
	Names []source.StringID
}

// OperatorCandidates returns every operator declaration's unresolved
// candidate name list collected while parsing.
func (p *Parser) OperatorCandidates() []OperatorCandidateNames { return p.operatorCandidates }

func New(lx *lexer.Lexer, interner *source.Interner, rep diag.Reporter, fileID source.FileID, b *ast.Builder) *Parser {
	return &Parser{lx: lx, interner: interner, rep: rep, fileID: fileID, b: b}
}

func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.lx.Next())
	}
}

func (p *Parser) peekN(n int) token.Token {
	p.fill(n)
	return p.buf[n]
}

func (p *Parser) peek() token.Token { return p.peekN(0) }

func (p *Parser) advance() token.Token {
	p.fill(0)
	t := p.buf[0]
	p.buf = p.buf[1:]
	p.prev = t
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atAny(ks ...token.Kind) bool {
	cur := p.peek().Kind
	for _, k := range ks {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes k or reports code and returns the offending token without
// advancing, so the caller's synchronization point still sees it.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) token.Token {
	if t, ok := p.accept(k); ok {
		return t
	}
	tok := p.peek()
	p.errorf(code, tok.Span, "expected %s, found %s", what, tokenDesc(tok))
	return tok
}

func tokenDesc(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of file"
	}
	if t.Text == "" {
		return "token"
	}
	return "'" + t.Text + "'"
}

func (p *Parser) error(code diag.Code, sp source.Span, msg string) {
	if p.rep != nil {
		p.rep.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (p *Parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	p.error(code, sp, fmt.Sprintf(format, args...))
}

func (p *Parser) intern(s string) source.StringID { return p.interner.Intern(s) }

// spanFrom covers start with the most recently consumed token's span.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.prev.Span)
}

// ParseFile parses one translation unit's declarations to EOF, recovering by
// skipping a token at a time on a malformed top-level declaration so one bad
// declaration does not prevent parsing the rest of the file.
func (p *Parser) ParseFile() ast.FileID {
	startSpan := p.peek().Span
	file := p.b.NewFile(startSpan)
	for !p.at(token.EOF) {
		markStart := p.peek().Span.Start
		d := p.parseDecl()
		if d.IsValid() {
			p.b.PushDecl(file, d)
			continue
		}
		// Recovery: if parseDecl consumed nothing, force progress.
		if p.peek().Span.Start == markStart {
			p.advance()
		}
	}
	return file
}
