package parser

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/token"
)

// parsePattern parses one matching pattern: a literal, a constant
// reference, `otherwise`, a tuple, a set, a range, a mask, or an arbitrary
// expression matched by equality. Used for `when` alternatives in `case`
// and for the right side of the IN operator.
func (p *Parser) parsePattern() ast.PatternID {
	start := p.peek().Span

	switch p.peek().Kind {
	case token.KwOtherwise:
		p.advance()
		return p.b.Patterns.NewWildcard(p.spanFrom(start))

	case token.LParen:
		p.advance()
		var elems []ast.PatternID
		if !p.at(token.RParen) {
			elems = append(elems, p.parsePattern())
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				elems = append(elems, p.parsePattern())
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
		return p.b.Patterns.NewTuple(elems, p.spanFrom(start))

	case token.LBrace:
		p.advance()
		var elems []ast.PatternID
		if !p.at(token.RBrace) {
			elems = append(elems, p.parsePattern())
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				elems = append(elems, p.parsePattern())
			}
		}
		p.expect(token.RBrace, diag.SynUnexpectedToken, "'}'")
		return p.b.Patterns.NewSet(elems, p.spanFrom(start))

	case token.MaskLit:
		tok := p.advance()
		val := p.b.Exprs.NewLiteral(ast.LitMask, p.intern(tok.Text), literalWidth(tok.Text), tok.Span)
		return p.b.Patterns.NewMask(val, p.spanFrom(start))

	case token.Ident:
		// A bare name that ends the pattern is a constant reference;
		// anything else (a call, arithmetic, a range lower bound) falls
		// through to the expression form below.
		switch p.peekN(1).Kind {
		case token.Colon, token.Comma, token.RParen, token.RBrace:
			tok := p.advance()
			return p.b.Patterns.NewConstRef(p.intern(tok.Text), p.spanFrom(start))
		}
	}

	val := p.parseConcat()
	if _, ok := p.accept(token.DotDot); ok {
		hi := p.parseConcat()
		return p.b.Patterns.NewRange(val, hi, p.spanFrom(start))
	}
	if p.b.Exprs.Get(val).Kind == ast.ExprLiteral {
		return p.b.Patterns.NewLiteral(val, p.spanFrom(start))
	}
	return p.b.Patterns.NewSingle(val, p.spanFrom(start))
}
