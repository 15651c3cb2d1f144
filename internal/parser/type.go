package parser

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/token"
)

// parseType parses a type expression: `integer {constraints}`, `bits(w)`,
// a fixed-width sintN name (`i8`, `i32`, ...), `array [size] of T`,
// `typeof(e)`, a tuple `(T1, T2, ...)`, or a named (optionally parameterised)
// type `Name` / `Name(e1, e2, ...)`.
func (p *Parser) parseType() ast.TypeID {
	start := p.peek().Span

	switch {
	case p.at(token.KwTypeof):
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
		e := p.parseExpr()
		p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
		return p.b.Types.NewTypeOf(e, p.spanFrom(start))

	case p.at(token.KwArray):
		p.advance()
		p.expect(token.LBracket, diag.SynUnexpectedToken, "'['")
		size := p.parseExpr()
		p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
		p.expect(token.KwOf, diag.SynExpectedOf, "'of'")
		elem := p.parseType()
		return p.b.Types.NewArray(elem, size, p.spanFrom(start))

	case p.at(token.LParen):
		p.advance()
		var elems []ast.TypeID
		if !p.at(token.RParen) {
			elems = append(elems, p.parseType())
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				elems = append(elems, p.parseType())
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
		return p.b.Types.NewTuple(elems, p.spanFrom(start))

	case p.at(token.Ident):
		nameTok := p.advance()
		text := nameTok.Text

		switch {
		case text == "integer":
			var constraints []ast.IntConstraint
			if p.at(token.LBrace) {
				constraints = p.parseIntConstraints()
			}
			return p.b.Types.NewInteger(constraints, p.spanFrom(start))

		case text == "bits":
			p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
			w := p.parseExpr()
			p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
			return p.b.Types.NewBits(w, p.spanFrom(start))

		case isSizedIntName(text):
			widthExpr := p.b.Exprs.NewLiteral(ast.LitInteger, p.intern(text[1:]), 0, nameTok.Span)
			return p.b.Types.NewSizedInt(widthExpr, p.spanFrom(start))

		default:
			var args []ast.ExprID
			if p.at(token.LParen) {
				p.advance()
				if !p.at(token.RParen) {
					args = append(args, p.parseExpr())
					for {
						if _, ok := p.accept(token.Comma); !ok {
							break
						}
						args = append(args, p.parseExpr())
					}
				}
				p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
			}
			return p.b.Types.NewIdent(p.intern(text), args, p.spanFrom(start))
		}

	default:
		tok := p.peek()
		p.errorf(diag.SynUnexpectedToken, tok.Span, "expected a type, found %s", tokenDesc(tok))
		return p.b.Types.NewIdent(p.intern("<error>"), nil, tok.Span)
	}
}

func isSizedIntName(text string) bool {
	if len(text) < 2 || text[0] != 'i' {
		return false
	}
	for i := 1; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}

// parseIntConstraints parses `{ elem, elem, ... }` where elem is `lo..hi` or
// a single expression, the constraint-set syntax of an `integer {...}` type.
func (p *Parser) parseIntConstraints() []ast.IntConstraint {
	p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	var out []ast.IntConstraint
	if !p.at(token.RBrace) {
		out = append(out, p.parseIntConstraintElem())
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			out = append(out, p.parseIntConstraintElem())
		}
	}
	p.expect(token.RBrace, diag.SynUnexpectedToken, "'}'")
	return out
}

func (p *Parser) parseIntConstraintElem() ast.IntConstraint {
	lo := p.parseExpr()
	if _, ok := p.accept(token.DotDot); ok {
		hi := p.parseExpr()
		return ast.IntConstraint{Kind: ast.ConstraintRange, Lo: lo, Hi: hi}
	}
	return ast.IntConstraint{Kind: ast.ConstraintSingle, Val: lo}
}
