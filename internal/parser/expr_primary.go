package parser

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/token"
)

// parsePostfix parses a primary expression followed by any chain of field
// access, multi-field selection, indexing/bitslice, `with`, and `as` forms.
func (p *Parser) parsePostfix() ast.ExprID {
	e := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.Dot:
			start := p.b.Exprs.Get(e).Span
			p.advance()
			if p.at(token.LBrace) {
				p.advance()
				var names []source.StringID
				if !p.at(token.RBrace) {
					names = append(names, p.intern(p.expect(token.Ident, diag.SynUnexpectedToken, "a field name").Text))
					for {
						if _, ok := p.accept(token.Comma); !ok {
							break
						}
						names = append(names, p.intern(p.expect(token.Ident, diag.SynUnexpectedToken, "a field name").Text))
					}
				}
				p.expect(token.RBrace, diag.SynUnexpectedToken, "'}'")
				e = p.b.Exprs.NewMultiField(e, names, start.Cover(p.prev.Span))
				continue
			}
			name := p.expect(token.Ident, diag.SynUnexpectedToken, "a field name")
			e = p.b.Exprs.NewField(e, p.intern(name.Text), start.Cover(p.prev.Span))

		case token.LBracket:
			start := p.b.Exprs.Get(e).Span
			p.advance()
			a := p.parseExpr()
			switch p.peek().Kind {
			case token.Colon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				e = p.b.Exprs.NewBitslice(ast.BitsliceHighLow, e, a, b, start.Cover(p.prev.Span))
			case token.PlusColon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				e = p.b.Exprs.NewBitslice(ast.BitsliceLowWidth, e, a, b, start.Cover(p.prev.Span))
			case token.MinusColon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				e = p.b.Exprs.NewBitslice(ast.BitsliceHighWidth, e, a, b, start.Cover(p.prev.Span))
			case token.StarColon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				e = p.b.Exprs.NewBitslice(ast.BitsliceElement, e, a, b, start.Cover(p.prev.Span))
			default:
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				e = p.b.Exprs.NewIndex(e, a, start.Cover(p.prev.Span))
			}

		case token.KwWith:
			start := p.b.Exprs.Get(e).Span
			p.advance()
			p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
			var changes []ast.ExprWithChange
			if !p.at(token.RBrace) {
				changes = append(changes, p.parseWithChange())
				for {
					if _, ok := p.accept(token.Comma); !ok {
						break
					}
					changes = append(changes, p.parseWithChange())
				}
			}
			p.expect(token.RBrace, diag.SynUnexpectedToken, "'}'")
			e = p.b.Exprs.NewWith(e, changes, start.Cover(p.prev.Span))

		case token.KwAs:
			start := p.b.Exprs.Get(e).Span
			p.advance()
			if p.at(token.LBrace) {
				constraints := p.parseIntConstraints()
				ty := p.b.Types.NewInteger(constraints, start.Cover(p.prev.Span))
				e = p.b.Exprs.NewAsConstraint(e, ty, start.Cover(p.prev.Span))
			} else {
				ty := p.parseType()
				e = p.b.Exprs.NewAsType(e, ty, start.Cover(p.prev.Span))
			}

		default:
			return e
		}
	}
}

// parseWithChange parses one `change_field f = v` or `change_slice lo +: w = v`
// clause of a `with` expression.
func (p *Parser) parseWithChange() ast.ExprWithChange {
	start := p.peek().Span
	if ident := p.peek(); ident.Kind == token.Ident && ident.Text == "change_slice" {
		p.advance()
		lo := p.parseExpr()
		p.expect(token.PlusColon, diag.SynUnexpectedToken, "'+:'")
		width := p.parseExpr()
		p.expect(token.Assign, diag.SynUnexpectedToken, "'='")
		value := p.parseExpr()
		return ast.ExprWithChange{Kind: ast.ChangeSlice, Lo: lo, Width: width, Value: value, Span: p.spanFrom(start)}
	}
	if ident := p.peek(); ident.Kind == token.Ident && ident.Text == "change_field" {
		p.advance()
	}
	name := p.expect(token.Ident, diag.SynUnexpectedToken, "a field name")
	p.expect(token.Assign, diag.SynUnexpectedToken, "'='")
	value := p.parseExpr()
	return ast.ExprWithChange{Kind: ast.ChangeField, Field: p.intern(name.Text), Value: value, Span: p.spanFrom(start)}
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitInteger, p.intern(tok.Text), 0, tok.Span)
	case token.SizedIntLit:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitSizedInt, p.intern(tok.Text), literalWidth(tok.Text), tok.Span)
	case token.BitsLit:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitBits, p.intern(tok.Text), literalWidth(tok.Text), tok.Span)
	case token.MaskLit:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitMask, p.intern(tok.Text), literalWidth(tok.Text), tok.Span)
	case token.RealLit:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitReal, p.intern(tok.Text), 0, tok.Span)
	case token.StringLit:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitString, p.intern(tok.Text), 0, tok.Span)
	case token.KwTrue:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitBool, p.intern(tok.Text), 0, tok.Span)
	case token.KwFalse:
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitBool, p.intern(tok.Text), 0, tok.Span)

	case token.KwUnknown:
		p.advance()
		p.expect(token.KwAs, diag.SynUnexpectedToken, "'as'")
		ty := p.parseType()
		return p.b.Exprs.NewUnknownOfType(ty, p.spanFrom(tok.Span))

	case token.KwIf:
		return p.parseIfExpr()

	case token.KwLet:
		return p.parseLetExpr()

	case token.LParen:
		p.advance()
		first := p.parseExpr()
		if !p.at(token.Comma) {
			p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
			return first
		}
		elems := []ast.ExprID{first}
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
		return p.b.Exprs.NewTuple(elems, p.spanFrom(tok.Span))

	case token.LBracket:
		p.advance()
		first := p.parseExpr()
		if _, ok := p.accept(token.Semicolon); ok {
			size := p.parseExpr()
			p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
			return p.b.Exprs.NewArrayInitFill(first, size, p.spanFrom(tok.Span))
		}
		elems := []ast.ExprID{first}
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
		return p.b.Exprs.NewArrayInitList(elems, p.spanFrom(tok.Span))

	case token.Ident:
		if tok.Text == "assert" {
			p.advance()
			value := p.parseConcat()
			p.expect(token.KwIn, diag.SynUnexpectedToken, "'in'")
			set := p.parseConcat()
			return p.b.Exprs.NewAssertIn(value, set, p.spanFrom(tok.Span))
		}
		return p.parseIdentPrimary()

	default:
		p.errorf(diag.SynUnexpectedToken, tok.Span, "expected an expression, found %s", tokenDesc(tok))
		p.advance()
		return p.b.Exprs.NewLiteral(ast.LitInteger, p.intern("0"), 0, tok.Span)
	}
}

// parseIdentPrimary parses a bare identifier, a call `f(args)`, or a record
// construction `T(args){ f = v, ... }` / `T{ f = v, ... }`.
func (p *Parser) parseIdentPrimary() ast.ExprID {
	tok := p.advance()
	name := p.intern(tok.Text)

	var args []ast.ExprID
	hasParens := false
	var callArgs []ast.CallArg
	if p.at(token.LParen) {
		hasParens = true
		p.advance()
		if !p.at(token.RParen) {
			a, c := p.parseCallArg()
			args = append(args, a)
			callArgs = append(callArgs, c)
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				a, c := p.parseCallArg()
				args = append(args, a)
				callArgs = append(callArgs, c)
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
	}

	if p.at(token.LBrace) {
		ty := p.b.Types.NewIdent(name, args, p.spanFrom(tok.Span))
		p.advance()
		var fields []ast.RecordFieldInit
		if !p.at(token.RBrace) {
			fields = append(fields, p.parseFieldInit())
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				fields = append(fields, p.parseFieldInit())
			}
		}
		p.expect(token.RBrace, diag.SynUnexpectedToken, "'}'")
		return p.b.Exprs.NewRecordConstruct(ty, fields, p.spanFrom(tok.Span))
	}

	if !hasParens {
		return p.b.Exprs.NewIdent(name, tok.Span)
	}

	throws := ast.ThrowsNever
	if _, ok := p.accept(token.Bang); ok {
		throws = ast.ThrowsAlways
	}
	return p.b.Exprs.NewCallUntyped(name, callArgs, throws, p.spanFrom(tok.Span))
}

// parseCallArg parses one call argument, returning both its value (used when
// the caller wants a bare expression list, e.g. type/record parameterisation)
// and its full CallArg form (used for untyped calls, which track arg names).
func (p *Parser) parseCallArg() (ast.ExprID, ast.CallArg) {
	start := p.peek().Span
	if p.peek().Kind == token.Ident {
		save := p.peekN(1)
		if save.Kind == token.Assign {
			name := p.advance()
			p.advance()
			value := p.parseExpr()
			return value, ast.CallArg{Name: p.intern(name.Text), Value: value, Span: p.spanFrom(start)}
		}
	}
	value := p.parseExpr()
	return value, ast.CallArg{Value: value, Span: p.spanFrom(start)}
}

func (p *Parser) parseFieldInit() ast.RecordFieldInit {
	start := p.peek().Span
	name := p.expect(token.Ident, diag.SynUnexpectedToken, "a field name")
	p.expect(token.Assign, diag.SynUnexpectedToken, "'='")
	value := p.parseExpr()
	return ast.RecordFieldInit{Name: p.intern(name.Text), Value: value, Span: p.spanFrom(start)}
}

func (p *Parser) parseIfExpr() ast.ExprID {
	start := p.peek().Span
	p.expect(token.KwIf, diag.SynUnexpectedToken, "'if'")
	var arms []ast.ExprIfArm
	cond := p.parseExpr()
	p.expect(token.KwThen, diag.SynExpectedThen, "'then'")
	then := p.parseExpr()
	arms = append(arms, ast.ExprIfArm{Cond: cond, Then: then, Span: p.spanFrom(start)})
	for p.at(token.KwElsif) {
		armStart := p.peek().Span
		p.advance()
		c := p.parseExpr()
		p.expect(token.KwThen, diag.SynExpectedThen, "'then'")
		t := p.parseExpr()
		arms = append(arms, ast.ExprIfArm{Cond: c, Then: t, Span: p.spanFrom(armStart)})
	}
	var elseExpr ast.ExprID
	if _, ok := p.accept(token.KwElse); ok {
		elseExpr = p.parseExpr()
	}
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Exprs.NewIf(arms, elseExpr, p.spanFrom(start))
}

func (p *Parser) parseLetExpr() ast.ExprID {
	start := p.peek().Span
	p.expect(token.KwLet, diag.SynUnexpectedToken, "'let'")
	name := p.expect(token.Ident, diag.SynUnexpectedToken, "a name")
	var typ ast.TypeID
	if _, ok := p.accept(token.Colon); ok {
		typ = p.parseType()
	}
	p.expect(token.Assign, diag.SynUnexpectedToken, "'='")
	value := p.parseExpr()
	p.expect(token.KwIn, diag.SynUnexpectedToken, "'in'")
	body := p.parseExpr()
	return p.b.Exprs.NewLet(p.intern(name.Text), typ, value, body, p.spanFrom(start))
}

// literalWidth extracts a leading decimal width prefix from a sized-integer,
// bitvector, or mask literal's raw text (e.g. "i8'd12" or "8'xFF" -> 8); it
// returns 0 when the literal has no such prefix, leaving width recovery to
// the typed-value decoding done downstream.
func literalWidth(text string) uint32 {
	i := 0
	if i < len(text) && (text[i] == 'i' || text[i] == 'I') {
		i++
	}
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	var w uint32
	for _, c := range text[start:i] {
		w = w*10 + uint32(c-'0')
	}
	return w
}
