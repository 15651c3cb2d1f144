package parser

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/token"
)

// parseBlock parses statements up to (but not consuming) the first token in
// stop, or to EOF, recovering from a stuck parseStmt the same way ParseFile
// recovers from a stuck parseDecl.
func (p *Parser) parseBlock(stop ...token.Kind) ast.StmtID {
	start := p.peek().Span
	var stmts []ast.StmtID
	for !p.at(token.EOF) && !p.atAny(stop...) {
		markStart := p.peek().Span.Start
		s := p.parseStmt()
		if s.IsValid() {
			stmts = append(stmts, s)
		}
		if p.peek().Span.Start == markStart {
			p.advance()
		}
	}
	return p.b.Stmts.NewBlock(stmts, p.spanFrom(start))
}

func (p *Parser) parseStmt() ast.StmtID {
	switch p.peek().Kind {
	case token.KwLet, token.KwVar, token.KwConstant, token.KwConfig:
		return p.parseVarDeclStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwThrow:
		return p.parseThrowStmt()
	case token.KwTry:
		return p.parseTryCatchStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwCase:
		return p.parseCaseStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwRepeat:
		return p.parseRepeatStmt()
	case token.KwBegin:
		p.advance()
		b := p.parseBlock(token.KwEnd)
		p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
		return b
	case token.Semicolon:
		p.advance()
		return ast.NoStmtID
	case token.Ident:
		if p.peek().Text == "assert" {
			return p.parseAssertStmt()
		}
		return p.parseIdentStmt()
	default:
		tok := p.peek()
		p.errorf(diag.SynUnexpectedToken, tok.Span, "expected a statement, found %s", tokenDesc(tok))
		p.advance()
		return ast.NoStmtID
	}
}

// blockTerminators are the tokens that can legally follow a `return` with no
// value, used to tell a valueless return apart from one whose expression
// follows immediately.
func (p *Parser) atBlockEnd() bool {
	return p.atAny(token.EOF, token.KwEnd, token.KwElse, token.KwElsif, token.KwWhen, token.KwOtherwise, token.KwUntil, token.KwCatch, token.Semicolon)
}

func (p *Parser) parseVarDeclStmt() ast.StmtID {
	start := p.peek().Span
	var binding ast.VarDeclBinding
	switch p.peek().Kind {
	case token.KwLet:
		binding = ast.BindingLet
	case token.KwVar:
		binding = ast.BindingVar
	case token.KwConstant:
		binding = ast.BindingConstant
	case token.KwConfig:
		binding = ast.BindingConfig
	}
	p.advance()

	shape := ast.VarDeclSingle
	var names []source.StringID
	if _, ok := p.accept(token.LParen); ok {
		first := p.expect(token.Ident, diag.SynUnexpectedToken, "a name")
		names = append(names, p.intern(first.Text))
		if p.at(token.At) {
			shape = ast.VarDeclBitTuple
			for {
				if _, ok := p.accept(token.At); !ok {
					break
				}
				n := p.expect(token.Ident, diag.SynUnexpectedToken, "a name")
				names = append(names, p.intern(n.Text))
			}
		} else {
			shape = ast.VarDeclTuple
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				n := p.expect(token.Ident, diag.SynUnexpectedToken, "a name")
				names = append(names, p.intern(n.Text))
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
	} else {
		n := p.expect(token.Ident, diag.SynUnexpectedToken, "a name")
		names = append(names, p.intern(n.Text))
	}

	var typ ast.TypeID
	if _, ok := p.accept(token.Colon); ok {
		typ = p.parseType()
	}
	var init ast.ExprID
	if _, ok := p.accept(token.Assign); ok {
		init = p.parseExpr()
	}
	p.accept(token.Semicolon)
	return p.b.Stmts.NewVarDecl(binding, shape, names, typ, init, p.spanFrom(start))
}

// parseLValue parses an assignment target: a name, optionally followed by
// field, index, or bitslice steps. The running read-form (base) mirrors each
// step as an ordinary expression, since LVField/LVIndex/LVBitslice all
// reference the prefix as an ExprID rather than a nested LValueID.
func (p *Parser) parseLValue() ast.LValueID {
	start := p.peek().Span
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a name")
	base := p.b.Exprs.NewIdent(p.intern(nameTok.Text), nameTok.Span)
	lv := p.b.LValues.NewIdent(p.intern(nameTok.Text), nameTok.Span)

	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			fname := p.expect(token.Ident, diag.SynUnexpectedToken, "a field name")
			sp := p.spanFrom(start)
			lv = p.b.LValues.NewField(base, p.intern(fname.Text), sp)
			base = p.b.Exprs.NewField(base, p.intern(fname.Text), sp)

		case token.LBracket:
			p.advance()
			a := p.parseExpr()
			switch p.peek().Kind {
			case token.Colon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				sp := p.spanFrom(start)
				lv = p.b.LValues.NewBitslice(ast.BitsliceHighLow, base, a, b, sp)
				base = p.b.Exprs.NewBitslice(ast.BitsliceHighLow, base, a, b, sp)
			case token.PlusColon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				sp := p.spanFrom(start)
				lv = p.b.LValues.NewBitslice(ast.BitsliceLowWidth, base, a, b, sp)
				base = p.b.Exprs.NewBitslice(ast.BitsliceLowWidth, base, a, b, sp)
			case token.MinusColon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				sp := p.spanFrom(start)
				lv = p.b.LValues.NewBitslice(ast.BitsliceHighWidth, base, a, b, sp)
				base = p.b.Exprs.NewBitslice(ast.BitsliceHighWidth, base, a, b, sp)
			case token.StarColon:
				p.advance()
				b := p.parseExpr()
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				sp := p.spanFrom(start)
				lv = p.b.LValues.NewBitslice(ast.BitsliceElement, base, a, b, sp)
				base = p.b.Exprs.NewBitslice(ast.BitsliceElement, base, a, b, sp)
			default:
				p.expect(token.RBracket, diag.SynUnexpectedToken, "']'")
				sp := p.spanFrom(start)
				lv = p.b.LValues.NewIndex(base, a, sp)
				base = p.b.Exprs.NewIndex(base, a, sp)
			}

		default:
			return lv
		}
	}
}

// parseIdentStmt parses either a call used as a statement or an assignment,
// the two statement forms that start with a bare identifier. A call is
// distinguished from an lvalue prefix by the '(' immediately following the
// name, since no lvalue step begins with '('.
func (p *Parser) parseIdentStmt() ast.StmtID {
	start := p.peek().Span
	if p.peekN(1).Kind != token.LParen {
		lv := p.parseLValue()
		p.expect(token.Assign, diag.SynUnexpectedToken, "'='")
		value := p.parseExpr()
		p.accept(token.Semicolon)
		return p.b.Stmts.NewAssign(lv, value, p.spanFrom(start))
	}
	e := p.parseIdentPrimary()
	shape := p.b.Exprs.Get(e)
	if shape.Kind != ast.ExprCallUntyped && shape.Kind != ast.ExprCallTyped {
		p.errorf(diag.SynUnexpectedToken, shape.Span, "expected a call used as a statement")
	}
	p.accept(token.Semicolon)
	return p.b.Stmts.NewCallExpr(e, p.spanFrom(start))
}

func (p *Parser) parseAssertStmt() ast.StmtID {
	start := p.peek().Span
	p.advance() // "assert"
	cond := p.parseExpr()
	var msg source.StringID
	if p.at(token.StringLit) {
		t := p.advance()
		msg = p.intern(t.Text)
	}
	p.accept(token.Semicolon)
	return p.b.Stmts.NewAssert(cond, msg, p.spanFrom(start))
}

func (p *Parser) parseReturnStmt() ast.StmtID {
	start := p.peek().Span
	p.advance()
	if p.atBlockEnd() {
		p.accept(token.Semicolon)
		return p.b.Stmts.NewReturn(ast.NoExprID, false, p.spanFrom(start))
	}
	value := p.parseExpr()
	p.accept(token.Semicolon)
	return p.b.Stmts.NewReturn(value, true, p.spanFrom(start))
}

func (p *Parser) parseThrowStmt() ast.StmtID {
	start := p.peek().Span
	p.advance()
	exc := p.parseExpr()
	p.accept(token.Semicolon)
	return p.b.Stmts.NewThrow(exc, p.spanFrom(start))
}

func (p *Parser) parseTryCatchStmt() ast.StmtID {
	start := p.peek().Span
	p.expect(token.KwTry, diag.SynUnexpectedToken, "'try'")
	body := p.parseBlock(token.KwCatch, token.KwEnd)
	var arms []ast.CatchArm
	var def ast.StmtID
	for p.at(token.KwCatch) {
		armStart := p.peek().Span
		p.advance()
		if _, ok := p.accept(token.KwOtherwise); ok {
			p.expect(token.FatArrow, diag.SynUnexpectedToken, "'=>'")
			def = p.parseBlock(token.KwCatch, token.KwEnd)
			continue
		}
		ty := p.parseType()
		var binder source.StringID
		if _, ok := p.accept(token.KwAs); ok {
			n := p.expect(token.Ident, diag.SynUnexpectedToken, "a binder name")
			binder = p.intern(n.Text)
		}
		p.expect(token.FatArrow, diag.SynUnexpectedToken, "'=>'")
		catchBody := p.parseBlock(token.KwCatch, token.KwEnd)
		arms = append(arms, ast.CatchArm{ExceptionType: ty, Binder: binder, Body: catchBody, Span: p.spanFrom(armStart)})
	}
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Stmts.NewTryCatch(body, arms, def, p.spanFrom(start))
}

func (p *Parser) parseIfStmt() ast.StmtID {
	start := p.peek().Span
	p.expect(token.KwIf, diag.SynUnexpectedToken, "'if'")
	cond := p.parseExpr()
	p.expect(token.KwThen, diag.SynExpectedThen, "'then'")
	body := p.parseBlock(token.KwElsif, token.KwElse, token.KwEnd)
	arms := []ast.IfArm{{Cond: cond, Then: body, Span: p.spanFrom(start)}}
	for p.at(token.KwElsif) {
		as := p.peek().Span
		p.advance()
		c := p.parseExpr()
		p.expect(token.KwThen, diag.SynExpectedThen, "'then'")
		b := p.parseBlock(token.KwElsif, token.KwElse, token.KwEnd)
		arms = append(arms, ast.IfArm{Cond: c, Then: b, Span: p.spanFrom(as)})
	}
	var elseStmt ast.StmtID
	if _, ok := p.accept(token.KwElse); ok {
		elseStmt = p.parseBlock(token.KwEnd)
	}
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Stmts.NewIf(arms, elseStmt, p.spanFrom(start))
}

// looksLikeCaseType guesses whether a `when` alternative names a type rather
// than a value: the type-introducing keywords are unambiguous, and a bare
// `integer`/`bits`/sized-int identifier counts too unless it is itself being
// used as a record-construction or call expression.
func (p *Parser) looksLikeCaseType() bool {
	switch p.peek().Kind {
	case token.KwArray, token.KwTypeof:
		return true
	case token.Ident:
		text := p.peek().Text
		if text == "integer" || text == "bits" || isSizedIntName(text) {
			next := p.peekN(1).Kind
			return next != token.LParen && next != token.LBrace
		}
	}
	return false
}

func (p *Parser) parseCaseStmt() ast.StmtID {
	start := p.peek().Span
	p.expect(token.KwCase, diag.SynUnexpectedToken, "'case'")
	disc := p.parseExpr()
	p.expect(token.KwOf, diag.SynExpectedOf, "'of'")
	var arms []ast.CaseArm
	var def ast.StmtID
	for p.at(token.KwWhen) {
		as := p.peek().Span
		p.advance()
		if _, ok := p.accept(token.KwOtherwise); ok {
			p.expect(token.Colon, diag.SynUnexpectedToken, "':'")
			def = p.parseBlock(token.KwWhen, token.KwEnd)
			continue
		}
		var ty ast.TypeID
		var pat ast.PatternID
		if p.looksLikeCaseType() {
			ty = p.parseType()
		} else {
			pat = p.parsePattern()
		}
		p.expect(token.Colon, diag.SynUnexpectedToken, "':'")
		body := p.parseBlock(token.KwWhen, token.KwEnd)
		arms = append(arms, ast.CaseArm{Type: ty, Pattern: pat, Body: body, Span: p.spanFrom(as)})
	}
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Stmts.NewCase(disc, arms, def, p.spanFrom(start))
}

func (p *Parser) parseForStmt() ast.StmtID {
	start := p.peek().Span
	p.expect(token.KwFor, diag.SynUnexpectedToken, "'for'")
	v := p.expect(token.Ident, diag.SynUnexpectedToken, "a loop variable")
	p.expect(token.Assign, diag.SynUnexpectedToken, "'='")
	lo := p.parseExpr()
	descending := false
	switch p.peek().Kind {
	case token.KwTo:
		p.advance()
	case token.KwDownto:
		p.advance()
		descending = true
	default:
		p.errorf(diag.SynUnexpectedToken, p.peek().Span, "expected 'to' or 'downto'")
	}
	hi := p.parseExpr()
	p.expect(token.KwDo, diag.SynExpectedDo, "'do'")
	body := p.parseBlock(token.KwEnd)
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Stmts.NewForTo(p.intern(v.Text), lo, hi, descending, body, p.spanFrom(start))
}

func (p *Parser) parseWhileStmt() ast.StmtID {
	start := p.peek().Span
	p.expect(token.KwWhile, diag.SynUnexpectedToken, "'while'")
	cond := p.parseExpr()
	p.expect(token.KwDo, diag.SynExpectedDo, "'do'")
	body := p.parseBlock(token.KwEnd)
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Stmts.NewWhile(cond, body, p.spanFrom(start))
}

func (p *Parser) parseRepeatStmt() ast.StmtID {
	start := p.peek().Span
	p.expect(token.KwRepeat, diag.SynUnexpectedToken, "'repeat'")
	body := p.parseBlock(token.KwUntil)
	p.expect(token.KwUntil, diag.SynUnexpectedToken, "'until'")
	cond := p.parseExpr()
	p.accept(token.Semicolon)
	return p.b.Stmts.NewRepeatUntil(body, cond, p.spanFrom(start))
}
