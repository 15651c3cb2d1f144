package parser

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/token"
)

// parseDecl parses one top-level declaration. On a token it does not
// recognize, it reports an error and returns NoDeclID; ParseFile then
// advances past the offending token to keep making progress.
func (p *Parser) parseDecl() ast.DeclID {
	switch p.peek().Kind {
	case token.KwType:
		return p.parseTypeDecl()
	case token.KwRecord:
		return p.parseRecordDecl(false)
	case token.KwException:
		p.advance()
		p.expect(token.KwRecord, diag.SynBadExceptionMarker, "'record'")
		return p.parseRecordDeclBody(true, p.prev.Span)
	case token.KwEnumeration:
		return p.parseEnumDecl()
	case token.KwFunc:
		return p.parseFuncDecl()
	case token.KwGetter:
		return p.parseGetterDecl()
	case token.KwSetter:
		return p.parseSetterDecl()
	case token.KwConstant:
		return p.parseConstantDecl()
	case token.KwConfig:
		return p.parseConfigDecl()
	case token.KwVar:
		return p.parseVariableDecl()
	case token.Ident:
		if p.peek().Text == "operator" {
			return p.parseOperatorDecl()
		}
	}
	tok := p.peek()
	p.errorf(diag.SynUnexpectedToken, tok.Span, "expected a declaration, found %s", tokenDesc(tok))
	return ast.NoDeclID
}

// parseParams parses a parenthesized formal list `(name: Type = default, ...)`.
// Parameters may omit the default; the list itself may be entirely absent, in
// which case the caller should skip calling parseParams.
func (p *Parser) parseParams() []ast.FnParam {
	p.expect(token.LParen, diag.SynBadFormalList, "'('")
	var params []ast.FnParam
	if !p.at(token.RParen) {
		params = append(params, p.parseParam())
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RParen, diag.SynBadFormalList, "')'")
	return params
}

func (p *Parser) parseParam() ast.FnParam {
	start := p.peek().Span
	nameTok := p.expect(token.Ident, diag.SynBadFormalList, "a parameter name")
	p.expect(token.Colon, diag.SynBadFormalList, "':'")
	typ := p.parseType()
	var def ast.ExprID
	if _, ok := p.accept(token.Assign); ok {
		def = p.parseExpr()
	}
	return ast.FnParam{Name: p.intern(nameTok.Text), Type: typ, Default: def, Span: p.spanFrom(start)}
}

func (p *Parser) parseNameList() []source.StringID {
	var names []source.StringID
	if _, ok := p.accept(token.LParen); !ok {
		return names
	}
	if !p.at(token.RParen) {
		first := p.expect(token.Ident, diag.SynBadRecordParams, "a type parameter")
		names = append(names, p.intern(first.Text))
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			n := p.expect(token.Ident, diag.SynBadRecordParams, "a type parameter")
			names = append(names, p.intern(n.Text))
		}
	}
	p.expect(token.RParen, diag.SynBadRecordParams, "')'")
	return names
}

// parseTypeDecl parses `type Name [(params)] ;` (a forward declaration) or
// `type Name [(params)] = Type ;` (a type abbreviation).
func (p *Parser) parseTypeDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwType, diag.SynUnexpectedToken, "'type'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a type name")
	name := p.intern(nameTok.Text)
	params := p.parseNameList()

	if _, ok := p.accept(token.Assign); ok {
		target := p.parseType()
		p.accept(token.Semicolon)
		return p.b.Decls.NewTypeAbbrev(name, params, target, p.spanFrom(start))
	}
	p.accept(token.Semicolon)
	return p.b.Decls.NewForwardType(name, p.spanFrom(start))
}

// parseRecordDecl parses `record Name [(params)] { field: Type, ... }`.
func (p *Parser) parseRecordDecl(isException bool) ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwRecord, diag.SynUnexpectedToken, "'record'")
	return p.parseRecordDeclBody(isException, start)
}

func (p *Parser) parseRecordDeclBody(isException bool, start source.Span) ast.DeclID {
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a record name")
	name := p.intern(nameTok.Text)
	params := p.parseNameList()

	p.expect(token.LBrace, diag.SynBadRecordParams, "'{'")
	var fields []ast.Field
	if !p.at(token.RBrace) {
		fields = append(fields, p.parseField())
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			if p.at(token.RBrace) {
				break
			}
			fields = append(fields, p.parseField())
		}
	}
	p.expect(token.RBrace, diag.SynBadRecordParams, "'}'")

	if isException {
		return p.b.Decls.NewExceptionRecord(name, params, fields, p.spanFrom(start))
	}
	return p.b.Decls.NewRecord(name, params, fields, p.spanFrom(start))
}

func (p *Parser) parseField() ast.Field {
	start := p.peek().Span
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a field name")
	p.expect(token.Colon, diag.SynUnexpectedToken, "':'")
	typ := p.parseType()
	return ast.Field{Name: p.intern(nameTok.Text), Type: typ, Span: p.spanFrom(start)}
}

// parseEnumDecl parses `enumeration Name { Member [= Value], ... }`.
func (p *Parser) parseEnumDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwEnumeration, diag.SynUnexpectedToken, "'enumeration'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "an enumeration name")
	name := p.intern(nameTok.Text)

	p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	var members []ast.EnumMember
	if !p.at(token.RBrace) {
		members = append(members, p.parseEnumMember())
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			if p.at(token.RBrace) {
				break
			}
			members = append(members, p.parseEnumMember())
		}
	}
	p.expect(token.RBrace, diag.SynUnexpectedToken, "'}'")
	return p.b.Decls.NewEnumeration(name, members, p.spanFrom(start))
}

func (p *Parser) parseEnumMember() ast.EnumMember {
	start := p.peek().Span
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "an enumeration member")
	var value ast.ExprID
	if _, ok := p.accept(token.Assign); ok {
		value = p.parseExpr()
	}
	return ast.EnumMember{Name: p.intern(nameTok.Text), Value: value, Span: p.spanFrom(start)}
}

// parseReturnArrow parses the optional `-> Type` return-type clause shared by
// function definitions and prototypes, plus the trailing '!' throws marker.
func (p *Parser) parseReturnArrow() (ast.TypeID, ast.ThrowsTag) {
	var ret ast.TypeID
	if _, ok := p.accept(token.Arrow); ok {
		ret = p.parseType()
	}
	throws := ast.ThrowsNever
	if _, ok := p.accept(token.Bang); ok {
		throws = ast.ThrowsAlways
	}
	return ret, throws
}

// parseFuncDecl parses a prototype `func Name(params) [-> T] [!] ;` or a
// definition `func Name(params) [-> T] [!] begin body end`.
func (p *Parser) parseFuncDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwFunc, diag.SynUnexpectedToken, "'func'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a function name")
	name := p.intern(nameTok.Text)
	params := p.parseParams()
	ret, throws := p.parseReturnArrow()

	if _, ok := p.accept(token.KwBegin); ok {
		body := p.parseBlock(token.KwEnd)
		p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
		return p.b.Decls.NewFunctionDef(name, params, ret, throws, body, p.spanFrom(start))
	}
	p.accept(token.Semicolon)
	return p.b.Decls.NewFunctionType(name, params, ret, throws, p.spanFrom(start))
}

// parseGetterDecl parses `getter Name [ [params] ] => T begin body end`, the
// getter form, distinguished from a plain function by its '=>' return arrow.
func (p *Parser) parseGetterDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwGetter, diag.SynUnexpectedToken, "'getter'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a getter name")
	name := p.intern(nameTok.Text)

	var params []ast.FnParam
	if _, ok := p.accept(token.LBracket); ok {
		if !p.at(token.RBracket) {
			params = append(params, p.parseParam())
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				params = append(params, p.parseParam())
			}
		}
		p.expect(token.RBracket, diag.SynBadGetterSetterForm, "']'")
	}
	p.expect(token.FatArrow, diag.SynBadGetterSetterForm, "'=>'")
	ret := p.parseType()
	p.expect(token.KwBegin, diag.SynBadGetterSetterForm, "'begin'")
	body := p.parseBlock(token.KwEnd)
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Decls.NewGetter(name, params, ret, body, p.spanFrom(start))
}

// parseSetterDecl parses `setter Name [ [params] ] (value: T) begin body end`.
func (p *Parser) parseSetterDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwSetter, diag.SynUnexpectedToken, "'setter'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a setter name")
	name := p.intern(nameTok.Text)

	var params []ast.FnParam
	if _, ok := p.accept(token.LBracket); ok {
		if !p.at(token.RBracket) {
			params = append(params, p.parseParam())
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				params = append(params, p.parseParam())
			}
		}
		p.expect(token.RBracket, diag.SynBadGetterSetterForm, "']'")
	}
	p.expect(token.LParen, diag.SynBadGetterSetterForm, "'('")
	value := p.parseParam()
	p.expect(token.RParen, diag.SynBadGetterSetterForm, "')'")
	p.expect(token.KwBegin, diag.SynBadGetterSetterForm, "'begin'")
	body := p.parseBlock(token.KwEnd)
	p.expect(token.KwEnd, diag.SynExpectedEnd, "'end'")
	return p.b.Decls.NewSetter(name, params, value, body, p.spanFrom(start))
}

// parseOperatorDecl parses `operator OP (Name1, Name2, ...) ;`, registering
// an overload set for a built-in operator symbol. Candidate names are not
// resolved to DeclIDs here — that requires a symbol table keyed by name,
// which a single-pass parser does not have — so Candidates is left empty and
// resolution is deferred to a later phase.
func (p *Parser) parseOperatorDecl() ast.DeclID {
	start := p.peek().Span
	p.advance() // "operator"

	tok := p.peek()
	var unary ast.UnaryOp
	var binary ast.BinaryOp
	isUnary := false

	switch tok.Kind {
	case token.Minus:
		p.advance()
		binary = ast.BinSub
	case token.Plus:
		p.advance()
		binary = ast.BinAdd
	case token.Star:
		p.advance()
		binary = ast.BinMul
	case token.Slash:
		p.advance()
		binary = ast.BinDiv
	case token.EqEq:
		p.advance()
		binary = ast.BinEq
	case token.BangEq:
		p.advance()
		binary = ast.BinNe
	case token.Lt:
		p.advance()
		binary = ast.BinLt
	case token.LtEq:
		p.advance()
		binary = ast.BinLe
	case token.Gt:
		p.advance()
		binary = ast.BinGt
	case token.GtEq:
		p.advance()
		binary = ast.BinGe
	case token.KwAnd:
		p.advance()
		binary = ast.BinAnd
	case token.KwOr:
		p.advance()
		binary = ast.BinOr
	case token.KwXor:
		p.advance()
		binary = ast.BinXor
	case token.KwNot:
		p.advance()
		isUnary, unary = true, ast.UnaryNot
	default:
		p.errorf(diag.SynUnexpectedToken, tok.Span, "expected an operator symbol, found %s", tokenDesc(tok))
		p.advance()
	}

	// Candidate names reference other top-level function declarations, which
	// a single-pass parser cannot resolve to DeclIDs — forward references are
	// legal and the referenced DeclFunctionDef may not exist yet. The raw
	// names are recorded in p.operatorCandidates and Candidates is left empty
	// here; internal/symbols resolves them once the whole file's names are
	// known and patches DeclOperatorData in place.
	var names []source.StringID
	if _, ok := p.accept(token.LParen); ok {
		if !p.at(token.RParen) {
			n := p.expect(token.Ident, diag.SynUnexpectedToken, "a function name")
			names = append(names, p.intern(n.Text))
			for {
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
				n := p.expect(token.Ident, diag.SynUnexpectedToken, "a function name")
				names = append(names, p.intern(n.Text))
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "')'")
	}
	p.accept(token.Semicolon)

	var id ast.DeclID
	if isUnary {
		id = p.b.Decls.NewUnaryOperator(unary, nil, p.spanFrom(start))
	} else {
		id = p.b.Decls.NewBinaryOperator(binary, nil, p.spanFrom(start))
	}
	p.operatorCandidates = append(p.operatorCandidates, OperatorCandidateNames{Decl: id, Names: names})
	return id
}

func (p *Parser) parseConstantDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwConstant, diag.SynUnexpectedToken, "'constant'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a constant name")
	name := p.intern(nameTok.Text)
	var typ ast.TypeID
	if _, ok := p.accept(token.Colon); ok {
		typ = p.parseType()
	}
	p.expect(token.Assign, diag.SynUnexpectedToken, "'='")
	value := p.parseExpr()
	p.accept(token.Semicolon)
	return p.b.Decls.NewConstant(name, typ, value, p.spanFrom(start))
}

func (p *Parser) parseConfigDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwConfig, diag.SynUnexpectedToken, "'config'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a config constant name")
	name := p.intern(nameTok.Text)
	var typ ast.TypeID
	if _, ok := p.accept(token.Colon); ok {
		typ = p.parseType()
	}
	var def ast.ExprID
	if _, ok := p.accept(token.Assign); ok {
		def = p.parseExpr()
	}
	p.accept(token.Semicolon)
	return p.b.Decls.NewConfigConstant(name, typ, def, p.spanFrom(start))
}

func (p *Parser) parseVariableDecl() ast.DeclID {
	start := p.peek().Span
	p.expect(token.KwVar, diag.SynUnexpectedToken, "'var'")
	nameTok := p.expect(token.Ident, diag.SynUnexpectedToken, "a variable name")
	name := p.intern(nameTok.Text)
	var typ ast.TypeID
	if _, ok := p.accept(token.Colon); ok {
		typ = p.parseType()
	}
	var init ast.ExprID
	if _, ok := p.accept(token.Assign); ok {
		init = p.parseExpr()
	}
	p.accept(token.Semicolon)
	return p.b.Decls.NewVariable(name, typ, init, p.spanFrom(start))
}
