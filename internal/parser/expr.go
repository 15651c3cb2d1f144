package parser

import (
	"asli/internal/ast"
	"asli/internal/source"
	"asli/internal/token"
)

// Operator precedence, loosest to tightest:
//
//	1: <->  -->
//	2: OR XOR ||
//	3: AND &&
//	4: == != < <= > >= IN
//	5: ++  (concatenation, builds ExprConcat rather than ExprBinary)
//	6: + -
//	7: * / % DIV MOD DIVRM QUOT REM
//	8: unary - NOT
//
// AND/OR/XOR/NOT double as ASL's bitwise operators over bitvector operands;
// the parser only ever produces the boolean BinaryOp/UnaryOp variants, and
// the typechecker rewrites them to the Bit* forms once operand types are
// known, since the surface grammar has no separate bitwise-operator tokens.

func (p *Parser) parseExpr() ast.ExprID { return p.parseIff() }

func (p *Parser) binSpan(left ast.ExprID, right ast.ExprID) source.Span {
	return p.b.Exprs.Get(left).Span.Cover(p.b.Exprs.Get(right).Span)
}

func (p *Parser) parseIff() ast.ExprID {
	left := p.parseOr()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.LeftRightArrow:
			op = ast.BinIff
		case token.LongRightArrow:
			op = ast.BinImplies
		default:
			return left
		}
		p.advance()
		right := p.parseOr()
		left = p.b.Exprs.NewBinary(op, left, right, p.binSpan(left, right))
	}
}

func (p *Parser) parseOr() ast.ExprID {
	left := p.parseAnd()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.OrOr, token.KwOr:
			op = ast.BinOr
		case token.KwXor:
			op = ast.BinXor
		default:
			return left
		}
		p.advance()
		right := p.parseAnd()
		left = p.b.Exprs.NewBinary(op, left, right, p.binSpan(left, right))
	}
}

func (p *Parser) parseAnd() ast.ExprID {
	left := p.parseRel()
	for p.atAny(token.AndAnd, token.KwAnd) {
		p.advance()
		right := p.parseRel()
		left = p.b.Exprs.NewBinary(ast.BinAnd, left, right, p.binSpan(left, right))
	}
	return left
}

func (p *Parser) parseRel() ast.ExprID {
	left := p.parseConcat()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.EqEq:
			op = ast.BinEq
		case token.BangEq:
			op = ast.BinNe
		case token.Lt:
			op = ast.BinLt
		case token.LtEq:
			op = ast.BinLe
		case token.Gt:
			op = ast.BinGt
		case token.GtEq:
			op = ast.BinGe
		case token.KwIn:
			// The right side of IN is a matching pattern (set, range,
			// mask, constant, or plain expression), not another operand.
			p.advance()
			pat := p.parsePattern()
			span := p.b.Exprs.Get(left).Span.Cover(p.b.Patterns.Get(pat).Span)
			left = p.b.Exprs.NewPatternIn(left, pat, span)
			continue
		default:
			return left
		}
		p.advance()
		right := p.parseConcat()
		left = p.b.Exprs.NewBinary(op, left, right, p.binSpan(left, right))
	}
}

func (p *Parser) parseConcat() ast.ExprID {
	first := p.parseAdd()
	if !p.at(token.PlusPlus) {
		return first
	}
	elems := []ast.ExprID{first}
	span := p.b.Exprs.Get(first).Span
	for {
		if _, ok := p.accept(token.PlusPlus); !ok {
			break
		}
		next := p.parseAdd()
		elems = append(elems, next)
		span = span.Cover(p.b.Exprs.Get(next).Span)
	}
	widths := make([]ast.ExprID, len(elems))
	return p.b.Exprs.NewConcat(elems, widths, span)
}

func (p *Parser) parseAdd() ast.ExprID {
	left := p.parseMul()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Plus:
			op = ast.BinAdd
		case token.Minus:
			op = ast.BinSub
		default:
			return left
		}
		p.advance()
		right := p.parseMul()
		left = p.b.Exprs.NewBinary(op, left, right, p.binSpan(left, right))
	}
}

func (p *Parser) parseMul() ast.ExprID {
	left := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		case token.Percent:
			op = ast.BinMod
		case token.KwDiv:
			op = ast.BinDiv
		case token.KwMod:
			op = ast.BinMod
		case token.KwDivRM:
			op = ast.BinDivRem
		case token.KwQuot:
			op = ast.BinQuot
		case token.KwRem:
			op = ast.BinRem
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = p.b.Exprs.NewBinary(op, left, right, p.binSpan(left, right))
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	switch p.peek().Kind {
	case token.Minus:
		start := p.peek().Span
		p.advance()
		operand := p.parseUnary()
		return p.b.Exprs.NewUnary(ast.UnaryNeg, operand, p.spanFrom(start))
	case token.KwNot:
		start := p.peek().Span
		p.advance()
		operand := p.parseUnary()
		return p.b.Exprs.NewUnary(ast.UnaryNot, operand, p.spanFrom(start))
	default:
		return p.parsePostfix()
	}
}
