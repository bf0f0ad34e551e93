// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/parser/token"
)

// Precedence levels for the Pratt expression parser, lowest first.
const (
	precLowest = iota
	precOr
	precAnd
	precComparison
	precAdditive
	precMultiplicative
)

// infixInfo reports the binding power and operator for t when t can start
// an infix expression, e.g. after already having parsed a left operand.
func infixInfo(t *token.Token) (prec int, op ast.BinaryOp, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	switch t.Kind {
	case token.OP_OR:
		return precOr, ast.OpOr, true
	case token.OP_AND:
		return precAnd, ast.OpAnd, true
	case token.OP_ASSIGN: // "=" doubles as equality inside an expression
		return precComparison, ast.OpEq, true
	case token.OP_NEQ:
		return precComparison, ast.OpNeq, true
	case token.OP_LT:
		return precComparison, ast.OpLt, true
	case token.OP_LTE:
		return precComparison, ast.OpLte, true
	case token.OP_GT:
		return precComparison, ast.OpGt, true
	case token.OP_GTE:
		return precComparison, ast.OpGte, true
	case token.OP_PLUS:
		return precAdditive, ast.OpAdd, true
	case token.OP_MINUS:
		return precAdditive, ast.OpSub, true
	case token.OP_STAR:
		return precMultiplicative, ast.OpMul, true
	case token.OP_SLASH:
		return precMultiplicative, ast.OpDiv, true
	case token.OP_MOD:
		return precMultiplicative, ast.OpMod, true
	default:
		return 0, 0, false
	}
}

// parseExpression is the Pratt-precedence entry point: it parses a full
// expression binding at least as tightly as minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec, op, ok := infixInfo(p.cur())
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.parseExpression(prec + 1)
		if right == nil {
			break
		}
		be := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		be.Rng = token.Union(left.Range(), right.Range())
		left = be
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch {
	case p.is(token.OP_MINUS):
		t := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		e := &ast.UnaryExpr{Op: ast.OpNeg, Operand: operand}
		e.Rng = token.Union(t.Range, operand.Range())
		return e
	case p.is(token.OP_NOT):
		t := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		e := &ast.UnaryExpr{Op: ast.OpNot, Operand: operand}
		e.Rng = token.Union(t.Range, operand.Range())
		return e
	default:
		return p.parsePostfixExpr(p.parsePrimary())
	}
}

// parsePostfixExpr applies the zero-or-more trailing ".name", ".name(args)",
// "(args)" (direct call), and "[index]" productions to expr.
func (p *Parser) parsePostfixExpr(expr ast.Expression) ast.Expression {
	if expr == nil {
		return nil
	}
	for {
		switch {
		case p.is(token.OP_DOT):
			p.advance()
			nameTok, ok := p.expectIdent()
			if !ok {
				return expr
			}
			if p.is(token.PAREN_L) {
				args, end := p.parseCallArgs()
				call := &ast.FunctionCall{CalleeName: nameTok.Text, CalleeRange: nameTok.Range, Args: args, Receiver: expr}
				call.Rng = token.Union(expr.Range(), end)
				p.FunctionCalls = append(p.FunctionCalls, call)
				expr = call
				continue
			}
			d := &ast.DottedExpr{Receiver: expr, Name: nameTok.Text, NameRange: nameTok.Range}
			d.Rng = token.Union(expr.Range(), nameTok.Range)
			expr = d
		case p.is(token.PAREN_L):
			id, ok := expr.(*ast.Identifier)
			if !ok {
				return expr
			}
			args, end := p.parseCallArgs()
			call := &ast.FunctionCall{CalleeName: id.Name, CalleeRange: id.Range(), Args: args}
			call.Rng = token.Union(id.Range(), end)
			p.FunctionCalls = append(p.FunctionCalls, call)
			expr = call
		case p.is(token.BRACKET_L):
			p.advance()
			index := p.parseExpression(precLowest)
			end := p.rangeHere()
			if t, ok := p.expect(token.BRACKET_R); ok {
				end = t.Range
			}
			ix := &ast.IndexExpr{Target: expr, Index: index}
			ix.Rng = token.Union(expr.Range(), end)
			expr = ix
		default:
			return expr
		}
	}
}

// parseCallArgs parses "(" arg-list ")" and returns the argument
// expressions plus the range of the closing paren (or the current
// position, if the paren was missing).
func (p *Parser) parseCallArgs() ([]ast.Expression, token.Range) {
	p.expect(token.PAREN_L)
	var args []ast.Expression
	for !p.atEOF() && !p.is(token.PAREN_R) {
		arg := p.parseExpression(precLowest)
		if arg != nil {
			args = append(args, arg)
		}
		if p.is(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	end := p.rangeHere()
	if t, ok := p.expect(token.PAREN_R); ok {
		end = t.Range
	}
	return args, end
}

func (p *Parser) parsePrimary() ast.Expression {
	t := p.cur()
	if t == nil {
		return nil
	}
	switch {
	case t.Kind == token.IDENT && !t.IsReserved:
		p.advance()
		n := &ast.Identifier{Name: t.Text}
		n.Rng = t.Range
		return n
	case t.Kind == token.INT_LITERAL:
		p.advance()
		n := &ast.IntLiteral{Value: parseIntLiteral(t.Text), Text: t.Text}
		n.Rng = t.Range
		return n
	case t.Kind == token.FLOAT_LITERAL:
		p.advance()
		n := &ast.FloatLiteral{Value: parseFloatLiteral(t.Text), Text: t.Text}
		n.Rng = t.Range
		return n
	case t.Kind == token.STRING_LITERAL:
		p.advance()
		n := &ast.StringLiteral{Value: unquote(t.Text)}
		n.Rng = t.Range
		return n
	case t.Kind == token.BOOL_LITERAL:
		p.advance()
		n := &ast.BoolLiteral{Value: strings.EqualFold(t.Text, "true")}
		n.Rng = t.Range
		return n
	case p.isKeyword("invalid"):
		p.advance()
		n := &ast.InvalidLiteral{}
		n.Rng = t.Range
		return n
	case p.isKeyword("new"):
		return p.parseNewExpression()
	case p.isAnyKeyword("sub", "function"):
		return p.parseFunctionLiteral()
	case t.Kind == token.PAREN_L:
		p.advance()
		inner := p.parseExpression(precLowest)
		p.expect(token.PAREN_R)
		return inner
	case t.Kind == token.BRACKET_L:
		return p.parseArrayLiteral()
	case t.Kind == token.BRACE_L:
		return p.parseAssocArrayLiteral()
	default:
		p.errorf(t.Range, "unexpected token %s in expression", t.Kind)
		return nil
	}
}

// parseArrayLiteral parses a bracketed list literal. Items may be
// separated by commas, newlines, or both; newlines inside the brackets are
// absorbed rather than treated as statement terminators (spec §4.1), and
// the node's range spans the opening to the closing bracket even across
// many blank lines (spec §8 scenario 2).
func (p *Parser) parseArrayLiteral() ast.Expression {
	open := p.advance() // BRACKET_L
	var items []ast.Expression
	p.skipNewlines()
	for !p.atEOF() && !p.is(token.BRACKET_R) {
		item := p.parseExpression(precLowest)
		if item != nil {
			items = append(items, item)
		}
		p.skipNewlines()
		if p.is(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
	}
	end := open.Range
	if t, ok := p.expect(token.BRACKET_R); ok {
		end = t.Range
	}
	lit := &ast.ArrayLiteral{Items: items}
	lit.Rng = token.Union(open.Range, end)
	return lit
}

// parseAssocArrayLiteral parses a braced "key: value" literal; separators
// and newline absorption follow the same rule as array literals.
func (p *Parser) parseAssocArrayLiteral() ast.Expression {
	open := p.advance() // BRACE_L
	var entries []ast.AssocArrayEntry
	p.skipNewlines()
	for !p.atEOF() && !p.is(token.BRACE_R) {
		keyTok := p.cur()
		if keyTok == nil || (keyTok.Kind != token.IDENT && keyTok.Kind != token.STRING_LITERAL) {
			p.errorf(p.rangeHere(), "expected associative array key")
			break
		}
		p.advance()
		key := keyTok.Text
		if keyTok.Kind == token.STRING_LITERAL {
			key = unquote(keyTok.Text)
		}
		p.expect(token.COLON)
		value := p.parseExpression(precLowest)
		entries = append(entries, ast.AssocArrayEntry{Key: key, KeyRange: keyTok.Range, Value: value})
		p.skipNewlines()
		if p.is(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
	}
	end := open.Range
	if t, ok := p.expect(token.BRACE_R); ok {
		end = t.Range
	}
	lit := &ast.AssocArrayLiteral{Entries: entries}
	lit.Rng = token.Union(open.Range, end)
	return lit
}

func (p *Parser) parseNewExpression() ast.Expression {
	start, _ := p.expectKeyword("new")
	if p.mode != Superset {
		p.errorf(start, "new expressions require superset mode")
	}
	path, nameRange, ok := p.dottedPath()
	if !ok {
		return nil
	}
	end := nameRange
	var args []ast.Expression
	if p.is(token.PAREN_L) {
		args, end = p.parseCallArgs()
	}
	n := &ast.NewExpression{ClassName: path, ClassNameRange: nameRange, Args: args}
	n.Rng = token.Union(start, end)
	p.NewExpressions = append(p.NewExpressions, n)
	return n
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	isSub := p.isKeyword("sub")
	var start token.Range
	if isSub {
		start, _ = p.expectKeyword("sub")
	} else {
		start, _ = p.expectKeyword("function")
	}
	sig := p.parseSignature()
	if p.isKeyword("as") {
		p.advance()
		p.expectIdent()
	}
	endWord := "function"
	if isSub {
		endWord = "sub"
	}
	body := p.parseBlock(func() bool { return p.atBlockEnd(endWord, "end"+endWord) })
	end := p.consumeBlockEnd(endWord, "end"+endWord)
	lit := &ast.FunctionLiteral{Signature: sig, Body: body}
	lit.Rng = token.Union(start, end)
	return lit
}
