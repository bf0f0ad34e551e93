// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/parser/token"
)

// parseStatement dispatches on the current token and returns exactly one
// statement, or nil when no statement starts here (e.g. at a NEWLINE or
// EOF). A statement that cannot be parsed (e.g. a stray close-bracket)
// yields an *ast.ErrorStatement after recovery.
func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.isKeyword("namespace"):
		return p.parseNamespace()
	case p.isKeyword("class"):
		return p.parseClass()
	case p.isAnyKeyword("public", "private", "protected", "override", "final", "sub", "function"):
		return p.parseFunction()
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("for"):
		return p.parseFor()
	case p.isKeyword("while"):
		return p.parseWhile()
	case p.isKeyword("return"):
		return p.parseReturn()
	case p.isKeyword("dim"):
		return p.parseDim()
	case p.isKeyword("import"):
		return p.parseImport()
	case p.isAnyKeyword("print", "stop", "goto", "exit", "library"):
		return p.parsePassthrough()
	case p.is(token.NEWLINE), p.is(token.EOF):
		return nil
	default:
		return p.parseAssignmentOrExpression()
	}
}

func (p *Parser) parseNamespace() ast.Statement {
	start, _ := p.expectKeyword("namespace")
	if p.mode != Superset {
		p.errorf(start, "namespace declarations require superset mode")
	}
	path, nameRange, ok := p.dottedPath()
	if !ok {
		p.recover()
		return &ast.ErrorStatement{Message: "malformed namespace name"}
	}
	p.namespacePath = append(p.namespacePath, path...)
	body := p.parseBlock(func() bool { return p.atBlockEnd("namespace", "endnamespace") })
	end := p.consumeBlockEnd("namespace", "endnamespace")
	p.namespacePath = p.namespacePath[:len(p.namespacePath)-len(path)]

	stmt := &ast.NamespaceStatement{
		NamePath:  path,
		NameRange: nameRange,
		Body:      body,
	}
	stmt.Rng = token.Union(start, end)
	p.NamespaceStatements = append(p.NamespaceStatements, stmt)
	return stmt
}

func (p *Parser) parseClass() ast.Statement {
	start, _ := p.expectKeyword("class")
	if p.mode != Superset {
		p.errorf(start, "class declarations require superset mode")
	}
	nameTok, ok := p.expectIdent()
	if !ok {
		p.recover()
		return &ast.ErrorStatement{Message: "malformed class name"}
	}

	var parentName []string
	var parentRange token.Range
	if p.isKeyword("extends") {
		p.advance()
		parentName, parentRange, _ = p.dottedPath()
	}
	p.skipNewlines()

	cls := &ast.ClassStatement{
		Name:          nameTok.Text,
		NameRange:     nameTok.Range,
		ParentName:    parentName,
		ParentRange:   parentRange,
		NamespacePath: append([]string{}, p.namespacePath...),
	}

	for !p.atEOF() && !p.atBlockEnd("class", "endclass") {
		p.skipNewlines()
		if p.atBlockEnd("class", "endclass") || p.atEOF() {
			break
		}
		p.parseClassMember(cls)
		p.skipNewlines()
	}
	end := p.consumeBlockEnd("class", "endclass")
	cls.Rng = token.Union(start, end)
	p.ClassStatements = append(p.ClassStatements, cls)
	return cls
}

func (p *Parser) parseClassMember(cls *ast.ClassStatement) {
	access := ast.AccessPublic
	isFinal := false
	isOverride := false
	for {
		switch {
		case p.isKeyword("public"):
			access = ast.AccessPublic
			p.advance()
		case p.isKeyword("private"):
			access = ast.AccessPrivate
			p.advance()
		case p.isKeyword("protected"):
			access = ast.AccessProtected
			p.advance()
		case p.isKeyword("final"):
			isFinal = true
			p.advance()
		case p.isKeyword("override"):
			isOverride = true
			p.advance()
		default:
			goto modifiersDone
		}
	}
modifiersDone:
	switch {
	case p.isAnyKeyword("sub", "function"):
		fn := p.parseFunctionWith(access, isFinal, isOverride)
		if fn != nil {
			fn.IsMethod = true
			fn.NamespacePath = cls.NamespacePath
			cls.Methods = append(cls.Methods, fn)
		}
	case p.is(token.IDENT):
		field := p.parseClassField(access, isFinal)
		cls.Fields = append(cls.Fields, field)
	default:
		p.errorf(p.rangeHere(), "expected class member")
		p.recover()
	}
}

func (p *Parser) parseClassField(access ast.AccessModifier, isFinal bool) *ast.ClassField {
	nameTok, ok := p.expectIdent()
	if !ok {
		p.recover()
		return &ast.ClassField{Access: access, IsFinal: isFinal}
	}
	field := &ast.ClassField{
		Name:      nameTok.Text,
		NameRange: nameTok.Range,
		Access:    access,
		IsFinal:   isFinal,
	}
	if p.isKeyword("as") {
		p.advance()
		if t, ok := p.expectIdent(); ok {
			field.Type = strings.ToLower(t.Text)
		}
	}
	if p.is(token.OP_ASSIGN) {
		p.advance()
		field.Default = p.parseExpression(precLowest)
	}
	return field
}

func (p *Parser) parseFunction() ast.Statement {
	access := ast.AccessPublic
	isFinal := false
	isOverride := false
	for {
		switch {
		case p.isKeyword("public"):
			access = ast.AccessPublic
			p.advance()
		case p.isKeyword("private"):
			access = ast.AccessPrivate
			p.advance()
		case p.isKeyword("protected"):
			access = ast.AccessProtected
			p.advance()
		case p.isKeyword("final"):
			isFinal = true
			p.advance()
		case p.isKeyword("override"):
			isOverride = true
			p.advance()
		default:
			goto modifiersDone
		}
	}
modifiersDone:
	fn := p.parseFunctionWith(access, isFinal, isOverride)
	if fn == nil {
		return &ast.ErrorStatement{Message: "malformed function declaration"}
	}
	return fn
}

// parseFunctionWith parses a sub/function declaration whose access/final/
// override modifiers were already consumed by the caller.
func (p *Parser) parseFunctionWith(access ast.AccessModifier, isFinal, isOverride bool) *ast.FunctionStatement {
	isSub := p.isKeyword("sub")
	var start token.Range
	if isSub {
		start, _ = p.expectKeyword("sub")
	} else {
		start, _ = p.expectKeyword("function")
	}
	nameTok, ok := p.expectIdent()
	if !ok {
		p.recover()
		return nil
	}
	sig := p.parseSignature()

	returnType := ""
	if p.isKeyword("as") {
		p.advance()
		if t, ok := p.expectIdent(); ok {
			returnType = strings.ToLower(t.Text)
		}
	}

	endWord := "function"
	if isSub {
		endWord = "sub"
	}
	body := p.parseBlock(func() bool { return p.atBlockEnd(endWord, "end"+endWord) })
	end := p.consumeBlockEnd(endWord, "end"+endWord)

	fn := &ast.FunctionStatement{
		Name:          nameTok.Text,
		NameRange:     nameTok.Range,
		Signature:     sig,
		Body:          body,
		ReturnType:    returnType,
		NamespacePath: append([]string{}, p.namespacePath...),
		IsOverride:    isOverride,
		IsFinal:       isFinal,
		Access:        access,
	}
	fn.Rng = token.Union(start, end)
	p.FunctionStatements = append(p.FunctionStatements, fn)
	return fn
}

func (p *Parser) parseSignature() ast.Signature {
	var sig ast.Signature
	if _, ok := p.expect(token.PAREN_L); !ok {
		return sig
	}
	for !p.atEOF() && !p.is(token.PAREN_R) {
		sig.Params = append(sig.Params, p.parseParam())
		if p.is(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.PAREN_R)
	return sig
}

func (p *Parser) parseParam() ast.Param {
	nameTok, ok := p.expectIdent()
	param := ast.Param{}
	if ok {
		param.Name = nameTok.Text
		param.NameRange = nameTok.Range
	}
	if p.isKeyword("as") {
		p.advance()
		if t, ok := p.expectIdent(); ok {
			param.Type = strings.ToLower(t.Text)
		}
	}
	if p.is(token.OP_ASSIGN) {
		p.advance()
		param.IsOptional = true
		param.Default = p.parseExpression(precLowest)
	}
	return param
}

func (p *Parser) parseIf() ast.Statement {
	start, _ := p.expectKeyword("if")
	stmt := &ast.IfStatement{}
	stmt.Cond = p.parseExpression(precLowest)
	if p.isKeyword("then") {
		p.advance()
	}
	stmt.Then = p.parseBlock(func() bool {
		return p.isAnyKeyword("elseif", "else") || p.atBlockEnd("if", "endif")
	})
	for p.isKeyword("elseif") {
		p.advance()
		cond := p.parseExpression(precLowest)
		if p.isKeyword("then") {
			p.advance()
		}
		body := p.parseBlock(func() bool {
			return p.isAnyKeyword("elseif", "else") || p.atBlockEnd("if", "endif")
		})
		stmt.ElseIfConds = append(stmt.ElseIfConds, cond)
		stmt.ElseIfBodies = append(stmt.ElseIfBodies, body)
	}
	if p.isKeyword("else") {
		p.advance()
		stmt.Else = p.parseBlock(func() bool { return p.atBlockEnd("if", "endif") })
	}
	end := p.consumeBlockEnd("if", "endif")
	stmt.Rng = token.Union(start, end)
	return stmt
}

func (p *Parser) parseFor() ast.Statement {
	start, _ := p.expectKeyword("for")
	stmt := &ast.ForStatement{}
	if varTok, ok := p.expectIdent(); ok {
		stmt.Var = varTok.Text
	}
	p.expect(token.OP_ASSIGN)
	stmt.From = p.parseExpression(precLowest)
	p.expectKeyword("to")
	stmt.To = p.parseExpression(precLowest)
	if p.isKeyword("step") {
		p.advance()
		stmt.Step = p.parseExpression(precLowest)
	}
	stmt.Body = p.parseBlock(func() bool {
		return p.atBlockEnd("for", "endfor") || p.isKeyword("next")
	})
	var end token.Range
	if p.isKeyword("next") {
		t := p.advance()
		end = t.Range
		if p.is(token.IDENT) {
			end = token.Union(end, p.advance().Range)
		}
	} else {
		end = p.consumeBlockEnd("for", "endfor")
	}
	stmt.Rng = token.Union(start, end)
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	start, _ := p.expectKeyword("while")
	stmt := &ast.WhileStatement{}
	stmt.Cond = p.parseExpression(precLowest)
	stmt.Body = p.parseBlock(func() bool { return p.atBlockEnd("while", "endwhile") })
	end := p.consumeBlockEnd("while", "endwhile")
	stmt.Rng = token.Union(start, end)
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	start, _ := p.expectKeyword("return")
	stmt := &ast.ReturnStatement{}
	stmt.Rng = start
	if !p.is(token.NEWLINE) && !p.atEOF() {
		stmt.Value = p.parseExpression(precLowest)
		stmt.Rng = token.Union(start, stmt.Value.Range())
	}
	return stmt
}

func (p *Parser) parseDim() ast.Statement {
	start, _ := p.expectKeyword("dim")
	stmt := &ast.DimStatement{}
	if nameTok, ok := p.expectIdent(); ok {
		stmt.Name = nameTok.Text
	}
	end := start
	if _, ok := p.expect(token.PAREN_L); ok {
		for !p.atEOF() && !p.is(token.PAREN_R) {
			stmt.Dims = append(stmt.Dims, p.parseExpression(precLowest))
			if p.is(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if t, ok := p.expect(token.PAREN_R); ok {
			end = t.Range
		}
	}
	stmt.Rng = token.Union(start, end)
	return stmt
}

func (p *Parser) parseImport() ast.Statement {
	start, _ := p.expectKeyword("import")
	if p.mode != Superset {
		p.errorf(start, "import statements require superset mode")
	}
	path := ""
	end := start
	if p.is(token.STRING_LITERAL) {
		t := p.advance()
		path = unquote(t.Text)
		end = t.Range
	} else if path2, rng, ok := p.dottedPath(); ok {
		path = strings.Join(path2, "/")
		end = rng
	}
	stmt := &ast.ImportStatement{Path: path}
	stmt.Rng = token.Union(start, end)
	return stmt
}

// parsePassthrough consumes a statement kind the dialect defines but the
// analysis model does not need to represent structurally (print, stop,
// goto, exit for/while, library) — it is kept as an opaque expression
// statement so scope/class validation never has to special-case it.
func (p *Parser) parsePassthrough() ast.Statement {
	kw := p.advance()
	rng := kw.Range
	var exprs []ast.Expression

	switch strings.ToLower(kw.Text) {
	case "exit":
		if p.isAnyKeyword("for", "while") {
			rng = token.Union(rng, p.advance().Range)
		}
	case "goto":
		if p.is(token.IDENT) {
			t := p.advance()
			rng = token.Union(rng, t.Range)
			ident := &ast.Identifier{Name: t.Text}
			ident.Rng = t.Range
			exprs = append(exprs, ident)
		}
	case "stop":
		// no operand
	default: // print, library
		for !p.is(token.NEWLINE) && !p.atEOF() && !p.isAnyKeyword(
			"else", "elseif", "end", "endif", "endfor", "endwhile", "endclass", "endnamespace", "next") {
			expr := p.parseExpression(precLowest)
			if expr == nil {
				break
			}
			exprs = append(exprs, expr)
			rng = token.Union(rng, expr.Range())
			if p.is(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}

	call := &ast.FunctionCall{CalleeName: strings.ToLower(kw.Text), CalleeRange: kw.Range, Args: exprs}
	call.Rng = rng
	stmt := &ast.ExpressionStatement{Expr: call}
	stmt.Rng = rng
	return stmt
}

// parseAssignmentOrExpression parses a bare expression statement and
// promotes it to an AssignmentStatement when followed by "=". The target
// is parsed as a restricted lvalue (primary plus postfix only, no binary
// operators) so that a leading "=" is never swallowed as the equality
// operator before this function gets to look for it.
func (p *Parser) parseAssignmentOrExpression() ast.Statement {
	startTok := p.cur()
	if startTok == nil {
		p.recover()
		return nil
	}
	target := p.parsePostfixExpr(p.parsePrimary())
	if target == nil {
		p.errorf(startTok.Range, "unexpected token %s", startTok.Kind)
		p.recover()
		if p.cur() == startTok {
			// recover stops in front of a stray close bracket; consume it so
			// the caller's statement loop makes progress.
			p.advance()
		}
		errStmt := &ast.ErrorStatement{Message: "unexpected token"}
		errStmt.Rng = startTok.Range
		return errStmt
	}
	if p.is(token.OP_ASSIGN) {
		p.advance()
		value := p.parseExpression(precLowest)
		stmt := &ast.AssignmentStatement{Target: target, Value: value}
		end := target.Range()
		if value != nil {
			end = value.Range()
		}
		stmt.Rng = token.Union(target.Range(), end)
		return stmt
	}
	exprStmt := &ast.ExpressionStatement{Expr: target}
	exprStmt.Rng = target.Range()
	return exprStmt
}

func unquote(text string) string {
	s := strings.TrimPrefix(text, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}
