// Copyright © 2024 The ELPS authors

// Package parser implements the recursive-descent, Pratt-precedence parser
// for the dialect (spec §4.1). It consumes a token.Source and produces a
// list of top-level ast.Statement values plus per-file diagnostics; it
// never panics, surfacing every malformed construct as a Diagnostic
// instead. The lexer that produces the token stream is an external
// collaborator (spec §1) — this package only depends on token.Source.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/parser/token"
)

// Parser holds the mutable state of one parse. A Parser is single-use:
// construct a new one per file via New.
type Parser struct {
	file string
	src  token.Source
	mode Mode

	diags []diagnostic.Diagnostic

	// Incidental collections populated during the walk (spec §4.1 contract).
	NamespaceStatements []*ast.NamespaceStatement
	ClassStatements      []*ast.ClassStatement
	FunctionStatements   []*ast.FunctionStatement
	NewExpressions       []*ast.NewExpression
	FunctionCalls        []*ast.FunctionCall

	// Comments collects every comment token encountered while scanning,
	// in source order, for suppression-directive lookup (spec §7's
	// 'bs:disable-line / 'bs:disable-next-line comments).
	Comments []*token.Token

	namespacePath []string // namespace nesting the current statement sits in
}

// New constructs a Parser over src, a token.Source whose underlying tokens
// are all attributed to file. mode selects baseline vs superset grammar.
func New(file string, src token.Source, mode Mode) *Parser {
	return &Parser{file: file, src: src, mode: mode}
}

// Parse consumes the entire token stream and returns the top-level
// statement list and any diagnostics produced along the way.
func (p *Parser) Parse() ([]ast.Statement, []diagnostic.Diagnostic) {
	p.src.Scan() // prime: Token() is nil until the first Scan
	p.skipComments()
	p.skipNewlines()
	var stmts []ast.Statement
	for !p.atEOF() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	return stmts, p.diags
}

func (p *Parser) cur() *token.Token {
	return p.src.Token()
}

func (p *Parser) peek() *token.Token {
	return p.src.Peek()
}

func (p *Parser) atEOF() bool {
	t := p.cur()
	return t == nil || t.Kind == token.EOF
}

// advance moves to the next token and returns the token that was current
// before the move.
func (p *Parser) advance() *token.Token {
	t := p.cur()
	p.src.Scan()
	p.skipComments()
	return t
}

// skipComments records and consumes every COMMENT token at the cursor, so
// cur() never observes one — a comment is transparent to grammar rules
// exactly like surrounding whitespace, collected on the side in Comments.
func (p *Parser) skipComments() {
	for !p.atEOF() && p.cur().Kind == token.COMMENT {
		p.Comments = append(p.Comments, p.cur())
		p.src.Scan()
	}
}

// parseBlock parses statements until stop reports true or the stream is
// exhausted, consuming the separating newlines but leaving the terminating
// construct itself unconsumed.
func (p *Parser) parseBlock(stop func() bool) []ast.Statement {
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.atEOF() && !stop() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) skipNewlines() {
	for !p.atEOF() && p.cur().Kind == token.NEWLINE {
		p.advance()
	}
}

func (p *Parser) is(kind token.Kind) bool {
	t := p.cur()
	return t != nil && t.Kind == kind
}

// isKeyword reports whether the current token is the reserved word.
func (p *Parser) isKeyword(word string) bool {
	t := p.cur()
	return t != nil && t.Kind == token.IDENT && t.IsReserved && strings.EqualFold(t.Text, word)
}

func (p *Parser) isAnyKeyword(words ...string) bool {
	for _, w := range words {
		if p.isKeyword(w) {
			return true
		}
	}
	return false
}

func (p *Parser) rangeHere() token.Range {
	t := p.cur()
	if t == nil {
		return token.Range{}
	}
	return t.Range
}

// errorf records a diagnostic anchored at rng.
func (p *Parser) errorf(rng token.Range, format string, args ...interface{}) {
	p.diags = append(p.diags, diagnostic.New(diagnostic.CodeParseError, p.file, rng, fmt.Sprintf(format, args...)))
}

// expectKeyword consumes the current token if it is the named reserved
// word, else emits a diagnostic and leaves the cursor in place.
func (p *Parser) expectKeyword(word string) (token.Range, bool) {
	if p.isKeyword(word) {
		t := p.advance()
		return t.Range, true
	}
	p.errorf(p.rangeHere(), "expected %q", word)
	return p.rangeHere(), false
}

// expect consumes the current token if it has kind, else emits a
// diagnostic and leaves the cursor in place.
func (p *Parser) expect(kind token.Kind) (*token.Token, bool) {
	if p.is(kind) {
		return p.advance(), true
	}
	p.errorf(p.rangeHere(), "expected %s", kind)
	return nil, false
}

// expectIdent consumes the current IDENT token, reserved or not, so a
// reserved type name such as "function" is accepted after "as".
func (p *Parser) expectIdent() (*token.Token, bool) {
	if p.is(token.IDENT) {
		return p.advance(), true
	}
	p.errorf(p.rangeHere(), "expected identifier")
	return nil, false
}

// recover advances past the rest of a malformed statement up to the next
// statement boundary: a NEWLINE, EOF, or a bracket close at the depth the
// statement started at (spec §4.1 error recovery).
func (p *Parser) recover() {
	depth := 0
	for !p.atEOF() {
		switch p.cur().Kind {
		case token.NEWLINE:
			return
		case token.PAREN_L, token.BRACE_L, token.BRACKET_L:
			depth++
		case token.PAREN_R, token.BRACE_R, token.BRACKET_R:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// isEnd reports whether the current token is "end" immediately followed by
// the named block keyword, e.g. isEnd("sub") matches "end sub".
func (p *Parser) isEnd(word string) bool {
	if !p.isKeyword("end") {
		return false
	}
	pk := p.peek()
	return pk != nil && pk.Kind == token.IDENT && strings.EqualFold(pk.Text, word)
}

// atBlockEnd reports whether the current position closes a block, either
// via the single fused keyword (e.g. "endif") or the two-token form
// ("end if").
func (p *Parser) atBlockEnd(word, fused string) bool {
	return p.isKeyword(fused) || p.isEnd(word)
}

// consumeBlockEnd consumes whichever closing form atBlockEnd matched and
// returns its range.
func (p *Parser) consumeBlockEnd(word, fused string) token.Range {
	if p.isKeyword(fused) {
		t := p.advance()
		return t.Range
	}
	if p.isEnd(word) {
		t1 := p.advance()
		t2 := p.advance()
		return token.Union(t1.Range, t2.Range)
	}
	p.errorf(p.rangeHere(), "expected end of %s block", word)
	return p.rangeHere()
}

func (p *Parser) dottedPath() ([]string, token.Range, bool) {
	first, ok := p.expectIdent()
	if !ok {
		return nil, p.rangeHere(), false
	}
	path := []string{first.Text}
	rng := first.Range
	for p.is(token.OP_DOT) {
		p.advance()
		next, ok := p.expectIdent()
		if !ok {
			break
		}
		path = append(path, next.Text)
		rng = token.Union(rng, next.Range)
	}
	return path, rng, true
}

func parseIntLiteral(text string) int64 {
	v, _ := strconv.ParseInt(text, 10, 64)
	return v
}

func parseFloatLiteral(text string) float64 {
	v, _ := strconv.ParseFloat(text, 64)
	return v
}
