package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsc-analyze/bsc/parser/lexer"
	"github.com/bsc-analyze/bsc/parser/token"
)

func kinds(toks []*token.Token) []token.Kind {
	var ks []token.Kind
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}
	return ks
}

func TestTokenizeEmptyArray(t *testing.T) {
	toks := lexer.New("t.brs", "_ = []").Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, []token.Kind{
		token.IDENT, token.OP_ASSIGN, token.BRACKET_L, token.BRACKET_R, token.EOF,
	}, kinds(toks))
}

func TestTokenizeArrayAcrossBlankLines(t *testing.T) {
	toks := lexer.New("t.brs", "_ = [ \n \n \n ]").Tokenize()
	assert.Equal(t, []token.Kind{
		token.IDENT, token.OP_ASSIGN, token.BRACKET_L,
		token.NEWLINE, token.NEWLINE, token.NEWLINE,
		token.BRACKET_R, token.EOF,
	}, kinds(toks))
}

func TestTokenizeKeywordReserved(t *testing.T) {
	toks := lexer.New("t.brs", "sub main()").Tokenize()
	require.GreaterOrEqual(t, len(toks), 1)
	assert.True(t, toks[0].IsReserved)
	assert.Equal(t, "sub", toks[0].Text)
}

func TestTokenizeComparisonOperators(t *testing.T) {
	toks := lexer.New("t.brs", "a <= b <> c >= d").Tokenize()
	assert.Equal(t, []token.Kind{
		token.IDENT, token.OP_LTE, token.IDENT, token.OP_NEQ,
		token.IDENT, token.OP_GTE, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestTokenizeStringAndNumberLiterals(t *testing.T) {
	toks := lexer.New("t.brs", `x = "hi" + 3.5`).Tokenize()
	assert.Equal(t, []token.Kind{
		token.IDENT, token.OP_ASSIGN, token.STRING_LITERAL,
		token.OP_PLUS, token.FLOAT_LITERAL, token.EOF,
	}, kinds(toks))
}

func TestSourceLookahead(t *testing.T) {
	toks := lexer.New("t.brs", "a b").Tokenize()
	src := lexer.NewSource(toks)
	assert.Nil(t, src.Token())
	assert.Equal(t, "a", src.Peek().Text)
	require.True(t, src.Scan())
	assert.Equal(t, "a", src.Token().Text)
	assert.Equal(t, "b", src.Peek().Text)
	require.True(t, src.Scan())
	assert.Equal(t, "b", src.Token().Text)
}
