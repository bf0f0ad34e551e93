package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bsc-analyze/bsc/parser/token"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "identifier", token.IDENT.String())
	assert.Equal(t, "EOF", token.EOF.String())
	assert.Equal(t, "invalid", token.Kind(9999).String())
}

func TestPositionLess(t *testing.T) {
	assert.True(t, (token.Position{Line: 1, Col: 1}).Less(token.Position{Line: 1, Col: 2}))
	assert.True(t, (token.Position{Line: 1, Col: 5}).Less(token.Position{Line: 2, Col: 1}))
	assert.False(t, (token.Position{Line: 2, Col: 1}).Less(token.Position{Line: 1, Col: 5}))
}

func TestRangeUnion(t *testing.T) {
	a := token.Range{Start: token.Position{Line: 1, Col: 1}, End: token.Position{Line: 1, Col: 5}}
	b := token.Range{Start: token.Position{Line: 5, Col: 1}, End: token.Position{Line: 6, Col: 1}}
	u := token.Union(a, b)
	assert.Equal(t, token.Position{Line: 1, Col: 1}, u.Start)
	assert.Equal(t, token.Position{Line: 6, Col: 1}, u.End)

	assert.Equal(t, b, token.Union(token.Range{}, b))
	assert.Equal(t, a, token.Union(a, token.Range{}))
}

func TestLocationString(t *testing.T) {
	loc := &token.Location{File: "main.brs", Range: token.Range{Start: token.Position{Line: 3, Col: 7}}}
	assert.Equal(t, "main.brs:3:7", loc.String())

	noCol := &token.Location{File: "main.brs", Range: token.Range{Start: token.Position{Line: 3}}}
	assert.Equal(t, "main.brs:3", noCol.String())

	noLine := &token.Location{File: "main.brs"}
	assert.Equal(t, "main.brs", noLine.String())

	var nilLoc *token.Location
	assert.Equal(t, "<unknown>", nilLoc.String())
}
