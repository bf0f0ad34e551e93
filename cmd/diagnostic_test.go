// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/parser/token"
)

func TestColorMode(t *testing.T) {
	orig := colorFlag
	defer func() { colorFlag = orig }()

	colorFlag = "always"
	assert.Equal(t, diagnostic.ColorAlways, colorMode())
	colorFlag = "never"
	assert.Equal(t, diagnostic.ColorNever, colorMode())
	colorFlag = "auto"
	assert.Equal(t, diagnostic.ColorAuto, colorMode())
}

func TestWriteJSONDiagnostics(t *testing.T) {
	d := diagnostic.New(diagnostic.CodeCallToUnknownFunction, "main.brs",
		token.Range{Start: token.Position{Line: 2, Col: 3}, End: token.Position{Line: 2, Col: 10}},
		"unknown function \"doThing\"")

	var buf bytes.Buffer
	require.NoError(t, writeJSONDiagnostics(&buf, []diagnostic.Diagnostic{d}))

	var out []jsonDiagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "call-to-unknown-function", out[0].Kind)
	assert.Equal(t, "error", out[0].Severity)
	assert.Equal(t, "main.brs", out[0].File)
	assert.Equal(t, 2, out[0].Line)
}
