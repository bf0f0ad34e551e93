// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCommand_DefaultFlags(t *testing.T) {
	cmd := AnalyzeCommand()
	assert.Equal(t, "analyze [flags] [files...]", cmd.Use)
	for _, name := range []string{"json", "workspace", "superset"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestAnalyzeCommand_NeverExitsOnDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.brs")
	require.NoError(t, os.WriteFile(path, []byte("sub main()\n  doThing()\nend sub\n"), 0o600))

	called := false
	cmd := AnalyzeCommand(WithExit(func(int) { called = true }))
	cmd.SetArgs([]string{path})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	assert.False(t, called, "analyze should report without exiting")
}

func TestAnalyzeCommand_WorkspaceScansDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.brs"), []byte("sub main()\n  helper()\nend sub\n"), 0o600))

	called := false
	cmd := AnalyzeCommand(WithExit(func(int) { called = true }))
	cmd.SetArgs([]string{"--workspace", dir})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	assert.False(t, called)
}

func TestAnalyzeCommand_BadInvocationExitsTwo(t *testing.T) {
	var code int
	cmd := AnalyzeCommand(WithExit(func(c int) { code = c }))
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.brs")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 2, code)
}
