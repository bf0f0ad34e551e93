// Copyright © 2024 The ELPS authors

package program_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/program"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestScanWorkspaceRegistersCodeAndDescriptorFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "components/Dog.brs", "sub main()\nend sub\n")
	writeFile(t, dir, "components/Dog.xml", `<component name="Dog">
  <script uri="pkg:/components/Dog.brs" />
</component>`)

	p := program.New()
	require.NoError(t, program.ScanWorkspace(p, dir, parser.Baseline))

	code, ok := p.File(filepath.Join(dir, "components/Dog.brs"))
	require.True(t, ok)
	assert.NotNil(t, code.Code)

	desc, ok := p.File(filepath.Join(dir, "components/Dog.xml"))
	require.True(t, ok)
	assert.NotNil(t, desc.Descriptor)
	assert.Equal(t, "Dog", desc.Descriptor.ComponentName)
}

func TestScanWorkspaceSkipsHiddenDirsAndOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".git/ignored.brs", "sub main()\nend sub\n")
	writeFile(t, dir, "README.md", "not source")
	writeFile(t, dir, "main.brs", "sub main()\nend sub\n")

	p := program.New()
	require.NoError(t, program.ScanWorkspace(p, dir, parser.Baseline))

	_, ok := p.File(filepath.Join(dir, "main.brs"))
	assert.True(t, ok)
	_, ok = p.File(filepath.Join(dir, ".git/ignored.brs"))
	assert.False(t, ok)
	_, ok = p.File(filepath.Join(dir, "README.md"))
	assert.False(t, ok)
}

func TestScanWorkspaceReturnsErrorForMissingRoot(t *testing.T) {
	p := program.New()
	err := program.ScanWorkspace(p, "/no/such/dir", parser.Baseline)
	assert.Error(t, err)
}

func TestScanWorkspaceReturnsErrorForCorruptDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.xml", "not markup at all")

	p := program.New()
	err := program.ScanWorkspace(p, dir, parser.Baseline)
	assert.Error(t, err)
}
