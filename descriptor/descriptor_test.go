// Copyright © 2024 The ELPS authors

package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsc-analyze/bsc/descriptor"
)

func TestParseComponentNameAndExtends(t *testing.T) {
	src := []byte(`<component name="Dog" extends="Animal">
  <script uri="pkg:/components/Dog.brs" />
</component>`)
	df, err := descriptor.Parse("/proj/Dog.xml", "components/Dog.xml", src)
	require.NoError(t, err)
	assert.Equal(t, "Dog", df.ComponentName)
	assert.Equal(t, "Animal", df.ParentName)
	require.Len(t, df.ScriptTagImports, 1)
	assert.Equal(t, "components/Dog.brs", df.ScriptTagImports[0].PkgPath)
}

func TestParseWithoutExtends(t *testing.T) {
	src := []byte(`<component name="Animal">
  <script uri="pkg:/components/Animal.brs" />
</component>`)
	df, err := descriptor.Parse("/proj/Animal.xml", "components/Animal.xml", src)
	require.NoError(t, err)
	assert.Empty(t, df.ParentName)
}

func TestParseMissingRootElementIsUnrecoverable(t *testing.T) {
	_, err := descriptor.Parse("/proj/bad.xml", "bad.xml", []byte("not markup at all"))
	require.Error(t, err)
}

func TestAttachParentEmitsEvent(t *testing.T) {
	parent := mustParse(t, `<component name="Animal"></component>`)
	child := mustParse(t, `<component name="Dog" extends="Animal"></component>`)

	var got *descriptor.DescriptorFile
	child.OnAttachParent(func(p *descriptor.DescriptorFile) { got = p })

	child.AttachParent(parent)
	assert.Same(t, parent, got)
	assert.Same(t, parent, child.Parent())
}

func TestDetachParentEmitsEvent(t *testing.T) {
	parent := mustParse(t, `<component name="Animal"></component>`)
	child := mustParse(t, `<component name="Dog" extends="Animal"></component>`)
	child.AttachParent(parent)

	detached := false
	child.OnDetachParent(func(p *descriptor.DescriptorFile) { detached = true })
	child.DetachParent()

	assert.True(t, detached)
	assert.Nil(t, child.Parent())
}

func TestGetAncestorScriptTagImportsIsParentsFirst(t *testing.T) {
	grandparent := mustParseWithScript(t, "Base", "", "pkg:/base.brs")
	parent := mustParseWithScript(t, "Animal", "Base", "pkg:/animal.brs")
	child := mustParseWithScript(t, "Dog", "Animal", "pkg:/dog.brs")

	parent.AttachParent(grandparent)
	child.AttachParent(parent)

	imports := child.GetAncestorScriptTagImports()
	require.Len(t, imports, 2)
	assert.Equal(t, "base.brs", imports[0].PkgPath)
	assert.Equal(t, "animal.brs", imports[1].PkgPath)
}

func TestDoesReferenceFileMatchesScriptImport(t *testing.T) {
	df := mustParseWithScript(t, "Dog", "", "pkg:/components/dog.brs")
	assert.True(t, df.DoesReferenceFile(fakeFile("components/dog.brs")))
	assert.False(t, df.DoesReferenceFile(fakeFile("components/cat.brs")))
	assert.True(t, df.DoesReferenceFile(df))
}

func mustParse(t *testing.T, src string) *descriptor.DescriptorFile {
	t.Helper()
	df, err := descriptor.Parse("/proj/t.xml", "t.xml", []byte(src))
	require.NoError(t, err)
	return df
}

func mustParseWithScript(t *testing.T, name, extends, uri string) *descriptor.DescriptorFile {
	t.Helper()
	attrs := `name="` + name + `"`
	if extends != "" {
		attrs += ` extends="` + extends + `"`
	}
	src := `<component ` + attrs + `><script uri="` + uri + `" /></component>`
	return mustParse(t, src)
}

type fakeFile string

func (f fakeFile) PackagePath() string { return string(f) }
