// Copyright © 2024 The ELPS authors

package langserver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bsc-analyze/bsc/langserver"
	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/parser/lexer"
	"github.com/bsc-analyze/bsc/parser/token"
	"github.com/bsc-analyze/bsc/program"
	"github.com/bsc-analyze/bsc/scope"
)

func tokens(absPath, src string) token.Source {
	return lexer.NewSource(lexer.New(absPath, src).Tokenize())
}

func acceptAll(scope.Member) bool { return true }

func TestDefinitionResolvesFunctionCall(t *testing.T) {
	p := program.New()
	p.AddScope("all", acceptAll)
	const path = "/proj/main.brs"
	src := "sub main()\n  doThing()\nend sub\nsub doThing()\nend sub\n"
	p.AddFile(path, path, parser.Baseline, tokens(path, src))

	loc, err := langserver.Definition(p, path, protocol.Position{Line: 1, Character: 4})
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, protocol.Position{Line: 3, Character: 4}, loc.Range.Start)
}

func TestDefinitionReturnsNilForPlatformBuiltin(t *testing.T) {
	p := program.New()
	p.AddScope("all", acceptAll)
	const path = "/proj/main.brs"
	src := "sub main()\n  print(\"hi\")\nend sub\n"
	p.AddFile(path, path, parser.Baseline, tokens(path, src))

	loc, err := langserver.Definition(p, path, protocol.Position{Line: 1, Character: 4})
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestDefinitionResolvesClassConstruction(t *testing.T) {
	p := program.New()
	p.AddScope("all", acceptAll)
	const path = "/proj/main.brs"
	src := "class Animal\nend class\nsub main()\n  a = new Animal()\nend sub\n"
	p.AddFile(path, path, parser.Superset, tokens(path, src))

	loc, err := langserver.Definition(p, path, protocol.Position{Line: 3, Character: 11})
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, loc.Range.Start)
}

func TestDefinitionResolvesDescriptorExtendsToParentFile(t *testing.T) {
	p := program.New()
	_, err := p.AddDescriptorFile("/proj/components/Animal.xml", "components/Animal.xml",
		[]byte(`<component name="Animal"></component>`))
	require.NoError(t, err)
	_, err = p.AddDescriptorFile("/proj/components/Dog.xml", "components/Dog.xml",
		[]byte(`<component name="Dog" extends="Animal"></component>`))
	require.NoError(t, err)

	loc, err := langserver.Definition(p, "/proj/components/Dog.xml", protocol.Position{Line: 0, Character: 33})
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "/proj/components/Animal.xml", strings.TrimPrefix(loc.URI, "file://"))
	assert.Equal(t, protocol.Range{}, loc.Range)
}

func TestDefinitionReturnsNilForUnresolvedDescriptorExtends(t *testing.T) {
	p := program.New()
	_, err := p.AddDescriptorFile("/proj/components/Dog.xml", "components/Dog.xml",
		[]byte(`<component name="Dog" extends="Animal"></component>`))
	require.NoError(t, err)

	loc, err := langserver.Definition(p, "/proj/components/Dog.xml", protocol.Position{Line: 0, Character: 33})
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestDocumentSymbolsListsFunctionsAndClasses(t *testing.T) {
	p := program.New()
	const path = "/proj/main.brs"
	src := "class Animal\n  public name as string\n  function speak()\n  end function\nend class\nsub main()\nend sub\n"
	p.AddFile(path, path, parser.Superset, tokens(path, src))

	syms, err := langserver.DocumentSymbols(p, path)
	require.NoError(t, err)
	require.Len(t, syms, 2)

	assert.Equal(t, "Animal", syms[0].Name)
	assert.Equal(t, protocol.SymbolKindClass, syms[0].Kind)
	require.Len(t, syms[0].Children, 2)
	assert.Equal(t, "name", syms[0].Children[0].Name)
	assert.Equal(t, "speak", syms[0].Children[1].Name)

	assert.Equal(t, "main", syms[1].Name)
	assert.Equal(t, protocol.SymbolKindFunction, syms[1].Kind)
}

func TestCompletionFiltersByPrefixAndIncludesLocals(t *testing.T) {
	p := program.New()
	p.AddScope("all", acceptAll)
	const path = "/proj/main.brs"
	src := "sub main()\n  dogName = \"Rex\"\n  \nend sub\nsub doThing()\nend sub\n"
	p.AddFile(path, path, parser.Baseline, tokens(path, src))

	items, err := langserver.Completion(p, path, protocol.Position{Line: 2, Character: 2}, parser.Baseline, "doT")
	require.NoError(t, err)

	var names []string
	for _, item := range items {
		names = append(names, item.Label)
	}
	assert.Contains(t, names, "doThing")
	assert.NotContains(t, names, "dogName")
}

func TestSignatureHelpReportsActiveParameter(t *testing.T) {
	p := program.New()
	p.AddScope("all", acceptAll)
	const path = "/proj/main.brs"
	src := "sub main()\n  addNums(1, 2)\nend sub\nfunction addNums(a, b)\n  return a + b\nend function\n"
	p.AddFile(path, path, parser.Baseline, tokens(path, src))

	help, err := langserver.SignatureHelp(p, path, protocol.Position{Line: 1, Character: 13})
	require.NoError(t, err)
	require.NotNil(t, help)
	require.Len(t, help.Signatures, 1)
	require.NotNil(t, help.ActiveParameter)
	assert.Equal(t, protocol.UInteger(1), *help.ActiveParameter)
}

func TestSignatureHelpReturnsNilOutsideAnyCall(t *testing.T) {
	p := program.New()
	p.AddScope("all", acceptAll)
	const path = "/proj/main.brs"
	src := "sub main()\nend sub\n"
	p.AddFile(path, path, parser.Baseline, tokens(path, src))

	help, err := langserver.SignatureHelp(p, path, protocol.Position{Line: 0, Character: 0})
	require.NoError(t, err)
	assert.Nil(t, help)
}
