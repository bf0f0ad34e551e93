// Copyright © 2024 The ELPS authors

package langserver

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/program"
	"github.com/bsc-analyze/bsc/scope"
)

// Completion lists the locals and callables visible at pos whose name
// starts with prefix, spec §4.6's completion service. Since this package
// holds no copy of the live buffer text, prefix extraction (finding the
// partial word under the cursor) is the caller's responsibility — the
// transport layer already has the open document's content.
func Completion(p *program.Program, absPath string, pos protocol.Position, mode parser.Mode, prefix string) ([]protocol.CompletionItem, error) {
	m, ok := p.File(absPath)
	if !ok || m.Code == nil {
		return nil, nil
	}
	cf := m.Code
	tpos := toPosition(pos)

	var items []protocol.CompletionItem
	seen := map[string]bool{}
	add := func(name string, kind protocol.CompletionItemKind, detail string) {
		lname := strings.ToLower(name)
		if seen[lname] {
			return
		}
		seen[lname] = true
		item := protocol.CompletionItem{Label: name, Kind: &kind}
		if detail != "" {
			item.Detail = &detail
		}
		items = append(items, item)
	}

	for fs := cf.FunctionScopeAt(tpos); fs != nil; fs = fs.Parent {
		for _, decl := range fs.Declarations {
			if prefix != "" && !strings.HasPrefix(decl.Name, prefix) {
				continue
			}
			kind := protocol.CompletionItemKindVariable
			if decl.IsFunctionType() {
				kind = protocol.CompletionItemKindFunction
			}
			add(decl.Name, kind, decl.Type)
		}
	}

	for _, c := range scopeForFile(p, absPath).GetCallablesAsCompletions(mode) {
		if prefix != "" && !strings.HasPrefix(c.Name, prefix) {
			continue
		}
		add(c.Name, protocol.CompletionItemKindFunction, callableDetail(c))
	}

	return items, nil
}

func callableDetail(c *scope.CallableContainer) string {
	if c.FuncStatement != nil {
		return signatureDetail(c.FuncStatement.Signature)
	}
	return ""
}
