// Copyright © 2024 The ELPS authors

package langserver

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/program"
)

// DocumentSymbols lists the top-level callables and classes declared in
// absPath, spec §4.6's document-outline service. Class methods and fields
// nest under their owning class as children, mirroring the source's own
// nesting rather than flattening everything to one level.
func DocumentSymbols(p *program.Program, absPath string) ([]protocol.DocumentSymbol, error) {
	m, ok := p.File(absPath)
	if !ok || m.Code == nil {
		return nil, nil
	}
	cf := m.Code

	var symbols []protocol.DocumentSymbol
	for _, stmt := range cf.Statements {
		symbols = append(symbols, topLevelSymbols(stmt)...)
	}
	return symbols, nil
}

func topLevelSymbols(stmt ast.Statement) []protocol.DocumentSymbol {
	switch n := stmt.(type) {
	case *ast.FunctionStatement:
		return []protocol.DocumentSymbol{functionSymbol(n)}
	case *ast.ClassStatement:
		return []protocol.DocumentSymbol{classSymbol(n)}
	case *ast.NamespaceStatement:
		var out []protocol.DocumentSymbol
		for _, s := range n.Body {
			out = append(out, topLevelSymbols(s)...)
		}
		return out
	default:
		return nil
	}
}

func functionSymbol(fn *ast.FunctionStatement) protocol.DocumentSymbol {
	r := fromRange(fn.Range())
	sel := fromRange(fn.NameRange)
	detail := signatureDetail(fn.Signature)
	return protocol.DocumentSymbol{
		Name:           fn.Name,
		Detail:         &detail,
		Kind:           protocol.SymbolKindFunction,
		Range:          r,
		SelectionRange: sel,
	}
}

func classSymbol(cls *ast.ClassStatement) protocol.DocumentSymbol {
	r := fromRange(cls.Range())
	sel := fromRange(cls.NameRange)

	var children []protocol.DocumentSymbol
	for _, f := range cls.Fields {
		fr := fromRange(f.NameRange)
		children = append(children, protocol.DocumentSymbol{
			Name:           f.Name,
			Kind:           protocol.SymbolKindField,
			Range:          fr,
			SelectionRange: fr,
		})
	}
	for _, meth := range cls.Methods {
		children = append(children, functionSymbol(meth))
	}

	return protocol.DocumentSymbol{
		Name:           cls.Name,
		Kind:           protocol.SymbolKindClass,
		Range:          r,
		SelectionRange: sel,
		Children:       children,
	}
}

func signatureDetail(sig ast.Signature) string {
	if len(sig.Params) == 0 {
		return "()"
	}
	out := "("
	for i, p := range sig.Params {
		if i > 0 {
			out += ", "
		}
		out += p.Name
		if p.IsOptional {
			out += "?"
		}
	}
	return out + ")"
}
