// Copyright © 2024 The ELPS authors

package langserver

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/parser/token"
	"github.com/bsc-analyze/bsc/program"
	"github.com/bsc-analyze/bsc/scope"
)

// SignatureHelp finds the call enclosing pos and returns its parameter
// hints and active argument index, spec §4.6's signature-help service.
func SignatureHelp(p *program.Program, absPath string, pos protocol.Position) (*protocol.SignatureHelp, error) {
	m, ok := p.File(absPath)
	if !ok || m.Code == nil {
		return nil, nil
	}
	cf := m.Code
	tpos := toPosition(pos)

	call := findEnclosingCall(cf.FunctionCalls, tpos)
	if call == nil || call.Receiver != nil {
		return nil, nil
	}

	callee := resolveCallable(p, absPath, call.CalleeName)
	if callee == nil {
		return nil, nil
	}

	return buildSignatureHelp(callee, argIndexAt(call, tpos)), nil
}

// findEnclosingCall returns the call whose full range contains pos and is
// narrowest — the innermost call when calls nest, e.g. foo(bar(x)).
func findEnclosingCall(calls []*ast.FunctionCall, pos token.Position) *ast.FunctionCall {
	var best *ast.FunctionCall
	for _, call := range calls {
		if !rangeContains(call.Range(), pos) {
			continue
		}
		if best == nil || rangeWidth(call.Range()) < rangeWidth(best.Range()) {
			best = call
		}
	}
	return best
}

func rangeWidth(r token.Range) int {
	lines := r.End.Line - r.Start.Line
	if lines != 0 {
		return lines*1_000_000 + r.End.Col - r.Start.Col
	}
	return r.End.Col - r.Start.Col
}

// argIndexAt returns the 0-based argument position pos falls within, or
// len(call.Args) when pos is past every argument.
func argIndexAt(call *ast.FunctionCall, pos token.Position) int {
	for i, arg := range call.Args {
		if !arg.Range().End.Less(pos) {
			return i
		}
	}
	// pos is past every argument's end (e.g. just after a trailing comma):
	// point at the next argument slot, which buildSignatureHelp clamps to
	// the signature's last parameter.
	return len(call.Args)
}

func buildSignatureHelp(c *scope.CallableContainer, activeParam int) *protocol.SignatureHelp {
	label := "(" + c.Name
	var params []protocol.ParameterInformation

	if c.FuncStatement != nil {
		offset := len(label) + 1
		for i, param := range c.FuncStatement.Signature.Params {
			text := param.Name
			if param.IsOptional {
				text += "?"
			}
			if i > 0 {
				label += " "
				offset++
			}
			label += text
			params = append(params, protocol.ParameterInformation{
				Label: []protocol.UInteger{safeUint(offset), safeUint(offset + len(text))},
			})
			offset += len(text)
		}
	}
	label += ")"

	maxIdx := len(params) - 1
	if activeParam > maxIdx {
		activeParam = maxIdx
	}
	if activeParam < 0 {
		activeParam = 0
	}
	active := protocol.UInteger(activeParam) // #nosec G115 -- clamped to [0, len(params)-1]

	sig := protocol.SignatureInformation{Label: label, Parameters: params}
	zero := protocol.UInteger(0)
	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sig},
		ActiveSignature: &zero,
		ActiveParameter: &active,
	}
}
