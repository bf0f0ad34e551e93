// Copyright © 2024 The ELPS authors

package langserver

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/codefile"
	"github.com/bsc-analyze/bsc/descriptor"
	"github.com/bsc-analyze/bsc/parser/token"
	"github.com/bsc-analyze/bsc/program"
)

// Definition resolves the callable, class, or component-extends reference
// at pos to its declaration site, spec §4.6's go-to-definition service.
// It returns nil when pos names a platform builtin (no navigable
// source), a dotted method call (receiver-type resolution is out of
// scope, matching scope.checkUnknownCalls), an unresolved extends
// attribute, or nothing at all.
func Definition(p *program.Program, absPath string, pos protocol.Position) (*protocol.Location, error) {
	m, ok := p.File(absPath)
	if !ok {
		return nil, nil
	}
	if m.Descriptor != nil {
		return definitionForDescriptor(m.Descriptor, toPosition(pos)), nil
	}
	if m.Code == nil {
		return nil, nil
	}
	cf := m.Code
	tpos := toPosition(pos)

	if call := findCallAtName(cf, tpos); call != nil {
		return definitionForCall(p, absPath, cf, call)
	}
	if ne := findNewAtName(cf, tpos); ne != nil {
		return definitionForClass(p, absPath, ne)
	}
	return nil, nil
}

// definitionForDescriptor resolves a query position within a component
// descriptor's "extends" attribute to its resolved parent's source file
// (spec §4.6: "if the query position is within parentNameRange and the
// descriptor has a resolved parent, return the zero-range location of
// that parent's source file").
func definitionForDescriptor(df *descriptor.DescriptorFile, pos token.Position) *protocol.Location {
	if !rangeContains(df.ParentNameRange, pos) {
		return nil
	}
	parent := df.Parent()
	if parent == nil {
		return nil
	}
	return &protocol.Location{URI: pathToURI(parent.AbsolutePath), Range: protocol.Range{}}
}

func findCallAtName(cf *codefile.CodeFile, pos token.Position) *ast.FunctionCall {
	for _, call := range cf.FunctionCalls {
		if rangeContains(call.CalleeRange, pos) {
			return call
		}
	}
	return nil
}

func findNewAtName(cf *codefile.CodeFile, pos token.Position) *ast.NewExpression {
	for _, ne := range cf.NewExpressions {
		if rangeContains(ne.ClassNameRange, pos) {
			return ne
		}
	}
	return nil
}

func definitionForCall(p *program.Program, absPath string, cf *codefile.CodeFile, call *ast.FunctionCall) (*protocol.Location, error) {
	if call.Receiver != nil {
		return nil, nil
	}

	if local := cf.FunctionScopeAt(call.CalleeRange.Start).Lookup(call.CalleeName); local != nil {
		return &protocol.Location{URI: pathToURI(absPath), Range: fromRange(local.NameRange)}, nil
	}

	callee := resolveCallable(p, absPath, call.CalleeName)
	if callee == nil || callee.IsPlatform {
		return nil, nil
	}
	return &protocol.Location{URI: pathToURI(callee.File), Range: fromRange(callee.NameRange)}, nil
}

func definitionForClass(p *program.Program, absPath string, ne *ast.NewExpression) (*protocol.Location, error) {
	entry := resolveClass(p, absPath, ne.ClassName)
	if entry == nil {
		return nil, nil
	}
	return &protocol.Location{URI: pathToURI(entry.File), Range: fromRange(entry.Class.NameRange)}, nil
}
