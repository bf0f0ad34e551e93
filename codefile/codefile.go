// Copyright © 2024 The ELPS authors

// Package codefile wraps parser output into the file-level model consumed
// by scopes (spec §4.2 File Model). A CodeFile indexes the callables,
// classes, namespaces, and call sites the parser already collected, and
// additionally builds the per-function variable tables ("function
// scopes") scope validation needs for unknown-call and shadowed-local
// detection.
package codefile

import (
	"sort"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/parser/token"
)

// Callable is a file- or namespace-level function exposed for cross-scope
// name resolution (the callable half of spec §3's CallableContainer; the
// owning-scope half is attached by the scope package when it flattens
// getOwnCallables/getAllCallables). Class methods are resolved through
// their receiver expression, not through this list.
type Callable struct {
	*ast.FunctionStatement
	File string // AbsolutePath of the owning CodeFile
}

// CodeFile is a parsed source file plus its derived analysis views.
type CodeFile struct {
	AbsolutePath string
	PkgPath      string

	Statements  []ast.Statement
	Diagnostics []diagnostic.Diagnostic

	NamespaceStatements []*ast.NamespaceStatement
	ClassStatements     []*ast.ClassStatement
	FunctionCalls       []*ast.FunctionCall
	NewExpressions      []*ast.NewExpression
	Comments            []*token.Token

	Callables               []*Callable
	FunctionScopes          []*FunctionScope
	PropertyNameCompletions []string

	fileScope *FunctionScope
}

// New parses src and builds the full file model. mode selects the parser's
// grammar variant; absPath is the file-system key, pkgPath the
// project-relative package path used by script imports.
func New(absPath, pkgPath string, mode parser.Mode, src token.Source) *CodeFile {
	p := parser.New(absPath, src, mode)
	stmts, diags := p.Parse()

	cf := &CodeFile{
		AbsolutePath:        absPath,
		PkgPath:             pkgPath,
		Statements:          stmts,
		Diagnostics:         diags,
		NamespaceStatements: p.NamespaceStatements,
		ClassStatements:     p.ClassStatements,
		FunctionCalls:       p.FunctionCalls,
		NewExpressions:      p.NewExpressions,
		Comments:            p.Comments,
	}

	for _, fn := range p.FunctionStatements {
		if !fn.IsMethod {
			cf.Callables = append(cf.Callables, &Callable{FunctionStatement: fn, File: absPath})
		}
	}

	cf.fileScope = &FunctionScope{File: cf, Declarations: map[string]*VarDecl{}}
	cf.FunctionScopes = append(cf.FunctionScopes, cf.fileScope)
	walkStatements(cf, stmts, cf.fileScope)

	cf.buildPropertyNameCompletions()

	return cf
}

// PackagePath implements the descriptor package's File capability set
// (spec §9 Design Note: "Polymorphic file type → capability set").
func (cf *CodeFile) PackagePath() string { return cf.PkgPath }

// FileScope is the file-level scope: declarations made outside any
// function body.
func (cf *CodeFile) FileScope() *FunctionScope {
	return cf.fileScope
}

// FunctionScopeAt returns the narrowest FunctionScope whose range contains
// pos, falling back to the file scope — spec §4.4.2's
// getFunctionScopeAtPosition. Candidates are compared by range width
// rather than declaration order, since an enclosing function's scope is
// appended before the nested functions discovered while walking its body.
func (cf *CodeFile) FunctionScopeAt(pos token.Position) *FunctionScope {
	var narrowest *FunctionScope
	for _, fs := range cf.FunctionScopes {
		if fs.Owner == nil {
			continue
		}
		if !rangeContains(fs.Range, pos) {
			continue
		}
		if narrowest == nil || rangeNarrower(fs.Range, narrowest.Range) {
			narrowest = fs
		}
	}
	if narrowest != nil {
		return narrowest
	}
	return cf.fileScope
}

// rangeNarrower reports whether a spans fewer lines than b, or the same
// number of lines with a smaller column span — so the narrowest
// candidate can be selected without a source text length to measure
// against.
func rangeNarrower(a, b token.Range) bool {
	aLines, bLines := a.End.Line-a.Start.Line, b.End.Line-b.Start.Line
	if aLines != bLines {
		return aLines < bLines
	}
	return a.End.Col-a.Start.Col < b.End.Col-b.Start.Col
}

func rangeContains(r token.Range, pos token.Position) bool {
	return !pos.Less(r.Start) && pos.Less(r.End)
}

// buildPropertyNameCompletions collects distinct field and method names
// declared across this file's classes, for dotted-member completion when
// the receiver's static type is unknown — spec §2 item 3's
// "propertyNameCompletions catalog".
func (cf *CodeFile) buildPropertyNameCompletions() {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, cls := range cf.ClassStatements {
		for _, f := range cls.Fields {
			add(f.Name)
		}
		for _, m := range cls.Methods {
			add(m.Name)
		}
	}
	sort.Strings(names)
	cf.PropertyNameCompletions = names
}
