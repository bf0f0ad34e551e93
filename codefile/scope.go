// Copyright © 2024 The ELPS authors

package codefile

import (
	"strings"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/parser/token"
)

// VarDecl is one local variable declaration inside a FunctionScope: its
// name, the range of the declaring token, and its inferred type (spec
// §4.2: "of particular importance: whether the declared type is a
// function type").
type VarDecl struct {
	Name      string
	NameRange token.Range
	Type      string // "", "number", "string", "boolean", "array", "object", "function", or a class name
}

// IsFunctionType reports whether this declaration names a callable value
// (spec §4.4.4 shadowed-local detection).
func (v *VarDecl) IsFunctionType() bool {
	return v.Type == "function"
}

// FunctionScope is the per-function (or file-level, when Owner is nil)
// variable table (spec §4.2).
type FunctionScope struct {
	File         *CodeFile
	Owner        *ast.FunctionStatement // nil for the file-level scope
	Range        token.Range
	Parent       *FunctionScope
	Declarations map[string]*VarDecl
}

func (fs *FunctionScope) declare(name string, rng token.Range, typ string) {
	key := strings.ToLower(name)
	if existing, ok := fs.Declarations[key]; ok && typ == "" {
		// A later untyped re-assignment of an already-typed local keeps
		// the earlier inferred type rather than downgrading to unknown.
		existing.NameRange = rng
		return
	}
	fs.Declarations[key] = &VarDecl{Name: name, NameRange: rng, Type: typ}
}

// Lookup resolves name in this scope only, case-insensitively.
func (fs *FunctionScope) Lookup(name string) *VarDecl {
	return fs.Declarations[strings.ToLower(name)]
}

// walkStatements populates scope (and any nested function scopes it
// discovers) by visiting stmts. Namespace bodies flatten into the same
// scope they're declared in; each FunctionStatement (including class
// methods) gets its own child scope.
func walkStatements(cf *CodeFile, stmts []ast.Statement, scope *FunctionScope) {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.NamespaceStatement:
			walkStatements(cf, n.Body, scope)
		case *ast.ClassStatement:
			for _, m := range n.Methods {
				enterFunction(cf, m, scope)
			}
		case *ast.FunctionStatement:
			enterFunction(cf, n, scope)
		case *ast.AssignmentStatement:
			declareAssignment(scope, n)
		case *ast.ExpressionStatement:
			// No declarations; call sites are already tracked on the
			// CodeFile via the parser's FunctionCalls collection.
		case *ast.IfStatement:
			walkStatements(cf, n.Then, scope)
			for _, body := range n.ElseIfBodies {
				walkStatements(cf, body, scope)
			}
			walkStatements(cf, n.Else, scope)
		case *ast.ForStatement:
			scope.declare(n.Var, stmt.Range(), "number")
			walkStatements(cf, n.Body, scope)
		case *ast.WhileStatement:
			walkStatements(cf, n.Body, scope)
		case *ast.DimStatement:
			scope.declare(n.Name, stmt.Range(), "array")
		}
	}
}

func enterFunction(cf *CodeFile, fn *ast.FunctionStatement, parent *FunctionScope) {
	fs := &FunctionScope{
		File:         cf,
		Owner:        fn,
		Range:        fn.Range(),
		Parent:       parent,
		Declarations: map[string]*VarDecl{},
	}
	for _, p := range fn.Signature.Params {
		typ := p.Type
		if typ == "" && p.Default != nil {
			typ = inferExprType(p.Default)
		}
		fs.declare(p.Name, p.NameRange, typ)
	}
	cf.FunctionScopes = append(cf.FunctionScopes, fs)
	walkStatements(cf, fn.Body, fs)
}

func declareAssignment(scope *FunctionScope, stmt *ast.AssignmentStatement) {
	id, ok := stmt.Target.(*ast.Identifier)
	if !ok {
		return // member/index assignment, not a new local
	}
	scope.declare(id.Name, id.Range(), inferExprType(stmt.Value))
}

// inferExprType reports the static type a value expression contributes to
// a variable declaration (spec §4.2). It returns "" when no useful type
// can be inferred, which callers treat as "not a function type" and
// otherwise unknown.
func inferExprType(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral:
		return "number"
	case *ast.StringLiteral:
		return "string"
	case *ast.BoolLiteral:
		return "boolean"
	case *ast.ArrayLiteral:
		return "array"
	case *ast.AssocArrayLiteral:
		return "object"
	case *ast.FunctionLiteral:
		return "function"
	case *ast.NewExpression:
		return strings.Join(v.ClassName, ".")
	default:
		return ""
	}
}
