// Package ast defines the dialect's abstract syntax tree as a closed set of
// tagged variants (spec §3, §9 Design Notes: "Dynamic tag dispatch on AST
// nodes → tagged variants"). Every concrete node type implements Node and
// belongs to exactly one of the two variant families, Statement or
// Expression; callers exhaustively switch on the concrete type rather than
// on a runtime kind tag, so the compiler flags any new variant a consumer
// forgot to handle.
package ast

import "github.com/bsc-analyze/bsc/parser/token"

// Node is implemented by every AST node. Range spans from the node's first
// consumed token to its last, per spec §4.1's range semantics.
type Node interface {
	Range() token.Range
}

// Statement is the variant family for top-level and nested statements.
type Statement interface {
	Node
	statementNode()
}

// Expression is the variant family for value-producing syntax.
type Expression interface {
	Node
	expressionNode()
}

// base carries the common Range field embedded by every concrete node.
type base struct {
	Rng token.Range
}

// Range implements Node.
func (b base) Range() token.Range { return b.Rng }

// Param describes one entry of a callable's signature: name, an optional
// declared type, whether it's optional, and (when optional) its default
// value expression — spec §3 FunctionStatement.signature.
type Param struct {
	Name       string
	NameRange  token.Range
	Type       string // "" when no explicit type annotation is present
	IsOptional bool
	Default    Expression // nil unless IsOptional
}

// IsFunctionType reports whether the param's declared type names a
// callable value (used by shadowed-local detection, spec §4.4.4).
func (p Param) IsFunctionType() bool {
	return p.Type == "function" || p.Type == "functionclosure"
}

// Signature is the parameter list of a callable.
type Signature struct {
	Params []Param
}

// MinArity is the count of required (non-optional) parameters.
func (s Signature) MinArity() int {
	n := 0
	for _, p := range s.Params {
		if !p.IsOptional {
			n++
		}
	}
	return n
}

// MaxArity is the total parameter count.
func (s Signature) MaxArity() int {
	return len(s.Params)
}
