package ast

import "github.com/bsc-analyze/bsc/parser/token"

func (*NamespaceStatement) statementNode() {}
func (*ClassStatement) statementNode()     {}
func (*FunctionStatement) statementNode()  {}
func (*AssignmentStatement) statementNode() {}
func (*ExpressionStatement) statementNode() {}
func (*IfStatement) statementNode()        {}
func (*ForStatement) statementNode()       {}
func (*WhileStatement) statementNode()     {}
func (*ReturnStatement) statementNode()    {}
func (*DimStatement) statementNode()       {}
func (*ImportStatement) statementNode()    {}
func (*ErrorStatement) statementNode()     {}

// NamespaceStatement groups a dotted name path with a body of statements,
// spec §3. Superset-mode only.
type NamespaceStatement struct {
	base
	NamePath  []string
	NameRange token.Range
	Body      []Statement
}

// ClassField is one field member of a ClassStatement.
type ClassField struct {
	Name       string
	NameRange  token.Range
	Type       string
	Default    Expression
	IsFinal    bool
	Access     AccessModifier
}

// AccessModifier classifies a class member's declared visibility.
type AccessModifier int

const (
	AccessPublic AccessModifier = iota
	AccessProtected
	AccessPrivate
)

// ClassStatement declares a class: its name, optional parent class name
// (dotted, resolved by the class validator), member fields, member
// methods, and the enclosing namespace path — spec §3. Superset-mode only.
type ClassStatement struct {
	base
	Name           string
	NameRange      token.Range
	ParentName     []string // nil when no "extends" clause
	ParentRange    token.Range
	Fields         []*ClassField
	Methods        []*FunctionStatement
	NamespacePath  []string
}

// FunctionStatement declares a named callable — a top-level sub/function, a
// namespace member, or a class method (Receiver set in that case) — spec §3.
type FunctionStatement struct {
	base
	Name         string
	NameRange    token.Range
	Signature    Signature
	Body         []Statement
	ReturnType   string
	NamespacePath []string
	IsMethod     bool
	IsOverride   bool
	IsFinal      bool
	Access       AccessModifier
}

// AssignmentStatement binds Target to the value of Value; Target is usually
// an Identifier but may be an IndexExpr or DottedExpr for element/member
// assignment.
type AssignmentStatement struct {
	base
	Target Expression
	Value  Expression
}

// ExpressionStatement evaluates an expression for effect (typically a
// FunctionCall).
type ExpressionStatement struct {
	base
	Expr Expression
}

// IfStatement is a conditional with optional else-if chain and else body.
type IfStatement struct {
	base
	Cond       Expression
	Then       []Statement
	ElseIfConds []Expression
	ElseIfBodies [][]Statement
	Else       []Statement
}

// ForStatement is a counting loop: for Var = From to To step Step.
type ForStatement struct {
	base
	Var  string
	From Expression
	To   Expression
	Step Expression // nil when omitted
	Body []Statement
}

// WhileStatement is a conditional loop.
type WhileStatement struct {
	base
	Cond Expression
	Body []Statement
}

// ReturnStatement optionally carries a value expression.
type ReturnStatement struct {
	base
	Value Expression // nil for a bare "return"
}

// DimStatement declares an array variable with explicit dimensions.
type DimStatement struct {
	base
	Name string
	Dims []Expression
}

// ImportStatement is a superset-mode script import directive inside a code
// file (distinct from a descriptor file's script-tag imports).
type ImportStatement struct {
	base
	Path string
}

// ErrorStatement is a placeholder the parser inserts at a recovery point so
// the surrounding statement list stays well-formed even though the source
// text there was unparseable — spec §4.1 error recovery.
type ErrorStatement struct {
	base
	Message string
}
