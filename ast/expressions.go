package ast

import "github.com/bsc-analyze/bsc/parser/token"

func (*Identifier) expressionNode()     {}
func (*IntLiteral) expressionNode()     {}
func (*FloatLiteral) expressionNode()   {}
func (*StringLiteral) expressionNode()  {}
func (*BoolLiteral) expressionNode()    {}
func (*InvalidLiteral) expressionNode() {}
func (*ArrayLiteral) expressionNode()   {}
func (*AssocArrayLiteral) expressionNode() {}
func (*FunctionCall) expressionNode()   {}
func (*NewExpression) expressionNode()  {}
func (*BinaryExpr) expressionNode()     {}
func (*UnaryExpr) expressionNode()      {}
func (*DottedExpr) expressionNode()     {}
func (*IndexExpr) expressionNode()      {}
func (*FunctionLiteral) expressionNode() {}

// Identifier is a bare name reference.
type Identifier struct {
	base
	Name string
}

// IntLiteral is an integer literal.
type IntLiteral struct {
	base
	Value int64
	Text  string
}

// FloatLiteral is a floating point literal.
type FloatLiteral struct {
	base
	Value float64
	Text  string
}

// StringLiteral is a string literal (already unescaped).
type StringLiteral struct {
	base
	Value string
}

// BoolLiteral is a boolean literal.
type BoolLiteral struct {
	base
	Value bool
}

// InvalidLiteral is the dialect's null/"invalid" sentinel literal.
type InvalidLiteral struct {
	base
}

// AssocArrayEntry is one key:value pair of an AssocArrayLiteral.
type AssocArrayEntry struct {
	Key      string
	KeyRange token.Range
	Value    Expression
}

// ArrayLiteral is a bracketed list literal. Its Range spans from the
// opening bracket to the closing bracket even when items are separated
// across many blank lines — spec §4.1 range semantics, §8 scenario 2.
type ArrayLiteral struct {
	base
	Items []Expression
}

// AssocArrayLiteral is a bracketed key:value literal ("{...}" in the
// dialect), used to build the propertyNameCompletions catalog for a file.
type AssocArrayLiteral struct {
	base
	Entries []AssocArrayEntry
}

// FunctionCall is a call-expression collected during parsing: the callee
// name (possibly dotted, e.g. "obj.method"), its argument expressions, and
// the range of just the callee name token(s) — spec §3, used for
// unknown-function-call and argument-count diagnostics.
type FunctionCall struct {
	base
	CalleeName  string
	CalleeRange token.Range
	Args        []Expression
	Receiver    Expression // non-nil for obj.method(...) calls
}

// NewExpression is a superset-mode "new ClassName(args)" construction.
type NewExpression struct {
	base
	ClassName      []string
	ClassNameRange token.Range
	Args           []Expression
}

// BinaryOp is a closed set of binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

// BinaryExpr is a left-op-right expression.
type BinaryExpr struct {
	base
	Op    BinaryOp
	Left  Expression
	Right Expression
}

// UnaryOp is a closed set of unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// UnaryExpr is a prefix-operator expression.
type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand Expression
}

// DottedExpr is a member-access expression "receiver.name" that is not
// itself a call (no trailing parens).
type DottedExpr struct {
	base
	Receiver  Expression
	Name      string
	NameRange token.Range
}

// IndexExpr is an array/assoc-array subscript "target[index]".
type IndexExpr struct {
	base
	Target Expression
	Index  Expression
}

// FunctionLiteral is an inline anonymous sub/function used as a value,
// e.g. assigned to a local. Its presence as an assignment's Value is what
// FunctionScope records as a function-typed local (spec §4.2).
type FunctionLiteral struct {
	base
	Signature Signature
	Body      []Statement
}
