package eval

import (
	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/vals"
)

// The types in this file form the compiled representation handed to the
// evaluator. They are produced by the parser/compiler, which resolves
// variable IDs, declaration IDs and closure capture lists ahead of time.

// Param is one formal parameter of a block.
type Param struct {
	Name string
	ID   vals.VarID
}

// Block is a compiled body: a parameter list, the free variables to snapshot
// when a literal of this block is evaluated, and the statements.
type Block struct {
	ID        vals.BlockID
	Params    []Param
	Captures  []vals.VarID
	Pipelines []*Pipeline
	diag.Ranging
}

// Pipeline is one statement: a chain of elements connected by pipes.
type Pipeline struct {
	Elements []Expr
	diag.Ranging
}

// Expr is a compiled expression.
type Expr interface {
	diag.Ranger
	expr()
}

// LiteralExpr evaluates to a fixed value.
type LiteralExpr struct {
	Val vals.Value
}

func (e LiteralExpr) expr()               {}
func (e LiteralExpr) Range() diag.Ranging { return e.Val.Range() }

// VarExpr reads a variable.
type VarExpr struct {
	ID   vals.VarID
	Name string
	diag.Ranging
}

func (e VarExpr) expr() {}

// EnvExpr reads an environment variable. An optional access yields Nothing
// instead of failing when the variable is absent.
type EnvExpr struct {
	Name     string
	Optional bool
	diag.Ranging
}

func (e EnvExpr) expr() {}

// ListExpr builds a list.
type ListExpr struct {
	Items []Expr
	diag.Ranging
}

func (e ListExpr) expr() {}

// RecordExpr builds a record; Keys and Values are parallel. The parser
// guarantees key uniqueness.
type RecordExpr struct {
	Keys   []string
	Values []Expr
	diag.Ranging
}

func (e RecordExpr) expr() {}

// BlockExpr evaluates to a closure: the block plus a snapshot of its free
// variables taken from the current stack.
type BlockExpr struct {
	Block vals.BlockID
	diag.Ranging
}

func (e BlockExpr) expr() {}

// NamedArg is a flag argument of a call. A nil Value marks a switch.
type NamedArg struct {
	Name  string
	Value Expr
	diag.Ranging
}

// CallExpr invokes a command declaration with unevaluated arguments. The
// command pulls and coerces the arguments it needs through the Call helpers.
type CallExpr struct {
	Decl  DeclID
	Name  string
	Args  []Expr
	Named []NamedArg
	diag.Ranging
}

func (e CallExpr) expr() {}

// PathExpr accesses a cell path on the value of an inner expression.
type PathExpr struct {
	Inner Expr
	Path  vals.Path
	diag.Ranging
}

func (e PathExpr) expr() {}

// BinaryOp enumerates binary operators.
type BinaryOp int

// Binary operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	diag.Ranging
}

func (e BinaryExpr) expr() {}
